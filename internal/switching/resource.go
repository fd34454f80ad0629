package switching

import (
	"fmt"

	"github.com/dokzlo13/fuelswitch/internal/catalog"
)

// Resolver resolves resource names to their definitions.
type Resolver interface {
	Lookup(name string) (*catalog.Definition, bool)
}

// ResourceSpec is one declared resource entry as read from content.
// Nil numbers mean the value was not supplied.
type ResourceSpec struct {
	Name     string
	Amount   *float64
	Capacity *float64
}

// Descriptor is a validated resource kind with its declared amount and capacity.
type Descriptor struct {
	Kind     *catalog.Definition
	Amount   float64
	Capacity float64
}

// Name returns the resource kind name.
func (d Descriptor) Name() string {
	return d.Kind.Name
}

// Cost returns amount times the kind's unit cost.
func (d Descriptor) Cost() float64 {
	return d.Amount * d.Kind.UnitCost
}

// Mass returns the full-capacity mass in tons.
func (d Descriptor) Mass() float64 {
	return d.Capacity * d.Kind.Density
}

// ParseResources validates a block of resource entries. Any bad entry, or two
// entries naming the same kind, rejects the whole block.
func ParseResources(resolver Resolver, specs []ResourceSpec) ([]Descriptor, error) {
	descriptors := make([]Descriptor, 0, len(specs))
	seen := make(map[string]bool, len(specs))

	for i, spec := range specs {
		d, err := parseResource(resolver, spec)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidResource, i+1, err)
		}
		if seen[d.Name()] {
			return nil, fmt.Errorf("%w: duplicate definitions for resource '%s'", ErrInvalidResource, d.Name())
		}
		seen[d.Name()] = true
		descriptors = append(descriptors, d)
	}

	return descriptors, nil
}

func parseResource(resolver Resolver, spec ResourceSpec) (Descriptor, error) {
	if spec.Name == "" {
		return Descriptor{}, fmt.Errorf("missing required value 'name'")
	}
	def, ok := resolver.Lookup(spec.Name)
	if !ok {
		return Descriptor{}, fmt.Errorf("no such resource '%s' exists", spec.Name)
	}
	if spec.Amount == nil {
		return Descriptor{}, fmt.Errorf("%s: missing required value 'amount'", spec.Name)
	}
	if spec.Capacity == nil {
		return Descriptor{}, fmt.Errorf("%s: missing required value 'max_amount'", spec.Name)
	}

	amount, capacity := *spec.Amount, *spec.Capacity
	if amount < 0 {
		return Descriptor{}, fmt.Errorf("%s: amount must not be negative", spec.Name)
	}
	if capacity < amount {
		return Descriptor{}, fmt.Errorf("%s: max_amount must be greater than or equal to amount", spec.Name)
	}

	return Descriptor{Kind: def, Amount: amount, Capacity: capacity}, nil
}
