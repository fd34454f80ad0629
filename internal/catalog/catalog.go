// Package catalog holds the resource definitions that switchable options are
// resolved against.
package catalog

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicateDefinition is returned when a resource name is defined twice.
var ErrDuplicateDefinition = errors.New("catalog: duplicate resource definition")

// Definition describes one resource kind.
type Definition struct {
	Name        string
	DisplayName string
	Density     float64 // tons per unit
	UnitCost    float64
}

// Title returns the human-readable name, falling back to Name.
func (d *Definition) Title() string {
	if d.DisplayName == "" {
		return d.Name
	}
	return d.DisplayName
}

// Catalog maps resource names to definitions.
type Catalog struct {
	defs map[string]*Definition
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{defs: make(map[string]*Definition)}
}

// Add registers a definition. Names must be unique.
func (c *Catalog) Add(def Definition) error {
	if def.Name == "" {
		return errors.New("catalog: resource name is required")
	}
	if _, exists := c.defs[def.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateDefinition, def.Name)
	}
	c.defs[def.Name] = &def
	return nil
}

// Lookup returns the definition for name.
func (c *Catalog) Lookup(name string) (*Definition, bool) {
	def, ok := c.defs[name]
	return def, ok
}

// Names returns all defined resource names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.defs))
	for name := range c.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	return len(c.defs)
}
