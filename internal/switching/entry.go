package switching

import (
	"fmt"
	"sort"
)

// DefaultSelectorLabel is used when a type does not name its selector.
const DefaultSelectorLabel = "Resources"

// TypeEntry is the full set of options for one part type.
type TypeEntry struct {
	typeID        string
	selectorLabel string
	order         []string
	bundles       map[string]*Bundle
	defaultID     string
	base          map[string]struct{}
}

func newTypeEntry(typeID, selectorLabel string, baseResources []string) *TypeEntry {
	if selectorLabel == "" {
		selectorLabel = DefaultSelectorLabel
	}
	e := &TypeEntry{
		typeID:        typeID,
		selectorLabel: selectorLabel,
		bundles:       make(map[string]*Bundle),
		base:          make(map[string]struct{}, len(baseResources)),
	}
	for _, name := range baseResources {
		e.base[name] = struct{}{}
	}
	return e
}

func (e *TypeEntry) add(b *Bundle, isDefault bool) error {
	if _, exists := e.bundles[b.ID()]; exists {
		return fmt.Errorf("%w: %s on %s", ErrDuplicateBundle, b.ID(), e.typeID)
	}
	e.bundles[b.ID()] = b
	e.order = append(e.order, b.ID())
	if isDefault && e.defaultID == "" {
		e.defaultID = b.ID()
	}
	return nil
}

// TypeID returns the part type this entry belongs to.
func (e *TypeEntry) TypeID() string { return e.typeID }

// SelectorLabel returns how the selector is labeled in the UI, e.g. "Fuel Type".
func (e *TypeEntry) SelectorLabel() string { return e.selectorLabel }

// Len returns the number of options.
func (e *TypeEntry) Len() int { return len(e.order) }

// IDs returns option ids in registration order.
func (e *TypeEntry) IDs() []string {
	return append([]string(nil), e.order...)
}

// Bundles returns options in registration order.
func (e *TypeEntry) Bundles() []*Bundle {
	out := make([]*Bundle, len(e.order))
	for i, id := range e.order {
		out[i] = e.bundles[id]
	}
	return out
}

// Bundle looks up an option by id.
func (e *TypeEntry) Bundle(id string) (*Bundle, error) {
	b, ok := e.bundles[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q on %s", ErrUnknownSelection, id, e.typeID)
	}
	return b, nil
}

// IsBase reports whether a resource kind belongs to the type's unconfigured definition.
func (e *TypeEntry) IsBase(name string) bool {
	_, ok := e.base[name]
	return ok
}

// BaseResources returns the base resource kinds, sorted.
func (e *TypeEntry) BaseResources() []string {
	out := make([]string, 0, len(e.base))
	for name := range e.base {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// DefaultID returns the first option flagged default, else the first registered,
// else "" when there is nothing to switch.
func (e *TypeEntry) DefaultID() string {
	if e.defaultID != "" {
		return e.defaultID
	}
	if len(e.order) > 0 {
		return e.order[0]
	}
	return ""
}

// IsDefault reports whether id is what DefaultID resolves to.
func (e *TypeEntry) IsDefault(id string) bool {
	return id != "" && id == e.DefaultID()
}

// NextID returns the option after id, wrapping around. It returns "" when id is unknown.
func (e *TypeEntry) NextID(id string) string {
	for i, candidate := range e.order {
		if candidate == id {
			return e.order[(i+1)%len(e.order)]
		}
	}
	return ""
}

// FindByLinkedTag returns the first option linked to tag verbatim, else the
// first wildcard option, else nil.
func (e *TypeEntry) FindByLinkedTag(tag string) *Bundle {
	var wildcard *Bundle
	for _, id := range e.order {
		b := e.bundles[id]
		if b.HasTag(tag) {
			return b
		}
		if wildcard == nil && b.HasTag(Wildcard) {
			wildcard = b
		}
	}
	return wildcard
}

// HasAnyLinkage reports whether any option carries linkage tags.
func (e *TypeEntry) HasAnyLinkage() bool {
	for _, b := range e.bundles {
		if b.IsLinked() {
			return true
		}
	}
	return false
}
