// Package switching implements switchable resource options for part types:
// the per-type registry built at load time and the reconciler that brings a
// live resource container in line with a selected option.
package switching

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
)

// Registration describes one option to add for a part type.
type Registration struct {
	TypeID        string
	BundleID      string
	DisplayName   string
	SelectorLabel string
	LinkedTags    []string
	IsDefault     bool
	Resources     []Descriptor

	// BaseResources are the resource kinds on the type's unconfigured
	// definition. Only the first registration for a type captures them.
	BaseResources []string
}

// Registry maps part type ids to their options. It is written during the load
// phase only; after Seal it is read-only and safe to share.
type Registry struct {
	entries map[string]*TypeEntry
	sealed  bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*TypeEntry)}
}

// Register adds an option, creating the type's entry on first use.
func (r *Registry) Register(reg Registration) (*Bundle, error) {
	if r.sealed {
		return nil, ErrRegistrySealed
	}
	if reg.TypeID == "" {
		return nil, errors.New("registration has no part type")
	}
	if reg.BundleID == "" {
		return nil, fmt.Errorf("%w: part type %s", ErrMissingBundleID, reg.TypeID)
	}

	entry, ok := r.entries[reg.TypeID]
	if !ok {
		entry = newTypeEntry(reg.TypeID, reg.SelectorLabel, reg.BaseResources)
	}

	bundle := NewBundle(reg.BundleID, reg.DisplayName, reg.LinkedTags, reg.Resources)
	if err := entry.add(bundle, reg.IsDefault); err != nil {
		return nil, err
	}
	if !ok {
		r.entries[reg.TypeID] = entry
	}

	log.Debug().
		Str("part_type", reg.TypeID).
		Str("option", bundle.ID()).
		Str("display_name", bundle.DisplayName()).
		Bool("default", reg.IsDefault).
		Msg("Registered resource option")

	return bundle, nil
}

// Seal ends the load phase.
func (r *Registry) Seal() {
	r.sealed = true
}

// Sealed reports whether the load phase has ended.
func (r *Registry) Sealed() bool {
	return r.sealed
}

// ForType returns the entry for a part type, or nil and false if the type has
// no switchable options.
func (r *Registry) ForType(typeID string) (*TypeEntry, bool) {
	entry, ok := r.entries[typeID]
	return entry, ok
}

// Types returns all registered type ids, sorted.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.entries))
	for id := range r.entries {
		types = append(types, id)
	}
	sort.Strings(types)
	return types
}
