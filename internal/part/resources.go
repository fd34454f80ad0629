package part

import (
	"fmt"

	"github.com/dokzlo13/fuelswitch/internal/switching"
)

// ResourceList is a part's live resource container. It keeps a name index over
// the entries, dropped on every structural change, and a simulation snapshot
// that goes stale on Add/Remove until InvalidateDerivedState.
type ResourceList struct {
	entries []switching.LiveResource

	index       map[string]int
	simulation  []switching.LiveResource
	generations int
}

// NewResourceList creates a container holding the given entries.
func NewResourceList(entries ...switching.LiveResource) *ResourceList {
	l := &ResourceList{entries: append([]switching.LiveResource(nil), entries...)}
	l.InvalidateDerivedState()
	return l
}

// List returns the entries in container order.
func (l *ResourceList) List() []switching.LiveResource {
	return append([]switching.LiveResource(nil), l.entries...)
}

// Len returns the number of entries.
func (l *ResourceList) Len() int {
	return len(l.entries)
}

// Get returns the entry for name.
func (l *ResourceList) Get(name string) (switching.LiveResource, bool) {
	i, ok := l.lookup(name)
	if !ok {
		return switching.LiveResource{}, false
	}
	return l.entries[i], true
}

func (l *ResourceList) lookup(name string) (int, bool) {
	if l.index == nil {
		l.index = make(map[string]int, len(l.entries))
		for i, e := range l.entries {
			l.index[e.Name] = i
		}
	}
	i, ok := l.index[name]
	return i, ok
}

// Add appends an entry. Names are unique within a container.
func (l *ResourceList) Add(res switching.LiveResource) error {
	if _, exists := l.Get(res.Name); exists {
		return fmt.Errorf("resource %s already present", res.Name)
	}
	l.entries = append(l.entries, res)
	l.index = nil
	return nil
}

// Remove deletes the entry for name.
func (l *ResourceList) Remove(name string) error {
	i, ok := l.lookup(name)
	if !ok {
		return fmt.Errorf("resource %s not present", name)
	}
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	l.index = nil
	return nil
}

// Set overwrites amount and capacity in place.
func (l *ResourceList) Set(name string, amount, capacity float64) error {
	i, ok := l.lookup(name)
	if !ok {
		return fmt.Errorf("resource %s not present", name)
	}
	l.entries[i].Amount = amount
	l.entries[i].Capacity = capacity
	return nil
}

// InvalidateDerivedState drops the simulation snapshot.
func (l *ResourceList) InvalidateDerivedState() {
	l.simulation = nil
	l.generations++
}

// Generation counts invalidations.
func (l *ResourceList) Generation() int {
	return l.generations
}

// Simulation returns the snapshot used by flow simulation. It reflects the
// entries as of the last invalidation.
func (l *ResourceList) Simulation() []switching.LiveResource {
	if l.simulation == nil {
		l.simulation = append([]switching.LiveResource{}, l.entries...)
	}
	return append([]switching.LiveResource(nil), l.simulation...)
}

// Rebuild clears the container and re-inserts every entry, then invalidates
// derived state. Used after attach to drop any corrupted bookkeeping.
func (l *ResourceList) Rebuild() {
	l.entries = l.List()
	l.index = nil
	l.InvalidateDerivedState()
}
