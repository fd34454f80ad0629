package switching

import (
	"fmt"
)

// LiveResource is one resource entry in a part's live container.
type LiveResource struct {
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Capacity float64 `json:"max_amount"`
}

// Container is a part's mutable resource list together with whatever derived
// simulation state it keeps.
type Container interface {
	// List returns the entries in container order.
	List() []LiveResource
	Add(res LiveResource) error
	Remove(name string) error
	Set(name string, amount, capacity float64) error
	// InvalidateDerivedState drops caches built from the entry list.
	InvalidateDerivedState()
}

// Result reports what a reconciliation did.
type Result struct {
	Bundle  *Bundle
	Added   []string
	Removed []string
	Reset   []string // in-place amount/capacity overwrites
}

// Structural reports whether entries were added or removed.
func (r Result) Structural() bool {
	return len(r.Added) > 0 || len(r.Removed) > 0
}

// Changed reports whether the container was touched at all.
func (r Result) Changed() bool {
	return r.Structural() || len(r.Reset) > 0
}

// Reconcile makes the container match option targetID. Base resources are never
// touched. Entries the option declares are kept, and overwritten with the
// declared values when resetAmounts is set. Leftover entries are removed and
// missing ones appended. Derived state is invalidated after any structural
// change, including one cut short by a container error.
func Reconcile(c Container, entry *TypeEntry, targetID string, resetAmounts bool) (res Result, err error) {
	target, err := entry.Bundle(targetID)
	if err != nil {
		return Result{}, err
	}
	res.Bundle = target

	defer func() {
		if res.Structural() {
			c.InvalidateDerivedState()
		}
	}()

	satisfied := make(map[string]bool)
	var leftovers []string

	for _, live := range c.List() {
		if entry.IsBase(live.Name) {
			continue
		}
		want, ok := target.Resource(live.Name)
		if !ok {
			leftovers = append(leftovers, live.Name)
			continue
		}
		satisfied[live.Name] = true
		if resetAmounts && (live.Amount != want.Amount || live.Capacity != want.Capacity) {
			if err := c.Set(live.Name, want.Amount, want.Capacity); err != nil {
				return res, fmt.Errorf("reset %s: %w", live.Name, err)
			}
			res.Reset = append(res.Reset, live.Name)
		}
	}

	for _, name := range leftovers {
		if err := c.Remove(name); err != nil {
			return res, fmt.Errorf("remove %s: %w", name, err)
		}
		res.Removed = append(res.Removed, name)
	}

	for _, want := range target.resources {
		if satisfied[want.Name()] || entry.IsBase(want.Name()) {
			continue
		}
		if err := c.Add(LiveResource{Name: want.Name(), Amount: want.Amount, Capacity: want.Capacity}); err != nil {
			return res, fmt.Errorf("add %s: %w", want.Name(), err)
		}
		res.Added = append(res.Added, want.Name())
	}

	return res, nil
}
