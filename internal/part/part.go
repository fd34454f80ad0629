// Package part models live part instances and their switchable resource state.
package part

import (
	"github.com/google/uuid"

	"github.com/dokzlo13/fuelswitch/internal/switching"
)

// Part is a live part instance on a ship.
type Part struct {
	ID        uuid.UUID
	TypeID    string
	Resources *ResourceList

	// Switch is nil for part types without switchable resources.
	Switch *Switcher

	Parent   *Part
	Children []*Part
	// Symmetry lists counterparts, excluding the part itself.
	Symmetry []*Part
}

// New creates a part with a fresh id and the given live resources.
func New(typeID string, resources []switching.LiveResource) *Part {
	return &Part{
		ID:        uuid.New(),
		TypeID:    typeID,
		Resources: NewResourceList(resources...),
	}
}

// Walk visits p and its descendants depth-first.
func (p *Part) Walk(fn func(*Part)) {
	fn(p)
	for _, child := range p.Children {
		child.Walk(fn)
	}
}

// AddChild attaches child under p.
func (p *Part) AddChild(child *Part) {
	child.Parent = p
	p.Children = append(p.Children, child)
}

// Detach removes p from its parent.
func (p *Part) Detach() {
	if p.Parent == nil {
		return
	}
	siblings := p.Parent.Children
	for i, c := range siblings {
		if c == p {
			p.Parent.Children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	p.Parent = nil
}

// LinkSymmetry makes every part in group a counterpart of every other one.
func LinkSymmetry(group []*Part) {
	for _, p := range group {
		p.Symmetry = nil
		for _, other := range group {
			if other != p {
				p.Symmetry = append(p.Symmetry, other)
			}
		}
	}
}
