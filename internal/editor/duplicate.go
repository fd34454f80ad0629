package editor

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/fuelswitch/internal/part"
	"github.com/dokzlo13/fuelswitch/internal/switching"
)

// partState is what a copy inherits from its source.
type partState struct {
	selection string
	resources []switching.LiveResource
}

// Duplicate copies p and its subtree. Each copy inherits the source's selection
// and live resources and is then passively re-synced.
func (e *Editor) Duplicate(p *part.Part) (*part.Part, error) {
	var copies []*part.Part
	root, err := e.duplicateTree(p, &copies)
	if err != nil {
		return nil, err
	}
	for _, c := range copies {
		if err := e.afterDuplicateFinalized(c); err != nil {
			return root, err
		}
	}
	return root, nil
}

func (e *Editor) duplicateTree(src *part.Part, copies *[]*part.Part) (*part.Part, error) {
	e.beforeDuplicate(src)
	c, err := e.newPart(src.TypeID)
	if err != nil {
		return nil, err
	}
	e.afterDuplicateCreated(src, c)
	*copies = append(*copies, c)

	for _, child := range src.Children {
		cc, err := e.duplicateTree(child, copies)
		if err != nil {
			return nil, err
		}
		c.AddChild(cc)
	}
	return c, nil
}

// beforeDuplicate captures the source state before the copy exists.
func (e *Editor) beforeDuplicate(src *part.Part) {
	st := &partState{resources: src.Resources.List()}
	if src.Switch != nil {
		st.selection = src.Switch.Selected()
	}
	e.clipboard = st
}

// afterDuplicateCreated hands the captured state to the fresh copy.
func (e *Editor) afterDuplicateCreated(src, c *part.Part) {
	st := e.clipboard
	e.clipboard = nil
	if st == nil {
		log.Warn().Str("part", src.ID.String()).Msg("Copy created without captured state")
		return
	}
	c.Resources = part.NewResourceList(st.resources...)
	if c.Switch != nil {
		c.Switch.Restore(st.selection)
	}
}

// afterDuplicateFinalized strips anything the copied container carries that
// the inherited selection does not declare.
func (e *Editor) afterDuplicateFinalized(c *part.Part) error {
	if c.Switch == nil {
		return nil
	}
	if _, err := c.Switch.Resync(); err != nil {
		return fmt.Errorf("finalize copy %s: %w", c.ID, err)
	}
	return nil
}

// Mirror creates n symmetry counterparts of p under p's parent and links the
// whole group.
func (e *Editor) Mirror(p *part.Part, n int) ([]*part.Part, error) {
	if n < 1 {
		return nil, fmt.Errorf("mirror count must be positive, got %d", n)
	}

	group := []*part.Part{p}
	for i := 0; i < n; i++ {
		c, err := e.Duplicate(p)
		if err != nil {
			return nil, err
		}
		if p.Parent != nil {
			p.Parent.AddChild(c)
		}
		group = append(group, c)
	}
	part.LinkSymmetry(group)

	log.Debug().Str("part", p.ID.String()).Int("counterparts", n).Msg("Mirrored part")
	return group[1:], nil
}
