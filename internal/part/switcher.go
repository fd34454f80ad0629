package part

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/fuelswitch/internal/eventbus"
	"github.com/dokzlo13/fuelswitch/internal/switching"
)

// Unresolved is the persisted selection before a default has been chosen.
const Unresolved = "_default"

// Causes recorded on switch notifications.
const (
	CauseCreated  = "created"
	CauseCycle    = "cycle"
	CauseVariant  = "variant"
	CauseResync   = "resync"
	CauseSymmetry = "symmetry"
)

// ErrCycleLinked is returned when cycling a type whose options follow variants.
var ErrCycleLinked = errors.New("resource options are linked to variants")

// Notifier receives switch notifications.
type Notifier interface {
	Publish(event eventbus.Event)
}

type nopNotifier struct{}

func (nopNotifier) Publish(eventbus.Event) {}

// Switcher holds a part's selected option and applies it to the part's container.
type Switcher struct {
	part     *Part
	registry *switching.Registry
	notifier Notifier

	selected string
	entry    *switching.TypeEntry
	bound    bool
}

type inertKey struct {
	registry *switching.Registry
	typeID   string
}

// inertWarned holds the types already reported as having nothing to switch.
var inertWarned sync.Map

// NewSwitcher attaches switching to p. The type entry is bound on first use.
func NewSwitcher(p *Part, registry *switching.Registry, notifier Notifier) *Switcher {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	s := &Switcher{
		part:     p,
		registry: registry,
		notifier: notifier,
		selected: Unresolved,
	}
	p.Switch = s
	return s
}

// Selected returns the persisted selection id, possibly Unresolved.
func (s *Switcher) Selected() string {
	return s.selected
}

// Restore sets the persisted selection without touching the container.
func (s *Switcher) Restore(id string) {
	if id == "" {
		id = Unresolved
	}
	s.selected = id
}

// Entry returns the bound type entry, or nil if the type has no options.
func (s *Switcher) Entry() *switching.TypeEntry {
	if !s.bind() {
		return nil
	}
	return s.entry
}

// Active reports whether the part's type has switchable options.
func (s *Switcher) Active() bool {
	return s.bind()
}

// CycleEnabled reports whether the cycle control should be offered. Types with
// variant-linked options switch through variants instead.
func (s *Switcher) CycleEnabled() bool {
	return s.bind() && !s.entry.HasAnyLinkage()
}

// Label combines the selector label and the active option's display name.
func (s *Switcher) Label() string {
	if !s.bind() {
		return ""
	}
	b, err := s.entry.Bundle(s.effective())
	if err != nil {
		return s.entry.SelectorLabel()
	}
	return fmt.Sprintf("%s: %s", s.entry.SelectorLabel(), b.DisplayName())
}

// OnCreated resolves the default selection and applies it with declared amounts.
func (s *Switcher) OnCreated() error {
	if !s.bind() {
		return nil
	}
	_, err := s.apply(s.selected, CauseCreated, true, false)
	return err
}

// Cycle advances to the next option and applies it to the part and its
// symmetry counterparts.
func (s *Switcher) Cycle() error {
	if !s.bind() {
		return nil
	}
	if s.entry.HasAnyLinkage() {
		return ErrCycleLinked
	}

	previous := s.selected
	next := s.entry.NextID(s.effective())
	if next == "" {
		next = s.entry.DefaultID()
	}
	s.selected = next
	log.Info().
		Str("part_type", s.part.TypeID).
		Str("part", s.part.ID.String()).
		Str("option", next).
		Msg("Switched resources")

	_, err := s.apply(previous, CauseCycle, true, true)
	return err
}

// ApplyVariant switches to the option linked to tag. It reports false when no
// option is linked or the linked one is already selected.
func (s *Switcher) ApplyVariant(tag string) (bool, error) {
	if !s.bind() {
		return false, nil
	}
	b := s.entry.FindByLinkedTag(tag)
	if b == nil || b.ID() == s.effective() {
		return false, nil
	}

	previous := s.selected
	s.selected = b.ID()
	log.Info().
		Str("part_type", s.part.TypeID).
		Str("part", s.part.ID.String()).
		Str("variant", tag).
		Str("option", b.ID()).
		Msg("Variant changed, switching resources")

	_, err := s.apply(previous, CauseVariant, true, true)
	return err == nil, err
}

// Resync re-applies the current selection without resetting amounts. Used
// after load and rollout to strip resources a stale definition added back.
func (s *Switcher) Resync() (switching.Result, error) {
	if !s.bind() {
		return switching.Result{}, nil
	}
	return s.apply(s.selected, CauseResync, false, false)
}

func (s *Switcher) bind() bool {
	if !s.bound {
		s.bound = true
		s.entry, _ = s.registry.ForType(s.part.TypeID)
	}
	if s.entry == nil || s.entry.Len() == 0 {
		if _, seen := inertWarned.LoadOrStore(inertKey{s.registry, s.part.TypeID}, struct{}{}); !seen {
			log.Warn().
				Str("part_type", s.part.TypeID).
				Str("part", s.part.ID.String()).
				Msg("Fuel switching disabled (no switchable resources configured)")
		}
		return false
	}
	return true
}

func (s *Switcher) effective() string {
	if s.selected == Unresolved {
		return s.entry.DefaultID()
	}
	return s.selected
}

// apply reconciles the container to the selection. An unknown persisted id
// falls back to the type's default.
func (s *Switcher) apply(previous, cause string, reset, fanOut bool) (switching.Result, error) {
	s.selected = s.effective()

	res, err := switching.Reconcile(s.part.Resources, s.entry, s.selected, reset)
	if errors.Is(err, switching.ErrUnknownSelection) {
		log.Warn().
			Str("part_type", s.part.TypeID).
			Str("part", s.part.ID.String()).
			Str("option", s.selected).
			Msg("Unknown resource option, falling back to default")
		s.selected = s.entry.DefaultID()
		res, err = switching.Reconcile(s.part.Resources, s.entry, s.selected, reset)
	}
	if err != nil {
		return res, fmt.Errorf("reconcile %s on %s: %w", s.selected, s.part.TypeID, err)
	}

	explicit := cause == CauseCycle || cause == CauseVariant
	if explicit || res.Structural() {
		s.notifier.Publish(eventbus.Event{
			Type: eventbus.EventResourcesSwitched,
			Data: map[string]interface{}{
				"part":      s.part.ID.String(),
				"part_type": s.part.TypeID,
				"from":      previous,
				"selection": s.selected,
				"cause":     cause,
				"added":     res.Added,
				"removed":   res.Removed,
			},
		})
	}

	if fanOut {
		for _, sibling := range s.part.Symmetry {
			if sibling.Switch == nil {
				continue
			}
			if !sibling.Switch.bind() {
				continue
			}
			from := sibling.Switch.selected
			sibling.Switch.selected = s.selected
			if _, err := sibling.Switch.apply(from, CauseSymmetry, reset, false); err != nil {
				log.Error().Err(err).Str("part", sibling.ID.String()).Msg("Failed to switch symmetry counterpart")
			}
		}
	}

	if explicit {
		s.notifier.Publish(eventbus.Event{Type: eventbus.EventShipModified})
	}

	return res, nil
}
