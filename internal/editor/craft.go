package editor

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/fuelswitch/internal/eventbus"
	"github.com/dokzlo13/fuelswitch/internal/ledger"
	"github.com/dokzlo13/fuelswitch/internal/part"
	"github.com/dokzlo13/fuelswitch/internal/switching"
)

// CraftKind is the storage kind saved craft live under.
const CraftKind = "craft"

// CraftSnapshot is a saved ship.
type CraftSnapshot struct {
	Name  string         `json:"name"`
	Parts []PartSnapshot `json:"parts"`
}

// PartSnapshot is one saved part. Parent and Symmetry hold part ids.
type PartSnapshot struct {
	ID        string                   `json:"id"`
	Type      string                   `json:"type"`
	Parent    string                   `json:"parent,omitempty"`
	Symmetry  []string                 `json:"symmetry,omitempty"`
	Selection string                   `json:"selection,omitempty"`
	Resources []switching.LiveResource `json:"resources"`
}

var errNoStore = errors.New("craft storage is not configured")

// Snapshot captures the current ship.
func (e *Editor) Snapshot(name string) CraftSnapshot {
	snap := CraftSnapshot{Name: name}
	for _, p := range e.parts {
		ps := PartSnapshot{
			ID:        p.ID.String(),
			Type:      p.TypeID,
			Resources: p.Resources.List(),
		}
		if p.Parent != nil {
			ps.Parent = p.Parent.ID.String()
		}
		for _, s := range p.Symmetry {
			ps.Symmetry = append(ps.Symmetry, s.ID.String())
		}
		if p.Switch != nil {
			ps.Selection = p.Switch.Selected()
		}
		snap.Parts = append(snap.Parts, ps)
	}
	return snap
}

// Save persists the current ship under name.
func (e *Editor) Save(name string) error {
	if e.crafts == nil {
		return errNoStore
	}
	snap := e.Snapshot(name)
	if err := e.crafts.Set(name, snap); err != nil {
		return fmt.Errorf("save craft %q: %w", name, err)
	}

	log.Info().Str("craft", name).Int("parts", len(snap.Parts)).Msg("Saved craft")
	e.record(ledger.EventCraftSaved, map[string]any{"name": name, "parts": len(snap.Parts)})
	return nil
}

// Load replaces the current ship with the saved craft name.
func (e *Editor) Load(name string) error {
	if e.crafts == nil {
		return errNoStore
	}
	snap, version, err := e.crafts.Get(name)
	if err != nil {
		return fmt.Errorf("load craft %q: %w", name, err)
	}
	if version == 0 {
		return fmt.Errorf("%w: %s", ErrNoSuchCraft, name)
	}

	if err := e.Restore(snap); err != nil {
		return err
	}

	log.Info().Str("craft", name).Int("parts", len(e.parts)).Msg("Loaded craft")
	e.record(ledger.EventCraftLoaded, map[string]any{"name": name, "parts": len(e.parts)})
	return nil
}

// Restore rebuilds the ship from snap, then re-syncs every part without
// resetting amounts. Parts of unknown types are dropped.
func (e *Editor) Restore(snap CraftSnapshot) error {
	e.reset()

	for _, ps := range snap.Parts {
		pt, ok := e.content.Type(ps.Type)
		if !ok {
			log.Warn().Str("part_type", ps.Type).Str("part", ps.ID).Msg("Dropping part of unknown type")
			continue
		}
		id, err := uuid.Parse(ps.ID)
		if err != nil {
			log.Warn().Err(err).Str("part", ps.ID).Msg("Dropping part with invalid id")
			continue
		}

		p := &part.Part{
			ID:        id,
			TypeID:    ps.Type,
			Resources: part.NewResourceList(ps.Resources...),
		}
		if pt.Switchable {
			part.NewSwitcher(p, e.content.Registry, e.notifier()).Restore(ps.Selection)
		}
		e.track(p)
	}

	for _, ps := range snap.Parts {
		p, err := e.Part(ps.ID)
		if err != nil {
			continue
		}
		if parent, err := e.Part(ps.Parent); err == nil {
			parent.AddChild(p)
		}
		for _, sid := range ps.Symmetry {
			if s, err := e.Part(sid); err == nil {
				p.Symmetry = append(p.Symmetry, s)
			}
		}
	}

	var errs []error
	for _, p := range e.parts {
		if p.Switch == nil {
			continue
		}
		if _, err := p.Switch.Resync(); err != nil {
			errs = append(errs, err)
		}
	}

	e.publish(eventbus.Event{Type: eventbus.EventShipModified})
	return errors.Join(errs...)
}
