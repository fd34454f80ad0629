// Package editor drives part lifecycles the way the ship editor does: spawning,
// attaching, copying, mirroring, switching, saving, and loading craft.
package editor

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/fuelswitch/internal/eventbus"
	"github.com/dokzlo13/fuelswitch/internal/ledger"
	"github.com/dokzlo13/fuelswitch/internal/loader"
	"github.com/dokzlo13/fuelswitch/internal/part"
	"github.com/dokzlo13/fuelswitch/internal/storage"
)

var (
	ErrNoSuchPart      = errors.New("no such part")
	ErrUnknownPartType = errors.New("unknown part type")
	ErrNoSuchCraft     = errors.New("no such craft")
	ErrAttachCycle     = errors.New("cannot attach a part under itself or its descendants")
)

// Editor owns the parts of the ship being built.
type Editor struct {
	content *loader.Result
	bus     *eventbus.Bus
	crafts  *storage.TypedStore[CraftSnapshot]
	history *ledger.Ledger

	parts []*part.Part
	byID  map[uuid.UUID]*part.Part

	clipboard *partState
}

// New creates an editor. crafts and history may be nil, which disables
// Save/Load and history records respectively.
func New(content *loader.Result, bus *eventbus.Bus, crafts *storage.TypedStore[CraftSnapshot], history *ledger.Ledger) *Editor {
	return &Editor{
		content: content,
		bus:     bus,
		crafts:  crafts,
		history: history,
		byID:    make(map[uuid.UUID]*part.Part),
	}
}

// Parts returns every part in creation order.
func (e *Editor) Parts() []*part.Part {
	return append([]*part.Part(nil), e.parts...)
}

// Part looks a part up by its id.
func (e *Editor) Part(id string) (*part.Part, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchPart, id)
	}
	p, ok := e.byID[uid]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchPart, id)
	}
	return p, nil
}

// Spawn creates a part of typeID with its base resources and applies the
// default option.
func (e *Editor) Spawn(typeID string) (*part.Part, error) {
	p, err := e.newPart(typeID)
	if err != nil {
		return nil, err
	}
	if p.Switch != nil {
		if err := p.Switch.OnCreated(); err != nil {
			return p, err
		}
	}
	log.Debug().Str("part_type", typeID).Str("part", p.ID.String()).Msg("Spawned part")
	return p, nil
}

func (e *Editor) newPart(typeID string) (*part.Part, error) {
	pt, ok := e.content.Type(typeID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPartType, typeID)
	}
	p := part.New(typeID, pt.Base)
	if pt.Switchable {
		part.NewSwitcher(p, e.content.Registry, e.notifier())
	}
	e.track(p)
	return p, nil
}

func (e *Editor) track(p *part.Part) {
	e.parts = append(e.parts, p)
	e.byID[p.ID] = p
}

// Attach places p under parent, or leaves it as a root when parent is nil. The
// live containers of every switchable part in the attached tree, and of their
// symmetry counterparts, are rebuilt.
func (e *Editor) Attach(p, parent *part.Part) error {
	for anc := parent; anc != nil; anc = anc.Parent {
		if anc == p {
			return fmt.Errorf("%w: %s under %s", ErrAttachCycle, p.ID, parent.ID)
		}
	}
	if parent != nil {
		p.Detach()
		parent.AddChild(p)
	}
	p.Walk(func(q *part.Part) {
		if q.Switch == nil {
			return
		}
		q.Resources.Rebuild()
		for _, sibling := range q.Symmetry {
			sibling.Resources.Rebuild()
		}
	})
	e.publish(eventbus.Event{Type: eventbus.EventShipModified})
	return nil
}

// Cycle advances p to its next option.
func (e *Editor) Cycle(p *part.Part) error {
	if p.Switch == nil {
		return nil
	}
	return p.Switch.Cycle()
}

// ApplyVariant switches p to the option linked to tag.
func (e *Editor) ApplyVariant(p *part.Part, tag string) (bool, error) {
	if p.Switch == nil {
		return false, nil
	}
	return p.Switch.ApplyVariant(tag)
}

// Rollout re-syncs every part without resetting amounts, as happens when a
// ship leaves the editor.
func (e *Editor) Rollout() error {
	var errs []error
	for _, p := range e.parts {
		if p.Switch == nil {
			continue
		}
		if _, err := p.Switch.Resync(); err != nil {
			log.Error().Err(err).Str("part", p.ID.String()).Msg("Failed to re-sync part")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (e *Editor) notifier() part.Notifier {
	if e.bus == nil {
		return nil
	}
	return e.bus
}

func (e *Editor) publish(event eventbus.Event) {
	if e.bus != nil {
		e.bus.Publish(event)
	}
}

func (e *Editor) record(eventType ledger.EventType, payload map[string]any) {
	if e.history == nil {
		return
	}
	if err := e.history.Append(eventType, "", "", payload); err != nil {
		log.Error().Err(err).Str("event", string(eventType)).Msg("Failed to record history")
	}
}

func (e *Editor) reset() {
	e.parts = nil
	e.byID = make(map[uuid.UUID]*part.Part)
	e.clipboard = nil
}
