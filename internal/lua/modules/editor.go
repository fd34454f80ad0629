package modules

import (
	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/fuelswitch/internal/editor"
	"github.com/dokzlo13/fuelswitch/internal/eventbus"
	"github.com/dokzlo13/fuelswitch/internal/info"
	"github.com/dokzlo13/fuelswitch/internal/part"
)

// EditorModule exposes the ship editor to session scripts. Parts are addressed
// by their id string.
//
// Handlers registered with on_switch keep the LState they were registered on.
// They run inside whichever editor call triggered the switch, which is always on
// the Lua worker because the event bus delivers inline.
type EditorModule struct {
	editor    *editor.Editor
	formatter *info.Formatter

	L        *lua.LState
	handlers []*lua.LFunction
}

// NewEditorModule creates a new editor module
func NewEditorModule(ed *editor.Editor, formatter *info.Formatter) *EditorModule {
	if formatter == nil {
		formatter = info.NewFormatter(nil, nil)
	}
	return &EditorModule{editor: ed, formatter: formatter}
}

// Loader is the module loader for Lua
func (m *EditorModule) Loader(L *lua.LState) int {
	m.L = L
	mod := L.NewTable()

	L.SetField(mod, "spawn", L.NewFunction(m.spawn))
	L.SetField(mod, "attach", L.NewFunction(m.attach))
	L.SetField(mod, "mirror", L.NewFunction(m.mirror))
	L.SetField(mod, "copy", L.NewFunction(m.copy))
	L.SetField(mod, "cycle", L.NewFunction(m.cycle))
	L.SetField(mod, "variant", L.NewFunction(m.variant))
	L.SetField(mod, "save", L.NewFunction(m.save))
	L.SetField(mod, "load", L.NewFunction(m.load))
	L.SetField(mod, "rollout", L.NewFunction(m.rollout))
	L.SetField(mod, "part", L.NewFunction(m.part))
	L.SetField(mod, "parts", L.NewFunction(m.parts))
	L.SetField(mod, "on_switch", L.NewFunction(m.onSwitch))

	L.Push(mod)
	return 1
}

// Subscribe forwards resources_switched events to on_switch handlers.
func (m *EditorModule) Subscribe(bus *eventbus.Bus) {
	bus.Subscribe(eventbus.EventResourcesSwitched, func(e eventbus.Event) {
		if m.L == nil || len(m.handlers) == 0 {
			return
		}
		for _, fn := range m.handlers {
			if err := m.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, MapToLuaTable(m.L, e.Data)); err != nil {
				log.Error().Err(err).Msg("Lua on_switch handler failed")
			}
		}
	})
}

func (m *EditorModule) checkPart(L *lua.LState, n int) *part.Part {
	p, err := m.editor.Part(L.CheckString(n))
	if err != nil {
		L.ArgError(n, err.Error())
		return nil
	}
	return p
}

// spawn(type) -> id
func (m *EditorModule) spawn(L *lua.LState) int {
	p, err := m.editor.Spawn(L.CheckString(1))
	if err != nil {
		L.RaiseError("spawn failed: %s", err.Error())
		return 0
	}
	L.Push(lua.LString(p.ID.String()))
	return 1
}

// attach(id, parent?) - parent may be omitted to leave the part as a root
func (m *EditorModule) attach(L *lua.LState) int {
	p := m.checkPart(L, 1)
	var parent *part.Part
	if L.GetTop() >= 2 && L.Get(2) != lua.LNil {
		parent = m.checkPart(L, 2)
	}
	if err := m.editor.Attach(p, parent); err != nil {
		L.RaiseError("attach failed: %s", err.Error())
	}
	return 0
}

// mirror(id, n) -> {ids}
func (m *EditorModule) mirror(L *lua.LState) int {
	p := m.checkPart(L, 1)
	copies, err := m.editor.Mirror(p, L.CheckInt(2))
	if err != nil {
		L.RaiseError("mirror failed: %s", err.Error())
		return 0
	}
	ids := make([]string, len(copies))
	for i, c := range copies {
		ids[i] = c.ID.String()
	}
	L.Push(StringsToLuaTable(L, ids))
	return 1
}

// copy(id) -> id
func (m *EditorModule) copy(L *lua.LState) int {
	c, err := m.editor.Duplicate(m.checkPart(L, 1))
	if err != nil {
		L.RaiseError("copy failed: %s", err.Error())
		return 0
	}
	L.Push(lua.LString(c.ID.String()))
	return 1
}

// cycle(id) -> selection
func (m *EditorModule) cycle(L *lua.LState) int {
	p := m.checkPart(L, 1)
	if err := m.editor.Cycle(p); err != nil {
		L.RaiseError("cycle failed: %s", err.Error())
		return 0
	}
	L.Push(lua.LString(selection(p)))
	return 1
}

// variant(id, tag) -> changed
func (m *EditorModule) variant(L *lua.LState) int {
	p := m.checkPart(L, 1)
	changed, err := m.editor.ApplyVariant(p, L.CheckString(2))
	if err != nil {
		L.RaiseError("variant failed: %s", err.Error())
		return 0
	}
	L.Push(lua.LBool(changed))
	return 1
}

// save(name)
func (m *EditorModule) save(L *lua.LState) int {
	if err := m.editor.Save(L.CheckString(1)); err != nil {
		L.RaiseError("save failed: %s", err.Error())
	}
	return 0
}

// load(name)
func (m *EditorModule) load(L *lua.LState) int {
	if err := m.editor.Load(L.CheckString(1)); err != nil {
		L.RaiseError("load failed: %s", err.Error())
	}
	return 0
}

// rollout()
func (m *EditorModule) rollout(L *lua.LState) int {
	if err := m.editor.Rollout(); err != nil {
		L.RaiseError("rollout failed: %s", err.Error())
	}
	return 0
}

// part(id) -> {id, type, selection, label, summary, symmetry, resources = {{name, amount, max_amount}}}
func (m *EditorModule) part(L *lua.LState) int {
	p := m.checkPart(L, 1)

	tbl := L.NewTable()
	L.SetField(tbl, "id", lua.LString(p.ID.String()))
	L.SetField(tbl, "type", lua.LString(p.TypeID))
	L.SetField(tbl, "selection", lua.LString(selection(p)))
	L.SetField(tbl, "symmetry", lua.LNumber(len(p.Symmetry)))
	if p.Parent != nil {
		L.SetField(tbl, "parent", lua.LString(p.Parent.ID.String()))
	}
	if p.Switch != nil {
		L.SetField(tbl, "label", lua.LString(p.Switch.Label()))
		if entry := p.Switch.Entry(); entry != nil {
			if b, err := entry.Bundle(p.Switch.Selected()); err == nil {
				L.SetField(tbl, "summary", lua.LString(m.formatter.Primary(b.ID(), b.Resources())))
			}
		}
	}

	resources := L.NewTable()
	for i, r := range p.Resources.List() {
		rt := L.NewTable()
		L.SetField(rt, "name", lua.LString(r.Name))
		L.SetField(rt, "amount", lua.LNumber(r.Amount))
		L.SetField(rt, "max_amount", lua.LNumber(r.Capacity))
		resources.RawSetInt(i+1, rt)
	}
	L.SetField(tbl, "resources", resources)

	L.Push(tbl)
	return 1
}

// parts() -> {ids}
func (m *EditorModule) parts(L *lua.LState) int {
	all := m.editor.Parts()
	ids := make([]string, len(all))
	for i, p := range all {
		ids[i] = p.ID.String()
	}
	L.Push(StringsToLuaTable(L, ids))
	return 1
}

// on_switch(fn) - fn receives the resources_switched event data
func (m *EditorModule) onSwitch(L *lua.LState) int {
	m.handlers = append(m.handlers, L.CheckFunction(1))
	return 0
}

func selection(p *part.Part) string {
	if p.Switch == nil {
		return ""
	}
	return p.Switch.Selected()
}
