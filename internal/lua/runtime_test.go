package lua

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/fuelswitch/internal/content"
	"github.com/dokzlo13/fuelswitch/internal/editor"
	"github.com/dokzlo13/fuelswitch/internal/eventbus"
	"github.com/dokzlo13/fuelswitch/internal/info"
	"github.com/dokzlo13/fuelswitch/internal/loader"
)

const partsYAML = `
resources:
  - {name: LiquidFuel, density: 0.005, unit_cost: 0.8}
  - {name: Oxidizer, density: 0.005, unit_cost: 0.18}
parts:
  - name: tank
    switch:
      selector_label: Fuel Type
      options:
        - id: LF
          resources:
            - {name: LiquidFuel, amount: 50, max_amount: 100}
        - id: LFO
          resources:
            - {name: LiquidFuel, amount: 45, max_amount: 90}
            - {name: Oxidizer, amount: 55, max_amount: 110}
`

func startRuntime(t *testing.T) (*Runtime, *editor.Editor) {
	t.Helper()
	f, err := content.Parse("parts.yaml", []byte(partsYAML))
	require.NoError(t, err)

	bus := eventbus.New()
	ed := editor.New(loader.Load([]*content.File{f}), bus, nil, nil)
	r := NewRuntime(RuntimeDeps{
		Editor:    ed,
		Formatter: info.NewFormatter(nil, map[string]string{"LFO": "%m1 + %m2"}),
		Bus:       bus,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		r.Close()
	})
	return r, ed
}

func global(t *testing.T, r *Runtime, name string) lua.LValue {
	t.Helper()
	var v lua.LValue
	require.NoError(t, r.Exec(context.Background(), func(context.Context) error {
		v = r.L.GetGlobal(name)
		return nil
	}))
	return v
}

func TestRuntime_EditorSession(t *testing.T) {
	r, ed := startRuntime(t)

	err := r.RunString(context.Background(), `
		local editor = require("editor")
		local log = require("log")

		switched = 0
		editor.on_switch(function(e) switched = switched + 1 end)

		local id = editor.spawn("tank")
		local copies = editor.mirror(id, 1)
		assert(#copies == 1)
		assert(editor.cycle(id) == "LFO")

		local p = editor.part(copies[1])
		log.info("mirrored", {selection = p.selection, resources = #p.resources})
		selection = p.selection
		resources = #p.resources
		label = p.label
		summary = p.summary
		count = #editor.parts()
	`)
	require.NoError(t, err)

	assert.Equal(t, lua.LNumber(3), global(t, r, "switched"), "spawn, then cycle on the part and its counterpart")
	assert.Equal(t, lua.LString("LFO"), global(t, r, "selection"))
	assert.Equal(t, lua.LNumber(2), global(t, r, "resources"))
	assert.Equal(t, lua.LString("Fuel Type: LiquidFuel + Oxidizer"), global(t, r, "label"))
	assert.Equal(t, lua.LString("0.45 t + 0.55 t"), global(t, r, "summary"))
	assert.Equal(t, lua.LNumber(2), global(t, r, "count"))
	assert.Len(t, ed.Parts(), 2)
}

func TestRuntime_ErrorsSurface(t *testing.T) {
	r, _ := startRuntime(t)

	err := r.RunString(context.Background(), `require("editor").spawn("wing")`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spawn failed")

	err = r.RunString(context.Background(), `require("editor").save("probe")`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save failed")

	err = r.RunString(context.Background(), `require("editor").cycle("nope")`)
	assert.Error(t, err)

	err = r.RunString(context.Background(), `
		local editor = require("editor")
		local root = editor.spawn("tank")
		local child = editor.spawn("tank")
		editor.attach(child, root)
		editor.attach(root, child)
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "attach failed")
}

func TestRuntime_RunScript(t *testing.T) {
	r, ed := startRuntime(t)
	path := filepath.Join(t.TempDir(), "session.lua")
	require.NoError(t, os.WriteFile(path, []byte(`require("editor").spawn("tank")`), 0o644))

	require.NoError(t, r.RunScript(context.Background(), path))
	assert.Len(t, ed.Parts(), 1)

	assert.Error(t, r.RunScript(context.Background(), filepath.Join(t.TempDir(), "missing.lua")))
}

func TestRuntime_Closed(t *testing.T) {
	r, _ := startRuntime(t)
	r.closeOnce.Do(func() { close(r.closing) })

	err := r.RunString(context.Background(), `x = 1`)
	assert.ErrorIs(t, err, ErrRuntimeClosed)
}
