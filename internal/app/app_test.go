package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dokzlo13/fuelswitch/internal/config"
	"github.com/dokzlo13/fuelswitch/internal/ledger"
)

const tankYAML = `
resources:
  - {name: LiquidFuel, density: 0.005, unit_cost: 0.8}
  - {name: Oxidizer, density: 0.005, unit_cost: 0.18}
parts:
  - name: tank
    switch:
      options:
        - id: LF
          resources:
            - {name: LiquidFuel, amount: 50, max_amount: 100}
        - id: LFO
          resources:
            - {name: LiquidFuel, amount: 45, max_amount: 90}
            - {name: Oxidizer, amount: 55, max_amount: 110}
`

const sessionLua = `
local editor = require("editor")
local id = editor.spawn("tank")
editor.cycle(id)
editor.save("probe")
`

func writeWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "content"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "content", "tank.yaml"), []byte(tankYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.lua"), []byte(sessionLua), 0o644))
	return dir
}

func TestApp_RunSession(t *testing.T) {
	dir := writeWorkspace(t)
	cfg, err := config.Parse([]byte(`
database:
  path: ` + filepath.Join(dir, "fuelswitch.sqlite") + `
content:
  dir: ` + filepath.Join(dir, "content") + `
script: session.lua
`))
	require.NoError(t, err)

	application, err := New(cfg, filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	application.Start(context.Background())
	require.NoError(t, application.RunScript(""))

	svc := application.Services()
	records, err := svc.Crafts.List()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "probe", records[0].ID)

	snap, _, err := svc.Crafts.Get("probe")
	require.NoError(t, err)
	require.Len(t, snap.Parts, 1)
	assert.Equal(t, "LFO", snap.Parts[0].Selection)

	entries, err := svc.Ledger.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, ledger.EventCraftSaved, entries[0].EventType)
	assert.Equal(t, ledger.EventSelectionChanged, entries[1].EventType)

	require.NoError(t, application.ClearSavedCrafts())
	records, err = svc.Crafts.List()
	require.NoError(t, err)
	assert.Empty(t, records)

	require.NoError(t, application.Stop())
}

func TestNewServices_MissingContentDir(t *testing.T) {
	cfg, err := config.Parse([]byte("content:\n  dir: " + filepath.Join(t.TempDir(), "nope") + "\n"))
	require.NoError(t, err)

	_, err = NewServices(cfg, "config.yaml")
	assert.Error(t, err)
}
