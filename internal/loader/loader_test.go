package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dokzlo13/fuelswitch/internal/content"
	"github.com/dokzlo13/fuelswitch/internal/switching"
)

const resourcesYAML = `
resources:
  - {name: LiquidFuel, display_name: Liquid Fuel, density: 0.005, unit_cost: 0.8}
  - {name: Oxidizer, density: 0.005, unit_cost: 0.18}
  - {name: ElectricCharge}
`

const partsYAML = `
parts:
  - name: tank
    resources:
      - {name: ElectricCharge, amount: 10, max_amount: 10}
    switch:
      selector_label: Fuel Type
      options:
        - id: LF
          default: true
          resources:
            - {name: LiquidFuel, amount: 50, max_amount: 100}
        - id: LFO
          resources:
            - {name: LiquidFuel, amount: 45, max_amount: 90}
            - {name: Oxidizer, amount: 55, max_amount: 110}
        - id: broken
          resources:
            - {name: LiquidFuel, amount: 100, max_amount: 90}
        - id: doubled
          resources:
            - {name: LiquidFuel, amount: 1, max_amount: 1}
            - {name: LiquidFuel, amount: 1, max_amount: 1}
        - id: LF
          resources: []
  - name: dud
    switch:
      options:
        - id: only
          resources:
            - {name: Kethane, amount: 1, max_amount: 1}
  - name: girder
  - name: badbase
    resources:
      - {name: Nope, amount: 1, max_amount: 1}
  - name: girder
`

func parse(t *testing.T, name, data string) *content.File {
	t.Helper()
	f, err := content.Parse(name, []byte(data))
	require.NoError(t, err)
	return f
}

func TestLoad(t *testing.T) {
	// Parts come before resources in file order; the catalog is built first anyway.
	res := Load([]*content.File{parse(t, "a_parts.yaml", partsYAML), parse(t, "b_resources.yaml", resourcesYAML)})

	assert.True(t, res.Registry.Sealed())
	assert.Equal(t, []string{"tank"}, res.Registry.Types())
	assert.Equal(t, []string{"tank", "dud", "girder"}, res.Order)

	entry, ok := res.Registry.ForType("tank")
	require.True(t, ok)
	assert.Equal(t, []string{"LF", "LFO"}, entry.IDs())
	assert.Equal(t, "Fuel Type", entry.SelectorLabel())
	assert.True(t, entry.IsBase("ElectricCharge"))

	tank, ok := res.Type("tank")
	require.True(t, ok)
	assert.True(t, tank.Switchable)
	assert.Equal(t, []switching.LiveResource{{Name: "ElectricCharge", Amount: 10, Capacity: 10}}, tank.Base)

	girder, _ := res.Type("girder")
	assert.False(t, girder.Switchable)

	assert.Len(t, res.Report.Discarded, 4, "broken, doubled, dud/only, badbase")
	assert.Equal(t, []string{"dud"}, res.Report.Inert)

	var dupOption, dupPart bool
	for _, p := range res.Report.Conflicts {
		if errors.Is(p.Err, switching.ErrDuplicateBundle) {
			dupOption = true
		}
		if p.PartType == "girder" {
			dupPart = true
		}
	}
	assert.True(t, dupOption)
	assert.True(t, dupPart)
	assert.False(t, res.Report.OK())

	_, badbase := res.Type("badbase")
	assert.False(t, badbase)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "00_resources.yaml"), []byte(resourcesYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "10_bad.yaml"), []byte("parts: [\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20_tank.yaml"), []byte(`
parts:
  - name: tank
    switch:
      options:
        - {id: LF, resources: [{name: LiquidFuel, amount: 50, max_amount: 100}]}
        - {id: OX, resources: [{name: Oxidizer, amount: 50, max_amount: 100}]}
`), 0o644))

	res, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, res.Report.Files, 1)
	assert.Contains(t, res.Report.Files[0].String(), "10_bad.yaml")

	entry, ok := res.Registry.ForType("tank")
	require.True(t, ok)
	assert.Equal(t, 2, entry.Len())
	assert.Equal(t, switching.DefaultSelectorLabel, entry.SelectorLabel())
}
