package part

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dokzlo13/fuelswitch/internal/catalog"
	"github.com/dokzlo13/fuelswitch/internal/eventbus"
	"github.com/dokzlo13/fuelswitch/internal/switching"
)

type recorder struct {
	events []eventbus.Event
}

func (r *recorder) Publish(e eventbus.Event) {
	r.events = append(r.events, e)
}

func (r *recorder) ofType(t eventbus.EventType) []eventbus.Event {
	var out []eventbus.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func testRegistry(t *testing.T) *switching.Registry {
	t.Helper()
	cat := catalog.New()
	require.NoError(t, cat.Add(catalog.Definition{Name: "LiquidFuel", Density: 0.005, UnitCost: 0.8}))
	require.NoError(t, cat.Add(catalog.Definition{Name: "Oxidizer", Density: 0.005, UnitCost: 0.18}))
	require.NoError(t, cat.Add(catalog.Definition{Name: "ElectricCharge"}))

	d := func(name string, amount, capacity float64) switching.Descriptor {
		def, _ := cat.Lookup(name)
		return switching.Descriptor{Kind: def, Amount: amount, Capacity: capacity}
	}

	r := switching.NewRegistry()
	regs := []switching.Registration{
		{TypeID: "tank", BundleID: "LF", IsDefault: true, SelectorLabel: "Fuel Type",
			Resources: []switching.Descriptor{d("LiquidFuel", 50, 100)}, BaseResources: []string{"ElectricCharge"}},
		{TypeID: "tank", BundleID: "LFO", Resources: []switching.Descriptor{d("LiquidFuel", 45, 90), d("Oxidizer", 55, 110)}},
		{TypeID: "linked", BundleID: "white", LinkedTags: []string{"White"}, Resources: []switching.Descriptor{d("LiquidFuel", 50, 100)}},
		{TypeID: "linked", BundleID: "other", LinkedTags: []string{switching.Wildcard}, Resources: []switching.Descriptor{d("Oxidizer", 10, 10)}},
	}
	for _, reg := range regs {
		_, err := r.Register(reg)
		require.NoError(t, err)
	}
	r.Seal()
	return r
}

func newTank(t *testing.T, r *switching.Registry, n Notifier) *Part {
	t.Helper()
	p := New("tank", []switching.LiveResource{{Name: "ElectricCharge", Amount: 10, Capacity: 10}})
	NewSwitcher(p, r, n)
	return p
}

func TestSwitcher_OnCreatedResolvesDefault(t *testing.T) {
	rec := &recorder{}
	p := newTank(t, testRegistry(t), rec)

	assert.Equal(t, Unresolved, p.Switch.Selected())
	require.NoError(t, p.Switch.OnCreated())

	assert.Equal(t, "LF", p.Switch.Selected())
	assert.Equal(t, "Fuel Type: LF", p.Switch.Label())
	assert.Equal(t, []switching.LiveResource{
		{Name: "ElectricCharge", Amount: 10, Capacity: 10},
		{Name: "LiquidFuel", Amount: 50, Capacity: 100},
	}, p.Resources.List())
	assert.Len(t, rec.ofType(eventbus.EventResourcesSwitched), 1)
	assert.Empty(t, rec.ofType(eventbus.EventShipModified))
}

func TestSwitcher_CycleWithSymmetry(t *testing.T) {
	rec := &recorder{}
	r := testRegistry(t)
	a, b, c := newTank(t, r, rec), newTank(t, r, rec), newTank(t, r, rec)
	LinkSymmetry([]*Part{a, b, c})
	for _, p := range []*Part{a, b, c} {
		require.NoError(t, p.Switch.OnCreated())
	}
	rec.events = nil

	require.NoError(t, a.Switch.Cycle())

	for _, p := range []*Part{a, b, c} {
		assert.Equal(t, "LFO", p.Switch.Selected())
		ox, ok := p.Resources.Get("Oxidizer")
		require.True(t, ok)
		assert.Equal(t, 55.0, ox.Amount)
		lf, _ := p.Resources.Get("LiquidFuel")
		assert.Equal(t, 90.0, lf.Capacity)
	}

	switched := rec.ofType(eventbus.EventResourcesSwitched)
	require.Len(t, switched, 3)
	assert.Equal(t, CauseCycle, switched[0].Data["cause"])
	assert.Equal(t, b.ID.String(), switched[1].Data["part"])
	assert.Equal(t, c.ID.String(), switched[2].Data["part"])
	assert.Len(t, rec.ofType(eventbus.EventShipModified), 1)

	require.NoError(t, a.Switch.Cycle())
	assert.Equal(t, "LF", c.Switch.Selected())
	_, hasOx := c.Resources.Get("Oxidizer")
	assert.False(t, hasOx)
}

func TestSwitcher_ApplyVariant(t *testing.T) {
	rec := &recorder{}
	p := New("linked", nil)
	NewSwitcher(p, testRegistry(t), rec)
	require.NoError(t, p.Switch.OnCreated())
	assert.Equal(t, "white", p.Switch.Selected())
	assert.False(t, p.Switch.CycleEnabled())
	assert.ErrorIs(t, p.Switch.Cycle(), ErrCycleLinked)

	rec.events = nil
	changed, err := p.Switch.ApplyVariant("White")
	require.NoError(t, err)
	assert.False(t, changed, "already selected")
	assert.Empty(t, rec.events)

	changed, err = p.Switch.ApplyVariant("Orange")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "other", p.Switch.Selected())
	assert.Equal(t, []switching.LiveResource{{Name: "Oxidizer", Amount: 10, Capacity: 10}}, p.Resources.List())

	changed, err = p.Switch.ApplyVariant("Black")
	require.NoError(t, err)
	assert.False(t, changed, "wildcard option already selected")
}

func TestSwitcher_ResyncStripsLeftovers(t *testing.T) {
	p := newTank(t, testRegistry(t), nil)
	p.Switch.Restore("LF")
	// A stale load brought back the LFO contents with a partly drained tank.
	require.NoError(t, p.Resources.Add(switching.LiveResource{Name: "LiquidFuel", Amount: 12, Capacity: 100}))
	require.NoError(t, p.Resources.Add(switching.LiveResource{Name: "Oxidizer", Amount: 55, Capacity: 110}))
	gen := p.Resources.Generation()

	res, err := p.Switch.Resync()
	require.NoError(t, err)
	assert.Equal(t, []string{"Oxidizer"}, res.Removed)
	assert.Greater(t, p.Resources.Generation(), gen)

	lf, _ := p.Resources.Get("LiquidFuel")
	assert.Equal(t, 12.0, lf.Amount, "passive resync keeps amounts")

	res, err = p.Switch.Resync()
	require.NoError(t, err)
	assert.False(t, res.Changed())
}

func TestSwitcher_UnknownPersistedSelection(t *testing.T) {
	p := newTank(t, testRegistry(t), nil)
	p.Switch.Restore("Ore")

	_, err := p.Switch.Resync()
	require.NoError(t, err)
	assert.Equal(t, "LF", p.Switch.Selected())
}

func TestSwitcher_InertType(t *testing.T) {
	rec := &recorder{}
	p := New("girder", nil)
	NewSwitcher(p, testRegistry(t), rec)

	assert.False(t, p.Switch.Active())
	require.NoError(t, p.Switch.OnCreated())
	require.NoError(t, p.Switch.Cycle())
	changed, err := p.Switch.ApplyVariant("White")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, "", p.Switch.Label())
	assert.Nil(t, p.Switch.Entry())
	assert.Equal(t, Unresolved, p.Switch.Selected())
	assert.Empty(t, rec.events)
}

func TestResourceList_DerivedState(t *testing.T) {
	l := NewResourceList(switching.LiveResource{Name: "LiquidFuel", Amount: 1, Capacity: 2})
	assert.Len(t, l.Simulation(), 1)

	require.NoError(t, l.Add(switching.LiveResource{Name: "Oxidizer", Amount: 1, Capacity: 2}))
	assert.Len(t, l.Simulation(), 1, "snapshot is stale until invalidated")
	assert.Error(t, l.Add(switching.LiveResource{Name: "Oxidizer"}))

	l.InvalidateDerivedState()
	assert.Len(t, l.Simulation(), 2)

	assert.Error(t, l.Remove("Ore"))
	assert.Error(t, l.Set("Ore", 1, 1))

	gen := l.Generation()
	l.Rebuild()
	assert.Equal(t, gen+1, l.Generation())
	assert.Equal(t, 2, l.Len())
}

func TestSwitcher_InertWarnsOncePerType(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	r := testRegistry(t)
	for i := 0; i < 3; i++ {
		p := New("girder", nil)
		NewSwitcher(p, r, nil)
		require.NoError(t, p.Switch.OnCreated())
		require.NoError(t, p.Switch.Cycle())
	}
	p := New("strut", nil)
	NewSwitcher(p, r, nil)
	assert.False(t, p.Switch.Active())

	assert.Equal(t, 2, strings.Count(buf.String(), "Fuel switching disabled"))
}

func TestResourceList_IndexFollowsEdits(t *testing.T) {
	l := NewResourceList(
		switching.LiveResource{Name: "LiquidFuel", Amount: 1, Capacity: 2},
		switching.LiveResource{Name: "Oxidizer", Amount: 3, Capacity: 4},
	)

	require.NoError(t, l.Remove("LiquidFuel"))
	ox, ok := l.Get("Oxidizer")
	require.True(t, ok)
	assert.Equal(t, 3.0, ox.Amount)
	_, ok = l.Get("LiquidFuel")
	assert.False(t, ok)

	require.NoError(t, l.Add(switching.LiveResource{Name: "MonoPropellant", Amount: 5, Capacity: 5}))
	require.NoError(t, l.Set("MonoPropellant", 1, 6))
	mono, ok := l.Get("MonoPropellant")
	require.True(t, ok)
	assert.Equal(t, switching.LiveResource{Name: "MonoPropellant", Amount: 1, Capacity: 6}, mono)

	l.Rebuild()
	assert.Error(t, l.Set("LiquidFuel", 1, 1))
	assert.Equal(t, 2, l.Len())
}
