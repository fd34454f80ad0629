package switching

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dokzlo13/fuelswitch/internal/catalog"
)

func f64(v float64) *float64 {
	return &v
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat := catalog.New()
	for _, def := range []catalog.Definition{
		{Name: "LiquidFuel", DisplayName: "Liquid Fuel", Density: 0.005, UnitCost: 0.8},
		{Name: "Oxidizer", DisplayName: "Oxidizer", Density: 0.005, UnitCost: 0.18},
		{Name: "MonoPropellant", DisplayName: "Monopropellant", Density: 0.004, UnitCost: 1.2},
		{Name: "ElectricCharge", DisplayName: "Electric Charge"},
	} {
		require.NoError(t, cat.Add(def))
	}
	return cat
}

func res(t *testing.T, cat *catalog.Catalog, name string, amount, capacity float64) Descriptor {
	t.Helper()
	def, ok := cat.Lookup(name)
	require.True(t, ok, "unknown resource %s", name)
	return Descriptor{Kind: def, Amount: amount, Capacity: capacity}
}

// memContainer is an in-memory Container.
type memContainer struct {
	entries     []LiveResource
	invalidated int
	failAdd     string
}

func newMemContainer(entries ...LiveResource) *memContainer {
	return &memContainer{entries: append([]LiveResource(nil), entries...)}
}

func (c *memContainer) List() []LiveResource {
	return append([]LiveResource(nil), c.entries...)
}

func (c *memContainer) Add(r LiveResource) error {
	if r.Name == c.failAdd {
		return errors.New("container full")
	}
	c.entries = append(c.entries, r)
	return nil
}

func (c *memContainer) Remove(name string) error {
	for i, e := range c.entries {
		if e.Name == name {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return nil
		}
	}
	return errors.New("not found: " + name)
}

func (c *memContainer) Set(name string, amount, capacity float64) error {
	for i := range c.entries {
		if c.entries[i].Name == name {
			c.entries[i].Amount = amount
			c.entries[i].Capacity = capacity
			return nil
		}
	}
	return errors.New("not found: " + name)
}

func (c *memContainer) InvalidateDerivedState() {
	c.invalidated++
}
