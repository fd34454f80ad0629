package switching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBundle_DisplayName(t *testing.T) {
	cat := testCatalog(t)

	b := NewBundle("LFO", "", nil, []Descriptor{
		res(t, cat, "LiquidFuel", 45, 90),
		res(t, cat, "Oxidizer", 55, 110),
	})
	assert.Equal(t, "Liquid Fuel + Oxidizer", b.DisplayName())

	named := NewBundle("LFO", "LFO", nil, []Descriptor{res(t, cat, "LiquidFuel", 45, 90)})
	assert.Equal(t, "LFO", named.DisplayName())

	empty := NewBundle("none", "", nil, nil)
	assert.Equal(t, NoResourcesLabel, empty.DisplayName())
}

func TestNewBundle_Cost(t *testing.T) {
	cat := testCatalog(t)
	b := NewBundle("LFO", "", nil, []Descriptor{
		res(t, cat, "LiquidFuel", 45, 90),
		res(t, cat, "Oxidizer", 55, 110),
	})
	assert.InDelta(t, 45*0.8+55*0.18, b.Cost(), 1e-9)
}

func TestNewBundle_Immutable(t *testing.T) {
	cat := testCatalog(t)
	in := []Descriptor{res(t, cat, "LiquidFuel", 45, 90)}
	b := NewBundle("LF", "", nil, in)

	in[0].Amount = 1
	out := b.Resources()
	out[0].Amount = 2

	got, ok := b.Resource("LiquidFuel")
	assert.True(t, ok)
	assert.Equal(t, 45.0, got.Amount)
}

func TestParseLinkedTags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"White", []string{"White"}},
		{" White , Orange,,*", []string{"White", "Orange", "*"}},
		{"A,A", []string{"A"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLinkedTags(tt.in))
		})
	}
}
