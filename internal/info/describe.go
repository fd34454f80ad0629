package info

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/dokzlo13/fuelswitch/internal/switching"
)

// ResourceLine is one resource of an option as shown to the player.
type ResourceLine struct {
	Name     string
	Title    string
	Amount   float64
	Capacity float64
	Mass     float64 // zero for massless kinds
	HasMass  bool
}

// OptionInfo describes one selectable option.
type OptionInfo struct {
	ID         string
	Title      string
	Summary    string
	Detail     string
	Cost       float64
	Default    bool
	LinkedTags []string
	Resources  []ResourceLine
}

// TypeInfo describes all options of a part type.
type TypeInfo struct {
	TypeID        string
	SelectorLabel string
	BaseResources []string
	Options       []OptionInfo
}

// Describe builds the info panel contents for a type entry.
func Describe(entry *switching.TypeEntry, f *Formatter) TypeInfo {
	ti := TypeInfo{
		TypeID:        entry.TypeID(),
		SelectorLabel: entry.SelectorLabel(),
		BaseResources: entry.BaseResources(),
	}

	for _, b := range entry.Bundles() {
		resources := b.Resources()
		oi := OptionInfo{
			ID:         b.ID(),
			Title:      Title(entry, b),
			Summary:    f.Primary(b.ID(), resources),
			Detail:     f.DetailBlock(b),
			Cost:       b.Cost(),
			Default:    entry.IsDefault(b.ID()),
			LinkedTags: b.LinkedTags(),
		}
		for _, r := range resources {
			line := ResourceLine{
				Name:     r.Name(),
				Title:    r.Kind.Title(),
				Amount:   r.Amount,
				Capacity: r.Capacity,
			}
			if r.Kind.Density > 0 {
				line.Mass = r.Mass()
				line.HasMass = true
			}
			oi.Resources = append(oi.Resources, line)
		}
		ti.Options = append(ti.Options, oi)
	}

	return ti
}

// RenderTable renders the options of one or more types as a table.
func RenderTable(types []TypeInfo, colors bool) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)

	header := table.Row{"Part", "Option", "Resources", "Summary", "Cost", "Variants"}
	if colors {
		for i, h := range header {
			header[i] = text.FgHiCyan.Sprint(h)
		}
	}
	t.AppendHeader(header)

	for _, ti := range types {
		for _, oi := range ti.Options {
			name := oi.ID
			if oi.Default {
				name += " *"
			}
			t.AppendRow(table.Row{
				ti.TypeID,
				name,
				resourceCell(oi.Resources),
				oi.Summary,
				fmt.Sprintf("%.1f", oi.Cost),
				strings.Join(oi.LinkedTags, ", "),
			})
		}
		if len(ti.BaseResources) > 0 {
			t.AppendRow(table.Row{ti.TypeID, "(base)", strings.Join(ti.BaseResources, "\n"), "", "", ""})
		}
		t.AppendSeparator()
	}

	return t.Render()
}

func resourceCell(lines []ResourceLine) string {
	if len(lines) == 0 {
		return switching.NoResourcesLabel
	}
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = fmt.Sprintf("%s %s/%s", l.Title, FormatUnits(l.Amount), FormatUnits(l.Capacity))
	}
	return strings.Join(parts, "\n")
}
