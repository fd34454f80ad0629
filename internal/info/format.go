// Package info renders switchable options for part info panels and the CLI.
package info

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dokzlo13/fuelswitch/internal/switching"
)

// DefaultKey selects the format used for options without their own entry.
const DefaultKey = "default"

// Format tags. Primary formats also accept an index suffix (%u1 .. %u20) to
// address a single resource.
const (
	UnitsTag    = "%u"
	MassTag     = "%m"
	QuantityTag = "%q"

	sumIndex = -1
)

// primaryTag matches the longest tag first, so %u12 is never read as %u1.
var primaryTag = regexp.MustCompile(`%[umq](?:20|1[0-9]|[1-9])?`)

type tagFunc func(resources []switching.Descriptor, index int) string

var tagFuncs = map[byte]tagFunc{
	'u': unitsOf,
	'm': massOf,
	'q': quantityOf,
}

// Formatter turns options into panel text using per-option format strings.
type Formatter struct {
	detail  map[string]string
	primary map[string]string
}

// NewFormatter creates a formatter. Missing "default" entries fall back to %q.
func NewFormatter(detail, primary map[string]string) *Formatter {
	return &Formatter{
		detail:  withDefault(detail),
		primary: withDefault(primary),
	}
}

func withDefault(formats map[string]string) map[string]string {
	out := map[string]string{DefaultKey: QuantityTag}
	for k, v := range formats {
		out[k] = v
	}
	return out
}

func formatOf(formats map[string]string, id string) string {
	if format, ok := formats[id]; ok {
		return format
	}
	return formats[DefaultKey]
}

// Detail formats one resource of option id.
func (f *Formatter) Detail(id string, d switching.Descriptor) string {
	one := []switching.Descriptor{d}
	return strings.NewReplacer(
		UnitsTag, unitsOf(one, 0),
		MassTag, massOf(one, 0),
		QuantityTag, quantityOf(one, 0),
	).Replace(formatOf(f.detail, id))
}

// DetailBlock formats every resource of an option, one per line.
func (f *Formatter) DetailBlock(b *switching.Bundle) string {
	resources := b.Resources()
	if len(resources) == 0 {
		return switching.NoResourcesLabel
	}
	lines := make([]string, len(resources))
	for i, r := range resources {
		lines[i] = fmt.Sprintf("%s: %s", r.Kind.Title(), f.Detail(b.ID(), r))
	}
	return strings.Join(lines, "\n")
}

// Primary formats the one-line summary of an option. Indexed tags past the
// last resource are left as written. An option without resources is summarized
// by its "No resources" title.
func (f *Formatter) Primary(id string, resources []switching.Descriptor) string {
	if len(resources) == 0 {
		return switching.NoResourcesLabel
	}
	return primaryTag.ReplaceAllStringFunc(formatOf(f.primary, id), func(tag string) string {
		fn := tagFuncs[tag[1]]
		if len(tag) == 2 {
			return fn(resources, sumIndex)
		}
		n, _ := strconv.Atoi(tag[2:])
		if n > len(resources) {
			return tag
		}
		return fn(resources, n-1)
	})
}

// Title is the option's panel heading.
func Title(entry *switching.TypeEntry, b *switching.Bundle) string {
	title := fmt.Sprintf("%s: %s", entry.SelectorLabel(), b.DisplayName())
	if entry.IsDefault(b.ID()) {
		title += " (default)"
	}
	return title
}

func unitsOf(resources []switching.Descriptor, index int) string {
	var units float64
	if index == sumIndex {
		for _, r := range resources {
			units += r.Capacity
		}
	} else {
		units = resources[index].Capacity
	}
	return FormatUnits(units)
}

func massOf(resources []switching.Descriptor, index int) string {
	var mass float64
	if index == sumIndex {
		for _, r := range resources {
			mass += r.Mass()
		}
	} else {
		mass = resources[index].Mass()
	}
	return FormatTons(mass)
}

func quantityOf(resources []switching.Descriptor, index int) string {
	if index == sumIndex {
		for _, r := range resources {
			if r.Kind.Density > 0 {
				return massOf(resources, index)
			}
		}
		return unitsOf(resources, index)
	}
	if resources[index].Kind.Density > 0 {
		return massOf(resources, index)
	}
	return unitsOf(resources, index)
}

// FormatUnits renders a unit count with at most one decimal.
func FormatUnits(v float64) string {
	return trimmed(v, 1)
}

// FormatTons renders a mass with at most three decimals.
func FormatTons(t float64) string {
	return trimmed(t, 3) + " t"
}

func trimmed(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}
