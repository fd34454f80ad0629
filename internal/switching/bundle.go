package switching

import (
	"sort"
	"strings"
)

// Wildcard is the linkage tag that matches any variant not claimed by another option.
const Wildcard = "*"

// NoResourcesLabel names an option that carries no resources.
const NoResourcesLabel = "No resources"

const titleSeparator = " + "

// Bundle is one switchable option: an ordered set of resources plus linkage tags.
// Bundles are immutable once built.
type Bundle struct {
	id          string
	displayName string
	linkedTags  map[string]struct{}
	resources   []Descriptor
	cost        float64
}

// NewBundle builds a bundle from validated descriptors. An empty displayName is
// synthesized from the resource titles.
func NewBundle(id, displayName string, linkedTags []string, resources []Descriptor) *Bundle {
	b := &Bundle{
		id:         id,
		resources:  append([]Descriptor(nil), resources...),
		linkedTags: make(map[string]struct{}, len(linkedTags)),
	}
	for _, tag := range linkedTags {
		b.linkedTags[tag] = struct{}{}
	}
	for _, r := range b.resources {
		b.cost += r.Cost()
	}
	if displayName == "" {
		displayName = LongTitle(b.resources)
	}
	b.displayName = displayName
	return b
}

// LongTitle joins the resource titles in declaration order.
func LongTitle(resources []Descriptor) string {
	if len(resources) == 0 {
		return NoResourcesLabel
	}
	titles := make([]string, len(resources))
	for i, r := range resources {
		titles[i] = r.Kind.Title()
	}
	return strings.Join(titles, titleSeparator)
}

// ID returns the option id, unique within its type.
func (b *Bundle) ID() string { return b.id }

// DisplayName returns the short UI name (e.g. "LFO").
func (b *Bundle) DisplayName() string { return b.displayName }

// Resources returns a copy of the declared resources.
func (b *Bundle) Resources() []Descriptor {
	return append([]Descriptor(nil), b.resources...)
}

// Cost returns the precomputed aggregate cost.
func (b *Bundle) Cost() float64 { return b.cost }

// Resource returns the descriptor for a kind, if the bundle declares it.
func (b *Bundle) Resource(name string) (Descriptor, bool) {
	for _, r := range b.resources {
		if r.Name() == name {
			return r, true
		}
	}
	return Descriptor{}, false
}

// HasTag reports whether tag is linked verbatim.
func (b *Bundle) HasTag(tag string) bool {
	_, ok := b.linkedTags[tag]
	return ok
}

// LinkedTags returns the linkage tags, sorted.
func (b *Bundle) LinkedTags() []string {
	tags := make([]string, 0, len(b.linkedTags))
	for tag := range b.linkedTags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// IsLinked reports whether the bundle has any linkage tag.
func (b *Bundle) IsLinked() bool {
	return len(b.linkedTags) > 0
}

// ParseLinkedTags splits a comma-delimited tag list, trimming blanks and
// skipping empty tokens.
func ParseLinkedTags(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var tags []string
	seen := make(map[string]bool)
	for _, token := range strings.Split(text, ",") {
		token = strings.TrimSpace(token)
		if token == "" || seen[token] {
			continue
		}
		seen[token] = true
		tags = append(tags, token)
	}
	return tags
}
