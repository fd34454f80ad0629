// Package content reads part and resource definitions from YAML files.
package content

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/dokzlo13/fuelswitch/internal/switching"
)

// File is one content file.
type File struct {
	Path      string        `yaml:"-"`
	Resources []ResourceDef `yaml:"resources"`
	Parts     []PartDef     `yaml:"parts"`
}

// ResourceDef defines a resource kind.
type ResourceDef struct {
	Name        string  `yaml:"name"`
	DisplayName string  `yaml:"display_name"`
	Density     float64 `yaml:"density"`
	UnitCost    float64 `yaml:"unit_cost"`
}

// PartDef defines a part type.
type PartDef struct {
	Name      string          `yaml:"name"`
	Title     string          `yaml:"title"`
	Resources []ResourceEntry `yaml:"resources"`
	Switch    *SwitchDef      `yaml:"switch"`
}

// ResourceEntry is a resource with amounts, as on a part or an option.
type ResourceEntry struct {
	Name      string   `yaml:"name"`
	Amount    *float64 `yaml:"amount"`
	MaxAmount *float64 `yaml:"max_amount"`
}

// SwitchDef lists the switchable options of a part type.
type SwitchDef struct {
	SelectorLabel string      `yaml:"selector_label"`
	Options       []OptionDef `yaml:"options"`
}

// OptionDef is one switchable option.
type OptionDef struct {
	ID            string          `yaml:"id"`
	DisplayName   string          `yaml:"display_name"`
	Default       bool            `yaml:"default"`
	LinkedVariant string          `yaml:"linked_variant"`
	Resources     []ResourceEntry `yaml:"resources"`
}

// Specs converts entries to resource specs for validation.
func Specs(entries []ResourceEntry) []switching.ResourceSpec {
	specs := make([]switching.ResourceSpec, len(entries))
	for i, e := range entries {
		specs[i] = switching.ResourceSpec{Name: e.Name, Amount: e.Amount, Capacity: e.MaxAmount}
	}
	return specs
}

// Parse decodes one content file.
func Parse(path string, data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	f.Path = path
	return &f, nil
}

// ReadFile reads and decodes one content file.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, data)
}

// Glob returns the content files under dir in lexical order. dir must exist.
func Glob(dir string) ([]string, error) {
	st, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("content directory: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("content directory: %s is not a directory", dir)
	}

	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)
	return paths, nil
}
