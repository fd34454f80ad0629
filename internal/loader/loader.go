// Package loader runs the load phase: it builds the resource catalog and the
// switching registry from content files, then seals the registry.
package loader

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/fuelswitch/internal/catalog"
	"github.com/dokzlo13/fuelswitch/internal/content"
	"github.com/dokzlo13/fuelswitch/internal/switching"
)

// PartType is a loaded part definition.
type PartType struct {
	Name  string
	Title string
	// Base holds the resources of the unconfigured definition.
	Base []switching.LiveResource
	// Switchable is set when the definition carries a switch block, even if
	// none of its options survived validation.
	Switchable bool
}

// Problem is one content issue found during loading.
type Problem struct {
	File     string
	PartType string
	Option   string
	Err      error
}

func (p Problem) String() string {
	s := p.File
	if p.PartType != "" {
		s += ": " + p.PartType
	}
	if p.Option != "" {
		s += "/" + p.Option
	}
	return fmt.Sprintf("%s: %v", s, p.Err)
}

// Report collects everything the load phase skipped.
type Report struct {
	Files     []Problem // unreadable or unparseable files
	Discarded []Problem // options or part types dropped for invalid resources
	Conflicts []Problem // duplicate ids, missing ids, duplicate definitions
	Inert     []string  // switchable part types left without options
}

// OK reports whether nothing was skipped.
func (r *Report) OK() bool {
	return len(r.Files) == 0 && len(r.Discarded) == 0 && len(r.Conflicts) == 0 && len(r.Inert) == 0
}

// Result is the output of the load phase.
type Result struct {
	Catalog  *catalog.Catalog
	Registry *switching.Registry
	Types    map[string]*PartType
	Order    []string // part type names in load order
	Report   Report
}

// Type returns a loaded part type.
func (r *Result) Type(name string) (*PartType, bool) {
	t, ok := r.Types[name]
	return t, ok
}

// LoadDir loads every content file under dir.
func LoadDir(dir string) (*Result, error) {
	paths, err := content.Glob(dir)
	if err != nil {
		return nil, err
	}
	return LoadPaths(paths), nil
}

// LoadPaths reads the given files and loads them. Unreadable files are
// reported and skipped.
func LoadPaths(paths []string) *Result {
	var files []*content.File
	var problems []Problem
	for _, path := range paths {
		f, err := content.ReadFile(path)
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("Skipping content file")
			problems = append(problems, Problem{File: path, Err: err})
			continue
		}
		log.Info().Str("file", path).Int("parts", len(f.Parts)).Msg("Loading content")
		files = append(files, f)
	}

	res := Load(files)
	res.Report.Files = append(problems, res.Report.Files...)
	return res
}

// Load builds the catalog from every file first, then registers part types
// and their options in file order. It always completes and seals the registry.
func Load(files []*content.File) *Result {
	res := &Result{
		Catalog:  catalog.New(),
		Registry: switching.NewRegistry(),
		Types:    make(map[string]*PartType),
	}

	for _, f := range files {
		for _, def := range f.Resources {
			err := res.Catalog.Add(catalog.Definition{
				Name:        def.Name,
				DisplayName: def.DisplayName,
				Density:     def.Density,
				UnitCost:    def.UnitCost,
			})
			if err != nil {
				log.Warn().Err(err).Str("file", f.Path).Msg("Ignoring resource definition")
				res.Report.Conflicts = append(res.Report.Conflicts, Problem{File: f.Path, Err: err})
			}
		}
	}

	for _, f := range files {
		for i := range f.Parts {
			res.loadPart(f.Path, &f.Parts[i])
		}
	}

	res.Registry.Seal()
	log.Info().
		Int("resources", res.Catalog.Len()).
		Int("part_types", len(res.Types)).
		Int("switchable", len(res.Registry.Types())).
		Msg("Load phase complete")

	return res
}

func (r *Result) loadPart(file string, def *content.PartDef) {
	if def.Name == "" {
		r.Report.Conflicts = append(r.Report.Conflicts, Problem{File: file, Err: fmt.Errorf("part has no name")})
		return
	}
	if _, exists := r.Types[def.Name]; exists {
		log.Warn().Str("file", file).Str("part_type", def.Name).Msg("Ignoring duplicate part definition")
		r.Report.Conflicts = append(r.Report.Conflicts, Problem{File: file, PartType: def.Name, Err: fmt.Errorf("duplicate part definition")})
		return
	}

	base, err := switching.ParseResources(r.Catalog, content.Specs(def.Resources))
	if err != nil {
		log.Warn().Err(err).Str("file", file).Str("part_type", def.Name).Msg("Discarding part type")
		r.Report.Discarded = append(r.Report.Discarded, Problem{File: file, PartType: def.Name, Err: err})
		return
	}

	pt := &PartType{Name: def.Name, Title: def.Title, Switchable: def.Switch != nil}
	baseNames := make([]string, len(base))
	for i, d := range base {
		pt.Base = append(pt.Base, switching.LiveResource{Name: d.Name(), Amount: d.Amount, Capacity: d.Capacity})
		baseNames[i] = d.Name()
	}
	r.Types[def.Name] = pt
	r.Order = append(r.Order, def.Name)

	if def.Switch == nil {
		return
	}

	for _, opt := range def.Switch.Options {
		r.loadOption(file, def, opt, baseNames)
	}

	if _, ok := r.Registry.ForType(def.Name); !ok {
		log.Warn().Str("part_type", def.Name).Msg("Part type has no valid resource options")
		r.Report.Inert = append(r.Report.Inert, def.Name)
	}
}

func (r *Result) loadOption(file string, def *content.PartDef, opt content.OptionDef, baseNames []string) {
	resources, err := switching.ParseResources(r.Catalog, content.Specs(opt.Resources))
	if err != nil {
		log.Warn().Err(err).Str("part_type", def.Name).Str("option", opt.ID).Msg("Discarding resource option")
		r.Report.Discarded = append(r.Report.Discarded, Problem{File: file, PartType: def.Name, Option: opt.ID, Err: err})
		return
	}

	_, err = r.Registry.Register(switching.Registration{
		TypeID:        def.Name,
		BundleID:      opt.ID,
		DisplayName:   opt.DisplayName,
		SelectorLabel: def.Switch.SelectorLabel,
		LinkedTags:    switching.ParseLinkedTags(opt.LinkedVariant),
		IsDefault:     opt.Default,
		Resources:     resources,
		BaseResources: baseNames,
	})
	if err != nil {
		log.Error().Err(err).Str("part_type", def.Name).Str("option", opt.ID).Msg("Failed to register resource option")
		r.Report.Conflicts = append(r.Report.Conflicts, Problem{File: file, PartType: def.Name, Option: opt.ID, Err: err})
	}
}
