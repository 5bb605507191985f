package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"log/slog"
	"os"
	"strings"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/emirpasic/gods/sets/hashset"

	"mapper-generator/internal/analyze"
	"mapper-generator/internal/common"
	"mapper-generator/internal/config"
	"mapper-generator/internal/diagnostic"
	"mapper-generator/internal/gen"
	"mapper-generator/internal/mapping"
	"mapper-generator/internal/plan"
)

// Config configures one run. Package import paths default to the path
// derived from the enclosing go.mod.
type Config struct {
	EntityDir     string
	EntityPackage string
	DTODir        string
	DTOPackage    string
	OutputDir     string
	OutputPackage string
	// OutputPackageName defaults to the last element of OutputPackage.
	OutputPackageName string
	// OverridesPath is the optional override file.
	OverridesPath string
	// ManifestPath switches schema extraction from Go packages to a YAML
	// schema manifest.
	ManifestPath string
	// Clear deletes previously generated files before generating.
	Clear bool
	// Suffix ends DTO type names; defaults to "DTO".
	Suffix         string
	ForwardMethod  string
	BackwardMethod string
	// Asymmetric resolves the backward table without the inverted forward table.
	Asymmetric bool
}

// Orchestrator runs the generation pipeline over all discovered pairs.
type Orchestrator struct {
	cfg    Config
	logger *slog.Logger
}

// New creates an Orchestrator; a nil logger means slog.Default().
func New(cfg Config, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{cfg: cfg, logger: logger}
}

// pair is one worklist item.
type pair struct {
	source analyze.TypeID
	target analyze.TypeID
}

func (p pair) key() string {
	return p.source.String() + "->" + p.target.String()
}

// run holds the state shared by the pairs of one Run.
type run struct {
	cfg       Config
	logger    *slog.Logger
	catalog   analyze.Catalog
	overrides *config.Overrides
	namer     *plan.Namer
	collector *plan.Collector
	generator *gen.Generator
	queue     *linkedlistqueue.Queue
	queued    *hashset.Set
	report    *Report
}

// Run generates every pending mapper. It returns a *ConfigurationError
// before generating anything when the configuration is invalid. Failures of
// single pairs are recorded in the report. Cancelling ctx stops the run
// between pairs.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	cfg, err := o.validate()
	if err != nil {
		return nil, err
	}

	overrides, err := config.Load(cfg.OverridesPath)
	if err != nil {
		return nil, &ConfigurationError{Field: "config", Value: cfg.OverridesPath, Err: err}
	}

	if cfg.Clear {
		removed, err := gen.ClearGenerated(cfg.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("clearing %s: %w", cfg.OutputDir, err)
		}

		for _, path := range removed {
			o.logger.Info("removed generated file", "path", path)
		}
	}

	catalog, err := newCatalog(cfg)
	if err != nil {
		return nil, err
	}

	namer := plan.NewNamer()
	r := &run{
		cfg:       cfg,
		logger:    o.logger,
		catalog:   catalog,
		overrides: overrides,
		namer:     namer,
		collector: &plan.Collector{
			Pairing: plan.Pairing{
				SourceSegment: common.PkgAlias(cfg.EntityPackage),
				TargetSegment: common.PkgAlias(cfg.DTOPackage),
				Suffix:        cfg.Suffix,
			},
			Namer:   namer,
			Package: cfg.OutputPackage,
		},
		generator: gen.NewGenerator(gen.GeneratorConfig{
			PackageName:      cfg.OutputPackageName,
			PackagePath:      cfg.OutputPackage,
			OutputDir:        cfg.OutputDir,
			ForwardMethod:    cfg.ForwardMethod,
			BackwardMethod:   cfg.BackwardMethod,
			GenerateComments: true,
		}),
		queue:  linkedlistqueue.New(),
		queued: hashset.New(),
		report: &Report{},
	}

	if err := r.seed(); err != nil {
		return nil, err
	}

	for !r.queue.Empty() {
		if err := ctx.Err(); err != nil {
			return r.report, err
		}

		v, _ := r.queue.Dequeue()
		r.report.Results = append(r.report.Results, r.process(v.(pair)))
	}

	o.logger.Info("generation finished",
		"generated", r.report.Count(StatusGenerated),
		"skipped", r.report.Count(StatusSkipped),
		"failed", r.report.Count(StatusFailed))

	return r.report, nil
}

// validate checks the configuration and fills in defaults.
func (o *Orchestrator) validate() (Config, error) {
	cfg := o.cfg

	if err := validateSources(&cfg); err != nil {
		return cfg, err
	}

	if cfg.OutputDir == "" {
		return cfg, &ConfigurationError{Field: "output-path", Err: errors.New("required")}
	}

	if cfg.OutputPackage == "" {
		path, err := importPath(cfg.OutputDir)
		if err != nil {
			return cfg, &ConfigurationError{Field: "output-package", Value: cfg.OutputDir, Err: err}
		}

		cfg.OutputPackage = path
	}

	if cfg.OutputPackageName == "" {
		cfg.OutputPackageName = common.PkgAlias(cfg.OutputPackage)
	}

	if cfg.Suffix == "" {
		cfg.Suffix = plan.DefaultSuffix
	}

	def := gen.DefaultGeneratorConfig()
	if cfg.ForwardMethod == "" {
		cfg.ForwardMethod = def.ForwardMethod
	}

	if cfg.BackwardMethod == "" {
		cfg.BackwardMethod = def.BackwardMethod
	}

	for _, m := range []struct{ field, name string }{
		{"forward-method", cfg.ForwardMethod},
		{"backward-method", cfg.BackwardMethod},
	} {
		if !token.IsIdentifier(m.name) || !token.IsExported(m.name) {
			return cfg, &ConfigurationError{Field: m.field, Value: m.name, Err: errors.New("not an exported identifier")}
		}
	}

	if cfg.ForwardMethod == cfg.BackwardMethod {
		return cfg, &ConfigurationError{
			Field: "backward-method",
			Value: cfg.BackwardMethod,
			Err:   errors.New("equals the forward method"),
		}
	}

	return cfg, nil
}

// validateSources checks the entity and DTO locations and fills in their
// package paths.
func validateSources(cfg *Config) error {
	for _, side := range []struct {
		dirField, pkgField string
		dir                string
		pkg                *string
	}{
		{"entity-path", "entity-package", cfg.EntityDir, &cfg.EntityPackage},
		{"dto-path", "dto-package", cfg.DTODir, &cfg.DTOPackage},
	} {
		if err := requireDir(side.dir); err != nil {
			return &ConfigurationError{Field: side.dirField, Value: side.dir, Err: err}
		}

		if *side.pkg != "" {
			continue
		}

		path, err := importPath(side.dir)
		if err != nil {
			return &ConfigurationError{Field: side.pkgField, Value: side.dir, Err: err}
		}

		*side.pkg = path
	}

	return nil
}

// Inspect extracts the schemas of the named types. Names are resolved against
// the entity and DTO packages and may be full ids, "pkg.Name" or bare names.
func (o *Orchestrator) Inspect(names []string) ([]*analyze.TypeSchema, error) {
	cfg := o.cfg
	if err := validateSources(&cfg); err != nil {
		return nil, err
	}

	catalog, err := newCatalog(cfg)
	if err != nil {
		return nil, err
	}

	known, err := structs(catalog, cfg)
	if err != nil {
		return nil, err
	}

	schemas := make([]*analyze.TypeSchema, 0, len(names))

	for _, name := range names {
		id, ok := analyze.ResolveTypeID(name, known)
		if !ok {
			return nil, fmt.Errorf("type %q not found in %s or %s", name, cfg.EntityPackage, cfg.DTOPackage)
		}

		schema, err := catalog.Extract(id)
		if err != nil {
			return nil, err
		}

		schemas = append(schemas, schema)
	}

	return schemas, nil
}

// structs lists the entity structs followed by the DTO structs.
func structs(catalog analyze.Catalog, cfg Config) ([]analyze.TypeID, error) {
	entities, err := catalog.Structs(analyze.Scope{Dir: cfg.EntityDir, Package: cfg.EntityPackage})
	if err != nil {
		return nil, fmt.Errorf("loading entities: %w", err)
	}

	dtos, err := catalog.Structs(analyze.Scope{Dir: cfg.DTODir, Package: cfg.DTOPackage})
	if err != nil {
		return nil, fmt.Errorf("loading DTOs: %w", err)
	}

	return append(entities, dtos...), nil
}

// newCatalog returns the schema source of a run.
func newCatalog(cfg Config) (analyze.Catalog, error) {
	if cfg.ManifestPath == "" {
		return analyze.NewAnalyzer(), nil
	}

	manifest, err := analyze.LoadManifest(cfg.ManifestPath)
	if err != nil {
		return nil, &ConfigurationError{Field: "manifest", Value: cfg.ManifestPath, Err: err}
	}

	return manifest, nil
}

func requireDir(path string) error {
	if path == "" {
		return errors.New("required")
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return errors.New("not a directory")
	}

	return nil
}

// seed loads both sides and queues override pairs, then discovered pairs.
func (r *run) seed() error {
	entities, err := r.catalog.Structs(analyze.Scope{Dir: r.cfg.EntityDir, Package: r.cfg.EntityPackage})
	if err != nil {
		return fmt.Errorf("loading entities: %w", err)
	}

	dtos, err := r.catalog.Structs(analyze.Scope{Dir: r.cfg.DTODir, Package: r.cfg.DTOPackage})
	if err != nil {
		return fmt.Errorf("loading DTOs: %w", err)
	}

	known := append(append([]analyze.TypeID(nil), entities...), dtos...)

	r.overrides.Canonicalize(func(s string) (string, bool) {
		id, ok := analyze.ResolveTypeID(s, known)

		return id.String(), ok
	})

	r.addDirectives(dtos, known)

	for _, ov := range r.overrides.Pairs() {
		p := pair{source: analyze.ParseTypeID(ov.Source), target: analyze.ParseTypeID(ov.Target)}

		if ov.MapperName != "" && !r.namer.Reserve(p.source, p.target, ov.MapperName) {
			r.logger.Warn("mapper name already taken, using default naming",
				"mapper", ov.MapperName, "source", ov.Source, "target", ov.Target)
		}

		r.enqueue(p)
	}

	// Discovered pairs sit at the same place below their roots:
	// entity/home.Address pairs with dto/home.AddressDTO only.
	for _, e := range entities {
		for _, d := range dtos {
			if !strings.HasPrefix(d.Name, e.Name) || !strings.HasSuffix(d.Name, r.cfg.Suffix) {
				continue
			}

			if subpackage(e.PkgPath, r.cfg.EntityPackage) != subpackage(d.PkgPath, r.cfg.DTOPackage) {
				continue
			}

			if r.overrides.IsMapped(e.String(), d.String()) {
				continue
			}

			r.enqueue(pair{source: e, target: d})
		}
	}

	r.logger.Debug("worklist seeded", "pairs", r.queue.Size(), "overrides", r.overrides.Len())

	return nil
}

// subpackage returns pkgPath relative to root, "" for root itself.
func subpackage(pkgPath, root string) string {
	if rel, ok := strings.CutPrefix(pkgPath, root+"/"); ok {
		return rel
	}

	return strings.TrimPrefix(pkgPath, root)
}

// addDirectives turns `//mapper:from` directives on DTOs into overrides.
func (r *run) addDirectives(dtos, known []analyze.TypeID) {
	for _, id := range dtos {
		schema, err := r.catalog.Extract(id)
		if err != nil {
			r.logger.Debug("skipping directive scan", "type", id.String(), "error", err)

			continue
		}

		ann := schema.ClassAnnotation
		if ann == nil || ann.PairedSource == "" {
			continue
		}

		source, ok := analyze.ResolveTypeID(ann.PairedSource, known)
		if !ok {
			source = analyze.ParseTypeID(ann.PairedSource)
		}

		r.overrides.Add(config.Override{Source: source.String(), Target: id.String(), MapperName: ann.MapperName})
	}
}

// enqueue adds a pair unless it was queued before in this run.
func (r *run) enqueue(p pair) {
	if r.queued.Contains(p.key()) {
		return
	}

	r.queued.Add(p.key())
	r.queue.Enqueue(p)
}

// name returns the mapper name of a pair, assigning the default one if needed.
func (r *run) name(p pair) string {
	if name, ok := r.namer.Lookup(p.source, p.target); ok {
		return name
	}

	base := plan.DefaultMapperName(p.source.Name, p.target.Name, r.cfg.Suffix)

	return r.namer.Assign(p.source, p.target, base)
}

// process generates one pair.
func (r *run) process(p pair) Result {
	name := r.name(p)
	res := Result{Mapper: name, Source: p.source, Target: p.target}
	logger := r.logger.With("mapper", name)

	if gen.Exists(r.cfg.OutputDir, gen.Filename(name)) {
		logger.Debug("output exists, skipping")

		res.Status = StatusSkipped

		return res
	}

	source, err := r.catalog.Extract(p.source)
	if err == nil {
		var target *analyze.TypeSchema

		target, err = r.catalog.Extract(p.target)
		if err == nil {
			return r.emit(res, source, target, logger)
		}
	}

	return r.fail(res, diagnostic.CodeSchemaError, err, logger)
}

func (r *run) emit(res Result, source, target *analyze.TypeSchema, logger *slog.Logger) Result {
	forward := mapping.Resolve(source, nil)

	var seed *mapping.Table
	if !r.cfg.Asymmetric {
		seed = forward.Invert()
	}

	deps := r.collector.Collect(source, forward)
	for _, dep := range deps.List() {
		r.overrides.Add(config.Override{
			Source:     dep.SourceType.String(),
			Target:     dep.TargetType.String(),
			MapperName: dep.Name,
		})
		r.enqueue(pair{source: dep.SourceType, target: dep.TargetType})
	}

	file, err := r.generator.Generate(gen.Unit{
		MapperName:   res.Mapper,
		Source:       source,
		Target:       target,
		Forward:      forward,
		Backward:     mapping.Resolve(target, seed),
		Dependencies: deps,
	})
	if err != nil {
		return r.fail(res, diagnostic.CodeGenerateFailed, err, logger)
	}

	r.report.Diagnostics.Merge(file.Diagnostics)

	for _, d := range file.Diagnostics.All() {
		logger.Debug(d.String())
	}

	res.Status = StatusGenerated

	path, err := gen.WriteFile(file, r.cfg.OutputDir)
	if err != nil {
		logger.Warn("failed to write mapper", "error", err)
		r.report.Diagnostics.AddWarning(diagnostic.CodeWriteFailed, err.Error(), res.Mapper, "")

		return res
	}

	res.Path = path
	logger.Info("generated mapper", "path", path, "dependencies", deps.Len())

	return res
}

func (r *run) fail(res Result, code string, err error, logger *slog.Logger) Result {
	res.Status = StatusFailed
	res.Err = err

	r.report.Diagnostics.AddError(code, err.Error(), res.Mapper, "")
	logger.Error("mapper failed", "error", err)

	return res
}
