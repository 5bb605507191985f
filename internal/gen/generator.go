package gen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"strconv"

	"mapper-generator/internal/analyze"
	"mapper-generator/internal/diagnostic"
	"mapper-generator/internal/mapping"
	"mapper-generator/internal/match"
	"mapper-generator/internal/plan"
)

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// PackageName is the name of the generated package.
	PackageName string
	// PackagePath is the import path of the generated package.
	PackagePath string
	// OutputDir is where unformatted sources are dumped when formatting fails.
	OutputDir string
	// ForwardMethod converts source to target.
	ForwardMethod string
	// BackwardMethod converts target to source.
	BackwardMethod string
	// GenerateComments enables doc comments on generated declarations.
	GenerateComments bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		PackageName:      "mappers",
		OutputDir:        "./mappers",
		ForwardMethod:    "ToDTO",
		BackwardMethod:   "ToEntity",
		GenerateComments: true,
	}
}

// Unit is everything needed to render one mapper.
type Unit struct {
	MapperName   string
	Source       *analyze.TypeSchema
	Target       *analyze.TypeSchema
	Forward      *mapping.Table
	Backward     *mapping.Table
	Dependencies *plan.Dependencies
}

// GeneratedFile is a rendered mapper source file.
type GeneratedFile struct {
	// Filename is the base name, e.g. "user_read_mapper.go".
	Filename string
	// Content is the formatted Go source code.
	Content     []byte
	Diagnostics diagnostic.Diagnostics
}

// Filename returns the file name of a mapper.
func Filename(mapperName string) string {
	return match.SnakeCase(mapperName) + ".go"
}

// Generator renders mapper units.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	def := DefaultGeneratorConfig()
	if config.ForwardMethod == "" {
		config.ForwardMethod = def.ForwardMethod
	}

	if config.BackwardMethod == "" {
		config.BackwardMethod = def.BackwardMethod
	}

	if config.PackageName == "" {
		config.PackageName = def.PackageName
	}

	return &Generator{config: config}
}

// Config returns the effective configuration.
func (g *Generator) Config() GeneratorConfig {
	return g.config
}

// templateData holds all data needed for the mapper template.
type templateData struct {
	Header           string
	PackageName      string
	Imports          []importSpec
	Name             string
	SourceType       string
	TargetType       string
	Deps             []depData
	Forward          methodData
	Backward         methodData
	GenerateComments bool
}

// depData is one dependency mapper field.
type depData struct {
	Field string
	Param string
	Type  string
}

// Generate renders one mapper.
func (g *Generator) Generate(u Unit) (*GeneratedFile, error) {
	if u.MapperName == "" {
		return nil, errors.New("mapper name is empty")
	}

	if u.Source == nil || u.Target == nil {
		return nil, fmt.Errorf("%s: source and target schemas are required", u.MapperName)
	}

	imports := newImportRegistry(g.config.PackagePath)
	imports.reserve(recvVar, inVar, outVar, valueVar, itemsVar, indexVar)

	b := &builder{
		cfg:    g.config,
		unit:   u,
		p:      &printer{imports: imports},
		fields: make(map[string]string),
	}

	for _, dep := range u.Dependencies.List() {
		b.fields[dep.Name] = match.LowerCamel(dep.Name)
	}

	data := &templateData{
		Header:           GeneratedHeader,
		PackageName:      g.config.PackageName,
		Name:             u.MapperName,
		GenerateComments: g.config.GenerateComments,
	}

	data.Forward = b.build(direction{
		method:  g.config.ForwardMethod,
		forward: true,
		in:      u.Source,
		out:     u.Target,
		table:   u.Forward,
	})
	data.Backward = b.build(direction{
		method: g.config.BackwardMethod,
		in:     u.Target,
		out:    u.Source,
		table:  u.Backward,
	})

	data.SourceType = data.Backward.OutType
	data.TargetType = data.Forward.OutType

	// Constructor parameters must not shadow a package used in the file.
	for _, dep := range u.Dependencies.List() {
		field := b.fields[dep.Name]

		param := field
		for i := 2; imports.has(param); i++ {
			param = field + strconv.Itoa(i)
		}

		data.Deps = append(data.Deps, depData{
			Field: field,
			Param: param,
			Type:  imports.qualify(dep.Package, "", dep.Name),
		})
	}

	data.Imports = imports.specs()
	filename := Filename(u.MapperName)

	var buf bytes.Buffer
	if err := mapperTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		if g.config.OutputDir != "" {
			_ = writeDebugUnformatted(g.config.OutputDir, filename, buf.Bytes())
		}

		return &GeneratedFile{
			Filename:    filename,
			Content:     buf.Bytes(),
			Diagnostics: b.diags,
		}, fmt.Errorf("formatting code: %w", err)
	}

	return &GeneratedFile{
		Filename:    filename,
		Content:     formatted,
		Diagnostics: b.diags,
	}, nil
}
