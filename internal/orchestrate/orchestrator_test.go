package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"

	"mapper-generator/internal/analyze"
)

const accountsPkg = "mapper-generator/examples/accounts"

func testConfig(t *testing.T) Config {
	t.Helper()

	return Config{
		EntityDir:     "../../examples/accounts/entity",
		DTODir:        "../../examples/accounts/dto",
		OutputDir:     t.TempDir(),
		OutputPackage: accountsPkg + "/mappers",
	}
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)

	return string(data)
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}

	return names
}

// typeCheck checks the files of dir as package pkgPath, importing the
// packages matched by patterns.
func typeCheck(t *testing.T, dir, pkgPath string, patterns ...string) {
	t.Helper()

	const mode = packages.NeedName | packages.NeedImports | packages.NeedDeps |
		packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo

	roots, err := packages.Load(&packages.Config{Mode: mode}, patterns...)
	require.NoError(t, err)

	loaded := make(loadedPackages)
	packages.Visit(roots, nil, func(pkg *packages.Package) {
		assert.Empty(t, pkg.Errors, pkg.PkgPath)
		loaded[pkg.PkgPath] = pkg.Types
	})

	fset := token.NewFileSet()

	var files []*ast.File
	for _, name := range listFiles(t, dir) {
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, 0)
		require.NoError(t, err, name)

		files = append(files, f)
	}

	var errs []string
	conf := types.Config{
		Importer: loaded,
		Error:    func(err error) { errs = append(errs, err.Error()) },
	}
	_, _ = conf.Check(pkgPath, fset, files, nil)

	assert.Empty(t, errs)
}

type loadedPackages map[string]*types.Package

func (l loadedPackages) Import(path string) (*types.Package, error) {
	if pkg, ok := l[path]; ok {
		return pkg, nil
	}

	return nil, fmt.Errorf("package %s not loaded", path)
}

func TestRun_GeneratesAccounts(t *testing.T) {
	cfg := testConfig(t)

	report, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"UserReadMapper", "AddressMapper", "UserToProfileMapper"}, report.Mappers(StatusGenerated))
	assert.Zero(t, report.Count(StatusFailed))
	assert.ElementsMatch(t, []string{"address_mapper.go", "user_read_mapper.go", "user_to_profile_mapper.go"}, listFiles(t, cfg.OutputDir))

	first := report.Results[0]
	assert.Equal(t, analyze.TypeID{PkgPath: accountsPkg + "/entity", Name: "User"}, first.Source)
	assert.Equal(t, analyze.TypeID{PkgPath: accountsPkg + "/dto", Name: "UserReadDTO"}, first.Target)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "user_read_mapper.go"), first.Path)

	userRead := readFile(t, cfg.OutputDir, "user_read_mapper.go")
	assert.Contains(t, userRead, "package mappers")
	assert.Contains(t, userRead, "func NewUserReadMapper(addressMapper *AddressMapper) *UserReadMapper {")
	assert.Contains(t, userRead, "return dto.NewUserReadDTO(in.GetID(), in.GetName(), func(v entity.Address) dto.AddressDTO {")
	assert.Contains(t, userRead, "dto.StatusLabel(in.GetStatus()))")
	assert.Contains(t, userRead, "return entity.NewUser(in.UserID, in.FullName, *m.addressMapper.ToEntity(&in.Address), func(items []dto.AddressDTO) []entity.Address {")
	assert.Contains(t, userRead, "}(in.Emails)...)")

	address := readFile(t, cfg.OutputDir, "address_mapper.go")
	assert.Contains(t, address, "out.PostalCode = in.Zip")
	assert.Contains(t, address, "out.Zip = in.PostalCode")
	assert.NotContains(t, address, "func NewAddressMapper")

	profile := readFile(t, cfg.OutputDir, "user_to_profile_mapper.go")
	assert.Contains(t, profile, "out.Status = dto.StatusLabel(in.GetStatus())")
	assert.Contains(t, profile, "out.CreatedAt = in.GetCreatedAt()")
	assert.Contains(t, profile, `return entity.NewUser(in.ID, in.DisplayName, entity.Address{})`)
}

func TestRun_PointersAndArrays(t *testing.T) {
	cfg := Config{
		EntityDir:     "../../examples/orders/entity",
		DTODir:        "../../examples/orders/dto",
		OutputDir:     t.TempDir(),
		OutputPackage: "mapper-generator/examples/orders/mappers",
	}

	report, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"LineItemMapper", "OrderMapper"}, report.Mappers(StatusGenerated))

	order := readFile(t, cfg.OutputDir, "order_mapper.go")
	assert.Contains(t, order, "func NewOrderMapper(lineItemMapper *LineItemMapper) *OrderMapper {")

	// forward: pointer to value, slice of pointers, array of values
	assert.Contains(t, order, "out.LineItem = func(v *entity.LineItem) dto.LineItemDTO {")
	assert.Contains(t, order, "return dto.LineItemDTO{}")
	assert.Contains(t, order, "return *m.lineItemMapper.ToDTO(v)")
	assert.Contains(t, order, "out[i] = m.lineItemMapper.ToDTO(items[i])")
	assert.Contains(t, order, "var out [2]dto.LineItemDTO")
	assert.Contains(t, order, "out[i] = *m.lineItemMapper.ToDTO(&items[i])")

	// backward: addressable value to pointer
	assert.Contains(t, order, "out.LineItem = m.lineItemMapper.ToEntity(&in.LineItem)")
	assert.Contains(t, order, "out[i] = m.lineItemMapper.ToEntity(items[i])")
	assert.Contains(t, order, "var out [2]entity.LineItem")

	lineItem := readFile(t, cfg.OutputDir, "line_item_mapper.go")
	assert.Contains(t, lineItem, "out.Price = in.Price")

	typeCheck(t, cfg.OutputDir, cfg.OutputPackage, "mapper-generator/examples/orders/...")
}

func TestRun_SameNameInSubpackages(t *testing.T) {
	const contactsPkg = "mapper-generator/examples/contacts"

	cfg := Config{
		EntityDir:     "../../examples/contacts/entity",
		DTODir:        "../../examples/contacts/dto",
		OutputDir:     t.TempDir(),
		OutputPackage: contactsPkg + "/mappers",
	}

	report, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, report.Count(StatusFailed))
	assert.Len(t, report.Mappers(StatusGenerated), 4, "home and work addresses are never crossed")

	for _, r := range report.Results {
		assert.Equal(t, subpackage(r.Source.PkgPath, contactsPkg+"/entity"), subpackage(r.Target.PkgPath, contactsPkg+"/dto"), r.Mapper)
	}

	contact := readFile(t, cfg.OutputDir, "contact_mapper.go")
	assert.Contains(t, contact, "\tdtohome \"mapper-generator/examples/contacts/dto/home\"\n")
	assert.Contains(t, contact, "\t\"mapper-generator/examples/contacts/entity/home\"\n")
	assert.Contains(t, contact, "func(v *home.Address) dtohome.AddressDTO {")
	assert.NotContains(t, contact, "/vo\"")
	assert.NotContains(t, contact, "/work\"")
	assert.Contains(t, contact, "out.Balance = *m.moneyMapper.ToDTO(&in.Balance)")

	typeCheck(t, cfg.OutputDir, cfg.OutputPackage, contactsPkg+"/...")
}

func TestRun_Idempotent(t *testing.T) {
	cfg := testConfig(t)

	_, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	before := listFiles(t, cfg.OutputDir)
	content := readFile(t, cfg.OutputDir, "user_read_mapper.go")

	report, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, report.Count(StatusGenerated))
	assert.Equal(t, 3, report.Count(StatusSkipped))
	assert.Equal(t, before, listFiles(t, cfg.OutputDir))
	assert.Equal(t, content, readFile(t, cfg.OutputDir, "user_read_mapper.go"))
}

func TestRun_ClearRegenerates(t *testing.T) {
	cfg := testConfig(t)

	_, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	handWritten := filepath.Join(cfg.OutputDir, "doc.go")
	require.NoError(t, os.WriteFile(handWritten, []byte("package mappers\n"), 0o644))

	cfg.Clear = true

	report, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Count(StatusGenerated))
	assert.FileExists(t, handWritten)
}

func TestRun_Asymmetric(t *testing.T) {
	cfg := testConfig(t)
	cfg.Asymmetric = true

	_, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	userRead := readFile(t, cfg.OutputDir, "user_read_mapper.go")
	assert.Contains(t, userRead, `return entity.NewUser(0, "", *m.addressMapper.ToEntity(&in.Address))`)
}

func TestRun_Overrides(t *testing.T) {
	cfg := testConfig(t)
	cfg.OverridesPath = filepath.Join(t.TempDir(), "mappers.yaml")
	require.NoError(t, os.WriteFile(cfg.OverridesPath, []byte(`
mappers:
  - entity: entity.User
    dto: dto.UserProfileDTO
    mapper_name: ProfileMapper
  - source: entity.Address
    target: dto.Missing
`), 0o644))

	report, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "ProfileMapper", report.Results[0].Mapper)
	assert.Equal(t, StatusGenerated, report.Results[0].Status)

	require.Equal(t, StatusFailed, report.Results[1].Status)

	var schemaErr *analyze.SchemaError
	require.ErrorAs(t, report.Results[1].Err, &schemaErr)
	assert.True(t, report.Diagnostics.HasErrors())

	assert.Contains(t, report.Mappers(StatusGenerated), "UserReadMapper")
	assert.NotContains(t, report.Mappers(StatusGenerated), "UserToProfileMapper")
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "profile_mapper.go"))
}

func TestRun_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		adjust func(*Config)
		field  string
	}{
		{"missing entity dir", func(c *Config) { c.EntityDir = "does/not/exist" }, "entity-path"},
		{"missing dto dir", func(c *Config) { c.DTODir = "" }, "dto-path"},
		{"no output", func(c *Config) { c.OutputDir = "" }, "output-path"},
		{"bad method", func(c *Config) { c.ForwardMethod = "toDTO" }, "forward-method"},
		{"same methods", func(c *Config) { c.BackwardMethod = "ToDTO" }, "backward-method"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.adjust(&cfg)

			report, err := New(cfg, nil).Run(context.Background())
			assert.Nil(t, report)

			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)

			if cfg.OutputDir != "" {
				assert.Empty(t, listFiles(t, cfg.OutputDir))
			}
		})
	}
}

const pointManifest = `
types:
  - id: example.com/geo/entity.Point
    fields:
      - {name: X, type: int}
      - {name: Y, type: int}
  - id: example.com/geo/dto.PointDTO
    fields:
      - {name: X, type: int}
      - {name: Y, type: int}
`

func TestRun_Manifest(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(pointManifest), 0o600))

	cfg := Config{
		EntityDir:     dir,
		EntityPackage: "example.com/geo/entity",
		DTODir:        dir,
		DTOPackage:    "example.com/geo/dto",
		OutputDir:     t.TempDir(),
		OutputPackage: "example.com/geo/mappers",
		ManifestPath:  manifest,
	}

	report, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"PointMapper"}, report.Mappers(StatusGenerated))

	point := readFile(t, cfg.OutputDir, "point_mapper.go")
	assert.Contains(t, point, `"example.com/geo/dto"`)
	assert.Contains(t, point, "out.X = in.X")
	assert.Contains(t, point, "out.Y = in.Y")
}

func TestRun_ManifestMissing(t *testing.T) {
	cfg := testConfig(t)
	cfg.ManifestPath = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := New(cfg, nil).Run(context.Background())

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "manifest", cfgErr.Field)
}

func TestRun_Cancelled(t *testing.T) {
	cfg := testConfig(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := New(cfg, nil).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Empty(t, report.Results)
}

func TestInspect(t *testing.T) {
	cfg := testConfig(t)
	cfg.OutputDir = ""

	schemas, err := New(cfg, nil).Inspect([]string{"User", "dto.AddressDTO"})
	require.NoError(t, err)
	require.Len(t, schemas, 2)
	assert.Equal(t, accountsPkg+"/entity.User", schemas[0].ID.String())
	assert.Equal(t, accountsPkg+"/dto.AddressDTO", schemas[1].ID.String())

	_, err = New(cfg, nil).Inspect([]string{"Invoice"})
	assert.ErrorContains(t, err, `type "Invoice" not found`)

	cfg.DTODir = "does/not/exist"
	_, err = New(cfg, nil).Inspect([]string{"User"})

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "dto-path", cfgErr.Field)
}

func TestImportPath(t *testing.T) {
	path, err := importPath("../../examples/accounts/mappers")
	require.NoError(t, err)
	assert.Equal(t, accountsPkg+"/mappers", path)

	path, err = importPath("../..")
	require.NoError(t, err)
	assert.Equal(t, "mapper-generator", path)

	_, err = importPath(t.TempDir())
	assert.True(t, errors.Is(err, errNoModule), "%v", err)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "generated", StatusGenerated.String())
	assert.Equal(t, "skipped", StatusSkipped.String())
	assert.Equal(t, "failed", StatusFailed.String())
}
