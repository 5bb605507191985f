package gen

import (
	"sort"
	"strconv"
	"strings"

	"mapper-generator/internal/common"
)

// importSpec is one line of the import block.
type importSpec struct {
	Alias string
	Path  string
}

// importRegistry assigns each referenced package one qualifier per file.
// A package whose name is already taken by a different path is aliased as
// parent segment + name ("work/model" -> "workmodel"), then numbered.
type importRegistry struct {
	self   string
	byPath map[string]string
	byName map[string]string
	// order keeps first registration order for deterministic aliasing.
	order []string
}

func newImportRegistry(selfPath string) *importRegistry {
	return &importRegistry{
		self:   selfPath,
		byPath: make(map[string]string),
		byName: make(map[string]string),
	}
}

// reserve keeps names bound in generated code from becoming qualifiers.
func (r *importRegistry) reserve(names ...string) {
	for _, n := range names {
		r.byName[n] = ""
	}
}

// qualifier registers pkgPath and returns the name to qualify its
// identifiers with, or "" for the file's own package.
func (r *importRegistry) qualifier(pkgPath, pkgName string) string {
	if pkgPath == "" || pkgPath == r.self {
		return ""
	}

	if alias, ok := r.byPath[pkgPath]; ok {
		return alias
	}

	if pkgName == "" {
		pkgName = common.PkgAlias(pkgPath)
	}

	alias := pkgName
	if r.taken(alias) {
		alias = strings.ToLower(common.ParentSegment(pkgPath)) + pkgName
	}

	for i := 2; r.taken(alias); i++ {
		alias = pkgName + strconv.Itoa(i)
	}

	r.byPath[pkgPath] = alias
	r.byName[alias] = pkgPath
	r.order = append(r.order, pkgPath)

	return alias
}

// qualify returns "alias.name", or name for the file's own package.
func (r *importRegistry) qualify(pkgPath, pkgName, name string) string {
	if q := r.qualifier(pkgPath, pkgName); q != "" {
		return q + "." + name
	}

	return name
}

func (r *importRegistry) taken(alias string) bool {
	_, ok := r.byName[alias]

	return ok || alias == ""
}

// has reports whether an identifier is used as a package qualifier.
func (r *importRegistry) has(name string) bool {
	path, ok := r.byName[name]

	return ok && path != ""
}

// specs returns the import block sorted by path. The alias is spelled out
// only when it differs from the last path element.
func (r *importRegistry) specs() []importSpec {
	specs := make([]importSpec, 0, len(r.order))

	for _, path := range r.order {
		spec := importSpec{Path: path}
		if alias := r.byPath[path]; alias != common.PkgAlias(path) {
			spec.Alias = alias
		}

		specs = append(specs, spec)
	}

	sort.Slice(specs, func(i, j int) bool {
		return specs[i].Path < specs[j].Path
	})

	return specs
}
