package analyze

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/types/typeutil"

	"mapper-generator/internal/match"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Method name prefixes recognised as accessors and mutators.
const (
	getPrefix  = "Get"
	isPrefix   = "Is"
	setPrefix  = "Set"
	ctorPrefix = "New"
)

// Analyzer loads Go packages and extracts TypeSchemas from them.
// It implements Catalog.
type Analyzer struct {
	// Dir is the working directory for the go command; empty means the
	// current directory.
	Dir string

	packages map[string]*packages.Package
	infos    map[string]*PackageInfo
	msets    typeutil.MethodSetCache
	std      stdPackages

	// expanding holds the named types whose underlying type is being
	// converted, to stop at self-referential types.
	expanding map[*types.Named]bool
}

// PackageInfo describes a loaded package.
type PackageInfo struct {
	Path string
	Name string
	Dir  string
	// Structs lists exported, non-generic struct types in declaration order.
	Structs []TypeID
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		packages:  make(map[string]*packages.Package),
		infos:     make(map[string]*PackageInfo),
		std:       make(stdPackages),
		expanding: make(map[*types.Named]bool),
	}
}

// LoadPackages loads the packages matched by patterns
// (e.g. "./internal/entity/...", "example.com/app/dto").
func (a *Analyzer) LoadPackages(patterns ...string) ([]*PackageInfo, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.Dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	infos := make([]*PackageInfo, 0, len(pkgs))
	for _, pkg := range pkgs {
		infos = append(infos, a.register(pkg))
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Path < infos[j].Path
	})

	return infos, nil
}

// Structs loads every package below scope.Dir and lists their struct types.
func (a *Analyzer) Structs(scope Scope) ([]TypeID, error) {
	dir, err := filepath.Abs(scope.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", scope.Dir, err)
	}

	if a.Dir == "" {
		a.Dir = dir
	}

	infos, err := a.LoadPackages(filepath.ToSlash(dir) + "/...")
	if err != nil {
		return nil, err
	}

	var ids []TypeID
	for _, info := range infos {
		ids = append(ids, info.Structs...)
	}

	return ids, nil
}

// Package returns the info of a loaded package.
func (a *Analyzer) Package(pkgPath string) (*PackageInfo, bool) {
	info, ok := a.infos[pkgPath]

	return info, ok
}

func (a *Analyzer) register(pkg *packages.Package) *PackageInfo {
	a.packages[pkg.PkgPath] = pkg

	info := &PackageInfo{
		Path: pkg.PkgPath,
		Name: pkg.Name,
	}

	if len(pkg.GoFiles) > 0 {
		info.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	type positioned struct {
		id  TypeID
		pos token.Pos
	}

	var found []positioned

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !typeName.Exported() || typeName.IsAlias() {
			continue
		}

		named, ok := typeName.Type().(*types.Named)
		if !ok || named.TypeParams().Len() > 0 {
			continue
		}

		if _, ok := named.Underlying().(*types.Struct); !ok {
			continue
		}

		found = append(found, positioned{
			id:  TypeID{PkgPath: pkg.PkgPath, Name: name},
			pos: typeName.Pos(),
		})
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].pos < found[j].pos
	})

	for _, f := range found {
		info.Structs = append(info.Structs, f.id)
	}

	a.infos[pkg.PkgPath] = info

	return info
}

// pkg returns a loaded package, loading it on demand.
func (a *Analyzer) pkg(pkgPath string) (*packages.Package, error) {
	if pkg, ok := a.packages[pkgPath]; ok {
		return pkg, nil
	}

	if pkgPath == "" {
		return nil, ErrPackageNotFound
	}

	if _, err := a.LoadPackages(pkgPath); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPackageNotFound, err)
	}

	pkg, ok := a.packages[pkgPath]
	if !ok || pkg.Types == nil {
		return nil, ErrPackageNotFound
	}

	return pkg, nil
}

// Extract introspects one struct type.
func (a *Analyzer) Extract(id TypeID) (*TypeSchema, error) {
	pkg, err := a.pkg(id.PkgPath)
	if err != nil {
		return nil, schemaError(id, err)
	}

	typeName, ok := pkg.Types.Scope().Lookup(id.Name).(*types.TypeName)
	if !ok {
		return nil, schemaError(id, ErrTypeNotFound)
	}

	named, ok := types.Unalias(typeName.Type()).(*types.Named)
	if !ok {
		return nil, schemaError(id, ErrNotStruct)
	}

	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil, schemaError(id, ErrNotStruct)
	}

	schema := &TypeSchema{
		ID:               id,
		PkgName:          pkg.Name,
		FieldAnnotations: make(map[string]FieldAnnotation),
	}

	if err := a.extractFields(schema, st); err != nil {
		return nil, schemaError(id, err)
	}

	a.extractMethods(schema, named)
	a.extractConstructor(schema, pkg, named)

	ann, err := classAnnotation(pkg, id.Name)
	if err != nil {
		return nil, schemaError(id, err)
	}

	schema.ClassAnnotation = ann

	return schema, nil
}

func (a *Analyzer) extractFields(schema *TypeSchema, st *types.Struct) error {
	for i := range st.NumFields() {
		field := st.Field(i)
		if field.Embedded() || field.Name() == "_" {
			continue
		}

		f := Field{
			Name:     field.Name(),
			Property: match.LowerCamel(field.Name()),
			Type:     a.typeRef(field.Type()),
			Exported: field.Exported(),
			Tag:      reflect.StructTag(st.Tag(i)),
		}

		ann, ok, err := parseFieldAnnotation(f.Tag, schema.ID.PkgPath)
		if err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}

		if ok {
			schema.FieldAnnotations[f.Name] = ann
		}

		schema.Fields = append(schema.Fields, f)
	}

	return nil
}

func (a *Analyzer) extractMethods(schema *TypeSchema, named *types.Named) {
	var funcs []*types.Func

	for _, sel := range typeutil.IntuitiveMethodSet(named, &a.msets) {
		if fn, ok := sel.Obj().(*types.Func); ok && fn.Exported() {
			funcs = append(funcs, fn)
		}
	}

	sort.SliceStable(funcs, func(i, j int) bool {
		return funcs[i].Pos() < funcs[j].Pos()
	})

	for _, fn := range funcs {
		sig, ok := fn.Type().(*types.Signature)
		if !ok {
			continue
		}

		params, results := sig.Params(), sig.Results()

		if prop, ok := propertyOf(fn.Name(), getPrefix, isPrefix); ok && results.Len() == 1 &&
			(params.Len() == 0 || (params.Len() == 1 && sig.Variadic())) {
			if _, dup := schema.Accessor(prop); !dup {
				schema.Accessors = append(schema.Accessors, Method{
					Name:     fn.Name(),
					Property: prop,
					Type:     a.typeRef(results.At(0).Type()),
				})
			}

			continue
		}

		if prop, ok := propertyOf(fn.Name(), setPrefix); ok && params.Len() == 1 && !sig.Variadic() {
			if _, dup := schema.Mutator(prop); !dup {
				schema.Mutators = append(schema.Mutators, Method{
					Name:     fn.Name(),
					Property: prop,
					Type:     a.typeRef(params.At(0).Type()),
				})
			}
		}
	}
}

// propertyOf strips the first matching prefix and returns the property name.
// The remainder must be non-empty and start with an upper-case letter, so
// "Get" and "Issue" are not accessors.
func propertyOf(name string, prefixes ...string) (string, bool) {
	for _, prefix := range prefixes {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok || rest == "" {
			continue
		}

		if r, _ := utf8.DecodeRuneInString(rest); unicode.IsUpper(r) {
			return match.LowerCamel(rest), true
		}
	}

	return "", false
}

// extractConstructor finds New<Type> returning the type or a pointer to it.
func (a *Analyzer) extractConstructor(schema *TypeSchema, pkg *packages.Package, named *types.Named) {
	fn, ok := pkg.Types.Scope().Lookup(ctorPrefix + schema.ID.Name).(*types.Func)
	if !ok {
		return
	}

	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Recv() != nil || sig.TypeParams().Len() > 0 || sig.Results().Len() != 1 {
		return
	}

	ctor := &Constructor{Name: fn.Name()}

	switch res := sig.Results().At(0).Type(); {
	case types.Identical(res, named):
	case isPointerTo(res, named):
		ctor.ReturnsPointer = true
	default:
		return
	}

	params := sig.Params()
	for i := range params.Len() {
		p := params.At(i)

		name := p.Name()
		if name == "" || name == "_" {
			name = fmt.Sprintf("arg%d", i)
		}

		param := Param{
			Name:     name,
			Property: match.LowerCamel(name),
			Type:     a.typeRef(p.Type()),
		}

		if sig.Variadic() && i == params.Len()-1 {
			param.Variadic = true
			param.HasDefault = true
		}

		ctor.Params = append(ctor.Params, param)
	}

	schema.Constructor = ctor
}

func isPointerTo(t types.Type, named *types.Named) bool {
	ptr, ok := t.(*types.Pointer)

	return ok && types.Identical(ptr.Elem(), named)
}

// classAnnotation reads the mapper directive from the doc comment of a type.
func classAnnotation(pkg *packages.Package, name string) (*ClassAnnotation, error) {
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}

			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok || ts.Name.Name != name {
					continue
				}

				if gd.Lparen.IsValid() {
					return classAnnotationFromDoc(ts.Doc)
				}

				return classAnnotationFromDoc(gd.Doc, ts.Doc)
			}
		}
	}

	return nil, nil
}

// typeRef converts a go/types type into a TypeRef.
func (a *Analyzer) typeRef(t types.Type) TypeRef {
	t = types.Unalias(t)

	switch tt := t.(type) {
	case *types.Basic:
		return Basic(tt.Name())

	case *types.Named:
		return a.namedRef(tt)

	case *types.Pointer:
		return PointerTo(a.typeRef(tt.Elem()))

	case *types.Slice:
		return SliceOf(a.typeRef(tt.Elem()))

	case *types.Array:
		elem := a.typeRef(tt.Elem())

		return TypeRef{Kind: TypeKindArray, Elem: &elem, Len: tt.Len()}

	case *types.Map:
		key, elem := a.typeRef(tt.Key()), a.typeRef(tt.Elem())

		return TypeRef{Kind: TypeKindMap, Key: &key, Elem: &elem}

	case *types.Interface:
		ref := TypeRef{Kind: TypeKindInterface, Expr: typeString(tt)}
		if tt.Empty() {
			ref.Expr = "any"
		}

		return ref

	case *types.Signature:
		return TypeRef{Kind: TypeKindFunc, Expr: typeString(tt)}

	case *types.Chan:
		return TypeRef{Kind: TypeKindChan, Expr: typeString(tt)}

	default:
		return TypeRef{Kind: TypeKindUnknown, Expr: typeString(t)}
	}
}

func (a *Analyzer) namedRef(named *types.Named) TypeRef {
	obj := named.Obj()

	ref := TypeRef{ID: TypeID{Name: obj.Name()}}
	if obj.Pkg() != nil {
		ref.ID.PkgPath = obj.Pkg().Path()
		ref.PkgName = obj.Pkg().Name()
	}

	switch ut := named.Underlying().(type) {
	case *types.Struct:
		if _, loaded := a.packages[ref.ID.PkgPath]; !loaded && a.std.contains(ref.ID.PkgPath) {
			ref.Kind = TypeKindOpaque
		} else {
			ref.Kind = TypeKindStruct
		}

	default:
		// Enums and other named non-struct types are copied as is. A type
		// reached again through its own underlying type is left opaque.
		ref.Kind = TypeKindNamed

		if a.expanding[named] {
			return ref
		}

		a.expanding[named] = true
		under := a.typeRef(ut)
		delete(a.expanding, named)

		ref.Underlying = &under
	}

	return ref
}

func typeString(t types.Type) string {
	return types.TypeString(t, func(p *types.Package) string {
		return p.Name()
	})
}
