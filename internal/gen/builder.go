package gen

import (
	"fmt"

	"mapper-generator/internal/analyze"
	"mapper-generator/internal/common"
	"mapper-generator/internal/diagnostic"
	"mapper-generator/internal/mapping"
	"mapper-generator/internal/match"
	"mapper-generator/internal/plan"
)

// maxSuggestions bounds the spelling suggestions of one diagnostic.
const maxSuggestions = 3

// direction is one conversion of a mapper.
type direction struct {
	method  string
	forward bool
	in      *analyze.TypeSchema
	out     *analyze.TypeSchema
	table   *mapping.Table
}

// label returns "Mapper.Method" for diagnostics.
func (d direction) label(mapper string) string {
	return mapper + "." + d.method
}

// methodData is the template input of one conversion method.
type methodData struct {
	Mapper  string
	Name    string
	InType  string
	OutType string
	// Construct is the constructor call in constructor mode.
	Construct        string
	ConstructPointer bool
	// Init instantiates the destination in mutation mode.
	Init      string
	InitValue bool
	Mutations []string
}

// builder derives the body of both methods of one unit.
type builder struct {
	cfg    GeneratorConfig
	unit   Unit
	p      *printer
	fields map[string]string // mapper name -> dependency field
	diags  diagnostic.Diagnostics
}

func (b *builder) build(d direction) methodData {
	data := methodData{
		Mapper:  b.unit.MapperName,
		Name:    d.method,
		InType:  b.p.typeString(d.in.Ref()),
		OutType: b.p.typeString(d.out.Ref()),
	}

	ctor := d.out.Constructor
	if ctor != nil && len(ctor.Params) > 0 {
		data.Construct = b.p.expr(b.construct(d, ctor))
		data.ConstructPointer = ctor.ReturnsPointer

		return data
	}

	if ctor != nil {
		data.Init = b.p.imports.qualify(d.out.ID.PkgPath, d.out.PkgName, ctor.Name) + "()"
		data.InitValue = !ctor.ReturnsPointer
	} else {
		data.Init = "&" + data.OutType + "{}"
	}

	data.Mutations = b.mutations(d)

	return data
}

// construct builds the constructor call with one argument per parameter.
func (b *builder) construct(d direction, ctor *analyze.Constructor) Call {
	call := Call{Func: b.p.imports.qualify(d.out.ID.PkgPath, d.out.PkgName, ctor.Name)}

	for _, param := range ctor.Params {
		r, e, ok := b.source(d, param.Property)
		if !ok {
			b.report(d, diagnostic.CodeUnresolvedParam, param.Property,
				fmt.Sprintf("no source for parameter %s of %s", param.Name, ctor.Name))

			if param.Variadic {
				continue
			}

			call.Args = append(call.Args, Zero{Literal: b.p.zero(param.Type)})

			continue
		}

		call.Args = append(call.Args, b.value(d, r, e, param.Type))
		call.Spread = param.Variadic
	}

	return call
}

// mutations assigns every writable destination property that has a source.
func (b *builder) mutations(d direction) []string {
	var out []string

	for _, property := range d.out.Properties() {
		w, ok := d.out.Writer(property)
		if !ok {
			continue
		}

		r, e, ok := b.source(d, property)
		if !ok {
			b.report(d, diagnostic.CodeUnmappedProperty, property,
				fmt.Sprintf("no source for %s.%s", d.out.ID.Name, property))

			continue
		}

		value := b.p.expr(b.value(d, r, e, w.Type))

		if w.Mutator != "" {
			out = append(out, fmt.Sprintf("%s.%s(%s)", outVar, w.Mutator, value))
		} else {
			out = append(out, fmt.Sprintf("%s.%s = %s", outVar, w.Field, value))
		}
	}

	return out
}

// source finds the readable input property mapped onto a destination
// property: the first entry targeting it, else the same-named property when
// the table does not send that one elsewhere.
func (b *builder) source(d direction, property string) (analyze.Readable, mapping.Entry, bool) {
	readables := d.in.Readables()

	find := func(p string) (analyze.Readable, bool) {
		for _, r := range readables {
			if r.Property == p {
				return r, true
			}
		}

		return analyze.Readable{}, false
	}

	for _, e := range d.table.Entries() {
		if e.TargetField != property {
			continue
		}

		r, ok := find(e.SourceField)

		return r, e, ok
	}

	if _, mapped := d.table.Get(property); mapped {
		return analyze.Readable{}, mapping.Entry{}, false
	}

	r, ok := find(property)

	return r, mapping.Identity(property), ok
}

// value derives the expression for one argument or mutation.
func (b *builder) value(d direction, r analyze.Readable, e mapping.Entry, dest analyze.TypeRef) Expr {
	read := Read{Recv: inVar, Accessor: r.Accessor, Field: r.Field}

	if dep, ok := b.dependency(d, r, e); ok {
		switch {
		case r.Type.IsCollection():
			if c, ok := b.collection(d, dep, read, r.Type, dest); ok {
				return c
			}

			b.report(d, diagnostic.CodeShapeMismatch, r.Property,
				fmt.Sprintf("cannot map %s onto %s element-wise", r.Type, dest))
		case r.Type.IsComplex() && dest.IsComplex():
			return b.nested(d, dep, read, r.Type, dest)
		}
	}

	if e.HasCustomMapper() {
		return Call{Func: b.customMapper(d, e.CustomMapper), Args: []Expr{read}}
	}

	return read
}

// dependency returns the mapper converting the nested type of r, if r holds one.
func (b *builder) dependency(d direction, r analyze.Readable, e mapping.Entry) (plan.MapperDescriptor, bool) {
	nested, ok := r.Type.NestedID()
	if e.HasCollectionItem() && r.Type.IsCollection() {
		nested, ok = e.CollectionItem, true
	}

	if !ok {
		return plan.MapperDescriptor{}, false
	}

	// Dependencies are indexed by entity-side property.
	key := r.Property
	if !d.forward {
		key = e.TargetField
	}

	if dep, found := b.unit.Dependencies.ForProperty(key); found {
		return dep, true
	}

	return b.unit.Dependencies.ForType(nested)
}

// nested converts a struct or pointer-to-struct value.
func (b *builder) nested(d direction, dep plan.MapperDescriptor, arg Expr, src, dest analyze.TypeRef) MapperCall {
	return MapperCall{
		Field:       b.fields[dep.Name],
		Method:      d.method,
		Arg:         arg,
		InType:      src.Deref(),
		OutType:     dest.Deref(),
		ArgPointer:  src.IsPointer(),
		WantPointer: dest.IsPointer(),
	}
}

// collection converts slices to slices and arrays to arrays of equal length.
// An untyped element on either side is taken to be the dependency's struct
// type on that side.
func (b *builder) collection(d direction, dep plan.MapperDescriptor, source Expr, src, dest analyze.TypeRef) (Collection, bool) {
	if !dest.IsCollection() || src.Kind != dest.Kind || src.Len != dest.Len {
		return Collection{}, false
	}

	srcElem, destElem := *src.Elem, *dest.Elem

	in, out := dep.SourceType, dep.TargetType
	if !d.forward {
		in, out = out, in
	}

	var arg Expr = elemExpr

	switch {
	case srcElem.IsInterface() && destElem.IsComplex():
		srcElem = analyze.StructRef(in)
		arg = Assert{X: elemExpr, Type: b.p.typeIDString(in)}
	case destElem.IsInterface() && srcElem.IsComplex():
		destElem = analyze.StructRef(out)
	case !srcElem.IsComplex() || !destElem.IsComplex():
		return Collection{}, false
	}

	return Collection{
		Source:  source,
		InType:  b.p.typeString(src),
		OutType: b.p.typeString(dest),
		Array:   src.Kind == analyze.TypeKindArray,
		Elem:    b.nested(d, dep, arg, srcElem, destElem),
	}, true
}

// customMapper qualifies a `using=` function. Unqualified names and names
// qualified by the destination package name live in the destination package.
func (b *builder) customMapper(d direction, name string) string {
	pkgPath, fn := common.SplitQualified(name)

	if pkgPath == "" || pkgPath == d.out.PkgName || pkgPath == common.PkgAlias(d.out.ID.PkgPath) {
		return b.p.imports.qualify(d.out.ID.PkgPath, d.out.PkgName, fn)
	}

	return b.p.imports.qualify(pkgPath, "", fn)
}

// report records an unmatched property with spelling suggestions taken from
// the readable input properties.
func (b *builder) report(d direction, code, property, message string) {
	var candidates []string
	for _, r := range d.in.Readables() {
		candidates = append(candidates, r.Property)
	}

	severity := diagnostic.SeverityInfo
	if code == diagnostic.CodeShapeMismatch {
		severity = diagnostic.SeverityWarning
	}

	b.diags.Add(diagnostic.Diagnostic{
		Severity:    severity,
		Code:        code,
		Message:     message,
		Mapper:      d.label(b.unit.MapperName),
		Property:    property,
		Suggestions: match.Suggest(property, candidates, match.DefaultMinScore, maxSuggestions),
	})
}
