package analyze

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"mapper-generator/internal/common"
	"mapper-generator/internal/match"
)

// Manifest is a hand-written schema description, used where packages cannot
// be loaded from source.
//
//	structs:
//	  - example.com/app/entity.Address
//	types:
//	  - id: example.com/app/entity.User
//	    directive: example.com/app/entity.User name=UserReadMapper
//	    fields:
//	      - {name: id, type: int, tag: 'mapto:"userID"'}
//	    accessors:
//	      - {name: GetID, type: int}
//	    constructor:
//	      pointer: true
//	      params:
//	        - {name: id, type: int}
type Manifest struct {
	// Structs lists struct types declared outside the manifest.
	Structs []string       `yaml:"structs,omitempty"`
	Types   []ManifestType `yaml:"types"`
}

// ManifestType describes one struct type.
type ManifestType struct {
	ID          string               `yaml:"id"`
	PackageName string               `yaml:"package_name,omitempty"`
	Directive   string               `yaml:"directive,omitempty"`
	Fields      []ManifestMember     `yaml:"fields,omitempty"`
	Accessors   []ManifestMember     `yaml:"accessors,omitempty"`
	Mutators    []ManifestMember     `yaml:"mutators,omitempty"`
	Constructor *ManifestConstructor `yaml:"constructor,omitempty"`
}

// ManifestMember is a field, method or parameter.
type ManifestMember struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Tag      string `yaml:"tag,omitempty"`
	Variadic bool   `yaml:"variadic,omitempty"`
}

// ManifestConstructor describes New<Type>.
type ManifestConstructor struct {
	Name    string           `yaml:"name,omitempty"`
	Pointer bool             `yaml:"pointer,omitempty"`
	Params  []ManifestMember `yaml:"params,omitempty"`
}

// ManifestSource serves TypeSchemas from a Manifest. It implements Catalog.
type ManifestSource struct {
	types   map[TypeID]*ManifestType
	order   []TypeID
	structs map[TypeID]bool
	std     stdPackages
}

// LoadManifest reads a YAML manifest from path.
func LoadManifest(path string) (*ManifestSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	return ParseManifest(data)
}

// ParseManifest parses YAML manifest data.
func ParseManifest(data []byte) (*ManifestSource, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest YAML: %w", err)
	}

	return NewManifestSource(&m)
}

// NewManifestSource indexes a manifest.
func NewManifestSource(m *Manifest) (*ManifestSource, error) {
	src := &ManifestSource{
		types:   make(map[TypeID]*ManifestType),
		structs: make(map[TypeID]bool),
		std:     make(stdPackages),
	}

	for _, s := range m.Structs {
		src.structs[ParseTypeID(s)] = true
	}

	for i := range m.Types {
		mt := &m.Types[i]

		id := ParseTypeID(mt.ID)
		if id.PkgPath == "" {
			return nil, fmt.Errorf("manifest type %q: id must be qualified with an import path", mt.ID)
		}

		if _, dup := src.types[id]; dup {
			return nil, fmt.Errorf("manifest type %s declared twice", id)
		}

		src.types[id] = mt
		src.structs[id] = true
		src.order = append(src.order, id)
	}

	return src, nil
}

// Structs lists manifest types inside the scope package tree, in manifest order.
func (m *ManifestSource) Structs(scope Scope) ([]TypeID, error) {
	var ids []TypeID

	for _, id := range m.order {
		if scope.Contains(id.PkgPath) {
			ids = append(ids, id)
		}
	}

	return ids, nil
}

// Extract builds the TypeSchema of a manifest type.
func (m *ManifestSource) Extract(id TypeID) (*TypeSchema, error) {
	mt, ok := m.types[id]
	if !ok {
		return nil, schemaError(id, ErrTypeNotFound)
	}

	schema, err := m.build(id, mt)
	if err != nil {
		return nil, schemaError(id, err)
	}

	return schema, nil
}

func (m *ManifestSource) build(id TypeID, mt *ManifestType) (*TypeSchema, error) {
	schema := &TypeSchema{
		ID:               id,
		PkgName:          mt.PackageName,
		FieldAnnotations: make(map[string]FieldAnnotation),
	}

	if schema.PkgName == "" {
		schema.PkgName = common.PkgAlias(id.PkgPath)
	}

	for _, mf := range mt.Fields {
		typ, err := m.parseType(mf.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", mf.Name, err)
		}

		f := Field{
			Name:     mf.Name,
			Property: match.LowerCamel(mf.Name),
			Type:     typ,
			Exported: isExported(mf.Name),
			Tag:      reflect.StructTag(mf.Tag),
		}

		ann, ok, err := parseFieldAnnotation(f.Tag, id.PkgPath)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}

		if ok {
			schema.FieldAnnotations[f.Name] = ann
		}

		schema.Fields = append(schema.Fields, f)
	}

	var err error

	if schema.Accessors, err = m.methods(mt.Accessors, getPrefix, isPrefix); err != nil {
		return nil, err
	}

	if schema.Mutators, err = m.methods(mt.Mutators, setPrefix); err != nil {
		return nil, err
	}

	if mt.Constructor != nil {
		if schema.Constructor, err = m.constructor(id, mt.Constructor); err != nil {
			return nil, err
		}
	}

	if mt.Directive != "" {
		ann, _, err := parseClassDirective(DirectiveFrom + " " + mt.Directive)
		if err != nil {
			return nil, err
		}

		schema.ClassAnnotation = ann
	}

	return schema, nil
}

func (m *ManifestSource) methods(members []ManifestMember, prefixes ...string) ([]Method, error) {
	var out []Method

	for _, mm := range members {
		prop, ok := propertyOf(mm.Name, prefixes...)
		if !ok {
			return nil, fmt.Errorf("method %s: name must start with %s", mm.Name, strings.Join(prefixes, " or "))
		}

		typ, err := m.parseType(mm.Type)
		if err != nil {
			return nil, fmt.Errorf("method %s: %w", mm.Name, err)
		}

		out = append(out, Method{Name: mm.Name, Property: prop, Type: typ})
	}

	return out, nil
}

func (m *ManifestSource) constructor(id TypeID, mc *ManifestConstructor) (*Constructor, error) {
	ctor := &Constructor{Name: mc.Name, ReturnsPointer: mc.Pointer}
	if ctor.Name == "" {
		ctor.Name = ctorPrefix + id.Name
	}

	for i, mp := range mc.Params {
		typ, err := m.parseType(mp.Type)
		if err != nil {
			return nil, fmt.Errorf("constructor param %s: %w", mp.Name, err)
		}

		if mp.Variadic {
			if i != len(mc.Params)-1 {
				return nil, fmt.Errorf("constructor param %s: only the last parameter may be variadic", mp.Name)
			}

			typ = SliceOf(typ)
		}

		ctor.Params = append(ctor.Params, Param{
			Name:       mp.Name,
			Property:   match.LowerCamel(mp.Name),
			Type:       typ,
			Variadic:   mp.Variadic,
			HasDefault: mp.Variadic,
		})
	}

	return ctor, nil
}

var basicTypes = map[string]bool{
	"bool": true, "string": true, "byte": true, "rune": true, "uintptr": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"float32": true, "float64": true, "complex64": true, "complex128": true,
}

var errEmptyType = errors.New("empty type expression")

// parseType parses a Go type expression with import-path qualified names:
// "int", "*example.com/app/entity.Address", "[]string", "[3]int",
// "map[string]example.com/app/dto.Tag", "any".
func (m *ManifestSource) parseType(s string) (TypeRef, error) {
	s = strings.TrimSpace(s)

	switch {
	case s == "":
		return TypeRef{}, errEmptyType

	case strings.HasPrefix(s, "*"):
		elem, err := m.parseType(s[1:])

		return PointerTo(elem), err

	case strings.HasPrefix(s, "[]"):
		elem, err := m.parseType(s[2:])

		return SliceOf(elem), err

	case strings.HasPrefix(s, "["):
		end := strings.Index(s, "]")
		if end < 0 {
			return TypeRef{}, fmt.Errorf("unterminated array length in %q", s)
		}

		n, err := strconv.ParseInt(s[1:end], 10, 64)
		if err != nil {
			return TypeRef{}, fmt.Errorf("array length in %q: %w", s, err)
		}

		elem, err := m.parseType(s[end+1:])

		return TypeRef{Kind: TypeKindArray, Elem: &elem, Len: n}, err

	case strings.HasPrefix(s, "map["):
		end := closingBracket(s, len("map"))
		if end < 0 {
			return TypeRef{}, fmt.Errorf("unterminated map key in %q", s)
		}

		key, err := m.parseType(s[len("map["):end])
		if err != nil {
			return TypeRef{}, err
		}

		elem, err := m.parseType(s[end+1:])

		return TypeRef{Kind: TypeKindMap, Key: &key, Elem: &elem}, err

	case s == "any" || s == "interface{}":
		return TypeRef{Kind: TypeKindInterface, Expr: "any"}, nil

	case s == "error":
		return TypeRef{Kind: TypeKindInterface, Expr: "error"}, nil

	case basicTypes[s]:
		return Basic(s), nil
	}

	id := ParseTypeID(s)
	if id.PkgPath == "" {
		return TypeRef{}, fmt.Errorf("type %q must be qualified with an import path", s)
	}

	ref := TypeRef{ID: id, PkgName: common.PkgAlias(id.PkgPath), Kind: TypeKindNamed}

	switch {
	case m.structs[id]:
		ref.Kind = TypeKindStruct
		if mt, ok := m.types[id]; ok && mt.PackageName != "" {
			ref.PkgName = mt.PackageName
		}
	case m.std.contains(id.PkgPath):
		ref.Kind = TypeKindOpaque
	}

	return ref, nil
}

// closingBracket returns the index of the ']' matching the '[' at open.
func closingBracket(s string, open int) int {
	depth := 0

	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

func isExported(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)

	return unicode.IsUpper(r)
}
