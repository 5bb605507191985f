package analyze

import (
	"fmt"
	"reflect"
	"strings"

	"mapper-generator/internal/common"
)

//go:generate go tool stringer -type=TypeKind -linecomment

// TypeID uniquely identifies a named type by package path and name.
type TypeID struct {
	PkgPath string
	Name    string
}

// String returns "pkg/path.Name", or just the name for predeclared types.
func (id TypeID) String() string {
	if id.PkgPath == "" {
		return id.Name
	}

	return id.PkgPath + "." + id.Name
}

// Short returns "pkg.Name" using the last element of the package path.
func (id TypeID) Short() string {
	if id.PkgPath == "" {
		return id.Name
	}

	return common.PkgAlias(id.PkgPath) + "." + id.Name
}

// IsZero reports whether the id is unset.
func (id TypeID) IsZero() bool {
	return id.Name == ""
}

// ParseTypeID parses "pkg/path.Name". An unqualified name yields an empty PkgPath.
func ParseTypeID(s string) TypeID {
	pkgPath, name := common.SplitQualified(strings.TrimSpace(s))

	return TypeID{PkgPath: pkgPath, Name: name}
}

// TypeKind classifies a declared type.
type TypeKind int

const (
	TypeKindUnknown   TypeKind = iota // unknown
	TypeKindBasic                     // basic
	TypeKindStruct                    // struct
	TypeKindNamed                     // named
	TypeKindOpaque                    // opaque
	TypeKindPointer                   // pointer
	TypeKindSlice                     // slice
	TypeKindArray                     // array
	TypeKindMap                       // map
	TypeKindInterface                 // interface
	TypeKindFunc                      // func
	TypeKindChan                      // chan
)

// TypeRef describes the declared type of a field, accessor, mutator or parameter.
//
// Struct is a named struct type that takes part in mapping. Opaque is a named
// struct from the standard library (time.Time, big.Int) that is copied as is.
// Named covers every other named type (enums, named slices).
type TypeRef struct {
	Kind TypeKind
	// ID is set for Basic (name only), Struct, Named and Opaque.
	ID TypeID
	// PkgName is the declared package name of ID, when known.
	PkgName string
	// Elem is the pointee, element or map value type.
	Elem *TypeRef
	// Key is the map key type.
	Key *TypeRef
	// Len is the array length.
	Len int64
	// Underlying is the underlying type of a Named type.
	Underlying *TypeRef
	// Expr is the Go spelling for kinds without structure (func, chan, interface).
	Expr string
}

// Basic returns a TypeRef for a predeclared type name.
func Basic(name string) TypeRef {
	return TypeRef{Kind: TypeKindBasic, ID: TypeID{Name: name}}
}

// StructRef returns a TypeRef for a named struct.
func StructRef(id TypeID) TypeRef {
	return TypeRef{Kind: TypeKindStruct, ID: id}
}

// PointerTo returns a pointer TypeRef.
func PointerTo(elem TypeRef) TypeRef {
	return TypeRef{Kind: TypeKindPointer, Elem: &elem}
}

// SliceOf returns a slice TypeRef.
func SliceOf(elem TypeRef) TypeRef {
	return TypeRef{Kind: TypeKindSlice, Elem: &elem}
}

// IsPointer reports whether the type is a pointer.
func (t TypeRef) IsPointer() bool {
	return t.Kind == TypeKindPointer && t.Elem != nil
}

// Deref returns the pointee of a pointer type, or the type itself.
func (t TypeRef) Deref() TypeRef {
	if t.IsPointer() {
		return *t.Elem
	}

	return t
}

// IsComplex reports whether the type is a mappable struct or a pointer to one.
func (t TypeRef) IsComplex() bool {
	return t.Deref().Kind == TypeKindStruct
}

// IsCollection reports whether the type is a slice or an array.
func (t TypeRef) IsCollection() bool {
	return (t.Kind == TypeKindSlice || t.Kind == TypeKindArray) && t.Elem != nil
}

// IsInterface reports whether the type is an interface.
func (t TypeRef) IsInterface() bool {
	return t.Kind == TypeKindInterface
}

// NestedID returns the struct type reached through the type, looking through
// one pointer and one collection level: *T, []T, []*T and [N]T all yield T.
func (t TypeRef) NestedID() (TypeID, bool) {
	if t.IsComplex() {
		return t.Deref().ID, true
	}

	if t.IsCollection() && t.Elem.IsComplex() {
		return t.Elem.Deref().ID, true
	}

	return TypeID{}, false
}

// String renders the type the way go/types does, qualified by package name.
func (t TypeRef) String() string {
	switch t.Kind {
	case TypeKindBasic:
		return t.ID.Name
	case TypeKindStruct, TypeKindNamed, TypeKindOpaque:
		if t.ID.PkgPath == "" {
			return t.ID.Name
		}

		pkgName := t.PkgName
		if pkgName == "" {
			pkgName = common.PkgAlias(t.ID.PkgPath)
		}

		return pkgName + "." + t.ID.Name
	case TypeKindPointer:
		return "*" + t.elemString()
	case TypeKindSlice:
		return "[]" + t.elemString()
	case TypeKindArray:
		return fmt.Sprintf("[%d]%s", t.Len, t.elemString())
	case TypeKindMap:
		key := common.InterfaceTypeStr
		if t.Key != nil {
			key = t.Key.String()
		}

		return "map[" + key + "]" + t.elemString()
	default:
		if t.Expr != "" {
			return t.Expr
		}

		return common.InterfaceTypeStr
	}
}

func (t TypeRef) elemString() string {
	if t.Elem == nil {
		return common.InterfaceTypeStr
	}

	return t.Elem.String()
}

// Field is a non-embedded struct field.
type Field struct {
	Name     string
	Property string
	Type     TypeRef
	Exported bool
	Tag      reflect.StructTag
}

// Method is an accessor or mutator. Type is the result type of an accessor and
// the parameter type of a mutator.
type Method struct {
	Name     string
	Property string
	Type     TypeRef
}

// Param is a constructor parameter.
type Param struct {
	Name     string
	Property string
	Type     TypeRef
	// Variadic marks a trailing ...T parameter; Type is then []T.
	Variadic bool
	// HasDefault is set when the argument may be omitted.
	HasDefault bool
	// DefaultValue is the Go expression used when the argument is omitted;
	// empty means the argument is left out of the call.
	DefaultValue string
}

// Constructor is the New<Type> function of a struct type.
type Constructor struct {
	Name           string
	Params         []Param
	ReturnsPointer bool
}

// FieldAnnotation is the declarative metadata attached to one field.
type FieldAnnotation struct {
	// TargetName is the canonical property name on the other side.
	TargetName string
	// CustomMapper names a function applied to the value: "Func" in the
	// destination package, or "import/path.Func".
	CustomMapper string
	// CollectionItem is the element type of a collection field.
	CollectionItem TypeID
}

// ClassAnnotation is the declarative metadata attached to a type declaration.
type ClassAnnotation struct {
	// PairedSource is the source type this type maps from, as written.
	PairedSource string
	// MapperName is an optional explicit mapper name.
	MapperName string
}

// TypeSchema is the introspected description of one struct type.
type TypeSchema struct {
	ID               TypeID
	PkgName          string
	Fields           []Field
	Accessors        []Method
	Mutators         []Method
	Constructor      *Constructor
	FieldAnnotations map[string]FieldAnnotation
	ClassAnnotation  *ClassAnnotation
}

// Ref returns the struct TypeRef of the schema's own type.
func (s *TypeSchema) Ref() TypeRef {
	return TypeRef{Kind: TypeKindStruct, ID: s.ID, PkgName: s.PkgName}
}

// Field returns the field with the given Go name.
func (s *TypeSchema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}

	return Field{}, false
}

// PublicFields returns the exported fields in declaration order.
func (s *TypeSchema) PublicFields() []Field {
	var out []Field

	for _, f := range s.Fields {
		if f.Exported {
			out = append(out, f)
		}
	}

	return out
}

// Accessor returns the accessor of a property.
func (s *TypeSchema) Accessor(property string) (Method, bool) {
	return findMethod(s.Accessors, property)
}

// Mutator returns the mutator of a property.
func (s *TypeSchema) Mutator(property string) (Method, bool) {
	return findMethod(s.Mutators, property)
}

// ConstructorParams returns the constructor parameters, or nil without a constructor.
func (s *TypeSchema) ConstructorParams() []Param {
	if s.Constructor == nil {
		return nil
	}

	return s.Constructor.Params
}

func findMethod(methods []Method, property string) (Method, bool) {
	for _, m := range methods {
		if m.Property == property {
			return m, true
		}
	}

	return Method{}, false
}

// Readable is a property that generated code can read from a value.
type Readable struct {
	Property string
	// Accessor is the method name; empty when the property is read from Field.
	Accessor string
	Field    string
	Type     TypeRef
}

// Readables lists accessor-backed properties in accessor order, then exported
// fields whose property has no accessor.
func (s *TypeSchema) Readables() []Readable {
	var out []Readable

	seen := make(map[string]bool)

	for _, m := range s.Accessors {
		if seen[m.Property] {
			continue
		}

		seen[m.Property] = true
		out = append(out, Readable{Property: m.Property, Accessor: m.Name, Type: m.Type})
	}

	for _, f := range s.PublicFields() {
		if seen[f.Property] {
			continue
		}

		seen[f.Property] = true
		out = append(out, Readable{Property: f.Property, Field: f.Name, Type: f.Type})
	}

	return out
}

// Writable is a property that generated code can assign.
type Writable struct {
	Property string
	// Mutator is the method name; empty when the property is assigned to Field.
	Mutator string
	Field   string
	Type    TypeRef
}

// Writer returns how a property is written: through its mutator, or through
// an exported field when no mutator exists.
func (s *TypeSchema) Writer(property string) (Writable, bool) {
	if m, ok := s.Mutator(property); ok {
		return Writable{Property: property, Mutator: m.Name, Type: m.Type}, true
	}

	for _, f := range s.PublicFields() {
		if f.Property == property {
			return Writable{Property: property, Field: f.Name, Type: f.Type}, true
		}
	}

	return Writable{}, false
}

// Properties returns every property name the schema exposes, without duplicates.
func (s *TypeSchema) Properties() []string {
	var out []string

	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, f := range s.Fields {
		add(f.Property)
	}

	for _, m := range s.Accessors {
		add(m.Property)
	}

	for _, m := range s.Mutators {
		add(m.Property)
	}

	for _, p := range s.ConstructorParams() {
		add(p.Property)
	}

	return out
}
