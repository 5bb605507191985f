package gen

import "mapper-generator/internal/analyze"

// Expr is a value expression of generated code.
type Expr interface {
	isExpr()
}

// Read reads a property of a value: Recv.Accessor() or Recv.Field.
type Read struct {
	Recv     string
	Accessor string
	Field    string
}

// Raw is Go code used verbatim.
type Raw struct {
	Code        string
	Addressable bool
}

// Zero is the zero value literal of a type.
type Zero struct {
	Literal string
}

// Call calls a package-level function. With Spread the last argument is
// passed as a variadic slice.
type Call struct {
	Func   string
	Args   []Expr
	Spread bool
}

// Assert is a type assertion X.(Type).
type Assert struct {
	X    Expr
	Type string
}

// MapperCall converts Arg through a dependency mapper, m.Field.Method(arg).
// Dependency methods take and return pointers; InType and OutType are the
// value types on both ends. They are rendered only when the call needs a
// closure, so a plain call adds no import.
type MapperCall struct {
	Field       string
	Method      string
	Arg         Expr
	InType      analyze.TypeRef
	OutType     analyze.TypeRef
	ArgPointer  bool
	WantPointer bool
}

// Collection converts a slice or array element-wise. Elem is evaluated once
// per element with items[i] in scope.
type Collection struct {
	Source  Expr
	InType  string
	OutType string
	Array   bool
	Elem    Expr
}

func (Read) isExpr()       {}
func (Raw) isExpr()        {}
func (Zero) isExpr()       {}
func (Call) isExpr()       {}
func (Assert) isExpr()     {}
func (MapperCall) isExpr() {}
func (Collection) isExpr() {}

// Names bound in generated method bodies.
const (
	recvVar  = "m"
	inVar    = "in"
	outVar   = "out"
	valueVar = "v"
	itemsVar = "items"
	indexVar = "i"
)

// elemExpr is the current element inside a Collection.
var elemExpr = Raw{Code: itemsVar + "[" + indexVar + "]", Addressable: true}

// addressable reports whether &e is valid Go.
func addressable(e Expr) bool {
	switch x := e.(type) {
	case Read:
		return x.Accessor == ""
	case Raw:
		return x.Addressable
	default:
		return false
	}
}
