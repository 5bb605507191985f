package gen

import (
	"fmt"
	"strings"

	"mapper-generator/internal/analyze"
	"mapper-generator/internal/common"
)

// printer renders types and expressions, registering every package it
// qualifies an identifier with.
type printer struct {
	imports *importRegistry
}

// typeString renders a declared type as written in the generated file.
func (p *printer) typeString(t analyze.TypeRef) string {
	switch t.Kind {
	case analyze.TypeKindBasic:
		return t.ID.Name
	case analyze.TypeKindStruct, analyze.TypeKindNamed, analyze.TypeKindOpaque:
		return p.imports.qualify(t.ID.PkgPath, t.PkgName, t.ID.Name)
	case analyze.TypeKindPointer:
		return "*" + p.elemString(t)
	case analyze.TypeKindSlice:
		return "[]" + p.elemString(t)
	case analyze.TypeKindArray:
		return fmt.Sprintf("[%d]%s", t.Len, p.elemString(t))
	case analyze.TypeKindMap:
		key := common.InterfaceTypeStr
		if t.Key != nil {
			key = p.typeString(*t.Key)
		}

		return "map[" + key + "]" + p.elemString(t)
	default:
		if t.Expr != "" {
			return t.Expr
		}

		return common.InterfaceTypeStr
	}
}

func (p *printer) elemString(t analyze.TypeRef) string {
	if t.Elem == nil {
		return common.InterfaceTypeStr
	}

	return p.typeString(*t.Elem)
}

// typeIDString renders a struct type known only by id.
func (p *printer) typeIDString(id analyze.TypeID) string {
	return p.imports.qualify(id.PkgPath, "", id.Name)
}

// zero returns the zero value literal of t.
func (p *printer) zero(t analyze.TypeRef) string {
	switch t.Kind {
	case analyze.TypeKindBasic:
		return basicZero(t.ID.Name)
	case analyze.TypeKindStruct, analyze.TypeKindOpaque, analyze.TypeKindArray:
		return p.typeString(t) + "{}"
	case analyze.TypeKindPointer, analyze.TypeKindSlice, analyze.TypeKindMap,
		analyze.TypeKindInterface, analyze.TypeKindFunc, analyze.TypeKindChan:
		return "nil"
	case analyze.TypeKindNamed:
		if t.Underlying == nil {
			return "*new(" + p.typeString(t) + ")"
		}

		// Untyped constants and nil convert to the named type.
		if t.Underlying.Kind == analyze.TypeKindArray {
			return p.typeString(t) + "{}"
		}

		return p.zero(*t.Underlying)
	default:
		if t.Expr == "" {
			return "nil"
		}

		return "*new(" + t.Expr + ")"
	}
}

func basicZero(name string) string {
	switch name {
	case "bool":
		return "false"
	case "string":
		return `""`
	case "unsafe.Pointer", "untyped nil":
		return "nil"
	default:
		return "0"
	}
}

// expr renders an expression.
func (p *printer) expr(e Expr) string {
	switch x := e.(type) {
	case Read:
		if x.Accessor != "" {
			return x.Recv + "." + x.Accessor + "()"
		}

		return x.Recv + "." + x.Field
	case Raw:
		return x.Code
	case Zero:
		return x.Literal
	case Call:
		return p.call(x)
	case Assert:
		return p.expr(x.X) + ".(" + x.Type + ")"
	case MapperCall:
		return p.mapperCall(x)
	case Collection:
		return p.collection(x)
	default:
		panic(fmt.Sprintf("gen: unknown expression %T", e))
	}
}

func (p *printer) call(c Call) string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = p.expr(a)
	}

	spread := ""
	if c.Spread && len(args) > 0 {
		spread = "..."
	}

	return c.Func + "(" + strings.Join(args, ", ") + spread + ")"
}

func (p *printer) mapperCall(c MapperCall) string {
	method := recvVar + "." + c.Field + "." + c.Method
	arg := p.expr(c.Arg)

	switch {
	case c.ArgPointer && c.WantPointer:
		return method + "(" + arg + ")"

	case c.ArgPointer:
		return fmt.Sprintf("func(%[1]s *%[2]s) %[3]s {\nif %[1]s == nil {\nreturn %[3]s{}\n}\nreturn *%[4]s(%[1]s)\n}(%[5]s)",
			valueVar, p.typeString(c.InType), p.typeString(c.OutType), method, arg)

	case addressable(c.Arg):
		deref := ""
		if !c.WantPointer {
			deref = "*"
		}

		return deref + method + "(&" + arg + ")"

	default:
		out, deref := p.typeString(c.OutType), "*"
		if c.WantPointer {
			out, deref = "*"+out, ""
		}

		return fmt.Sprintf("func(%[1]s %[2]s) %[3]s {\nreturn %[4]s%[5]s(&%[1]s)\n}(%[6]s)",
			valueVar, p.typeString(c.InType), out, deref, method, arg)
	}
}

func (p *printer) collection(c Collection) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "func(%s %s) %s {\n", itemsVar, c.InType, c.OutType)

	if c.Array {
		fmt.Fprintf(&sb, "var %s %s\n", outVar, c.OutType)
	} else {
		fmt.Fprintf(&sb, "if %s == nil {\nreturn nil\n}\n", itemsVar)
		fmt.Fprintf(&sb, "%s := make(%s, len(%s))\n", outVar, c.OutType, itemsVar)
	}

	fmt.Fprintf(&sb, "for %s := range %s {\n", indexVar, itemsVar)
	fmt.Fprintf(&sb, "%s[%s] = %s\n}\n", outVar, indexVar, p.expr(c.Elem))
	fmt.Fprintf(&sb, "return %s\n}(%s)", outVar, p.expr(c.Source))

	return sb.String()
}
