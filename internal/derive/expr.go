package derive

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"derive-generator/internal/decl"
)

// basicTypes are the predeclared types whose values can be Go constants.
var basicTypes = map[string]typeClass{
	"bool":       classBool,
	"string":     classString,
	"int":        classInteger,
	"int8":       classInteger,
	"int16":      classInteger,
	"int32":      classInteger,
	"int64":      classInteger,
	"uint":       classInteger,
	"uint8":      classInteger,
	"uint16":     classInteger,
	"uint32":     classInteger,
	"uint64":     classInteger,
	"uintptr":    classInteger,
	"byte":       classInteger,
	"rune":       classInteger,
	"float32":    classFloat,
	"float64":    classFloat,
	"complex64":  classFloat,
	"complex128": classFloat,
}

type typeClass int

const (
	classOther typeClass = iota
	classBool
	classString
	classInteger
	classFloat
	classTypeParam
)

// classify returns the operator class of a field's type.
func classify(d *decl.Declaration, f *decl.Field) typeClass {
	t := strings.TrimSpace(f.Underlying)
	if t == "" {
		t = strings.TrimSpace(f.Type)
	}

	if c, ok := basicTypes[t]; ok {
		return c
	}

	if d.IsTypeParam(t) {
		return classTypeParam
	}

	return classOther
}

// isBasicType reports whether typ names a predeclared constant-capable type.
func isBasicType(typ string) bool {
	_, ok := basicTypes[strings.TrimSpace(typ)]
	return ok
}

// isConstExpr reports whether e is a constant expression that can be
// determined without type information: literals, true/false, and unary,
// binary, parenthesized or conversion-to-basic-type forms of those.
func isConstExpr(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.BasicLit:
		return true
	case *ast.Ident:
		return e.Name == "true" || e.Name == "false"
	case *ast.ParenExpr:
		return isConstExpr(e.X)
	case *ast.UnaryExpr:
		return e.Op != token.ARROW && e.Op != token.AND && isConstExpr(e.X)
	case *ast.BinaryExpr:
		return isConstExpr(e.X) && isConstExpr(e.Y)
	case *ast.CallExpr:
		fn, ok := e.Fun.(*ast.Ident)
		return ok && isBasicType(fn.Name) && len(e.Args) == 1 && isConstExpr(e.Args[0])
	default:
		return false
	}
}

// isStringLiteral reports whether e is a quoted or raw string literal.
func isStringLiteral(e ast.Expr) bool {
	lit, ok := e.(*ast.BasicLit)
	return ok && lit.Kind == token.STRING
}

// convertLiteral wraps a string literal in a conversion to typ, so one
// literal can initialize []byte, named string types and so on. A plain
// string field keeps the bare literal.
func convertLiteral(typ, lit string) string {
	typ = strings.TrimSpace(typ)
	if typ == "string" {
		return lit
	}

	if strings.HasPrefix(typ, "*") || strings.HasPrefix(typ, "func") || strings.HasPrefix(typ, "<-") {
		typ = "(" + typ + ")"
	}

	return typ + "(" + lit + ")"
}

// hasNilZero reports whether the zero value of the type expression is nil
// and can be written as such: pointers, slices, maps, channels, functions and
// literal interface types.
func hasNilZero(typ string) bool {
	expr, err := parser.ParseExpr(typ)
	if err != nil {
		return false
	}

	switch t := expr.(type) {
	case *ast.StarExpr, *ast.MapType, *ast.ChanType, *ast.FuncType, *ast.InterfaceType:
		return true
	case *ast.ArrayType:
		return t.Len == nil
	default:
		return false
	}
}

// mentionsTypeParam reports whether the type expression refers to one of
// the declaration's type parameters.
func mentionsTypeParam(d *decl.Declaration, typ string) bool {
	if len(d.TypeParams) == 0 {
		return false
	}

	expr, err := parser.ParseExpr(typ)
	if err != nil {
		// Unparsable types are checked textually.
		for _, p := range d.TypeParams {
			if strings.Contains(typ, p.Name) {
				return true
			}
		}

		return false
	}

	found := false

	ast.Inspect(expr, func(n ast.Node) bool {
		// pkg.Name never refers to a type parameter.
		if _, ok := n.(*ast.SelectorExpr); ok {
			return false
		}

		if id, ok := n.(*ast.Ident); ok && d.IsTypeParam(id.Name) {
			found = true
		}

		return !found
	})

	return found
}
