package derive

import (
	"derive-generator/internal/diagnostic"
)

// ValueDecl is a package-level secondary default: a const when the value is
// a constant expression of a basic type, otherwise a var.
type ValueDecl struct {
	Doc   string
	Name  string
	Type  string
	Value string
	Const bool
}

// FuncDecl is a zero-argument secondary default function.
type FuncDecl struct {
	Doc        string
	Name       string
	TypeParams string
	Result     string
	Body       string // returned expression
}

// Method is the trait implementation. A method has a Receiver; tagged unions
// in sealed representation get a package function instead, since Go does not
// allow methods on interface types.
type Method struct {
	Doc        string
	Receiver   string
	Name       string
	TypeParams string
	Params     string
	Results    string
	Body       []string
}

// IsFunc reports whether the trait is implemented as a package function.
func (m *Method) IsFunc() bool {
	return m.Receiver == ""
}

// Fragment is the generated implementation of one trait for one declaration.
type Fragment struct {
	TypeName string
	Trait    string
	Values   []ValueDecl
	Funcs    []FuncDecl
	Method   Method
	Inits    []string // statements run from an init function
	Imports  []string
	Warnings []diagnostic.Diagnostic
}

// Symbols returns the package-level identifiers the fragment declares.
func (f *Fragment) Symbols() []string {
	var out []string
	for _, v := range f.Values {
		out = append(out, v.Name)
	}

	for _, fn := range f.Funcs {
		out = append(out, fn.Name)
	}

	if f.Method.IsFunc() {
		out = append(out, f.Method.Name)
	}

	return out
}
