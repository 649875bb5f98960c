// Package analyze loads Go packages and extracts the declarations that carry
// derive directives.
//
// It uses golang.org/x/tools/go/packages with AST and go/types:
//   - struct types become records
//   - interface types become tagged unions in sealed representation, whose
//     variants are the package's named types implementing the interface
//   - named basic types become tagged unions in enum representation, whose
//     variants are the package's constants of that type
//
// Directives are line comments starting with "//derive:":
//
//	//derive:Default,Add
//	//derive:positional
//	type Point struct {
//		X int //derive:default(value=1, constant)
//	}
//
// A list starting with an upper-case letter requests traits. "positional"
// makes a struct positional. Anything else is an annotation on the field,
// variant type or constant it documents.
package analyze
