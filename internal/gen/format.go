package gen

import (
	"bytes"
	"go/format"
	"go/parser"
	"go/token"
	"strconv"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/imports"
)

// format formats generated source and drops imports it does not use.
// Declarations collect the imports of every field type, so the set written
// by the template is a superset of what the code needs.
func (g *Generator) format(filename string, src []byte) ([]byte, error) {
	if g.config.FixImports {
		out, err := imports.Process(filename, src, &imports.Options{
			Comments:  true,
			TabIndent: true,
			TabWidth:  8,
		})
		if err != nil {
			return nil, errors.Wrap(err, "goimports")
		}

		return out, nil
	}

	return pruneImports(src)
}

// pruneImports removes unused imports with astutil and formats the result
// with go/format. Unlike goimports it never adds imports.
func pruneImports(src []byte) ([]byte, error) {
	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, "", src, parser.ParseComments)
	if err != nil {
		return nil, errors.Wrap(err, "parsing generated code")
	}

	var paths []string
	for _, spec := range file.Imports {
		if p, err := strconv.Unquote(spec.Path.Value); err == nil {
			paths = append(paths, p)
		}
	}

	for _, p := range paths {
		if !astutil.UsesImport(file, p) {
			astutil.DeleteImport(fset, file, p)
		}
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return nil, errors.Wrap(err, "formatting generated code")
	}

	return buf.Bytes(), nil
}
