package analyze

import (
	"go/types"
	"sort"
)

// typeWriter renders types as source text valid inside one package and
// records the imports that text needs.
type typeWriter struct {
	pkg     *types.Package
	imports map[string]struct{}
}

func newTypeWriter(pkg *types.Package) *typeWriter {
	return &typeWriter{pkg: pkg, imports: make(map[string]struct{})}
}

func (w *typeWriter) qualifier(p *types.Package) string {
	if p == nil || p == w.pkg || p.Path() == w.pkg.Path() {
		return ""
	}

	w.imports[p.Path()] = struct{}{}

	return p.Name()
}

// String renders t.
func (w *typeWriter) String(t types.Type) string {
	return types.TypeString(t, w.qualifier)
}

// Underlying returns the name of t's underlying predeclared type, or "".
func (w *typeWriter) Underlying(t types.Type) string {
	if _, ok := t.(*types.TypeParam); ok {
		return ""
	}

	if b, ok := t.Underlying().(*types.Basic); ok && b.Info()&types.IsUntyped == 0 {
		return b.Name()
	}

	return ""
}

// Imports returns the recorded import paths, sorted.
func (w *typeWriter) Imports() []string {
	out := make([]string, 0, len(w.imports))
	for p := range w.imports {
		out = append(out, p)
	}

	sort.Strings(out)

	return out
}
