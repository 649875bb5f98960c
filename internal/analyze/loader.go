package analyze

import (
	"context"
	"go/ast"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/packages"

	"derive-generator/internal/decl"
	"derive-generator/internal/logger"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages and extracts annotated declarations.
type Analyzer struct {
	// Dir is the directory patterns are resolved in; positions are reported
	// relative to it. Empty means the current directory.
	Dir string
	// Tags are extra build tags.
	Tags []string
	// Output is the generated file name. Errors located in a file of that
	// name are ignored, so a stale generated file does not block
	// regeneration.
	Output string
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// LoadPackages loads the packages matching patterns and extracts their
// annotated declarations. Patterns are standard Go package patterns
// (e.g., "./geometry", "derive-generator/examples/...").
func (a *Analyzer) LoadPackages(ctx context.Context, patterns ...string) ([]*PackageInfo, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    LoadMode,
		Dir:     a.Dir,
	}

	if len(a.Tags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(a.Tags, ",")}
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load packages")
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			if a.inOutput(e) {
				logger.Logger.Debugw("ignoring error in generated file",
					"package", pkg.PkgPath,
					"error", e.Msg)

				continue
			}

			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Wrap(errors.Join(errs...), "package errors")
	}

	out := make([]*PackageInfo, 0, len(pkgs))

	for _, pkg := range pkgs {
		info, err := a.processPackage(pkg)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to process package %s", pkg.PkgPath)
		}

		logger.Logger.Debugw("analyzed package",
			"package", pkg.PkgPath,
			"declarations", len(info.Declarations))

		out = append(out, info)
	}

	return out, nil
}

// inOutput reports whether e is a parse or type error in the generated file.
func (a *Analyzer) inOutput(e packages.Error) bool {
	if a.Output == "" || e.Kind == packages.ListError {
		return false
	}

	return filepath.Base(errorFile(e.Pos)) == a.Output
}

// errorFile strips the line and column from a "file:line:col" position.
func errorFile(pos string) string {
	for range 2 {
		i := strings.LastIndexByte(pos, ':')
		if i < 0 {
			break
		}

		if _, err := strconv.Atoi(pos[i+1:]); err != nil {
			break
		}

		pos = pos[:i]
	}

	return pos
}

// processPackage extracts annotated declarations from a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) (*PackageInfo, error) {
	info := &PackageInfo{
		Path: pkg.PkgPath,
		Name: pkg.Name,
	}

	if len(pkg.GoFiles) > 0 {
		info.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	x := &extractor{
		pkg:      pkg,
		position: a.positioner(pkg.Fset),
	}

	if err := x.collect(); err != nil {
		return nil, err
	}

	var errs []error

	for _, t := range x.types {
		if !t.dirs.hasTraits() {
			continue
		}

		d, err := x.declaration(t)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		info.Declarations = append(info.Declarations, d)
	}

	return info, errors.Join(errs...)
}

// positioner converts token positions into decl positions with file names
// relative to the analyzer directory when possible.
func (a *Analyzer) positioner(fset *token.FileSet) func(token.Pos) decl.Position {
	base := a.Dir
	if base == "" {
		base, _ = os.Getwd()
	}

	return func(p token.Pos) decl.Position {
		pos := fset.Position(p)

		file := pos.Filename
		if base != "" {
			if rel, err := filepath.Rel(base, file); err == nil && !strings.HasPrefix(rel, "..") {
				file = rel
			}
		}

		return decl.Position{File: file, Line: pos.Line, Column: pos.Column}
	}
}

// typeEntry is one named type of the package, in source order.
type typeEntry struct {
	spec *ast.TypeSpec
	obj  *types.TypeName
	dirs directives
}

// constEntry is one package constant, in source order.
type constEntry struct {
	name *ast.Ident
	obj  *types.Const
	dirs directives
}

// extractor builds declarations for one package.
type extractor struct {
	pkg      *packages.Package
	position func(token.Pos) decl.Position
	types    []typeEntry
	consts   []constEntry
}

// collect walks every file in order and records named types and constants
// with their directives.
func (x *extractor) collect() error {
	var errs []error

	for _, file := range x.pkg.Syntax {
		for _, d := range file.Decls {
			gd, ok := d.(*ast.GenDecl)
			if !ok {
				continue
			}

			for _, spec := range gd.Specs {
				// A lone spec may carry its documentation on the declaration.
				doc := specDoc(gd, spec)

				switch s := spec.(type) {
				case *ast.TypeSpec:
					obj, ok := x.pkg.TypesInfo.Defs[s.Name].(*types.TypeName)
					if !ok {
						continue
					}

					dirs, err := parseDirectives(x.position, doc, s.Comment)
					if err != nil {
						errs = append(errs, err)
					}

					x.types = append(x.types, typeEntry{spec: s, obj: obj, dirs: dirs})

				case *ast.ValueSpec:
					if gd.Tok != token.CONST {
						continue
					}

					dirs, err := parseDirectives(x.position, doc, s.Comment)
					if err != nil {
						errs = append(errs, err)
					}

					for _, name := range s.Names {
						if obj, ok := x.pkg.TypesInfo.Defs[name].(*types.Const); ok {
							x.consts = append(x.consts, constEntry{name: name, obj: obj, dirs: dirs})
						}
					}
				}
			}
		}
	}

	return errors.Join(errs...)
}

func specDoc(gd *ast.GenDecl, spec ast.Spec) *ast.CommentGroup {
	var doc *ast.CommentGroup

	switch s := spec.(type) {
	case *ast.TypeSpec:
		doc = s.Doc
	case *ast.ValueSpec:
		doc = s.Doc
	}

	if doc == nil && len(gd.Specs) == 1 {
		doc = gd.Doc
	}

	return doc
}

// declaration builds the Declaration of one annotated type.
func (x *extractor) declaration(t typeEntry) (*decl.Declaration, error) {
	w := newTypeWriter(x.pkg.Types)

	d := &decl.Declaration{
		Name:    t.obj.Name(),
		Derives: t.dirs.traits,
		Pos:     x.position(t.spec.Name.Pos()),
	}

	named, ok := t.obj.Type().(*types.Named)
	if !ok {
		// Aliases cannot carry methods.
		d.Kind = decl.KindUnsupported
		return d, nil
	}

	if tps := named.TypeParams(); tps != nil {
		for i := range tps.Len() {
			tp := tps.At(i)
			d.TypeParams = append(d.TypeParams, decl.TypeParam{
				Name:       tp.Obj().Name(),
				Constraint: w.String(tp.Constraint()),
			})
		}
	}

	var err error

	switch u := named.Underlying().(type) {
	case *types.Struct:
		d.Kind = decl.KindRecord
		d.Fields, err = x.fields(w, t.spec.Type, u, t.dirs.positional)

	case *types.Interface:
		d.Kind = decl.KindTaggedUnion
		d.Repr = decl.ReprSealed
		d.Variants, err = x.sealedVariants(w, named, u)

	case *types.Basic:
		d.Kind = decl.KindTaggedUnion
		d.Repr = decl.ReprEnum
		d.Variants = x.enumVariants(named)

	default:
		d.Kind = decl.KindUnsupported
	}

	if err != nil {
		return nil, errors.Wrapf(err, "type %s", d.Name)
	}

	d.Imports = w.Imports()
	d.Normalize()

	return d, nil
}

// fields extracts struct fields in order. The AST supplies comments, the
// type checker supplies types.
func (x *extractor) fields(w *typeWriter, expr ast.Expr, st *types.Struct, positional bool) ([]decl.Field, error) {
	astStruct, ok := expr.(*ast.StructType)
	if !ok {
		return nil, errors.Newf("%s: struct type is not a struct literal", x.position(expr.Pos()))
	}

	var (
		out  []decl.Field
		errs []error
		idx  int
	)

	for _, af := range astStruct.Fields.List {
		dirs, err := parseDirectives(x.position, af.Doc, af.Comment)
		if err != nil {
			errs = append(errs, err)
		}

		count := len(af.Names)
		if count == 0 {
			count = 1 // embedded
		}

		for range count {
			if idx >= st.NumFields() {
				break
			}

			v := st.Field(idx)
			f := decl.Field{
				Name:        v.Name(),
				Selector:    v.Name(),
				Type:        w.String(v.Type()),
				Underlying:  w.Underlying(v.Type()),
				Annotations: dirs.annotations,
				Pos:         x.position(v.Pos()),
			}

			if positional {
				f.Name = ""
			}

			out = append(out, f)
			idx++
		}
	}

	return out, errors.Join(errs...)
}

// sealedVariants returns the package's named non-interface types that
// implement the union interface, in source order.
func (x *extractor) sealedVariants(w *typeWriter, union *types.Named, iface *types.Interface) ([]decl.Variant, error) {
	if iface.NumMethods() == 0 {
		logger.Logger.Warnw("union interface has no methods; no variants",
			"type", union.Obj().Name())

		return nil, nil
	}

	var (
		out  []decl.Variant
		errs []error
	)

	for _, t := range x.types {
		named, ok := t.obj.Type().(*types.Named)
		if !ok || named == union || types.IsInterface(named) {
			continue
		}

		if !implements(named, union) {
			continue
		}

		st, ok := named.Underlying().(*types.Struct)
		if !ok {
			logger.Logger.Warnw("skipping non-struct variant",
				"union", union.Obj().Name(),
				"type", named.Obj().Name())

			continue
		}

		fields, err := x.fields(w, t.spec.Type, st, t.dirs.positional)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		v := decl.Variant{
			Name:        variantName(union.Obj().Name(), named.Obj().Name()),
			TypeName:    named.Obj().Name(),
			Fields:      fields,
			Annotations: t.dirs.annotations,
			Pos:         x.position(t.spec.Name.Pos()),
		}

		switch {
		case len(fields) == 0:
			v.Payload = decl.PayloadNone
		case t.dirs.positional:
			v.Payload = decl.PayloadPositional
		default:
			v.Payload = decl.PayloadNamed
		}

		out = append(out, v)
	}

	return out, errors.Join(errs...)
}

// implements reports whether the variant type implements the union. Generic
// types are compared instantiated with the variant's own type parameters.
func implements(variant, union *types.Named) bool {
	vtps, utps := variant.TypeParams(), union.TypeParams()
	if vtps.Len() != utps.Len() {
		return false
	}

	if vtps.Len() == 0 {
		return types.Implements(variant, union.Underlying().(*types.Interface))
	}

	args := make([]types.Type, vtps.Len())
	for i := range args {
		args[i] = vtps.At(i)
	}

	v, err := types.Instantiate(nil, variant, args, false)
	if err != nil {
		return false
	}

	u, err := types.Instantiate(nil, union, args, false)
	if err != nil {
		return false
	}

	iface, ok := u.Underlying().(*types.Interface)

	return ok && types.Implements(v, iface)
}

// enumVariants returns the package constants of the enum type, in source
// order.
func (x *extractor) enumVariants(enum *types.Named) []decl.Variant {
	var out []decl.Variant

	for _, c := range x.consts {
		if !types.Identical(c.obj.Type(), enum) || c.name.Name == "_" {
			continue
		}

		out = append(out, decl.Variant{
			Name:        variantName(enum.Obj().Name(), c.name.Name),
			TypeName:    c.name.Name,
			Payload:     decl.PayloadNone,
			Annotations: c.dirs.annotations,
			Pos:         x.position(c.name.Pos()),
		})
	}

	return out
}

// variantName trims the union name prefix: ShapeCircle in Shape is Circle.
func variantName(union, typeName string) string {
	if name, ok := strings.CutPrefix(typeName, union); ok && name != "" {
		return name
	}

	return typeName
}
