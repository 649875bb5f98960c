package gen

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/cockroachdb/errors"

	"derive-generator/internal/analyze"
	"derive-generator/internal/common"
	"derive-generator/internal/decl"
	"derive-generator/internal/derive"
	"derive-generator/internal/diagnostic"
	"derive-generator/internal/logger"
)

// DefaultFilename is the generated file name in each package.
const DefaultFilename = "derive_gen.go"

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// Filename is the name of the generated file in each package directory.
	Filename string
	// FixImports formats with golang.org/x/tools/imports; otherwise unused
	// imports are pruned and the file is formatted with go/format.
	FixImports bool
	// Options are passed to the derivation core.
	Options derive.Options
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Filename:   DefaultFilename,
		FixImports: true,
		Options:    derive.DefaultOptions(),
	}
}

// Unit is the input of one generated file: the declarations of one package.
type Unit struct {
	PackageName  string
	Dir          string
	Filename     string // overrides GeneratorConfig.Filename when set
	Declarations []*decl.Declaration
}

// UnitFromPackage converts an analyzed package into a Unit.
func UnitFromPackage(p *analyze.PackageInfo) Unit {
	return Unit{
		PackageName:  p.Name,
		Dir:          p.Dir,
		Declarations: p.Declarations,
	}
}

// UnitFromFile converts a YAML declaration file into a Unit written to out.
func UnitFromFile(f *decl.File, out string) Unit {
	decls := make([]*decl.Declaration, len(f.Declarations))
	for i := range f.Declarations {
		decls[i] = &f.Declarations[i]
	}

	return Unit{
		PackageName:  f.Package,
		Dir:          filepath.Dir(out),
		Filename:     filepath.Base(out),
		Declarations: decls,
	}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Path is the destination, directory and file name.
	Path string
	// Package is the Go package name.
	Package string
	// Content is the formatted Go source code.
	Content []byte
}

// Generator assembles derived fragments into Go files.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	if config.Filename == "" {
		config.Filename = DefaultFilename
	}

	return &Generator{config: config}
}

// Generate generates one file per unit with at least one derivation.
// A failing declaration is reported in the diagnostics and left out; the
// rest of its unit is still generated.
func (g *Generator) Generate(units []Unit) ([]GeneratedFile, diagnostic.Diagnostics) {
	var (
		files []GeneratedFile
		diags diagnostic.Diagnostics
	)

	for _, u := range units {
		file, d := g.GenerateUnit(u)
		diags.Merge(d)

		if file != nil {
			files = append(files, *file)
		}
	}

	return files, diags
}

// fileData holds all data needed for the file template.
type fileData struct {
	PackageName string
	Imports     []string
	Bodies      []string
}

// GenerateUnit generates the file of one unit. It returns a nil file when no
// declaration produced code.
func (g *Generator) GenerateUnit(u Unit) (*GeneratedFile, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	data := &fileData{PackageName: u.PackageName}
	symbols := make(map[string]string)

	for _, d := range u.Declarations {
		frags, err := derive.ExpandAll(d, g.config.Options)
		if err != nil {
			logger.Logger.Debugw("declaration skipped", "type", d.Name, "error", err)
			diags.AddError(d.Name, err)

			continue
		}

		if dup := claimSymbols(symbols, d, frags); dup != nil {
			diags.Add(*dup)
			continue
		}

		// A declaration contributes all of its fragments or none.
		bodies, err := renderAll(frags, (*derive.Fragment).Render)
		if err != nil {
			diags.AddError(d.Name, err)
			continue
		}

		for _, f := range frags {
			for _, w := range f.Warnings {
				diags.Add(w)
			}

			data.Imports = append(data.Imports, f.Imports...)
		}

		data.Bodies = append(data.Bodies, bodies...)

		logger.Logger.Debugw("derived", "type", d.Name, "traits", d.Derives)
	}

	if len(data.Bodies) == 0 {
		return nil, diags
	}

	data.Imports = common.Dedup(data.Imports)
	sort.Strings(data.Imports)

	path := g.OutputPath(u)

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		diags.AddError("", errors.Wrap(err, "executing template"))
		return nil, diags
	}

	content, err := g.format(path, buf.Bytes())
	if err != nil {
		// Best-effort: keep the unformatted code next to the output.
		sidecar, werr := writeDebugUnformatted(path, buf.Bytes())
		if werr == nil {
			err = errors.WithHintf(err, "unformatted output written to %s", sidecar)
		}

		diags.Add(diagnostic.Diagnostic{
			Severity: diagnostic.DiagnosticError,
			Code:     diagnostic.CodeGeneration,
			Message:  fmt.Sprintf("formatting %s: %v", path, err),
			Hints:    errors.GetAllHints(err),
		})

		return nil, diags
	}

	logger.Logger.Infow("generated", "file", path, "declarations", len(u.Declarations))

	return &GeneratedFile{Path: path, Package: u.PackageName, Content: content}, diags
}

// OutputPath is the file GenerateUnit writes for u.
func (g *Generator) OutputPath(u Unit) string {
	filename := u.Filename
	if filename == "" {
		filename = g.config.Filename
	}

	return filepath.Join(u.Dir, filename)
}

// renderAll renders every fragment, or returns the first error and nothing.
func renderAll(frags []*derive.Fragment, render func(*derive.Fragment) (string, error)) ([]string, error) {
	bodies := make([]string, 0, len(frags))

	for _, f := range frags {
		body, err := render(f)
		if err != nil {
			return nil, err
		}

		bodies = append(bodies, body)
	}

	return bodies, nil
}

// claimSymbols records the package-level names and methods frags declare.
// It returns a duplicate-symbol diagnostic and claims nothing when any name
// is already taken.
func claimSymbols(symbols map[string]string, d *decl.Declaration, frags []*derive.Fragment) *diagnostic.Diagnostic {
	claimed := make(map[string]string)

	for _, f := range frags {
		owner := f.TypeName + " " + f.Trait

		names := f.Symbols()
		if !f.Method.IsFunc() {
			names = append(names, f.TypeName+"."+f.Method.Name)
		}

		for _, name := range names {
			prev, ok := symbols[name]
			if !ok {
				prev, ok = claimed[name]
			}

			if ok {
				return &diagnostic.Diagnostic{
					Severity: diagnostic.DiagnosticError,
					Code:     diagnostic.CodeDuplicateSymbol,
					Message:  fmt.Sprintf("%s is generated by both %s and %s", name, prev, owner),
					Pos:      d.Pos,
					TypeName: d.Name,
					Hints:    []string{"rename one of them with constant=NAME or function=NAME"},
				}
			}

			claimed[name] = owner
		}
	}

	for name, owner := range claimed {
		symbols[name] = owner
	}

	return nil
}

// Header is the first line of every generated file.
const Header = "// Code generated by derive-generator. DO NOT EDIT."

var fileTemplate = template.Must(template.New("file").Parse(Header + `

package {{.PackageName}}
{{if eq (len .Imports) 1}}
import {{printf "%q" (index .Imports 0)}}
{{else if .Imports}}
import (
{{range .Imports}}	{{printf "%q" .}}
{{end}})
{{end}}{{range .Bodies}}{{.}}{{end}}`))
