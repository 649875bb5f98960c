package decl

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// CurrentVersion is the declaration file version written by this tool.
const CurrentVersion = "1"

// File is a loaded declaration file.
type File struct {
	Path         string
	Version      string
	Package      string
	Imports      []string
	Declarations []Declaration
}

// LoadFile loads, parses and validates a YAML declaration file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read declaration file %s", path)
	}

	f, err := parse(data, path)
	if err != nil {
		return nil, err
	}

	return f, nil
}

// Parse parses and validates YAML declaration data.
func Parse(data []byte) (*File, error) {
	return parse(data, "")
}

func parse(data []byte, path string) (*File, error) {
	var yf yamlFile
	if err := yaml.Unmarshal(data, &yf); err != nil {
		return nil, errors.Wrap(err, "failed to parse declaration YAML")
	}

	f := &File{
		Path:    path,
		Version: yf.Version,
		Package: yf.Package,
		Imports: yf.Imports,
	}

	var errs []error

	for i := range yf.Declarations {
		d, err := convertDeclaration(&yf.Declarations[i], path)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		f.Declarations = append(f.Declarations, *d)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	applyDefaults(f)

	if err := Validate(f); err != nil {
		return nil, err
	}

	return f, nil
}

// applyDefaults fills in default values for optional attributes.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = CurrentVersion
	}

	for i := range f.Declarations {
		d := &f.Declarations[i]
		d.Imports = append(append([]string{}, f.Imports...), d.Imports...)
		d.Normalize()
	}
}

func convertDeclaration(yd *yamlDeclaration, path string) (*Declaration, error) {
	pos := Position{File: path, Line: yd.line, Column: yd.column}

	kind, err := ParseKind(yd.Kind)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: declaration %s", pos, yd.Name)
	}

	repr, err := ParseRepr(yd.Repr)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: declaration %s", pos, yd.Name)
	}

	d := &Declaration{
		Name:    yd.Name,
		Kind:    kind,
		Repr:    repr,
		Derives: yd.Derive,
		Imports: yd.Imports,
		Pos:     pos,
	}

	for _, tp := range yd.TypeParams {
		d.TypeParams = append(d.TypeParams, TypeParam(tp))
	}

	d.Fields, err = convertFields(yd.Fields, path)
	if err != nil {
		return nil, errors.Wrapf(err, "declaration %s", yd.Name)
	}

	for i := range yd.Variants {
		v, err := convertVariant(&yd.Variants[i], path)
		if err != nil {
			return nil, errors.Wrapf(err, "declaration %s", yd.Name)
		}

		d.Variants = append(d.Variants, *v)
	}

	return d, nil
}

func convertVariant(yv *yamlVariant, path string) (*Variant, error) {
	pos := Position{File: path, Line: yv.line, Column: yv.column}

	fields, err := convertFields(yv.Fields, path)
	if err != nil {
		return nil, errors.Wrapf(err, "variant %s", yv.Name)
	}

	payload, err := ParsePayload(yv.Payload)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: variant %s", pos, yv.Name)
	}

	// An omitted payload is inferred from the fields.
	if yv.Payload == "" && len(fields) > 0 {
		payload = PayloadNamed
		if fields[0].IsPositional() {
			payload = PayloadPositional
		}
	}

	annotations, err := convertAnnotations(yv.Annotations, path)
	if err != nil {
		return nil, err
	}

	return &Variant{
		Name:        yv.Name,
		TypeName:    yv.TypeName,
		Payload:     payload,
		Fields:      fields,
		Annotations: annotations,
		Pos:         pos,
	}, nil
}

func convertFields(yfs []yamlField, path string) ([]Field, error) {
	fields := make([]Field, 0, len(yfs))

	for _, yf := range yfs {
		annotations, err := convertAnnotations(yf.Annotations, path)
		if err != nil {
			return nil, err
		}

		fields = append(fields, Field{
			Name:        yf.Name,
			Selector:    yf.Selector,
			Type:        yf.Type,
			Underlying:  yf.Underlying,
			Annotations: annotations,
			Pos:         Position{File: path, Line: yf.line, Column: yf.column},
		})
	}

	return fields, nil
}

func convertAnnotations(yas []yamlAnnotation, path string) ([]Annotation, error) {
	var out []Annotation

	for _, ya := range yas {
		a, err := ParseAnnotation(ya.text, Position{File: path, Line: ya.line, Column: ya.column})
		if err != nil {
			return nil, err
		}

		out = append(out, a)
	}

	return out, nil
}

// Validate checks the structural consistency of every declaration in the file.
func Validate(f *File) error {
	var errs []error

	seen := make(map[string]bool)

	for i := range f.Declarations {
		d := &f.Declarations[i]

		if d.Name == "" {
			errs = append(errs, errors.Newf("%s: declaration without a name", d.Pos))
			continue
		}

		if seen[d.Name] {
			errs = append(errs, errors.Newf("%s: duplicate declaration %s", d.Pos, d.Name))
		}

		seen[d.Name] = true

		errs = append(errs, validateDeclaration(d)...)
	}

	return errors.Join(errs...)
}

func validateDeclaration(d *Declaration) []error {
	var errs []error

	switch d.Kind {
	case KindRecord:
		if len(d.Variants) > 0 {
			errs = append(errs, errors.Newf("%s: record %s must not declare variants", d.Pos, d.Name))
		}

		if err := validateFieldShape(d.Fields); err != nil {
			errs = append(errs, errors.Wrapf(err, "%s: record %s", d.Pos, d.Name))
		}

	case KindTaggedUnion:
		if len(d.Fields) > 0 {
			errs = append(errs, errors.Newf("%s: tagged union %s must not declare fields", d.Pos, d.Name))
		}

		names := make(map[string]bool)

		for i := range d.Variants {
			v := &d.Variants[i]
			if v.Name == "" {
				errs = append(errs, errors.Newf("%s: variant without a name in %s", v.Pos, d.Name))
				continue
			}

			if names[v.Name] {
				errs = append(errs, errors.Newf("%s: duplicate variant %s.%s", v.Pos, d.Name, v.Name))
			}

			names[v.Name] = true

			if err := validateVariant(v); err != nil {
				errs = append(errs, errors.Wrapf(err, "%s: variant %s.%s", v.Pos, d.Name, v.Name))
			}
		}

	case KindUnion, KindUnsupported:
		// Accepted as input; the derivation core rejects them.
	}

	for i := range d.Fields {
		if d.Fields[i].Type == "" {
			errs = append(errs, errors.Newf("%s: field %d of %s has no type", d.Fields[i].Pos, i, d.Name))
		}
	}

	return errs
}

func validateVariant(v *Variant) error {
	switch v.Payload {
	case PayloadNone:
		if len(v.Fields) > 0 {
			return errors.New("unit variant must not declare fields")
		}

	case PayloadPositional:
		for i := range v.Fields {
			if !v.Fields[i].IsPositional() {
				return errors.Newf("positional payload has named field %s", v.Fields[i].Name)
			}
		}

	case PayloadNamed:
		for i := range v.Fields {
			if v.Fields[i].IsPositional() {
				return errors.Newf("named payload has unnamed field %d", i)
			}
		}
	}

	return nil
}

func validateFieldShape(fields []Field) error {
	named, positional := 0, 0

	for i := range fields {
		if fields[i].IsPositional() {
			positional++
		} else {
			named++
		}
	}

	if named > 0 && positional > 0 {
		return errors.New("mixes named and positional fields")
	}

	return nil
}

// Marshal serializes declarations back to the YAML file format.
func Marshal(f *File) ([]byte, error) {
	yf := yamlFile{
		Version: f.Version,
		Package: f.Package,
		Imports: f.Imports,
	}

	for i := range f.Declarations {
		yf.Declarations = append(yf.Declarations, toYAMLDeclaration(&f.Declarations[i]))
	}

	return yaml.Marshal(&yf)
}

func toYAMLDeclaration(d *Declaration) yamlDeclaration {
	yd := yamlDeclaration{
		Name:   d.Name,
		Kind:   d.Kind.String(),
		Derive: d.Derives,
		Fields: toYAMLFields(d.Fields),
	}

	if d.Kind == KindTaggedUnion {
		yd.Repr = d.Repr.String()
	}

	for _, tp := range d.TypeParams {
		yd.TypeParams = append(yd.TypeParams, yamlTypeParam(tp))
	}

	for i := range d.Variants {
		v := &d.Variants[i]
		yd.Variants = append(yd.Variants, yamlVariant{
			Name:        v.Name,
			TypeName:    v.TypeName,
			Payload:     v.Payload.String(),
			Fields:      toYAMLFields(v.Fields),
			Annotations: toYAMLAnnotations(v.Annotations),
		})
	}

	return yd
}

func toYAMLFields(fields []Field) []yamlField {
	var out []yamlField

	for i := range fields {
		f := &fields[i]
		out = append(out, yamlField{
			Name:        f.Name,
			Selector:    f.Selector,
			Type:        f.Type,
			Underlying:  f.Underlying,
			Annotations: toYAMLAnnotations(f.Annotations),
		})
	}

	return out
}

func toYAMLAnnotations(as []Annotation) []yamlAnnotation {
	var out []yamlAnnotation
	for _, a := range as {
		out = append(out, yamlAnnotation{text: a.String()})
	}

	return out
}
