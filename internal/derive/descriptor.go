package derive

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"

	"derive-generator/internal/annotation"
	"derive-generator/internal/common"
	"derive-generator/internal/decl"
	"derive-generator/internal/diagnostic"
	"derive-generator/internal/suggest"
)

// DefaultRuntimeImport is the import path of the runtime package referenced
// by generated code.
const DefaultRuntimeImport = "derive-generator/deriving"

// Options tunes expansion.
type Options struct {
	// RuntimeImport is the import path of the deriving runtime package.
	RuntimeImport string
	// StrictAnnotations turns unknown annotation keys into errors.
	StrictAnnotations bool
}

// DefaultOptions returns the default expansion options.
func DefaultOptions() Options {
	return Options{RuntimeImport: DefaultRuntimeImport}
}

func (o Options) runtimeImport() string {
	if o.RuntimeImport == "" {
		return DefaultRuntimeImport
	}

	return o.RuntimeImport
}

// FieldDescriptor is the canonical unit consumed by the emitters: one per
// record field, or one for the designated default variant.
type FieldDescriptor struct {
	Ident      string // field or variant name; empty for positional fields
	Index      int
	Selector   string
	Type       string
	Value      string // default value expression
	ConstValue bool   // Value is a constant expression of a basic type
	Constant   string // secondary constant name; empty when not requested
	Function   string // secondary function name; empty when not requested
	Pos        decl.Position
}

// Key returns the identifier, or the index for positional fields.
func (f *FieldDescriptor) Key() string {
	if f.Ident == "" {
		return strconv.Itoa(f.Index)
	}

	return f.Ident
}

// builder accumulates the per-declaration state of one expansion.
type builder struct {
	d           *decl.Declaration
	opts        Options
	rt          string // runtime package name
	usesRuntime bool
	warnings    []diagnostic.Diagnostic
}

func newBuilder(d *decl.Declaration, opts Options) *builder {
	return &builder{
		d:    d,
		opts: opts,
		rt:   common.PkgAlias(opts.runtimeImport()),
	}
}

// BuildFieldDescriptors builds one descriptor per field, in source order.
func BuildFieldDescriptors(d *decl.Declaration, opts Options) ([]FieldDescriptor, error) {
	return newBuilder(d, opts).fieldDescriptors(d.Fields)
}

func (b *builder) fieldDescriptors(fields []decl.Field) ([]FieldDescriptor, error) {
	out := make([]FieldDescriptor, 0, len(fields))

	for i := range fields {
		fd, err := b.fieldDescriptor(&fields[i], i)
		if err != nil {
			return nil, err
		}

		out = append(out, fd)
	}

	return out, nil
}

func (b *builder) fieldDescriptor(f *decl.Field, index int) (FieldDescriptor, error) {
	fd := FieldDescriptor{
		Ident:    f.Name,
		Index:    index,
		Selector: f.Selector,
		Type:     f.Type,
		Pos:      f.Pos,
	}
	fd.Value, fd.ConstValue = b.zeroValue(f)

	a, err := annotation.Find(DefaultKeyword, f.Annotations)
	if err != nil {
		return fd, errors.Wrapf(err, "field %s.%s", b.d.Name, fd.Key())
	}

	if a == nil {
		return fd, nil
	}

	spec, err := annotation.ParseArgs(a)
	if err != nil {
		return fd, errors.Wrapf(err, "field %s.%s", b.d.Name, fd.Key())
	}

	if err := b.checkUnknown(spec, a, fd.Key()); err != nil {
		return fd, err
	}

	if spec.HasValue() {
		fd.Value = spec.Value
		if isStringLiteral(spec.ValueExpr) {
			fd.Value = convertLiteral(f.Type, spec.Value)
		}

		fd.ConstValue = isBasicType(f.Type) && isConstExpr(spec.ValueExpr)
	}

	if spec.Constant.Requested {
		fd.Constant = spec.Constant.Name(func() string { return ConstantName(f.Name, index) })
	}

	if spec.Function.Requested {
		fd.Function = spec.Function.Name(func() string { return FunctionName(f.Name, index) })
	}

	return fd, nil
}

// BuildVariantDescriptor builds the descriptor of the designated default
// variant at index idx. Its type is the declaration itself and its value is
// the variant, unless the annotation overrides it.
func BuildVariantDescriptor(d *decl.Declaration, idx int, opts Options) (FieldDescriptor, error) {
	return newBuilder(d, opts).variantDescriptor(idx)
}

func (b *builder) variantDescriptor(idx int) (FieldDescriptor, error) {
	v := &b.d.Variants[idx]

	fd := FieldDescriptor{
		Ident:      v.Name,
		Index:      idx,
		Type:       b.d.TypeRef(),
		Value:      variantValue(b.d, v),
		ConstValue: b.d.Repr == decl.ReprEnum,
		Pos:        v.Pos,
	}

	a, err := annotation.Find(DefaultKeyword, v.Annotations)
	if err != nil {
		return fd, errors.Wrapf(err, "variant %s.%s", b.d.Name, v.Name)
	}

	spec, err := annotation.ParseArgs(a)
	if err != nil {
		return fd, errors.Wrapf(err, "variant %s.%s", b.d.Name, v.Name)
	}

	if a != nil {
		if err := b.checkUnknown(spec, a, v.Name); err != nil {
			return fd, err
		}
	}

	if spec.HasValue() {
		fd.Value = spec.Value
		if isStringLiteral(spec.ValueExpr) {
			fd.Value = convertLiteral(fd.Type, spec.Value)
		}

		fd.ConstValue = false
	}

	if spec.Constant.Requested {
		fd.Constant = spec.Constant.Name(func() string { return ConstantName(v.Name, idx) })
	}

	if spec.Function.Requested {
		fd.Function = spec.Function.Name(func() string { return FunctionName(v.Name, idx) })
	}

	return fd, nil
}

// variantValue is the qualified expression of a variant without payload.
func variantValue(d *decl.Declaration, v *decl.Variant) string {
	if d.Repr == decl.ReprEnum {
		return v.TypeName
	}

	return v.TypeName + d.TypeArgs() + "{}"
}

// zeroValue is the zero-value protocol for a field: literal zero values for
// predeclared types, nil for nil-able type literals, and the runtime Default
// otherwise.
func (b *builder) zeroValue(f *decl.Field) (string, bool) {
	switch basicTypes[f.Type] {
	case classBool:
		return "false", true
	case classString:
		return `""`, true
	case classInteger, classFloat:
		return "0", true
	case classOther, classTypeParam:
	}

	if hasNilZero(f.Type) {
		return "nil", false
	}

	b.usesRuntime = true

	return b.rt + ".Default[" + f.Type + "]()", false
}

// checkUnknown reports annotation items outside the recognized key set.
func (b *builder) checkUnknown(spec *annotation.Spec, a *decl.Annotation, key string) error {
	for _, item := range spec.Unknown {
		var hints []string
		if hint := suggest.Hint(annotation.ItemKey(item), annotation.Keys); hint != "" {
			hints = append(hints, hint)
		}

		if b.opts.StrictAnnotations {
			err := errors.WithStack(&diagnostic.AnnotationSyntaxError{
				Keyword: a.Keyword,
				Item:    item,
				Reason:  "unknown key",
				Pos:     a.Pos,
			})
			for _, h := range hints {
				err = errors.WithHint(err, h)
			}

			return err
		}

		b.warnings = append(b.warnings, diagnostic.Diagnostic{
			Severity:  diagnostic.DiagnosticWarning,
			Code:      diagnostic.CodeUnknownKey,
			Message:   fmt.Sprintf("ignoring unknown key %q in %s annotation", item, a.Keyword),
			Pos:       a.Pos,
			TypeName:  b.d.Name,
			FieldPath: key,
			Hints:     hints,
		})
	}

	return nil
}
