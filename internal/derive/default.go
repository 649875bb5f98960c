package derive

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"derive-generator/internal/decl"
	"derive-generator/internal/diagnostic"
)

// expandDefault generates the Default implementation of d.
func expandDefault(d *decl.Declaration, opts Options) (*Fragment, error) {
	shape, idx, err := SelectDefaultShape(d)
	if err != nil {
		return nil, err
	}

	b := newBuilder(d, opts)

	var descs []FieldDescriptor

	if shape == ShapeDefaultVariant {
		fd, err := b.variantDescriptor(idx)
		if err != nil {
			return nil, err
		}

		descs = []FieldDescriptor{fd}
	} else {
		descs, err = b.fieldDescriptors(d.Fields)
		if err != nil {
			return nil, err
		}
	}

	frag := &Fragment{TypeName: d.Name, Trait: TraitDefault}

	if err := b.secondaries(frag, descs); err != nil {
		return nil, err
	}

	switch shape {
	case ShapeNamedRecord:
		frag.Method = b.defaultMethod(b.namedLiteral(descs))
	case ShapePositionalRecord:
		frag.Method = b.defaultMethod(b.positionalLiteral(descs))
	case ShapeDefaultVariant:
		frag.Method = b.variantDefault(frag, &descs[0])
	case ShapeVariantMatch:
		return nil, errors.AssertionFailedf("shape %s is not a Default shape", shape)
	}

	b.finish(frag)

	return frag, nil
}

// secondaries emits the requested package-level constants and functions.
func (b *builder) secondaries(frag *Fragment, descs []FieldDescriptor) error {
	for i := range descs {
		fd := &descs[i]
		subject := b.subject(fd)

		if fd.Constant != "" {
			if mentionsTypeParam(b.d, fd.Type) {
				return errors.WithHint(errors.WithStack(&diagnostic.UnsupportedShapeError{
					TypeName: b.d.Name,
					Trait:    TraitDefault,
					Reason:   fmt.Sprintf("constant %s has type %s, which depends on a type parameter", fd.Constant, fd.Type),
					Pos:      fd.Pos,
				}), "request function instead of constant for generic types")
			}

			frag.Values = append(frag.Values, ValueDecl{
				Doc:   fmt.Sprintf("%s is the default value of %s.", fd.Constant, subject),
				Name:  fd.Constant,
				Type:  fd.Type,
				Value: fd.Value,
				Const: fd.ConstValue,
			})
		}

		if fd.Function != "" {
			fn := FuncDecl{
				Doc:    fmt.Sprintf("%s returns the default value of %s.", fd.Function, subject),
				Name:   fd.Function,
				Result: fd.Type,
				Body:   fd.Value,
			}

			if fd.Constant != "" {
				fn.Body = fd.Constant
			}

			if b.genericFunc(fd) {
				fn.TypeParams = b.d.TypeParamList()
			}

			frag.Funcs = append(frag.Funcs, fn)
		}
	}

	return nil
}

// valueRef is the expression the trait body uses for fd: the constant, else
// a call to the function, else the inline value.
func (b *builder) valueRef(fd *FieldDescriptor) string {
	switch {
	case fd.Constant != "":
		return fd.Constant
	case fd.Function != "":
		if b.genericFunc(fd) {
			return fd.Function + b.d.TypeArgs() + "()"
		}

		return fd.Function + "()"
	default:
		return fd.Value
	}
}

func (b *builder) genericFunc(fd *FieldDescriptor) bool {
	return mentionsTypeParam(b.d, fd.Type)
}

func (b *builder) subject(fd *FieldDescriptor) string {
	if b.d.Kind == decl.KindTaggedUnion {
		return b.d.Name
	}

	return b.d.Name + "." + fd.Key()
}

func (b *builder) namedLiteral(descs []FieldDescriptor) []string {
	ref := b.d.TypeRef()
	if len(descs) == 0 {
		return []string{"return " + ref + "{}"}
	}

	lines := make([]string, 0, len(descs)+2)
	lines = append(lines, "return "+ref+"{")

	for i := range descs {
		lines = append(lines, "\t"+descs[i].Selector+": "+b.valueRef(&descs[i])+",")
	}

	return append(lines, "}")
}

func (b *builder) positionalLiteral(descs []FieldDescriptor) []string {
	values := make([]string, len(descs))
	for i := range descs {
		values[i] = b.valueRef(&descs[i])
	}

	return []string{"return " + b.d.TypeRef() + "{" + strings.Join(values, ", ") + "}"}
}

func (b *builder) defaultMethod(body []string) Method {
	return Method{
		Doc:      fmt.Sprintf("Default returns the default %s.", b.d.Name),
		Receiver: "(" + b.d.TypeRef() + ")",
		Name:     "Default",
		Results:  b.d.TypeRef(),
		Body:     body,
	}
}

// variantDefault returns the designated variant. Sealed unions get a package
// function, registered with the runtime so deriving.Default finds it.
func (b *builder) variantDefault(frag *Fragment, fd *FieldDescriptor) Method {
	body := []string{"return " + b.valueRef(fd)}

	if b.d.Repr == decl.ReprEnum {
		return b.defaultMethod(body)
	}

	m := Method{
		Doc:        fmt.Sprintf("Default%s returns the default %s.", b.d.Name, b.d.Name),
		Name:       "Default" + b.d.Name,
		TypeParams: b.d.TypeParamList(),
		Results:    b.d.TypeRef(),
		Body:       body,
	}

	// Generic functions cannot be registered without instantiation.
	if len(b.d.TypeParams) == 0 {
		b.usesRuntime = true
		frag.Inits = append(frag.Inits, b.rt+".Register("+m.Name+")")
	}

	return m
}

// finish attaches imports and warnings collected while building.
func (b *builder) finish(frag *Fragment) {
	frag.Imports = append(frag.Imports, b.d.Imports...)
	if b.usesRuntime {
		frag.Imports = append(frag.Imports, b.opts.runtimeImport())
	}

	frag.Warnings = append(frag.Warnings, b.warnings...)
}
