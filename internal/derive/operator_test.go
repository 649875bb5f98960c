package derive

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"derive-generator/internal/decl"
	"derive-generator/internal/diagnostic"
)

func mixed() *decl.Declaration {
	d := record("Sample",
		field("I", "int64"),
		field("F", "float64"),
		field("S", "string"),
		field("B", "bool"),
		field("V", "Vec"),
		field("C", "Celsius"),
	)
	d.Fields[5].Underlying = "float64"

	return d
}

func TestExpandOperator_Record(t *testing.T) {
	t.Parallel()

	tests := []struct {
		trait string
		want  []string
	}{
		{
			trait: TraitAdd,
			want: []string{
				"return Sample{",
				"\tI: l.I + r.I,",
				"\tF: l.F + r.F,",
				"\tS: l.S + r.S,",
				"\tB: l.B.Add(r.B),",
				"\tV: l.V.Add(r.V),",
				"\tC: l.C + r.C,",
				"}",
			},
		},
		{
			trait: TraitSub,
			want: []string{
				"return Sample{",
				"\tI: l.I - r.I,",
				"\tF: l.F - r.F,",
				"\tS: l.S.Sub(r.S),",
				"\tB: l.B.Sub(r.B),",
				"\tV: l.V.Sub(r.V),",
				"\tC: l.C - r.C,",
				"}",
			},
		},
		{
			trait: TraitBitAnd,
			want: []string{
				"return Sample{",
				"\tI: l.I & r.I,",
				"\tF: l.F.BitAnd(r.F),",
				"\tS: l.S.BitAnd(r.S),",
				"\tB: l.B && r.B,",
				"\tV: l.V.BitAnd(r.V),",
				"\tC: l.C.BitAnd(r.C),",
				"}",
			},
		},
		{
			trait: TraitBitOr,
			want: []string{
				"return Sample{",
				"\tI: l.I | r.I,",
				"\tF: l.F.BitOr(r.F),",
				"\tS: l.S.BitOr(r.S),",
				"\tB: l.B || r.B,",
				"\tV: l.V.BitOr(r.V),",
				"\tC: l.C.BitOr(r.C),",
				"}",
			},
		},
		{
			trait: TraitBitXor,
			want: []string{
				"return Sample{",
				"\tI: l.I ^ r.I,",
				"\tF: l.F.BitXor(r.F),",
				"\tS: l.S.BitXor(r.S),",
				"\tB: l.B != r.B,",
				"\tV: l.V.BitXor(r.V),",
				"\tC: l.C.BitXor(r.C),",
				"}",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.trait, func(t *testing.T) {
			t.Parallel()

			frag, err := Expand(mixed(), tt.trait, DefaultOptions())
			require.NoError(t, err)

			assert.Equal(t, tt.want, frag.Method.Body)
			assert.Equal(t, tt.trait, frag.Method.Name)
			assert.Equal(t, "(l Sample)", frag.Method.Receiver)
			assert.Equal(t, "r Sample", frag.Method.Params)
			assert.Equal(t, "Sample", frag.Method.Results)
			assert.Empty(t, frag.Imports)
		})
	}
}

func TestExpandOperator_PositionalRecord(t *testing.T) {
	t.Parallel()

	frag, err := Expand(record("Pair", field("", "int"), field("", "Vec")), TraitSub, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"return Pair{l.F0 - r.F0, l.F1.Sub(r.F1)}"}, frag.Method.Body)
}

func TestExpandOperator_TypeParam(t *testing.T) {
	t.Parallel()

	d := record("Box", field("V", "T"), field("W", "[]T"))
	d.TypeParams = []decl.TypeParam{{Name: "T", Constraint: "Number"}}

	frag, err := Expand(d, TraitAdd, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "(l Box[T])", frag.Method.Receiver)
	assert.Equal(t, []string{
		"return Box[T]{",
		"\tV: l.V + r.V,",
		"\tW: l.W.Add(r.W),",
		"}",
	}, frag.Method.Body)
}

func shapeUnion() *decl.Declaration {
	d := union("Shape", decl.ReprSealed, variant("Circle"), variant("Rect"), variant("Empty"))
	d.Variants[0].Payload = decl.PayloadNamed
	d.Variants[0].Fields = []decl.Field{field("Radius", "float64")}
	d.Variants[1].Payload = decl.PayloadPositional
	d.Variants[1].Fields = []decl.Field{field("", "int"), field("", "int")}
	d.Normalize()

	return d
}

func TestExpandOperator_SealedUnion(t *testing.T) {
	t.Parallel()

	frag, err := Expand(shapeUnion(), TraitAdd, DefaultOptions())
	require.NoError(t, err)

	assert.True(t, frag.Method.IsFunc())
	assert.Equal(t, "AddShape", frag.Method.Name)
	assert.Equal(t, "l, r Shape", frag.Method.Params)
	assert.Equal(t, "(Shape, error)", frag.Method.Results)
	assert.Equal(t, []string{
		"switch l := l.(type) {",
		"case ShapeCircle:",
		"\tif r, ok := r.(ShapeCircle); ok {",
		"\t\treturn ShapeCircle{",
		"\t\t\tRadius: l.Radius + r.Radius,",
		"\t\t}, nil",
		"\t}",
		"case ShapeRect:",
		"\tif r, ok := r.(ShapeRect); ok {",
		"\t\treturn ShapeRect{l.F0 + r.F0, l.F1 + r.F1}, nil",
		"\t}",
		"case ShapeEmpty:",
		"\tif _, ok := r.(ShapeEmpty); ok {",
		`		return nil, deriving.CannotCombineUnit("add", "Shape", "Empty")`,
		"\t}",
		"default:",
		`	return nil, deriving.InvalidVariant("add", "Shape")`,
		"}",
		"",
		`return nil, deriving.MismatchedVariants("add", "Shape")`,
	}, frag.Method.Body)
	assert.Equal(t, []string{DefaultRuntimeImport}, frag.Imports)
	assert.Equal(t, []string{"AddShape"}, frag.Symbols())
}

func TestExpandOperator_SingleVariant(t *testing.T) {
	t.Parallel()

	d := union("Wrapper", decl.ReprSealed, variant("Only"))

	frag, err := Expand(d, TraitBitOr, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"switch l.(type) {",
		"case WrapperOnly:",
		"\tif _, ok := r.(WrapperOnly); ok {",
		`		return nil, deriving.CannotCombineUnit("bitor", "Wrapper", "Only")`,
		"\t}",
		"}",
		"",
		`return nil, deriving.InvalidVariant("bitor", "Wrapper")`,
	}, frag.Method.Body)
}

func TestExpandOperator_GenericSealedUnion(t *testing.T) {
	t.Parallel()

	d := union("Option", decl.ReprSealed, variant("None"), variant("Some"))
	d.TypeParams = []decl.TypeParam{{Name: "T", Constraint: "Number"}}
	d.Variants[1].Payload = decl.PayloadPositional
	d.Variants[1].Fields = []decl.Field{field("", "T")}
	d.Normalize()

	frag, err := Expand(d, TraitSub, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "SubOption", frag.Method.Name)
	assert.Equal(t, "[T Number]", frag.Method.TypeParams)
	assert.Equal(t, "l, r Option[T]", frag.Method.Params)
	assert.Contains(t, frag.Method.Body, "case OptionSome[T]:")
	assert.Contains(t, frag.Method.Body, "\t\treturn OptionSome[T]{l.F0 - r.F0}, nil")
}

func TestExpandOperator_EnumUnion(t *testing.T) {
	t.Parallel()

	d := union("Color", decl.ReprEnum, variant("Red"), variant("Green"))

	frag, err := Expand(d, TraitBitXor, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "(l Color)", frag.Method.Receiver)
	assert.Equal(t, "BitXor", frag.Method.Name)
	assert.Equal(t, "(out Color, err error)", frag.Method.Results)
	assert.Equal(t, []string{
		"switch {",
		"case l == ColorRed:",
		"\tif r == ColorRed {",
		`		return out, deriving.CannotCombineUnit("bitxor", "Color", "Red")`,
		"\t}",
		"case l == ColorGreen:",
		"\tif r == ColorGreen {",
		`		return out, deriving.CannotCombineUnit("bitxor", "Color", "Green")`,
		"\t}",
		"default:",
		`	return out, deriving.InvalidVariant("bitxor", "Color")`,
		"}",
		"",
		`return out, deriving.MismatchedVariants("bitxor", "Color")`,
	}, frag.Method.Body)
}

func TestExpandOperator_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := Expand(&decl.Declaration{Name: "Bits", Kind: decl.KindUnion, Pos: testPos}, TraitAdd, DefaultOptions())
	require.Error(t, err)

	var shapeErr *diagnostic.UnsupportedShapeError
	require.True(t, errors.As(err, &shapeErr))
	assert.Equal(t, TraitAdd, shapeErr.Trait)
}

func TestExpandOperator_RenderSealed(t *testing.T) {
	t.Parallel()

	frag, err := Expand(shapeUnion(), TraitAdd, DefaultOptions())
	require.NoError(t, err)

	want := `package p

// AddShape combines two Shape values holding the same variant.
func AddShape(l, r Shape) (Shape, error) {
	switch l := l.(type) {
	case ShapeCircle:
		if r, ok := r.(ShapeCircle); ok {
			return ShapeCircle{
				Radius: l.Radius + r.Radius,
			}, nil
		}
	case ShapeRect:
		if r, ok := r.(ShapeRect); ok {
			return ShapeRect{l.F0 + r.F0, l.F1 + r.F1}, nil
		}
	case ShapeEmpty:
		if _, ok := r.(ShapeEmpty); ok {
			return nil, deriving.CannotCombineUnit("add", "Shape", "Empty")
		}
	default:
		return nil, deriving.InvalidVariant("add", "Shape")
	}

	return nil, deriving.MismatchedVariants("add", "Shape")
}
`
	assert.Equal(t, want, renderFile(t, frag))
}
