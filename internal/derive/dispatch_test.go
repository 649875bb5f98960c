package derive

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"derive-generator/internal/decl"
	"derive-generator/internal/diagnostic"
)

func TestExpand_UnknownTrait(t *testing.T) {
	t.Parallel()

	_, err := Expand(record("Point", field("X", "int")), "Mul", DefaultOptions())
	require.Error(t, err)

	var unknown *diagnostic.UnknownTraitError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "Mul", unknown.Trait)
	assert.Equal(t, "Point", unknown.TypeName)
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestIsTrait(t *testing.T) {
	t.Parallel()

	for _, trait := range Traits {
		assert.True(t, IsTrait(trait), trait)
	}

	assert.False(t, IsTrait("Mul"))
	assert.False(t, IsTrait("default"))
}

func TestExpandAll(t *testing.T) {
	t.Parallel()

	d := record("Point", field("X", "int", "default(value=1)"), field("Y", "int"))
	d.Derives = []string{TraitSub, TraitDefault, TraitAdd}

	frags, err := ExpandAll(d, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, frags, 3)
	assert.Equal(t, TraitSub, frags[0].Trait)
	assert.Equal(t, TraitDefault, frags[1].Trait)
	assert.Equal(t, TraitAdd, frags[2].Trait)
}

func TestExpandAll_FirstErrorAborts(t *testing.T) {
	t.Parallel()

	d := union("Shape", decl.ReprSealed, variant("Circle"), variant("Empty"))
	d.Derives = []string{TraitAdd, TraitDefault, TraitSub}

	frags, err := ExpandAll(d, DefaultOptions())
	require.Error(t, err)
	assert.Nil(t, frags)
	assert.Contains(t, err.Error(), "deriving Default for Shape")

	var shapeErr *diagnostic.UnsupportedShapeError
	assert.True(t, errors.As(err, &shapeErr))
}

func TestExpand_Deterministic(t *testing.T) {
	t.Parallel()

	build := func() *decl.Declaration {
		d := record("Config",
			field("Host", "Host", `default(value="localhost", constant, function)`),
			field("Port", "int", "default(value=8080, function)"),
			field("Tags", "map[string]string"),
			field("Limit", "Limit"),
		)
		d.Imports = []string{"net/url"}
		d.Derives = []string{TraitDefault, TraitAdd}

		return d
	}

	render := func() string {
		frags, err := ExpandAll(build(), DefaultOptions())
		require.NoError(t, err)

		return renderFile(t, frags...)
	}

	first := render()
	for range 5 {
		assert.Equal(t, first, render())
	}
}

func TestBuildFieldDescriptors(t *testing.T) {
	t.Parallel()

	d := record("Point",
		field("X", "int"),
		field("Y", "Host", `default(value="h", constant=HOST)`),
	)

	descs, err := BuildFieldDescriptors(d, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, descs, 2)

	assert.Equal(t, FieldDescriptor{
		Ident: "X", Index: 0, Selector: "X", Type: "int", Value: "0", ConstValue: true, Pos: testPos,
	}, descs[0])
	assert.Equal(t, FieldDescriptor{
		Ident: "Y", Index: 1, Selector: "Y", Type: "Host", Value: `Host("h")`, Constant: "HOST", Pos: testPos,
	}, descs[1])
}

func TestBuildVariantDescriptor(t *testing.T) {
	t.Parallel()

	d := union("Shape", decl.ReprSealed, variant("Circle"), variant("Empty", "default(function=emptyShape)"))

	fd, err := BuildVariantDescriptor(d, 1, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "Empty", fd.Ident)
	assert.Equal(t, "Shape", fd.Type)
	assert.Equal(t, "ShapeEmpty{}", fd.Value)
	assert.Equal(t, "emptyShape", fd.Function)
	assert.Empty(t, fd.Constant)
}

func TestExpand_UnknownTraitSuggestion(t *testing.T) {
	t.Parallel()

	_, err := Expand(record("Point", field("X", "int")), "bitand", DefaultOptions())
	require.Error(t, err)
	assert.Equal(t, []string{"did you mean BitAnd?", "supported traits: [Default Add Sub BitAnd BitOr BitXor]"}, errors.GetAllHints(err))
}
