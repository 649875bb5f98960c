package derive

import (
	"go/format"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"derive-generator/internal/decl"
)

var testPos = decl.Position{File: "types.go", Line: 10, Column: 6}

func ann(text string) decl.Annotation {
	a, err := decl.ParseAnnotation(text, testPos)
	if err != nil {
		panic(err)
	}

	return a
}

func field(name, typ string, annotations ...string) decl.Field {
	f := decl.Field{Name: name, Type: typ}
	for _, text := range annotations {
		f.Annotations = append(f.Annotations, ann(text))
	}

	return f
}

func record(name string, fields ...decl.Field) *decl.Declaration {
	d := &decl.Declaration{Name: name, Kind: decl.KindRecord, Fields: fields, Pos: testPos}
	d.Normalize()

	return d
}

func variant(name string, annotations ...string) decl.Variant {
	v := decl.Variant{Name: name}
	for _, text := range annotations {
		v.Annotations = append(v.Annotations, ann(text))
	}

	return v
}

func union(name string, repr decl.Repr, variants ...decl.Variant) *decl.Declaration {
	d := &decl.Declaration{Name: name, Kind: decl.KindTaggedUnion, Repr: repr, Variants: variants, Pos: testPos}
	d.Normalize()

	return d
}

// renderFile renders frags into a formatted file body for assertions.
func renderFile(t *testing.T, frags ...*Fragment) string {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("package p\n")

	for _, f := range frags {
		src, err := f.Render()
		require.NoError(t, err)
		sb.WriteString(src)
	}

	out, err := format.Source([]byte(sb.String()))
	require.NoError(t, err, sb.String())

	return string(out)
}
