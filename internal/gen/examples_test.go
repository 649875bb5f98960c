package gen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"derive-generator/internal/analyze"
)

// TestExamplesUpToDate regenerates the examples in memory and compares them
// with the committed files.
func TestExamplesUpToDate(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages with the go command")
	}

	a := &analyze.Analyzer{Dir: filepath.Join("..", ".."), Output: DefaultFilename}

	pkgs, err := a.LoadPackages(context.Background(), "./examples/geometry")
	require.NoError(t, err)
	require.Len(t, pkgs, 1)

	units := make([]Unit, 0, len(pkgs))
	for _, p := range pkgs {
		units = append(units, UnitFromPackage(p))
	}

	files, diags := NewGenerator(DefaultGeneratorConfig()).Generate(units)
	require.True(t, diags.IsValid(), diags.Error())
	assert.Empty(t, diags.Warnings)
	require.Len(t, files, 1)

	committed, err := os.ReadFile(files[0].Path)
	require.NoError(t, err)
	assert.Equal(t, string(committed), string(files[0].Content))

	stale, err := Check(files)
	require.NoError(t, err)
	assert.Empty(t, stale)
}
