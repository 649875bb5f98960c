package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Commands replace the global logger, so these tests run sequentially.

const pointDecls = `version: "1"
package: geo
declarations:
  - name: Point
    kind: record
    derive: [Default, Add]
    fields:
      - name: X
        type: int
        annotations: ["default(value=1, constant)"]
      - name: Y
        type: float64
`

const brokenDecls = `package: geo
declarations:
  - name: Point
    kind: record
    derive: Default
    fields:
      - name: X
        type: int
  - name: Shape
    kind: tagged-union
    derive: Default
    variants:
      - name: A
      - name: B
`

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())

	return stdout.String(), stderr.String(), err
}

func writeDecls(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "types.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestGen_Decls(t *testing.T) {
	decls := writeDecls(t, pointDecls)
	out := filepath.Join(filepath.Dir(decls), "point_gen.go")

	stdout, stderr, err := run(t, "gen", "--decls", decls, "--out", out, "--fix-imports=false")
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, out)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), "package geo")
	assert.Contains(t, string(content), "const DEFAULT_X int = 1")
	assert.Contains(t, string(content), "func (l Point) Add(r Point) Point {")
}

func TestGen_DefaultOutputName(t *testing.T) {
	decls := writeDecls(t, pointDecls)

	_, stderr, err := run(t, "gen", "--decls", decls, "--output", "zz_derive.go")
	require.NoError(t, err, stderr)
	assert.FileExists(t, filepath.Join(filepath.Dir(decls), "zz_derive.go"))
}

func TestGen_DryRun(t *testing.T) {
	decls := writeDecls(t, pointDecls)
	out := filepath.Join(filepath.Dir(decls), "point_gen.go")

	stdout, _, err := run(t, "gen", "--decls", decls, "--out", out, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "// Code generated by derive-generator. DO NOT EDIT.")
	assert.Contains(t, stdout, "func (Point) Default() Point {")
	assert.NoFileExists(t, out)
}

func TestGen_FailingDeclaration(t *testing.T) {
	decls := writeDecls(t, brokenDecls)
	out := filepath.Join(filepath.Dir(decls), "gen.go")

	_, stderr, err := run(t, "gen", "--decls", decls, "--out", out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 declaration(s) failed")
	assert.Contains(t, stderr, "unsupported-shape")
	assert.Contains(t, stderr, "Shape")

	// Point is still generated.
	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), "func (Point) Default() Point {")
}

func TestCheck_Decls(t *testing.T) {
	decls := writeDecls(t, pointDecls)
	out := filepath.Join(filepath.Dir(decls), "point_gen.go")

	_, _, err := run(t, "check", "--decls", decls, "--out", out)
	require.ErrorIs(t, err, ErrStale)
	assert.Contains(t, errors.GetAllHints(err), "run derive-generator gen")

	_, _, err = run(t, "gen", "--decls", decls, "--out", out)
	require.NoError(t, err)

	stdout, _, err := run(t, "check", "--decls", decls, "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 file(s) up to date")

	require.NoError(t, os.WriteFile(out, []byte("package geo\n"), 0o644))

	stdout, _, err = run(t, "check", "--decls", decls, "--out", out)
	require.ErrorIs(t, err, ErrStale)
	assert.Contains(t, stdout, out)
}

func TestInspect_Decls(t *testing.T) {
	decls := writeDecls(t, pointDecls)

	stdout, _, err := run(t, "inspect", "--decls", decls)
	require.NoError(t, err)
	assert.Contains(t, stdout, "record Point")
	assert.Contains(t, stdout, "descriptors:")
	assert.Contains(t, stdout, `Constant: (string) (len=9) "DEFAULT_X"`)
}

func TestSourceFlags(t *testing.T) {
	decls := writeDecls(t, pointDecls)

	_, _, err := run(t, "gen", "--out", "x.go")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--out requires --decls")

	_, _, err = run(t, "gen", "--decls", decls, ".")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be combined")
}

func TestInvalidConfig(t *testing.T) {
	decls := writeDecls(t, pointDecls)

	_, _, err := run(t, "gen", "--decls", decls, "--output", "derive.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid output "derive.txt"`)

	_, _, err = run(t, "gen", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestCheck_Examples(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages with the go command")
	}

	stdout, stderr, err := run(t, "check", "../../examples/...")
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "up to date")
}

const pointSource = `package geo

//derive:Default,Add
type Point struct {
	%s int
}
`

func TestGen_RegenerateAfterEdits(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages with the go command")
	}

	dir := t.TempDir()
	types := filepath.Join(dir, "types.go")
	out := filepath.Join(dir, "derive_gen.go")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module geo\n\ngo 1.24\n"), 0o644))
	require.NoError(t, os.WriteFile(types, fmt.Appendf(nil, pointSource, "Z"), 0o644))
	t.Chdir(dir)

	_, stderr, err := run(t, "gen")
	require.NoError(t, err, stderr)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Z:")

	// The generated file no longer compiles after the rename.
	require.NoError(t, os.WriteFile(types, fmt.Appendf(nil, pointSource, "W"), 0o644))

	_, stderr, err = run(t, "gen")
	require.NoError(t, err, stderr)

	content, err = os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), "W:")
	assert.NotContains(t, string(content), "Z:")

	stdout, stderr, err := run(t, "check")
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "1 file(s) up to date")

	// Without derivations the old file is reported, then removed.
	require.NoError(t, os.WriteFile(types, []byte("package geo\n\ntype Point struct {\n\tW int\n}\n"), 0o644))

	stdout, _, err = run(t, "check")
	require.ErrorIs(t, err, ErrStale)
	assert.Contains(t, stdout, "orphan")

	stdout, stderr, err = run(t, "gen")
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "removed")
	assert.NoFileExists(t, out)
}

func TestBindFlags(t *testing.T) {
	flags := NewRootCmd().PersistentFlags()
	require.NoError(t, bindFlags(viper.New(), flags))

	partial := pflag.NewFlagSet("partial", pflag.ContinueOnError)
	partial.Bool("json-logs", false, "")

	err := bindFlags(viper.New(), partial)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "binding --")
}
