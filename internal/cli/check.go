package cli

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"derive-generator/internal/gen"
)

// ErrStale is returned by check when a generated file is missing, out of
// date or orphaned.
var ErrStale = errors.New("generated files are stale")

func checkCmd(a *app) *cobra.Command {
	var src source

	cmd := &cobra.Command{
		Use:   "check [packages]",
		Short: "Verify generated files are up to date",
		Long: `Check generates in memory and compares the result with the files on
disk. It exits non-zero when a file is missing or differs, or when a
generated file remains in a package that no longer derives anything.

Examples:
  derive-generator check ./...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			units, err := a.units(cmd.Context(), src, args)
			if err != nil {
				return err
			}

			g := a.generator()

			files, diags := g.Generate(units)
			printDiagnostics(cmd.ErrOrStderr(), diags)

			if diags.HasErrors() {
				return errors.Newf("%d declaration(s) failed", len(diags.Errors))
			}

			stale, err := gen.Check(files)
			if err != nil {
				return err
			}

			orphans, err := g.Orphans(units, files)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if len(stale) == 0 && len(orphans) == 0 {
				fmt.Fprintf(out, "%s %d file(s) up to date\n", color.GreenString("ok"), len(files))
				return nil
			}

			for _, path := range stale {
				fmt.Fprintf(out, "%s %s\n", color.YellowString("stale"), path)
			}

			for _, path := range orphans {
				fmt.Fprintf(out, "%s %s\n", color.YellowString("orphan"), path)
			}

			return errors.WithHint(errors.WithStack(ErrStale), "run derive-generator gen")
		},
	}

	src.register(cmd)

	return cmd
}
