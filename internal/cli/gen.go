package cli

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"derive-generator/internal/gen"
)

func genCmd(a *app) *cobra.Command {
	var (
		src    source
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "gen [packages]",
		Short: "Generate derive implementations",
		Long: `Generate writes one file per package holding the implementations
requested by //derive: directives. Declarations that fail are reported and
left out; the rest of their package is still generated.

Examples:
  derive-generator gen                 # Current package
  derive-generator gen ./...           # Every package in the module
  derive-generator gen --dry-run .     # Print instead of writing`,
		RunE: func(cmd *cobra.Command, args []string) error {
			units, err := a.units(cmd.Context(), src, args)
			if err != nil {
				return err
			}

			g := a.generator()

			files, diags := g.Generate(units)
			printDiagnostics(cmd.ErrOrStderr(), diags)

			out := cmd.OutOrStdout()

			if dryRun {
				for _, f := range files {
					fmt.Fprintf(out, "// %s\n%s", f.Path, f.Content)
				}
			} else {
				if err := gen.WriteFiles(files); err != nil {
					return err
				}

				for _, f := range files {
					fmt.Fprintf(out, "%s %s\n", color.GreenString("wrote"), f.Path)
				}
			}

			if diags.HasErrors() {
				return errors.Newf("%d declaration(s) failed", len(diags.Errors))
			}

			// Only a clean run proves a package has nothing left to generate.
			return removeOrphans(out, g, units, files, dryRun)
		},
	}

	src.register(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print generated files instead of writing them")

	return cmd
}

// removeOrphans deletes generated files of packages that no longer derive
// anything.
func removeOrphans(out io.Writer, g *gen.Generator, units []gen.Unit, files []gen.GeneratedFile, dryRun bool) error {
	orphans, err := g.Orphans(units, files)
	if err != nil {
		return err
	}

	if dryRun {
		for _, path := range orphans {
			fmt.Fprintf(out, "// would remove %s\n", path)
		}

		return nil
	}

	if err := gen.RemoveFiles(orphans); err != nil {
		return err
	}

	for _, path := range orphans {
		fmt.Fprintf(out, "%s %s\n", color.YellowString("removed"), path)
	}

	return nil
}
