package cli

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"derive-generator/internal/decl"
	"derive-generator/internal/derive"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func inspectCmd(a *app) *cobra.Command {
	var src source

	cmd := &cobra.Command{
		Use:   "inspect [packages]",
		Short: "Dump loaded declarations and their default descriptors",
		RunE: func(cmd *cobra.Command, args []string) error {
			units, err := a.units(cmd.Context(), src, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			heading := color.New(color.Bold)

			for _, u := range units {
				heading.Fprintf(out, "package %s (%s)\n", u.PackageName, u.Dir)

				for _, d := range u.Declarations {
					heading.Fprintf(out, "\n%s %s\n", d.Kind, d.Name)
					dumper.Fdump(out, d)
					a.dumpDescriptors(out, d)
				}
			}

			return nil
		},
	}

	src.register(cmd)

	return cmd
}

// dumpDescriptors prints the descriptors Default would be built from.
func (a *app) dumpDescriptors(w io.Writer, d *decl.Declaration) {
	opts := a.cfg.DeriveOptions()

	shape, idx, err := derive.SelectDefaultShape(d)
	if err != nil {
		fmt.Fprintf(w, "%s %v\n", color.YellowString("descriptors:"), err)
		return
	}

	switch shape {
	case derive.ShapeNamedRecord, derive.ShapePositionalRecord:
		descs, err := derive.BuildFieldDescriptors(d, opts)
		if err != nil {
			fmt.Fprintf(w, "%s %v\n", color.YellowString("descriptors:"), err)
			return
		}

		fmt.Fprintln(w, "descriptors:")
		dumper.Fdump(w, descs)

	case derive.ShapeDefaultVariant:
		fd, err := derive.BuildVariantDescriptor(d, idx, opts)
		if err != nil {
			fmt.Fprintf(w, "%s %v\n", color.YellowString("descriptors:"), err)
			return
		}

		fmt.Fprintln(w, "default variant:")
		dumper.Fdump(w, fd)

	case derive.ShapeVariantMatch:
	}
}
