// Package main is the derive-generator command.
//
// derive-generator reads //derive: directives on Go types and generates:
//   - Default constructors honoring per-field default annotations
//   - Add, Sub, BitAnd, BitOr and BitXor implementations for records
//   - Variant-matching operators for sealed interface and constant enums
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/fatih/color"

	"derive-generator/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "error: ")
		cli.PrintError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
