package cli

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"

	"derive-generator/internal/diagnostic"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	hintColor    = color.New(color.FgCyan)
)

// printDiagnostics writes errors, then warnings, then infos.
func printDiagnostics(w io.Writer, diags diagnostic.Diagnostics) {
	for _, d := range diags.Errors {
		printDiagnostic(w, errorColor, d)
	}

	for _, d := range diags.Warnings {
		printDiagnostic(w, warningColor, d)
	}

	for _, d := range diags.Infos {
		printDiagnostic(w, infoColor, d)
	}
}

func printDiagnostic(w io.Writer, c *color.Color, d diagnostic.Diagnostic) {
	fmt.Fprintf(w, "%s %s\n", c.Sprint(d.Severity.String()+":"), d)

	for _, h := range d.Hints {
		fmt.Fprintf(w, "  %s %s\n", hintColor.Sprint("hint:"), h)
	}
}

// PrintError writes err and the hints attached to it.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, err)

	for _, h := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "  %s %s\n", hintColor.Sprint("hint:"), h)
	}
}
