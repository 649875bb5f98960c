package diagnostic

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"derive-generator/internal/common"
	"derive-generator/internal/decl"
)

// Diagnostic codes.
const (
	CodeDuplicateAnnotation = "duplicate-annotation"
	CodeUnsupportedShape    = "unsupported-shape"
	CodeAnnotationSyntax    = "annotation-syntax"
	CodeUnknownTrait        = "unknown-trait"
	CodeUnknownKey          = "unknown-annotation-key"
	CodeDuplicateSymbol     = "duplicate-symbol"
	CodeGeneration          = "generation"
)

// Diagnostics holds all diagnostic information from one generation run.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Pos is the source position the diagnostic refers to.
	Pos decl.Position
	// TypeName identifies the declaration this relates to (if any).
	TypeName string
	// FieldPath identifies the field or variant this relates to (if any).
	FieldPath string
	// Hints are potential fixes.
	Hints []string
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Add appends a diagnostic to the list matching its severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	switch diag.Severity {
	case DiagnosticError:
		d.Errors = append(d.Errors, diag)
	case DiagnosticWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// AddError records err as an error diagnostic for the named declaration.
func (d *Diagnostics) AddError(typeName string, err error) {
	diag := FromError(err)
	if diag.TypeName == "" {
		diag.TypeName = typeName
	}

	d.Errors = append(d.Errors, diag)
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	parts := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Pos.IsValid() {
		prefix = append(prefix, d.Pos.String())
	}

	if d.TypeName != "" {
		subject := d.TypeName
		if d.FieldPath != "" {
			subject += "." + d.FieldPath
		}

		prefix = append(prefix, "["+subject+"]")
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
