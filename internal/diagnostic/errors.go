package diagnostic

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"derive-generator/internal/decl"
)

// DuplicateAnnotationError reports a recognized annotation keyword that
// appears more than once on the same field or variant.
type DuplicateAnnotationError struct {
	Keyword string
	Pos     decl.Position // position of the second occurrence
	First   decl.Position
}

func (e *DuplicateAnnotationError) Error() string {
	return e.Pos.String() + ": " + e.message()
}

func (e *DuplicateAnnotationError) message() string {
	return fmt.Sprintf("annotation %q should be defined only once per field or variant", e.Keyword)
}

// UnsupportedShapeError reports a declaration the generator cannot derive for.
type UnsupportedShapeError struct {
	TypeName string
	Trait    string
	Reason   string
	Pos      decl.Position
}

func (e *UnsupportedShapeError) Error() string {
	return e.Pos.String() + ": " + e.message()
}

func (e *UnsupportedShapeError) message() string {
	return fmt.Sprintf("cannot derive %s for %s: %s", e.Trait, e.TypeName, e.Reason)
}

// AnnotationSyntaxError reports a malformed item inside a recognized annotation.
type AnnotationSyntaxError struct {
	Keyword string
	Item    string
	Reason  string
	Pos     decl.Position
}

func (e *AnnotationSyntaxError) Error() string {
	return e.Pos.String() + ": " + e.message()
}

func (e *AnnotationSyntaxError) message() string {
	if e.Item == "" {
		return fmt.Sprintf("invalid %s annotation: %s", e.Keyword, e.Reason)
	}

	return fmt.Sprintf("invalid %s annotation item %q: %s", e.Keyword, e.Item, e.Reason)
}

// UnknownTraitError reports a derive keyword that maps to no generator.
type UnknownTraitError struct {
	Trait    string
	TypeName string
	Pos      decl.Position
}

func (e *UnknownTraitError) Error() string {
	return e.Pos.String() + ": " + e.message()
}

func (e *UnknownTraitError) message() string {
	return fmt.Sprintf("no generator for trait %q requested by %s", e.Trait, e.TypeName)
}

// NewUnsupportedShape builds an UnsupportedShapeError for d.
func NewUnsupportedShape(d *decl.Declaration, trait, reason string) error {
	return errors.WithStack(&UnsupportedShapeError{
		TypeName: d.Name,
		Trait:    trait,
		Reason:   reason,
		Pos:      d.Pos,
	})
}

// FromError converts a generation error into a Diagnostic.
func FromError(err error) Diagnostic {
	diag := Diagnostic{
		Severity: DiagnosticError,
		Code:     CodeGeneration,
		Message:  err.Error(),
		Hints:    errors.GetAllHints(err),
	}

	var (
		dup     *DuplicateAnnotationError
		shape   *UnsupportedShapeError
		syntax  *AnnotationSyntaxError
		unknown *UnknownTraitError
	)

	switch {
	case errors.As(err, &dup):
		diag.Code, diag.Message, diag.Pos = CodeDuplicateAnnotation, dup.message(), dup.Pos
	case errors.As(err, &shape):
		diag.Code, diag.Message, diag.Pos = CodeUnsupportedShape, shape.message(), shape.Pos
		diag.TypeName = shape.TypeName
	case errors.As(err, &syntax):
		diag.Code, diag.Message, diag.Pos = CodeAnnotationSyntax, syntax.message(), syntax.Pos
	case errors.As(err, &unknown):
		diag.Code, diag.Message, diag.Pos = CodeUnknownTrait, unknown.message(), unknown.Pos
		diag.TypeName = unknown.TypeName
	}

	return diag
}
