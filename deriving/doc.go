// Package deriving is the runtime support imported by generated code.
//
// Default implements the zero-value protocol used for fields without an
// explicit default: a type's own Default method, a registered constructor,
// or the Go zero value, in that order. No reflection is involved.
//
// The error constructors build the values returned by generated operator
// implementations of tagged unions. Every such error is a *VariantError
// wrapping one of ErrMismatchedVariants, ErrCannotCombineUnit or
// ErrInvalidVariant, so callers can test for them with errors.Is.
package deriving
