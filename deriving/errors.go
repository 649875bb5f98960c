package deriving

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinels wrapped by VariantError.
var (
	ErrMismatchedVariants = errors.New("mismatched variants")
	ErrCannotCombineUnit  = errors.New("cannot combine unit variants")
	ErrInvalidVariant     = errors.New("invalid variant")
)

// VariantError is returned by generated operators on tagged unions.
type VariantError struct {
	Op      string // lowercase operator name, e.g. "add"
	Type    string
	Variant string // set for unit variants
	Err     error
}

func (e *VariantError) Error() string {
	switch {
	case errors.Is(e.Err, ErrMismatchedVariants):
		return fmt.Sprintf("trying to %s mismatched %s variants", e.Op, e.Type)
	case errors.Is(e.Err, ErrCannotCombineUnit):
		return fmt.Sprintf("cannot %s unit variants %s.%s together", e.Op, e.Type, e.Variant)
	case errors.Is(e.Err, ErrInvalidVariant):
		return fmt.Sprintf("cannot %s %s values: operand is nil or not a %s variant", e.Op, e.Type, e.Type)
	default:
		return fmt.Sprintf("%s %s: %v", e.Op, e.Type, e.Err)
	}
}

func (e *VariantError) Unwrap() error {
	return e.Err
}

// MismatchedVariants reports operands holding different variants.
func MismatchedVariants(op, typeName string) error {
	return &VariantError{Op: op, Type: typeName, Err: ErrMismatchedVariants}
}

// CannotCombineUnit reports two operands holding the same unit variant.
func CannotCombineUnit(op, typeName, variant string) error {
	return &VariantError{Op: op, Type: typeName, Variant: variant, Err: ErrCannotCombineUnit}
}

// InvalidVariant reports an operand that holds no known variant.
func InvalidVariant(op, typeName string) error {
	return &VariantError{Op: op, Type: typeName, Err: ErrInvalidVariant}
}
