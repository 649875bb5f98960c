package derive

import (
	"strconv"
	"strings"
)

// Naming conventions for synthesized secondary names.
const (
	ConstantPrefix = "DEFAULT_"
	FunctionPrefix = "default_"
)

// ConstantName synthesizes the secondary constant name for a field:
// DEFAULT_<IDENT> for named fields, DEFAULT_<index> for positional ones.
func ConstantName(ident string, index int) string {
	if ident == "" {
		return ConstantPrefix + strconv.Itoa(index)
	}

	return ConstantPrefix + strings.ToUpper(ident)
}

// FunctionName synthesizes the secondary function name for a field:
// default_<ident> for named fields, default_<index> for positional ones.
func FunctionName(ident string, index int) string {
	if ident == "" {
		return FunctionPrefix + strconv.Itoa(index)
	}

	return FunctionPrefix + strings.ToLower(ident)
}
