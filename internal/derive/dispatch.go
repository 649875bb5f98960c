package derive

import (
	"github.com/cockroachdb/errors"

	"derive-generator/internal/decl"
	"derive-generator/internal/diagnostic"
	"derive-generator/internal/suggest"
)

// Trait keywords accepted in derive lists.
const (
	TraitDefault = "Default"
	TraitAdd     = "Add"
	TraitSub     = "Sub"
	TraitBitAnd  = "BitAnd"
	TraitBitOr   = "BitOr"
	TraitBitXor  = "BitXor"
)

// Traits lists every supported trait in a fixed order.
var Traits = []string{TraitDefault, TraitAdd, TraitSub, TraitBitAnd, TraitBitOr, TraitBitXor}

// IsTrait reports whether name is a supported trait keyword.
func IsTrait(name string) bool {
	if name == TraitDefault {
		return true
	}

	_, ok := operators[name]

	return ok
}

// Expand generates the implementation of one trait for d.
func Expand(d *decl.Declaration, trait string, opts Options) (*Fragment, error) {
	switch trait {
	case TraitDefault:
		return expandDefault(d, opts)
	case TraitAdd, TraitSub, TraitBitAnd, TraitBitOr, TraitBitXor:
		return expandOperator(d, trait, opts)
	default:
		err := errors.WithStack(&diagnostic.UnknownTraitError{
			Trait:    trait,
			TypeName: d.Name,
			Pos:      d.Pos,
		})
		if hint := suggest.Hint(trait, Traits); hint != "" {
			err = errors.WithHint(err, hint)
		}

		return nil, errors.WithHintf(err, "supported traits: %v", Traits)
	}
}

// ExpandAll expands every trait d requests, in request order. The first
// failure aborts the declaration.
func ExpandAll(d *decl.Declaration, opts Options) ([]*Fragment, error) {
	frags := make([]*Fragment, 0, len(d.Derives))

	for _, trait := range d.Derives {
		frag, err := Expand(d, trait, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "deriving %s for %s", trait, d.Name)
		}

		frags = append(frags, frag)
	}

	return frags, nil
}
