package derive

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"derive-generator/internal/annotation"
	"derive-generator/internal/common"
	"derive-generator/internal/decl"
	"derive-generator/internal/diagnostic"
)

// DefaultKeyword is the annotation keyword read by the Default generator.
const DefaultKeyword = "default"

// Shape is the code shape selected for a declaration.
type Shape int

const (
	ShapeNamedRecord      Shape = iota // T{X: x, Y: y}
	ShapePositionalRecord              // T{x, y}
	ShapeDefaultVariant                // the designated variant
	ShapeVariantMatch                  // pairwise match over variants
)

// String returns a human-readable representation of the Shape.
func (s Shape) String() string {
	switch s {
	case ShapeNamedRecord:
		return "named-record"
	case ShapePositionalRecord:
		return "positional-record"
	case ShapeDefaultVariant:
		return "default-variant"
	case ShapeVariantMatch:
		return "variant-match"
	default:
		return common.UnknownStr
	}
}

// SelectDefaultShape classifies d for the Default generator. For tagged
// unions it also returns the index of the designated default variant.
func SelectDefaultShape(d *decl.Declaration) (Shape, int, error) {
	switch d.Kind {
	case decl.KindRecord:
		if d.IsPositional() {
			return ShapePositionalRecord, -1, nil
		}

		return ShapeNamedRecord, -1, nil

	case decl.KindTaggedUnion:
		if err := requireUnitEnum(d, TraitDefault); err != nil {
			return 0, -1, err
		}

		idx, err := designatedVariant(d)
		if err != nil {
			return 0, -1, err
		}

		return ShapeDefaultVariant, idx, nil

	case decl.KindUnion:
		return 0, -1, diagnostic.NewUnsupportedShape(d, TraitDefault, "untagged unions cannot derive Default")

	default:
		return 0, -1, diagnostic.NewUnsupportedShape(d, TraitDefault, "only records and tagged unions can derive Default")
	}
}

// SelectOperatorShape classifies d for the operator generators.
func SelectOperatorShape(d *decl.Declaration, trait string) (Shape, error) {
	switch d.Kind {
	case decl.KindRecord:
		if d.IsPositional() {
			return ShapePositionalRecord, nil
		}

		return ShapeNamedRecord, nil

	case decl.KindTaggedUnion:
		if err := requireUnitEnum(d, trait); err != nil {
			return 0, err
		}

		return ShapeVariantMatch, nil

	default:
		return 0, diagnostic.NewUnsupportedShape(d, trait,
			fmt.Sprintf("only records and tagged unions can derive %s", trait))
	}
}

// requireUnitEnum rejects payload variants in the enum representation, where
// every variant is a constant.
func requireUnitEnum(d *decl.Declaration, trait string) error {
	if d.Repr != decl.ReprEnum {
		return nil
	}

	for i := range d.Variants {
		if d.Variants[i].Payload != decl.PayloadNone {
			return diagnostic.NewUnsupportedShape(d, trait,
				fmt.Sprintf("variant %s carries a payload but %s is a constant enum", d.Variants[i].Name, d.Name))
		}
	}

	return nil
}

// designatedVariant finds the single variant carrying the default annotation.
func designatedVariant(d *decl.Declaration) (int, error) {
	found := -1

	for i := range d.Variants {
		a, err := annotation.Find(DefaultKeyword, d.Variants[i].Annotations)
		if err != nil {
			return -1, errors.Wrapf(err, "variant %s.%s", d.Name, d.Variants[i].Name)
		}

		if a == nil {
			continue
		}

		if found >= 0 {
			return -1, errors.WithStack(&diagnostic.UnsupportedShapeError{
				TypeName: d.Name,
				Trait:    TraitDefault,
				Reason: fmt.Sprintf("variants %s and %s are both marked default",
					d.Variants[found].Name, d.Variants[i].Name),
				Pos: d.Variants[i].Pos,
			})
		}

		found = i
	}

	if found < 0 {
		return -1, errors.WithHint(
			diagnostic.NewUnsupportedShape(d, TraitDefault, "no variant is marked default"),
			"annotate exactly one variant with //derive:default",
		)
	}

	return found, nil
}
