package analyze

import (
	"go/ast"
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"derive-generator/internal/common"
	"derive-generator/internal/decl"
)

// DirectivePrefix starts every derive directive.
const DirectivePrefix = "//derive:"

const optionPositional = "positional"

// directives collects the derive directives of one comment set.
type directives struct {
	traits      []string
	positional  bool
	annotations []decl.Annotation
}

func (d *directives) hasTraits() bool {
	return len(d.traits) > 0
}

// parseDirectives reads derive directives from the comment groups, in order.
// position maps a token position to a decl.Position.
func parseDirectives(position func(token.Pos) decl.Position, groups ...*ast.CommentGroup) (directives, error) {
	var (
		out  directives
		errs []error
	)

	for _, g := range groups {
		if g == nil {
			continue
		}

		for _, c := range g.List {
			if !strings.HasPrefix(c.Text, DirectivePrefix) {
				continue
			}

			if err := out.add(c.Text, position(c.Slash)); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if len(out.traits) > 1 {
		out.traits = common.Dedup(out.traits)
	}

	return out, errors.Join(errs...)
}

func (d *directives) add(text string, pos decl.Position) error {
	body := strings.TrimSpace(strings.TrimPrefix(text, DirectivePrefix))
	if body == "" {
		return errors.Newf("%s: empty derive directive", pos)
	}

	first, _ := utf8.DecodeRuneInString(body)

	switch {
	case unicode.IsUpper(first):
		for _, trait := range strings.Split(body, ",") {
			trait = strings.TrimSpace(trait)
			if !token.IsIdentifier(trait) {
				return errors.WithHint(
					errors.Newf("%s: invalid trait %q in derive list", pos, trait),
					"traits are comma-separated identifiers, e.g. //derive:Default,Add",
				)
			}

			d.traits = append(d.traits, trait)
		}

	case body == optionPositional:
		d.positional = true

	default:
		a, err := decl.ParseAnnotation(body, pos)
		if err != nil {
			return err
		}

		d.annotations = append(d.annotations, a)
	}

	return nil
}
