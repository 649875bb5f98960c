package annotation

import (
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"strings"

	"github.com/cockroachdb/errors"

	"derive-generator/internal/decl"
	"derive-generator/internal/diagnostic"
)

// Recognized keys of the default annotation.
const (
	KeyValue    = "value"
	KeyConstant = "constant"
	KeyFunction = "function"
)

// Keys lists the recognized keys.
var Keys = []string{KeyValue, KeyConstant, KeyFunction}

// ItemKey returns the key of an item: the text before '=', trimmed.
func ItemKey(item string) string {
	key, _, _ := strings.Cut(item, "=")
	return strings.TrimSpace(key)
}

// Request is a secondary-name request: "constant" or "constant=NAME".
type Request struct {
	Requested bool
	Override  string
}

// Name returns the override when set, otherwise synthesized().
func (r Request) Name(synthesized func() string) string {
	if r.Override != "" {
		return r.Override
	}

	return synthesized()
}

// Spec is the parsed content of one annotation occurrence.
type Spec struct {
	Value     string   // expression text; empty when no value= key
	ValueExpr ast.Expr // parsed Value
	Constant  Request
	Function  Request
	Unknown   []string // items whose key is outside the recognized set
}

// HasValue reports whether an explicit value was given.
func (s *Spec) HasValue() bool {
	return s.ValueExpr != nil
}

// ParseArgs parses the nested key/value items of a. A bare annotation or an
// empty argument list yields an empty Spec.
func ParseArgs(a *decl.Annotation) (*Spec, error) {
	spec := &Spec{}
	if a == nil || !a.HasArgs || strings.TrimSpace(a.Args) == "" {
		return spec, nil
	}

	items, err := splitItems(a.Args)
	if err != nil {
		return nil, syntaxError(a, "", err.Error())
	}

	seen := make(map[string]bool)

	for _, item := range items {
		key, value, hasValue, ok := splitKey(item)
		if !ok {
			return nil, syntaxError(a, item, "expected key or key=value")
		}

		switch key {
		case KeyValue, KeyConstant, KeyFunction:
			if seen[key] {
				return nil, syntaxError(a, item, "repeated key "+key)
			}

			seen[key] = true
		default:
			spec.Unknown = append(spec.Unknown, item)
			continue
		}

		switch key {
		case KeyValue:
			if !hasValue || value == "" {
				return nil, syntaxError(a, item, "value requires an expression")
			}

			expr, err := parser.ParseExpr(value)
			if err != nil {
				return nil, syntaxError(a, item, "invalid expression: "+err.Error())
			}

			spec.Value, spec.ValueExpr = value, expr

		case KeyConstant, KeyFunction:
			req := Request{Requested: true}
			if hasValue {
				if !token.IsIdentifier(value) {
					return nil, syntaxError(a, item, "override must be an identifier")
				}

				req.Override = value
			}

			if key == KeyConstant {
				spec.Constant = req
			} else {
				spec.Function = req
			}
		}
	}

	return spec, nil
}

// splitItems splits src at commas that are not nested inside parentheses,
// brackets or braces. String and rune literals are handled by the scanner.
func splitItems(src string) ([]string, error) {
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))

	var scanErr error

	var s scanner.Scanner
	s.Init(file, []byte(src), func(_ token.Position, msg string) {
		if scanErr == nil {
			scanErr = errors.New(msg)
		}
	}, 0)

	var (
		items []string
		depth int
		start int
	)

	for {
		pos, tok, _ := s.Scan()
		if tok == token.EOF {
			break
		}

		switch tok {
		case token.LPAREN, token.LBRACK, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACK, token.RBRACE:
			depth--
			if depth < 0 {
				return nil, errors.New("unbalanced closing delimiter")
			}
		case token.COMMA:
			if depth == 0 {
				offset := file.Offset(pos)
				items = append(items, strings.TrimSpace(src[start:offset]))
				start = offset + 1
			}
		}
	}

	if scanErr != nil {
		return nil, scanErr
	}

	if depth != 0 {
		return nil, errors.New("unbalanced delimiters")
	}

	// A trailing comma leaves an empty last item.
	if last := strings.TrimSpace(src[start:]); last != "" {
		items = append(items, last)
	}

	for _, item := range items {
		if item == "" {
			return nil, errors.New("empty item")
		}
	}

	return items, nil
}

// splitKey splits "key" or "key = value".
func splitKey(item string) (key, value string, hasValue, ok bool) {
	end := 0
	for end < len(item) && isIdentByte(item[end], end) {
		end++
	}

	key = item[:end]
	if key == "" {
		return "", "", false, false
	}

	rest := strings.TrimSpace(item[end:])
	if rest == "" {
		return key, "", false, true
	}

	if rest[0] != '=' || strings.HasPrefix(rest, "==") {
		return "", "", false, false
	}

	return key, strings.TrimSpace(rest[1:]), true, true
}

func isIdentByte(b byte, i int) bool {
	return b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || i > 0 && b >= '0' && b <= '9'
}

func syntaxError(a *decl.Annotation, item, reason string) error {
	return errors.WithStack(&diagnostic.AnnotationSyntaxError{
		Keyword: a.Keyword,
		Item:    item,
		Reason:  reason,
		Pos:     a.Pos,
	})
}
