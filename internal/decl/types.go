package decl

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"derive-generator/internal/common"
)

// Position is a location in a source or declaration file.
type Position struct {
	File   string
	Line   int
	Column int
}

// IsValid reports whether the position carries a line number.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// String returns "file:line:column", omitting the parts that are unknown.
func (p Position) String() string {
	if !p.IsValid() {
		if p.File != "" {
			return p.File
		}

		return "-"
	}

	s := strconv.Itoa(p.Line)
	if p.Column > 0 {
		s += ":" + strconv.Itoa(p.Column)
	}

	if p.File != "" {
		s = p.File + ":" + s
	}

	return s
}

//go:generate go tool stringer -type=Kind -linecomment

// Kind is the structural category of a declaration.
type Kind int

const (
	KindUnsupported Kind = iota // unsupported
	KindRecord                  // record
	KindTaggedUnion             // tagged-union
	KindUnion                   // union
)

// ParseKind parses the textual kind used in declaration files.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "record", "struct":
		return KindRecord, nil
	case "tagged-union", "enum":
		return KindTaggedUnion, nil
	case "union":
		return KindUnion, nil
	case "unsupported":
		return KindUnsupported, nil
	default:
		return KindUnsupported, errors.Newf("unknown declaration kind %q", s)
	}
}

// Repr is the Go representation of a tagged union.
type Repr int

const (
	// ReprSealed is an interface with one struct type per variant.
	ReprSealed Repr = iota
	// ReprEnum is a named basic type with one constant per variant.
	ReprEnum
)

// String returns a human-readable representation of the Repr.
func (r Repr) String() string {
	switch r {
	case ReprSealed:
		return "sealed"
	case ReprEnum:
		return "enum"
	default:
		return common.UnknownStr
	}
}

// ParseRepr parses the textual union representation.
func ParseRepr(s string) (Repr, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sealed", "interface":
		return ReprSealed, nil
	case "enum", "const":
		return ReprEnum, nil
	default:
		return ReprSealed, errors.Newf("unknown union representation %q", s)
	}
}

// Payload is the shape of a variant's data.
type Payload int

const (
	PayloadNone       Payload = iota // unit variant
	PayloadPositional                // ordered, unnamed slots
	PayloadNamed                     // named fields
)

// String returns a human-readable representation of the Payload.
func (p Payload) String() string {
	switch p {
	case PayloadNone:
		return "none"
	case PayloadPositional:
		return "positional"
	case PayloadNamed:
		return "named"
	default:
		return common.UnknownStr
	}
}

// ParsePayload parses the textual payload shape.
func ParsePayload(s string) (Payload, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "unit":
		return PayloadNone, nil
	case "positional", "tuple":
		return PayloadPositional, nil
	case "named", "struct":
		return PayloadNamed, nil
	default:
		return PayloadNone, errors.Newf("unknown variant payload %q", s)
	}
}

// TypeParam is one generic type parameter.
type TypeParam struct {
	Name       string
	Constraint string
}

// Annotation is one raw annotation attached to a field or variant, such as
// "default" or "default(value=1, constant)".
type Annotation struct {
	Keyword string
	Args    string // text between the parentheses
	HasArgs bool   // true when parentheses were present, even if empty
	Pos     Position
}

// String renders the annotation the way it is written.
func (a Annotation) String() string {
	if !a.HasArgs {
		return a.Keyword
	}

	return a.Keyword + "(" + a.Args + ")"
}

// ParseAnnotation parses "keyword" or "keyword(args)".
func ParseAnnotation(text string, pos Position) (Annotation, error) {
	text = strings.TrimSpace(text)

	open := strings.IndexByte(text, '(')
	if open < 0 {
		if !isIdent(text) {
			return Annotation{}, errors.Newf("%s: invalid annotation %q", pos, text)
		}

		return Annotation{Keyword: text, Pos: pos}, nil
	}

	keyword := strings.TrimSpace(text[:open])
	if !isIdent(keyword) {
		return Annotation{}, errors.Newf("%s: invalid annotation keyword %q", pos, keyword)
	}

	if !strings.HasSuffix(text, ")") {
		return Annotation{}, errors.Newf("%s: unterminated annotation %q", pos, text)
	}

	return Annotation{
		Keyword: keyword,
		Args:    strings.TrimSpace(text[open+1 : len(text)-1]),
		HasArgs: true,
		Pos:     pos,
	}, nil
}

// Field is one member of a record or one payload slot of a variant.
type Field struct {
	Name        string // empty for positional fields
	Selector    string // Go selector used to access the field
	Type        string // Go type expression
	Underlying  string // predeclared underlying type, when known
	Annotations []Annotation
	Pos         Position
}

// IsPositional reports whether the field is identified by its index.
func (f *Field) IsPositional() bool {
	return f.Name == ""
}

// Variant is one arm of a tagged union.
type Variant struct {
	Name        string
	TypeName    string // Go type (sealed) or constant (enum) name
	Payload     Payload
	Fields      []Field
	Annotations []Annotation
	Pos         Position
}

// Declaration is the structural description of one annotated type.
type Declaration struct {
	Name       string
	Kind       Kind
	Repr       Repr
	Fields     []Field
	Variants   []Variant
	TypeParams []TypeParam
	Derives    []string
	Imports    []string
	Pos        Position
}

// IsPositional reports whether the declaration is a record whose fields are
// all positional. A record without fields is treated as named.
func (d *Declaration) IsPositional() bool {
	if len(d.Fields) == 0 {
		return false
	}

	for i := range d.Fields {
		if !d.Fields[i].IsPositional() {
			return false
		}
	}

	return true
}

// HasDerive reports whether the declaration requests the given trait.
func (d *Declaration) HasDerive(trait string) bool {
	for _, t := range d.Derives {
		if t == trait {
			return true
		}
	}

	return false
}

// TypeArgs returns the type argument list, e.g. "[K, V]", or "".
func (d *Declaration) TypeArgs() string {
	if len(d.TypeParams) == 0 {
		return ""
	}

	names := make([]string, len(d.TypeParams))
	for i, p := range d.TypeParams {
		names[i] = p.Name
	}

	return "[" + strings.Join(names, ", ") + "]"
}

// TypeParamList returns the declaring type parameter list, e.g.
// "[K comparable, V any]", or "".
func (d *Declaration) TypeParamList() string {
	if len(d.TypeParams) == 0 {
		return ""
	}

	parts := make([]string, len(d.TypeParams))
	for i, p := range d.TypeParams {
		constraint := p.Constraint
		if constraint == "" {
			constraint = "any"
		}

		parts[i] = p.Name + " " + constraint
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

// TypeRef returns the instantiated type reference, e.g. "Pair[K, V]".
func (d *Declaration) TypeRef() string {
	return d.Name + d.TypeArgs()
}

// IsTypeParam reports whether name is one of the declaration's type parameters.
func (d *Declaration) IsTypeParam(name string) bool {
	for _, p := range d.TypeParams {
		if p.Name == name {
			return true
		}
	}

	return false
}

// Normalize fills in derived attributes: positional selectors, variant type
// names and field positions inherited from their parent.
func (d *Declaration) Normalize() {
	normalizeFields(d.Fields, d.Pos)

	for i := range d.Variants {
		v := &d.Variants[i]
		if v.TypeName == "" {
			v.TypeName = d.Name + v.Name
		}

		if !v.Pos.IsValid() {
			v.Pos = d.Pos
		}

		normalizeFields(v.Fields, v.Pos)
	}
}

func normalizeFields(fields []Field, parent Position) {
	for i := range fields {
		f := &fields[i]
		if f.Selector == "" {
			if f.Name != "" {
				f.Selector = f.Name
			} else {
				f.Selector = "F" + strconv.Itoa(i)
			}
		}

		if !f.Pos.IsValid() {
			f.Pos = parent
		}
	}
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}

	return true
}
