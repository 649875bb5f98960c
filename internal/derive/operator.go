package derive

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"derive-generator/internal/common"
	"derive-generator/internal/decl"
)

// operator describes one arithmetic-operator trait.
type operator struct {
	trait string
	verb  string // lowercase name used in runtime error messages
	token string // Go infix operator for numeric operands
	logic string // Go infix operator for bool operands; empty if unsupported
}

var operators = map[string]operator{
	TraitAdd:    {trait: TraitAdd, verb: "add", token: "+"},
	TraitSub:    {trait: TraitSub, verb: "sub", token: "-"},
	TraitBitAnd: {trait: TraitBitAnd, verb: "bitand", token: "&", logic: "&&"},
	TraitBitOr:  {trait: TraitBitOr, verb: "bitor", token: "|", logic: "||"},
	TraitBitXor: {trait: TraitBitXor, verb: "bitxor", token: "^", logic: "!="},
}

// infix returns the Go operator combining two values of class c, or "" when
// the values must be combined with a method call.
func (op operator) infix(c typeClass) string {
	switch c {
	case classInteger, classTypeParam:
		return op.token
	case classFloat:
		if op.trait == TraitAdd || op.trait == TraitSub {
			return op.token
		}
	case classString:
		if op.trait == TraitAdd {
			return op.token
		}
	case classBool:
		return op.logic
	case classOther:
	}

	return ""
}

// combine is the expression combining field f of l and r.
func (op operator) combine(d *decl.Declaration, f *decl.Field, l, r string) string {
	if tok := op.infix(classify(d, f)); tok != "" {
		return l + "." + f.Selector + " " + tok + " " + r + "." + f.Selector
	}

	return l + "." + f.Selector + "." + op.trait + "(" + r + "." + f.Selector + ")"
}

// expandOperator generates the implementation of an operator trait for d.
func expandOperator(d *decl.Declaration, trait string, opts Options) (*Fragment, error) {
	op, ok := operators[trait]
	if !ok {
		return nil, errors.AssertionFailedf("%s is not an operator trait", trait)
	}

	shape, err := SelectOperatorShape(d, trait)
	if err != nil {
		return nil, err
	}

	b := newBuilder(d, opts)
	frag := &Fragment{TypeName: d.Name, Trait: trait}

	switch shape {
	case ShapeNamedRecord, ShapePositionalRecord:
		frag.Method = b.recordOperator(op)
	case ShapeVariantMatch:
		if d.Repr == decl.ReprEnum {
			frag.Method = b.enumOperator(op)
		} else {
			frag.Method = b.sealedOperator(op)
		}
	case ShapeDefaultVariant:
		return nil, errors.AssertionFailedf("shape %s is not an operator shape", shape)
	}

	b.finish(frag)

	return frag, nil
}

// recordOperator combines l and r field by field.
func (b *builder) recordOperator(op operator) Method {
	ref := b.d.TypeRef()

	return Method{
		Doc:      fmt.Sprintf("%s combines l and r field by field.", op.trait),
		Receiver: "(l " + ref + ")",
		Name:     op.trait,
		Params:   "r " + ref,
		Results:  ref,
		Body:     b.payloadLiteral("return ", ref, b.d.Fields, op, ""),
	}
}

// payloadLiteral renders prefix + typ{...} + suffix with every field
// combined, keyed by name unless the fields are positional.
func (b *builder) payloadLiteral(prefix, typ string, fields []decl.Field, op operator, suffix string) []string {
	if common.IsEmpty(fields) {
		return []string{prefix + typ + "{}" + suffix}
	}

	if fields[0].IsPositional() {
		exprs := make([]string, len(fields))
		for i := range fields {
			exprs[i] = op.combine(b.d, &fields[i], "l", "r")
		}

		return []string{prefix + typ + "{" + strings.Join(exprs, ", ") + "}" + suffix}
	}

	lines := make([]string, 0, len(fields)+2)
	lines = append(lines, prefix+typ+"{")

	for i := range fields {
		lines = append(lines, "\t"+fields[i].Selector+": "+op.combine(b.d, &fields[i], "l", "r")+",")
	}

	return append(lines, "}"+suffix)
}

// sealedOperator switches on the dynamic type of l and requires r to hold
// the same variant. Unit variants cannot be combined.
func (b *builder) sealedOperator(op operator) Method {
	b.usesRuntime = true

	ref := b.d.TypeRef()
	args := b.d.TypeArgs()
	typeName := strconv.Quote(b.d.Name)
	verb := strconv.Quote(op.verb)

	bindL := false
	for i := range b.d.Variants {
		if len(b.d.Variants[i].Fields) > 0 {
			bindL = true
			break
		}
	}

	var body []string
	if bindL {
		body = append(body, "switch l := l.(type) {")
	} else {
		body = append(body, "switch l.(type) {")
	}

	for i := range b.d.Variants {
		v := &b.d.Variants[i]
		vt := v.TypeName + args

		body = append(body, "case "+vt+":")

		bindR := "_"
		if len(v.Fields) > 0 {
			bindR = "r"
		}

		body = append(body, "\tif "+bindR+", ok := r.("+vt+"); ok {")

		if v.Payload == decl.PayloadNone {
			body = append(body, fmt.Sprintf("\t\treturn nil, %s.CannotCombineUnit(%s, %s, %s)",
				b.rt, verb, typeName, strconv.Quote(v.Name)))
		} else {
			for _, line := range b.payloadLiteral("return ", vt, v.Fields, op, ", nil") {
				body = append(body, "\t\t"+line)
			}
		}

		body = append(body, "\t}")
	}

	invalid := fmt.Sprintf("return nil, %s.InvalidVariant(%s, %s)", b.rt, verb, typeName)

	if common.IsMultiple(b.d.Variants) {
		body = append(body, "default:", "\t"+invalid, "}", "",
			fmt.Sprintf("return nil, %s.MismatchedVariants(%s, %s)", b.rt, verb, typeName))
	} else {
		body = append(body, "}", "", invalid)
	}

	return Method{
		Doc:        fmt.Sprintf("%s%s combines two %s values holding the same variant.", op.trait, b.d.Name, b.d.Name),
		Name:       op.trait + b.d.Name,
		TypeParams: b.d.TypeParamList(),
		Params:     "l, r " + ref,
		Results:    "(" + ref + ", error)",
		Body:       body,
	}
}

// enumOperator handles constant enums, whose variants are all unit.
func (b *builder) enumOperator(op operator) Method {
	b.usesRuntime = true

	typeName := strconv.Quote(b.d.Name)
	verb := strconv.Quote(op.verb)

	body := []string{"switch {"}

	for i := range b.d.Variants {
		v := &b.d.Variants[i]
		body = append(body,
			"case l == "+v.TypeName+":",
			"\tif r == "+v.TypeName+" {",
			fmt.Sprintf("\t\treturn out, %s.CannotCombineUnit(%s, %s, %s)", b.rt, verb, typeName, strconv.Quote(v.Name)),
			"\t}",
		)
	}

	invalid := fmt.Sprintf("return out, %s.InvalidVariant(%s, %s)", b.rt, verb, typeName)

	if common.IsMultiple(b.d.Variants) {
		body = append(body, "default:", "\t"+invalid, "}", "",
			fmt.Sprintf("return out, %s.MismatchedVariants(%s, %s)", b.rt, verb, typeName))
	} else {
		body = append(body, "}", "", invalid)
	}

	ref := b.d.TypeRef()

	return Method{
		Doc:      fmt.Sprintf("%s combines two %s values holding the same variant.", op.trait, b.d.Name),
		Receiver: "(l " + ref + ")",
		Name:     op.trait,
		Params:   "r " + ref,
		Results:  "(out " + ref + ", err error)",
		Body:     body,
	}
}
