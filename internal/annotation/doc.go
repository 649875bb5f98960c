// Package annotation looks up recognized annotations on fields and variants
// and parses the key/value grammar nested inside them:
//
//	default
//	default(value=<expr>)
//	default(value=<expr>, constant, function=initX)
//
// Keys may appear in any order. Values are Go expressions and may contain
// commas of their own, e.g. value=Point{X: 1, Y: 2}.
package annotation
