// Package derive is the derivation core: it turns one decl.Declaration into
// one Fragment of Go source implementing a trait.
//
// The pipeline is the same for every trait:
//  1. select the shape of the declaration (SelectDefaultShape,
//     SelectOperatorShape), rejecting shapes that cannot be derived
//  2. build one FieldDescriptor per field or designated variant from its
//     default annotation
//  3. emit constants, functions and the trait method for that shape
//
// Expansion is a pure function of its input. It never logs, never touches
// the filesystem, and produces identical output for identical input.
//
// Traits:
//   - Default: zero-argument constructor, with optional secondary constants
//     (DEFAULT_X) and functions (default_x) per field
//   - Add, Sub, BitAnd, BitOr, BitXor: field-wise or variant-wise combination
package derive
