// Package suggest finds the closest known name to a misspelled one, for
// "did you mean" hints on unknown traits and annotation keys.
//
// Names are compared after normalization (case folding and separator
// stripping) with a normalized Levenshtein similarity.
package suggest
