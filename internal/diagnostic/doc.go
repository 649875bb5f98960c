// Package diagnostic provides the typed generation errors and the structured
// diagnostics reported to users.
//
// Key capabilities:
//   - Typed, position-carrying errors for every fatal generation condition
//   - Conversion of any generation error into a Diagnostic
//   - Collection of warnings (e.g. ignored annotation keys) alongside errors
package diagnostic
