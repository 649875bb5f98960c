// Package gen assembles derived fragments into one Go file per package.
//
// Generation uses text/template for the file skeleton and
// golang.org/x/tools/imports (or go/format with astutil import pruning) for
// formatting. Output is deterministic: declarations keep their source order
// and imports are sorted.
//
// A declaration that fails to derive is reported as a diagnostic and left
// out, so one bad type never blocks the rest of its package. Two fragments
// declaring the same package-level name are reported as duplicate-symbol.
package gen
