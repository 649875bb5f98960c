package suggest

import (
	"strings"
)

// MinSimilarity is the lowest normalized similarity Closest accepts.
const MinSimilarity = 0.5

// Normalize folds case and strips '_', '-' and spaces, so "bit_and",
// "bitand" and "BitAnd" compare equal.
func Normalize(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range strings.ToLower(s) {
		if r == '_' || r == '-' || r == ' ' {
			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// Closest returns the candidate most similar to name. Ties keep the earlier
// candidate. It reports false when no candidate reaches MinSimilarity or
// when name itself is a candidate.
func Closest(name string, candidates []string) (string, bool) {
	norm := Normalize(name)

	var (
		best  string
		score float64
	)

	for _, c := range candidates {
		if c == name {
			return "", false
		}

		if s := Similarity(norm, Normalize(c)); s > score {
			best, score = c, s
		}
	}

	if score < MinSimilarity {
		return "", false
	}

	return best, true
}

// Hint returns a "did you mean" hint for name, or "" when nothing is close.
func Hint(name string, candidates []string) string {
	if c, ok := Closest(name, candidates); ok {
		return "did you mean " + c + "?"
	}

	return ""
}
