package annotation

import (
	"github.com/cockroachdb/errors"

	"derive-generator/internal/decl"
	"derive-generator/internal/diagnostic"
)

// Find returns the single annotation with the given keyword, or nil when none
// is present. Annotations with other keywords are ignored. A keyword that
// occurs more than once is reported at its second occurrence.
func Find(keyword string, annotations []decl.Annotation) (*decl.Annotation, error) {
	var found *decl.Annotation

	for i := range annotations {
		a := &annotations[i]
		if a.Keyword != keyword {
			continue
		}

		if found != nil {
			return nil, errors.WithStack(&diagnostic.DuplicateAnnotationError{
				Keyword: keyword,
				Pos:     a.Pos,
				First:   found.Pos,
			})
		}

		found = a
	}

	return found, nil
}
