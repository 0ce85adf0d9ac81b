// Package report classifies Medicover report documents into their schema
// variant and walks the classified document to its findings.
package report

import (
	"slices"

	"github.com/eastgenomics/inca-import/internal/domain"
	"github.com/eastgenomics/inca-import/internal/query"
)

// The standard export is positional: a top-level array of exactly this many
// elements. The other shapes are recognized by their top-level key sets.
const standardElements = 3

var (
	flatSignature   = []string{"reportDate", "reportMeta", "sample", "variants"}
	nestedSignature = []string{"analysis", "interpretation", "results"}
)

// Classify determines which schema variant a document uses from its
// top-level shape alone. Documents matching no signature classify as
// SchemaUnrecognized and must be skipped by the caller.
func Classify(doc any) domain.SchemaVariant {
	if arr, ok := doc.([]any); ok {
		if len(arr) == standardElements {
			return domain.SchemaStandard
		}
		return domain.SchemaUnrecognized
	}

	keys, ok := query.Keys(doc)
	if !ok {
		return domain.SchemaUnrecognized
	}
	switch {
	case slices.Equal(keys, flatSignature):
		return domain.SchemaFlat
	case slices.Equal(keys, nestedSignature):
		return domain.SchemaNested
	default:
		return domain.SchemaUnrecognized
	}
}
