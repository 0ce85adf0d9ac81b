// Package domain contains the core vocabulary for normalizing Medicover
// variant reports into INCA curation rows: the report schema variants, the
// normalized record shape, the ACGS evidence code reference list, and the
// provenance constants stamped onto every imported row.
package domain

import (
	"path/filepath"
	"strings"
)

// SchemaVariant identifies which of the known report document shapes a
// document uses. The reporting platform has shipped three structurally
// distinct export formats over time; classification happens once per
// document, from its top-level shape, and drives every downstream
// field-mapping decision.
//
// Not to be confused with a genomic variant, which this package calls a
// Finding.
type SchemaVariant string

const (
	// SchemaStandard is the positional export: a top-level array of exactly
	// three elements, with evaluations nested under the third.
	SchemaStandard SchemaVariant = "standard"

	// SchemaFlat is the newer named-key export with findings already in a
	// flat top-level sequence.
	SchemaFlat SchemaVariant = "flat"

	// SchemaNested is the oldest named-key export, grouping findings two
	// levels deep by category and encoding type.
	SchemaNested SchemaVariant = "nested"

	// SchemaUnrecognized marks a document matching none of the known
	// signatures. Such documents are skipped and counted, never fatal.
	SchemaUnrecognized SchemaVariant = "unrecognized"
)

// IsValid reports whether v is one of the three processable shapes.
// SchemaUnrecognized is a legal classification result but not a valid
// shape to extract from.
func (v SchemaVariant) IsValid() bool {
	switch v {
	case SchemaStandard, SchemaFlat, SchemaNested:
		return true
	default:
		return false
	}
}

func (v SchemaVariant) String() string {
	return string(v)
}

// Report pairs a deserialized report document with its external name. The
// name carries the evaluation identifier stem and the laboratory sample
// number, so it travels with the document through extraction.
type Report struct {
	Name     string
	Document any
}

// Stem returns the report name with any directory prefix and file
// extension removed, used as the prefix of evaluation identifiers.
func (r Report) Stem() string {
	base := filepath.Base(r.Name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Finding is one reported genomic alteration within an evaluation. Each
// finding is mapped independently into exactly one Record. Evaluation is
// the enclosing evaluation object, kept because some fields (the
// evaluation date) live there rather than on the finding itself.
type Finding struct {
	Data         any
	Evaluation   any
	EvaluationID string
}
