package domain

import "errors"

// Batch processing never halts on a per-document or per-field problem;
// these sentinels classify the diagnostics the run summary counts.
var (
	// ErrUnrecognizedSchema marks a document whose top-level shape matches
	// none of the known signatures. The document is skipped and counted.
	ErrUnrecognizedSchema = errors.New("unrecognized report schema")

	// ErrUnsupportedStrategy marks a mapping strategy with no defined
	// source for the active schema variant (ACGS codes and the reported
	// flag on the nested shape).
	ErrUnsupportedStrategy = errors.New("strategy not applicable for this schema variant")

	// ErrMalformedDate marks an evaluation date that failed to parse
	// against the variant's expected pattern. The field is nulled.
	ErrMalformedDate = errors.New("malformed evaluation date")
)
