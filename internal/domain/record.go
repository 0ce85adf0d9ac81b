package domain

import "maps"

// Record is one normalized row destined for testdirectory.inca. Values are
// strings, nil (SQL NULL), or ints (organisation_id). After finalization
// every record in a batch carries an identical key set; keys absent for a
// given record hold NullPlaceholder rather than being omitted, because the
// bulk insert requires a rectangular batch.
type Record map[string]any

// NullPlaceholder pads keys a record never produced a value for. It is a
// literal string in the target table, distinct from SQL NULL, which marks
// fields that were evaluated and found absent.
const NullPlaceholder = "[null]"

// PanelNotFound is stored in the panel field when a report's sample number
// parsed correctly but has no entry in the panel-assignment workbook.
const PanelNotFound = "Sample not in Medicover data"

// Field names shared across packages. Mapping tables address most columns
// by configuration; these are the ones the extractor and finalizer set
// directly.
const (
	FieldLocalID          = "local_id"
	FieldLinkingID        = "linking_id"
	FieldReportEvaluation = "report_evaluation"
	FieldGeneSymbol       = "gene_symbol"
	FieldReported         = "reported"
	FieldPanel            = "panel"
	FieldRCode            = "r_code"
	FieldConditionName    = "preferred_condition_name"
)

// Provenance values stamped on every record. The pipeline serves a single
// submitting laboratory, so none of these derive from input.
const (
	Institution      = "East Genomic Laboratory Hub, NHS Genomic Medicine Service"
	Organisation     = "Cambridge Genomics Laboratory"
	OrganisationID   = 288359
	CollectionMethod = "clinical testing"
	AlleleOrigin     = "germline"
	AffectedStatus   = "yes"
	InterpretedFlag  = "yes"
	ProbesetID       = "Medicover TWE"
)

// ProvenanceFields returns a fresh map of the constants above, keyed by
// target column name.
func ProvenanceFields() map[string]any {
	return map[string]any{
		"institution":       Institution,
		"organisation":      Organisation,
		"organisation_id":   OrganisationID,
		"collection_method": CollectionMethod,
		"allele_origin":     AlleleOrigin,
		"affected_status":   AffectedStatus,
		"interpreted":       InterpretedFlag,
		"probeset_id":       ProbesetID,
	}
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	return maps.Clone(r)
}
