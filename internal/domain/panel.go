package domain

// PanelResolution is what the panel index knows about one sample: the raw
// panel list from the assignment workbook, plus the report codes and
// condition names resolved for it, both sorted.
type PanelResolution struct {
	Panels         []string
	Codes          []string
	ConditionNames []string
}

// PanelResolver answers point lookups against a pre-built sample panel
// index. Implementations must be read-only after construction.
type PanelResolver interface {
	Resolve(sampleID string) (PanelResolution, bool)
}
