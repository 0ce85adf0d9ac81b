// Package mapping holds the per-variant field mapping tables: which path
// expression feeds which target column, under which extraction strategy.
// The tables are configuration (shipped defaults, overridable from a JSON
// file); the strategy semantics live in the extract package.
package mapping

import (
	"fmt"

	"github.com/eastgenomics/inca-import/internal/domain"
	"github.com/eastgenomics/inca-import/internal/query"
)

// Strategy tags how an entry's path results become a record value.
type Strategy string

const (
	// StrategyDirect renders and joins all matches, applies the known
	// value rewrites, and normalizes casing. StrategyPassthrough is an
	// accepted alias with identical behavior.
	StrategyDirect      Strategy = "direct"
	StrategyPassthrough Strategy = "passthrough"

	// StrategyHGVSCJoin joins the first match of each candidate path
	// with ":".
	StrategyHGVSCJoin Strategy = "hgvsc_join"

	// StrategyRefAltSplit splits a combined "ref/alt" value, or reads the
	// alternate allele from a secondary path when the shape stores the
	// alleles separately.
	StrategyRefAltSplit Strategy = "refalt_split"

	// StrategyDateReformat parses the evaluation date with the table's
	// input layout and re-emits it as year-month-day.
	StrategyDateReformat Strategy = "date_reformat"

	// StrategyACGSCodeStrength decomposes evidence criteria into one
	// column per ACGS code carrying the normalized strength.
	StrategyACGSCodeStrength Strategy = "acgs_code_strength"

	// StrategyReportedFlag maps a single "REPORTING" status match to
	// yes/no.
	StrategyReportedFlag Strategy = "reported_flag"

	// StrategyEffectJoin joins consequence ontology terms with "&".
	StrategyEffectJoin Strategy = "effect_join"
)

// IsValid reports whether s is a known strategy tag.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyDirect, StrategyPassthrough, StrategyHGVSCJoin, StrategyRefAltSplit,
		StrategyDateReformat, StrategyACGSCodeStrength, StrategyReportedFlag, StrategyEffectJoin:
		return true
	default:
		return false
	}
}

// Entry maps one target column (or, for refalt_split, a pair of columns)
// to its source path under a strategy. Unsupported entries declare that
// the active shape has no source for the strategy at all; the extractor
// records a diagnostic instead of guessing.
type Entry struct {
	Target      string   `json:"target"`
	Strategy    Strategy `json:"strategy"`
	Path        string   `json:"path,omitempty"`
	Paths       []string `json:"paths,omitempty"`
	AltPath     string   `json:"alt_path,omitempty"`
	Fallback    string   `json:"fallback,omitempty"`
	RefTarget   string   `json:"ref_target,omitempty"`
	AltTarget   string   `json:"alt_target,omitempty"`
	Unsupported bool     `json:"unsupported,omitempty"`
}

// Table is one schema variant's mapping: its input date layout (a Go
// reference layout) and its field entries.
type Table struct {
	DateLayout string  `json:"date_layout"`
	Entries    []Entry `json:"fields"`
}

// Set holds one table per processable schema variant.
type Set map[domain.SchemaVariant]Table

// Validate checks every table for structural completeness and compiles
// every path expression once, so configuration mistakes surface at load
// time rather than finding-by-finding.
func (s Set) Validate(ev *query.Evaluator) error {
	for _, variant := range []domain.SchemaVariant{domain.SchemaStandard, domain.SchemaFlat, domain.SchemaNested} {
		table, ok := s[variant]
		if !ok {
			return fmt.Errorf("no mapping table for the %s variant", variant)
		}
		if err := table.validate(variant, ev); err != nil {
			return err
		}
	}
	return nil
}

func (t Table) validate(variant domain.SchemaVariant, ev *query.Evaluator) error {
	for _, e := range t.Entries {
		if !e.Strategy.IsValid() {
			return fmt.Errorf("%s table: entry %q: unknown strategy %q", variant, e.Target, e.Strategy)
		}
		if e.Target == "" && e.Strategy != StrategyRefAltSplit {
			return fmt.Errorf("%s table: entry with strategy %s has no target", variant, e.Strategy)
		}
		if e.Unsupported {
			continue
		}
		switch e.Strategy {
		case StrategyHGVSCJoin:
			if len(e.Paths) == 0 {
				return fmt.Errorf("%s table: entry %q: hgvsc_join needs candidate paths", variant, e.Target)
			}
		case StrategyRefAltSplit:
			if e.Path == "" || e.RefTarget == "" || e.AltTarget == "" {
				return fmt.Errorf("%s table: refalt_split needs a path and both targets", variant)
			}
		case StrategyDateReformat:
			if e.Path == "" {
				return fmt.Errorf("%s table: entry %q: date_reformat needs a path", variant, e.Target)
			}
			if t.DateLayout == "" {
				return fmt.Errorf("%s table: date_reformat entries need the table's date_layout", variant)
			}
		default:
			if e.Path == "" {
				return fmt.Errorf("%s table: entry %q: strategy %s needs a path", variant, e.Target, e.Strategy)
			}
		}
		for _, expr := range e.paths() {
			if err := ev.Check(expr); err != nil {
				return fmt.Errorf("%s table: entry %q: %w", variant, e.Target, err)
			}
		}
	}
	return nil
}

// paths returns every path expression the entry references.
func (e Entry) paths() []string {
	var out []string
	if e.Path != "" {
		out = append(out, e.Path)
	}
	out = append(out, e.Paths...)
	if e.AltPath != "" {
		out = append(out, e.AltPath)
	}
	if e.Fallback != "" {
		out = append(out, e.Fallback)
	}
	return out
}
