// Package extract turns classified findings into normalized records by
// applying the mapping table's per-field strategies, and enriches each
// record with resolved panel metadata for the report's sample number.
package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/eastgenomics/inca-import/internal/domain"
	"github.com/eastgenomics/inca-import/internal/mapping"
	"github.com/eastgenomics/inca-import/internal/query"
)

const isoDateLayout = "2006-01-02"

// Diagnostic reports a non-fatal per-field condition (a malformed date, a
// strategy with no source for the active shape). The batch runner logs and
// counts these; they never fail a record.
type Diagnostic struct {
	Field string
	Err   error
}

// Extractor applies one variant's mapping table to findings. Construct
// once per run; safe to reuse across documents.
type Extractor struct {
	queries *query.Evaluator
	tables  mapping.Set
	panels  domain.PanelResolver
}

// New returns an extractor over the given tables. panels may be nil when
// no panel-assignment data was supplied; records then carry no panel
// fields.
func New(queries *query.Evaluator, tables mapping.Set, panels domain.PanelResolver) *Extractor {
	return &Extractor{queries: queries, tables: tables, panels: panels}
}

// MapFields produces the normalized record for one finding.
func (x *Extractor) MapFields(f domain.Finding, variant domain.SchemaVariant) (domain.Record, []Diagnostic) {
	table, ok := x.tables[variant]
	if !ok {
		return domain.Record{}, nil
	}

	rec := domain.Record{domain.FieldReportEvaluation: f.EvaluationID}
	var diags []Diagnostic
	for _, e := range table.Entries {
		if e.Unsupported {
			// ACGS columns stay absent (the finalizer pads them); single
			// columns are explicitly nulled.
			if e.Strategy != mapping.StrategyACGSCodeStrength && e.Target != "" {
				rec[e.Target] = nil
			}
			diags = append(diags, Diagnostic{Field: e.Target, Err: domain.ErrUnsupportedStrategy})
			continue
		}
		switch e.Strategy {
		case mapping.StrategyDirect, mapping.StrategyPassthrough:
			rec[e.Target] = x.direct(f, e)
		case mapping.StrategyHGVSCJoin:
			rec[e.Target] = x.hgvscJoin(f, e)
		case mapping.StrategyRefAltSplit:
			ref, alt := x.refAltSplit(f, e)
			rec[e.RefTarget] = ref
			rec[e.AltTarget] = alt
		case mapping.StrategyDateReformat:
			value, diag := x.dateReformat(f, e, table.DateLayout)
			rec[e.Target] = value
			if diag != nil {
				diags = append(diags, *diag)
			}
		case mapping.StrategyACGSCodeStrength:
			x.acgsCodes(rec, f, e)
		case mapping.StrategyReportedFlag:
			x.reportedFlag(rec, f, e)
		case mapping.StrategyEffectJoin:
			rec[e.Target] = x.effectJoin(f, e)
		}
	}
	return rec, diags
}

// direct joins all matches with " | ", strips the artifact substring,
// applies the genome-build rewrites, then normalizes casing. The
// gene-symbol target preserves case and falls back to the entry's
// fallback path when the value is absent.
func (x *Extractor) direct(f domain.Finding, e mapping.Entry) any {
	matches, err := x.queries.Evaluate(f.Data, e.Path)
	if err != nil {
		return nil
	}
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, strings.ReplaceAll(renderScalar(m), artifactSubstring, ""))
	}
	value := strings.Join(parts, " | ")
	if canonical, ok := genomeBuildRewrites[value]; ok {
		value = canonical
	}

	if e.Target == domain.FieldGeneSymbol {
		if value == absenceMarker && e.Fallback != "" {
			value = x.geneFallback(f, e.Fallback)
		} else {
			value = strings.ReplaceAll(value, "_", " ")
		}
	} else {
		value = titleToken(value)
	}

	if value == "" || value == absenceMarker {
		return nil
	}
	return value
}

func (x *Extractor) geneFallback(f domain.Finding, expr string) string {
	matches, err := x.queries.Evaluate(f.Data, expr)
	if err != nil || len(matches) == 0 {
		return absenceMarker
	}
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, renderScalar(m))
	}
	return strings.Join(parts, " ")
}

// hgvscJoin collects the first match of each candidate path; a path with
// nothing to say is skipped, never an error. Only the final join is
// conditioned on whether anything was found.
func (x *Extractor) hgvscJoin(f domain.Finding, e mapping.Entry) any {
	var parts []string
	for _, path := range e.Paths {
		v, ok, err := x.queries.EvaluateFirst(f.Data, path)
		if err != nil || !ok || v == nil {
			continue
		}
		if s := renderScalar(v); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	return strings.Join(parts, ":")
}

func (x *Extractor) refAltSplit(f domain.Finding, e mapping.Entry) (any, any) {
	var raw string
	if v, ok, err := x.queries.EvaluateFirst(f.Data, e.Path); err == nil && ok && v != nil {
		raw = renderScalar(v)
	}
	if strings.Contains(raw, "/") {
		halves := strings.SplitN(raw, "/", 2)
		return halves[0], halves[1]
	}
	if e.AltPath == "" {
		return nil, nil
	}

	var ref, alt any
	if raw != "" {
		ref = raw
	}
	if v, ok, err := x.queries.EvaluateFirst(f.Data, e.AltPath); err == nil && ok && v != nil {
		if s := renderScalar(v); s != "" {
			alt = s
		}
	}
	return ref, alt
}

// dateReformat reads from the evaluation context, not the finding: the
// platforms date whole evaluations, not individual alterations.
func (x *Extractor) dateReformat(f domain.Finding, e mapping.Entry, layout string) (any, *Diagnostic) {
	v, ok, err := x.queries.EvaluateFirst(f.Evaluation, e.Path)
	if err != nil || !ok || v == nil {
		return nil, nil
	}
	raw := renderScalar(v)
	parsed, perr := time.Parse(layout, raw)
	if perr != nil {
		return nil, &Diagnostic{
			Field: e.Target,
			Err:   fmt.Errorf("%w: %q does not match layout %s", domain.ErrMalformedDate, raw, layout),
		}
	}
	return parsed.Format(isoDateLayout), nil
}

// acgsCodes stores one record key per recognized code. List matches are
// alternating (code, strength) pairs with a trailing unpaired code
// dropped; string matches are bare codes with a null strength.
func (x *Extractor) acgsCodes(rec domain.Record, f domain.Finding, e mapping.Entry) {
	matches, err := x.queries.Evaluate(f.Data, e.Path)
	if err != nil {
		return
	}
	for _, m := range matches {
		switch criteria := m.(type) {
		case []any:
			for i := 0; i+1 < len(criteria); i += 2 {
				storeCode(rec, criteria[i], criteria[i+1])
			}
		case string:
			storeCode(rec, criteria, nil)
		}
	}
}

func storeCode(rec domain.Record, rawCode, rawStrength any) {
	code, ok := rawCode.(string)
	if !ok {
		return
	}
	code = strings.SplitN(code, "_", 2)[0]
	if !domain.IsACGSCode(code) {
		return
	}
	key := strings.ToLower(code)

	if rawStrength == nil {
		rec[key] = nil
		return
	}
	strength, ok := rawStrength.(string)
	if !ok {
		rec[key] = nil
		return
	}
	normalized := titleToken(strength)
	if normalized == "Standalone" {
		normalized = "Stand-Alone"
	}
	rec[key] = normalized
}

// reportedFlag only commits a value on exactly one match. The literal
// REPORTING status maps to "yes"; any other single value, null included,
// maps to "no". Zero or many matches leave the field unset.
func (x *Extractor) reportedFlag(rec domain.Record, f domain.Finding, e mapping.Entry) {
	matches, err := x.queries.Evaluate(f.Data, e.Path)
	if err != nil {
		return
	}
	if len(matches) != 1 {
		return
	}
	if renderScalar(matches[0]) == "REPORTING" {
		rec[e.Target] = "yes"
	} else {
		rec[e.Target] = "no"
	}
}

func (x *Extractor) effectJoin(f domain.Finding, e mapping.Entry) any {
	matches, err := x.queries.Evaluate(f.Data, e.Path)
	if err != nil {
		return nil
	}
	var parts []string
	for _, m := range matches {
		if m == nil {
			continue
		}
		parts = append(parts, renderScalar(m))
	}
	if len(parts) == 0 {
		return nil
	}
	return strings.Join(parts, "&")
}
