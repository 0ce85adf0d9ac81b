package report

import (
	"fmt"

	"github.com/eastgenomics/inca-import/internal/domain"
	"github.com/eastgenomics/inca-import/internal/query"
)

// Where the standard export keeps its evaluations, and the key each
// evaluation keeps its findings under.
const (
	evaluationsPath = ".[2].data.evaluations"
	findingsKey     = "variants"
	resultsKey      = "results"
)

// Findings walks a classified document and returns its findings in
// document order, each paired with its evaluation context and evaluation
// identifier. Structural misses yield fewer findings, never an error:
// empty evaluations still consume an ordinal but contribute nothing.
func Findings(rep domain.Report, variant domain.SchemaVariant, ev *query.Evaluator) []domain.Finding {
	switch variant {
	case domain.SchemaStandard:
		return standardFindings(rep, ev)
	case domain.SchemaFlat:
		return flatFindings(rep)
	case domain.SchemaNested:
		return nestedFindings(rep)
	default:
		return nil
	}
}

func standardFindings(rep domain.Report, ev *query.Evaluator) []domain.Finding {
	raw, ok, err := ev.EvaluateFirst(rep.Document, evaluationsPath)
	if err != nil || !ok {
		return nil
	}
	evaluations, ok := raw.([]any)
	if !ok {
		return nil
	}

	var out []domain.Finding
	for i, evaluation := range evaluations {
		id := fmt.Sprintf("%s-%d", rep.Stem(), i+1)
		if isEmpty(evaluation) {
			continue
		}
		obj, ok := evaluation.(map[string]any)
		if !ok {
			continue
		}
		items, _ := obj[findingsKey].([]any)
		for _, item := range items {
			out = append(out, domain.Finding{
				Data:         item,
				Evaluation:   evaluation,
				EvaluationID: id,
			})
		}
	}
	return out
}

// The flat export is its own single evaluation, findings directly at the
// top level.
func flatFindings(rep domain.Report) []domain.Finding {
	obj, ok := rep.Document.(map[string]any)
	if !ok {
		return nil
	}
	items, _ := obj[findingsKey].([]any)
	id := fmt.Sprintf("%s-1", rep.Stem())

	out := make([]domain.Finding, 0, len(items))
	for _, item := range items {
		out = append(out, domain.Finding{
			Data:         item,
			Evaluation:   rep.Document,
			EvaluationID: id,
		})
	}
	return out
}

// The nested export groups findings by category then encoding type; both
// levels are flattened in sorted key order so extraction order is stable.
func nestedFindings(rep domain.Report) []domain.Finding {
	obj, ok := rep.Document.(map[string]any)
	if !ok {
		return nil
	}
	results, ok := obj[resultsKey].(map[string]any)
	if !ok {
		return nil
	}
	id := fmt.Sprintf("%s-1", rep.Stem())

	var out []domain.Finding
	categories, _ := query.Keys(results)
	for _, category := range categories {
		group, ok := results[category].(map[string]any)
		if !ok {
			continue
		}
		encodings, _ := query.Keys(group)
		for _, encoding := range encodings {
			items, _ := group[encoding].([]any)
			for _, item := range items {
				out = append(out, domain.Finding{
					Data:         item,
					Evaluation:   rep.Document,
					EvaluationID: id,
				})
			}
		}
	}
	return out
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	default:
		return false
	}
}
