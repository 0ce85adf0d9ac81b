package report

import (
	"testing"

	"github.com/eastgenomics/inca-import/internal/domain"
	"github.com/eastgenomics/inca-import/internal/query"
)

func newEvaluator(t *testing.T) *query.Evaluator {
	t.Helper()
	ev, err := query.NewEvaluator(0)
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}
	return ev
}

func TestStandardFindings(t *testing.T) {
	doc := decode(t, `[
		{"reportType": "variant-classification"},
		{"sample": {"name": "GM23_12345"}},
		{"data": {"evaluations": [
			{"classificationDate": "03/21/2023", "variants": [
				{"geneName": "BRCA1"},
				{"geneName": "BRCA2"}
			]},
			{},
			{"classificationDate": "03/22/2023", "variants": [
				{"geneName": "TP53"}
			]}
		]}}
	]`)
	rep := domain.Report{Name: "GM23_12345-TWE.json", Document: doc}

	findings := Findings(rep, domain.SchemaStandard, newEvaluator(t))
	if len(findings) != 3 {
		t.Fatalf("got %d findings, want 3", len(findings))
	}

	// The empty second evaluation still consumes an ordinal.
	wantIDs := []string{"GM23_12345-TWE-1", "GM23_12345-TWE-1", "GM23_12345-TWE-3"}
	for i, f := range findings {
		if f.EvaluationID != wantIDs[i] {
			t.Errorf("finding %d EvaluationID = %q, want %q", i, f.EvaluationID, wantIDs[i])
		}
	}

	first, ok := findings[0].Data.(map[string]any)
	if !ok || first["geneName"] != "BRCA1" {
		t.Errorf("finding 0 data = %#v, want the BRCA1 entry", findings[0].Data)
	}
	eval, ok := findings[2].Evaluation.(map[string]any)
	if !ok || eval["classificationDate"] != "03/22/2023" {
		t.Errorf("finding 2 carries the wrong evaluation context: %#v", findings[2].Evaluation)
	}
}

func TestStandardFindingsWithoutEvaluations(t *testing.T) {
	doc := decode(t, `[{"a": 1}, {"b": 2}, {"data": {}}]`)
	rep := domain.Report{Name: "r.json", Document: doc}
	if findings := Findings(rep, domain.SchemaStandard, newEvaluator(t)); findings != nil {
		t.Errorf("got %d findings from a payload without evaluations, want none", len(findings))
	}
}

func TestFlatFindings(t *testing.T) {
	doc := decode(t, `{
		"reportMeta": {},
		"sample": {},
		"reportDate": "04/02/2023",
		"variants": [
			{"gene": "TP53"},
			{"gene": "MLH1"}
		]
	}`)
	rep := domain.Report{Name: "GM23_777-panel.json", Document: doc}

	findings := Findings(rep, domain.SchemaFlat, newEvaluator(t))
	if len(findings) != 2 {
		t.Fatalf("got %d findings, want 2", len(findings))
	}
	for i, f := range findings {
		if f.EvaluationID != "GM23_777-panel-1" {
			t.Errorf("finding %d EvaluationID = %q", i, f.EvaluationID)
		}
		// The whole document is the evaluation context for the flat shape.
		eval, ok := f.Evaluation.(map[string]any)
		if !ok || eval["reportDate"] != "04/02/2023" {
			t.Errorf("finding %d evaluation context = %#v", i, f.Evaluation)
		}
	}
}

func TestNestedFindingsFlattenInSortedOrder(t *testing.T) {
	doc := decode(t, `{
		"analysis": {},
		"interpretation": {"reportedDate": "21/03/2023"},
		"results": {
			"smallVariants": {
				"vcf": [{"geneSymbol": "D"}],
				"hgvs": [{"geneSymbol": "C"}]
			},
			"cnvs": {
				"vcf": [{"geneSymbol": "A"}, {"geneSymbol": "B"}]
			}
		}
	}`)
	rep := domain.Report{Name: "GM22_100.json", Document: doc}

	findings := Findings(rep, domain.SchemaNested, newEvaluator(t))
	if len(findings) != 4 {
		t.Fatalf("got %d findings, want 4", len(findings))
	}

	// cnvs before smallVariants, hgvs before vcf.
	var genes []string
	for _, f := range findings {
		obj := f.Data.(map[string]any)
		genes = append(genes, obj["geneSymbol"].(string))
	}
	want := []string{"A", "B", "C", "D"}
	for i := range want {
		if genes[i] != want[i] {
			t.Fatalf("flattened order = %v, want %v", genes, want)
		}
	}
}

func TestFindingsForUnrecognizedVariant(t *testing.T) {
	rep := domain.Report{Name: "r.json", Document: map[string]any{}}
	if findings := Findings(rep, domain.SchemaUnrecognized, newEvaluator(t)); findings != nil {
		t.Errorf("unrecognized variant produced findings")
	}
}
