package domain

import "testing"

func TestRecordClone(t *testing.T) {
	rec := Record{
		"gene_symbol":     "BRCA1",
		"pm2":             nil,
		"organisation_id": OrganisationID,
		"chromosome":      NullPlaceholder,
	}

	got := rec.Clone()

	if len(got) != len(rec) {
		t.Fatalf("clone has %d keys, want %d", len(got), len(rec))
	}
	for key, want := range rec {
		v, present := got[key]
		if !present || v != want {
			t.Errorf("clone[%q] = (%v, present=%v), want %v", key, v, present, want)
		}
	}

	got["gene_symbol"] = "TP53"
	got["pm2"] = "Supporting"
	if rec["gene_symbol"] != "BRCA1" {
		t.Errorf("mutating the clone changed the original gene_symbol: %v", rec["gene_symbol"])
	}
	if rec["pm2"] != nil {
		t.Errorf("mutating the clone changed the original pm2: %v", rec["pm2"])
	}
}
