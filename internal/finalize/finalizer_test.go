package finalize

import (
	"maps"
	"strconv"
	"strings"
	"testing"

	"github.com/eastgenomics/inca-import/internal/domain"
)

func TestFinalizeAssignsLinkedIdentifiers(t *testing.T) {
	batch := []domain.Record{
		{"gene_symbol": "BRCA1"},
		{"gene_symbol": "TP53"},
		{"gene_symbol": "MYH7"},
	}

	New().Finalize(batch)

	seen := make(map[any]bool)
	for i, rec := range batch {
		local, linking := rec[domain.FieldLocalID], rec[domain.FieldLinkingID]
		if local == nil || local != linking {
			t.Errorf("record %d: local_id %v and linking_id %v must be equal and set", i, local, linking)
		}
		if !strings.HasPrefix(local.(string), "uid_") {
			t.Errorf("record %d: identifier %v lacks the uid_ prefix", i, local)
		}
		if seen[local] {
			t.Errorf("record %d: identifier %v reused", i, local)
		}
		seen[local] = true
	}
}

func TestFinalizeMirrorsHalfAssignedIdentifiers(t *testing.T) {
	batch := []domain.Record{
		{domain.FieldLocalID: "uid_42"},
		{domain.FieldLinkingID: "uid_43"},
	}

	New().Finalize(batch)

	if batch[0][domain.FieldLinkingID] != "uid_42" {
		t.Errorf("linking_id = %v, want mirrored uid_42", batch[0][domain.FieldLinkingID])
	}
	if batch[1][domain.FieldLocalID] != "uid_43" {
		t.Errorf("local_id = %v, want mirrored uid_43", batch[1][domain.FieldLocalID])
	}
}

func TestFinalizeStampsProvenance(t *testing.T) {
	batch := []domain.Record{
		{"gene_symbol": "BRCA1"},
		{"institution": "already set elsewhere"},
	}

	New().Finalize(batch)

	for key, want := range domain.ProvenanceFields() {
		if batch[0][key] != want {
			t.Errorf("record 0: %s = %v, want %v", key, batch[0][key], want)
		}
	}
	if batch[1]["institution"] != "already set elsewhere" {
		t.Errorf("existing institution overwritten: %v", batch[1]["institution"])
	}
	if batch[1]["organisation_id"] != domain.OrganisationID {
		t.Errorf("record 1: organisation_id = %v", batch[1]["organisation_id"])
	}
}

func TestFinalizeIsRectangular(t *testing.T) {
	batch := []domain.Record{
		{"gene_symbol": "BRCA1", "pm2": "Supporting"},
		{"chromosome": "17"},
	}

	New().Finalize(batch)

	for key := range batch[0] {
		if _, present := batch[1][key]; !present {
			t.Errorf("record 1 missing key %s", key)
		}
	}
	for key := range batch[1] {
		if _, present := batch[0][key]; !present {
			t.Errorf("record 0 missing key %s", key)
		}
	}
	if batch[1]["pm2"] != domain.NullPlaceholder {
		t.Errorf("pm2 = %v, want the placeholder", batch[1]["pm2"])
	}
	if batch[0]["chromosome"] != domain.NullPlaceholder {
		t.Errorf("chromosome = %v, want the placeholder", batch[0]["chromosome"])
	}
}

func TestFinalizeIsIdempotent(t *testing.T) {
	f := New()
	batch := []domain.Record{
		{"gene_symbol": "BRCA1", "pm2": "Supporting"},
		{"gene_symbol": "TP53"},
	}

	f.Finalize(batch)
	snapshots := make([]domain.Record, len(batch))
	for i, rec := range batch {
		snapshots[i] = rec.Clone()
	}

	f.Finalize(batch)
	for i, rec := range batch {
		if !maps.Equal(rec, snapshots[i]) {
			t.Errorf("record %d changed on the second pass:\n got: %v\nwas: %v", i, rec, snapshots[i])
		}
	}
}

func TestGeneratorIssuesIncreasingIDs(t *testing.T) {
	var g Generator
	prev := int64(-1)
	for i := 0; i < 1000; i++ {
		id := g.NextID()
		n, err := strconv.ParseInt(strings.TrimPrefix(id, "uid_"), 10, 64)
		if err != nil {
			t.Fatalf("identifier %q is not uid_<number>: %v", id, err)
		}
		if n <= prev {
			t.Fatalf("identifier %d not increasing: %d after %d", i, n, prev)
		}
		prev = n
	}
}
