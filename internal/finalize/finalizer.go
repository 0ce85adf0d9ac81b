// Package finalize completes a batch of normalized records before hand-off
// to storage: linking identifiers, fixed provenance values, and the
// rectangular key fill the bulk insert requires.
package finalize

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/eastgenomics/inca-import/internal/domain"
)

// Generator issues unique linking identifiers from the version-1 UUID
// timestamp, bumped past the last issued value whenever the clock reads
// the same tick twice. Safe for concurrent use.
type Generator struct {
	mu   sync.Mutex
	last int64
}

// NextID returns a fresh identifier. Values increase strictly within a
// process and, clock permitting, across runs.
func (g *Generator) NextID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.last + 1
	if ts, _, err := uuid.GetTime(); err == nil && int64(ts) > g.last {
		n = int64(ts)
	}
	g.last = n
	return fmt.Sprintf("uid_%d", n)
}

// Finalizer squares up a record batch: every record leaves with a linking
// identifier pair, the provenance constants, and the union key set of the
// batch (absent values filled with the explicit placeholder).
type Finalizer struct {
	ids Generator
}

func New() *Finalizer {
	return &Finalizer{}
}

// Finalize mutates records in place and returns the same slice. It is
// idempotent: identifiers, provenance values and field values already
// present are never overwritten, so re-finalizing a batch only fills keys
// genuinely missing.
func (f *Finalizer) Finalize(records []domain.Record) []domain.Record {
	for _, rec := range records {
		f.assignIDs(rec)
		stampProvenance(rec)
	}
	fillMissing(records)
	return records
}

// assignIDs gives a record its local/linking pair. A record carrying one
// half keeps it and has the other half mirrored from it.
func (f *Finalizer) assignIDs(rec domain.Record) {
	_, hasLocal := rec[domain.FieldLocalID]
	_, hasLinking := rec[domain.FieldLinkingID]
	switch {
	case hasLocal && hasLinking:
	case hasLocal:
		rec[domain.FieldLinkingID] = rec[domain.FieldLocalID]
	case hasLinking:
		rec[domain.FieldLocalID] = rec[domain.FieldLinkingID]
	default:
		id := f.ids.NextID()
		rec[domain.FieldLocalID] = id
		rec[domain.FieldLinkingID] = id
	}
}

func stampProvenance(rec domain.Record) {
	for key, value := range domain.ProvenanceFields() {
		if _, present := rec[key]; !present {
			rec[key] = value
		}
	}
}

// fillMissing back-fills every record with the union key set of the
// batch, so bulk insertion sees one uniform column list.
func fillMissing(records []domain.Record) {
	keys := make(map[string]struct{})
	for _, rec := range records {
		for k := range rec {
			keys[k] = struct{}{}
		}
	}
	for _, rec := range records {
		for k := range keys {
			if _, present := rec[k]; !present {
				rec[k] = domain.NullPlaceholder
			}
		}
	}
}
