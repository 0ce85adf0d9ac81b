package service

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/eastgenomics/inca-import/internal/domain"
)

// DefaultDumpName is where the import command writes finalized batches
// when asked to persist them for later re-import.
const DefaultDumpName = "json_dump_ready_for_import.json"

// WriteDump serializes finalized records as pretty-printed JSON with
// two-space indentation, the format ReadDump and downstream review
// tooling expect.
func WriteDump(path string, records []domain.Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing records: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing dump %s: %w", path, err)
	}
	return nil
}

// ReadDump loads a previously written dump for direct database import,
// bypassing extraction.
func ReadDump(path string) ([]domain.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dump %s: %w", path, err)
	}
	var records []domain.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing dump %s: %w", path, err)
	}
	return records, nil
}
