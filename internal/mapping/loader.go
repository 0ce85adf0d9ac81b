package mapping

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/eastgenomics/inca-import/internal/domain"
)

// Load reads a mapping configuration file: a JSON object keyed by schema
// variant name, each value a table. The file replaces the shipped
// defaults wholesale; Validate reports what is missing.
func Load(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mapping configuration: %w", err)
	}
	return Parse(data)
}

// Parse decodes mapping configuration bytes.
func Parse(data []byte) (Set, error) {
	var raw map[string]Table
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing mapping configuration: %w", err)
	}

	set := make(Set, len(raw))
	for name, table := range raw {
		variant := domain.SchemaVariant(name)
		if !variant.IsValid() {
			return nil, fmt.Errorf("mapping configuration names unknown variant %q", name)
		}
		set[variant] = table
	}
	return set, nil
}
