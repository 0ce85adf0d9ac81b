package report

import (
	"encoding/json"
	"testing"

	"github.com/eastgenomics/inca-import/internal/domain"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("decoding test document: %v", err)
	}
	return doc
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want domain.SchemaVariant
	}{
		{
			name: "standard positional export",
			raw:  `[{"reportType": "variant-classification"}, {"sample": {}}, {"data": {"evaluations": []}}]`,
			want: domain.SchemaStandard,
		},
		{
			name: "flat export",
			raw:  `{"reportMeta": {}, "sample": {}, "variants": [], "reportDate": "04/02/2023"}`,
			want: domain.SchemaFlat,
		},
		{
			name: "nested export",
			raw:  `{"analysis": {}, "interpretation": {}, "results": {}}`,
			want: domain.SchemaNested,
		},
		{
			name: "array of wrong length",
			raw:  `[{"a": 1}, {"b": 2}]`,
			want: domain.SchemaUnrecognized,
		},
		{
			name: "object with unknown keys",
			raw:  `{"foo": 1, "bar": 2}`,
			want: domain.SchemaUnrecognized,
		},
		{
			name: "flat signature with an extra key",
			raw:  `{"reportMeta": {}, "sample": {}, "variants": [], "reportDate": "x", "extra": 1}`,
			want: domain.SchemaUnrecognized,
		},
		{
			name: "scalar document",
			raw:  `"not a report"`,
			want: domain.SchemaUnrecognized,
		},
		{
			name: "null document",
			raw:  `null`,
			want: domain.SchemaUnrecognized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(decode(t, tt.raw)); got != tt.want {
				t.Errorf("Classify = %q, want %q", got, tt.want)
			}
		})
	}
}
