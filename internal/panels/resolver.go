// Package panels builds the sample-to-panel index consulted during record
// enrichment. The index is assembled once per run from three auxiliary
// inputs (the laboratory assignment workbook, a reference panel dump and a
// manual rescue mapping) and is read-only afterwards.
package panels

import (
	"regexp"
	"sort"
	"strings"

	"github.com/eastgenomics/inca-import/internal/domain"
)

// Assignment is one workbook row tying a laboratory sample number to the
// raw panel strings ordered for it.
type Assignment struct {
	SampleID  string
	RawPanels []string
}

// ReferencePanel is one reference dump row: a panel and the free-text
// disorders it is relevant for.
type ReferencePanel struct {
	ID        string
	Name      string
	Disorders []string
}

// RescueRule maps one exact raw-panel signature to a curated panel name
// and report code. The code is stored as bare digits, without its R
// prefix.
type RescueRule struct {
	RawPanel string
	NewPanel string
	RCode    string
}

// reportCodePattern recognizes disorder strings that carry a report code.
var reportCodePattern = regexp.MustCompile(`R[0-9]+`)

// Index resolves sample numbers to panel metadata. Build it once; it is
// safe for concurrent readers afterwards.
type Index struct {
	samples map[string]resolution
}

var _ domain.PanelResolver = (*Index)(nil)

type resolution struct {
	rawPanels []string
	names     map[string]struct{}
	codes     map[string]struct{}
}

// Build assembles the index. Every sample's raw-panel signature is first
// checked against the rescue mapping; the first matching rule wins and
// suppresses containment matching entirely. Unrescued samples are matched
// against every reference panel whose disorders carry a report code: when
// the panel's name or any of its disorders is a substring of one of the
// sample's raw panels, the panel's name and coded disorders accumulate
// onto the sample. A sample can collect from several reference panels.
func Build(assignments []Assignment, reference []ReferencePanel, rescue []RescueRule) *Index {
	idx := &Index{samples: make(map[string]resolution, len(assignments))}
	for _, a := range assignments {
		idx.samples[strings.ToUpper(a.SampleID)] = resolution{
			rawPanels: a.RawPanels,
			names:     make(map[string]struct{}),
			codes:     make(map[string]struct{}),
		}
	}

	// The coded-disorder summary per reference panel; panels without one
	// never contribute to a sample.
	codeInfo := make([]string, len(reference))
	for i, rp := range reference {
		var coded []string
		for _, d := range rp.Disorders {
			if reportCodePattern.MatchString(d) {
				coded = append(coded, d)
			}
		}
		codeInfo[i] = strings.Join(coded, ", ")
	}

	for _, res := range idx.samples {
		if applyRescue(res, rescue) {
			continue
		}
		for i, rp := range reference {
			if codeInfo[i] == "" {
				continue
			}
			if matchesAny(res.rawPanels, rp) {
				res.codes[codeInfo[i]] = struct{}{}
				res.names[rp.Name] = struct{}{}
			}
		}
	}
	return idx
}

func applyRescue(res resolution, rescue []RescueRule) bool {
	signature := rescueSignature(res.rawPanels)
	for _, r := range rescue {
		if signature != r.RawPanel {
			continue
		}
		if r.RCode != "" {
			res.codes["R"+r.RCode] = struct{}{}
		}
		res.names[r.NewPanel] = struct{}{}
		return true
	}
	return false
}

// rescueSignature is the exact-match key for rescue lookups: the raw
// panels with leading underscores stripped, comma-joined.
func rescueSignature(rawPanels []string) string {
	parts := make([]string, len(rawPanels))
	for i, p := range rawPanels {
		parts[i] = strings.TrimLeft(p, "_")
	}
	return strings.Join(parts, ", ")
}

func matchesAny(rawPanels []string, rp ReferencePanel) bool {
	for _, raw := range rawPanels {
		if strings.Contains(raw, rp.Name) {
			return true
		}
		for _, d := range rp.Disorders {
			if strings.Contains(raw, d) {
				return true
			}
		}
	}
	return false
}

// Resolve returns the panel metadata recorded for a sample number. The
// lookup is case-insensitive; ok is false for samples absent from the
// assignment data. Set-valued results come back sorted so rendered record
// fields are stable run to run.
func (x *Index) Resolve(sampleID string) (domain.PanelResolution, bool) {
	res, ok := x.samples[strings.ToUpper(sampleID)]
	if !ok {
		return domain.PanelResolution{}, false
	}
	return domain.PanelResolution{
		Panels:         append([]string(nil), res.rawPanels...),
		Codes:          sortedKeys(res.codes),
		ConditionNames: sortedKeys(res.names),
	}, true
}

// Len reports how many samples the index covers.
func (x *Index) Len() int {
	return len(x.samples)
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
