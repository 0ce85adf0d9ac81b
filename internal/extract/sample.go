package extract

import (
	"regexp"
	"strings"

	"github.com/eastgenomics/inca-import/internal/domain"
)

// Report filenames embed the laboratory sample number as GM<yy>_<serial>;
// the assignment workbook stores the same number dotted.
var sampleIDPattern = regexp.MustCompile(`(?i)GM[0-9]{2}_[0-9]+`)

// ParseSampleID pulls the sample number out of a report name and rewrites
// it to the dotted form used for index lookups.
func ParseSampleID(reportName string) (string, bool) {
	m := sampleIDPattern.FindString(reportName)
	if m == "" {
		return "", false
	}
	return strings.ReplaceAll(m, "_", "."), true
}

// Enrich adds the resolved panel fields for the report's sample to rec. A
// report without a parseable sample number is left alone; a sample the
// index does not know gets the explicit not-found panel value.
func (x *Extractor) Enrich(rec domain.Record, reportName string) {
	if x.panels == nil {
		return
	}
	sampleID, ok := ParseSampleID(reportName)
	if !ok {
		return
	}

	res, found := x.panels.Resolve(sampleID)
	if !found {
		rec[domain.FieldPanel] = domain.PanelNotFound
		return
	}

	display := make([]string, len(res.Panels))
	for i, p := range res.Panels {
		display[i] = strings.Trim(p, "_")
	}
	rec[domain.FieldPanel] = strings.Join(display, ", ")
	if len(res.Codes) > 0 {
		rec[domain.FieldRCode] = strings.Join(res.Codes, ", ")
	}
	if len(res.ConditionNames) > 0 {
		rec[domain.FieldConditionName] = strings.Join(res.ConditionNames, ", ")
	}
}
