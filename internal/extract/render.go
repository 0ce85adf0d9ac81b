package extract

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// absenceMarker is how a null path match renders. The direct strategy
// rewrites a final value equal to it back to null; the gene-symbol
// fallback triggers on it.
const absenceMarker = "None"

// artifactSubstring is boilerplate the reporting platform embeds in some
// free-text values; it is stripped from every direct match before joining.
const artifactSubstring = ", which is"

// genomeBuildRewrites maps the legacy build spellings to their canonical
// labels. Applied to the joined direct value before casing normalization,
// so the stored form is the title-cased rendering of the label.
var genomeBuildRewrites = map[string]string{
	"GRCh_37_g1k,Chromosome,Homo sapiens": "GRCh37.p13",
	"GRCh_38,Chromosome,Homo sapiens":     "GRCh38.p14",
}

// renderScalar renders a path match for storage in a record field.
// Integral numbers render without a decimal point regardless of how the
// JSON decoder typed them.
func renderScalar(v any) string {
	switch t := v.(type) {
	case nil:
		return absenceMarker
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case *big.Int:
		return t.String()
	default:
		// Containers reaching a scalar field are unexpected but must not
		// crash a batch; render them as their JSON form.
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}

// titleToken lower-cases a value, capitalizes its first rune, and turns
// underscores into spaces: LIKELY_PATHOGENIC becomes "Likely pathogenic".
func titleToken(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	r, size := utf8.DecodeRuneInString(lower)
	capped := string(unicode.ToUpper(r)) + lower[size:]
	return strings.ReplaceAll(capped, "_", " ")
}
