package domain

import "strings"

// ACGSCodes is the reference list of ACGS evidence codes accepted as record
// columns. Codes arriving with a strength qualifier suffix (PM2_Moderate)
// are stripped to the bare code before this list is consulted; anything not
// listed here is dropped from the record entirely.
var ACGSCodes = []string{
	"PVS1",
	"PS1", "PS2", "PS3", "PS4",
	"PM1", "PM2", "PM3", "PM4", "PM5", "PM6",
	"PP1", "PP2", "PP3", "PP4",
	"BA1",
	"BS1", "BS2", "BS3", "BS4",
	"BP1", "BP2", "BP3", "BP4", "BP5", "BP7",
}

var acgsCodeSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(ACGSCodes))
	for _, code := range ACGSCodes {
		set[code] = struct{}{}
	}
	return set
}()

// IsACGSCode reports whether code is in the reference list, ignoring case.
func IsACGSCode(code string) bool {
	_, ok := acgsCodeSet[strings.ToUpper(code)]
	return ok
}

// ACGSColumns returns the record keys the codes are stored under, one per
// reference code, lower-cased.
func ACGSColumns() []string {
	cols := make([]string, len(ACGSCodes))
	for i, code := range ACGSCodes {
		cols[i] = strings.ToLower(code)
	}
	return cols
}
