package panels

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, cells map[string]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for cell, value := range cells {
		if err := f.SetCellValue("Sheet1", cell, value); err != nil {
			t.Fatalf("setting %s: %v", cell, err)
		}
	}
	path := filepath.Join(t.TempDir(), "assignments.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("saving workbook: %v", err)
	}
	return path
}

func TestLoadAssignments(t *testing.T) {
	path := writeWorkbook(t, map[string]any{
		"A1": "CUH sample number", "B1": "Panels",
		"A2": "GM23.12345", "B2": "_Panel one;Panel two",
		"A3": "GM23.500",
	})

	got, err := LoadAssignments(path)
	if err != nil {
		t.Fatalf("LoadAssignments: %v", err)
	}
	want := []Assignment{
		{SampleID: "GM23.12345", RawPanels: []string{"_Panel one", "Panel two"}},
		{SampleID: "GM23.500"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("assignments = %#v, want %#v", got, want)
	}
}

func TestLoadAssignmentsMissingColumn(t *testing.T) {
	path := writeWorkbook(t, map[string]any{
		"A1": "CUH sample number", "B1": "Something else",
	})

	if _, err := LoadAssignments(path); err == nil {
		t.Fatal("expected an error for a workbook without the panel column")
	}
}

func writeTSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadDisorderReference(t *testing.T) {
	path := writeTSV(t, "reference.tsv",
		"55\tInherited breast cancer and ovarian cancer\t['R208', \"Familial breast cancer\"]\n"+
			"90\tHearing loss\t[]\n")

	got, err := LoadDisorderReference(path)
	if err != nil {
		t.Fatalf("LoadDisorderReference: %v", err)
	}
	want := []ReferencePanel{
		{ID: "55", Name: "Inherited breast cancer and ovarian cancer", Disorders: []string{"R208", "Familial breast cancer"}},
		{ID: "90", Name: "Hearing loss"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("reference = %#v, want %#v", got, want)
	}
}

func TestLoadDisorderReferenceRejectsShortLines(t *testing.T) {
	path := writeTSV(t, "reference.tsv", "55\tonly two fields\n")

	_, err := LoadDisorderReference(path)
	if err == nil || !strings.Contains(err.Error(), "expected at least 3") {
		t.Fatalf("err = %v, want a field-count error", err)
	}
}

func TestLoadRescueMapping(t *testing.T) {
	path := writeTSV(t, "rescue.tsv",
		"Special panel\tCurated special panel\t421\n"+
			"Oddly named request\tCurated request\n"+
			"\n")

	got, err := LoadRescueMapping(path)
	if err != nil {
		t.Fatalf("LoadRescueMapping: %v", err)
	}
	want := []RescueRule{
		{RawPanel: "Special panel", NewPanel: "Curated special panel", RCode: "421"},
		{RawPanel: "Oddly named request", NewPanel: "Curated request"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rules = %#v, want %#v", got, want)
	}
}

func TestParseBracketedList(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{name: "single quoted", raw: "['R207']", want: []string{"R207"}},
		{name: "mixed quoting", raw: `['R207', "Familial cancer"]`, want: []string{"R207", "Familial cancer"}},
		{name: "escaped quote", raw: `['It\'s complicated']`, want: []string{"It's complicated"}},
		{name: "comma inside entry", raw: `['R208, high risk']`, want: []string{"R208, high risk"}},
		{name: "empty list", raw: "[]", want: nil},
		{name: "blank field", raw: "  ", want: nil},
		{name: "not a list", raw: "R207", wantErr: true},
		{name: "unterminated entry", raw: "['R207", wantErr: true},
		{name: "bare entry", raw: "[R207]", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseBracketedList(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseBracketedList(%q) succeeded, want error", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseBracketedList(%q): %v", tt.raw, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseBracketedList(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
