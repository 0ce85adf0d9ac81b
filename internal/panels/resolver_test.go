package panels

import (
	"reflect"
	"testing"
)

func TestBuildContainmentUnion(t *testing.T) {
	assignments := []Assignment{
		{SampleID: "gm23.12345", RawPanels: []string{
			"_Inherited breast cancer and ovarian cancer_v4",
			"Thoracic aortic aneurysm or dissection GMS",
		}},
	}
	reference := []ReferencePanel{
		{ID: "55", Name: "Inherited breast cancer and ovarian cancer", Disorders: []string{"R208"}},
		{ID: "700", Name: "Thoracic aortic aneurysm or dissection", Disorders: []string{"R127", "Familial TAAD"}},
		{ID: "90", Name: "Hearing loss", Disorders: []string{"R67"}},
	}

	idx := Build(assignments, reference, nil)
	res, ok := idx.Resolve("GM23.12345")
	if !ok {
		t.Fatal("sample not resolved")
	}

	wantPanels := []string{
		"_Inherited breast cancer and ovarian cancer_v4",
		"Thoracic aortic aneurysm or dissection GMS",
	}
	if !reflect.DeepEqual(res.Panels, wantPanels) {
		t.Errorf("panels = %v, want %v", res.Panels, wantPanels)
	}
	wantCodes := []string{"R127", "R208"}
	if !reflect.DeepEqual(res.Codes, wantCodes) {
		t.Errorf("codes = %v, want %v", res.Codes, wantCodes)
	}
	wantNames := []string{
		"Inherited breast cancer and ovarian cancer",
		"Thoracic aortic aneurysm or dissection",
	}
	if !reflect.DeepEqual(res.ConditionNames, wantNames) {
		t.Errorf("condition names = %v, want %v", res.ConditionNames, wantNames)
	}
}

func TestBuildRescuePrecedence(t *testing.T) {
	assignments := []Assignment{
		{SampleID: "GM23.77", RawPanels: []string{"_Special panel"}},
	}
	// The reference would also match; the rescue entry must win outright.
	reference := []ReferencePanel{
		{ID: "1", Name: "Special panel", Disorders: []string{"R999"}},
	}
	rescue := []RescueRule{
		{RawPanel: "Special panel", NewPanel: "Curated special panel", RCode: "421"},
		{RawPanel: "Special panel", NewPanel: "Later duplicate rule", RCode: "422"},
	}

	idx := Build(assignments, reference, rescue)
	res, ok := idx.Resolve("GM23.77")
	if !ok {
		t.Fatal("sample not resolved")
	}
	if !reflect.DeepEqual(res.Codes, []string{"R421"}) {
		t.Errorf("codes = %v, want [R421]", res.Codes)
	}
	if !reflect.DeepEqual(res.ConditionNames, []string{"Curated special panel"}) {
		t.Errorf("condition names = %v, want the first rescue rule only", res.ConditionNames)
	}
}

func TestBuildRescueWithoutCode(t *testing.T) {
	assignments := []Assignment{
		{SampleID: "GM23.78", RawPanels: []string{"Oddly named request"}},
	}
	rescue := []RescueRule{
		{RawPanel: "Oddly named request", NewPanel: "Curated request"},
	}

	idx := Build(assignments, nil, rescue)
	res, _ := idx.Resolve("GM23.78")
	if len(res.Codes) != 0 {
		t.Errorf("codes = %v, want none", res.Codes)
	}
	if !reflect.DeepEqual(res.ConditionNames, []string{"Curated request"}) {
		t.Errorf("condition names = %v", res.ConditionNames)
	}
}

func TestBuildMatchesDisorderOnEarlyPanel(t *testing.T) {
	// The disorder hit is on the first raw panel; the scan over the
	// remaining panels must not wash it out.
	assignments := []Assignment{
		{SampleID: "GM23.80", RawPanels: []string{"Ataxia telangiectasia workup", "Unrelated request"}},
	}
	reference := []ReferencePanel{
		{ID: "3", Name: "Cerebellar ataxia", Disorders: []string{"R54", "Ataxia telangiectasia"}},
	}

	idx := Build(assignments, reference, nil)
	res, _ := idx.Resolve("GM23.80")
	if !reflect.DeepEqual(res.Codes, []string{"R54"}) {
		t.Errorf("codes = %v, want [R54]", res.Codes)
	}
	if !reflect.DeepEqual(res.ConditionNames, []string{"Cerebellar ataxia"}) {
		t.Errorf("condition names = %v", res.ConditionNames)
	}
}

func TestBuildIgnoresUncodedReferencePanels(t *testing.T) {
	assignments := []Assignment{
		{SampleID: "GM23.81", RawPanels: []string{"Research list extended"}},
	}
	reference := []ReferencePanel{
		{ID: "4", Name: "Research list", Disorders: []string{"no code attributed yet"}},
	}

	idx := Build(assignments, reference, nil)
	res, ok := idx.Resolve("GM23.81")
	if !ok {
		t.Fatal("sample not resolved")
	}
	if len(res.Codes) != 0 || len(res.ConditionNames) != 0 {
		t.Errorf("uncoded reference panel contributed: codes=%v names=%v", res.Codes, res.ConditionNames)
	}
	if !reflect.DeepEqual(res.Panels, []string{"Research list extended"}) {
		t.Errorf("panels = %v", res.Panels)
	}
}

func TestResolveIsCaseInsensitive(t *testing.T) {
	idx := Build([]Assignment{{SampleID: "gm19.4410", RawPanels: []string{"Hearing loss"}}}, nil, nil)

	for _, id := range []string{"GM19.4410", "gm19.4410"} {
		if _, ok := idx.Resolve(id); !ok {
			t.Errorf("Resolve(%q) missed", id)
		}
	}
	if _, ok := idx.Resolve("GM19.9999"); ok {
		t.Error("unknown sample resolved")
	}
	if idx.Len() != 1 {
		t.Errorf("Len() = %d, want 1", idx.Len())
	}
}

func TestRescueSignature(t *testing.T) {
	tests := []struct {
		name   string
		panels []string
		want   string
	}{
		{name: "leading underscores stripped", panels: []string{"_Panel one", "__Panel two"}, want: "Panel one, Panel two"},
		{name: "inner underscores kept", panels: []string{"_Panel_one_"}, want: "Panel_one_"},
		{name: "single panel", panels: []string{"Hearing loss"}, want: "Hearing loss"},
		{name: "no panels", panels: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rescueSignature(tt.panels); got != tt.want {
				t.Errorf("rescueSignature(%v) = %q, want %q", tt.panels, got, tt.want)
			}
		})
	}
}
