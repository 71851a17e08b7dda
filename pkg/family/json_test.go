package family

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

const sampleJSON = `{
  "proband": "10001-01-001",
  "people": {
    "10001-01-001": {"mother": "10001-01-003", "father": "10001-01-002", "demographics": {"gender": "Male"}},
    "10001-01-003": {"mother": "", "father": "", "demographics": {"gender": "Female"}, "deceased": "2001-04-02"},
    "10001-01-002": {"demographics": {"gender": "Male"}, "name": "Dad", "deceased": true}
  }
}`

func TestReadJSON(t *testing.T) {
	ds, err := ReadJSON(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("ReadJSON error: %v", err)
	}
	if ds.Proband != "10001-01-001" {
		t.Errorf("Proband = %q", ds.Proband)
	}
	want := []string{"10001-01-001", "10001-01-003", "10001-01-002"}
	if got := ds.IDs(); !slices.Equal(got, want) {
		t.Errorf("IDs() = %v, want file order %v", got, want)
	}

	m, _ := ds.Person("10001-01-003")
	if m.Gender != GenderFemale || m.MotherID != "" || m.Deceased != "2001-04-02" {
		t.Errorf("mother = %+v", m)
	}
	f, _ := ds.Person("10001-01-002")
	if f.Name != "Dad" || !f.IsDeceased() {
		t.Errorf("father = %+v", f)
	}
	if ds.FamilyID() != "10001" {
		t.Errorf("FamilyID() = %q, want 10001", ds.FamilyID())
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "{"},
		{"people array", `{"proband": "a", "people": []}`},
		{"bad person", `{"proband": "a", "people": {"a": 5}}`},
		{"duplicate", `{"proband": "a", "people": {"a": {}, "a": {}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadJSON(strings.NewReader(tt.input)); err == nil {
				t.Error("ReadJSON succeeded, want error")
			}
		})
	}
}

func TestReadJSONEmptyPeople(t *testing.T) {
	ds, err := ReadJSON(strings.NewReader(`{"proband": "x"}`))
	if err != nil {
		t.Fatalf("ReadJSON error: %v", err)
	}
	if ds.Len() != 0 {
		t.Errorf("Len() = %d, want 0", ds.Len())
	}
}

func TestJSONRoundTripLayout(t *testing.T) {
	ds, err := ReadJSON(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("ReadJSON error: %v", err)
	}
	p, _ := ds.Person("10001-01-003")
	p.Generation, p.Side, p.Placed = -1, SideMaternal, true
	p.Slot, p.HasSlot = -2, true
	ds.CreatePlaceholder("10001-01-002", -1, RoleMother)

	var buf bytes.Buffer
	if err := WriteJSON(ds, &buf); err != nil {
		t.Fatalf("WriteJSON error: %v", err)
	}
	back, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON(WriteJSON) error: %v\n%s", err, buf.String())
	}

	if !slices.Equal(back.IDs(), ds.IDs()) {
		t.Errorf("order = %v, want %v", back.IDs(), ds.IDs())
	}
	got, _ := back.Person("10001-01-003")
	if !got.Placed || got.Generation != -1 || got.Side != SideMaternal || !got.HasSlot || got.Slot != -2 {
		t.Errorf("layout fields lost: %+v", got)
	}
	ph, _ := back.Person("m_10001-01-002")
	if ph == nil || !ph.Placeholder || ph.Anchor != "10001-01-002" {
		t.Errorf("placeholder lost: %+v", ph)
	}
	unplaced, _ := back.Person("10001-01-001")
	if unplaced.Placed || unplaced.HasSlot {
		t.Errorf("unplaced person gained layout: %+v", unplaced)
	}
}

func TestImportExportJSON(t *testing.T) {
	ds, _ := ReadJSON(strings.NewReader(sampleJSON))
	path := filepath.Join(t.TempDir(), "family.json")
	if err := ExportJSON(ds, path); err != nil {
		t.Fatalf("ExportJSON error: %v", err)
	}
	back, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON error: %v", err)
	}
	if back.Len() != ds.Len() {
		t.Errorf("Len() = %d, want %d", back.Len(), ds.Len())
	}
	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ImportJSON(missing) succeeded, want error")
	}
}
