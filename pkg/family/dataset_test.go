package family

import (
	"errors"
	"slices"
	"testing"
)

func TestDatasetAdd(t *testing.T) {
	ds := NewDataset("P")
	if err := ds.Add(Person{ID: "P"}); err != nil {
		t.Fatalf("Add(P) error: %v", err)
	}

	tests := []struct {
		name string
		id   string
		want error
	}{
		{"duplicate", "P", ErrDuplicatePersonID},
		{"empty", "", ErrInvalidPersonID},
		{"control char", "a\nb", ErrInvalidPersonID},
		{"reserved", UnknownPartner, ErrReservedPersonID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ds.Add(Person{ID: tt.id}); !errors.Is(err, tt.want) {
				t.Errorf("Add(%q) = %v, want %v", tt.id, err, tt.want)
			}
		})
	}
}

func TestDatasetOrder(t *testing.T) {
	ds := NewDataset("c")
	for _, id := range []string{"c", "a", "b"} {
		_ = ds.Add(Person{ID: id})
	}
	if got := ds.IDs(); !slices.Equal(got, []string{"c", "a", "b"}) {
		t.Errorf("IDs() = %v, want [c a b]", got)
	}
}

func TestResolveReferences(t *testing.T) {
	ds := NewDataset("P")
	mustAdd(t, ds,
		Person{ID: "P", MotherID: "M", FatherID: "ghost"},
		Person{ID: "M", MotherID: "gone"},
		Person{ID: "X"},
	)

	repaired := ds.ResolveReferences()
	if !slices.Equal(repaired, []string{"P", "M"}) {
		t.Errorf("ResolveReferences() = %v, want [P M]", repaired)
	}
	p, _ := ds.Person("P")
	if p.MotherID != "M" || p.FatherID != "" {
		t.Errorf("P parents = (%q, %q), want (M, \"\")", p.MotherID, p.FatherID)
	}
	if again := ds.ResolveReferences(); again != nil {
		t.Errorf("second ResolveReferences() = %v, want nil", again)
	}
}

func TestClone(t *testing.T) {
	ds := nuclear(t)
	c := ds.Clone()

	p, _ := c.Person("P")
	p.Generation = 9
	p.Placed = true

	orig, _ := ds.Person("P")
	if orig.Placed || orig.Generation != 0 {
		t.Error("Clone shares person records with the original")
	}
	if !slices.Equal(c.IDs(), ds.IDs()) {
		t.Errorf("Clone order = %v, want %v", c.IDs(), ds.IDs())
	}
}

func TestFamilyIDOf(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"10001-01-001", "10001"},
		{"solo", "solo"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FamilyIDOf(tt.in); got != tt.want {
			t.Errorf("FamilyIDOf(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerations(t *testing.T) {
	ds := nuclear(t)
	set := func(id string, gen int) {
		p, _ := ds.Person(id)
		p.Generation = gen
		p.Placed = true
	}
	set("P", 0)
	set("M", -1)
	set("S", 0)

	if got := ds.OldestGeneration(); got != -1 {
		t.Errorf("OldestGeneration() = %d, want -1", got)
	}
	if got := ds.YoungestGeneration(); got != 0 {
		t.Errorf("YoungestGeneration() = %d, want 0", got)
	}
	if got := ds.GenerationCount(); got != 2 {
		t.Errorf("GenerationCount() = %d, want 2", got)
	}

	ds.ClearLayout()
	if got := ds.OldestGeneration(); got != 0 {
		t.Errorf("OldestGeneration() after ClearLayout = %d, want 0", got)
	}
}

func TestParseGender(t *testing.T) {
	tests := []struct {
		in   string
		want Gender
	}{
		{"Male", GenderMale},
		{"f", GenderFemale},
		{" FEMALE ", GenderFemale},
		{"other", GenderUnknown},
		{"", GenderUnknown},
	}
	for _, tt := range tests {
		if got := ParseGender(tt.in); got != tt.want {
			t.Errorf("ParseGender(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
