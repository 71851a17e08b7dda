package family

import (
	"slices"
	"testing"
)

func mustAdd(t *testing.T, ds *Dataset, people ...Person) {
	t.Helper()
	for _, p := range people {
		if err := ds.Add(p); err != nil {
			t.Fatalf("Add(%s) error: %v", p.ID, err)
		}
	}
}

// nuclear builds P with mother M and father F, plus a sibling S.
func nuclear(t *testing.T) *Dataset {
	ds := NewDataset("P")
	mustAdd(t, ds,
		Person{ID: "P", MotherID: "M", FatherID: "F", Gender: GenderMale},
		Person{ID: "M", Gender: GenderFemale},
		Person{ID: "F", Gender: GenderMale},
		Person{ID: "S", MotherID: "M", FatherID: "F", Gender: GenderFemale},
	)
	return ds
}

func TestChildrenOf(t *testing.T) {
	ds := nuclear(t)

	tests := []struct {
		id   string
		want []string
	}{
		{"M", []string{"P", "S"}},
		{"F", []string{"P", "S"}},
		{"P", nil},
		{"", nil},
		{"nobody", nil},
	}
	for _, tt := range tests {
		if got := ds.ChildrenOf(tt.id); !slices.Equal(got, tt.want) {
			t.Errorf("ChildrenOf(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestChildrenOfBoth(t *testing.T) {
	ds := NewDataset("A")
	mustAdd(t, ds,
		Person{ID: "A", Gender: GenderMale},
		Person{ID: "B", Gender: GenderFemale},
		Person{ID: "C", Gender: GenderFemale},
		Person{ID: "k1", MotherID: "B", FatherID: "A"},
		Person{ID: "k2", MotherID: "C", FatherID: "A"},
		Person{ID: "k3", FatherID: "A"},
		Person{ID: "k4", MotherID: "B", FatherID: "A"},
	)

	tests := []struct {
		a, b string
		want []string
	}{
		{"A", "B", []string{"k1", "k4"}},
		{"B", "A", []string{"k1", "k4"}},
		{"A", "C", []string{"k2"}},
		{"A", UnknownPartner, []string{"k3"}},
		{"B", "C", nil},
		{"", "B", nil},
	}
	for _, tt := range tests {
		if got := ds.ChildrenOfBoth(tt.a, tt.b); !slices.Equal(got, tt.want) {
			t.Errorf("ChildrenOfBoth(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestPartnersOf(t *testing.T) {
	ds := NewDataset("A")
	mustAdd(t, ds,
		Person{ID: "A", Gender: GenderMale},
		Person{ID: "B", Gender: GenderFemale},
		Person{ID: "C", Gender: GenderFemale},
		Person{ID: "k1", MotherID: "C", FatherID: "A"},
		Person{ID: "k2", MotherID: "B", FatherID: "A"},
		Person{ID: "k3", MotherID: "C", FatherID: "A"},
		Person{ID: "k4", FatherID: "A"},
	)

	want := []string{"C", "B"}
	if got := ds.PartnersOf("A"); !slices.Equal(got, want) {
		t.Errorf("PartnersOf(A) = %v, want %v", got, want)
	}
	if got := ds.PartnersOf("k1"); got != nil {
		t.Errorf("PartnersOf(k1) = %v, want nil", got)
	}
	if ds.Len() != 7 {
		t.Errorf("PartnersOf modified the dataset: Len() = %d, want 7", ds.Len())
	}
}

func TestEnsureParentsComplete(t *testing.T) {
	ds := NewDataset("k")
	mustAdd(t, ds,
		Person{ID: "dad", Gender: GenderMale, Generation: -1},
		Person{ID: "k", FatherID: "dad"},
		Person{ID: "half", FatherID: "dad"},
		Person{ID: "root"},
	)

	id := ds.EnsureParentsComplete("k")
	if id != "m_dad" {
		t.Fatalf("EnsureParentsComplete(k) = %q, want m_dad", id)
	}
	k, _ := ds.Person("k")
	if k.MotherID != "m_dad" {
		t.Errorf("k.MotherID = %q, want m_dad", k.MotherID)
	}
	ph, ok := ds.Person("m_dad")
	if !ok {
		t.Fatal("placeholder m_dad not inserted")
	}
	if !ph.Placeholder || ph.Gender != GenderFemale || ph.Generation != -1 {
		t.Errorf("placeholder = %+v, want female placeholder at generation -1", ph)
	}

	// A half-sibling through the same father shares the placeholder.
	if got := ds.EnsureParentsComplete("half"); got != "m_dad" {
		t.Errorf("EnsureParentsComplete(half) = %q, want m_dad", got)
	}
	if ds.Len() != 5 {
		t.Errorf("Len() = %d, want 5", ds.Len())
	}

	// Complete and parentless people are left alone.
	if got := ds.EnsureParentsComplete("k"); got != "" {
		t.Errorf("second EnsureParentsComplete(k) = %q, want empty", got)
	}
	if got := ds.EnsureParentsComplete("root"); got != "" {
		t.Errorf("EnsureParentsComplete(root) = %q, want empty", got)
	}
	if got := ds.EnsureParentsComplete("missing"); got != "" {
		t.Errorf("EnsureParentsComplete(missing) = %q, want empty", got)
	}
}

func TestEnsureCoParents(t *testing.T) {
	ds := NewDataset("mum")
	mustAdd(t, ds,
		Person{ID: "mum", Gender: GenderFemale},
		Person{ID: "a", MotherID: "mum"},
		Person{ID: "b", MotherID: "mum"},
	)

	created := ds.EnsureCoParents("mum")
	if !slices.Equal(created, []string{"f_mum"}) {
		t.Fatalf("EnsureCoParents(mum) = %v, want [f_mum]", created)
	}
	if got := ds.PartnersOf("mum"); !slices.Equal(got, []string{"f_mum"}) {
		t.Errorf("PartnersOf(mum) = %v, want [f_mum]", got)
	}
	if got := ds.ChildrenOfBoth("mum", "f_mum"); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("ChildrenOfBoth(mum, f_mum) = %v, want [a b]", got)
	}
}

func TestCreatePlaceholderIdempotent(t *testing.T) {
	ds := NewDataset("x")
	first := ds.CreatePlaceholder("x", 2, RoleFather)
	second := ds.CreatePlaceholder("x", 5, RoleFather)
	if first != second || first != "f_x" {
		t.Errorf("CreatePlaceholder ids = %q, %q, want f_x twice", first, second)
	}
	p, _ := ds.Person("f_x")
	if p.Generation != 2 {
		t.Errorf("Generation = %d, want 2", p.Generation)
	}
	if ds.Len() != 1 {
		t.Errorf("Len() = %d, want 1", ds.Len())
	}
}

func TestCreatePlaceholderAvoidsRealPerson(t *testing.T) {
	ds := NewDataset("kid")
	for _, p := range []Person{
		{ID: "kid", MotherID: "mum", Gender: GenderMale},
		{ID: "mum", Gender: GenderFemale},
		{ID: "f_mum", Gender: GenderMale, Name: "Frank"},
	} {
		if err := ds.Add(p); err != nil {
			t.Fatalf("Add(%s) error: %v", p.ID, err)
		}
	}

	id := ds.EnsureParentsComplete("kid")
	if id != "f_mum_2" {
		t.Fatalf("EnsureParentsComplete() = %q, want f_mum_2", id)
	}
	if kid, _ := ds.Person("kid"); kid.FatherID != "f_mum_2" {
		t.Errorf("kid.FatherID = %q, want f_mum_2", kid.FatherID)
	}
	if frank, _ := ds.Person("f_mum"); frank.Placeholder {
		t.Error("real person f_mum turned into a placeholder")
	}
	ph, _ := ds.Person("f_mum_2")
	if !ph.Placeholder || ph.Anchor != "mum" {
		t.Errorf("f_mum_2 = %+v", ph)
	}

	if again := ds.CreatePlaceholder("mum", 0, RoleFather); again != "f_mum_2" {
		t.Errorf("second CreatePlaceholder() = %q, want f_mum_2", again)
	}
	if ds.Len() != 4 {
		t.Errorf("Len() = %d, want 4", ds.Len())
	}
}
