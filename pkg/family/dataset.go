package family

import (
	"errors"
	"slices"
	"strings"

	perrors "github.com/matzehuels/pedigree/pkg/errors"
)

// UnknownPartner is the sentinel co-parent id meaning "the other parent is
// not recorded". It is a marker for [Dataset.ChildrenOfBoth], never a real
// person, and cannot be added to a dataset.
const UnknownPartner = "UNKNOWN"

var (
	// ErrInvalidPersonID is returned by [Dataset.Add] when the person id is
	// empty or contains control characters.
	ErrInvalidPersonID = errors.New("invalid person ID")

	// ErrDuplicatePersonID is returned by [Dataset.Add] when a person with the
	// same id already exists.
	ErrDuplicatePersonID = errors.New("duplicate person ID")

	// ErrReservedPersonID is returned by [Dataset.Add] for [UnknownPartner].
	ErrReservedPersonID = errors.New("reserved person ID")
)

// Dataset maps person ids to people and names the proband.
//
// The zero value is not usable - use NewDataset.
// Dataset is not safe for concurrent use without external synchronization.
type Dataset struct {
	Proband string

	people map[string]*Person
	order  []string
}

// NewDataset creates an empty dataset for the given proband id. The proband
// does not have to exist; a dataset whose proband is missing lays out as an
// empty tree.
func NewDataset(proband string) *Dataset {
	return &Dataset{
		Proband: proband,
		people:  make(map[string]*Person),
	}
}

// Add inserts a copy of p. Returns ErrInvalidPersonID, ErrReservedPersonID or
// ErrDuplicatePersonID when the id cannot be used.
func (d *Dataset) Add(p Person) error {
	if err := perrors.ValidatePersonID(p.ID); err != nil {
		return ErrInvalidPersonID
	}
	if p.ID == UnknownPartner {
		return ErrReservedPersonID
	}
	if _, exists := d.people[p.ID]; exists {
		return ErrDuplicatePersonID
	}
	person := &p
	d.people[p.ID] = person
	d.order = append(d.order, p.ID)
	return nil
}

// Person returns the person with the given id.
// The returned pointer aliases the dataset record.
func (d *Dataset) Person(id string) (*Person, bool) {
	p, ok := d.people[id]
	return p, ok
}

// Has reports whether a person with id exists.
func (d *Dataset) Has(id string) bool {
	_, ok := d.people[id]
	return ok
}

// People returns all people in insertion order. The pointers alias the
// dataset records.
func (d *Dataset) People() []*Person {
	out := make([]*Person, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.people[id])
	}
	return out
}

// IDs returns all person ids in insertion order.
func (d *Dataset) IDs() []string { return slices.Clone(d.order) }

// Len returns the number of people, placeholders included.
func (d *Dataset) Len() int { return len(d.order) }

// ResolveReferences clears every MotherID/FatherID that does not name a
// person in the dataset and returns the ids of the people that were
// repaired. A dangling reference is treated as an unknown parent.
func (d *Dataset) ResolveReferences() []string {
	var repaired []string
	for _, id := range d.order {
		p := d.people[id]
		fixed := false
		if p.MotherID != "" && !d.Has(p.MotherID) {
			p.MotherID = ""
			fixed = true
		}
		if p.FatherID != "" && !d.Has(p.FatherID) {
			p.FatherID = ""
			fixed = true
		}
		if fixed {
			repaired = append(repaired, id)
		}
	}
	return repaired
}

// ClearLayout resets the layout fields of every person.
func (d *Dataset) ClearLayout() {
	for _, p := range d.people {
		p.ClearLayout()
	}
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	c := NewDataset(d.Proband)
	for _, id := range d.order {
		p := *d.people[id]
		c.people[id] = &p
	}
	c.order = slices.Clone(d.order)
	return c
}

// FamilyID returns the family identifier of the dataset: the proband id up
// to its first '-' ("10001-01-001" belongs to family "10001"). Ids without a
// dash are their own family id.
func (d *Dataset) FamilyID() string {
	return FamilyIDOf(d.Proband)
}

// FamilyIDOf derives a family id from a person id.
func FamilyIDOf(personID string) string {
	id, _, _ := strings.Cut(personID, "-")
	return id
}

// OldestGeneration returns the smallest generation among placed people, or 0.
func (d *Dataset) OldestGeneration() int {
	oldest := 0
	for _, p := range d.people {
		if p.Placed && p.Generation < oldest {
			oldest = p.Generation
		}
	}
	return oldest
}

// YoungestGeneration returns the largest generation among placed people, or 0.
func (d *Dataset) YoungestGeneration() int {
	youngest := 0
	for _, p := range d.people {
		if p.Placed && p.Generation > youngest {
			youngest = p.Generation
		}
	}
	return youngest
}

// GenerationCount returns the number of generation rows spanned by placed
// people, the proband row included.
func (d *Dataset) GenerationCount() int {
	return d.YoungestGeneration() - d.OldestGeneration() + 1
}
