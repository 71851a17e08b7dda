package pedigree

import "github.com/matzehuels/pedigree/pkg/family"

// Placement is the position of one member in the layout grid.
type Placement struct {
	ID         string `json:"id"`
	Generation int    `json:"generation"`
	Slot       int    `json:"slot"`
}

// FindUnplaced returns, in dataset order, everyone without a generation or
// a slot. After a complete pass this lists exactly the people with no path
// from the proband.
func FindUnplaced(ds *family.Dataset) []string {
	var missing []string
	for _, p := range ds.People() {
		if !p.Placed || !p.HasSlot {
			missing = append(missing, p.ID)
		}
	}
	return missing
}

// FindOverlaps returns every member of tree that shares its generation and
// slot with another member, keyed by id. Members without a slot are
// ignored. The result is empty, never nil.
func FindOverlaps(ds *family.Dataset, tree []string) map[string]Placement {
	overlaps := make(map[string]Placement)
	seen := make(map[[2]int]Placement)
	for _, id := range tree {
		p, ok := ds.Person(id)
		if !ok || !p.Placed || !p.HasSlot {
			continue
		}
		cell := [2]int{p.Generation, p.Slot}
		here := Placement{ID: id, Generation: p.Generation, Slot: p.Slot}
		if first, taken := seen[cell]; taken {
			if first.ID == id {
				continue
			}
			overlaps[first.ID] = first
			overlaps[id] = here
			continue
		}
		seen[cell] = here
	}
	return overlaps
}
