package pedigree

import "github.com/matzehuels/pedigree/pkg/family"

// AssignCoordinates gives every member of tree a horizontal slot, in list
// order. It relies on children appearing before their parents, which
// [Pass.BuildTree] guarantees.
func (p *Pass) AssignCoordinates(tree []string) {
	for _, id := range tree {
		person, ok := p.ds.Person(id)
		if !ok {
			continue
		}

		if partners := p.ds.PartnersOf(id); len(partners) > 1 {
			p.placeWithPartners(person, partners)
			continue
		}

		mid, ok := p.midpoint(p.ds.ChildrenOf(id))
		if !ok {
			p.pushOutward(person)
			continue
		}
		p.setSlot(person, offsetFor(person.Gender, mid))
	}
}

// placeWithPartners centers person and each partner in turn over the
// children of that pair.
func (p *Pass) placeWithPartners(person *family.Person, partners []string) {
	for _, pid := range partners {
		partner, ok := p.ds.Person(pid)
		if !ok {
			continue
		}
		mid, ok := p.midpoint(p.ds.ChildrenOfBoth(person.ID, pid))
		if !ok {
			continue
		}
		if person.Gender == family.GenderFemale {
			p.setSlot(person, mid-1)
			p.setSlot(partner, mid)
		} else {
			p.setSlot(person, mid)
			p.setSlot(partner, mid-1)
		}
	}
}

// pushOutward places a childless person at the next free frontier slot.
func (p *Pass) pushOutward(person *family.Person) {
	switch person.Side {
	case family.SideMaternal, family.SideProband:
		p.furthestLeft -= 2
		p.setSlot(person, p.furthestLeft)
	case family.SidePaternal:
		p.furthestRight += 2
		p.setSlot(person, p.furthestRight)
	}
}

// midpoint returns the rounded midpoint of the first and last slotted
// child. It reports false when no child has a slot yet.
func (p *Pass) midpoint(children []string) (int, bool) {
	var first, last int
	found := false
	for _, cid := range children {
		c, ok := p.ds.Person(cid)
		if !ok || !c.HasSlot {
			continue
		}
		if !found {
			first = c.Slot
			found = true
		}
		last = c.Slot
	}
	if !found {
		return 0, false
	}
	return Midpoint(first, last), true
}

// Midpoint returns (a+b)/2 rounded half up, so Midpoint(3, 6) is 5 and
// Midpoint(-2, -3) is -2.
func Midpoint(a, b int) int {
	return floorDiv(a+b+1, 2)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func offsetFor(g family.Gender, mid int) int {
	switch g {
	case family.GenderFemale:
		return mid - 1
	case family.GenderMale, family.GenderUnknown:
		return mid
	}
	return mid
}

func (p *Pass) setSlot(person *family.Person, slot int) {
	person.Slot = slot
	person.HasSlot = true
	p.log.Debug("placed", "id", person.ID, "generation", person.Generation, "slot", slot)
}
