package family

import (
	"fmt"
	"slices"
)

// ChildrenOf returns the ids of people whose mother or father is id, in
// dataset order. An empty id has no children.
func (d *Dataset) ChildrenOf(id string) []string {
	if id == "" {
		return nil
	}
	var children []string
	for _, cid := range d.order {
		c := d.people[cid]
		if c.MotherID == id || c.FatherID == id {
			children = append(children, cid)
		}
	}
	return children
}

// ChildrenOfBoth returns the children whose parents are exactly {a, b} in
// either mother/father assignment. When b is [UnknownPartner], it instead
// returns the children with a as one parent and the other parent unset.
func (d *Dataset) ChildrenOfBoth(a, b string) []string {
	if a == "" {
		return nil
	}
	var children []string
	for _, cid := range d.order {
		c := d.people[cid]
		switch {
		case c.FatherID == a && c.MotherID == b,
			c.MotherID == a && c.FatherID == b,
			b == UnknownPartner && c.FatherID == a && c.MotherID == "",
			b == UnknownPartner && c.MotherID == a && c.FatherID == "":
			children = appendUnique(children, cid)
		}
	}
	return children
}

// PartnersOf returns the distinct co-parents of id's children in the order
// the children appear. Unknown parents are not partners; call
// [Dataset.EnsureCoParents] first to turn them into placeholders.
func (d *Dataset) PartnersOf(id string) []string {
	if id == "" {
		return nil
	}
	var partners []string
	for _, cid := range d.ChildrenOf(id) {
		c := d.people[cid]
		if c.FatherID != "" && c.FatherID != id {
			partners = appendUnique(partners, c.FatherID)
		}
		if c.MotherID != "" && c.MotherID != id {
			partners = appendUnique(partners, c.MotherID)
		}
	}
	return partners
}

// PlaceholderID returns the id of the placeholder standing in for the
// unknown role-parent of anchor's children.
func PlaceholderID(anchor string, r Role) string {
	if r == RoleFather {
		return "f_" + anchor
	}
	return "m_" + anchor
}

// CreatePlaceholder inserts a placeholder for role anchored on anchor and
// returns its id. Calling it again for the same anchor and role returns the
// existing id without creating a second record.
//
// The id is [PlaceholderID] unless a real person, or a placeholder for
// another anchor, already holds it; then "_2", "_3", ... is appended.
func (d *Dataset) CreatePlaceholder(anchor string, generation int, r Role) string {
	base := PlaceholderID(anchor, r)
	id := base
	for n := 2; ; n++ {
		existing, ok := d.people[id]
		if !ok {
			break
		}
		// A placeholder without an anchor owns the plain id.
		if existing.Placeholder && (existing.Anchor == anchor || (existing.Anchor == "" && id == base)) {
			return id
		}
		id = fmt.Sprintf("%s_%d", base, n)
	}
	p := Person{
		ID:          id,
		Placeholder: true,
		Anchor:      anchor,
		Generation:  generation,
	}
	if r == RoleFather {
		p.Gender = GenderMale
		p.Name = "Father of " + anchor + "'s children"
	} else {
		p.Gender = GenderFemale
		p.Name = "Mother of " + anchor + "'s children"
	}
	d.people[id] = &p
	d.order = append(d.order, id)
	return id
}

// EnsureParentsComplete gives a child with exactly one known parent a
// placeholder for the missing role, anchored on the known parent, and links
// it into the child's record. It returns the placeholder id, or "" when the
// child is unknown, already has both parents, or has none (a root).
func (d *Dataset) EnsureParentsComplete(childID string) string {
	c, ok := d.people[childID]
	if !ok || !c.HasParents() {
		return ""
	}
	for _, missing := range []Role{RoleMother, RoleFather} {
		if c.Parent(missing) != "" {
			continue
		}
		anchor := c.Parent(otherRole(missing))
		gen := 0
		if a, ok := d.people[anchor]; ok {
			gen = a.Generation
		}
		id := d.CreatePlaceholder(anchor, gen, missing)
		c.setParent(missing, id)
		return id
	}
	return ""
}

// EnsureCoParents runs [Dataset.EnsureParentsComplete] for every child of
// parentID and returns the distinct placeholder ids involved.
func (d *Dataset) EnsureCoParents(parentID string) []string {
	var created []string
	for _, cid := range d.ChildrenOf(parentID) {
		if id := d.EnsureParentsComplete(cid); id != "" {
			created = appendUnique(created, id)
		}
	}
	return created
}

func otherRole(r Role) Role {
	if r == RoleFather {
		return RoleMother
	}
	return RoleFather
}

func appendUnique(s []string, v string) []string {
	if slices.Contains(s, v) {
		return s
	}
	return append(s, v)
}
