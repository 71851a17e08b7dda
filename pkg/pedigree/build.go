package pedigree

import "github.com/matzehuels/pedigree/pkg/family"

// BuildTree discovers everyone connected to the proband and returns the
// membership list in registration order. Children are always registered
// before their parents.
//
// The proband's ancestry is laid out first. Partners met on the way are
// then climbed in the order they were reached, so a spouse's parents and
// a descendant's in-laws join the tree after the blood relatives.
//
// Dangling parent references are cleared first. A missing or empty proband
// yields an empty list.
func (p *Pass) BuildTree() []string {
	p.repaired = p.ds.ResolveReferences()
	if len(p.repaired) > 0 {
		p.log.Debug("cleared dangling parent references", "people", p.repaired)
	}

	proband := p.ds.Proband
	if !p.ds.Has(proband) {
		p.log.Debug("proband not in dataset", "proband", proband)
		return p.tree
	}
	p.ascend(proband, 0, family.SideProband, 0)
	for len(p.inLaws) > 0 {
		c := p.inLaws[0]
		p.inLaws = p.inLaws[1:]
		p.ascend(c.id, c.gen, c.side, c.depth)
	}
	return p.tree
}

// ascend lays out id's subtree, then climbs to both of id's parents.
func (p *Pass) ascend(id string, gen int, side family.Side, depth int) {
	if !p.known(id) || p.ascended[id] {
		return
	}
	p.ascended[id] = true
	if p.tooDeep(id, depth) {
		return
	}

	p.descend(id, gen, side, depth)

	person, _ := p.ds.Person(id)
	if !person.HasParents() {
		return
	}
	if ph := p.ds.EnsureParentsComplete(id); ph != "" {
		p.notePlaceholder(ph, id)
	}

	motherSide, fatherSide := side, side
	if id == p.ds.Proband {
		motherSide, fatherSide = family.SideMaternal, family.SidePaternal
		p.reserve(person.MotherID, motherSide)
		p.reserve(person.FatherID, fatherSide)
	}
	p.ascend(person.MotherID, gen-1, motherSide, depth+1)
	p.ascend(person.FatherID, gen-1, fatherSide, depth+1)
}

// descend registers id's children (recursively) before id, then registers
// id's partners at the same generation.
func (p *Pass) descend(id string, gen int, side family.Side, depth int) {
	if !p.known(id) || p.descended[id] {
		return
	}
	p.descended[id] = true
	if p.tooDeep(id, depth) {
		return
	}

	for _, child := range p.ds.ChildrenOf(id) {
		p.descend(child, gen+1, side, depth+1)
	}
	p.register(id, gen, side)

	for _, ph := range p.ds.EnsureCoParents(id) {
		p.notePlaceholder(ph, id)
	}
	for _, partner := range p.ds.PartnersOf(id) {
		s := p.sideFor(partner, side)
		p.descend(partner, gen, s, depth+1)
		p.register(partner, gen, s)
		if !p.ascended[partner] && depth+1 <= p.opts.MaxDepth {
			p.inLaws = append(p.inLaws, climb{partner, gen, s, depth + 1})
		}
	}
}

// register appends id to the membership list the first time it is reached.
func (p *Pass) register(id string, gen int, side family.Side) {
	if !p.known(id) || p.registered[id] {
		return
	}
	person, _ := p.ds.Person(id)
	person.Generation = gen
	person.Side = p.sideFor(id, side)
	person.Placed = true

	p.registered[id] = true
	p.tree = append(p.tree, id)
	p.log.Debug("registered", "id", id, "generation", gen, "side", person.Side)
}

func (p *Pass) known(id string) bool {
	return id != "" && id != family.UnknownPartner && p.ds.Has(id)
}

func (p *Pass) tooDeep(id string, depth int) bool {
	if depth <= p.opts.MaxDepth {
		return false
	}
	p.depthExceeded = append(p.depthExceeded, id)
	p.log.Warn("depth cap reached, branch not laid out", "id", id, "max_depth", p.opts.MaxDepth)
	return true
}

func (p *Pass) reserve(id string, side family.Side) {
	if id == "" {
		return
	}
	if _, ok := p.reserved[id]; !ok {
		p.reserved[id] = side
	}
}

func (p *Pass) sideFor(id string, fallback family.Side) family.Side {
	if s, ok := p.reserved[id]; ok {
		return s
	}
	return fallback
}

func (p *Pass) notePlaceholder(ph, anchor string) {
	for _, existing := range p.placeholders {
		if existing == ph {
			return
		}
	}
	p.placeholders = append(p.placeholders, ph)
	p.log.Debug("placeholder parent", "id", ph, "for", anchor)
}
