package pedigree

import "github.com/matzehuels/pedigree/pkg/family"

// SeparateBranches spreads apart the ancestor branches of every couple in
// tree so that a mother's side sits strictly left of the father's side in
// every generation row they share. It returns the number of shifts applied.
//
// A side is shifted as a rigid block: the ancestors of that parent plus
// everyone hanging off them (great-aunts, aunts, their partners and
// children), minus the couple's own descendants. Blocks are processed
// oldest couples first, so a branch that was already separated internally
// stays separated. The parents themselves are not moved and remain
// centered over their children. Shared ancestors (pedigree collapse)
// belong to neither side and are left where they are.
//
// Finally every collateral block (a direct-line ancestor's siblings with
// their partners and descendants) that still lands on an occupied cell is
// moved outward, left on the maternal side and right on the paternal side,
// until it is clear.
func (p *Pass) SeparateBranches(tree []string) int {
	member := make(map[string]bool, len(tree))
	for _, id := range tree {
		member[id] = true
	}
	s := &separator{ds: p.ds, tree: tree, member: member, done: make(map[string]bool)}
	for _, id := range tree {
		s.separate(id)
	}
	s.clearCollaterals(p.ds.Proband)
	if s.shifts > 0 {
		p.log.Debug("separated ancestor branches", "shifts", s.shifts)
	}
	return s.shifts
}

type separator struct {
	ds     *family.Dataset
	tree   []string
	member map[string]bool
	done   map[string]bool
	shifts int
}

type cell struct{ gen, slot int }

func (s *separator) parents(id string) (mother, father string) {
	person, ok := s.ds.Person(id)
	if !ok {
		return "", ""
	}
	if s.member[person.MotherID] && person.MotherID != id {
		mother = person.MotherID
	}
	if s.member[person.FatherID] && person.FatherID != id {
		father = person.FatherID
	}
	return mother, father
}

// separate processes id's ancestors first, then pushes the mother's side
// of id left and the father's side right until they no longer share a
// slot.
func (s *separator) separate(id string) {
	if s.done[id] {
		return
	}
	s.done[id] = true

	mother, father := s.parents(id)
	if mother != "" {
		s.separate(mother)
	}
	if father != "" {
		s.separate(father)
	}
	if mother == "" || father == "" || mother == father {
		return
	}

	left := s.ancestors(mother)
	right := s.ancestors(father)
	fixed := s.descendants(mother)
	for d := range s.descendants(father) {
		fixed[d] = true
	}
	for a := range left {
		if right[a] {
			delete(left, a)
			delete(right, a)
			fixed[a] = true
		}
	}
	delete(left, father)
	delete(right, mother)
	if len(left) == 0 || len(right) == 0 {
		return
	}

	leftBlock := s.block(left, fixed, right)
	rightBlock := s.block(right, fixed, left)
	for id := range leftBlock {
		if rightBlock[id] && !left[id] && !right[id] {
			delete(leftBlock, id)
			delete(rightBlock, id)
		}
	}

	gap := s.overlap(leftBlock, rightBlock)
	if gap <= 0 {
		return
	}
	s.shift(leftBlock, -(gap - gap/2))
	s.shift(rightBlock, gap/2)
	s.shifts++
}

// clearCollaterals walks the proband's direct line and moves each
// sibling block of a direct-line member outward until none of its members
// shares a cell with anyone outside the block.
func (s *separator) clearCollaterals(proband string) {
	if !s.member[proband] {
		return
	}
	line := s.ancestors(proband)
	line[proband] = true

	cleared := make(map[string]bool)
	for _, id := range s.tree {
		if !line[id] {
			continue
		}
		mother, father := s.parents(id)
		var siblings []string
		for _, pid := range []string{mother, father} {
			if pid != "" {
				siblings = append(siblings, s.ds.ChildrenOf(pid)...)
			}
		}
		for _, sib := range siblings {
			if !s.member[sib] || line[sib] || cleared[sib] {
				continue
			}
			blk := s.block(map[string]bool{sib: true}, line)
			for b := range blk {
				cleared[b] = true
			}
			dir := -1
			if person, _ := s.ds.Person(sib); person.Side == family.SidePaternal {
				dir = 1
			}
			moved := false
			for s.collides(blk) {
				s.shift(blk, dir)
				moved = true
			}
			if moved {
				s.shifts++
			}
		}
	}
}

// ancestors returns every member reachable from id through parent links,
// id excluded.
func (s *separator) ancestors(id string) map[string]bool {
	out := make(map[string]bool)
	var walk func(string)
	walk = func(cur string) {
		mother, father := s.parents(cur)
		for _, pid := range []string{mother, father} {
			if pid == "" || pid == id || out[pid] {
				continue
			}
			out[pid] = true
			walk(pid)
		}
	}
	walk(id)
	return out
}

// descendants returns id and every member reachable from it through child
// links.
func (s *separator) descendants(id string) map[string]bool {
	out := map[string]bool{id: true}
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range s.ds.ChildrenOf(cur) {
			if s.member[c] && !out[c] {
				out[c] = true
				stack = append(stack, c)
			}
		}
	}
	return out
}

// block grows seed into the set of members connected to it by parent,
// child or partner links, never entering a member of any blocked set.
func (s *separator) block(seed map[string]bool, blocked ...map[string]bool) map[string]bool {
	out := make(map[string]bool, len(seed))
	stack := make([]string, 0, len(seed))
	for id := range seed {
		out[id] = true
		stack = append(stack, id)
	}
	isBlocked := func(id string) bool {
		for _, b := range blocked {
			if b[id] {
				return true
			}
		}
		return false
	}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		mother, father := s.parents(cur)
		next := append([]string{mother, father}, s.ds.ChildrenOf(cur)...)
		next = append(next, s.ds.PartnersOf(cur)...)
		for _, n := range next {
			if n == "" || !s.member[n] || out[n] || isBlocked(n) {
				continue
			}
			out[n] = true
			stack = append(stack, n)
		}
	}
	return out
}

// overlap returns how far left must move relative to right so that, in
// every shared row, the rightmost slot of left is below the leftmost slot
// of right.
func (s *separator) overlap(left, right map[string]bool) int {
	maxLeft := s.rowExtremes(left, false)
	minRight := s.rowExtremes(right, true)
	gap := 0
	for gen, hi := range maxLeft {
		lo, ok := minRight[gen]
		if !ok {
			continue
		}
		if d := hi - lo + 1; d > gap {
			gap = d
		}
	}
	return gap
}

// collides reports whether a member of set shares a cell with a member
// outside it.
func (s *separator) collides(set map[string]bool) bool {
	taken := make(map[cell]bool)
	for _, id := range s.tree {
		if set[id] {
			continue
		}
		if person, ok := s.ds.Person(id); ok && person.HasSlot {
			taken[cell{person.Generation, person.Slot}] = true
		}
	}
	for id := range set {
		if person, ok := s.ds.Person(id); ok && person.HasSlot && taken[cell{person.Generation, person.Slot}] {
			return true
		}
	}
	return false
}

func (s *separator) rowExtremes(set map[string]bool, lowest bool) map[int]int {
	out := make(map[int]int)
	for id := range set {
		person, ok := s.ds.Person(id)
		if !ok || !person.HasSlot {
			continue
		}
		cur, seen := out[person.Generation]
		switch {
		case !seen:
			out[person.Generation] = person.Slot
		case lowest && person.Slot < cur:
			out[person.Generation] = person.Slot
		case !lowest && person.Slot > cur:
			out[person.Generation] = person.Slot
		}
	}
	return out
}

func (s *separator) shift(set map[string]bool, by int) {
	if by == 0 {
		return
	}
	for id := range set {
		if person, ok := s.ds.Person(id); ok && person.HasSlot {
			person.Slot += by
		}
	}
}
