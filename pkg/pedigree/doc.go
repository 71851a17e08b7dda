// Package pedigree lays out a family dataset as a pedigree chart.
//
// # Overview
//
// A layout pass has three stages, each a method on [Pass]:
//
//  1. [Pass.BuildTree] walks outward from the proband and returns the
//     membership list: every person that belongs in the chart, in the order
//     they were registered. Each member gets a generation (0 for the
//     proband, negative for ancestors, positive for descendants) and a
//     lineage side.
//  2. [Pass.AssignCoordinates] gives every member a horizontal slot within
//     its generation row.
//  3. [FindUnplaced] and [FindOverlaps] report members without a position
//     and members sharing one.
//
// [Run] performs all three and collects the outcome in a [Result]:
//
//	ds, _ := family.ImportJSON("10001.json")
//	res, err := pedigree.Run(ds, pedigree.Options{})
//	for _, id := range res.Tree {
//		p, _ := ds.Person(id)
//		fmt.Println(id, p.Generation, p.Slot)
//	}
//
// # Traversal
//
// The builder descends before it ascends. Descending from a person visits
// all of their children (and those children's partners) before the person is
// registered, so by the time a parent is assigned a slot every child already
// has one and the parent can be centered over them. Ascending completes the
// person's parents with placeholders when only one is known, then climbs to
// both. The proband's mother starts the maternal side, the father the
// paternal side; everyone else inherits the side of the person they were
// reached from.
//
// Partners met while descending are climbed last: once the proband's
// ancestry is registered, each partner's own parents are ascended in turn,
// so spouses' parents and in-laws further down join the tree too.
//
// Each person is descended, ascended and registered at most once per pass,
// which terminates traversal on cyclic data. A depth cap
// ([Options.MaxDepth]) bounds recursion on pathological inputs; branches cut
// off by it are listed in [Result.DepthExceeded].
//
// # Slots
//
// A parent is centered over the rounded midpoint of their first and last
// child. A woman takes midpoint-1 and a man (or a person of unknown gender)
// the midpoint itself, which keeps couples adjacent with the woman on the
// left. A person with several partners is placed once per partner over the
// children of that pair. People with no children are pushed outward two
// slots at a time: left for the maternal and proband sides, right for the
// paternal side.
//
// Slots are not guaranteed to be unique. [Pass.SeparateBranches], run by
// [Run] unless [Options.SkipSeparation] is set, moves apart the two sides
// of every couple and the collateral relatives hanging off the direct line;
// whatever collisions remain are reported, never repaired. See
// [FindOverlaps].
//
// # Errors
//
// Layout never fails on data. Dangling parent references are cleared, a
// missing proband yields an empty tree, and defects are diagnostics on the
// [Result]. With [Options.Strict], [Run] additionally returns a coded error
// for overlaps or a hit depth cap, together with the full result.
//
// # Concurrency
//
// A Pass owns its dataset while it runs. Passes over different datasets may
// run concurrently; passes over the same dataset must be serialized.
package pedigree
