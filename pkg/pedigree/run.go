package pedigree

import (
	"maps"
	"slices"

	"github.com/google/uuid"

	perrors "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/family"
)

// Extents is the bounding box of the placed members in grid units.
type Extents struct {
	Oldest   int `json:"oldest"`   // smallest generation
	Youngest int `json:"youngest"` // largest generation
	Left     int `json:"left"`     // smallest slot
	Right    int `json:"right"`    // largest slot
}

// Columns returns the number of slots spanned, both ends included.
func (e Extents) Columns() int { return e.Right - e.Left + 1 }

// Rows returns the number of generation rows spanned.
func (e Extents) Rows() int { return e.Youngest - e.Oldest + 1 }

// Result is the outcome of a layout pass. The laid-out values themselves
// live on the dataset's people.
type Result struct {
	// PassID identifies the pass in logs and cached artifacts.
	PassID string `json:"pass_id"`

	// Tree is the membership list in registration order.
	Tree []string `json:"tree"`

	// Unplaced lists people with no generation or slot.
	Unplaced []string `json:"unplaced"`

	// Overlaps maps every member that shares a grid cell to its placement.
	Overlaps map[string]Placement `json:"overlaps"`

	// DepthExceeded lists the people at which recursion stopped because of
	// Options.MaxDepth.
	DepthExceeded []string `json:"depth_exceeded,omitempty"`

	// Repaired lists people whose dangling parent references were cleared.
	Repaired []string `json:"repaired,omitempty"`

	// Placeholders lists the placeholder parents involved in the pass,
	// created or reused.
	Placeholders []string `json:"placeholders,omitempty"`

	// Extents is the grid bounding box of the tree.
	Extents Extents `json:"extents"`

	// Frontier holds the final left and right frontier counters.
	Frontier [2]int `json:"frontier"`

	// BranchShifts counts the ancestor branches moved apart and the
	// collateral blocks moved off a direct line.
	BranchShifts int `json:"branch_shifts"`
}

// HasDefects reports whether the pass produced any diagnostic.
func (r *Result) HasDefects() bool {
	return len(r.Unplaced) > 0 || len(r.Overlaps) > 0 || len(r.DepthExceeded) > 0
}

// OverlapIDs returns the ids in Overlaps, sorted.
func (r *Result) OverlapIDs() []string {
	return slices.Sorted(maps.Keys(r.Overlaps))
}

// Run lays out ds in place: it builds the tree, assigns slots, separates
// ancestor branches (unless Options.SkipSeparation is set) and validates
// the result.
//
// The returned Result is always complete. The error is non-nil only in
// strict mode, when the layout has overlaps or a branch hit the depth cap.
func Run(ds *family.Dataset, opts Options) (*Result, error) {
	p := NewPass(ds, opts)
	passID := uuid.NewString()
	p.log = p.log.With("pass", passID)
	return p.run(passID)
}

func (p *Pass) run(passID string) (*Result, error) {
	tree := p.BuildTree()
	p.AssignCoordinates(tree)

	res := &Result{PassID: passID, Tree: tree}
	if !p.opts.SkipSeparation {
		res.BranchShifts = p.SeparateBranches(tree)
	}

	res.Unplaced = FindUnplaced(p.ds)
	res.Overlaps = FindOverlaps(p.ds, tree)
	res.DepthExceeded = p.depthExceeded
	res.Repaired = p.repaired
	res.Placeholders = p.placeholders
	res.Extents = extentsOf(p.ds, tree)
	res.Frontier = [2]int{p.furthestLeft, p.furthestRight}

	p.log.Debug("layout pass complete",
		"members", len(tree),
		"unplaced", len(res.Unplaced),
		"overlaps", len(res.Overlaps))

	if !p.opts.Strict {
		return res, nil
	}
	return res, StrictError(res, p.opts.MaxDepth)
}

// StrictError returns the error strict mode reports for res: DEPTH_EXCEEDED
// when a branch hit the depth cap, else LAYOUT_OVERLAP when members share a
// cell, else nil.
func StrictError(res *Result, maxDepth int) error {
	if len(res.DepthExceeded) > 0 {
		return perrors.New(perrors.ErrCodeDepthExceeded,
			"recursion depth %d exceeded at %v", maxDepth, res.DepthExceeded)
	}
	if len(res.Overlaps) > 0 {
		return perrors.New(perrors.ErrCodeLayoutOverlap,
			"%d members share a grid cell: %v", len(res.Overlaps), res.OverlapIDs())
	}
	return nil
}

func extentsOf(ds *family.Dataset, tree []string) Extents {
	var e Extents
	first := true
	for _, id := range tree {
		p, ok := ds.Person(id)
		if !ok || !p.Placed || !p.HasSlot {
			continue
		}
		if first {
			e = Extents{Oldest: p.Generation, Youngest: p.Generation, Left: p.Slot, Right: p.Slot}
			first = false
			continue
		}
		e.Oldest = min(e.Oldest, p.Generation)
		e.Youngest = max(e.Youngest, p.Generation)
		e.Left = min(e.Left, p.Slot)
		e.Right = max(e.Right, p.Slot)
	}
	return e
}
