package pedigree

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pedigree/pkg/family"
)

// DefaultMaxDepth is the recursion depth cap used when Options.MaxDepth is
// zero. Real pedigrees stay far below it.
const DefaultMaxDepth = 64

// Options configures a layout pass.
type Options struct {
	// MaxDepth caps the recursion depth of tree building. Zero means
	// DefaultMaxDepth.
	MaxDepth int

	// Strict makes Run return an error when the layout has overlapping
	// placements or a branch was cut off by MaxDepth. The result is returned
	// in full either way.
	Strict bool

	// SkipSeparation leaves slots exactly as the midpoint rules assign them,
	// without spreading ancestor branches apart. Collisions between the
	// maternal and paternal ancestors are then likely.
	SkipSeparation bool

	// Logger receives debug output for every registration and placement.
	// Nil discards it.
	Logger *log.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o
}

// Pass holds the state of one layout pass over one dataset.
//
// The zero value is not usable - use NewPass. A Pass is single-use: build
// and assign once, then discard it.
type Pass struct {
	ds   *family.Dataset
	opts Options
	log  *log.Logger

	tree       []string
	registered map[string]bool
	descended  map[string]bool
	ascended   map[string]bool

	// reserved pins the lineage side of the proband's parents so that a
	// parent first reached as the other parent's partner still gets its own
	// branch.
	reserved map[string]family.Side

	// inLaws holds partners whose own parents are climbed once the
	// proband's ancestry is done.
	inLaws []climb

	furthestLeft  int
	furthestRight int

	repaired      []string
	placeholders  []string
	depthExceeded []string
}

type climb struct {
	id    string
	gen   int
	side  family.Side
	depth int
}

// NewPass prepares a layout pass over ds. Layout fields left over from an
// earlier pass are cleared.
func NewPass(ds *family.Dataset, opts Options) *Pass {
	opts = opts.withDefaults()
	ds.ClearLayout()
	return &Pass{
		ds:         ds,
		opts:       opts,
		log:        opts.Logger,
		registered: make(map[string]bool),
		descended:  make(map[string]bool),
		ascended:   make(map[string]bool),
		reserved:   make(map[string]family.Side),
	}
}

// Dataset returns the dataset the pass lays out.
func (p *Pass) Dataset() *family.Dataset { return p.ds }

// Tree returns the membership list built so far.
func (p *Pass) Tree() []string { return p.tree }

// Frontier returns the current left and right frontier counters.
func (p *Pass) Frontier() (left, right int) { return p.furthestLeft, p.furthestRight }
