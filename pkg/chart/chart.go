// Package chart projects a laid-out pedigree onto display coordinates.
//
// A layout pass ([pedigree.Run]) leaves every member with a generation row
// and a horizontal slot. [Build] turns those grid positions into pixel
// centers using a [Geometry], attaches the person attributes a renderer
// needs, and derives the parent-child connectors and couples.
//
//	res, _ := pedigree.Run(ds, pedigree.Options{})
//	c := chart.Build(ds, res, chart.DefaultGeometry(), nil)
//	for _, n := range c.Nodes {
//		fmt.Println(n.ID, n.X, n.Y)
//	}
//
// Saved positions (see package annotation) override the computed center of
// the nodes they name.
package chart

import (
	"github.com/matzehuels/pedigree/pkg/family"
	"github.com/matzehuels/pedigree/pkg/pedigree"
)

// Geometry is the chart spacing in pixels.
type Geometry struct {
	Margin   int `json:"margin"`
	HSpacing int `json:"h_spacing"` // distance between adjacent slots
	VSpacing int `json:"v_spacing"` // distance between generation rows
	Size     int `json:"size"`      // symbol size
	VPadding int `json:"v_padding"` // gap between a symbol and its connectors
}

// DefaultGeometry returns the standard chart spacing.
func DefaultGeometry() Geometry {
	return Geometry{Margin: 50, HSpacing: 40, VSpacing: 100, Size: 30, VPadding: 15}
}

// Position is a display coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one placed person.
type Node struct {
	ID          string  `json:"id"`
	Name        string  `json:"name,omitempty"`
	Gender      string  `json:"gender"`
	Placeholder bool    `json:"placeholder,omitempty"`
	Proband     bool    `json:"proband,omitempty"`
	Deceased    string  `json:"deceased,omitempty"`
	Generation  int     `json:"generation"`
	Side        string  `json:"side"`
	Slot        int     `json:"slot"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Manual      bool    `json:"manual,omitempty"` // X and Y come from a saved position
}

// Label returns the text drawn under the node.
func (n *Node) Label() string {
	if n.Placeholder {
		return ""
	}
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// Link connects a child to both of its parents.
type Link struct {
	Child  string `json:"child"`
	Mother string `json:"mother"`
	Father string `json:"father"`
}

// Couple is a pair of members with at least one child in the chart.
type Couple struct {
	Mother string `json:"mother"`
	Father string `json:"father"`
}

// Chart is the display model of one layout.
type Chart struct {
	Proband  string           `json:"proband"`
	FamilyID string           `json:"family_id"`
	Width    float64          `json:"width"`
	Height   float64          `json:"height"`
	Geometry Geometry         `json:"geometry"`
	Extents  pedigree.Extents `json:"extents"`
	Nodes    []Node           `json:"nodes"`
	Links    []Link           `json:"links"`
	Couples  []Couple         `json:"couples"`

	index map[string]int
}

// Build projects the members of res.Tree that have a slot. Positions, when
// non-nil, overrides the computed center of the ids it contains.
//
// The frame is Columns()*HSpacing wide and Rows()*VSpacing high plus a
// margin on every side. Slot s in generation g is centered at
//
//	x = margin - left*HSpacing + margin + s*HSpacing
//	y = margin - oldest*VSpacing + margin + g*VSpacing
func Build(ds *family.Dataset, res *pedigree.Result, geom Geometry, positions map[string]Position) *Chart {
	ext := res.Extents
	c := &Chart{
		Proband:  ds.Proband,
		FamilyID: ds.FamilyID(),
		Width:    float64(2*geom.Margin + ext.Columns()*geom.HSpacing),
		Height:   float64(2*geom.Margin + ext.Rows()*geom.VSpacing),
		Geometry: geom,
		Extents:  ext,
		Nodes:    []Node{},
		Links:    []Link{},
		Couples:  []Couple{},
		index:    make(map[string]int),
	}
	ox := geom.Margin - ext.Left*geom.HSpacing
	oy := geom.Margin - ext.Oldest*geom.VSpacing

	for _, id := range res.Tree {
		p, ok := ds.Person(id)
		if !ok || !p.Placed || !p.HasSlot {
			continue
		}
		if _, dup := c.index[id]; dup {
			continue
		}
		n := Node{
			ID:          id,
			Name:        p.Name,
			Gender:      p.Gender.String(),
			Placeholder: p.Placeholder,
			Proband:     id == ds.Proband,
			Deceased:    p.Deceased,
			Generation:  p.Generation,
			Side:        p.Side.String(),
			Slot:        p.Slot,
			X:           float64(ox + geom.Margin + p.Slot*geom.HSpacing),
			Y:           float64(oy + geom.Margin + p.Generation*geom.VSpacing),
		}
		if pos, ok := positions[id]; ok {
			n.X, n.Y, n.Manual = pos.X, pos.Y, true
		}
		c.index[id] = len(c.Nodes)
		c.Nodes = append(c.Nodes, n)
	}

	seen := make(map[Couple]bool)
	for _, n := range c.Nodes {
		p, _ := ds.Person(n.ID)
		if !c.Has(p.MotherID) || !c.Has(p.FatherID) {
			continue
		}
		c.Links = append(c.Links, Link{Child: n.ID, Mother: p.MotherID, Father: p.FatherID})
		couple := Couple{Mother: p.MotherID, Father: p.FatherID}
		if !seen[couple] {
			seen[couple] = true
			c.Couples = append(c.Couples, couple)
		}
	}
	return c
}

// Has reports whether id is a node of the chart.
func (c *Chart) Has(id string) bool {
	_, ok := c.lookup(id)
	return ok
}

// Node returns the node with the given id. The pointer aliases the chart.
func (c *Chart) Node(id string) (*Node, bool) {
	i, ok := c.lookup(id)
	if !ok {
		return nil, false
	}
	return &c.Nodes[i], true
}

// Move places a node at (x, y) and marks it as manually positioned.
// It reports whether the node exists.
func (c *Chart) Move(id string, x, y float64) bool {
	n, ok := c.Node(id)
	if !ok {
		return false
	}
	n.X, n.Y, n.Manual = x, y, true
	return true
}

// Children returns the links whose parents are the given couple, in node
// order.
func (c *Chart) Children(couple Couple) []Link {
	var out []Link
	for _, l := range c.Links {
		if l.Mother == couple.Mother && l.Father == couple.Father {
			out = append(out, l)
		}
	}
	return out
}

// lookup rebuilds the index for charts decoded from JSON.
func (c *Chart) lookup(id string) (int, bool) {
	if id == "" {
		return 0, false
	}
	if c.index == nil {
		c.index = make(map[string]int, len(c.Nodes))
		for i, n := range c.Nodes {
			c.index[n.ID] = i
		}
	}
	i, ok := c.index[id]
	return i, ok
}
