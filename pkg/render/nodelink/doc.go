// Package nodelink renders pedigree charts as Graphviz node-link diagrams.
//
// # Overview
//
// [ToDOT] writes an undirected Graphviz graph in which every node is pinned
// at its chart position, so Graphviz only draws and never moves anything.
// Partners are joined through a small union point placed between them, and
// each child hangs from the union point of its parents:
//
//	M ---- u ---- F
//	       |
//	       P
//
// Symbols follow pedigree convention: squares for males, circles for
// females and diamonds for unknown gender. Placeholders are dashed, deceased
// people carry diagonal marks and the proband is drawn with a heavy outline.
//
// # Usage
//
//	dot := nodelink.ToDOT(c, nodelink.Options{Labels: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use [RenderPDF] and [RenderPNG].
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] with the neato engine
// for in-process SVG rendering. PDF and PNG conversion requires librsvg
// (rsvg-convert).
package nodelink
