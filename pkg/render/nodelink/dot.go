package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pedigree/pkg/chart"
	"github.com/matzehuels/pedigree/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Labels draws the name (or id) under each symbol.
	Labels bool

	// Detailed adds the generation and slot to every label.
	Detailed bool
}

// points per inch, the unit Graphviz uses for node sizes
const dpi = 72.0

// ToDOT converts a chart to Graphviz DOT. Positions are in points with the
// y axis flipped, since Graphviz grows upward.
func ToDOT(c *chart.Chart, opts Options) string {
	size := float64(c.Geometry.Size)
	if size <= 0 {
		size = float64(chart.DefaultGeometry().Size)
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  bb=\"0,0,%s,%s\";\n", num(c.Width), num(c.Height))
	fmt.Fprintf(&buf, "  node [fixedsize=true, width=%s, height=%s, label=\"\", style=filled, fillcolor=white, fontsize=10];\n",
		num(size/dpi), num(size/dpi))
	buf.WriteString("  edge [penwidth=1.5];\n")
	buf.WriteString("\n")

	for _, n := range c.Nodes {
		attrs := fmtAttrs(n, c.Height, opts)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	if len(c.Couples) > 0 {
		buf.WriteString("\n")
	}
	for _, cp := range c.Couples {
		m, okM := c.Node(cp.Mother)
		f, okF := c.Node(cp.Father)
		if !okM || !okF {
			continue
		}
		u := unionID(cp)
		x := (m.X + f.X) / 2
		y := (m.Y + f.Y) / 2
		fmt.Fprintf(&buf, "  %q [shape=point, width=0.05, pos=%q];\n", u, pos(x, y, c.Height))
		fmt.Fprintf(&buf, "  %q -- %q;\n", cp.Mother, u)
		fmt.Fprintf(&buf, "  %q -- %q;\n", u, cp.Father)
		for _, l := range c.Children(cp) {
			fmt.Fprintf(&buf, "  %q -- %q;\n", u, l.Child)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func unionID(cp chart.Couple) string {
	return "u:" + cp.Mother + ":" + cp.Father
}

func fmtLabel(n chart.Node, opts Options) string {
	if !opts.Labels && !opts.Detailed {
		return ""
	}
	label := n.Label()
	if opts.Detailed {
		label += fmt.Sprintf("\ngen: %d\nslot: %d", n.Generation, n.Slot)
	}
	return label
}

func fmtAttrs(n chart.Node, height float64, opts Options) []string {
	attrs := []string{
		"shape=" + shapeFor(n.Gender),
		fmt.Sprintf("pos=%q", pos(n.X, n.Y, height)),
	}
	if label := fmtLabel(n, opts); label != "" {
		attrs = append(attrs, fmt.Sprintf("xlabel=%q", label))
	}

	var style []string
	switch {
	case n.Placeholder:
		style = append(style, "dashed")
	case n.Deceased != "":
		style = append(style, "filled", "diagonals")
	}
	if len(style) > 0 {
		attrs = append(attrs, fmt.Sprintf("style=%q", strings.Join(style, ",")))
	}
	if n.Placeholder {
		attrs = append(attrs, "color=grey50")
	}
	if n.Proband {
		attrs = append(attrs, "penwidth=3")
	}
	return attrs
}

func shapeFor(gender string) string {
	switch gender {
	case "Male":
		return "box"
	case "Female":
		return "circle"
	default:
		return "diamond"
	}
}

func pos(x, y, height float64) string {
	return num(x) + "," + num(height-y) + "!"
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz's neato engine,
// which keeps pinned positions.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized svg element with a plain
// pixel-sized one so the output scales like the direct SVG renderer.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
