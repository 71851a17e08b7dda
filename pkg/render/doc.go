// Package render turns pedigree charts into drawable formats.
//
// # Overview
//
// Renderers consume a [chart.Chart], the display model produced by
// [chart.Build], and never run a layout themselves:
//
//   - [svg]: a self-contained SVG document drawn directly from the chart
//   - [nodelink]: Graphviz DOT with pinned positions, rendered in-process
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both renderers use them.
//
//	doc := svg.Render(c, svg.WithLabels())
//	pdf, err := render.ToPDF(doc)
//	png, err := render.ToPNG(doc, 2.0)  // 2x scale
//
// [chart.Chart]: github.com/matzehuels/pedigree/pkg/chart.Chart
// [chart.Build]: github.com/matzehuels/pedigree/pkg/chart.Build
// [svg]: github.com/matzehuels/pedigree/pkg/render/svg
// [nodelink]: github.com/matzehuels/pedigree/pkg/render/nodelink
package render
