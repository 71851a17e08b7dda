package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/pedigree/pkg/chart"
	"github.com/matzehuels/pedigree/pkg/render"
	"github.com/matzehuels/pedigree/pkg/render/nodelink"
	"github.com/matzehuels/pedigree/pkg/render/svg"
)

// RenderChart generates output artifacts in the requested formats.
// PNG and PDF are converted from the direct SVG.
func RenderChart(ctx context.Context, c *chart.Chart, opts Options) (map[string][]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var doc []byte
	direct := func() []byte {
		if doc == nil {
			doc = svg.Render(c, svgOptions(opts)...)
		}
		return doc
	}

	for _, name := range opts.Formats {
		format, _ := render.ParseFormat(name)
		var data []byte
		var err error

		switch format {
		case render.FormatJSON:
			data, err = json.MarshalIndent(c, "", "  ")
		case render.FormatDOT:
			data = []byte(nodelink.ToDOT(c, dotOptions(opts)))
		case render.FormatSVG:
			data = direct()
		case render.FormatGraphviz:
			data, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(c, dotOptions(opts)))
		case render.FormatPNG:
			data, err = render.ToPNG(ctx, direct(), opts.Scale)
		case render.FormatPDF:
			data, err = render.ToPDF(ctx, direct())
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", name, err)
		}
		artifacts[name] = data
	}
	return artifacts, nil
}

func svgOptions(opts Options) []svg.Option {
	var out []svg.Option
	if opts.Labels {
		out = append(out, svg.WithLabels())
	}
	if opts.Interactive {
		out = append(out, svg.WithInteraction())
	}
	if opts.DragURL != "" {
		out = append(out, svg.WithDragging(opts.DragURL))
	}
	return out
}

func dotOptions(opts Options) nodelink.Options {
	return nodelink.Options{Labels: opts.Labels}
}
