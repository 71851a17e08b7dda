package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pedigree/pkg/pipeline"
	"github.com/matzehuels/pedigree/pkg/render"
)

// renderOpts holds the render-only flags.
type renderOpts struct {
	output            string  // output directory or base path
	formats           string  // comma-separated formats
	labels            bool    // draw names under symbols
	interactive       bool    // lineage highlighting in direct SVG
	ignoreAnnotations bool    // lay out without saved positions
	scale             float64 // PNG scale factor
}

// renderCommand creates the render command for drawing pedigree charts.
func (c *CLI) renderCommand() *cobra.Command {
	var flags layoutFlags
	ro := renderOpts{labels: true, scale: 2}

	cmd := &cobra.Command{
		Use:   "render [family|dataset.json]",
		Short: "Render a family chart to SVG, Graphviz, DOT, PNG, PDF or JSON",
		Long: `Render a family chart.

Formats:
  svg       standard pedigree symbols drawn directly (default)
  graphviz  the same chart drawn by Graphviz (neato with pinned positions)
  dot       Graphviz source
  png, pdf  converted from svg (requires rsvg-convert)
  json      the chart display model

Saved annotation positions are applied unless --ignore-annotations is set.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: c.completeFamilies,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(ro.formats)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			arg, err := c.familyArg(args)
			if err != nil || arg == "" {
				return err
			}
			opts := c.options(cmd, &flags)
			opts.Formats = formats
			opts.Labels = ro.labels
			opts.Interactive = ro.interactive
			opts.IgnoreAnnotations = ro.ignoreAnnotations
			opts.Scale = ro.scale
			return c.runRender(cmd.Context(), arg, opts, flags.noCache, ro.output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output directory, or file path for a single format")
	cmd.Flags().StringVarP(&ro.formats, "format", "f", "", "output format(s): svg (default), graphviz, dot, png, pdf, json (comma-separated)")
	cmd.Flags().BoolVar(&ro.labels, "labels", ro.labels, "draw names under symbols")
	cmd.Flags().BoolVar(&ro.interactive, "interactive", false, "highlight lineages on hover (svg)")
	cmd.Flags().BoolVar(&ro.ignoreAnnotations, "ignore-annotations", false, "ignore saved node positions")
	cmd.Flags().Float64Var(&ro.scale, "scale", ro.scale, "PNG scale factor")

	return cmd
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, arg string, opts pipeline.Options, noCache bool, output string) error {
	path, err := c.datasetPath(arg)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Path = path
	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Rendering chart...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		if result != nil && result.Layout != nil {
			printLayoutDefects(result.Layout)
		}
		return err
	}
	spinner.Stop()

	familyID := result.Layout.FamilyID()
	paths, err := writeArtifacts(result.Artifacts, opts.Formats, familyID, output)
	if err != nil {
		return err
	}
	prog.done("Rendered " + familyID)

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.Members, result.Stats.Placeholders, defectCount(result.Layout),
		result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)

	return nil
}

// writeArtifacts writes the artifacts in format order and returns the
// paths written. A single format with an output ending in its extension is
// written to that exact path; otherwise output is a directory (default ".")
// holding "<family>.<ext>" files.
func writeArtifacts(artifacts map[string][]byte, formats []string, familyID, output string) ([]string, error) {
	var paths []string
	for _, name := range formats {
		data, ok := artifacts[name]
		if !ok {
			continue
		}
		format, err := render.ParseFormat(name)
		if err != nil {
			return paths, err
		}
		p := artifactPath(format, familyID, output, len(formats) == 1)
		if dir := filepath.Dir(p); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func artifactPath(format render.Format, familyID, output string, single bool) string {
	ext := "." + format.Ext()
	if single && strings.HasSuffix(output, ext) {
		return output
	}
	return filepath.Join(output, familyID+ext)
}
