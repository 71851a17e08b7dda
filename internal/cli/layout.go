package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pedigree/pkg/pipeline"
)

// layoutCommand creates the layout command for computing pedigree layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags   layoutFlags
		output  string
		asChart bool
	)

	cmd := &cobra.Command{
		Use:   "layout [family|dataset.json]",
		Short: "Compute the generation/slot layout of a family",
		Long: `Compute the generation/slot layout of a family.

The argument is a family id in the data directory (for example "10001") or a
path to a dataset file. Without an argument a family is picked interactively.

The output is the laid-out dataset and the pass diagnostics as JSON. With
--chart, the chart display model in pixels is written instead.

Results are cached, so repeated runs on an unchanged dataset are instant.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: c.completeFamilies,
		RunE: func(cmd *cobra.Command, args []string) error {
			arg, err := c.familyArg(args)
			if err != nil || arg == "" {
				return err
			}
			return c.runLayout(cmd.Context(), arg, c.options(cmd, &flags), flags.noCache, output, asChart)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <family>.layout.json)")
	cmd.Flags().BoolVar(&asChart, "chart", false, "write the chart display model instead of the layout")

	return cmd
}

// runLayout loads the dataset, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, arg string, opts pipeline.Options, noCache bool, output string, asChart bool) error {
	path, err := c.datasetPath(arg)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	ds, err := runner.Load(ctx, path)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	l, cacheHit, err := runner.LayoutWithCacheInfo(ctx, ds, opts)
	if l == nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	if err != nil {
		printLayoutDefects(l)
		return err
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	var data []byte
	suffix := ".layout.json"
	if asChart {
		ch, err := runner.Chart(ctx, l, opts)
		if err != nil {
			return fmt.Errorf("build chart: %w", err)
		}
		if data, err = json.MarshalIndent(ch, "", "  "); err != nil {
			return fmt.Errorf("encode chart: %w", err)
		}
		suffix = ".chart.json"
	} else if data, err = pipeline.MarshalLayout(l); err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}

	outputPath := output
	if outputPath == "" {
		outputPath = l.FamilyID() + suffix
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(l.Result.Tree), len(l.Result.Placeholders), defectCount(l), cacheHit)
	printNewline()
	printNextStep("Render", appName+" render "+arg)

	return nil
}

func defectCount(l *pipeline.Layout) int {
	return len(l.Result.Unplaced) + len(l.Result.Overlaps) + len(l.Result.DepthExceeded)
}

// printLayoutDefects lists the diagnostics of a layout pass.
func printLayoutDefects(l *pipeline.Layout) {
	res := l.Result
	for _, id := range res.OverlapIDs() {
		p := res.Overlaps[id]
		printWarning("overlap: %s at generation %d, slot %d", id, p.Generation, p.Slot)
	}
	for _, id := range res.DepthExceeded {
		printWarning("depth cap reached at %s", id)
	}
	if n := len(res.Unplaced); n > 0 {
		printDetail("%d people not connected to the proband", n)
	}
}
