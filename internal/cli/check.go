package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/pipeline"
)

// checkReport is the JSON form of one family's diagnostics.
type checkReport struct {
	Family        string   `json:"family"`
	Members       int      `json:"members"`
	Unplaced      []string `json:"unplaced"`
	Overlaps      []string `json:"overlaps"`
	DepthExceeded []string `json:"depth_exceeded"`
	Repaired      []string `json:"repaired"`
	Error         string   `json:"error,omitempty"`
}

func (r checkReport) defective() bool {
	return r.Error != "" || len(r.Overlaps) > 0 || len(r.DepthExceeded) > 0
}

// checkCommand creates the check command for layout diagnostics.
func (c *CLI) checkCommand() *cobra.Command {
	var (
		flags  layoutFlags
		all    bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "check [family|dataset.json]...",
		Short: "Report layout diagnostics",
		Long: `Lay out each family and report unplaced people, overlapping members and
branches cut off by the depth cap.

With --strict the command exits non-zero when any family has overlaps or
depth-capped branches. Unplaced people alone are not a failure.`,
		ValidArgsFunction: c.completeFamilies,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				ids, err := pipeline.ListFamilies(c.cfg.Data.Dir)
				if err != nil {
					return err
				}
				args = append(args, ids...)
			}
			if len(args) == 0 {
				return fmt.Errorf("no families given (pass ids or --all)")
			}
			opts := c.options(cmd, &flags)
			strict := opts.Strict
			opts.Strict = false
			return c.runCheck(cmd.Context(), args, opts, flags.noCache, strict, asJSON)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&all, "all", "a", false, "check every family in the data directory")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print reports as JSON")

	return cmd
}

func (c *CLI) runCheck(ctx context.Context, args []string, opts pipeline.Options, noCache, strict, asJSON bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Checking...")
	spinner.Start()

	reports := make([]checkReport, 0, len(args))
	failed := 0
	for i, arg := range args {
		if ctx.Err() != nil {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.SetMessage(fmt.Sprintf("Checking %s (%d/%d)...", arg, i+1, len(args)))
		r := c.checkOne(ctx, runner, arg, opts)
		if r.defective() {
			failed++
		}
		reports = append(reports, r)
	}
	spinner.Stop()

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			printCheckReport(r)
		}
		printNewline()
		printKeyValue("families", StyleNumber.Render(fmt.Sprint(len(reports))))
		printKeyValue("defective", StyleNumber.Render(fmt.Sprint(failed)))
	}

	if strict && failed > 0 {
		return perrors.New(perrors.ErrCodeLayoutOverlap, "%d of %d families have layout defects", failed, len(reports))
	}
	return nil
}

func (c *CLI) checkOne(ctx context.Context, runner *pipeline.Runner, arg string, opts pipeline.Options) checkReport {
	report := checkReport{Family: arg}
	path, err := c.datasetPath(arg)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	ds, err := runner.Load(ctx, path)
	if err != nil {
		report.Error = perrors.UserMessage(err)
		return report
	}
	l, err := runner.Layout(ctx, ds, opts)
	if err != nil {
		report.Error = perrors.UserMessage(err)
		return report
	}
	res := l.Result
	report.Family = l.FamilyID()
	report.Members = len(res.Tree)
	report.Unplaced = nonNil(res.Unplaced)
	report.Overlaps = nonNil(res.OverlapIDs())
	report.DepthExceeded = nonNil(res.DepthExceeded)
	report.Repaired = nonNil(res.Repaired)
	return report
}

func printCheckReport(r checkReport) {
	switch {
	case r.Error != "":
		printError("%s: %s", r.Family, r.Error)
		return
	case r.defective():
		printWarning("%s: %d members, %d overlapping, %d depth-capped",
			r.Family, r.Members, len(r.Overlaps), len(r.DepthExceeded))
	default:
		printSuccess("%s: %d members", r.Family, r.Members)
	}
	if len(r.Overlaps) > 0 {
		printDetail("overlaps: %v", r.Overlaps)
	}
	if len(r.DepthExceeded) > 0 {
		printDetail("depth cap: %v", r.DepthExceeded)
	}
	if len(r.Unplaced) > 0 {
		printDetail("unplaced: %d", len(r.Unplaced))
	}
	if len(r.Repaired) > 0 {
		printDetail("repaired references: %v", r.Repaired)
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
