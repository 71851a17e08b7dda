package cli

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pedigree/pkg/annotation"
)

// annotationsCommand creates the annotations management command.
func (c *CLI) annotationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "annotations",
		Short: "Show or clear saved node positions",
	}

	cmd.AddCommand(c.annotationsShowCommand())
	cmd.AddCommand(c.annotationsClearCommand())

	return cmd
}

func (c *CLI) annotationsShowCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:               "show <family>",
		Short:             "Print the saved positions of a family",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeFamilies,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := annotation.Open(ctx, c.cfg.Annotations)
			if err != nil {
				return err
			}
			defer store.Close()

			a, err := annotation.LoadOrEmpty(ctx, store, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(a)
			}
			if a.Len() == 0 {
				printInfo("No saved positions for %s", args[0])
				return nil
			}
			printInfo("%d saved positions for %s", a.Len(), StyleHighlight.Render(args[0]))
			for _, id := range slices.Sorted(maps.Keys(a.Positions)) {
				p := a.Positions[id]
				printKeyValue(id, fmt.Sprintf("%.1f, %.1f", p.X, p.Y))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func (c *CLI) annotationsClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "clear <family>...",
		Short:             "Forget the saved positions of families",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: c.completeFamilies,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := annotation.Open(ctx, c.cfg.Annotations)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, id := range args {
				if err := store.Delete(ctx, id); err != nil {
					return fmt.Errorf("clear %s: %w", id, err)
				}
				printSuccess("Cleared annotations for %s", id)
			}
			return nil
		},
	}
}
