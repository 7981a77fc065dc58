package cmd

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/goreport/internal/logger"
	"github.com/dbsmedya/goreport/internal/report"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the report steps in execution order",
	Long: `Plan resolves the step dependencies and displays the order in which
the report steps run, together with the table or chart each one produces.

Example:
  goreport plan`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, "")
	if err != nil {
		return err
	}

	gen, err := report.NewGenerator(cfg, logger.NewNop(), report.Options{})
	if err != nil {
		return fmt.Errorf("failed to create report generator: %w", err)
	}

	plan, err := gen.Plan()
	if err != nil {
		return fmt.Errorf("failed to resolve step order: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "=== Report Plan (%d steps) ===\n", len(plan))

	width := 0
	for _, s := range plan {
		width = max(width, runewidth.StringWidth(s.Name))
	}

	for i, s := range plan {
		line := fmt.Sprintf("%2d. %s", i+1, runewidth.FillRight(s.Name, width))
		switch {
		case s.Image():
			line += "  -> " + s.Output
		case s.Output != "":
			line += "  -> " + s.Output + " (table)"
		}
		if len(s.DependsOn) > 0 {
			line += "  [after " + strings.Join(s.DependsOn, ", ") + "]"
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
