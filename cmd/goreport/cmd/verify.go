package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/goreport/internal/logger"
	"github.com/dbsmedya/goreport/internal/report"
)

var verifyMethod string

var verifyCmd = &cobra.Command{
	Use:   "verify <output_directory>",
	Short: "Verify report charts against the run manifest",
	Long: `Verify reads manifest.yaml from a report directory and checks every chart
it lists. The manifest is written when report.manifest is enabled.

Methods:
  - sha256: re-hash every file (default)
  - size:   compare file sizes only

Example:
  goreport verify ./report --method size`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVarP(&verifyMethod, "method", "m", string(report.MethodSHA256),
		"Verification method (sha256, size)")

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	dir := args[0]
	cmd.SilenceUsage = true

	cfg, err := loadConfig(cmd, "")
	if err != nil {
		return err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := signalContext(log)
	defer cancel()

	stats, verifyErr := report.VerifyOutput(ctx, dir, report.VerificationMethod(verifyMethod), log)

	out := cmd.OutOrStdout()
	if stats != nil {
		for _, r := range stats.Results {
			if r.Match {
				fmt.Fprintf(out, "✅ %s\n", r.File)
			} else {
				fmt.Fprintf(out, "❌ %s: %s\n", r.File, r.ErrorMessage)
			}
		}
		fmt.Fprintf(out, "Verified %d artifacts (%s): %d passed, %d failed\n",
			stats.Verified, stats.Method, stats.Passed, stats.Failed)
	}
	return verifyErr
}
