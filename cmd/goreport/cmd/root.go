package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/goreport/internal/config"
	"github.com/dbsmedya/goreport/internal/logger"
	"github.com/dbsmedya/goreport/internal/report"
	"github.com/dbsmedya/goreport/internal/source"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile   string
	logLevel  string
	logFormat string
	sheet     string
	bins      int
)

var rootCmd = &cobra.Command{
	Use:   "goreport <path_to_input_file> <output_directory>",
	Short: "Employee dataset analysis report",
	Long: `Generate a data analysis report from an employee dataset.

The input must carry the fields Age, Salary, Department and Joining_Date.
It may be a workbook (.xlsx, .xlsm, .xltx, .xltm), a .csv file, or a MySQL
table given as mysql:<table>.

Three tables are printed to standard output:
  - Descriptive Statistics
  - Correlation Matrix
  - Department-wise Statistics

Eight charts are written to the output directory, which is created if absent:
  age_distribution.png, salary_distribution.png, department_count.png,
  correlation_matrix.png, salary_by_department.png,
  employees_by_department.png, trend_new_joiners_by_year.png,
  average_salary_over_years.png

Example:
  goreport employees.xlsx ./report`,
	Args:    cobra.ExactArgs(2),
	Version: Version,
	RunE:    runReport,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "goreport.yaml",
		"Path to configuration file (optional when left at the default)")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Input and report overrides
	rootCmd.PersistentFlags().StringVar(&sheet, "sheet", "",
		"Override workbook sheet (default: first sheet)")
	rootCmd.PersistentFlags().IntVar(&bins, "bins", 0,
		"Override histogram bin count")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel  string
	LogFormat string
	Sheet     string
	Bins      int
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:  logLevel,
		LogFormat: logFormat,
		Sheet:     sheet,
		Bins:      bins,
	}
}

// loadConfig reads the config file, applies flag overrides and validates
// the result. The default config path may be absent; an explicit one may not.
// Database settings are checked only when input names a MySQL table.
func loadConfig(cmd *cobra.Command, input string) (*config.Config, error) {
	configFile := GetConfigFile()

	var cfg *config.Config
	var err error
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(configFile)
	} else {
		cfg, err = config.LoadOptional(configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat, overrides.Sheet, overrides.Bins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if input != "" {
		if kind, err := source.Detect(input); err == nil && kind == source.KindMySQL {
			if err := cfg.ValidateDatabase(); err != nil {
				return nil, err
			}
		}
	}
	return cfg, nil
}

// styled reports whether table titles may use terminal styling on w.
func styled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return color.IsTerminal(f.Fd()) && color.SupportColor()
}

func runReport(cmd *cobra.Command, args []string) error {
	input, outputDir := args[0], args[1]
	cmd.SilenceUsage = true

	cfg, err := loadConfig(cmd, input)
	if err != nil {
		return err
	}

	// Initialize logger
	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Debugw("Configuration loaded", "config", GetConfigFile())

	// Setup context with signal handling
	ctx, cancel := signalContext(log)
	defer cancel()

	out := cmd.OutOrStdout()
	gen, err := report.NewGenerator(cfg, log, report.Options{
		Input:     input,
		OutputDir: outputDir,
		Stdout:    out,
		Styled:    styled(out),
	})
	if err != nil {
		return fmt.Errorf("failed to create report generator: %w", err)
	}

	result, err := gen.Run(ctx)
	if err != nil {
		return err
	}

	log.Infow("Report written",
		"run", result.RunID,
		"rows", result.Rows,
		"charts", len(result.Artifacts),
		"duration", result.Duration,
	)
	return nil
}
