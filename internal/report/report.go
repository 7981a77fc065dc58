// Package report runs the report steps over one loaded dataset and writes
// the resulting tables and charts.
package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/plot/vg"

	"github.com/dbsmedya/goreport/internal/config"
	"github.com/dbsmedya/goreport/internal/dataset"
	"github.com/dbsmedya/goreport/internal/logger"
	"github.com/dbsmedya/goreport/internal/pipeline"
	"github.com/dbsmedya/goreport/internal/render"
	"github.com/dbsmedya/goreport/internal/source"
)

// Options configures one Generator.
type Options struct {
	Input     string    // input file path or mysql:<table>
	OutputDir string    // created if absent
	Stdout    io.Writer // receives the printed tables
	Styled    bool      // bold table titles
	Publisher ObjectPutter
}

// StepResult records the outcome of one executed step.
type StepResult struct {
	Name     string
	Output   string
	Duration time.Duration
	Err      error
}

// Result contains statistics and status of a report run.
type Result struct {
	RunID       string
	Input       string
	OutputDir   string
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
	Rows        int
	Steps       []StepResult
	Artifacts   []string // image paths in step order
	Success     bool
}

// Generator loads one input and runs the report steps over it.
type Generator struct {
	config *config.Config
	opts   Options
	logger *logger.Logger
	steps  []Step
}

// NewGenerator creates a Generator. The configuration must already be validated.
func NewGenerator(cfg *config.Config, log *logger.Logger, opts Options) (*Generator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if log == nil {
		log = logger.NewDefault()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	return &Generator{
		config: cfg,
		opts:   opts,
		logger: log,
		steps:  defaultSteps(),
	}, nil
}

// Plan returns the steps in execution order without running anything.
func (g *Generator) Plan() ([]Step, error) {
	gr := pipeline.NewGraph()
	byName := make(map[string]Step, len(g.steps))
	for _, s := range g.steps {
		if err := gr.AddNode(s.Name); err != nil {
			return nil, err
		}
		byName[s.Name] = s
	}
	for _, s := range g.steps {
		for _, dep := range s.DependsOn {
			if err := gr.AddEdge(dep, s.Name); err != nil {
				return nil, fmt.Errorf("step %s: %w", s.Name, err)
			}
		}
	}

	order, err := gr.TopologicalSort()
	if err != nil {
		return nil, err
	}

	plan := make([]Step, len(order))
	for i, name := range order {
		plan[i] = byName[name]
	}
	return plan, nil
}

// Preflight loads the input and checks that it can be reported on: the
// required fields are present and every joining date parses. It has no
// file-system side effects.
func (g *Generator) Preflight(ctx context.Context) (*dataset.Dataset, []time.Time, error) {
	if g.opts.Input == "" {
		return nil, nil, fmt.Errorf("input is required")
	}
	ds, err := source.Open(ctx, g.opts.Input, source.Options{
		Sheet:    g.config.Input.Sheet,
		Database: &g.config.Database,
		Logger:   g.logger,
	})
	if err != nil {
		return nil, nil, err
	}

	if err := ds.Require(); err != nil {
		return nil, nil, fmt.Errorf("preflight failed: %w", err)
	}

	dates, err := ds.ParseDates(dataset.FieldJoiningDate, g.config.Input.DateLayouts)
	if err != nil {
		return nil, nil, fmt.Errorf("preflight failed: %w", err)
	}

	return ds, dates, nil
}

// Run executes the report. The first failing step aborts the run; steps
// after it do not run.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context is nil")
	}
	if g.opts.OutputDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}

	plan, err := g.Plan()
	if err != nil {
		return nil, fmt.Errorf("failed to plan report: %w", err)
	}

	runID := uuid.NewString()
	log := g.logger.WithRun(runID)
	result := &Result{
		RunID:     runID,
		Input:     g.opts.Input,
		OutputDir: g.opts.OutputDir,
		StartedAt: time.Now(),
	}

	log.Infow("Starting report", "input", g.opts.Input, "output_dir", g.opts.OutputDir, "steps", len(plan))

	ds, dates, err := g.Preflight(ctx)
	if err != nil {
		return result, err
	}
	result.Rows = ds.Len()

	if err := os.MkdirAll(g.opts.OutputDir, 0755); err != nil {
		return result, fmt.Errorf("failed to create output directory: %w", err)
	}

	rc := g.config.Report
	state := &runState{
		config: g.config,
		ds:     ds,
		dates:  dates,
		outDir: g.opts.OutputDir,
		charts: render.New(render.Options{
			Width:         vg.Length(rc.WidthInches) * vg.Inch,
			Height:        vg.Length(rc.HeightInches) * vg.Inch,
			HeatmapHeight: vg.Length(rc.HeatmapHeight) * vg.Inch,
		}),
		tables: render.NewTableWriter(g.opts.Stdout, g.opts.Styled, rc.FloatPrecision),
	}

	for _, step := range plan {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("report cancelled before %s: %w", step.Name, err)
		}

		stepLog := log.WithStep(step.Name)
		stepLog.Debugw("Running step", "output", step.Output)

		start := time.Now()
		err := step.run(state)
		sr := StepResult{Name: step.Name, Output: step.Output, Duration: time.Since(start), Err: err}
		result.Steps = append(result.Steps, sr)

		if err != nil {
			stepLog.Errorw("Step failed", "error", err)
			return result, fmt.Errorf("step %s failed: %w", step.Name, err)
		}
		if step.Image() {
			result.Artifacts = append(result.Artifacts, filepath.Join(g.opts.OutputDir, step.Output))
		}
		stepLog.Infow("Step completed", "output", step.Output, "duration", sr.Duration)
	}

	result.CompletedAt = time.Now()
	result.Duration = result.CompletedAt.Sub(result.StartedAt)
	result.Success = true

	if err := g.finish(ctx, log, result); err != nil {
		return result, err
	}

	log.Infow("Report completed",
		"rows", result.Rows,
		"artifacts", len(result.Artifacts),
		"duration", result.Duration,
	)
	return result, nil
}

// finish writes the optional extras of a successful run.
func (g *Generator) finish(ctx context.Context, log *logger.Logger, result *Result) error {
	uploads := append([]string(nil), result.Artifacts...)

	if g.config.Report.Manifest {
		path, err := WriteManifest(result)
		if err != nil {
			return err
		}
		uploads = append(uploads, path)
		log.Infow("Manifest written", "path", path)
	}

	if g.config.Metrics.Textfile != "" {
		if err := WriteMetrics(g.config.Metrics.Textfile, result); err != nil {
			return err
		}
		log.Infow("Metrics written", "path", g.config.Metrics.Textfile)
	}

	if g.config.Publish.S3.Enabled {
		pub, err := g.publisher(ctx, log)
		if err != nil {
			return err
		}
		keys, err := pub.Publish(ctx, result.RunID, uploads)
		if err != nil {
			return err
		}
		log.Infow("Artifacts published", "bucket", g.config.Publish.S3.Bucket, "objects", len(keys))
	}
	return nil
}

func (g *Generator) publisher(ctx context.Context, log *logger.Logger) (*Publisher, error) {
	if g.opts.Publisher != nil {
		return NewPublisher(g.opts.Publisher, g.config.Publish.S3, log), nil
	}
	return NewS3Publisher(ctx, g.config.Publish.S3, log)
}
