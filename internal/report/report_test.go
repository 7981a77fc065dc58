package report

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dbsmedya/goreport/internal/config"
	"github.com/dbsmedya/goreport/internal/dataset"
	"github.com/dbsmedya/goreport/internal/logger"
	"github.com/dbsmedya/goreport/internal/pipeline"
)

const employeesCSV = `Age,Salary,Department,Joining_Date
25,50000,IT,2018-03-01
41,90000,HR,2017-06-15
23,40000,Sales,2019-01-10
40,80000,IT,2018-11-20
25,50000,Sales,2020-07-01
30,62000,IT,2019-05-05
35,71000,HR,2020-02-29
`

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestGenerator(t *testing.T, cfg *config.Config, input, outDir string, stdout io.Writer) *Generator {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	g, err := NewGenerator(cfg, logger.NewNop(), Options{
		Input:     input,
		OutputDir: outDir,
		Stdout:    stdout,
	})
	require.NoError(t, err)
	return g
}

func TestNewGenerator_Validation(t *testing.T) {
	_, err := NewGenerator(nil, logger.NewNop(), Options{Input: "a.csv"})
	assert.Error(t, err)

	g, err := NewGenerator(config.DefaultConfig(), nil, Options{Input: "a.csv"})
	require.NoError(t, err)
	assert.NotNil(t, g.logger)
	assert.Equal(t, os.Stdout, g.opts.Stdout)
}

func TestGenerator_RequiresPaths(t *testing.T) {
	g, err := NewGenerator(config.DefaultConfig(), logger.NewNop(), Options{OutputDir: t.TempDir()})
	require.NoError(t, err)

	_, _, err = g.Preflight(context.Background())
	assert.EqualError(t, err, "input is required")

	g, err = NewGenerator(config.DefaultConfig(), logger.NewNop(), Options{Input: "a.csv"})
	require.NoError(t, err)
	_, err = g.Run(context.Background())
	assert.EqualError(t, err, "output directory is required")
}

func TestGenerator_Plan(t *testing.T) {
	g := newTestGenerator(t, nil, "employees.csv", "out", io.Discard)

	plan, err := g.Plan()
	require.NoError(t, err)

	names := make([]string, len(plan))
	var images []string
	for i, s := range plan {
		names[i] = s.Name
		if s.Image() {
			images = append(images, s.Output)
		}
	}

	assert.Equal(t, []string{
		StepSummary,
		StepAgeDistribution,
		StepSalaryDistribution,
		StepDepartmentCount,
		StepCorrelation,
		StepDepartmentMeans,
		StepSalaryByDepartment,
		StepEmployeesByDepartment,
		StepDeriveDates,
		StepNewJoinersTrend,
		StepSalaryTrend,
	}, names)
	assert.Equal(t, ImageNames, images)
}

func TestGenerator_Plan_Cycle(t *testing.T) {
	g := newTestGenerator(t, nil, "employees.csv", "out", io.Discard)
	noop := func(*runState) error { return nil }
	g.steps = []Step{
		{Name: "a", DependsOn: []string{"b"}, run: noop},
		{Name: "b", DependsOn: []string{"a"}, run: noop},
	}

	_, err := g.Plan()
	var cycleErr *pipeline.CycleError
	require.True(t, errors.As(err, &cycleErr))
}

func TestGenerator_Plan_UnknownDependency(t *testing.T) {
	g := newTestGenerator(t, nil, "employees.csv", "out", io.Discard)
	g.steps = []Step{{Name: "a", DependsOn: []string{"missing"}}}

	_, err := g.Plan()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step a")
}

func TestGenerator_Run_WritesAllImages(t *testing.T) {
	input := writeFile(t, "employees.csv", employeesCSV)
	outDir := filepath.Join(t.TempDir(), "reports", "2024")
	var stdout bytes.Buffer

	result, err := newTestGenerator(t, nil, input, outDir, &stdout).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 7, result.Rows)
	assert.Len(t, result.Steps, 11)
	assert.NotEmpty(t, result.RunID)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, len(ImageNames))

	for i, name := range ImageNames {
		path := filepath.Join(outDir, name)
		assert.Equal(t, path, result.Artifacts[i])

		data, err := os.ReadFile(path)
		require.NoError(t, err, name)
		assert.True(t, bytes.HasPrefix(data, pngMagic), name)
	}

	out := stdout.String()
	summary := strings.Index(out, TitleSummary+":")
	corr := strings.Index(out, TitleCorrelation+":")
	dept := strings.Index(out, TitleDepartment+":")
	require.NotEqual(t, -1, summary)
	assert.Greater(t, corr, summary)
	assert.Greater(t, dept, corr)
	assert.Contains(t, out, "Sales")
}

func TestGenerator_Run_Workbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Age", "Salary", "Department", "Joining_Date"},
		{25, 50000, "IT", "2018-03-01"},
		{41, 90000, "HR", "2017-06-15"},
		{23, 40000, "Sales", "2019-01-10"},
		{40, 80000, "IT", "2018-11-20"},
	}
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	input := filepath.Join(t.TempDir(), "employees.xlsx")
	require.NoError(t, f.SaveAs(input))
	require.NoError(t, f.Close())

	outDir := filepath.Join(t.TempDir(), "out")
	result, err := newTestGenerator(t, nil, input, outDir, io.Discard).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, result.Rows)
	assert.Len(t, result.Artifacts, len(ImageNames))
}

func TestGenerator_Run_Deterministic(t *testing.T) {
	input := writeFile(t, "employees.csv", employeesCSV)

	var first, second bytes.Buffer
	_, err := newTestGenerator(t, nil, input, filepath.Join(t.TempDir(), "a"), &first).Run(context.Background())
	require.NoError(t, err)
	_, err = newTestGenerator(t, nil, input, filepath.Join(t.TempDir(), "b"), &second).Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, first.String())
	assert.Equal(t, first.String(), second.String())
}

func TestGenerator_Run_PreflightFailure(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, err error)
	}{
		{
			name:    "missing field",
			content: "Age,Salary,Joining_Date\n30,50000,2020-01-01\n",
			check: func(t *testing.T, err error) {
				var missing *dataset.MissingFieldError
				require.True(t, errors.As(err, &missing))
				assert.Equal(t, []string{dataset.FieldDepartment}, missing.Fields)
			},
		},
		{
			name:    "bad date",
			content: "Age,Salary,Department,Joining_Date\n30,50000,IT,2020-01-01\n31,51000,HR,someday\n",
			check: func(t *testing.T, err error) {
				var dateErr *dataset.DateParseError
				require.True(t, errors.As(err, &dateErr))
				assert.Equal(t, 2, dateErr.Row)
				assert.Equal(t, "someday", dateErr.Value)
			},
		},
		{
			name:    "non numeric salary",
			content: "Age,Salary,Department,Joining_Date\n30,high,IT,2020-01-01\n",
			check: func(t *testing.T, err error) {
				var typeErr *dataset.FieldTypeError
				require.True(t, errors.As(err, &typeErr))
				assert.Equal(t, dataset.FieldSalary, typeErr.Field)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := writeFile(t, "employees.csv", tt.content)
			outDir := filepath.Join(t.TempDir(), "out")
			var stdout bytes.Buffer

			_, err := newTestGenerator(t, nil, input, outDir, &stdout).Run(context.Background())
			require.Error(t, err)
			tt.check(t, err)

			_, statErr := os.Stat(outDir)
			assert.True(t, os.IsNotExist(statErr), "output directory must not be created")
			assert.Empty(t, stdout.String())
		})
	}
}

func TestGenerator_Run_MissingInput(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	_, err := newTestGenerator(t, nil, filepath.Join(t.TempDir(), "nope.csv"), outDir, io.Discard).Run(context.Background())
	require.Error(t, err)

	_, statErr := os.Stat(outDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerator_Run_FirstFailureAborts(t *testing.T) {
	input := writeFile(t, "employees.csv", employeesCSV)
	g := newTestGenerator(t, nil, input, filepath.Join(t.TempDir(), "out"), io.Discard)

	var ran []string
	record := func(name string, err error) func(*runState) error {
		return func(*runState) error {
			ran = append(ran, name)
			return err
		}
	}
	boom := errors.New("boom")
	g.steps = []Step{
		{Name: "first", run: record("first", nil)},
		{Name: "second", run: record("second", boom)},
		{Name: "third", run: record("third", nil)},
	}

	result, err := g.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "step second failed")
	assert.Equal(t, []string{"first", "second"}, ran)
	assert.False(t, result.Success)
	require.Len(t, result.Steps, 2)
	assert.Equal(t, boom, result.Steps[1].Err)
}

func TestGenerator_Run_Cancelled(t *testing.T) {
	input := writeFile(t, "employees.csv", employeesCSV)
	g := newTestGenerator(t, nil, input, filepath.Join(t.TempDir(), "out"), io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

// fakePutter records uploaded objects.
type fakePutter struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newFakePutter() *fakePutter {
	return &fakePutter{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[*in.Key] = data
	f.types[*in.Key] = *in.ContentType
	return &s3.PutObjectOutput{}, nil
}

func TestGenerator_Run_Extras(t *testing.T) {
	input := writeFile(t, "employees.csv", employeesCSV)
	outDir := filepath.Join(t.TempDir(), "out")
	metricsPath := filepath.Join(t.TempDir(), "goreport.prom")

	cfg := config.DefaultConfig()
	cfg.Report.Manifest = true
	cfg.Metrics.Textfile = metricsPath
	cfg.Publish.S3 = config.S3Config{Enabled: true, Bucket: "reports", Prefix: "hr"}

	putter := newFakePutter()
	g, err := NewGenerator(cfg, logger.NewNop(), Options{
		Input:     input,
		OutputDir: outDir,
		Stdout:    io.Discard,
		Publisher: putter,
	})
	require.NoError(t, err)

	result, err := g.Run(context.Background())
	require.NoError(t, err)

	m, err := ReadManifest(filepath.Join(outDir, ManifestFile))
	require.NoError(t, err)
	assert.Equal(t, result.RunID, m.RunID)
	assert.Equal(t, 7, m.Rows)
	assert.Len(t, m.Steps, 11)
	require.Len(t, m.Artifacts, len(ImageNames))
	for i, a := range m.Artifacts {
		assert.Equal(t, ImageNames[i], a.File)
		assert.Len(t, a.SHA256, 64)
		assert.Greater(t, a.Size, int64(0))
	}

	metrics, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "goreport_input_rows 7")
	assert.Contains(t, string(metrics), "goreport_artifacts_written 8")
	assert.Contains(t, string(metrics), `goreport_step_duration_seconds{step="derive_dates"}`)

	assert.Len(t, putter.objects, len(ImageNames)+1)
	key := "hr/" + result.RunID + "/age_distribution.png"
	require.Contains(t, putter.objects, key)
	assert.True(t, bytes.HasPrefix(putter.objects[key], pngMagic))
	assert.Equal(t, "image/png", putter.types[key])
	assert.Equal(t, "application/yaml", putter.types["hr/"+result.RunID+"/"+ManifestFile])
}

func TestPublisher_StopsAtFirstError(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	require.NoError(t, os.WriteFile(a, pngMagic, 0644))

	putter := newFakePutter()
	putter.err = errors.New("access denied")
	p := NewPublisher(putter, config.S3Config{Bucket: "b", Prefix: "p"}, nil)

	keys, err := p.Publish(context.Background(), "run", []string{a, a})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "p/run/a.png")
	assert.Empty(t, keys)
}

func TestPublisher_ObjectKey(t *testing.T) {
	p := NewPublisher(newFakePutter(), config.S3Config{Prefix: "goreport/"}, nil)
	assert.Equal(t, "goreport/r1/chart.png", p.ObjectKey("r1", "/tmp/out/chart.png"))

	p = NewPublisher(newFakePutter(), config.S3Config{}, nil)
	assert.Equal(t, "r1/chart.png", p.ObjectKey("r1", "chart.png"))
}
