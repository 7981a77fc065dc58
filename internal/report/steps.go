package report

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/dbsmedya/goreport/internal/analysis"
	"github.com/dbsmedya/goreport/internal/config"
	"github.com/dbsmedya/goreport/internal/dataset"
	"github.com/dbsmedya/goreport/internal/render"
)

// Printed table titles.
const (
	TitleSummary     = "Descriptive Statistics"
	TitleCorrelation = "Correlation Matrix"
	TitleDepartment  = "Department-wise Statistics"
)

// Step names.
const (
	StepSummary               = "summary"
	StepAgeDistribution       = "age_distribution"
	StepSalaryDistribution    = "salary_distribution"
	StepDepartmentCount       = "department_count"
	StepCorrelation           = "correlation"
	StepDepartmentMeans       = "department_means"
	StepSalaryByDepartment    = "salary_by_department"
	StepEmployeesByDepartment = "employees_by_department"
	StepDeriveDates           = "derive_dates"
	StepNewJoinersTrend       = "new_joiners_trend"
	StepSalaryTrend           = "salary_trend"
)

// Step is one derived view of the report.
type Step struct {
	Name      string
	Output    string // image file name, table title, or empty
	DependsOn []string
	run       func(*runState) error
}

// Image reports whether the step writes a PNG file.
func (s Step) Image() bool {
	return strings.HasSuffix(s.Output, ".png")
}

// runState is shared by the steps of one run.
type runState struct {
	config *config.Config
	ds     *dataset.Dataset
	dates  []time.Time
	outDir string
	charts *render.Renderer
	tables *render.TableWriter
}

func (s *runState) path(name string) string {
	return filepath.Join(s.outDir, name)
}

// ImageNames lists the files a successful run writes, in step order.
var ImageNames = []string{
	"age_distribution.png",
	"salary_distribution.png",
	"department_count.png",
	"correlation_matrix.png",
	"salary_by_department.png",
	"employees_by_department.png",
	"trend_new_joiners_by_year.png",
	"average_salary_over_years.png",
}

// defaultSteps returns the report steps in registration order. Without
// dependencies between them the pipeline keeps this order.
func defaultSteps() []Step {
	return []Step{
		{Name: StepSummary, Output: TitleSummary, run: printSummary},
		{
			Name:   StepAgeDistribution,
			Output: "age_distribution.png",
			run:    distribution(dataset.FieldAge, "age_distribution.png", "Age Distribution"),
		},
		{
			Name:   StepSalaryDistribution,
			Output: "salary_distribution.png",
			run:    distribution(dataset.FieldSalary, "salary_distribution.png", "Salary Distribution"),
		},
		{Name: StepDepartmentCount, Output: "department_count.png", run: departmentCount},
		{Name: StepCorrelation, Output: "correlation_matrix.png", run: correlation},
		{Name: StepDepartmentMeans, Output: TitleDepartment, run: departmentMeans},
		{Name: StepSalaryByDepartment, Output: "salary_by_department.png", run: salaryByDepartment},
		{Name: StepEmployeesByDepartment, Output: "employees_by_department.png", run: employeesByDepartment},
		{Name: StepDeriveDates, run: deriveDates},
		{
			Name:      StepNewJoinersTrend,
			Output:    "trend_new_joiners_by_year.png",
			DependsOn: []string{StepDeriveDates},
			run:       newJoinersTrend,
		},
		{
			Name:      StepSalaryTrend,
			Output:    "average_salary_over_years.png",
			DependsOn: []string{StepDeriveDates},
			run:       salaryTrend,
		},
	}
}

func printSummary(s *runState) error {
	summaries, err := analysis.Summarize(s.ds, s.ds.NumericFields())
	if err != nil {
		return err
	}
	return s.tables.Write(s.tables.SummaryTable(TitleSummary, summaries))
}

func distribution(field, file, title string) func(*runState) error {
	return func(s *runState) error {
		values, err := s.ds.Floats(field)
		if err != nil {
			return err
		}
		h := analysis.NewHistogram(values, s.config.Report.HistogramBins)
		density := analysis.Density(values, s.config.Report.DensityPoints, float64(h.N)*h.BinWidth())
		return s.charts.Histogram(s.path(file), render.Labels{Title: title, X: field, Y: "Frequency"}, h, density)
	}
}

func departmentCounts(s *runState) ([]analysis.Count, error) {
	departments, err := s.ds.Strings(dataset.FieldDepartment)
	if err != nil {
		return nil, err
	}
	return analysis.CountBy(departments), nil
}

func departmentCount(s *runState) error {
	counts, err := departmentCounts(s)
	if err != nil {
		return err
	}
	l := render.Labels{Title: "Department Count", X: dataset.FieldDepartment, Y: "Count"}
	return s.charts.CategoryCounts(s.path("department_count.png"), l, counts)
}

// correlation prints the matrix and draws it as a heatmap.
func correlation(s *runState) error {
	m, err := analysis.Correlate(s.ds, s.ds.NumericFields())
	if err != nil {
		return err
	}
	if err := s.tables.Write(s.tables.MatrixTable(TitleCorrelation, m)); err != nil {
		return err
	}
	return s.charts.Heatmap(s.path("correlation_matrix.png"), render.Labels{Title: TitleCorrelation}, m)
}

func departmentMeans(s *runState) error {
	g, err := analysis.GroupMeans(s.ds, dataset.FieldDepartment, s.ds.NumericFields())
	if err != nil {
		return err
	}
	return s.tables.Write(s.tables.GroupTable(TitleDepartment, g))
}

func salaryByDepartment(s *runState) error {
	boxes, err := analysis.BoxSummaries(s.ds, dataset.FieldDepartment, dataset.FieldSalary)
	if err != nil {
		return err
	}
	l := render.Labels{Title: "Salary Distribution by Department", X: dataset.FieldDepartment, Y: dataset.FieldSalary}
	return s.charts.BoxPlot(s.path("salary_by_department.png"), l, boxes)
}

func employeesByDepartment(s *runState) error {
	counts, err := departmentCounts(s)
	if err != nil {
		return err
	}
	l := render.Labels{Title: "Number of Employees by Department", X: dataset.FieldDepartment, Y: "Number of Employees"}
	return s.charts.ValueCounts(s.path("employees_by_department.png"), l, analysis.SortByCount(counts))
}

// deriveDates adds Year and Month from the dates parsed during preflight.
func deriveDates(s *runState) error {
	return s.ds.DeriveDateParts(s.dates)
}

func newJoinersTrend(s *runState) error {
	years, err := s.ds.Ints(dataset.FieldYear)
	if err != nil {
		return err
	}
	l := render.Labels{Title: "Trend of New Joiners by Year", X: dataset.FieldYear, Y: "Number of New Joiners"}
	return s.charts.YearLine(s.path("trend_new_joiners_by_year.png"), l, analysis.CountByYear(years))
}

func salaryTrend(s *runState) error {
	years, err := s.ds.Ints(dataset.FieldYear)
	if err != nil {
		return err
	}
	salaries, err := s.ds.Floats(dataset.FieldSalary)
	if err != nil {
		return err
	}
	l := render.Labels{Title: "Average Salary Over the Years", X: dataset.FieldYear, Y: "Average Salary"}
	return s.charts.YearLine(s.path("average_salary_over_years.png"), l, analysis.MeanByYear(years, salaries))
}
