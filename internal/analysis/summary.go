package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/dbsmedya/goreport/internal/dataset"
)

// Summary holds the descriptive statistics of one numeric field.
type Summary struct {
	Field string
	Count int
	Mean  float64
	Std   float64 // sample standard deviation
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// SummaryRows are the statistic names in display order.
var SummaryRows = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Values returns the statistics in SummaryRows order.
func (s Summary) Values() []float64 {
	return []float64{float64(s.Count), s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max}
}

// Summarize computes a Summary for each field, in the given order.
func Summarize(ds *dataset.Dataset, fields []string) ([]Summary, error) {
	out := make([]Summary, 0, len(fields))
	for _, name := range fields {
		values, err := ds.Floats(name)
		if err != nil {
			return nil, err
		}
		s := Describe(values)
		s.Field = name
		out = append(out, s)
	}
	return out, nil
}

// Describe computes the statistics of values, ignoring NaN.
func Describe(values []float64) Summary {
	x := finite(values)
	s := Summary{Count: len(x)}
	if len(x) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}

	s.Mean, s.Std = stat.MeanStdDev(x, nil)
	if len(x) == 1 {
		s.Std = math.NaN()
	}

	sorted := sortedCopy(x)
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Q25 = quantile(sorted, 0.25)
	s.Q50 = quantile(sorted, 0.50)
	s.Q75 = quantile(sorted, 0.75)
	return s
}
