package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// YearValue is one point of a per-year series.
type YearValue struct {
	Year  int
	Value float64
}

// CountByYear counts rows per year, sorted by year ascending.
func CountByYear(years []int) []YearValue {
	counts := make(map[int]int)
	for _, y := range years {
		counts[y]++
	}

	out := make([]YearValue, 0, len(counts))
	for y, n := range counts {
		out = append(out, YearValue{Year: y, Value: float64(n)})
	}
	sortByYear(out)
	return out
}

// MeanByYear averages values per year, sorted by year ascending. NaN values
// are skipped; a year without any value has a NaN mean.
func MeanByYear(years []int, values []float64) []YearValue {
	buckets := make(map[int][]float64)
	for i, y := range years {
		b := buckets[y]
		if !math.IsNaN(values[i]) {
			b = append(b, values[i])
		}
		buckets[y] = b
	}

	out := make([]YearValue, 0, len(buckets))
	for y, b := range buckets {
		mean := math.NaN()
		if len(b) > 0 {
			mean = stat.Mean(b, nil)
		}
		out = append(out, YearValue{Year: y, Value: mean})
	}
	sortByYear(out)
	return out
}

func sortByYear(series []YearValue) {
	sort.Slice(series, func(i, j int) bool {
		return series[i].Year < series[j].Year
	})
}
