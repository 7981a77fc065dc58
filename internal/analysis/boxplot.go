package analysis

import (
	"math"

	"github.com/dbsmedya/goreport/internal/dataset"
)

// BoxSummary holds the boxplot aggregate of one category.
type BoxSummary struct {
	Key    string
	Values []float64 // non-missing values in row order

	Q1, Median, Q3 float64
	Low, High      float64 // whisker ends
	Outliers       []int   // indexes into Values beyond the whiskers
}

// WhiskerIQR is the whisker reach in interquartile ranges.
const WhiskerIQR = 1.5

// BoxSummaries computes a BoxSummary of value per distinct key, in order of
// first appearance. Whiskers reach the most extreme values within
// WhiskerIQR*IQR of the box.
func BoxSummaries(ds *dataset.Dataset, key, value string) ([]BoxSummary, error) {
	keys, err := ds.Strings(key)
	if err != nil {
		return nil, err
	}
	values, err := ds.Floats(value)
	if err != nil {
		return nil, err
	}

	groups := groupValues(keys, values)
	out := make([]BoxSummary, 0, groups.Len())
	for el := groups.Front(); el != nil; el = el.Next() {
		b := Box(finite(el.Value))
		b.Key = el.Key
		out = append(out, b)
	}
	return out, nil
}

// Box computes the boxplot aggregate of values, which must not contain NaN.
func Box(values []float64) BoxSummary {
	b := BoxSummary{Values: values}
	if len(values) == 0 {
		nan := math.NaN()
		b.Q1, b.Median, b.Q3, b.Low, b.High = nan, nan, nan, nan, nan
		return b
	}

	sorted := sortedCopy(values)
	b.Q1 = quantile(sorted, 0.25)
	b.Median = quantile(sorted, 0.5)
	b.Q3 = quantile(sorted, 0.75)

	reach := WhiskerIQR * (b.Q3 - b.Q1)
	lowFence, highFence := b.Q1-reach, b.Q3+reach

	b.Low, b.High = math.Inf(1), math.Inf(-1)
	for i, v := range values {
		if v < lowFence || v > highFence {
			b.Outliers = append(b.Outliers, i)
			continue
		}
		b.Low = math.Min(b.Low, v)
		b.High = math.Max(b.High, v)
	}
	return b
}
