// Package analysis computes the derived views of a record set: summary
// statistics, correlations, category counts, group means, boxplot
// aggregates, histograms and year trends.
//
// Missing numeric values are NaN and are skipped by every computation.
package analysis

import (
	"math"
	"sort"
)

// finite returns the non-NaN values of x in their original order.
func finite(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// sortedCopy returns a sorted copy of x.
func sortedCopy(x []float64) []float64 {
	cp := make([]float64, len(x))
	copy(cp, x)
	sort.Float64s(cp)
	return cp
}

// quantile returns the p-quantile (0 <= p <= 1) of sorted data, linearly
// interpolating between the closest ranks.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	rank := p * float64(n-1)
	lower := int(rank)
	upper := lower + 1
	weight := rank - float64(lower)
	if upper >= n {
		return sorted[lower]
	}
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
