package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/dbsmedya/goreport/internal/dataset"
)

// Matrix is a square Pearson correlation matrix over Fields.
type Matrix struct {
	Fields []string
	Values [][]float64
}

// At returns the coefficient for fields i and j.
func (m *Matrix) At(i, j int) float64 {
	return m.Values[i][j]
}

// Correlate computes pairwise Pearson coefficients between fields. Each pair
// uses the rows where both values are present. Pairs with fewer than two such
// rows, or with a constant side, are NaN.
func Correlate(ds *dataset.Dataset, fields []string) (*Matrix, error) {
	columns := make([][]float64, len(fields))
	for i, name := range fields {
		values, err := ds.Floats(name)
		if err != nil {
			return nil, err
		}
		columns[i] = values
	}

	m := &Matrix{
		Fields: append([]string(nil), fields...),
		Values: make([][]float64, len(fields)),
	}
	for i := range m.Values {
		m.Values[i] = make([]float64, len(fields))
	}

	for i := range fields {
		for j := 0; j <= i; j++ {
			r := pearson(columns[i], columns[j], i == j)
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m, nil
}

func pearson(a, b []float64, same bool) float64 {
	x := make([]float64, 0, len(a))
	y := make([]float64, 0, len(b))
	for k := range a {
		if math.IsNaN(a[k]) || math.IsNaN(b[k]) {
			continue
		}
		x = append(x, a[k])
		y = append(y, b[k])
	}
	if len(x) < 2 || isConstant(x) || isConstant(y) {
		return math.NaN()
	}
	if same {
		return 1
	}

	r := stat.Correlation(x, y, nil)
	// rounding can push |r| past 1 for exact linear relations
	return math.Max(-1, math.Min(1, r))
}

func isConstant(x []float64) bool {
	for _, v := range x[1:] {
		if v != x[0] {
			return false
		}
	}
	return true
}
