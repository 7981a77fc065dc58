package analysis

import (
	"math"

	"github.com/aclements/go-moremath/stats"
)

// Histogram is an equal-width binning of a sample.
type Histogram struct {
	Edges  []float64 // len(Counts)+1 bin edges
	Counts []int
	N      int
}

// BinWidth returns the width of each bin.
func (h *Histogram) BinWidth() float64 {
	if len(h.Counts) == 0 {
		return 0
	}
	return h.Edges[1] - h.Edges[0]
}

// NewHistogram bins the non-NaN values into n equal-width bins spanning
// [min, max]. Bins are half-open except the last, which is closed. A
// constant sample is centred in a range of width 1.
func NewHistogram(values []float64, n int) *Histogram {
	x := finite(values)
	h := &Histogram{N: len(x)}
	if len(x) == 0 || n <= 0 {
		return h
	}

	lo, hi := minMax(x)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	width := (hi - lo) / float64(n)
	h.Edges = make([]float64, n+1)
	for i := range h.Edges {
		h.Edges[i] = lo + float64(i)*width
	}
	h.Edges[n] = hi

	h.Counts = make([]int, n)
	for _, v := range x {
		bin := int((v - lo) / width)
		if bin >= n {
			bin = n - 1
		}
		h.Counts[bin]++
	}
	return h
}

// Point is one (X, Y) sample of a curve.
type Point struct {
	X, Y float64
}

// Density evaluates a Gaussian kernel density estimate of values at points
// evenly spaced over [min, max]. The curve is scaled by scale, so passing
// N*BinWidth overlays it on a count histogram. It returns nil when the
// sample has fewer than two distinct values.
func Density(values []float64, points int, scale float64) []Point {
	x := finite(values)
	if len(x) < 2 || points < 2 || isConstant(x) {
		return nil
	}

	sample := stats.Sample{Xs: x}
	kde := &stats.KDE{
		Sample:    sample,
		Kernel:    stats.GaussianKernel,
		Bandwidth: scottBandwidth(sample),
	}

	lo, hi := minMax(x)
	step := (hi - lo) / float64(points-1)
	curve := make([]Point, points)
	for i := range curve {
		px := lo + float64(i)*step
		if i == points-1 {
			px = hi
		}
		curve[i] = Point{X: px, Y: kde.PDF(px) * scale}
	}
	return curve
}

// scottBandwidth is Scott's rule applied to the sample standard deviation.
func scottBandwidth(s stats.Sample) float64 {
	return s.StdDev() * math.Pow(float64(len(s.Xs)), -1.0/5)
}

func minMax(x []float64) (float64, float64) {
	lo, hi := x[0], x[0]
	for _, v := range x[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
