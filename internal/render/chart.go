// Package render draws report views as PNG charts and console tables.
package render

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/dbsmedya/goreport/internal/analysis"
)

// Options sets the image size of every chart.
type Options struct {
	Width         vg.Length
	Height        vg.Length
	HeatmapHeight vg.Length
}

// DefaultOptions returns 10x6 inch charts and a 10x8 inch heatmap.
func DefaultOptions() Options {
	return Options{
		Width:         10 * vg.Inch,
		Height:        6 * vg.Inch,
		HeatmapHeight: 8 * vg.Inch,
	}
}

// Labels are the texts of one chart.
type Labels struct {
	Title string
	X     string
	Y     string
}

var (
	barColor     = color.RGBA{R: 76, G: 114, B: 176, A: 255}
	densityColor = color.RGBA{R: 31, G: 61, B: 122, A: 255}
)

// Renderer writes charts to PNG files.
type Renderer struct {
	opts Options
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

func newPlot(l Labels) *plot.Plot {
	p := plot.New()
	p.Title.Text = l.Title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = l.X
	p.Y.Label.Text = l.Y
	return p
}

func (r *Renderer) save(p *plot.Plot, height vg.Length, path string) error {
	if err := p.Save(r.opts.Width, height, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// Histogram draws h as bars with the density curve, if any, on top.
func (r *Renderer) Histogram(path string, l Labels, h *analysis.Histogram, density []analysis.Point) error {
	p := newPlot(l)

	if len(h.Counts) > 0 {
		bins := make([]plotter.HistogramBin, len(h.Counts))
		for i, n := range h.Counts {
			bins[i] = plotter.HistogramBin{Min: h.Edges[i], Max: h.Edges[i+1], Weight: float64(n)}
		}
		hist := &plotter.Histogram{
			Bins:      bins,
			Width:     h.BinWidth(),
			FillColor: barColor,
			LineStyle: plotter.DefaultLineStyle,
		}
		p.Add(hist)
	}

	if len(density) > 0 {
		pts := make(plotter.XYs, len(density))
		for i, d := range density {
			pts[i] = plotter.XY{X: d.X, Y: d.Y}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("density line: %w", err)
		}
		line.Color = densityColor
		line.Width = vg.Points(2)
		p.Add(line)
	}

	p.Y.Min = 0
	return r.save(p, r.opts.Height, path)
}

// CategoryCounts draws one bar per category, each in its own colour, in the
// given order.
func (r *Renderer) CategoryCounts(path string, l Labels, counts []analysis.Count) error {
	p := newPlot(l)

	names := make([]string, len(counts))
	for i, c := range counts {
		bars, err := plotter.NewBarChart(plotter.Values{float64(c.N)}, vg.Points(40))
		if err != nil {
			return fmt.Errorf("bar %q: %w", c.Key, err)
		}
		bars.XMin = float64(i)
		bars.Color = plotutil.Color(i)
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)
		names[i] = c.Key
	}

	if len(names) > 0 {
		p.NominalX(names...)
	}
	p.Y.Min = 0
	return r.save(p, r.opts.Height, path)
}

// ValueCounts draws counts as single-colour bars in the given order.
func (r *Renderer) ValueCounts(path string, l Labels, counts []analysis.Count) error {
	p := newPlot(l)

	if len(counts) > 0 {
		values := make(plotter.Values, len(counts))
		names := make([]string, len(counts))
		for i, c := range counts {
			values[i] = float64(c.N)
			names[i] = c.Key
		}

		bars, err := plotter.NewBarChart(values, vg.Points(30))
		if err != nil {
			return fmt.Errorf("bars: %w", err)
		}
		bars.Color = barColor
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)

		p.NominalX(names...)
		p.X.Tick.Label.Rotation = math.Pi / 2
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}

	p.Y.Min = 0
	return r.save(p, r.opts.Height, path)
}

// matrixGrid adapts a correlation matrix to plotter.GridXYZ with the first
// field in the top row.
type matrixGrid struct {
	m *analysis.Matrix
}

func (g matrixGrid) Dims() (c, r int) {
	n := len(g.m.Fields)
	return n, n
}

func (g matrixGrid) Z(c, r int) float64 {
	n := len(g.m.Fields)
	return g.m.At(n-1-r, c)
}

func (g matrixGrid) X(c int) float64 { return float64(c) }
func (g matrixGrid) Y(r int) float64 { return float64(r) }

// Heatmap draws m on a blue-red scale fixed to [-1, 1] with each cell
// annotated to two decimals. NaN cells are left blank.
func (r *Renderer) Heatmap(path string, l Labels, m *analysis.Matrix) error {
	p := newPlot(l)
	n := len(m.Fields)

	if n > 0 {
		cm := moreland.SmoothBlueRed()
		cm.SetMin(-1)
		cm.SetMax(1)

		heat := plotter.NewHeatMap(matrixGrid{m: m}, cm.Palette(255))
		heat.Min = -1
		heat.Max = 1
		p.Add(heat)

		grid := matrixGrid{m: m}
		var xys plotter.XYs
		var texts []string
		for row := 0; row < n; row++ {
			for col := 0; col < n; col++ {
				v := grid.Z(col, row)
				if math.IsNaN(v) {
					continue
				}
				xys = append(xys, plotter.XY{X: float64(col), Y: float64(row)})
				texts = append(texts, strconv.FormatFloat(v, 'f', 2, 64))
			}
		}
		if len(xys) > 0 {
			labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
			if err != nil {
				return fmt.Errorf("annotations: %w", err)
			}
			for i := range labels.TextStyle {
				labels.TextStyle[i].XAlign = draw.XCenter
				labels.TextStyle[i].YAlign = draw.YCenter
			}
			p.Add(labels)
		}

		rows := make([]string, n)
		for i, f := range m.Fields {
			rows[n-1-i] = f
		}
		p.NominalX(m.Fields...)
		p.NominalY(rows...)
	}

	return r.save(p, r.opts.HeatmapHeight, path)
}

// BoxPlot draws one box per category in the given order. Categories without
// values are left empty.
func (r *Renderer) BoxPlot(path string, l Labels, boxes []analysis.BoxSummary) error {
	p := newPlot(l)

	names := make([]string, len(boxes))
	for i, box := range boxes {
		names[i] = box.Key
		if len(box.Values) == 0 {
			continue
		}

		b, err := plotter.NewBoxPlot(vg.Points(40), float64(i), plotter.Values(box.Values))
		if err != nil {
			return fmt.Errorf("box %q: %w", box.Key, err)
		}
		b.Quartile1 = box.Q1
		b.Median = box.Median
		b.Quartile3 = box.Q3
		b.AdjLow = box.Low
		b.AdjHigh = box.High
		b.Outside = box.Outliers
		b.FillColor = plotutil.Color(i)
		p.Add(b)
	}

	if len(names) > 0 {
		p.NominalX(names...)
	}
	return r.save(p, r.opts.Height, path)
}

// YearLine draws series as a line with a marker per year. Years with a NaN
// value are skipped.
func (r *Renderer) YearLine(path string, l Labels, series []analysis.YearValue) error {
	p := newPlot(l)

	var pts plotter.XYs
	var ticks []plot.Tick
	for _, s := range series {
		if math.IsNaN(s.Value) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(s.Year), Y: s.Value})
		ticks = append(ticks, plot.Tick{Value: float64(s.Year), Label: strconv.Itoa(s.Year)})
	}

	if len(pts) > 0 {
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return fmt.Errorf("trend line: %w", err)
		}
		line.Color = barColor
		line.Width = vg.Points(2)
		points.Shape = draw.CircleGlyph{}
		points.Color = barColor
		points.Radius = vg.Points(4)
		p.Add(line, points)
		p.X.Tick.Marker = plot.ConstantTicks(ticks)
	}

	return r.save(p, r.opts.Height, path)
}
