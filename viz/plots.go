// Package viz renders the inspection plots of the analysis workflow:
// per-feature density curves, scatterplots, and correlation heatmaps.
// Everything renders to image files; there is no interactive surface.
package viz

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/sugiyama-h/tabkit/pkg/errors"
)

// densityPoints is the grid resolution of a density curve.
const densityPoints = 200

// DensityPlot renders a gaussian kernel density estimate of values and
// saves it to path (format chosen by extension, e.g. .png). Bandwidth
// follows Silverman's rule of thumb.
func DensityPlot(values []float64, title, path string) error {
	if len(values) < 2 {
		return errors.NewModelError("viz.DensityPlot", "need at least 2 values", errors.ErrEmptyData)
	}

	_, std := stat.MeanStdDev(values, nil)
	if std == 0 {
		return errors.NewValueError("viz.DensityPlot", "constant values have no density curve")
	}
	bw := 1.06 * std * math.Pow(float64(len(values)), -0.2)

	lo, hi := minMax(values)
	lo -= 3 * bw
	hi += 3 * bw

	pts := make(plotter.XYs, densityPoints)
	for i := range pts {
		x := lo + (hi-lo)*float64(i)/float64(densityPoints-1)
		pts[i].X = x
		pts[i].Y = kde(values, x, bw)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "value"
	p.Y.Label.Text = "density"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "viz.DensityPlot")
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = color.RGBA{B: 180, A: 255}
	p.Add(line, plotter.NewGrid())

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrap(err, "viz.DensityPlot: save")
	}
	return nil
}

// kde evaluates the gaussian kernel density estimate at x.
func kde(values []float64, x, bw float64) float64 {
	sum := 0.0
	for _, v := range values {
		u := (x - v) / bw
		sum += math.Exp(-0.5*u*u) / math.Sqrt(2*math.Pi)
	}
	return sum / (float64(len(values)) * bw)
}

// ScatterPlot renders y against x and saves it to path. When labels is
// non-nil it must have the same length; rows labeled -1 (outliers) are
// drawn in red, everything else in blue.
func ScatterPlot(x, y, labels []float64, title, path string) error {
	if len(x) == 0 || len(x) != len(y) {
		return errors.NewDimensionError("viz.ScatterPlot", len(x), len(y), 0)
	}
	if labels != nil && len(labels) != len(x) {
		return errors.NewDimensionError("viz.ScatterPlot", len(x), len(labels), 0)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid())

	var inliers, outliers plotter.XYs
	for i := range x {
		pt := plotter.XY{X: x[i], Y: y[i]}
		if labels != nil && labels[i] == -1 {
			outliers = append(outliers, pt)
		} else {
			inliers = append(inliers, pt)
		}
	}

	if len(inliers) > 0 {
		s, err := plotter.NewScatter(inliers)
		if err != nil {
			return errors.Wrap(err, "viz.ScatterPlot")
		}
		s.GlyphStyle.Radius = vg.Points(2)
		s.GlyphStyle.Color = color.RGBA{B: 200, A: 255}
		p.Add(s)
		if labels != nil {
			p.Legend.Add("inlier", s)
		}
	}
	if len(outliers) > 0 {
		s, err := plotter.NewScatter(outliers)
		if err != nil {
			return errors.Wrap(err, "viz.ScatterPlot")
		}
		s.GlyphStyle.Radius = vg.Points(2.5)
		s.GlyphStyle.Color = color.RGBA{R: 220, A: 255}
		p.Add(s)
		p.Legend.Add("outlier", s)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrap(err, "viz.ScatterPlot: save")
	}
	return nil
}

// CorrelationHeatmap computes the Pearson correlation matrix of the columns
// of X and renders it as a heat grid saved to path. names labels the
// columns and must match the column count.
func CorrelationHeatmap(X mat.Matrix, names []string, title, path string) error {
	_, c := X.Dims()
	if c == 0 {
		return errors.NewModelError("viz.CorrelationHeatmap", "empty data", errors.ErrEmptyData)
	}
	if len(names) != c {
		return errors.NewDimensionError("viz.CorrelationHeatmap", c, len(names), 1)
	}

	corr := mat.NewSymDense(c, nil)
	stat.CorrelationMatrix(corr, X, nil)

	p := plot.New()
	p.Title.Text = title

	hm := plotter.NewHeatMap(&symGrid{m: corr}, palette.Heat(12, 1))
	// Correlations live in [-1, 1]; pin the color scale so the palette is
	// comparable across plots.
	hm.Min, hm.Max = -1, 1
	p.Add(hm)

	ticks := make([]plot.Tick, c)
	for i, name := range names {
		ticks[i] = plot.Tick{Value: float64(i), Label: name}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.Y.Tick.Marker = plot.ConstantTicks(ticks)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrap(err, "viz.CorrelationHeatmap: save")
	}
	return nil
}

// symGrid adapts a symmetric matrix to the plotter.GridXYZ interface.
type symGrid struct {
	m *mat.SymDense
}

func (g *symGrid) Dims() (c, r int) {
	n := g.m.SymmetricDim()
	return n, n
}

func (g *symGrid) Z(c, r int) float64 { return g.m.At(r, c) }
func (g *symGrid) X(c int) float64    { return float64(c) }
func (g *symGrid) Y(r int) float64    { return float64(r) }

func minMax(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
