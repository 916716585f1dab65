package viz

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func savedImage(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("output file %s is empty", path)
	}
}

func TestDensityPlot(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	values := make([]float64, 300)
	for i := range values {
		values[i] = rng.NormFloat64()
	}

	path := filepath.Join(t.TempDir(), "density.png")
	if err := DensityPlot(values, "feature density", path); err != nil {
		t.Fatalf("DensityPlot() error = %v", err)
	}
	savedImage(t, path)
}

func TestDensityPlotRejectsDegenerateInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "density.png")

	if err := DensityPlot([]float64{1.0}, "too few", path); err == nil {
		t.Error("expected error for a single value")
	}
	if err := DensityPlot([]float64{2, 2, 2, 2}, "constant", path); err == nil {
		t.Error("expected error for constant values")
	}
}

func TestKDEIntegratesToOne(t *testing.T) {
	values := []float64{-1, 0, 0.5, 2, 3}
	bw := 0.8

	// Trapezoid over a range wide enough to capture the mass.
	integral := 0.0
	step := 0.01
	for x := -10.0; x < 13.0; x += step {
		integral += kde(values, x, bw) * step
	}
	if math.Abs(integral-1.0) > 1e-3 {
		t.Errorf("density integrates to %v, want 1", integral)
	}
}

func TestScatterPlotWithLabels(t *testing.T) {
	x := []float64{0, 1, 2, 3, 10}
	y := []float64{0, 1.1, 1.9, 3.2, -5}
	labels := []float64{1, 1, 1, 1, -1}

	path := filepath.Join(t.TempDir(), "scatter.png")
	if err := ScatterPlot(x, y, labels, "anomaly view", path); err != nil {
		t.Fatalf("ScatterPlot() error = %v", err)
	}
	savedImage(t, path)
}

func TestScatterPlotNoLabels(t *testing.T) {
	x := []float64{0, 1, 2}
	y := []float64{3, 4, 5}

	path := filepath.Join(t.TempDir(), "scatter.png")
	if err := ScatterPlot(x, y, nil, "plain view", path); err != nil {
		t.Fatalf("ScatterPlot() error = %v", err)
	}
	savedImage(t, path)
}

func TestScatterPlotLengthMismatch(t *testing.T) {
	if err := ScatterPlot([]float64{1, 2}, []float64{1}, nil, "", "out.png"); err == nil {
		t.Error("expected error for mismatched x/y lengths")
	}
	if err := ScatterPlot([]float64{1, 2}, []float64{1, 2}, []float64{1}, "", "out.png"); err == nil {
		t.Error("expected error for mismatched label length")
	}
}

func TestCorrelationHeatmap(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	n := 100
	X := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		a := rng.NormFloat64()
		X.Set(i, 0, a)
		X.Set(i, 1, a+0.1*rng.NormFloat64()) // strongly correlated with column 0
		X.Set(i, 2, rng.NormFloat64())
	}

	path := filepath.Join(t.TempDir(), "corr.png")
	err := CorrelationHeatmap(X, []string{"a", "b", "c"}, "correlations", path)
	if err != nil {
		t.Fatalf("CorrelationHeatmap() error = %v", err)
	}
	savedImage(t, path)
}

func TestCorrelationHeatmapNameMismatch(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{1, 2, 3, 4, 5, 6, 7, 8})
	if err := CorrelationHeatmap(X, []string{"only-one"}, "", "out.png"); err == nil {
		t.Error("expected error when names do not match columns")
	}
}

func TestSymGrid(t *testing.T) {
	s := mat.NewSymDense(2, []float64{1, 0.5, 0.5, 1})
	g := &symGrid{m: s}

	c, r := g.Dims()
	if c != 2 || r != 2 {
		t.Errorf("Dims() = %d, %d, want 2, 2", c, r)
	}
	if got := g.Z(0, 1); got != 0.5 {
		t.Errorf("Z(0, 1) = %v, want 0.5", got)
	}
	if g.X(1) != 1 || g.Y(0) != 0 {
		t.Errorf("coordinate axes should be the column/row indices")
	}
}
