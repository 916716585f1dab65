package anomaly

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/sugiyama-h/tabkit/pkg/errors"
)

// clusterWithOutliers builds a tight gaussian blob plus a few far points.
// Returns the matrix and the row index where outliers start.
func clusterWithOutliers(nInliers, nOutliers int, seed int64) (*mat.Dense, int) {
	rng := rand.New(rand.NewSource(seed))
	X := mat.NewDense(nInliers+nOutliers, 2, nil)
	for i := 0; i < nInliers; i++ {
		X.Set(i, 0, rng.NormFloat64())
		X.Set(i, 1, rng.NormFloat64())
	}
	for i := 0; i < nOutliers; i++ {
		X.Set(nInliers+i, 0, 10+rng.Float64())
		X.Set(nInliers+i, 1, -10-rng.Float64())
	}
	return X, nInliers
}

func TestIsolationForestScoreRange(t *testing.T) {
	X, _ := clusterWithOutliers(200, 5, 1)

	forest := NewIsolationForest(WithSeed(7))
	if err := forest.Fit(X); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	scores, err := forest.ScoreSamples(X)
	if err != nil {
		t.Fatalf("ScoreSamples() error = %v", err)
	}
	for i, s := range scores {
		if s <= 0 || s >= 1 {
			t.Errorf("score[%d] = %v, want in (0, 1)", i, s)
		}
	}
}

func TestIsolationForestOutliersScoreHigher(t *testing.T) {
	X, outlierStart := clusterWithOutliers(300, 10, 2)

	forest := NewIsolationForest(WithSeed(11))
	if err := forest.Fit(X); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	scores, err := forest.ScoreSamples(X)
	if err != nil {
		t.Fatalf("ScoreSamples() error = %v", err)
	}

	var inlierMean, outlierMean float64
	for i, s := range scores {
		if i < outlierStart {
			inlierMean += s
		} else {
			outlierMean += s
		}
	}
	inlierMean /= float64(outlierStart)
	outlierMean /= float64(len(scores) - outlierStart)

	if outlierMean <= inlierMean {
		t.Errorf("mean outlier score %v not above mean inlier score %v", outlierMean, inlierMean)
	}
	// Isolated points sit clearly above the 0.5 convention.
	if outlierMean < 0.6 {
		t.Errorf("mean outlier score = %v, want >= 0.6", outlierMean)
	}
}

func TestIsolationForestDeterministicUnderSeed(t *testing.T) {
	X, _ := clusterWithOutliers(100, 5, 3)

	var runs [2][]float64
	for k := range runs {
		forest := NewIsolationForest(WithSeed(42), WithNEstimators(20))
		if err := forest.Fit(X); err != nil {
			t.Fatalf("Fit() error = %v", err)
		}
		scores, err := forest.ScoreSamples(X)
		if err != nil {
			t.Fatalf("ScoreSamples() error = %v", err)
		}
		runs[k] = scores
	}
	for i := range runs[0] {
		if runs[0][i] != runs[1][i] {
			t.Fatalf("score[%d] differs between identical runs: %v vs %v", i, runs[0][i], runs[1][i])
		}
	}
}

func TestIsolationForestPredictWithContamination(t *testing.T) {
	X, outlierStart := clusterWithOutliers(200, 10, 4)

	forest := NewIsolationForest(WithSeed(5), WithContamination(10.0/210.0))
	if err := forest.Fit(X); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	labels, err := forest.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	flaggedOutliers := 0
	for i := outlierStart; i < len(labels); i++ {
		if labels[i] == -1 {
			flaggedOutliers++
		}
	}
	if flaggedOutliers < 8 {
		t.Errorf("only %d/10 planted outliers flagged", flaggedOutliers)
	}
}

func TestAvgPathLength(t *testing.T) {
	tests := []struct {
		n    int
		want float64
	}{
		{n: 0, want: 0},
		{n: 1, want: 0},
		{n: 2, want: 1},
		// c(n) = 2H(n-1) - 2(n-1)/n with H approximated by ln + gamma.
		{n: 256, want: 2*(math.Log(255)+eulerGamma) - 2*255.0/256.0},
	}
	for _, tt := range tests {
		if got := avgPathLength(tt.n); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("avgPathLength(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
	// c(n) grows with n, so scores normalized by it stay comparable.
	if !(avgPathLength(10) < avgPathLength(100) && avgPathLength(100) < avgPathLength(1000)) {
		t.Error("avgPathLength is not increasing in n")
	}
}

func TestScoreDecreasesWithPathLength(t *testing.T) {
	// s = 2^(-h/c): longer average paths mean lower scores.
	norm := avgPathLength(256)
	prev := math.Inf(1)
	for h := 1.0; h <= 16; h++ {
		s := math.Exp2(-h / norm)
		if s >= prev {
			t.Fatalf("score did not decrease at path length %v", h)
		}
		prev = s
	}
}

func TestIsolationForestNotFitted(t *testing.T) {
	forest := NewIsolationForest()
	_, err := forest.ScoreSamples(mat.NewDense(1, 2, []float64{0, 0}))
	var nf *errors.NotFittedError
	if !errors.As(err, &nf) {
		t.Errorf("error = %v, want NotFittedError", err)
	}
}

func TestIsolationForestValidation(t *testing.T) {
	X := mat.NewDense(10, 1, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})

	if err := NewIsolationForest(WithNEstimators(0)).Fit(X); err == nil {
		t.Error("Fit() with zero trees: want error")
	}
	if err := NewIsolationForest(WithContamination(0.9)).Fit(X); err == nil {
		t.Error("Fit() with contamination > 0.5: want error")
	}
}

func TestIsolationForestDimensionMismatch(t *testing.T) {
	X, _ := clusterWithOutliers(50, 2, 6)
	forest := NewIsolationForest(WithSeed(1), WithNEstimators(10))
	if err := forest.Fit(X); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	_, err := forest.ScoreSamples(mat.NewDense(1, 3, []float64{0, 0, 0}))
	var de *errors.DimensionError
	if !errors.As(err, &de) {
		t.Errorf("error = %v, want DimensionError", err)
	}
}
