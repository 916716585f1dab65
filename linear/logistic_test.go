package linear

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/sugiyama-h/tabkit/pkg/errors"
)

// separable returns a linearly separable 1-D problem.
func separable() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(8, 1, []float64{-4, -3, -2, -1, 1, 2, 3, 4})
	y := mat.NewDense(8, 1, []float64{0, 0, 0, 0, 1, 1, 1, 1})
	return X, y
}

func TestLogisticRegressionSeparable(t *testing.T) {
	X, y := separable()

	clf := NewLogisticRegression(WithMaxIter(2000))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	acc, err := clf.Score(X, y)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if acc != 1.0 {
		t.Errorf("accuracy on separable data = %v, want 1", acc)
	}
	if clf.Coef[0] <= 0 {
		t.Errorf("Coef[0] = %v, want positive for increasing labels", clf.Coef[0])
	}
}

func TestLogisticRegressionProbabilities(t *testing.T) {
	X, y := separable()

	clf := NewLogisticRegression()
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	proba, err := clf.PredictProba(X)
	if err != nil {
		t.Fatalf("PredictProba() error = %v", err)
	}
	r, _ := proba.Dims()
	for i := 0; i < r; i++ {
		p := proba.At(i, 0)
		if p < 0 || p > 1 {
			t.Errorf("proba[%d] = %v, want in [0, 1]", i, p)
		}
	}
	// Probabilities are monotone in the single feature.
	for i := 1; i < r; i++ {
		if proba.At(i, 0) < proba.At(i-1, 0) {
			t.Errorf("proba not monotone at row %d", i)
		}
	}
}

func TestLogisticRegressionConvergenceWarning(t *testing.T) {
	var captured []error
	errors.SetWarningHandler(func(w error) { captured = append(captured, w) })
	defer errors.SetWarningHandler(func(w error) {})

	X, y := separable()
	clf := NewLogisticRegression(WithMaxIter(2), WithTol(1e-12))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	found := false
	for _, w := range captured {
		var cw *errors.ConvergenceWarning
		if errors.As(w, &cw) {
			found = true
		}
	}
	if !found {
		t.Error("no ConvergenceWarning with a 2-iteration budget")
	}
}

func TestLogisticRegressionInputValidation(t *testing.T) {
	clf := NewLogisticRegression()

	// Non-binary targets.
	X := mat.NewDense(2, 1, []float64{1, 2})
	yBad := mat.NewDense(2, 1, []float64{0, 2})
	if err := clf.Fit(X, yBad); err == nil {
		t.Error("Fit() with non-binary targets: want error")
	}

	// Row mismatch.
	yShort := mat.NewDense(1, 1, []float64{0})
	if err := clf.Fit(X, yShort); err == nil {
		t.Error("Fit() with mismatched rows: want error")
	}
}

func TestLogisticRegressionNotFitted(t *testing.T) {
	clf := NewLogisticRegression()
	_, err := clf.Predict(mat.NewDense(1, 1, []float64{0}))
	var nf *errors.NotFittedError
	if !errors.As(err, &nf) {
		t.Errorf("error = %v, want NotFittedError", err)
	}
}

func TestSigmoidClamps(t *testing.T) {
	if got := sigmoid(100); got != 1 {
		t.Errorf("sigmoid(100) = %v, want 1", got)
	}
	if got := sigmoid(-100); got != 0 {
		t.Errorf("sigmoid(-100) = %v, want 0", got)
	}
	if got := sigmoid(0); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("sigmoid(0) = %v, want 0.5", got)
	}
}
