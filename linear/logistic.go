// Package linear provides the supervised baseline for the analysis
// workflow: a binary logistic-regression classifier.
package linear

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/sugiyama-h/tabkit/core/model"
	"github.com/sugiyama-h/tabkit/pkg/errors"
)

// LogisticRegression is a binary classifier over labels {0, 1}, fitted by
// full-batch gradient descent with an optional L2 penalty.
type LogisticRegression struct {
	state *model.StateManager

	// FitIntercept controls whether a bias term is learned.
	FitIntercept bool
	// C is the inverse L2 regularization strength; 0 disables the penalty.
	C float64
	// MaxIter bounds the gradient-descent iterations.
	MaxIter int
	// Tol stops iteration once the largest gradient component is below it.
	Tol float64

	// Coef and Intercept are the fitted parameters.
	Coef      []float64
	Intercept float64

	nIter int
}

// LogisticOption configures a LogisticRegression.
type LogisticOption func(*LogisticRegression)

// WithC sets the inverse regularization strength.
func WithC(c float64) LogisticOption {
	return func(lr *LogisticRegression) { lr.C = c }
}

// WithFitIntercept toggles the bias term.
func WithFitIntercept(fit bool) LogisticOption {
	return func(lr *LogisticRegression) { lr.FitIntercept = fit }
}

// WithMaxIter sets the iteration budget.
func WithMaxIter(n int) LogisticOption {
	return func(lr *LogisticRegression) { lr.MaxIter = n }
}

// WithTol sets the gradient-norm stopping tolerance.
func WithTol(tol float64) LogisticOption {
	return func(lr *LogisticRegression) { lr.Tol = tol }
}

// NewLogisticRegression creates a classifier with the usual defaults
// (intercept on, C=1, 1000 iterations, tol 1e-4).
func NewLogisticRegression(opts ...LogisticOption) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		FitIntercept: true,
		C:            1.0,
		MaxIter:      1000,
		Tol:          1e-4,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Fit trains the classifier on features X and binary targets y (an n×1
// matrix of 0/1 labels). It raises ConvergenceWarning when the iteration
// budget runs out before the gradient tolerance is met.
func (lr *LogisticRegression) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return errors.NewModelError("LogisticRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if yCols != 1 {
		return errors.NewDimensionError("LogisticRegression.Fit", 1, yCols, 1)
	}
	if yRows != nSamples {
		return errors.NewDimensionError("LogisticRegression.Fit", nSamples, yRows, 0)
	}
	for i := 0; i < nSamples; i++ {
		if v := y.At(i, 0); v != 0 && v != 1 {
			return errors.NewValueError("LogisticRegression.Fit", "targets must be 0 or 1")
		}
	}

	lr.Coef = make([]float64, nFeatures)
	lr.Intercept = 0
	lr.nIter = 0

	grad := make([]float64, nFeatures)
	converged := false

	for iter := 0; iter < lr.MaxIter; iter++ {
		for j := range grad {
			grad[j] = 0
		}
		gradIntercept := 0.0

		for i := 0; i < nSamples; i++ {
			z := lr.Intercept
			for j := 0; j < nFeatures; j++ {
				z += X.At(i, j) * lr.Coef[j]
			}
			residual := sigmoid(z) - y.At(i, 0)
			gradIntercept += residual
			for j := 0; j < nFeatures; j++ {
				grad[j] += residual * X.At(i, j)
			}
		}

		for j := range grad {
			grad[j] /= float64(nSamples)
		}
		gradIntercept /= float64(nSamples)

		if lr.C > 0 {
			lambda := 1.0 / lr.C
			for j := range grad {
				grad[j] += lambda * lr.Coef[j] / float64(nSamples)
			}
		}

		// Decaying step size keeps full-batch descent stable without a
		// line search.
		step := 1.0 / (1.0 + 0.1*float64(iter))
		for j := range lr.Coef {
			lr.Coef[j] -= step * grad[j]
		}
		if lr.FitIntercept {
			lr.Intercept -= step * gradIntercept
		}
		lr.nIter = iter + 1

		maxGrad := math.Abs(gradIntercept)
		for _, g := range grad {
			if math.Abs(g) > maxGrad {
				maxGrad = math.Abs(g)
			}
		}
		if maxGrad < lr.Tol {
			converged = true
			break
		}
	}

	if !converged {
		errors.Warn(errors.NewConvergenceWarning("LogisticRegression", lr.nIter, ""))
	}

	lr.state.SetDimensions(nSamples, nFeatures)
	lr.state.SetFitted()
	return nil
}

// PredictProba returns the probability of the positive class for each row
// of X as an n×1 matrix.
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !lr.state.IsFitted() {
		return nil, errors.NewNotFittedError("LogisticRegression", "PredictProba")
	}
	r, c := X.Dims()
	if c != lr.state.NFeatures() {
		return nil, errors.NewDimensionError("LogisticRegression.PredictProba", lr.state.NFeatures(), c, 1)
	}

	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		z := lr.Intercept
		for j := 0; j < c; j++ {
			z += X.At(i, j) * lr.Coef[j]
		}
		out.Set(i, 0, sigmoid(z))
	}
	return out, nil
}

// Predict returns hard 0/1 labels at the 0.5 probability threshold.
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := lr.PredictProba(X)
	if err != nil {
		return nil, err
	}
	r, _ := proba.Dims()
	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		if proba.At(i, 0) >= 0.5 {
			out.Set(i, 0, 1)
		}
	}
	return out, nil
}

// Score returns the accuracy of Predict against binary targets y.
func (lr *LogisticRegression) Score(X, y mat.Matrix) (float64, error) {
	pred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	r, _ := pred.Dims()
	yRows, _ := y.Dims()
	if yRows != r {
		return 0, errors.NewDimensionError("LogisticRegression.Score", r, yRows, 0)
	}
	hits := 0
	for i := 0; i < r; i++ {
		if pred.At(i, 0) == y.At(i, 0) {
			hits++
		}
	}
	return float64(hits) / float64(r), nil
}

// NIter returns the number of gradient-descent iterations run by Fit.
func (lr *LogisticRegression) NIter() int { return lr.nIter }

// GetParams returns the classifier's hyperparameters.
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"fit_intercept": lr.FitIntercept,
		"C":             lr.C,
		"max_iter":      lr.MaxIter,
		"tol":           lr.Tol,
	}
}

func (lr *LogisticRegression) String() string {
	if !lr.state.IsFitted() {
		return fmt.Sprintf("LogisticRegression(C=%.2f, max_iter=%d)", lr.C, lr.MaxIter)
	}
	return fmt.Sprintf("LogisticRegression(C=%.2f, max_iter=%d, n_iter=%d)", lr.C, lr.MaxIter, lr.nIter)
}

// sigmoid is the logistic link, clamped to avoid overflow in exp.
func sigmoid(z float64) float64 {
	if z > 35 {
		return 1
	}
	if z < -35 {
		return 0
	}
	return 1 / (1 + math.Exp(-z))
}
