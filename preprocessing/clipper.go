package preprocessing

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/sugiyama-h/tabkit/core/model"
	"github.com/sugiyama-h/tabkit/pkg/errors"
)

// QuantileClipper damps outliers by clipping each column into the
// [Lower, Upper] empirical quantiles computed at fit time. It is typically
// run before a StandardScaler so extreme rows do not dominate the fitted
// mean and spread.
type QuantileClipper struct {
	state *model.StateManager

	// Lower and Upper are quantile levels in [0, 1], Lower < Upper.
	Lower float64
	Upper float64

	// Lo and Hi are the fitted per-column clip bounds.
	Lo []float64
	Hi []float64
}

// NewQuantileClipper creates a clipper for the given quantile levels,
// e.g. 0.01 and 0.99.
func NewQuantileClipper(lower, upper float64) (*QuantileClipper, error) {
	if lower < 0 || upper > 1 || lower >= upper {
		return nil, errors.NewValidationError("quantiles", "need 0 <= lower < upper <= 1", [2]float64{lower, upper})
	}
	return &QuantileClipper{state: model.NewStateManager(), Lower: lower, Upper: upper}, nil
}

// Fit computes per-column clip bounds from the empirical quantiles.
func (q *QuantileClipper) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("QuantileClipper.Fit", "empty data", errors.ErrEmptyData)
	}

	q.Lo = make([]float64, c)
	q.Hi = make([]float64, c)

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		sort.Float64s(col)
		q.Lo[j] = stat.Quantile(q.Lower, stat.Empirical, col, nil)
		q.Hi[j] = stat.Quantile(q.Upper, stat.Empirical, col, nil)
	}

	q.state.SetDimensions(r, c)
	q.state.SetFitted()
	return nil
}

// Transform clips X into the fitted bounds.
func (q *QuantileClipper) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !q.state.IsFitted() {
		return nil, errors.NewNotFittedError("QuantileClipper", "Transform")
	}
	r, c := X.Dims()
	if c != q.state.NFeatures() {
		return nil, errors.NewDimensionError("QuantileClipper.Transform", q.state.NFeatures(), c, 1)
	}

	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := X.At(i, j)
			switch {
			case v < q.Lo[j]:
				v = q.Lo[j]
			case v > q.Hi[j]:
				v = q.Hi[j]
			}
			out.Set(i, j, v)
		}
	}
	return out, nil
}

// FitTransform fits on X and transforms the same data.
func (q *QuantileClipper) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := q.Fit(X); err != nil {
		return nil, err
	}
	return q.Transform(X)
}

// GetParams returns the clipper's hyperparameters.
func (q *QuantileClipper) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"lower": q.Lower,
		"upper": q.Upper,
	}
}

func (q *QuantileClipper) String() string {
	return fmt.Sprintf("QuantileClipper(lower=%.2f, upper=%.2f)", q.Lower, q.Upper)
}
