// Package preprocessing implements the fitted column transformations of the
// analysis workflow: scaling, encoding, imputation, outlier clipping, and
// chaining them into a pipeline.
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/sugiyama-h/tabkit/core/model"
	"github.com/sugiyama-h/tabkit/pkg/errors"
)

// nearZero guards divisions by degenerate column spreads.
const nearZero = 1e-8

// StandardScaler rescales each feature to zero mean and unit variance using
// statistics computed at fit time. Columns with (near) zero variance keep a
// scale of 1 so transform never divides by zero.
type StandardScaler struct {
	state *model.StateManager

	// WithMean controls whether the mean is subtracted.
	WithMean bool
	// WithStd controls whether values are divided by the standard deviation.
	WithStd bool

	// Mean and Scale are the per-feature statistics learned by Fit.
	Mean  []float64
	Scale []float64
}

// NewStandardScaler creates a StandardScaler with both centering and
// scaling enabled.
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{state: model.NewStateManager(), WithMean: true, WithStd: true}
}

// Fit computes per-feature mean and population standard deviation.
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)

		mean := 0.0
		if s.WithMean {
			mean = stat.Mean(col, nil)
		}
		s.Mean[j] = mean

		scale := 1.0
		if s.WithStd {
			// Population variance, matching the statistics the scores
			// in the workflow are defined against.
			var ss float64
			for _, v := range col {
				d := v - mean
				ss += d * d
			}
			scale = math.Sqrt(ss / float64(r))
			if scale < nearZero {
				scale = 1.0
			}
		}
		s.Scale[j] = scale
	}

	s.state.SetDimensions(r, c)
	s.state.SetFitted()
	return nil
}

// Transform standardizes X with the fitted statistics.
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !s.state.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "Transform")
	}
	r, c := X.Dims()
	if c != s.state.NFeatures() {
		return nil, errors.NewDimensionError("StandardScaler.Transform", s.state.NFeatures(), c, 1)
	}

	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, (X.At(i, j)-s.Mean[j])/s.Scale[j])
		}
	}
	return out, nil
}

// FitTransform fits on X and transforms the same data.
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform maps standardized data back to the original scale.
func (s *StandardScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !s.state.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "InverseTransform")
	}
	r, c := X.Dims()
	if c != s.state.NFeatures() {
		return nil, errors.NewDimensionError("StandardScaler.InverseTransform", s.state.NFeatures(), c, 1)
	}

	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, X.At(i, j)*s.Scale[j]+s.Mean[j])
		}
	}
	return out, nil
}

// GetParams returns the scaler's hyperparameters.
func (s *StandardScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"with_mean": s.WithMean,
		"with_std":  s.WithStd,
	}
}

func (s *StandardScaler) String() string {
	if !s.state.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.WithMean, s.WithStd, s.state.NFeatures())
}

// MinMaxScaler rescales each feature linearly into FeatureRange
// (default [0, 1]). The fitted minimum maps to the range start and the
// fitted maximum to the range end; constant columns keep a spread of 1.
type MinMaxScaler struct {
	state *model.StateManager

	// FeatureRange is the [lo, hi] target interval.
	FeatureRange [2]float64

	// DataMin, DataMax, and Spread are learned by Fit. Spread is
	// DataMax - DataMin with degenerate columns forced to 1.
	DataMin []float64
	DataMax []float64
	Spread  []float64
}

// NewMinMaxScaler creates a MinMaxScaler targeting [0, 1].
func NewMinMaxScaler() *MinMaxScaler {
	return &MinMaxScaler{state: model.NewStateManager(), FeatureRange: [2]float64{0, 1}}
}

// NewMinMaxScalerRange creates a MinMaxScaler targeting [lo, hi].
func NewMinMaxScalerRange(lo, hi float64) (*MinMaxScaler, error) {
	if hi <= lo {
		return nil, errors.NewValidationError("featureRange", "upper bound must exceed lower bound", [2]float64{lo, hi})
	}
	return &MinMaxScaler{state: model.NewStateManager(), FeatureRange: [2]float64{lo, hi}}, nil
}

// Fit records per-feature minimum and maximum.
func (m *MinMaxScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("MinMaxScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	m.DataMin = make([]float64, c)
	m.DataMax = make([]float64, c)
	m.Spread = make([]float64, c)

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		lo, hi := col[0], col[0]
		for _, v := range col[1:] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		m.DataMin[j] = lo
		m.DataMax[j] = hi
		m.Spread[j] = hi - lo
		if m.Spread[j] < nearZero {
			m.Spread[j] = 1.0
		}
	}

	m.state.SetDimensions(r, c)
	m.state.SetFitted()
	return nil
}

// Transform rescales X into the target range.
func (m *MinMaxScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !m.state.IsFitted() {
		return nil, errors.NewNotFittedError("MinMaxScaler", "Transform")
	}
	r, c := X.Dims()
	if c != m.state.NFeatures() {
		return nil, errors.NewDimensionError("MinMaxScaler.Transform", m.state.NFeatures(), c, 1)
	}

	width := m.FeatureRange[1] - m.FeatureRange[0]
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			unit := (X.At(i, j) - m.DataMin[j]) / m.Spread[j]
			out.Set(i, j, unit*width+m.FeatureRange[0])
		}
	}
	return out, nil
}

// FitTransform fits on X and transforms the same data.
func (m *MinMaxScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}

// InverseTransform maps scaled data back to the original range.
func (m *MinMaxScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !m.state.IsFitted() {
		return nil, errors.NewNotFittedError("MinMaxScaler", "InverseTransform")
	}
	r, c := X.Dims()
	if c != m.state.NFeatures() {
		return nil, errors.NewDimensionError("MinMaxScaler.InverseTransform", m.state.NFeatures(), c, 1)
	}

	width := m.FeatureRange[1] - m.FeatureRange[0]
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			unit := (X.At(i, j) - m.FeatureRange[0]) / width
			out.Set(i, j, unit*m.Spread[j]+m.DataMin[j])
		}
	}
	return out, nil
}

// GetParams returns the scaler's hyperparameters.
func (m *MinMaxScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"feature_range": m.FeatureRange,
	}
}

func (m *MinMaxScaler) String() string {
	if !m.state.IsFitted() {
		return fmt.Sprintf("MinMaxScaler(feature_range=[%.1f, %.1f])",
			m.FeatureRange[0], m.FeatureRange[1])
	}
	return fmt.Sprintf("MinMaxScaler(feature_range=[%.1f, %.1f], n_features=%d)",
		m.FeatureRange[0], m.FeatureRange[1], m.state.NFeatures())
}
