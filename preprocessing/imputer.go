package preprocessing

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/sugiyama-h/tabkit/core/model"
	"github.com/sugiyama-h/tabkit/pkg/errors"
)

// ImputeStrategy selects the fill statistic for missing (NaN) cells.
type ImputeStrategy string

const (
	// ImputeMean fills with the column mean.
	ImputeMean ImputeStrategy = "mean"
	// ImputeMedian fills with the column median.
	ImputeMedian ImputeStrategy = "median"
	// ImputeMostFrequent fills with the most frequent column value; ties
	// break toward the smaller value.
	ImputeMostFrequent ImputeStrategy = "most_frequent"
	// ImputeConstant fills with a caller-supplied value.
	ImputeConstant ImputeStrategy = "constant"
)

// SimpleImputer replaces NaN cells using a per-column statistic computed at
// fit time, so train and test data are filled with the same values.
type SimpleImputer struct {
	state *model.StateManager

	// Strategy selects the fill statistic.
	Strategy ImputeStrategy
	// FillValue is the constant used by ImputeConstant.
	FillValue float64

	// Statistics holds the learned fill value per column.
	Statistics []float64
}

// NewSimpleImputer creates an imputer with the given strategy.
func NewSimpleImputer(strategy ImputeStrategy) (*SimpleImputer, error) {
	switch strategy {
	case ImputeMean, ImputeMedian, ImputeMostFrequent, ImputeConstant:
	default:
		return nil, errors.NewValidationError("strategy", "unknown imputation strategy", string(strategy))
	}
	return &SimpleImputer{state: model.NewStateManager(), Strategy: strategy}, nil
}

// NewConstantImputer creates an imputer that fills every NaN with value.
func NewConstantImputer(value float64) *SimpleImputer {
	return &SimpleImputer{state: model.NewStateManager(), Strategy: ImputeConstant, FillValue: value}
}

// Fit computes the fill statistic for each column over its non-missing
// cells. A column with no observed values is an error for data-driven
// strategies.
func (im *SimpleImputer) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("SimpleImputer.Fit", "empty data", errors.ErrEmptyData)
	}

	im.Statistics = make([]float64, c)
	col := make([]float64, 0, r)
	for j := 0; j < c; j++ {
		if im.Strategy == ImputeConstant {
			im.Statistics[j] = im.FillValue
			continue
		}

		col = col[:0]
		for i := 0; i < r; i++ {
			if v := X.At(i, j); !math.IsNaN(v) {
				col = append(col, v)
			}
		}
		if len(col) == 0 {
			return errors.NewValueError("SimpleImputer.Fit",
				fmt.Sprintf("column %d has no observed values", j))
		}

		switch im.Strategy {
		case ImputeMean:
			sum := 0.0
			for _, v := range col {
				sum += v
			}
			im.Statistics[j] = sum / float64(len(col))
		case ImputeMedian:
			im.Statistics[j] = median(col)
		case ImputeMostFrequent:
			im.Statistics[j] = mostFrequent(col)
		}
	}

	im.state.SetDimensions(r, c)
	im.state.SetFitted()
	return nil
}

// Transform replaces NaN cells with the fitted statistics.
func (im *SimpleImputer) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !im.state.IsFitted() {
		return nil, errors.NewNotFittedError("SimpleImputer", "Transform")
	}
	r, c := X.Dims()
	if c != im.state.NFeatures() {
		return nil, errors.NewDimensionError("SimpleImputer.Transform", im.state.NFeatures(), c, 1)
	}

	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := X.At(i, j)
			if math.IsNaN(v) {
				v = im.Statistics[j]
			}
			out.Set(i, j, v)
		}
	}
	return out, nil
}

// FitTransform fits on X and transforms the same data.
func (im *SimpleImputer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := im.Fit(X); err != nil {
		return nil, err
	}
	return im.Transform(X)
}

// GetParams returns the imputer's hyperparameters.
func (im *SimpleImputer) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"strategy":   string(im.Strategy),
		"fill_value": im.FillValue,
	}
}

func (im *SimpleImputer) String() string {
	return fmt.Sprintf("SimpleImputer(strategy=%s)", im.Strategy)
}

// median returns the middle value, averaging the two central values for
// even lengths. The input slice is reordered.
func median(vals []float64) float64 {
	sort.Float64s(vals)
	n := len(vals)
	if n%2 == 1 {
		return vals[n/2]
	}
	return (vals[n/2-1] + vals[n/2]) / 2
}

// mostFrequent returns the modal value, breaking ties toward the smaller
// value. The input slice is reordered.
func mostFrequent(vals []float64) float64 {
	sort.Float64s(vals)
	best, bestCount := vals[0], 1
	cur, curCount := vals[0], 1
	for _, v := range vals[1:] {
		if v == cur {
			curCount++
		} else {
			cur, curCount = v, 1
		}
		if curCount > bestCount {
			best, bestCount = cur, curCount
		}
	}
	return best
}
