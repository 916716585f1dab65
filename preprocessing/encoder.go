package preprocessing

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/sugiyama-h/tabkit/core/model"
	"github.com/sugiyama-h/tabkit/pkg/errors"
)

// UnknownPolicy controls how encoders treat categories seen at transform
// time but not at fit time.
type UnknownPolicy int

const (
	// UnknownError makes Transform fail on an unseen category.
	UnknownError UnknownPolicy = iota
	// UnknownIgnore encodes an unseen category as the all-zero indicator
	// row (OneHotEncoder only).
	UnknownIgnore
)

// OneHotEncoder expands unordered categorical features into mutually
// exclusive binary indicator columns. Input is row-major:
// X[i][j] is the category of feature j in record i.
//
// Under UnknownError every output row sums to exactly 1 per input feature.
// Under UnknownIgnore an unseen category yields all zeros for that group.
type OneHotEncoder struct {
	state *model.StateManager

	// HandleUnknown selects the unseen-category policy.
	HandleUnknown UnknownPolicy

	// FeatureNames labels the input columns; used in errors and output
	// names. Optional: defaults to x0, x1, ...
	FeatureNames []string

	categories [][]string       // sorted categories per input feature
	index      []map[string]int // category -> local indicator offset
	offsets    []int            // first output column per input feature
	width      int              // total output columns
}

// NewOneHotEncoder creates an encoder that errors on unknown categories.
func NewOneHotEncoder() *OneHotEncoder {
	return &OneHotEncoder{state: model.NewStateManager(), HandleUnknown: UnknownError}
}

// Fit learns the category vocabulary of each feature. Categories are
// ordered lexicographically so the output layout is deterministic.
func (e *OneHotEncoder) Fit(X [][]string) error {
	nFeatures, err := checkCategoricalInput("OneHotEncoder.Fit", X)
	if err != nil {
		return err
	}

	e.categories = make([][]string, nFeatures)
	e.index = make([]map[string]int, nFeatures)
	e.offsets = make([]int, nFeatures)
	e.width = 0

	for j := 0; j < nFeatures; j++ {
		seen := map[string]bool{}
		for _, row := range X {
			if row[j] == "" {
				continue // missing cells carry no category
			}
			seen[row[j]] = true
		}
		if len(seen) == 0 {
			return errors.NewValueError("OneHotEncoder.Fit",
				fmt.Sprintf("feature %s has no observed categories", e.featureName(j)))
		}
		cats := make([]string, 0, len(seen))
		for c := range seen {
			cats = append(cats, c)
		}
		sort.Strings(cats)

		e.categories[j] = cats
		e.index[j] = make(map[string]int, len(cats))
		for k, c := range cats {
			e.index[j][c] = k
		}
		e.offsets[j] = e.width
		e.width += len(cats)
	}

	e.state.SetDimensions(len(X), nFeatures)
	e.state.SetFitted()
	return nil
}

// Transform encodes X into indicator columns.
func (e *OneHotEncoder) Transform(X [][]string) (*mat.Dense, error) {
	if !e.state.IsFitted() {
		return nil, errors.NewNotFittedError("OneHotEncoder", "Transform")
	}
	nFeatures, err := checkCategoricalInput("OneHotEncoder.Transform", X)
	if err != nil {
		return nil, err
	}
	if nFeatures != e.state.NFeatures() {
		return nil, errors.NewDimensionError("OneHotEncoder.Transform", e.state.NFeatures(), nFeatures, 1)
	}

	out := mat.NewDense(len(X), e.width, nil)
	for i, row := range X {
		for j, cell := range row {
			k, ok := e.index[j][cell]
			if !ok {
				if e.HandleUnknown == UnknownIgnore {
					continue
				}
				return nil, errors.NewUnknownCategoryError("OneHotEncoder.Transform", e.featureName(j), cell)
			}
			out.Set(i, e.offsets[j]+k, 1)
		}
	}
	return out, nil
}

// FitTransform fits on X and encodes the same data.
func (e *OneHotEncoder) FitTransform(X [][]string) (*mat.Dense, error) {
	if err := e.Fit(X); err != nil {
		return nil, err
	}
	return e.Transform(X)
}

// Categories returns the fitted vocabulary per feature.
func (e *OneHotEncoder) Categories() [][]string {
	return e.categories
}

// OutputNames returns one name per indicator column, formatted
// "feature=category".
func (e *OneHotEncoder) OutputNames() []string {
	names := make([]string, 0, e.width)
	for j, cats := range e.categories {
		for _, c := range cats {
			names = append(names, e.featureName(j)+"="+c)
		}
	}
	return names
}

func (e *OneHotEncoder) featureName(j int) string {
	if j < len(e.FeatureNames) {
		return e.FeatureNames[j]
	}
	return fmt.Sprintf("x%d", j)
}

func (e *OneHotEncoder) String() string {
	if !e.state.IsFitted() {
		return "OneHotEncoder()"
	}
	return fmt.Sprintf("OneHotEncoder(n_features=%d, n_outputs=%d)", e.state.NFeatures(), e.width)
}

// OrdinalEncoder maps ordered categorical features to integer codes that
// preserve the declared category order. Without a declared order,
// categories are ranked by first appearance in the fit data.
type OrdinalEncoder struct {
	state *model.StateManager

	// FeatureNames labels the input columns for error messages.
	FeatureNames []string

	// declared holds explicit category orders per feature, set before Fit.
	declared [][]string

	categories [][]string
	index      []map[string]int
}

// NewOrdinalEncoder creates an encoder that ranks categories by first
// appearance.
func NewOrdinalEncoder() *OrdinalEncoder {
	return &OrdinalEncoder{state: model.NewStateManager()}
}

// NewOrdinalEncoderWithOrder creates an encoder with an explicit category
// order per feature, e.g. [["low","medium","high"]].
func NewOrdinalEncoderWithOrder(order [][]string) *OrdinalEncoder {
	return &OrdinalEncoder{state: model.NewStateManager(), declared: order}
}

// Fit learns (or validates) the category ranking of each feature.
func (e *OrdinalEncoder) Fit(X [][]string) error {
	nFeatures, err := checkCategoricalInput("OrdinalEncoder.Fit", X)
	if err != nil {
		return err
	}
	if e.declared != nil && len(e.declared) != nFeatures {
		return errors.NewDimensionError("OrdinalEncoder.Fit", len(e.declared), nFeatures, 1)
	}

	e.categories = make([][]string, nFeatures)
	e.index = make([]map[string]int, nFeatures)

	for j := 0; j < nFeatures; j++ {
		var cats []string
		if e.declared != nil {
			cats = append([]string(nil), e.declared[j]...)
		} else {
			seen := map[string]bool{}
			for _, row := range X {
				if row[j] == "" || seen[row[j]] {
					continue
				}
				seen[row[j]] = true
				cats = append(cats, row[j])
			}
		}
		if len(cats) == 0 {
			return errors.NewValueError("OrdinalEncoder.Fit",
				fmt.Sprintf("feature %s has no observed categories", e.featureName(j)))
		}

		e.categories[j] = cats
		e.index[j] = make(map[string]int, len(cats))
		for k, c := range cats {
			e.index[j][c] = k
		}

		// With a declared order, every fit cell must belong to it.
		if e.declared != nil {
			for _, row := range X {
				if row[j] == "" {
					continue
				}
				if _, ok := e.index[j][row[j]]; !ok {
					return errors.NewUnknownCategoryError("OrdinalEncoder.Fit", e.featureName(j), row[j])
				}
			}
		}
	}

	e.state.SetDimensions(len(X), nFeatures)
	e.state.SetFitted()
	return nil
}

// Transform encodes X into rank-preserving integer codes.
func (e *OrdinalEncoder) Transform(X [][]string) (*mat.Dense, error) {
	if !e.state.IsFitted() {
		return nil, errors.NewNotFittedError("OrdinalEncoder", "Transform")
	}
	nFeatures, err := checkCategoricalInput("OrdinalEncoder.Transform", X)
	if err != nil {
		return nil, err
	}
	if nFeatures != e.state.NFeatures() {
		return nil, errors.NewDimensionError("OrdinalEncoder.Transform", e.state.NFeatures(), nFeatures, 1)
	}

	out := mat.NewDense(len(X), nFeatures, nil)
	for i, row := range X {
		for j, cell := range row {
			k, ok := e.index[j][cell]
			if !ok {
				return nil, errors.NewUnknownCategoryError("OrdinalEncoder.Transform", e.featureName(j), cell)
			}
			out.Set(i, j, float64(k))
		}
	}
	return out, nil
}

// FitTransform fits on X and encodes the same data.
func (e *OrdinalEncoder) FitTransform(X [][]string) (*mat.Dense, error) {
	if err := e.Fit(X); err != nil {
		return nil, err
	}
	return e.Transform(X)
}

// Categories returns the fitted category ranking per feature.
func (e *OrdinalEncoder) Categories() [][]string {
	return e.categories
}

func (e *OrdinalEncoder) featureName(j int) string {
	if j < len(e.FeatureNames) {
		return e.FeatureNames[j]
	}
	return fmt.Sprintf("x%d", j)
}

func (e *OrdinalEncoder) String() string {
	if !e.state.IsFitted() {
		return "OrdinalEncoder()"
	}
	return fmt.Sprintf("OrdinalEncoder(n_features=%d)", e.state.NFeatures())
}

// checkCategoricalInput validates a row-major string table and returns its
// feature count.
func checkCategoricalInput(op string, X [][]string) (int, error) {
	if len(X) == 0 || len(X[0]) == 0 {
		return 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	nFeatures := len(X[0])
	for _, row := range X {
		if len(row) != nFeatures {
			return 0, errors.NewDimensionError(op, nFeatures, len(row), 1)
		}
	}
	return nFeatures, nil
}
