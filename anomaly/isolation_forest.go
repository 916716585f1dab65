// Package anomaly implements unsupervised outlier detection for the
// analysis workflow.
package anomaly

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/sugiyama-h/tabkit/core/model"
	"github.com/sugiyama-h/tabkit/core/parallel"
	"github.com/sugiyama-h/tabkit/pkg/errors"
)

// Default hyperparameters, following Liu et al. (2008).
const (
	DefaultNEstimators = 100
	DefaultMaxSamples  = 256
)

// eulerGamma is the Euler-Mascheroni constant used by the harmonic-number
// approximation in the path-length normalizer.
const eulerGamma = 0.5772156649015329

// IsolationForest scores points by how few random axis-aligned splits are
// needed to isolate them. Scores lie in (0, 1): points isolated quickly
// (short average path) score near 1, deep points near 0.
//
// The anomaly score of x over a forest with subsample size n is
//
//	s(x) = 2^(-E[h(x)] / c(n))
//
// where h(x) is the path length of x in a tree and c(n) the average path
// length of an unsuccessful BST search, so s decreases monotonically as the
// average path length grows.
type IsolationForest struct {
	state *model.StateManager

	// NEstimators is the number of random trees.
	NEstimators int
	// MaxSamples is the subsample size per tree, capped at the number of
	// training rows.
	MaxSamples int
	// Contamination, when in (0, 0.5], sets the decision threshold to the
	// corresponding upper quantile of the training scores. Zero keeps the
	// conventional 0.5 threshold.
	Contamination float64
	// Seed makes fitting deterministic.
	Seed int64

	trees     []*isoTree
	subsample int     // effective per-tree sample size
	threshold float64 // score at or above which Predict flags an outlier
}

// Option configures an IsolationForest.
type Option func(*IsolationForest)

// WithNEstimators sets the number of trees.
func WithNEstimators(n int) Option {
	return func(f *IsolationForest) { f.NEstimators = n }
}

// WithMaxSamples sets the per-tree subsample size.
func WithMaxSamples(n int) Option {
	return func(f *IsolationForest) { f.MaxSamples = n }
}

// WithContamination sets the expected outlier fraction.
func WithContamination(c float64) Option {
	return func(f *IsolationForest) { f.Contamination = c }
}

// WithSeed fixes the random seed.
func WithSeed(seed int64) Option {
	return func(f *IsolationForest) { f.Seed = seed }
}

// NewIsolationForest creates a forest with the standard defaults
// (100 trees, subsample 256, threshold 0.5, seed 1).
func NewIsolationForest(opts ...Option) *IsolationForest {
	f := &IsolationForest{
		state:       model.NewStateManager(),
		NEstimators: DefaultNEstimators,
		MaxSamples:  DefaultMaxSamples,
		Seed:        1,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// isoTree is one random isolation tree.
type isoTree struct {
	root *isoNode
}

// isoNode is either an internal split node or an external node recording
// the number of samples that reached it.
type isoNode struct {
	feature   int
	threshold float64
	left      *isoNode
	right     *isoNode
	size      int // external nodes only
}

func (n *isoNode) external() bool { return n.left == nil }

// Fit builds the forest from X. Each tree is grown on an independent random
// subsample to height ceil(log2(subsample)). Fitting also computes the
// decision threshold from the training scores when Contamination is set.
func (f *IsolationForest) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("IsolationForest.Fit", "empty data", errors.ErrEmptyData)
	}
	if f.NEstimators <= 0 {
		return errors.NewValidationError("n_estimators", "must be positive", f.NEstimators)
	}
	if f.MaxSamples <= 0 {
		return errors.NewValidationError("max_samples", "must be positive", f.MaxSamples)
	}
	if f.Contamination < 0 || f.Contamination > 0.5 {
		return errors.NewValidationError("contamination", "must be in [0, 0.5]", f.Contamination)
	}

	f.subsample = f.MaxSamples
	if f.subsample > r {
		f.subsample = r
	}
	heightLimit := int(math.Ceil(math.Log2(float64(f.subsample))))
	if heightLimit < 1 {
		heightLimit = 1
	}

	f.trees = make([]*isoTree, f.NEstimators)
	// One worker per chunk of trees; each tree gets its own seeded rng so
	// results do not depend on scheduling.
	parallel.Parallelize(f.NEstimators, func(start, end int) {
		for t := start; t < end; t++ {
			rng := rand.New(rand.NewSource(f.Seed + int64(t)))
			idx := sampleRows(rng, r, f.subsample)
			f.trees[t] = &isoTree{root: growTree(X, idx, c, 0, heightLimit, rng)}
		}
	})

	f.state.SetDimensions(r, c)
	f.state.SetFitted()

	f.threshold = 0.5
	if f.Contamination > 0 {
		scores, err := f.ScoreSamples(X)
		if err != nil {
			return err
		}
		sort.Float64s(scores)
		// Upper Contamination fraction of training points sit at or above
		// the threshold.
		k := int(math.Ceil(float64(len(scores)) * (1 - f.Contamination)))
		if k >= len(scores) {
			k = len(scores) - 1
		}
		f.threshold = scores[k]
	}
	return nil
}

// sampleRows draws size distinct row indices.
func sampleRows(rng *rand.Rand, n, size int) []int {
	if size >= n {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	return rng.Perm(n)[:size]
}

// growTree recursively partitions idx with uniform random splits. A node
// becomes external when it holds at most one sample, the height limit is
// reached, or the remaining rows are constant in every feature.
func growTree(X mat.Matrix, idx []int, nFeatures, height, heightLimit int, rng *rand.Rand) *isoNode {
	if len(idx) <= 1 || height >= heightLimit {
		return &isoNode{size: len(idx)}
	}

	// Pick a feature with spread; give up after one pass over a random
	// feature order and treat the node as constant.
	feature := -1
	var lo, hi float64
	for _, j := range rng.Perm(nFeatures) {
		lo, hi = columnRange(X, idx, j)
		if hi > lo {
			feature = j
			break
		}
	}
	if feature < 0 {
		return &isoNode{size: len(idx)}
	}

	split := lo + rng.Float64()*(hi-lo)

	var left, right []int
	for _, i := range idx {
		if X.At(i, feature) < split {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	// A degenerate split isolates nothing; close the node instead of
	// recursing forever.
	if len(left) == 0 || len(right) == 0 {
		return &isoNode{size: len(idx)}
	}

	return &isoNode{
		feature:   feature,
		threshold: split,
		left:      growTree(X, left, nFeatures, height+1, heightLimit, rng),
		right:     growTree(X, right, nFeatures, height+1, heightLimit, rng),
	}
}

func columnRange(X mat.Matrix, idx []int, j int) (lo, hi float64) {
	lo = X.At(idx[0], j)
	hi = lo
	for _, i := range idx[1:] {
		v := X.At(i, j)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// pathLength returns the depth at which x exits the tree, extended by the
// average-path-length estimate for the samples pooled in the external node.
func (t *isoTree) pathLength(x []float64) float64 {
	depth := 0.0
	node := t.root
	for !node.external() {
		if x[node.feature] < node.threshold {
			node = node.left
		} else {
			node = node.right
		}
		depth++
	}
	return depth + avgPathLength(node.size)
}

// avgPathLength is c(n), the average path length of an unsuccessful search
// in a BST of n nodes: 2·H(n−1) − 2(n−1)/n with H(i) ≈ ln(i) + γ.
func avgPathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	}
	h := math.Log(float64(n-1)) + eulerGamma
	return 2*h - 2*float64(n-1)/float64(n)
}

// ScoreSamples returns the anomaly score s(x) in (0, 1) for each row of X.
func (f *IsolationForest) ScoreSamples(X mat.Matrix) ([]float64, error) {
	if !f.state.IsFitted() {
		return nil, errors.NewNotFittedError("IsolationForest", "ScoreSamples")
	}
	r, c := X.Dims()
	if c != f.state.NFeatures() {
		return nil, errors.NewDimensionError("IsolationForest.ScoreSamples", f.state.NFeatures(), c, 1)
	}

	norm := avgPathLength(f.subsample)
	scores := make([]float64, r)
	parallel.ParallelizeWithThreshold(r, 64, func(start, end int) {
		x := make([]float64, c)
		for i := start; i < end; i++ {
			mat.Row(x, i, X)
			sum := 0.0
			for _, t := range f.trees {
				sum += t.pathLength(x)
			}
			mean := sum / float64(len(f.trees))
			scores[i] = math.Exp2(-mean / norm)
		}
	})
	return scores, nil
}

// Predict labels each row +1 (inlier) or -1 (outlier) using the fitted
// threshold.
func (f *IsolationForest) Predict(X mat.Matrix) ([]int, error) {
	scores, err := f.ScoreSamples(X)
	if err != nil {
		return nil, err
	}
	labels := make([]int, len(scores))
	for i, s := range scores {
		if s >= f.threshold {
			labels[i] = -1
		} else {
			labels[i] = 1
		}
	}
	return labels, nil
}

// Threshold returns the fitted decision threshold.
func (f *IsolationForest) Threshold() float64 {
	return f.threshold
}

// GetParams returns the forest's hyperparameters.
func (f *IsolationForest) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_estimators":  f.NEstimators,
		"max_samples":   f.MaxSamples,
		"contamination": f.Contamination,
		"seed":          f.Seed,
	}
}

func (f *IsolationForest) String() string {
	if !f.state.IsFitted() {
		return fmt.Sprintf("IsolationForest(n_estimators=%d, max_samples=%d)", f.NEstimators, f.MaxSamples)
	}
	return fmt.Sprintf("IsolationForest(n_estimators=%d, max_samples=%d, threshold=%.3f)",
		f.NEstimators, f.MaxSamples, f.threshold)
}
