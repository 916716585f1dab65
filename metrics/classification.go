// Package metrics provides the evaluation functions of the analysis
// workflow: confusion-matrix based classification quality and the standard
// regression errors.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/sugiyama-h/tabkit/pkg/errors"
)

// ConfusionMatrix holds the binary confusion counts for labels in {0, 1}
// with 1 the positive class.
type ConfusionMatrix struct {
	TP int // true positives
	FP int // false positives
	TN int // true negatives
	FN int // false negatives
}

// NewConfusionMatrix tallies confusion counts from true and predicted
// binary labels. Labels must be exactly 0 or 1.
func NewConfusionMatrix(yTrue, yPred *mat.VecDense) (*ConfusionMatrix, error) {
	n := yTrue.Len()
	if n == 0 {
		return nil, errors.NewValueError("ConfusionMatrix", "empty vector")
	}
	if yPred.Len() != n {
		return nil, errors.NewDimensionError("ConfusionMatrix", n, yPred.Len(), 0)
	}

	cm := &ConfusionMatrix{}
	for i := 0; i < n; i++ {
		t, p := yTrue.AtVec(i), yPred.AtVec(i)
		if !isBinary(t) || !isBinary(p) {
			return nil, errors.NewValueError("ConfusionMatrix", "labels must be 0 or 1")
		}
		switch {
		case t == 1 && p == 1:
			cm.TP++
		case t == 0 && p == 1:
			cm.FP++
		case t == 0 && p == 0:
			cm.TN++
		default:
			cm.FN++
		}
	}
	return cm, nil
}

func isBinary(v float64) bool { return v == 0 || v == 1 }

// Total returns the number of counted samples.
func (cm *ConfusionMatrix) Total() int {
	return cm.TP + cm.FP + cm.TN + cm.FN
}

// Precision is TP / (TP + FP): of the points predicted positive, the
// fraction that are positive. With no predicted positives the metric is
// ill-defined; it returns 0 and raises UndefinedMetricWarning.
func (cm *ConfusionMatrix) Precision() float64 {
	denom := cm.TP + cm.FP
	if denom == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("precision", "no predicted positives", 0))
		return 0
	}
	return float64(cm.TP) / float64(denom)
}

// Recall is TP / (TP + FN): of the positive points, the fraction found.
// With no actual positives the metric is ill-defined; it returns 0 and
// raises UndefinedMetricWarning.
func (cm *ConfusionMatrix) Recall() float64 {
	denom := cm.TP + cm.FN
	if denom == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("recall", "no actual positives", 0))
		return 0
	}
	return float64(cm.TP) / float64(denom)
}

// F1 is the harmonic mean of precision and recall,
// 2·P·R / (P + R). When both are zero it returns 0 and raises
// UndefinedMetricWarning.
func (cm *ConfusionMatrix) F1() float64 {
	p, r := cm.Precision(), cm.Recall()
	if p+r == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("f1", "precision and recall both zero", 0))
		return 0
	}
	return 2 * p * r / (p + r)
}

// Accuracy is (TP + TN) / total.
func (cm *ConfusionMatrix) Accuracy() float64 {
	return float64(cm.TP+cm.TN) / float64(cm.Total())
}

// Precision computes binary precision directly from label vectors.
func Precision(yTrue, yPred *mat.VecDense) (float64, error) {
	cm, err := NewConfusionMatrix(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return cm.Precision(), nil
}

// Recall computes binary recall directly from label vectors.
func Recall(yTrue, yPred *mat.VecDense) (float64, error) {
	cm, err := NewConfusionMatrix(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return cm.Recall(), nil
}

// F1Score computes the binary F1 score directly from label vectors.
func F1Score(yTrue, yPred *mat.VecDense) (float64, error) {
	cm, err := NewConfusionMatrix(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return cm.F1(), nil
}

// Accuracy computes the fraction of matching labels. Unlike the confusion
// counts it accepts any label alphabet, comparing values exactly (NaN never
// matches).
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("Accuracy", n, yPred.Len(), 0)
	}
	hits := 0
	for i := 0; i < n; i++ {
		t, p := yTrue.AtVec(i), yPred.AtVec(i)
		if math.IsNaN(t) || math.IsNaN(p) {
			continue
		}
		if t == p {
			hits++
		}
	}
	return float64(hits) / float64(n), nil
}
