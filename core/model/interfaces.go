package model

import "gonum.org/v1/gonum/mat"

// Transformer is the interface for fitted column transformations such as
// scalers, encoders, and imputers.
type Transformer interface {
	// Fit learns the parameters required for the transformation.
	Fit(X mat.Matrix) error

	// Transform applies the learned transformation.
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform fits on X and transforms the same data.
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// InverseTransformer is implemented by transformers that can map
// transformed data back to the original scale.
type InverseTransformer interface {
	Transformer
	InverseTransform(X mat.Matrix) (mat.Matrix, error)
}

// Fitter is the interface for supervised estimators.
type Fitter interface {
	// Fit trains the estimator on features X and targets y.
	Fit(X, y mat.Matrix) error
}

// Predictor is the interface for estimators that predict targets.
type Predictor interface {
	// Predict returns predictions for each row of X.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// OutlierDetector is the interface for unsupervised anomaly detectors.
type OutlierDetector interface {
	// Fit learns the reference distribution from X.
	Fit(X mat.Matrix) error

	// ScoreSamples returns an anomaly score per row of X.
	ScoreSamples(X mat.Matrix) ([]float64, error)

	// Predict labels each row +1 (inlier) or -1 (outlier).
	Predict(X mat.Matrix) ([]int, error)
}

// Scorer is implemented by models that evaluate themselves against
// held-out data.
type Scorer interface {
	Score(X, y mat.Matrix) (float64, error)
}
