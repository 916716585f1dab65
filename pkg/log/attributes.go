// Package log defines standard attribute keys for tabular analysis runs.
//
// Using these keys consistently keeps log lines filterable across the
// workflow stages: loading, preprocessing, anomaly scoring, and evaluation.
// Keys follow a hierarchical naming convention ("data.samples",
// "ml.operation") so structured log collectors can group them.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator type.
	// Examples: "StandardScaler", "IsolationForest", "LogisticRegression"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "fit_transform", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies the package performing the operation.
	// Examples: "dataset", "preprocessing", "anomaly", "metrics"
	ComponentKey = "ml.component"

	// StageKey indicates the stage of the analysis run.
	// Examples: "load", "clean", "encode", "train", "evaluate", "plot"
	StageKey = "ml.stage"
)

// Data shape and characteristics.
const (
	// SamplesKey is the number of rows being processed.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of feature columns.
	FeaturesKey = "data.features"

	// MissingKey is the number of missing cells encountered.
	MissingKey = "data.missing"

	// SourceKey is the dataset source path.
	SourceKey = "data.source"
)

// Metric values attached to evaluation log lines.
const (
	// AccuracyKey records classification accuracy in [0, 1].
	AccuracyKey = "metrics.accuracy"

	// PrecisionKey records classification precision in [0, 1].
	PrecisionKey = "metrics.precision"

	// RecallKey records classification recall in [0, 1].
	RecallKey = "metrics.recall"

	// F1Key records the F1 score in [0, 1].
	F1Key = "metrics.f1"

	// AnomalyRateKey records the fraction of rows flagged as outliers.
	AnomalyRateKey = "metrics.anomaly_rate"

	// DurationMsKey records the execution time of an operation.
	DurationMsKey = "perf.duration_ms"
)
