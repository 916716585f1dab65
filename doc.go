// Package tabkit provides the building blocks of a tabular data-science
// workflow in Go: dataset consolidation, feature preprocessing, anomaly
// detection, supervised baselines, evaluation metrics, and plotting.
//
// The packages mirror the stages of a typical analysis run:
//
//   - dataset: CSV ingestion into typed columns with missing-value
//     handling, label designation, and train/test splitting
//   - preprocessing: standardization, min-max scaling, one-hot and ordinal
//     encoding, imputation, quantile clipping, and pipelines
//   - anomaly: Isolation Forest outlier scoring
//   - linear: a logistic-regression baseline classifier
//   - metrics: confusion-matrix classification metrics and regression
//     errors
//   - viz: density curves, scatterplots, and correlation heatmaps
//
// # Quick start
//
//	ds, err := dataset.LoadCSV("measurements.csv", dataset.WithLabelColumn("label"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	X, _, _ := ds.NumericMatrix()
//
//	imputer, _ := preprocessing.NewSimpleImputer(preprocessing.ImputeMedian)
//	scaler := preprocessing.NewStandardScaler()
//	pipe, _ := preprocessing.NewPipeline(
//	    preprocessing.Step{Name: "impute", Transformer: imputer},
//	    preprocessing.Step{Name: "scale", Transformer: scaler},
//	)
//	Xs, _ := pipe.FitTransform(X)
//
//	forest := anomaly.NewIsolationForest(anomaly.WithSeed(42))
//	_ = forest.Fit(Xs)
//	scores, _ := forest.ScoreSamples(Xs)
//
// Estimators follow the fit/transform/predict convention: statistics are
// learned once from training data and replayed on new data, and calling
// Transform or Predict before Fit returns a NotFittedError.
package tabkit
