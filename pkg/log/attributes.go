// Package log defines standard attribute keys for ensemble training.
//
// Using these keys consistently lets training logs be filtered and
// aggregated by model, phase, data shape and worker. Keys follow a
// hierarchical naming convention ("model.name", "data.samples").

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model.
	// Examples: "ExtraTrees", "RandomForest", "DecisionTreeClassifier"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of model lifecycle.
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of rows used for training.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of feature columns.
	FeaturesKey = "data.features"
)

// Ensemble Training
const (
	// TreesKey is the requested ensemble size.
	TreesKey = "ensemble.trees"

	// WorkersKey is the number of parallel tree-building workers.
	WorkersKey = "ensemble.workers"

	// FeaturesPerSplitKey is the resolved number of candidate features per split.
	FeaturesPerSplitKey = "ensemble.features_per_split"

	// TreesBuiltKey is the number of trees a worker or the whole pool produced.
	TreesBuiltKey = "ensemble.trees_built"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records classification accuracy.
	AccuracyKey = "metrics.accuracy"
)

// Error and Warning Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"
)

// Configuration and Infrastructure
const (
	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"

	// WorkerIDKey identifies a tree-building worker within one Learn call.
	WorkerIDKey = "infra.worker_id"
)

// Standard attribute values.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationScore   = "score"

	PhaseTraining  = "training"
	PhaseInference = "inference"

	ErrorInvalidConfiguration = "INVALID_CONFIGURATION"
	ErrorInvalidTree          = "INVALID_TREE_CONSTRAINT"
	ErrorConcurrency          = "CONCURRENCY_FAILURE"
	ErrorDimensionMismatch    = "DIMENSION_MISMATCH"
	ErrorNotFitted            = "NOT_FITTED"
)
