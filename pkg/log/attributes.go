// Package log defines standard attribute keys for training and evaluation logs.
//
// Keys follow a hierarchical naming convention (e.g. "model.name",
// "data.samples") so that log lines can be filtered by category.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the classifier type.
	// Examples: "Perceptron", "LogisticRegression"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is logging.
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of the experiment.
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	// SamplesKey is the number of samples (rows).
	SamplesKey = "data.samples"

	// FeaturesKey is the number of features (columns).
	FeaturesKey = "data.features"

	// ClassesKey is the number of output classes.
	ClassesKey = "data.classes"

	// BatchSizeKey is the mini-batch size.
	BatchSizeKey = "data.batch_size"
)

// Training progress and results.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records accuracy in [0, 1].
	AccuracyKey = "metrics.accuracy"

	// LossKey records the mean cross-entropy of an epoch.
	LossKey = "metrics.loss"

	// MisclassifiedKey records how many training samples an epoch got wrong.
	MisclassifiedKey = "metrics.misclassified"

	// EpochKey records the current epoch number.
	EpochKey = "training.epoch"

	// ConvergedKey records whether training stopped before the epoch cap.
	ConvergedKey = "training.converged"
)

// Hyperparameters and configuration.
const (
	// LearningRateKey records the (possibly decayed) learning rate.
	LearningRateKey = "hyperparams.learning_rate"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"
)

// Standard attribute values.
const (
	OperationFit      = "fit"
	OperationPredict  = "predict"
	OperationEvaluate = "evaluate"

	PhaseGeneration = "generation"
)
