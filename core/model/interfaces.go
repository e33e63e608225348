package model

import "gonum.org/v1/gonum/mat"

// BinaryClassifier predicts a signed label (+1 or -1) for one sample.
type BinaryClassifier interface {
	Predict(x []float64) (int, error)
}

// MulticlassClassifier predicts a one-hot label for one sample.
type MulticlassClassifier interface {
	Predict(x []float64) ([]int, error)
}

// ProbabilisticClassifier returns class probabilities for every row of X.
type ProbabilisticClassifier interface {
	PredictProba(X mat.Matrix) (*mat.Dense, error)
}

// Stateful exposes the training bookkeeping of a classifier.
type Stateful interface {
	State() TrainingState
}
