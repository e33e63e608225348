// Package neural implements single-layer neural network classifiers: a
// binary perceptron and a multi-class logistic regression.
package neural

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/singlelayer/activation"
	"github.com/YuminosukeSato/singlelayer/core/model"
	"github.com/YuminosukeSato/singlelayer/pkg/errors"
	"github.com/YuminosukeSato/singlelayer/pkg/log"
)

// Perceptron is a simple perceptron without bias. Labels are +1 or -1.
type Perceptron struct {
	state *model.StateManager

	nIn int
	w   []float64 // 重み（ゼロ初期化）

	logger log.Logger
}

var (
	_ model.BinaryClassifier = (*Perceptron)(nil)
	_ model.Stateful         = (*Perceptron)(nil)
)

// PerceptronOption is a functional option for Perceptron.
type PerceptronOption func(*Perceptron)

// WithPerceptronLogger sets the logger used for debug output.
func WithPerceptronLogger(logger log.Logger) PerceptronOption {
	return func(p *Perceptron) {
		p.logger = logger
	}
}

// NewPerceptron creates a perceptron with nIn zero weights.
func NewPerceptron(nIn int, opts ...PerceptronOption) (*Perceptron, error) {
	if nIn <= 0 {
		return nil, errors.NewValidationError("nIn", "must be positive", nIn)
	}
	p := &Perceptron{
		state: model.NewStateManager(nIn, 1),
		nIn:   nIn,
		w:     make([]float64, nIn),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = log.GetLogger()
	}
	p.logger = p.logger.With(log.ModelNameKey, "Perceptron")
	return p, nil
}

// Train feeds one sample. It returns 1 when the sample is already classified
// correctly (margin Σ w·x·t > 0), leaving the weights unchanged. Otherwise it
// applies w += learningRate·x·t and returns 0. A zero margin counts as
// misclassified.
func (p *Perceptron) Train(x []float64, label int, learningRate float64) (int, error) {
	if len(x) != p.nIn {
		return 0, errors.NewDimensionError("Perceptron.Train", p.nIn, len(x), 1)
	}
	if label != 1 && label != -1 {
		return 0, errors.NewValidationError("label", "must be +1 or -1", label)
	}

	t := float64(label)
	if floats.Dot(p.w, x)*t > 0 {
		p.state.RecordStep(1, false)
		return 1, nil
	}

	floats.AddScaled(p.w, learningRate*t, x)
	p.state.RecordStep(1, true)
	return 0, nil
}

// Predict returns Step(w·x).
func (p *Perceptron) Predict(x []float64) (int, error) {
	if len(x) != p.nIn {
		return 0, errors.NewDimensionError("Perceptron.Predict", p.nIn, len(x), 1)
	}
	return activation.Step(floats.Dot(p.w, x)), nil
}

// PredictBatch predicts every row of X.
func (p *Perceptron) PredictBatch(X mat.Matrix) ([]int, error) {
	r, c := X.Dims()
	if c != p.nIn {
		return nil, errors.NewDimensionError("Perceptron.PredictBatch", p.nIn, c, 1)
	}
	preds := make([]int, r)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, X)
		preds[i] = activation.Step(floats.Dot(p.w, row))
	}
	p.logger.Debug("Batch predicted", log.OperationKey, log.OperationPredict, log.SamplesKey, r)
	return preds, nil
}

// Weights returns a copy of the weight vector.
func (p *Perceptron) Weights() []float64 {
	w := make([]float64, len(p.w))
	copy(w, p.w)
	return w
}

// NIn returns the input dimensionality.
func (p *Perceptron) NIn() int { return p.nIn }

// State returns the training counters.
func (p *Perceptron) State() model.TrainingState {
	return p.state.GetState()
}
