package neural

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/singlelayer/activation"
	"github.com/YuminosukeSato/singlelayer/core/model"
	"github.com/YuminosukeSato/singlelayer/pkg/errors"
	"github.com/YuminosukeSato/singlelayer/pkg/log"
)

// LogisticRegression is a multi-class logistic regression trained with
// mini-batch SGD on softmax outputs.
type LogisticRegression struct {
	state *model.StateManager

	nIn  int
	nOut int
	w    *mat.Dense    // 重み [nOut x nIn]
	b    *mat.VecDense // バイアス [nOut]

	logger log.Logger
}

var (
	_ model.MulticlassClassifier    = (*LogisticRegression)(nil)
	_ model.ProbabilisticClassifier = (*LogisticRegression)(nil)
	_ model.Stateful                = (*LogisticRegression)(nil)
)

// LogisticRegressionOption is a functional option for LogisticRegression.
type LogisticRegressionOption func(*LogisticRegression)

// WithLogisticLogger sets the logger used for debug output.
func WithLogisticLogger(logger log.Logger) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.logger = logger
	}
}

// NewLogisticRegression creates a model with zero weights and bias.
func NewLogisticRegression(nIn, nOut int, opts ...LogisticRegressionOption) (*LogisticRegression, error) {
	if nIn <= 0 {
		return nil, errors.NewValidationError("nIn", "must be positive", nIn)
	}
	if nOut <= 0 {
		return nil, errors.NewValidationError("nOut", "must be positive", nOut)
	}
	lr := &LogisticRegression{
		state: model.NewStateManager(nIn, nOut),
		nIn:   nIn,
		nOut:  nOut,
		w:     mat.NewDense(nOut, nIn, nil),
		b:     mat.NewVecDense(nOut, nil),
	}
	for _, opt := range opts {
		opt(lr)
	}
	if lr.logger == nil {
		lr.logger = log.GetLogger()
	}
	lr.logger = lr.logger.With(log.ModelNameKey, "LogisticRegression")
	return lr, nil
}

// Output returns softmax(W·x + b).
func (lr *LogisticRegression) Output(x []float64) ([]float64, error) {
	if len(x) != lr.nIn {
		return nil, errors.NewDimensionError("LogisticRegression.Output", lr.nIn, len(x), 1)
	}
	return lr.output(mat.NewVecDense(lr.nIn, x)), nil
}

func (lr *LogisticRegression) output(x mat.Vector) []float64 {
	var pre mat.VecDense
	pre.MulVec(lr.w, x)
	pre.AddVec(&pre, lr.b)
	return activation.Softmax(pre.RawVector().Data)
}

// Train performs one gradient step on a mini-batch. Each row of X is a
// sample and the matching row of T its one-hot label; the batch size is the
// number of rows.
//
// The error dY = softmax(W·x + b) - t of every sample is accumulated into
// gradW = dYᵀ·X and gradb = Σ dY, then
//
//	W -= learningRate · gradW / batchSize
//	b -= learningRate · gradb / batchSize
//
// dY is returned for diagnostics.
func (lr *LogisticRegression) Train(X, T mat.Matrix, learningRate float64) (*mat.Dense, error) {
	n, c := X.Dims()
	tr, tc := T.Dims()
	if n == 0 {
		return nil, errors.NewModelError("LogisticRegression.Train", "empty batch", errors.ErrEmptyData)
	}
	if c != lr.nIn {
		return nil, errors.NewDimensionError("LogisticRegression.Train", lr.nIn, c, 1)
	}
	if tr != n {
		return nil, errors.NewDimensionError("LogisticRegression.Train", n, tr, 0)
	}
	if tc != lr.nOut {
		return nil, errors.NewDimensionError("LogisticRegression.Train", lr.nOut, tc, 1)
	}

	// 1. 勾配を計算
	dY := mat.NewDense(n, lr.nOut, nil)
	row := make([]float64, c)
	for i := 0; i < n; i++ {
		mat.Row(row, i, X)
		predicted := lr.output(mat.NewVecDense(c, row))
		for j := 0; j < lr.nOut; j++ {
			dY.Set(i, j, predicted[j]-T.At(i, j))
		}
	}

	var gradW mat.Dense
	gradW.Mul(dY.T(), X)

	gradB := make([]float64, lr.nOut)
	for j := 0; j < lr.nOut; j++ {
		gradB[j] = floats.Sum(mat.Col(nil, j, dY))
	}

	// 2. パラメータを更新
	step := learningRate / float64(n)
	gradW.Scale(step, &gradW)
	lr.w.Sub(lr.w, &gradW)
	lr.b.AddScaledVec(lr.b, -step, mat.NewVecDense(lr.nOut, gradB))

	lr.state.RecordStep(n, true)
	return dY, nil
}

// Predict returns the one-hot encoding of the most probable class. Exactly
// one entry is 1. A non-finite pre-activation makes softmax NaN; Predict
// then returns a NumericalInstabilityError.
func (lr *LogisticRegression) Predict(x []float64) ([]int, error) {
	y, err := lr.Output(x)
	if err != nil {
		return nil, err
	}
	k := activation.Argmax(y)
	if k < 0 {
		return nil, errors.NewNumericalInstabilityError("LogisticRegression.Predict", y, lr.state.GetState().Steps)
	}
	t := make([]int, lr.nOut)
	t[k] = 1
	return t, nil
}

// PredictProba returns the class probabilities for every row of X.
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (*mat.Dense, error) {
	r, c := X.Dims()
	if c != lr.nIn {
		return nil, errors.NewDimensionError("LogisticRegression.PredictProba", lr.nIn, c, 1)
	}
	probas := mat.NewDense(r, lr.nOut, nil)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, X)
		probas.SetRow(i, lr.output(mat.NewVecDense(c, row)))
	}
	return probas, nil
}

// PredictClasses returns the predicted class index for every row of X.
func (lr *LogisticRegression) PredictClasses(X mat.Matrix) ([]int, error) {
	probas, err := lr.PredictProba(X)
	if err != nil {
		return nil, err
	}
	r, _ := probas.Dims()
	classes := make([]int, r)
	for i := 0; i < r; i++ {
		k := activation.Argmax(probas.RawRowView(i))
		if k < 0 {
			return nil, errors.NewNumericalInstabilityError("LogisticRegression.PredictClasses", probas.RawRowView(i), lr.state.GetState().Steps)
		}
		classes[i] = k
	}
	lr.logger.Debug("Batch predicted", log.OperationKey, log.OperationPredict, log.SamplesKey, r)
	return classes, nil
}

// Weights returns a copy of the weight matrix [nOut x nIn].
func (lr *LogisticRegression) Weights() *mat.Dense {
	return mat.DenseCopyOf(lr.w)
}

// Bias returns a copy of b.
func (lr *LogisticRegression) Bias() *mat.VecDense {
	return mat.VecDenseCopyOf(lr.b)
}

// Dims returns the number of inputs and outputs.
func (lr *LogisticRegression) Dims() (nIn, nOut int) {
	return lr.nIn, lr.nOut
}

// State returns the training counters.
func (lr *LogisticRegression) State() model.TrainingState {
	return lr.state.GetState()
}
