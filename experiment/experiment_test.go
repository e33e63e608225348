package experiment

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/singlelayer/dataset"
	"github.com/YuminosukeSato/singlelayer/neural"
	"github.com/YuminosukeSato/singlelayer/pkg/errors"
	"github.com/YuminosukeSato/singlelayer/pkg/log"
)

func quietLogger() log.Logger {
	logger, _ := log.NewTestLogger(log.LevelInfo)
	return logger
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"zero epochs", WithEpochs(0)},
		{"negative learning rate", WithLearningRate(-0.1)},
		{"NaN learning rate", WithLearningRate(math.NaN())},
		{"decay above one", WithDecay(1.5)},
		{"zero batch", WithMinibatchSize(0)},
		{"batch larger than train set", WithMinibatchSize(5000)},
		{"tiny train set", WithTrainSize(1)},
		{"tiny test set", WithTestSize(0)},
		{"single cluster", WithClusters(dataset.Cluster{Center: []float64{0, 0}, Variance: 1})},
		{"negative variance", WithClusters(
			dataset.Cluster{Center: []float64{0, 0}, Variance: 1},
			dataset.Cluster{Center: []float64{1, 1}, Variance: -1},
		)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultLogisticConfig()
			cfg.apply([]Option{tt.opt})
			err := cfg.Validate()
			var valErr *errors.ValidationError
			assert.True(t, errors.As(err, &valErr), "got %v", err)
		})
	}

	for _, cfg := range []Config{DefaultPerceptronConfig(), DefaultLogisticConfig()} {
		assert.NoError(t, cfg.Validate())
	}
}

func TestRunPerceptronDefault(t *testing.T) {
	res, err := RunPerceptron(context.Background(), WithLogger(quietLogger()))
	require.NoError(t, err)

	assert.GreaterOrEqual(t, res.Epochs, 1)
	assert.LessOrEqual(t, res.Epochs, 2000)
	assert.Equal(t, 200, res.Confusion.Total())
	assert.Greater(t, res.Scores.Accuracy, 0.9)
	// 既定シードでは重なった点が残り、上限まで回る
	assert.Greater(t, res.TrainAccuracy, 0.99)
	if res.Converged {
		assert.Equal(t, 1.0, res.TrainAccuracy)
	} else {
		assert.Equal(t, 2000, res.Epochs)
	}
}

func TestRunPerceptronSeparable(t *testing.T) {
	res, err := RunPerceptron(context.Background(),
		WithLogger(quietLogger()),
		WithClusters(
			dataset.Cluster{Center: []float64{-2, 2}, Variance: 0.05},
			dataset.Cluster{Center: []float64{2, -2}, Variance: 0.05},
		),
	)
	require.NoError(t, err)

	assert.True(t, res.Converged)
	assert.Less(t, res.Epochs, 2000)
	assert.Equal(t, 1.0, res.TrainAccuracy)
	assert.Equal(t, 1.0, res.Scores.Accuracy)
	assert.Equal(t, 1.0, res.Scores.Precision)
	assert.Equal(t, 1.0, res.Scores.Recall)
}

func TestRunPerceptronConvergenceWarning(t *testing.T) {
	var warnings []error
	errors.SetZerologWarnFunc(func(w error) { warnings = append(warnings, w) })
	defer errors.SetZerologWarnFunc(nil)

	// 最初のエポックはゼロ重みから始まるので必ず誤分類がある
	res, err := RunPerceptron(context.Background(), WithLogger(quietLogger()), WithEpochs(1))
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Equal(t, 1, res.Epochs)

	require.NotEmpty(t, warnings)
	var cw *errors.ConvergenceWarning
	require.True(t, errors.As(warnings[0], &cw))
	assert.Equal(t, "Perceptron", cw.Algorithm)
	assert.Equal(t, 1, cw.Iterations)
}

func TestRunPerceptronErrors(t *testing.T) {
	_, err := RunPerceptron(context.Background(), WithLogger(quietLogger()),
		WithClusters(
			dataset.Cluster{Center: []float64{0, 0}, Variance: 1},
			dataset.Cluster{Center: []float64{1, 1}, Variance: 1},
			dataset.Cluster{Center: []float64{2, 2}, Variance: 1},
		),
	)
	assert.Error(t, err)

	_, err = RunPerceptron(context.Background(), WithLogger(quietLogger()),
		WithClusters(
			dataset.Cluster{Center: []float64{0, 0}, Variance: -1},
			dataset.Cluster{Center: []float64{1, 1}, Variance: 1},
		),
	)
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = RunPerceptron(ctx, WithLogger(quietLogger()))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunLogisticDefault(t *testing.T) {
	if testing.Short() {
		t.Skip("full 2000 epoch run")
	}
	res, err := RunLogistic(context.Background(), WithLogger(quietLogger()))
	require.NoError(t, err)

	assert.Equal(t, 2000, res.Epochs)
	assert.Equal(t, 180, res.Confusion.Total())
	// 3クラスが重なるのでベイズ精度は約0.9
	assert.Greater(t, res.Scores.Accuracy, 0.85)
	require.Len(t, res.Scores.Precisions, 3)
	for i := 0; i < 3; i++ {
		assert.False(t, math.IsNaN(res.Scores.Precisions[i]), "class %d", i)
		assert.Greater(t, res.Scores.Recalls[i], 0.5, "class %d", i)
	}
	assert.Less(t, res.FinalLoss, math.Log(3))
}

func TestRunLogisticLogsEpochLoss(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)

	res, err := RunLogistic(context.Background(), WithLogger(logger), WithEpochs(3))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Epochs)
	assert.InDelta(t, 0.2*0.95*0.95*0.95, res.FinalLearningRate, 1e-12)

	entries, err := logger.GetLogEntries()
	require.NoError(t, err)

	var losses []float64
	for _, e := range entries {
		if e["message"] == "Epoch finished" {
			losses = append(losses, e[log.LossKey].(float64))
			assert.Equal(t, "LogisticRegression", e[log.ModelNameKey])
		}
	}
	require.Len(t, losses, 3)
	assert.Less(t, losses[2], losses[0])
	assert.True(t, logger.ContainsMessage("Evaluation finished"))
}

func TestRunLogisticPlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logistic.png")
	_, err := RunLogistic(context.Background(), WithLogger(quietLogger()), WithEpochs(5), WithPlotPath(path))
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRunLogisticReproducible(t *testing.T) {
	run := func() *LogisticResult {
		res, err := RunLogistic(context.Background(), WithLogger(quietLogger()), WithEpochs(10), WithSeed(42))
		require.NoError(t, err)
		return res
	}
	a, b := run(), run()
	assert.Equal(t, a.FinalLoss, b.FinalLoss)
	assert.Equal(t, a.Scores.Accuracy, b.Scores.Accuracy)
}

func TestCheckParametersBias(t *testing.T) {
	model, err := neural.NewLogisticRegression(2, 3)
	require.NoError(t, err)
	require.NoError(t, checkParameters(model, 1))

	// 入力が0なら重みは動かず、バイアスだけが発散する
	_, err = model.Train(mat.NewDense(1, 2, nil), mat.NewDense(1, 3, []float64{-1e308, 0, 0}), 1e308)
	require.NoError(t, err)
	assert.Zero(t, mat.Sum(model.Weights()))
	require.True(t, math.IsInf(model.Bias().AtVec(0), -1))

	err = checkParameters(model, 7)
	var numErr *errors.NumericalInstabilityError
	require.True(t, errors.As(err, &numErr))
	assert.Equal(t, 7, numErr.Iteration)
	assert.Equal(t, "LogisticRegression.Train", numErr.Operation)
}
