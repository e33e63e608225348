package experiment

import (
	"context"
	"time"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/singlelayer/dataset"
	"github.com/YuminosukeSato/singlelayer/metrics"
	"github.com/YuminosukeSato/singlelayer/neural"
	"github.com/YuminosukeSato/singlelayer/pkg/errors"
	"github.com/YuminosukeSato/singlelayer/pkg/log"
	"github.com/YuminosukeSato/singlelayer/random"
	"github.com/YuminosukeSato/singlelayer/report"
	"github.com/YuminosukeSato/singlelayer/visualize"
)

// LogisticResult is the outcome of RunLogistic.
type LogisticResult struct {
	Model  *neural.LogisticRegression
	Epochs int

	FinalLearningRate float64
	FinalLoss         float64 // 訓練データの交差エントロピー

	Confusion *metrics.ConfusionMatrix
	Scores    report.MulticlassScores
}

// RunLogistic trains a multi-class logistic regression with mini-batch SGD.
// The training rows are shuffled once; every epoch visits the same batches
// and then multiplies the learning rate by the configured decay.
func RunLogistic(ctx context.Context, opts ...Option) (res *LogisticResult, err error) {
	defer errors.Recover(&err, "RunLogistic")

	cfg := DefaultLogisticConfig()
	cfg.apply(opts)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	nClasses := len(cfg.Clusters)
	logger := cfg.Logger.With(log.ModelNameKey, "LogisticRegression", log.RandomSeedKey, cfg.Seed)

	// 1. データ生成
	rng := random.NewSource(cfg.Seed)
	train, err := dataset.Generate(rng, cfg.Clusters, cfg.TrainSize)
	if err != nil {
		return nil, errors.Wrap(err, "generate training data")
	}
	test, err := dataset.Generate(rng, cfg.Clusters, cfg.TestSize)
	if err != nil {
		return nil, errors.Wrap(err, "generate test data")
	}
	trainT, err := train.OneHot(nClasses)
	if err != nil {
		return nil, err
	}
	testT, err := test.OneHot(nClasses)
	if err != nil {
		return nil, err
	}

	index := dataset.Permutation(train.Len(), rng)
	batches, err := dataset.MiniBatches(train.X, trainT, index, cfg.MinibatchSize)
	if err != nil {
		return nil, err
	}
	logger.Debug("Data generated",
		log.PhaseKey, log.PhaseGeneration,
		log.SamplesKey, train.Len()+test.Len(),
		log.ClassesKey, nClasses,
		log.BatchSizeKey, cfg.MinibatchSize,
	)

	// 2. 学習
	model, err := neural.NewLogisticRegression(train.Features(), nClasses, neural.WithLogisticLogger(logger))
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res = &LogisticResult{Model: model}
	lr := cfg.LearningRate
	debug := logger.Enabled(ctx, log.LevelDebug)
	for res.Epochs < cfg.Epochs {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "logistic regression stopped at epoch %d", res.Epochs)
		}
		res.Epochs++

		for _, b := range batches {
			if _, err := model.Train(b.X, b.T, lr); err != nil {
				return nil, err
			}
		}
		if err := checkParameters(model, res.Epochs); err != nil {
			return nil, err
		}
		if debug {
			loss, err := trainingLoss(model, train.X, trainT)
			if err != nil {
				return nil, err
			}
			logger.Debug("Epoch finished",
				log.EpochKey, res.Epochs,
				log.LossKey, loss,
				log.LearningRateKey, lr,
			)
		}
		lr *= cfg.Decay
	}
	res.FinalLearningRate = lr
	res.FinalLoss, err = trainingLoss(model, train.X, trainT)
	if err != nil {
		return nil, err
	}
	logger.Info("Training finished",
		log.OperationKey, log.OperationFit,
		log.EpochKey, res.Epochs,
		log.LossKey, res.FinalLoss,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	// 3. 評価
	predT := mat.NewDense(test.Len(), nClasses, nil)
	predClass := make([]int, test.Len())
	for i := 0; i < test.Len(); i++ {
		y, err := model.Predict(test.Row(i))
		if err != nil {
			return nil, err
		}
		predT.SetRow(i, lo.Map(y, func(v int, _ int) float64 { return float64(v) }))
		predClass[i] = lo.IndexOf(y, 1)
	}
	res.Confusion, err = metrics.ConfusionMatrixFromOneHot(testT, predT)
	if err != nil {
		return nil, err
	}
	res.Scores = report.MulticlassScoresFrom(res.Confusion)
	logger.Info("Evaluation finished",
		log.OperationKey, log.OperationEvaluate,
		log.SamplesKey, test.Len(),
		log.AccuracyKey, res.Scores.Accuracy,
	)

	if cfg.PlotPath != "" {
		if err := visualize.SaveScatter(cfg.PlotPath, "Logistic regression test predictions", test.X, predClass); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// checkParameters fails if the weights or the bias hold NaN or Inf.
func checkParameters(model *neural.LogisticRegression, epoch int) error {
	if err := errors.CheckMatrix("LogisticRegression.Train", model.Weights(), epoch); err != nil {
		return err
	}
	return errors.CheckMatrix("LogisticRegression.Train", model.Bias(), epoch)
}

func trainingLoss(model *neural.LogisticRegression, X, T mat.Matrix) (float64, error) {
	proba, err := model.PredictProba(X)
	if err != nil {
		return 0, err
	}
	return metrics.CrossEntropy(T, proba)
}
