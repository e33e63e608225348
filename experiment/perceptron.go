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

// PerceptronResult is the outcome of RunPerceptron.
type PerceptronResult struct {
	Model     *neural.Perceptron
	Epochs    int  // 実行したエポック数
	Converged bool // 誤分類0のエポックで停止したか

	TrainAccuracy float64
	Confusion     *metrics.ConfusionMatrix // 0 = +1, 1 = -1
	Scores        report.BinaryScores
}

// RunPerceptron trains a perceptron on two Gaussian clusters and evaluates
// it on a fresh test set drawn from the same source. Training stops at the
// first epoch without misclassifications; reaching the epoch cap emits a
// ConvergenceWarning.
func RunPerceptron(ctx context.Context, opts ...Option) (res *PerceptronResult, err error) {
	defer errors.Recover(&err, "RunPerceptron")

	cfg := DefaultPerceptronConfig()
	cfg.apply(opts)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(cfg.Clusters) != 2 {
		return nil, errors.NewValidationError("Clusters", "perceptron needs exactly two clusters", len(cfg.Clusters))
	}
	logger := cfg.Logger.With(log.ModelNameKey, "Perceptron", log.RandomSeedKey, cfg.Seed)

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
	trainT, err := train.SignedLabels()
	if err != nil {
		return nil, err
	}
	logger.Debug("Data generated",
		log.PhaseKey, log.PhaseGeneration,
		log.SamplesKey, train.Len()+test.Len(),
		log.FeaturesKey, train.Features(),
	)

	// 2. 学習
	model, err := neural.NewPerceptron(train.Features(), neural.WithPerceptronLogger(logger))
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res = &PerceptronResult{Model: model}
	for res.Epochs < cfg.Epochs {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "perceptron stopped at epoch %d", res.Epochs)
		}
		res.Epochs++

		classified := 0
		for i := 0; i < train.Len(); i++ {
			c, err := model.Train(train.Row(i), trainT[i], cfg.LearningRate)
			if err != nil {
				return nil, err
			}
			classified += c
		}
		logger.Debug("Epoch finished",
			log.EpochKey, res.Epochs,
			log.MisclassifiedKey, train.Len()-classified,
		)
		if classified == train.Len() {
			res.Converged = true
			break
		}
	}
	if err := errors.CheckNumericalStability("Perceptron.Train", model.Weights(), res.Epochs); err != nil {
		return nil, err
	}
	if !res.Converged {
		errors.Warn(errors.NewConvergenceWarning("Perceptron", res.Epochs, ""))
	}
	logger.Info("Training finished",
		log.OperationKey, log.OperationFit,
		log.EpochKey, res.Epochs,
		log.ConvergedKey, res.Converged,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	trainPred, err := model.PredictBatch(train.X)
	if err != nil {
		return nil, err
	}
	res.TrainAccuracy, err = metrics.Accuracy(intVec(trainT), intVec(trainPred))
	if err != nil {
		return nil, err
	}

	// 3. 評価
	pred, err := model.PredictBatch(test.X)
	if err != nil {
		return nil, err
	}
	predClass := lo.Map(pred, func(p int, _ int) int {
		if p < 0 {
			return 1
		}
		return 0
	})
	res.Confusion, err = metrics.ConfusionMatrixFromLabels(test.Labels, predClass, 2)
	if err != nil {
		return nil, err
	}
	res.Scores, err = report.BinaryScoresFrom(res.Confusion)
	if err != nil {
		return nil, err
	}
	logger.Info("Evaluation finished",
		log.OperationKey, log.OperationEvaluate,
		log.SamplesKey, test.Len(),
		log.AccuracyKey, res.Scores.Accuracy,
	)

	if cfg.PlotPath != "" {
		if err := visualize.SaveScatter(cfg.PlotPath, "Perceptron test predictions", test.X, pred); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func intVec(v []int) *mat.VecDense {
	return mat.NewVecDense(len(v), lo.Map(v, func(x int, _ int) float64 { return float64(x) }))
}
