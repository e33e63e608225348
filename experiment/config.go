// Package experiment runs the end-to-end perceptron and logistic regression
// experiments: data generation, training, evaluation.
package experiment

import (
	"math"

	"github.com/YuminosukeSato/singlelayer/dataset"
	"github.com/YuminosukeSato/singlelayer/pkg/errors"
	"github.com/YuminosukeSato/singlelayer/pkg/log"
)

// Config holds the parameters of one experiment.
type Config struct {
	Seed      int64
	TrainSize int // 全クラス合計
	TestSize  int
	Clusters  []dataset.Cluster

	Epochs        int     // エポック上限
	LearningRate  float64 // 初期学習率
	Decay         float64 // エポックごとに学習率へ掛ける係数
	MinibatchSize int

	PlotPath string // 空なら描画しない
	Logger   log.Logger
}

// Option configures a Config.
type Option func(*Config)

// DefaultPerceptronConfig returns the two-cluster perceptron setup: class +1
// around (-2, 2), class -1 around (2, -2).
func DefaultPerceptronConfig() Config {
	return Config{
		Seed:      1234,
		TrainSize: 1000,
		TestSize:  200,
		Clusters: []dataset.Cluster{
			{Center: []float64{-2, 2}, Variance: 1},
			{Center: []float64{2, -2}, Variance: 1},
		},
		Epochs:        2000,
		LearningRate:  1,
		Decay:         1,
		MinibatchSize: 1,
	}
}

// DefaultLogisticConfig returns the three-cluster logistic regression setup.
func DefaultLogisticConfig() Config {
	return Config{
		Seed:      1234,
		TrainSize: 400 * 3,
		TestSize:  60 * 3,
		Clusters: []dataset.Cluster{
			{Center: []float64{-2, 2}, Variance: 1},
			{Center: []float64{2, -2}, Variance: 1},
			{Center: []float64{0, 0}, Variance: 1},
		},
		Epochs:        2000,
		LearningRate:  0.2,
		Decay:         0.95,
		MinibatchSize: 50,
	}
}

// WithSeed sets the random seed.
func WithSeed(seed int64) Option {
	return func(c *Config) {
		c.Seed = seed
	}
}

// WithEpochs sets the epoch cap.
func WithEpochs(epochs int) Option {
	return func(c *Config) {
		c.Epochs = epochs
	}
}

// WithLearningRate sets the initial learning rate.
func WithLearningRate(lr float64) Option {
	return func(c *Config) {
		c.LearningRate = lr
	}
}

// WithDecay sets the per-epoch learning rate multiplier.
func WithDecay(decay float64) Option {
	return func(c *Config) {
		c.Decay = decay
	}
}

// WithMinibatchSize sets the mini-batch size.
func WithMinibatchSize(n int) Option {
	return func(c *Config) {
		c.MinibatchSize = n
	}
}

// WithTrainSize sets the total number of training samples.
func WithTrainSize(n int) Option {
	return func(c *Config) {
		c.TrainSize = n
	}
}

// WithTestSize sets the total number of test samples.
func WithTestSize(n int) Option {
	return func(c *Config) {
		c.TestSize = n
	}
}

// WithClusters replaces the generating clusters.
func WithClusters(clusters ...dataset.Cluster) Option {
	return func(c *Config) {
		c.Clusters = clusters
	}
}

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithPlotPath writes a scatter plot of the test predictions to path.
func WithPlotPath(path string) Option {
	return func(c *Config) {
		c.PlotPath = path
	}
}

func (c *Config) apply(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
	if c.Logger == nil {
		c.Logger = log.GetLogger()
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch {
	case len(c.Clusters) < 2:
		return errors.NewValidationError("Clusters", "at least two clusters are required", len(c.Clusters))
	case c.TrainSize < len(c.Clusters):
		return errors.NewValidationError("TrainSize", "must be at least the number of clusters", c.TrainSize)
	case c.TestSize < len(c.Clusters):
		return errors.NewValidationError("TestSize", "must be at least the number of clusters", c.TestSize)
	case c.Epochs <= 0:
		return errors.NewValidationError("Epochs", "must be positive", c.Epochs)
	case !(c.LearningRate > 0) || math.IsInf(c.LearningRate, 0):
		return errors.NewValidationError("LearningRate", "must be positive and finite", c.LearningRate)
	case !(c.Decay > 0) || c.Decay > 1:
		return errors.NewValidationError("Decay", "must be in (0, 1]", c.Decay)
	case c.MinibatchSize <= 0 || c.MinibatchSize > c.TrainSize:
		return errors.NewValidationError("MinibatchSize", "must be in [1, TrainSize]", c.MinibatchSize)
	}
	for i, cl := range c.Clusters {
		if cl.Variance < 0 {
			return errors.Wrapf(
				errors.NewValidationError("Variance", "must be non-negative", cl.Variance),
				"cluster %d", i)
		}
	}
	return nil
}
