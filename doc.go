// Package singlelayer is a small collection of single-layer supervised
// classifiers trained on synthetic Gaussian-cluster data.
//
// # Packages
//
//   - random: Gaussian sampler (Box-Muller) over an injected uniform source
//   - activation: Step, Softmax, Argmax
//   - neural: Perceptron and multi-class LogisticRegression
//   - dataset: cluster generation, label encodings, mini-batches
//   - metrics: confusion matrix, accuracy, precision, recall, cross-entropy
//   - experiment: end-to-end training and evaluation runs
//   - report: console report
//   - visualize: scatter plots with gonum/plot
//
// # Quick Start
//
//	res, err := experiment.RunLogistic(context.Background(),
//	    experiment.WithSeed(1234),
//	    experiment.WithEpochs(500),
//	)
//	if err != nil {
//	    slog.Error("experiment failed", log.ErrAttr(err))
//	    os.Exit(1)
//	}
//	report.WriteLogistic(os.Stdout, res.Scores)
//
// The demos under examples/ print the same report; pass -plot out.png to
// also draw the test predictions.
//
// # Error Handling
//
// Errors are built on cockroachdb/errors and carry stack traces. Invalid
// arguments return *errors.ValidationError, shape mismatches
// *errors.DimensionError. Non-fatal conditions such as an undefined
// precision go through errors.Warn, which log.SetupZerolog routes into the
// structured log.
package singlelayer
