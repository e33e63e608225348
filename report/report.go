// Package report renders evaluation results for the console.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/YuminosukeSato/singlelayer/metrics"
	"github.com/YuminosukeSato/singlelayer/pkg/errors"
)

// BinaryScores are the evaluation results of a binary classifier, as
// fractions in [0, 1].
type BinaryScores struct {
	Accuracy  float64
	Precision float64
	Recall    float64
}

// MulticlassScores are the evaluation results of a multi-class classifier.
type MulticlassScores struct {
	Accuracy   float64
	Precisions []float64
	Recalls    []float64
}

// BinaryScoresFrom reads the scores of a 2×2 confusion matrix with the
// positive class at index 0.
func BinaryScoresFrom(cm *metrics.ConfusionMatrix) (BinaryScores, error) {
	if cm.Classes() != 2 {
		return BinaryScores{}, errors.NewValidationError("confusion matrix", "binary report needs 2 classes", cm.Classes())
	}
	return BinaryScores{
		Accuracy:  cm.Accuracy(),
		Precision: cm.Precision(0),
		Recall:    cm.Recall(0),
	}, nil
}

// MulticlassScoresFrom reads the scores of any confusion matrix.
func MulticlassScoresFrom(cm *metrics.ConfusionMatrix) MulticlassScores {
	return MulticlassScores{
		Accuracy:   cm.Accuracy(),
		Precisions: cm.Precisions(),
		Recalls:    cm.Recalls(),
	}
}

func header(w io.Writer, title string) error {
	rule := strings.Repeat("-", len(title))
	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n", rule, title, rule)
	return err
}

// WritePerceptron writes
//
//	----------------------------
//	Perceptrons model evaluation
//	----------------------------
//	Accuracy:  95.0 %
//	Precision: 94.1 %
//	Recall:    96.0 %
func WritePerceptron(w io.Writer, s BinaryScores) error {
	if err := header(w, "Perceptrons model evaluation"); err != nil {
		return errors.Wrap(err, "write report")
	}
	_, err := fmt.Fprintf(w, "Accuracy:  %.1f %%\nPrecision: %.1f %%\nRecall:    %.1f %%\n",
		s.Accuracy*100, s.Precision*100, s.Recall*100)
	return errors.Wrap(err, "write report")
}

// WriteLogistic writes the accuracy followed by per-class precision and
// recall. Classes are numbered from 1.
func WriteLogistic(w io.Writer, s MulticlassScores) error {
	var b strings.Builder
	if err := header(&b, "Logistic Regression model evaluation"); err != nil {
		return err
	}
	fmt.Fprintf(&b, "Accuracy: %.1f %%\n", s.Accuracy*100)
	b.WriteString("Precision:\n")
	for i, p := range s.Precisions {
		fmt.Fprintf(&b, " class %d: %.1f %%\n", i+1, p*100)
	}
	b.WriteString("Recall:\n")
	for i, r := range s.Recalls {
		fmt.Fprintf(&b, " class %d: %.1f %%\n", i+1, r*100)
	}

	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "write report")
}
