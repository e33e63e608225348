package report

import (
	"bytes"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/singlelayer/metrics"
)

func TestWritePerceptron(t *testing.T) {
	var buf bytes.Buffer
	err := WritePerceptron(&buf, BinaryScores{Accuracy: 0.95, Precision: 0.94, Recall: 1})
	require.NoError(t, err)

	want := "----------------------------\n" +
		"Perceptrons model evaluation\n" +
		"----------------------------\n" +
		"Accuracy:  95.0 %\n" +
		"Precision: 94.0 %\n" +
		"Recall:    100.0 %\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("WritePerceptron() mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteLogistic(t *testing.T) {
	var buf bytes.Buffer
	err := WriteLogistic(&buf, MulticlassScores{
		Accuracy:   0.9,
		Precisions: []float64{0.8, 1, math.NaN()},
		Recalls:    []float64{0.25, 0.5, 0.75},
	})
	require.NoError(t, err)

	want := "------------------------------------\n" +
		"Logistic Regression model evaluation\n" +
		"------------------------------------\n" +
		"Accuracy: 90.0 %\n" +
		"Precision:\n" +
		" class 1: 80.0 %\n" +
		" class 2: 100.0 %\n" +
		" class 3: NaN %\n" +
		"Recall:\n" +
		" class 1: 25.0 %\n" +
		" class 2: 50.0 %\n" +
		" class 3: 75.0 %\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("WriteLogistic() mismatch (-want +got):\n%s", diff)
	}
}

func TestScoresFromConfusionMatrix(t *testing.T) {
	cm, err := metrics.ConfusionMatrixFromLabels(
		[]int{0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		[]int{0, 0, 0, 0, 0, 1, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1},
		2,
	)
	require.NoError(t, err)

	bin, err := BinaryScoresFrom(cm)
	require.NoError(t, err)
	assert.InDelta(t, 0.8125, bin.Accuracy, 1e-12)
	assert.InDelta(t, 5.0/7, bin.Precision, 1e-12)
	assert.InDelta(t, 5.0/6, bin.Recall, 1e-12)

	multi := MulticlassScoresFrom(cm)
	assert.Len(t, multi.Precisions, 2)
	assert.InDelta(t, 0.8, multi.Recalls[1], 1e-12)

	three, err := metrics.NewConfusionMatrix(3)
	require.NoError(t, err)
	_, err = BinaryScoresFrom(three)
	assert.Error(t, err)
}
