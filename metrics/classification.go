// Package metrics evaluates classifiers: confusion matrices, accuracy,
// per-class precision and recall, and cross-entropy.
package metrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/singlelayer/activation"
	"github.com/YuminosukeSato/singlelayer/pkg/errors"
)

// ConfusionMatrix counts predictions as M[actual][predicted].
type ConfusionMatrix struct {
	n      int
	counts *mat.Dense
}

// NewConfusionMatrix creates an empty n×n matrix.
func NewConfusionMatrix(n int) (*ConfusionMatrix, error) {
	if n <= 0 {
		return nil, errors.NewValidationError("n", "must be positive", n)
	}
	return &ConfusionMatrix{n: n, counts: mat.NewDense(n, n, nil)}, nil
}

// Add records one prediction.
func (cm *ConfusionMatrix) Add(actual, predicted int) error {
	if actual < 0 || actual >= cm.n {
		return errors.NewValidationError("actual", fmt.Sprintf("class index must be in [0, %d)", cm.n), actual)
	}
	if predicted < 0 || predicted >= cm.n {
		return errors.NewValidationError("predicted", fmt.Sprintf("class index must be in [0, %d)", cm.n), predicted)
	}
	cm.counts.Set(actual, predicted, cm.counts.At(actual, predicted)+1)
	return nil
}

// ConfusionMatrixFromLabels builds an n-class matrix from class indices.
func ConfusionMatrixFromLabels(actual, predicted []int, n int) (*ConfusionMatrix, error) {
	if len(actual) != len(predicted) {
		return nil, errors.NewDimensionError("ConfusionMatrixFromLabels", len(actual), len(predicted), 0)
	}
	cm, err := NewConfusionMatrix(n)
	if err != nil {
		return nil, err
	}
	for i := range actual {
		if err := cm.Add(actual[i], predicted[i]); err != nil {
			return nil, errors.Wrapf(err, "sample %d", i)
		}
	}
	return cm, nil
}

// ConfusionMatrixFromOneHot builds a matrix from one-hot rows. A row is
// decoded to the index of its largest entry; a row with no positive entry
// is rejected.
func ConfusionMatrixFromOneHot(actual, predicted mat.Matrix) (*ConfusionMatrix, error) {
	ra, ca := actual.Dims()
	rp, cp := predicted.Dims()
	if ra != rp {
		return nil, errors.NewDimensionError("ConfusionMatrixFromOneHot", ra, rp, 0)
	}
	if ca != cp {
		return nil, errors.NewDimensionError("ConfusionMatrixFromOneHot", ca, cp, 1)
	}
	cm, err := NewConfusionMatrix(ca)
	if err != nil {
		return nil, err
	}
	for i := 0; i < ra; i++ {
		a, err := decodeOneHot(mat.Row(nil, i, actual))
		if err != nil {
			return nil, errors.Wrapf(err, "actual row %d", i)
		}
		p, err := decodeOneHot(mat.Row(nil, i, predicted))
		if err != nil {
			return nil, errors.Wrapf(err, "predicted row %d", i)
		}
		if err := cm.Add(a, p); err != nil {
			return nil, err
		}
	}
	return cm, nil
}

func decodeOneHot(row []float64) (int, error) {
	k := activation.Argmax(row)
	if k < 0 || row[k] <= 0 {
		return 0, errors.NewValueError("decodeOneHot", "row has no positive entry")
	}
	return k, nil
}

// Classes returns the number of classes.
func (cm *ConfusionMatrix) Classes() int {
	return cm.n
}

// At returns M[actual][predicted].
func (cm *ConfusionMatrix) At(actual, predicted int) int {
	return int(cm.counts.At(actual, predicted))
}

// Total returns the number of recorded predictions.
func (cm *ConfusionMatrix) Total() int {
	return int(mat.Sum(cm.counts))
}

// Accuracy returns trace / total, or NaN on an empty matrix.
func (cm *ConfusionMatrix) Accuracy() float64 {
	total := mat.Sum(cm.counts)
	if total == 0 {
		return math.NaN()
	}
	return mat.Trace(cm.counts) / total
}

// Precision returns M[i][i] divided by the column sum for class i. A class
// that was never predicted gives NaN and an UndefinedMetricWarning.
func (cm *ConfusionMatrix) Precision(i int) float64 {
	col := floats.Sum(mat.Col(nil, i, cm.counts))
	if col == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("precision", i, "no predicted samples", math.NaN()))
		return math.NaN()
	}
	return cm.counts.At(i, i) / col
}

// Recall returns M[i][i] divided by the row sum for class i. A class with no
// actual samples gives NaN and an UndefinedMetricWarning.
func (cm *ConfusionMatrix) Recall(i int) float64 {
	row := floats.Sum(cm.counts.RawRowView(i))
	if row == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("recall", i, "no true samples", math.NaN()))
		return math.NaN()
	}
	return cm.counts.At(i, i) / row
}

// Precisions returns Precision for every class.
func (cm *ConfusionMatrix) Precisions() []float64 {
	p := make([]float64, cm.n)
	for i := range p {
		p[i] = cm.Precision(i)
	}
	return p
}

// Recalls returns Recall for every class.
func (cm *ConfusionMatrix) Recalls() []float64 {
	r := make([]float64, cm.n)
	for i := range r {
		r[i] = cm.Recall(i)
	}
	return r
}

// Accuracy は正解率を計算する
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("Accuracy", n, yPred.Len(), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// CrossEntropy は one-hot ラベル T と予測確率 P の平均交差エントロピーを計算する。
// log(0) を避けるため確率は 1e-15 で下限を取る。
func CrossEntropy(T, P mat.Matrix) (float64, error) {
	rt, ct := T.Dims()
	rp, cp := P.Dims()
	if rt == 0 {
		return 0, errors.NewValueError("CrossEntropy", "empty matrix")
	}
	if rt != rp {
		return 0, errors.NewDimensionError("CrossEntropy", rt, rp, 0)
	}
	if ct != cp {
		return 0, errors.NewDimensionError("CrossEntropy", ct, cp, 1)
	}

	const eps = 1e-15
	var loss float64
	for i := 0; i < rt; i++ {
		for j := 0; j < ct; j++ {
			if t := T.At(i, j); t != 0 {
				loss -= t * math.Log(math.Max(P.At(i, j), eps))
			}
		}
	}
	return loss / float64(rt), nil
}
