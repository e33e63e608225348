// Package dataset generates the synthetic Gaussian-cluster data the
// classifiers are trained on, and converts it to the label encodings and
// mini-batches the training loops expect.
package dataset

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/singlelayer/pkg/errors"
	"github.com/YuminosukeSato/singlelayer/random"
)

// Cluster is an axis-aligned Gaussian blob. Every coordinate is drawn
// independently from N(Center[d], Variance).
type Cluster struct {
	Center   []float64
	Variance float64
}

// Dataset holds samples row-wise in X. Labels[i] is the index of the cluster
// row i was drawn from.
type Dataset struct {
	X      *mat.Dense
	Labels []int
}

// Generate draws n samples spread over clusters, cluster by cluster. When n
// is not a multiple of len(clusters) the first clusters get one extra sample.
// All draws come from src in order, so a seeded src reproduces the data.
func Generate(src random.Source, clusters []Cluster, n int) (*Dataset, error) {
	if len(clusters) == 0 {
		return nil, errors.NewValidationError("clusters", "must not be empty", len(clusters))
	}
	if n < len(clusters) {
		return nil, errors.NewValidationError("n", "must be at least the number of clusters", n)
	}
	dim := len(clusters[0].Center)
	if dim == 0 {
		return nil, errors.NewValidationError("clusters[0].Center", "must not be empty", dim)
	}

	samplers := make([][]*random.Gaussian, len(clusters))
	for k, c := range clusters {
		if len(c.Center) != dim {
			return nil, errors.NewDimensionError("dataset.Generate", dim, len(c.Center), 1)
		}
		samplers[k] = make([]*random.Gaussian, dim)
		for d, mean := range c.Center {
			g, err := random.NewGaussian(mean, c.Variance, src)
			if err != nil {
				return nil, errors.Wrapf(err, "cluster %d", k)
			}
			samplers[k][d] = g
		}
	}

	ds := &Dataset{
		X:      mat.NewDense(n, dim, nil),
		Labels: make([]int, n),
	}
	row := 0
	for k := range clusters {
		count := n / len(clusters)
		if k < n%len(clusters) {
			count++
		}
		for i := 0; i < count; i++ {
			for d, g := range samplers[k] {
				ds.X.Set(row, d, g.Sample())
			}
			ds.Labels[row] = k
			row++
		}
	}
	return ds, nil
}

// Len returns the number of samples.
func (ds *Dataset) Len() int {
	return len(ds.Labels)
}

// Features returns the number of columns of X.
func (ds *Dataset) Features() int {
	_, c := ds.X.Dims()
	return c
}

// Row returns sample i as a slice aliasing X.
func (ds *Dataset) Row(i int) []float64 {
	return ds.X.RawRowView(i)
}

// SignedLabels maps class 0 to +1 and class 1 to -1, the perceptron
// encoding.
func (ds *Dataset) SignedLabels() ([]int, error) {
	return SignedLabels(ds.Labels)
}

// OneHot encodes the labels as a [Len x nClasses] matrix.
func (ds *Dataset) OneHot(nClasses int) (*mat.Dense, error) {
	return OneHot(ds.Labels, nClasses)
}

// ClassMeans returns the per-class mean of every feature, one row per class.
func (ds *Dataset) ClassMeans(nClasses int) (*mat.Dense, error) {
	r, c := ds.X.Dims()
	means := mat.NewDense(nClasses, c, nil)
	for k := 0; k < nClasses; k++ {
		weights := make([]float64, r)
		var n int
		for i, l := range ds.Labels {
			if l < 0 || l >= nClasses {
				return nil, errors.NewValidationError("labels", "class index out of range", l)
			}
			if l == k {
				weights[i] = 1
				n++
			}
		}
		if n == 0 {
			continue
		}
		for j := 0; j < c; j++ {
			means.Set(k, j, stat.Mean(mat.Col(nil, j, ds.X), weights))
		}
	}
	return means, nil
}

// SignedLabels converts class indices {0, 1} into {+1, -1}.
func SignedLabels(labels []int) ([]int, error) {
	signed := make([]int, len(labels))
	for i, l := range labels {
		switch l {
		case 0:
			signed[i] = 1
		case 1:
			signed[i] = -1
		default:
			return nil, errors.NewValidationError("labels", "binary labels must be 0 or 1", l)
		}
	}
	return signed, nil
}

// OneHot encodes class indices. Each row has exactly one 1.
func OneHot(labels []int, nClasses int) (*mat.Dense, error) {
	if nClasses <= 0 {
		return nil, errors.NewValidationError("nClasses", "must be positive", nClasses)
	}
	if len(labels) == 0 {
		return nil, errors.ErrEmptyData
	}
	t := mat.NewDense(len(labels), nClasses, nil)
	for i, l := range labels {
		if l < 0 || l >= nClasses {
			return nil, errors.NewValidationError("labels", "class index out of range", l)
		}
		t.Set(i, l, 1)
	}
	return t, nil
}

// Permutation returns a random ordering of 0..n-1.
func Permutation(n int, rng *rand.Rand) []int {
	return rng.Perm(n)
}

// Batch is one mini-batch of samples and their one-hot targets.
type Batch struct {
	X *mat.Dense
	T *mat.Dense
}

// MiniBatches groups the rows of X and T into batches of batchSize, visiting
// rows in the order given by index. A trailing group smaller than batchSize
// is dropped.
func MiniBatches(X, T mat.Matrix, index []int, batchSize int) ([]Batch, error) {
	n, c := X.Dims()
	tr, tc := T.Dims()
	if tr != n {
		return nil, errors.NewDimensionError("dataset.MiniBatches", n, tr, 0)
	}
	if len(index) != n {
		return nil, errors.NewDimensionError("dataset.MiniBatches", n, len(index), 0)
	}
	if batchSize <= 0 || batchSize > n {
		return nil, errors.NewValidationError("batchSize", "must be in [1, number of samples]", batchSize)
	}

	batches := make([]Batch, n/batchSize)
	for b := range batches {
		bx := mat.NewDense(batchSize, c, nil)
		bt := mat.NewDense(batchSize, tc, nil)
		for j := 0; j < batchSize; j++ {
			src := index[b*batchSize+j]
			if src < 0 || src >= n {
				return nil, errors.NewValidationError("index", "row out of range", src)
			}
			bx.SetRow(j, mat.Row(nil, src, X))
			bt.SetRow(j, mat.Row(nil, src, T))
		}
		batches[b] = Batch{X: bx, T: bt}
	}
	return batches, nil
}
