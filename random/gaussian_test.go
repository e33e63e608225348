package random

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/singlelayer/pkg/errors"
)

func TestNewGaussian_NegativeVariance(t *testing.T) {
	g, err := NewGaussian(0, -1, NewSource(1))
	require.Error(t, err)
	assert.Nil(t, g)

	var valErr *errors.ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "variance", valErr.ParamName)

	_, err = NewGaussian(0, math.NaN(), nil)
	assert.Error(t, err)
}

func TestGaussian_Moments(t *testing.T) {
	tests := []struct {
		name     string
		mean     float64
		variance float64
	}{
		{"standard", 0, 1},
		{"shifted", -2, 1},
		{"wide", 3, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGaussian(tt.mean, tt.variance, NewSource(1234))
			require.NoError(t, err)

			const n = 20000
			xs := make([]float64, n)
			for i := range xs {
				xs[i] = g.Sample()
			}
			mean, variance := stat.MeanVariance(xs, nil)
			assert.InDelta(t, tt.mean, mean, 0.1)
			assert.InDelta(t, tt.variance, variance, 0.1*tt.variance+0.05)
		})
	}
}

func TestGaussian_Quantiles(t *testing.T) {
	g, err := NewGaussian(-2, 1, NewSource(99))
	require.NoError(t, err)
	ref := distuv.Normal{Mu: -2, Sigma: 1}

	const n = 20000
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = g.Sample()
	}
	for _, q := range []float64{-4, -3, -2, -1, 0} {
		below := 0
		for _, x := range xs {
			if x < q {
				below++
			}
		}
		assert.InDelta(t, ref.CDF(q), float64(below)/n, 0.02, "P(X < %v)", q)
	}
}

func TestGaussian_ZeroVariance(t *testing.T) {
	g, err := NewGaussian(1.5, 0, NewSource(7))
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		assert.Equal(t, 1.5, g.Sample())
	}
}

func TestGaussian_Reproducible(t *testing.T) {
	a, _ := NewGaussian(0, 1, NewSource(42))
	b, _ := NewGaussian(0, 1, NewSource(42))
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Sample(), b.Sample())
	}
}

// zeroFirst yields 0 once and then a fixed sequence, exercising the redraw.
type zeroFirst struct {
	vals []float64
	i    int
}

func (z *zeroFirst) Float64() float64 {
	v := z.vals[z.i%len(z.vals)]
	z.i++
	return v
}

func TestGaussian_RejectsZeroUniform(t *testing.T) {
	src := &zeroFirst{vals: []float64{0, math.Exp(-0.5), 0.9, 0}}
	g, err := NewGaussian(0, 1, src)
	require.NoError(t, err)

	// u1 = e^-0.5 gives c = 1; 0.9 picks cosine; angle 0 gives cos(0) = 1.
	assert.InDelta(t, 1.0, g.Sample(), 1e-12)
	assert.Equal(t, 4, src.i)
}

func TestGaussian_Unseeded(t *testing.T) {
	g, err := NewGaussian(0, 1, nil)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(g.Sample()))
	assert.Equal(t, 0.0, g.Mean())
	assert.Equal(t, 1.0, g.Variance())
}

func BenchmarkGaussianSample(b *testing.B) {
	g, _ := NewGaussian(0, 1, NewSource(1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = g.Sample()
	}
}
