// Package random provides the pseudo-random samplers used to generate
// synthetic training data.
package random

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/YuminosukeSato/singlelayer/pkg/errors"
)

// Source is a uniform generator on [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a deterministic PCG generator for seed.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

// newEntropySource is used when the caller does not provide a source.
func newEntropySource() *rand.Rand {
	now := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(now, now^0xdeadbeef))
}

// Gaussian draws from N(mean, variance) with a Box-Muller transform.
type Gaussian struct {
	mean     float64
	variance float64
	stdDev   float64
	src      Source
}

// NewGaussian creates a sampler. A nil src means an unseeded generator.
// Negative variance is rejected with a ValidationError.
func NewGaussian(mean, variance float64, src Source) (*Gaussian, error) {
	if variance < 0 || math.IsNaN(variance) {
		return nil, errors.NewValidationError("variance", "must be non-negative", variance)
	}
	if src == nil {
		src = newEntropySource()
	}
	return &Gaussian{
		mean:     mean,
		variance: variance,
		stdDev:   math.Sqrt(variance),
		src:      src,
	}, nil
}

// Sample returns a fresh draw.
//
// The radius uses u1 in (0, 1); an exact 0 is redrawn so the logarithm stays
// finite. A coin flip then picks the sine or cosine branch, each with its own
// angle draw.
func (g *Gaussian) Sample() float64 {
	u1 := 0.0
	for u1 == 0 {
		u1 = g.src.Float64()
	}
	c := math.Sqrt(-2 * math.Log(u1))

	if g.src.Float64() < 0.5 {
		return c*math.Sin(2*math.Pi*g.src.Float64())*g.stdDev + g.mean
	}
	return c*math.Cos(2*math.Pi*g.src.Float64())*g.stdDev + g.mean
}

// Mean returns the distribution mean.
func (g *Gaussian) Mean() float64 { return g.mean }

// Variance returns the distribution variance.
func (g *Gaussian) Variance() float64 { return g.variance }
