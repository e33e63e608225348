// Package activation implements the activation functions of the
// single-layer networks.
package activation

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Step is the unit step with threshold 0: +1 for x >= 0, otherwise -1.
func Step(x float64) int {
	if x >= 0 {
		return 1
	}
	return -1
}

// Softmax maps x to a probability distribution. The maximum is subtracted
// before exponentiating so large inputs do not overflow. If x contains
// +Inf or NaN every entry of the result is NaN.
func Softmax(x []float64) []float64 {
	return SoftmaxN(x, len(x))
}

// SoftmaxN applies Softmax to the first n entries of x. x is never
// modified; the result is a fresh slice.
func SoftmaxN(x []float64, n int) []float64 {
	y := make([]float64, n)
	if n == 0 {
		return y
	}
	copy(y, x[:n])

	floats.AddConst(-floats.Max(y), y)
	for i := range y {
		y[i] = math.Exp(y[i])
	}
	floats.Scale(1/floats.Sum(y), y)
	return y
}

// Argmax returns the index of the largest entry. Ties go to the first
// occurrence. It returns -1 for an empty slice or one that holds only NaN.
func Argmax(x []float64) int {
	idx := -1
	best := math.Inf(-1)
	for i, v := range x {
		if v > best {
			best = v
			idx = i
		}
	}
	return idx
}
