package errors

import (
	"math"
)

// CheckNumericalStability returns a NumericalInstabilityError if any value is NaN or Inf.
func CheckNumericalStability(operation string, values []float64, iteration int) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewNumericalInstabilityError(operation, values, iteration)
		}
	}
	return nil
}

// CheckMatrix checks all values in a matrix for NaN or Inf.
// At most ten offending values are collected for the error message.
func CheckMatrix(operation string, matrix interface {
	At(int, int) float64
	Dims() (int, int)
}, iteration int) error {
	rows, cols := matrix.Dims()
	var unstable []float64

	for i := 0; i < rows && len(unstable) < 10; i++ {
		for j := 0; j < cols && len(unstable) < 10; j++ {
			v := matrix.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				unstable = append(unstable, v)
			}
		}
	}

	if len(unstable) > 0 {
		return NewNumericalInstabilityError(operation, unstable, iteration)
	}
	return nil
}
