package efficientfrontier

import (
	"fmt"
	"math"
)

// validateInputs checks expected returns and the covariance matrix for
// agreeing dimensions and finite values.
func validateInputs(expectedReturns []float64, covariance [][]float64) error {
	n := len(expectedReturns)
	if n == 0 {
		return fmt.Errorf("%w: no securities", ErrInvalidInput)
	}
	for i, r := range expectedReturns {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return fmt.Errorf("%w: expected return for security %d is %v", ErrInvalidInput, i, r)
		}
	}
	return validateCovariance(covariance, n)
}

// validateCovariance checks that covariance is a finite n×n matrix. Symmetry
// is not checked: the quadratic form w'Σw symmetrizes implicitly.
func validateCovariance(covariance [][]float64, n int) error {
	if len(covariance) != n {
		return fmt.Errorf("%w: covariance matrix has %d rows for %d securities", ErrDimensionMismatch, len(covariance), n)
	}
	for i, row := range covariance {
		if len(row) != n {
			return fmt.Errorf("%w: covariance matrix row %d has %d columns, expected %d", ErrDimensionMismatch, i, len(row), n)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: covariance entry (%d,%d) is %v", ErrInvalidInput, i, j, v)
			}
		}
	}
	return nil
}
