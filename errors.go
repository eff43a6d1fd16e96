package efficientfrontier

import "errors"

// Sentinel errors returned by the optimization entry points. Returned errors
// wrap these with detail; test for them with errors.Is.
var (
	// ErrInvalidInput reports unusable inputs: no securities, non-finite
	// values, reversed bounds, malformed groups, or unattainable targets.
	ErrInvalidInput = errors.New("efficientfrontier: invalid input")

	// ErrDimensionMismatch reports a covariance matrix or bounds slice whose
	// dimensions do not agree with the number of securities.
	ErrDimensionMismatch = errors.New("efficientfrontier: dimension mismatch")

	// ErrNotConverged reports that no solver attempt reached an accepted
	// convergence status. No partial result is returned alongside it.
	ErrNotConverged = errors.New("efficientfrontier: optimization did not converge")
)
