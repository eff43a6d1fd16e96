package efficientfrontier

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultWeightCutoff is the allocation magnitude below which CleanWeights
// drops a security (0.1%).
const DefaultWeightCutoff = 0.001

// finishWeights projects a solver iterate to the bounds and renormalizes it
// so the weights sum to exactly 1. A second projection pass keeps any bound
// overshoot introduced by the scaling within the solver tolerance.
func finishWeights(x []float64, bounds [][2]float64) ([]float64, error) {
	w := projectToBounds(x, bounds)
	for _, v := range w {
		if math.IsNaN(v) {
			return nil, fmt.Errorf("%w: solver produced NaN weights", ErrNotConverged)
		}
	}

	for pass := 0; pass < 2; pass++ {
		sum := floats.Sum(w)
		if math.Abs(sum) < sumFloor {
			return nil, fmt.Errorf("%w: weights sum to %v and cannot be normalized", ErrNotConverged, sum)
		}
		floats.Scale(1.0/sum, w)
		if pass == 0 {
			w = projectToBounds(w, bounds)
		}
	}
	return w, nil
}

// CleanWeights zeroes allocations smaller in magnitude than cutoff and
// renormalizes the rest so they sum to 1 again. A cutoff <= 0 selects
// DefaultWeightCutoff. If every weight falls below the cutoff, a copy of the
// input is returned unchanged.
func CleanWeights(weights []float64, cutoff float64) []float64 {
	if cutoff <= 0 {
		cutoff = DefaultWeightCutoff
	}

	cleaned := make([]float64, len(weights))
	var sum float64
	for i, w := range weights {
		if math.Abs(w) >= cutoff {
			cleaned[i] = w
			sum += w
		}
	}
	if math.Abs(sum) < sumFloor {
		return append([]float64(nil), weights...)
	}

	floats.Scale(1.0/sum, cleaned)
	return cleaned
}
