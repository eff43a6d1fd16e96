package efficientfrontier

import (
	"fmt"
	"math"
)

// Default per-security weight bounds.
const (
	DefaultLowerBound      = 0.0
	DefaultUpperBound      = 1.0
	ShortSellingLowerBound = -1.0
)

// GroupConstraint bounds the combined weight of a group of securities,
// identified by their indices into the weight vector.
type GroupConstraint struct {
	// Assets holds indices into the weight vector.
	Assets []int
	// Lower and Upper bound the summed weight of the group.
	Lower float64
	Upper float64
}

// weightBounds returns the per-security bounds for n securities: the
// configured Options.Bounds when set, otherwise [0, 1], widened to [-1, 1]
// when short selling is allowed.
func (o *Optimizer) weightBounds(n int) ([][2]float64, error) {
	if len(o.opts.Bounds) > 0 {
		if len(o.opts.Bounds) != n {
			return nil, fmt.Errorf("%w: %d bounds for %d securities", ErrDimensionMismatch, len(o.opts.Bounds), n)
		}
		for i, b := range o.opts.Bounds {
			if math.IsNaN(b[0]) || math.IsNaN(b[1]) {
				return nil, fmt.Errorf("%w: bounds for security %d contain NaN", ErrInvalidInput, i)
			}
			if b[0] > b[1] {
				return nil, fmt.Errorf("%w: security %d has lower bound %v > upper bound %v", ErrInvalidInput, i, b[0], b[1])
			}
		}
		bounds := make([][2]float64, n)
		copy(bounds, o.opts.Bounds)
		return bounds, nil
	}

	lower := DefaultLowerBound
	if o.opts.AllowShort {
		lower = ShortSellingLowerBound
	}
	bounds := make([][2]float64, n)
	for i := range bounds {
		bounds[i] = [2]float64{lower, DefaultUpperBound}
	}
	return bounds, nil
}

// validateGroups checks the configured group constraints against the
// security count.
func (o *Optimizer) validateGroups(n int) error {
	for gi, g := range o.opts.Groups {
		if len(g.Assets) == 0 {
			return fmt.Errorf("%w: group %d has no assets", ErrInvalidInput, gi)
		}
		if math.IsNaN(g.Lower) || math.IsNaN(g.Upper) {
			return fmt.Errorf("%w: group %d bounds contain NaN", ErrInvalidInput, gi)
		}
		if g.Lower > g.Upper {
			return fmt.Errorf("%w: group %d has lower bound %v > upper bound %v", ErrInvalidInput, gi, g.Lower, g.Upper)
		}
		for _, idx := range g.Assets {
			if idx < 0 || idx >= n {
				return fmt.Errorf("%w: group %d references security %d, have %d", ErrInvalidInput, gi, idx, n)
			}
		}
	}
	return nil
}

// verifyConstraints checks a finished weight vector against the bounds and
// group constraints the penalties were meant to enforce. The penalty method
// and the final renormalization leave a small slack; anything beyond
// constraintTolerance means the constraints and the budget Σw = 1 could not
// be satisfied together.
func verifyConstraints(w []float64, bounds [][2]float64, groups []GroupConstraint) error {
	for i, v := range w {
		if v < bounds[i][0]-constraintTolerance || v > bounds[i][1]+constraintTolerance {
			return fmt.Errorf("%w: weight %v for security %d violates bounds [%v, %v]", ErrNotConverged, v, i, bounds[i][0], bounds[i][1])
		}
	}
	for gi, g := range groups {
		weight := 0.0
		for _, idx := range g.Assets {
			weight += w[idx]
		}
		if weight < g.Lower-constraintTolerance || weight > g.Upper+constraintTolerance {
			return fmt.Errorf("%w: group %d weight %v violates bounds [%v, %v]", ErrNotConverged, gi, weight, g.Lower, g.Upper)
		}
	}
	return nil
}

// groupPenalty calculates the quadratic penalty for group constraint
// violations.
func groupPenalty(x []float64, groups []GroupConstraint, penaltyWeight float64) float64 {
	if len(groups) == 0 {
		return 0
	}

	var penalty float64
	for _, g := range groups {
		weight := 0.0
		for _, idx := range g.Assets {
			weight += x[idx]
		}
		if weight < g.Lower {
			penalty += penaltyWeight * (g.Lower - weight) * (g.Lower - weight)
		}
		if weight > g.Upper {
			penalty += penaltyWeight * (weight - g.Upper) * (weight - g.Upper)
		}
	}
	return penalty
}

// addGroupPenaltyGradient adds the gradient of the group constraint penalty.
func addGroupPenaltyGradient(grad, x []float64, groups []GroupConstraint, penaltyWeight float64) {
	if len(groups) == 0 {
		return
	}

	for _, g := range groups {
		weight := 0.0
		for _, idx := range g.Assets {
			weight += x[idx]
		}
		if weight < g.Lower {
			d := 2 * penaltyWeight * (g.Lower - weight)
			for _, idx := range g.Assets {
				grad[idx] -= d
			}
		}
		if weight > g.Upper {
			d := 2 * penaltyWeight * (weight - g.Upper)
			for _, idx := range g.Assets {
				grad[idx] += d
			}
		}
	}
}
