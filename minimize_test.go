package efficientfrontier

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinimize_TargetAllocation(t *testing.T) {
	target := []float64{0.2, 0.3, 0.5}
	objective := func(w []float64) float64 {
		var dist float64
		for i := range w {
			d := w[i] - target[i]
			dist += d * d
		}
		return dist
	}

	optimizer := NewOptimizer(Options{}, zerolog.Nop())
	weights, err := optimizer.Minimize(objective, 3)

	require.NoError(t, err)
	assertValidWeights(t, weights, 3)

	// The target is feasible, so the solver should land on it.
	for i := range target {
		assert.InDelta(t, target[i], weights[i], 1e-3)
	}
}

func TestMinimizeWithGradient_TargetAllocation(t *testing.T) {
	target := []float64{0.2, 0.3, 0.5}
	objective := func(w []float64) float64 {
		var dist float64
		for i := range w {
			d := w[i] - target[i]
			dist += d * d
		}
		return dist
	}
	gradient := func(grad, w []float64) {
		for i := range w {
			grad[i] = 2 * (w[i] - target[i])
		}
	}

	optimizer := NewOptimizer(Options{}, zerolog.Nop())
	weights, err := optimizer.MinimizeWithGradient(objective, gradient, 3)

	require.NoError(t, err)
	assertValidWeights(t, weights, 3)

	for i := range target {
		assert.InDelta(t, target[i], weights[i], 1e-4)
	}
}

func TestMinimize_LinearObjectiveHitsBound(t *testing.T) {
	// Rewarding the first weight drives it to its upper bound while the
	// budget constraint zeroes the other.
	objective := func(w []float64) float64 {
		return -w[0]
	}

	optimizer := NewOptimizer(Options{}, zerolog.Nop())
	weights, err := optimizer.Minimize(objective, 2)

	require.NoError(t, err)
	assertValidWeights(t, weights, 2)

	assert.InDelta(t, 1.0, weights[0], 1e-3)
	assert.InDelta(t, 0.0, weights[1], 1e-3)
	for _, w := range weights {
		assert.GreaterOrEqual(t, w, 0.0, "weights should be non-negative")
		assert.LessOrEqual(t, w, 1.0, "weights should be <= 1")
	}
}

func TestMinimize_InfeasibleBounds(t *testing.T) {
	// Lower bounds summing past the budget leave no feasible portfolio;
	// renormalizing the best iterate would push weights below their lower
	// bounds. That must surface as an error, not as bound-violating
	// weights.
	objective := func(w []float64) float64 {
		d := w[0] - 0.7
		return d * d
	}

	optimizer := NewOptimizer(Options{
		Bounds: [][2]float64{{0.6, 1.0}, {0.6, 1.0}},
	}, zerolog.Nop())
	weights, err := optimizer.Minimize(objective, 2)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConverged)
	assert.Nil(t, weights)
}

func TestMinimize_ObjectiveNaNAtSolution(t *testing.T) {
	// The objective is well defined everywhere the bounds keep the solver,
	// but not at the renormalized solution the infeasible bounds force.
	// The solve must report failure rather than return nil weights with a
	// nil error.
	objective := func(w []float64) float64 {
		if w[0] < 0.55 {
			return math.NaN()
		}
		d := w[0] - 0.6
		return d * d
	}

	optimizer := NewOptimizer(Options{
		Bounds: [][2]float64{{0.6, 1.0}, {0.6, 1.0}},
	}, zerolog.Nop())
	weights, err := optimizer.Minimize(objective, 2)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConverged)
	assert.Nil(t, weights)
}

func TestMinimize_InvalidArguments(t *testing.T) {
	optimizer := NewOptimizer(Options{}, zerolog.Nop())

	t.Run("no securities", func(t *testing.T) {
		_, err := optimizer.Minimize(func(w []float64) float64 { return 0 }, 0)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("nil objective", func(t *testing.T) {
		_, err := optimizer.Minimize(nil, 2)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestMinimize_IterationLimit(t *testing.T) {
	target := []float64{0.9, 0.05, 0.05}
	objective := func(w []float64) float64 {
		var dist float64
		for i := range w {
			d := w[i] - target[i]
			dist += d * d
		}
		return dist
	}

	optimizer := NewOptimizer(Options{MaxIterations: 1}, zerolog.Nop())
	weights, err := optimizer.Minimize(objective, 3)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConverged)
	assert.Nil(t, weights)
}
