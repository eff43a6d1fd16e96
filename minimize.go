package efficientfrontier

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// ObjectiveFunc scores a candidate weight vector. Lower is better; the
// solver minimizes it.
type ObjectiveFunc func(weights []float64) float64

// GradientFunc writes the gradient of an objective at weights into grad.
// It must fill every element; len(grad) == len(weights).
type GradientFunc func(grad, weights []float64)

const (
	// constraintPenalty scales the quadratic penalties that enforce the
	// budget constraint Σw = 1, target constraints, and group constraints.
	constraintPenalty = 1000.0

	// constraintTolerance is the slack a finished solution may carry on
	// penalty-enforced constraints. Candidates further out are rejected as
	// not converged instead of being returned as valid results.
	constraintTolerance = 1e-2

	// sumFloor is the smallest weight sum magnitude that can be
	// renormalized to 1.
	sumFloor = 1e-10
)

// convergedStatuses are the solver statuses accepted as a solved problem.
var convergedStatuses = map[optimize.Status]bool{
	optimize.Success:             true,
	optimize.GradientThreshold:   true,
	optimize.FunctionConvergence: true,
}

// Minimize solves min f(w) subject to Σw = 1 and the configured bounds for
// n securities, using a derivative-free method. The objective is treated as
// opaque; use MinimizeWithGradient when an analytic gradient is available.
func (o *Optimizer) Minimize(objective ObjectiveFunc, n int) ([]float64, error) {
	return o.minimize(objective, nil, n)
}

// MinimizeWithGradient is Minimize with an analytic gradient, solved with a
// quasi-Newton method first.
func (o *Optimizer) MinimizeWithGradient(objective ObjectiveFunc, gradient GradientFunc, n int) ([]float64, error) {
	return o.minimize(objective, gradient, n)
}

// minimize runs the penalty-method solve: bounds are enforced by projecting
// candidates inside the objective, the budget and group constraints by
// quadratic penalties, and the final iterate is projected and renormalized
// so the weights sum to exactly 1. A candidate whose renormalized weights
// still sit outside the bounds or group limits by more than
// constraintTolerance is rejected rather than returned as a solution.
func (o *Optimizer) minimize(objective ObjectiveFunc, gradient GradientFunc, n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: no securities", ErrInvalidInput)
	}
	if objective == nil {
		return nil, fmt.Errorf("%w: nil objective", ErrInvalidInput)
	}
	bounds, err := o.weightBounds(n)
	if err != nil {
		return nil, err
	}
	if err := o.validateGroups(n); err != nil {
		return nil, err
	}

	problem := o.penalized(objective, gradient, bounds)

	restarts := o.opts.Restarts
	if restarts < 1 {
		restarts = 1
	}

	var (
		best    []float64
		bestVal = math.Inf(1)
		lastErr error
	)
	for k := 0; k < restarts; k++ {
		x, err := o.search(problem, startingPoint(n, k))
		if err != nil {
			lastErr = err
			continue
		}
		w, err := finishWeights(x, bounds)
		if err != nil {
			lastErr = err
			continue
		}
		val := objective(w)
		if math.IsNaN(val) || math.IsInf(val, 0) {
			lastErr = fmt.Errorf("%w: objective is not finite at a solution", ErrNotConverged)
			continue
		}
		if err := verifyConstraints(w, bounds, o.opts.Groups); err != nil {
			lastErr = err
			continue
		}
		if val < bestVal {
			best, bestVal = w, val
		}
	}
	if best == nil {
		if lastErr == nil {
			lastErr = fmt.Errorf("%w: no restart produced a usable solution", ErrNotConverged)
		}
		return nil, lastErr
	}

	o.log.Debug().
		Int("num_securities", n).
		Int("restarts", restarts).
		Float64("objective", bestVal).
		Msg("Optimization converged")

	return best, nil
}

// penalized wraps an objective with bound projection and the quadratic
// constraint penalties.
func (o *Optimizer) penalized(objective ObjectiveFunc, gradient GradientFunc, bounds [][2]float64) optimize.Problem {
	groups := o.opts.Groups

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			xProj := projectToBounds(x, bounds)

			obj := objective(xProj)

			sum := floats.Sum(xProj)
			obj += constraintPenalty * (sum - 1.0) * (sum - 1.0)
			obj += groupPenalty(xProj, groups, constraintPenalty)

			return obj
		},
	}
	if gradient != nil {
		problem.Grad = func(grad, x []float64) {
			xProj := projectToBounds(x, bounds)

			gradient(grad, xProj)

			sum := floats.Sum(xProj)
			for i := range grad {
				grad[i] += 2 * constraintPenalty * (sum - 1.0)
			}
			addGroupPenaltyGradient(grad, xProj, groups, constraintPenalty)
		}
	}
	return problem
}

// search runs the solver cascade from one starting point. With a gradient
// the quasi-Newton method goes first; the simplex method is the fallback for
// iterates pinned to a bound, where the projection leaves the reported
// gradient inconsistent with the objective.
func (o *Optimizer) search(problem optimize.Problem, x0 []float64) ([]float64, error) {
	methods := []optimize.Method{&optimize.NelderMead{}}
	if problem.Grad != nil {
		methods = []optimize.Method{&optimize.BFGS{}, &optimize.NelderMead{}}
	}

	settings := &optimize.Settings{}
	if o.opts.MaxIterations > 0 {
		settings.MajorIterations = o.opts.MaxIterations
	}

	lastStatus := optimize.NotTerminated
	var lastErr error
	for _, method := range methods {
		initial := append([]float64(nil), x0...)
		result, err := optimize.Minimize(problem, initial, settings, method)
		if err != nil {
			lastErr = err
			continue
		}
		if convergedStatuses[result.Status] {
			return result.X, nil
		}
		lastStatus = result.Status
	}

	if lastStatus != optimize.NotTerminated {
		return nil, fmt.Errorf("%w: status=%v", ErrNotConverged, lastStatus)
	}
	return nil, fmt.Errorf("%w: %v", ErrNotConverged, lastErr)
}

// startingPoint returns the k-th deterministic starting point: the uniform
// portfolio for k = 0, then interior points tilted toward one security in
// turn.
func startingPoint(n, k int) []float64 {
	x := make([]float64, n)
	if k == 0 || n == 1 {
		for i := range x {
			x[i] = 1.0 / float64(n)
		}
		return x
	}

	base := 1.0 / float64(2*n)
	for i := range x {
		x[i] = base
	}
	x[(k-1)%n] += 0.5
	return x
}

// projectToBounds clamps each weight to its bounds.
func projectToBounds(x []float64, bounds [][2]float64) []float64 {
	proj := make([]float64, len(x))
	for i := range x {
		proj[i] = math.Max(bounds[i][0], math.Min(bounds[i][1], x[i]))
	}
	return proj
}
