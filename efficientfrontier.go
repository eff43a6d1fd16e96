package efficientfrontier

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Options configures an Optimizer. The zero value solves long-only
// portfolios with default bounds from a single starting point.
//
// Slices held by Options are treated as read-only.
type Options struct {
	// AllowShort permits negative weights: the default per-security bounds
	// widen from [0, 1] to [-1, 1]. Ignored when Bounds is set.
	AllowShort bool

	// Bounds overrides the default per-security bounds. When set it must
	// hold one [lower, upper] pair per security.
	Bounds [][2]float64

	// Groups bounds the combined weight of groups of securities.
	Groups []GroupConstraint

	// Restarts is the number of deterministic starting points to solve
	// from; the best converged solution by objective value wins. Values
	// below 1 mean 1. Extra restarts help non-convex objectives such as
	// the Sharpe ratio.
	Restarts int

	// MaxIterations caps the major iterations of each solver attempt.
	// Zero leaves termination to the solver's own convergence checks.
	MaxIterations int
}

// Optimizer computes portfolio allocations under a common set of options.
// It holds no per-solve state and is safe for concurrent use.
type Optimizer struct {
	opts Options
	log  zerolog.Logger
}

// NewOptimizer creates an optimizer with the given options. Pass
// zerolog.Nop() to discard diagnostics.
func NewOptimizer(opts Options, log zerolog.Logger) *Optimizer {
	return &Optimizer{
		opts: opts,
		log:  log.With().Str("component", "efficient_frontier").Logger(),
	}
}

// MinRisk finds the weights minimizing the portfolio variance w'Σw subject
// to Σw = 1 and the configured bounds. expectedReturns sizes the problem and
// is otherwise unused by the variance objective. The problem is convex, so
// the solution is the global minimum regardless of starting point.
func (o *Optimizer) MinRisk(expectedReturns []float64, covariance [][]float64) ([]float64, error) {
	if err := validateInputs(expectedReturns, covariance); err != nil {
		return nil, err
	}

	objective, gradient := varianceObjective(toDense(covariance))

	o.log.Debug().
		Int("num_securities", len(expectedReturns)).
		Msg("Solving minimum-risk portfolio")

	weights, err := o.minimize(objective, gradient, len(expectedReturns))
	if err != nil {
		return nil, fmt.Errorf("minimum-risk optimization failed: %w", err)
	}
	return weights, nil
}

// MaxSharpe finds the weights maximizing the risk-adjusted return
// μ'w / (w'Σw) subject to Σw = 1 and the configured bounds. The ratio
// carries the portfolio variance in the denominator; for portfolios with
// numerically zero variance the denominator is floored, so candidates are
// ranked by return alone rather than faulting. The ratio is not convex:
// the result is a local optimum, and Options.Restarts widens the search.
func (o *Optimizer) MaxSharpe(expectedReturns []float64, covariance [][]float64) ([]float64, error) {
	if err := validateInputs(expectedReturns, covariance); err != nil {
		return nil, err
	}

	objective, gradient := sharpeObjective(expectedReturns, toDense(covariance))

	o.log.Debug().
		Int("num_securities", len(expectedReturns)).
		Msg("Solving maximum-Sharpe portfolio")

	weights, err := o.minimize(objective, gradient, len(expectedReturns))
	if err != nil {
		return nil, fmt.Errorf("maximum-Sharpe optimization failed: %w", err)
	}
	return weights, nil
}

// MinRisk finds the minimum-variance weights for the given expected returns
// and covariance matrix with default options: long-only, bounds [0, 1], no
// diagnostics. See Optimizer.MinRisk.
func MinRisk(expectedReturns []float64, covariance [][]float64) ([]float64, error) {
	return defaultOptimizer().MinRisk(expectedReturns, covariance)
}

// MaxSharpe finds the maximum-Sharpe weights for the given expected returns
// and covariance matrix with default options: long-only, bounds [0, 1], no
// diagnostics. See Optimizer.MaxSharpe.
func MaxSharpe(expectedReturns []float64, covariance [][]float64) ([]float64, error) {
	return defaultOptimizer().MaxSharpe(expectedReturns, covariance)
}

func defaultOptimizer() *Optimizer {
	return NewOptimizer(Options{}, zerolog.Nop())
}
