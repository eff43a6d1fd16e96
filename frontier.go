package efficientfrontier

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/OlleLindgren/ise-lib-efficient-frontier/pkg/formulas"
)

// DefaultFrontierPoints is the number of frontier samples when the caller
// does not choose one.
const DefaultFrontierPoints = 20

// FrontierPoint is one sampled portfolio on the efficient frontier.
type FrontierPoint struct {
	// Return is the expected portfolio return μ'w.
	Return float64
	// Risk is the portfolio volatility sqrt(w'Σw).
	Risk float64
	// Weights is the allocation behind the point.
	Weights []float64
}

// EfficientReturn finds the minimum-variance weights whose expected return
// meets targetReturn. The target is enforced with a quadratic penalty
// alongside the budget constraint. Under the default long-only bounds a
// target outside [min(μ), max(μ)] is unattainable and rejected up front;
// targets the solver cannot reach within constraintTolerance under custom
// bounds, shorting, or group constraints surface ErrNotConverged after the
// solve instead of a compromised portfolio.
func (o *Optimizer) EfficientReturn(expectedReturns []float64, covariance [][]float64, targetReturn float64) ([]float64, error) {
	if err := validateInputs(expectedReturns, covariance); err != nil {
		return nil, err
	}
	if math.IsNaN(targetReturn) || math.IsInf(targetReturn, 0) {
		return nil, fmt.Errorf("%w: target return is %v", ErrInvalidInput, targetReturn)
	}
	if len(o.opts.Bounds) == 0 && !o.opts.AllowShort {
		lo, hi := floats.Min(expectedReturns), floats.Max(expectedReturns)
		if targetReturn < lo || targetReturn > hi {
			return nil, fmt.Errorf("%w: target return %v outside attainable range [%v, %v]", ErrInvalidInput, targetReturn, lo, hi)
		}
	}

	n := len(expectedReturns)
	variance, varianceGrad := varianceObjective(toDense(covariance))

	objective := func(w []float64) float64 {
		miss := portfolioReturn(w, expectedReturns) - targetReturn
		return variance(w) + constraintPenalty*miss*miss
	}
	gradient := func(grad, w []float64) {
		varianceGrad(grad, w)
		miss := portfolioReturn(w, expectedReturns) - targetReturn
		for i := range grad {
			grad[i] += 2 * constraintPenalty * miss * expectedReturns[i]
		}
	}

	o.log.Debug().
		Int("num_securities", n).
		Float64("target_return", targetReturn).
		Msg("Solving efficient-return portfolio")

	weights, err := o.minimize(objective, gradient, n)
	if err != nil {
		return nil, fmt.Errorf("efficient-return optimization failed: %w", err)
	}
	if achieved := portfolioReturn(weights, expectedReturns); math.Abs(achieved-targetReturn) > constraintTolerance {
		return nil, fmt.Errorf("efficient-return optimization failed: %w: achieved return %v misses target %v", ErrNotConverged, achieved, targetReturn)
	}
	return weights, nil
}

// EfficientRisk finds the maximum-return weights whose volatility stays at
// targetVolatility. The variance target is enforced with a quadratic
// penalty alongside the budget constraint. Volatility targets the solver
// cannot reach within constraintTolerance, above or below the attainable
// range, surface ErrNotConverged after the solve.
func (o *Optimizer) EfficientRisk(expectedReturns []float64, covariance [][]float64, targetVolatility float64) ([]float64, error) {
	if err := validateInputs(expectedReturns, covariance); err != nil {
		return nil, err
	}
	if math.IsNaN(targetVolatility) || math.IsInf(targetVolatility, 0) || targetVolatility <= 0 {
		return nil, fmt.Errorf("%w: target volatility %v must be positive", ErrInvalidInput, targetVolatility)
	}

	n := len(expectedReturns)
	variance, varianceGrad := varianceObjective(toDense(covariance))
	targetVariance := targetVolatility * targetVolatility

	objective := func(w []float64) float64 {
		miss := variance(w) - targetVariance
		return -portfolioReturn(w, expectedReturns) + constraintPenalty*miss*miss
	}
	gradient := func(grad, w []float64) {
		varianceGrad(grad, w)
		miss := variance(w) - targetVariance
		for i := range grad {
			// grad currently holds dVariance_i = 2(Σw)_i.
			grad[i] = -expectedReturns[i] + 2*constraintPenalty*miss*grad[i]
		}
	}

	o.log.Debug().
		Int("num_securities", n).
		Float64("target_volatility", targetVolatility).
		Msg("Solving efficient-risk portfolio")

	weights, err := o.minimize(objective, gradient, n)
	if err != nil {
		return nil, fmt.Errorf("efficient-risk optimization failed: %w", err)
	}
	if achieved := math.Sqrt(math.Max(variance(weights), 0)); math.Abs(achieved-targetVolatility) > constraintTolerance {
		return nil, fmt.Errorf("efficient-risk optimization failed: %w: achieved volatility %v misses target %v", ErrNotConverged, achieved, targetVolatility)
	}
	return weights, nil
}

// Frontier samples the efficient frontier between the minimum-variance
// return and the highest single-security expected return. points <= 0
// selects DefaultFrontierPoints. Targets whose solve fails are skipped, so
// the result may hold fewer points; the minimum-variance portfolio is
// always the first.
func (o *Optimizer) Frontier(expectedReturns []float64, covariance [][]float64, points int) ([]FrontierPoint, error) {
	if err := validateInputs(expectedReturns, covariance); err != nil {
		return nil, err
	}
	if points <= 0 {
		points = DefaultFrontierPoints
	}

	minRiskWeights, err := o.MinRisk(expectedReturns, covariance)
	if err != nil {
		return nil, err
	}
	low := formulas.PortfolioReturn(minRiskWeights, expectedReturns)
	high := floats.Max(expectedReturns)

	frontier := make([]FrontierPoint, 0, points)
	appendPoint := func(w []float64) {
		frontier = append(frontier, FrontierPoint{
			Return:  formulas.PortfolioReturn(w, expectedReturns),
			Risk:    formulas.PortfolioVolatility(w, covariance),
			Weights: w,
		})
	}
	appendPoint(minRiskWeights)

	for k := 1; k < points; k++ {
		target := low + (high-low)*float64(k)/float64(points-1)
		if k == points-1 {
			target = high
		}
		w, err := o.EfficientReturn(expectedReturns, covariance, target)
		if err != nil {
			o.log.Warn().
				Err(err).
				Float64("target_return", target).
				Msg("Skipping frontier point")
			continue
		}
		appendPoint(w)
	}

	o.log.Debug().
		Int("points", len(frontier)).
		Float64("min_return", low).
		Float64("max_return", high).
		Msg("Sampled efficient frontier")

	return frontier, nil
}

// portfolioReturn calculates μ'w without the length guards of the formulas
// package; the solver guarantees agreeing lengths.
func portfolioReturn(w, mu []float64) float64 {
	var ret float64
	for i, wi := range w {
		ret += mu[i] * wi
	}
	return ret
}
