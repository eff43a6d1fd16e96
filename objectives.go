package efficientfrontier

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// varianceFloor keeps ratio objectives finite while the solver explores
// portfolios with numerically zero variance. Such portfolios are ranked by
// return alone instead of faulting.
const varianceFloor = 1e-10

// toDense converts a row-major covariance matrix to a gonum dense matrix.
func toDense(covariance [][]float64) *mat.Dense {
	n := len(covariance)
	sigma := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sigma.Set(i, j, covariance[i][j])
		}
	}
	return sigma
}

// varianceObjective builds the minimum-variance objective w'Σw and its
// gradient 2Σw.
func varianceObjective(sigma *mat.Dense) (ObjectiveFunc, GradientFunc) {
	n, _ := sigma.Dims()

	objective := func(w []float64) float64 {
		var variance float64
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				variance += w[i] * w[j] * sigma.At(i, j)
			}
		}
		return variance
	}
	gradient := func(grad, w []float64) {
		for i := 0; i < n; i++ {
			grad[i] = 0
			for j := 0; j < n; j++ {
				grad[i] += 2 * sigma.At(i, j) * w[j]
			}
		}
	}
	return objective, gradient
}

// sharpeObjective builds the maximum-Sharpe objective -(μ'w) / (w'Σw) and
// its gradient. The ratio carries the portfolio variance, not the standard
// deviation, in the denominator; minimizing its negation ranks the best
// risk-adjusted portfolio lowest. The denominator is floored at
// varianceFloor.
func sharpeObjective(mu []float64, sigma *mat.Dense) (ObjectiveFunc, GradientFunc) {
	n := len(mu)

	objective := func(w []float64) float64 {
		var ret, variance float64
		for i := 0; i < n; i++ {
			ret += mu[i] * w[i]
			for j := 0; j < n; j++ {
				variance += w[i] * w[j] * sigma.At(i, j)
			}
		}
		variance = math.Max(variance, varianceFloor)
		return -ret / variance
	}
	gradient := func(grad, w []float64) {
		var ret, variance float64
		for i := 0; i < n; i++ {
			ret += mu[i] * w[i]
			for j := 0; j < n; j++ {
				variance += w[i] * w[j] * sigma.At(i, j)
			}
		}
		variance = math.Max(variance, varianceFloor)
		for i := 0; i < n; i++ {
			var dVariance float64
			for j := 0; j < n; j++ {
				dVariance += 2 * sigma.At(i, j) * w[j]
			}
			grad[i] = -mu[i]/variance + ret*dVariance/(variance*variance)
		}
	}
	return objective, gradient
}
