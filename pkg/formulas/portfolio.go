// Package formulas provides the pure portfolio arithmetic behind the
// optimizers: returns, variances, ratios, and covariance-derived weights.
// All functions are allocation-light and side-effect free.
package formulas

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// PortfolioReturn calculates the expected portfolio return.
//
// Formula: μ'w
func PortfolioReturn(weights, expectedReturns []float64) float64 {
	if len(weights) == 0 || len(weights) != len(expectedReturns) {
		return 0
	}
	return floats.Dot(weights, expectedReturns)
}

// PortfolioVariance calculates the portfolio variance.
//
// Formula: w'Σw
func PortfolioVariance(weights []float64, covariance [][]float64) float64 {
	n := len(weights)
	if n == 0 || len(covariance) != n {
		return 0
	}

	var variance float64
	for i := 0; i < n; i++ {
		if len(covariance[i]) != n {
			return 0
		}
		for j := 0; j < n; j++ {
			variance += weights[i] * weights[j] * covariance[i][j]
		}
	}
	return variance
}

// PortfolioVolatility calculates the portfolio standard deviation
// sqrt(w'Σw). Negative variances from non-PSD inputs are treated as zero.
func PortfolioVolatility(weights []float64, covariance [][]float64) float64 {
	return math.Sqrt(math.Max(PortfolioVariance(weights, covariance), 0))
}

// SharpeRatio calculates the classic risk-adjusted return
// (return - riskFree) / volatility. Zero or negative volatility yields 0.
func SharpeRatio(portfolioReturn, volatility, riskFree float64) float64 {
	if volatility <= 0 {
		return 0
	}
	return (portfolioReturn - riskFree) / volatility
}

// ReturnVarianceRatio calculates μ'w / w'Σw, the ratio the maximum-Sharpe
// objective maximizes. Zero or negative variance yields 0.
func ReturnVarianceRatio(weights, expectedReturns []float64, covariance [][]float64) float64 {
	variance := PortfolioVariance(weights, covariance)
	if variance <= 0 {
		return 0
	}
	return PortfolioReturn(weights, expectedReturns) / variance
}

// EqualWeights returns the uniform allocation 1/n.
func EqualWeights(n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1.0 / float64(n)
	}
	return weights
}
