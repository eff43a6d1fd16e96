package formulas

import "math"

// CorrelationFromCovariance converts a covariance matrix to the
// corresponding correlation matrix.
//
// Formula: corr(i,j) = cov(i,j) / sqrt(cov(i,i) * cov(j,j))
//
// Off-diagonal values are clamped to [-1, 1]. Rows whose diagonal variance
// is zero or negative correlate 0 with everything; the diagonal is always 1.
// A non-square input yields nil.
func CorrelationFromCovariance(covariance [][]float64) [][]float64 {
	n := len(covariance)
	if n == 0 {
		return nil
	}
	for i := range covariance {
		if len(covariance[i]) != n {
			return nil
		}
	}

	corr := make([][]float64, n)
	for i := range corr {
		corr[i] = make([]float64, n)
		corr[i][i] = 1.0
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			den := math.Sqrt(covariance[i][i] * covariance[j][j])
			val := 0.0
			if den > 0 {
				val = covariance[i][j] / den
			}
			// Clamp to valid range.
			val = math.Max(-1.0, math.Min(1.0, val))
			corr[i][j] = val
			corr[j][i] = val
		}
	}
	return corr
}

// InverseVarianceWeights allocates weight inversely proportional to each
// asset's variance, the core step of risk-parity allocation.
//
// Formula: w_i = (1/v_i) / Σ(1/v_j)
//
// Assets with zero or invalid variance receive weight 0. If no asset has a
// positive variance, the allocation falls back to equal weights.
func InverseVarianceWeights(variances []float64) []float64 {
	n := len(variances)
	weights := make([]float64, n)
	if n == 0 {
		return weights
	}

	var totalInvVariance float64
	for _, v := range variances {
		if v > 0 && !math.IsInf(v, 0) {
			totalInvVariance += 1.0 / v
		}
	}
	if totalInvVariance == 0 {
		for i := range weights {
			weights[i] = 1.0 / float64(n)
		}
		return weights
	}

	for i, v := range variances {
		if v > 0 && !math.IsInf(v, 0) {
			weights[i] = (1.0 / v) / totalInvVariance
		}
	}
	return weights
}
