package efficientfrontier

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/OlleLindgren/ise-lib-efficient-frontier/pkg/formulas"
)

// RiskParity allocates weight inversely proportional to each security's
// variance and then dampens securities that are highly correlated with the
// rest of the set. It needs only the covariance matrix and no solver run,
// which makes it a robust complement to MinRisk when expected returns are
// unreliable.
//
// Securities with zero variance receive no weight; if no security has a
// positive variance, the allocation is uniform.
func (o *Optimizer) RiskParity(covariance [][]float64) ([]float64, error) {
	n := len(covariance)
	if n == 0 {
		return nil, fmt.Errorf("%w: no securities", ErrInvalidInput)
	}
	if err := validateCovariance(covariance, n); err != nil {
		return nil, err
	}
	if n == 1 {
		return []float64{1.0}, nil
	}

	variances := make([]float64, n)
	for i := range covariance {
		variances[i] = covariance[i][i]
	}
	weights := formulas.InverseVarianceWeights(variances)

	// Reduce the weight of securities that are highly correlated with
	// others, by up to 20% per correlated pair.
	corr := formulas.CorrelationFromCovariance(covariance)
	for i := 0; i < n; i++ {
		adjustment := 1.0
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if c := math.Abs(corr[i][j]); c > 0.7 {
				adjustment *= 1.0 - 0.2*c
			}
		}
		weights[i] *= math.Max(0.1, adjustment) // Don't reduce too much
	}

	sum := floats.Sum(weights)
	floats.Scale(1.0/sum, weights)

	o.log.Debug().
		Int("num_securities", n).
		Msg("Computed risk-parity weights")

	return weights, nil
}

// RiskParity computes inverse-variance weights for the given covariance
// matrix with default options. See Optimizer.RiskParity.
func RiskParity(covariance [][]float64) ([]float64, error) {
	return defaultOptimizer().RiskParity(covariance)
}
