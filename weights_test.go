package efficientfrontier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanWeights_DropsDust(t *testing.T) {
	weights := []float64{0.6995, 0.3, 0.0005}

	cleaned := CleanWeights(weights, 0)

	require.Len(t, cleaned, 3)
	assert.Equal(t, 0.0, cleaned[2], "dust position should be zeroed")

	sum := 0.0
	for _, w := range cleaned {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-12, "cleaned weights should sum to 1")
	assert.InDelta(t, 0.6995/0.9995, cleaned[0], 1e-12)
	assert.InDelta(t, 0.3/0.9995, cleaned[1], 1e-12)
}

func TestCleanWeights_CustomCutoff(t *testing.T) {
	weights := []float64{0.90, 0.06, 0.04}

	cleaned := CleanWeights(weights, 0.05)

	assert.Equal(t, 0.0, cleaned[2])
	assert.InDelta(t, 0.90/0.96, cleaned[0], 1e-12)
	assert.InDelta(t, 0.06/0.96, cleaned[1], 1e-12)
}

func TestCleanWeights_KeepsShortPositions(t *testing.T) {
	weights := []float64{1.04, -0.04}

	cleaned := CleanWeights(weights, 0)

	// A short leg above the cutoff magnitude survives cleaning.
	assert.InDelta(t, 1.04, cleaned[0], 1e-12)
	assert.InDelta(t, -0.04, cleaned[1], 1e-12)
}

func TestCleanWeights_AllBelowCutoff(t *testing.T) {
	weights := []float64{0.0004, 0.0006}

	cleaned := CleanWeights(weights, 0)

	// Nothing survives the cutoff, so the input comes back unchanged.
	assert.Equal(t, weights, cleaned)
}

func TestCleanWeights_DoesNotMutateInput(t *testing.T) {
	weights := []float64{0.6995, 0.3, 0.0005}

	_ = CleanWeights(weights, 0)

	assert.Equal(t, []float64{0.6995, 0.3, 0.0005}, weights)
}
