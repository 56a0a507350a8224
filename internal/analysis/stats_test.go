package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightedMean(t *testing.T) {
	assert.InDelta(t, 3.5, WeightedMean([]float64{2, 4}, []float64{1, 3}), 1e-9)
	assert.InDelta(t, 3.0, WeightedMean([]float64{2, 4}, []float64{1, 1}), 1e-9)
}

func TestWeightedMeanFallbacks(t *testing.T) {
	// Nil or mismatched weights fall back to the plain average.
	assert.InDelta(t, 3.0, WeightedMean([]float64{2, 4}, nil), 1e-9)
	assert.InDelta(t, 3.0, WeightedMean([]float64{2, 4}, []float64{1}), 1e-9)

	// Zero total weight yields 0, not NaN.
	assert.Equal(t, 0.0, WeightedMean([]float64{2, 4}, []float64{0, 0}))

	assert.Equal(t, 0.0, WeightedMean(nil, nil))
}

func TestMeanMinMax(t *testing.T) {
	values := []float64{3, 1, 4, 1, 5}
	assert.InDelta(t, 2.8, Mean(values), 1e-9)
	assert.Equal(t, 1.0, Min(values))
	assert.Equal(t, 5.0, Max(values))

	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, Min(nil))
	assert.Equal(t, 0.0, Max(nil))
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 3.57, Round2(3.5714285))
	assert.Equal(t, 0.805, Round3(0.8049999))
}
