package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cpainsight/internal/model"
)

func TestClassifyTrendDirectionBoundary(t *testing.T) {
	tests := []struct {
		name   string
		first  float64
		last   float64
		expect string
	}{
		{"exactly +0.3 improves", 3.0, 3.3, model.TrendImproving},
		{"0.29 is stable", 3.0, 3.29, model.TrendStable},
		{"exactly -0.3 declines", 3.3, 3.0, model.TrendDeclining},
		{"no change", 3.0, 3.0, model.TrendStable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trend := ClassifyTrend([]Observation{
				{Date: "2023-01-01", Value: tt.first},
				{Date: "2023-06-01", Value: tt.last},
			})
			assert.Equal(t, tt.expect, trend.Direction)
		})
	}
}

func TestClassifyTrendSortsByDate(t *testing.T) {
	// Input order descending; earliest/latest must come from sorted order.
	trend := ClassifyTrend([]Observation{
		{Date: "2023-07-01", Value: 4},
		{Date: "2023-01-01", Value: 2},
		{Date: "2023-04-01", Value: 3},
	})
	assert.Equal(t, model.TrendImproving, trend.Direction)
	assert.Equal(t, 2.0, trend.EarliestScore)
	assert.Equal(t, 4.0, trend.MostRecentScore)
	assert.Equal(t, 2.0, trend.Change)
	assert.Equal(t, "2023-01 to 2023-07", trend.TimeSpan)
}

func TestClassifyTrendMagnitude(t *testing.T) {
	trend := ClassifyTrend([]Observation{
		{Date: "2023-01-01", Value: 2},
		{Date: "2023-07-01", Value: 4},
	})
	// |change| / 4-point scale.
	assert.Equal(t, 0.5, trend.Magnitude)

	// Magnitude is capped at 1.0 even for implausible swings.
	trend = ClassifyTrend([]Observation{
		{Date: "2023-01-01", Value: 0},
		{Date: "2023-07-01", Value: 10},
	})
	assert.Equal(t, 1.0, trend.Magnitude)
}

func TestClassifyTrendInsufficientData(t *testing.T) {
	assert.Equal(t, model.Trend{Direction: model.TrendStable}, ClassifyTrend(nil))

	single := ClassifyTrend([]Observation{{Date: "2023-01-01", Value: 3}})
	assert.Equal(t, model.TrendStable, single.Direction)
	assert.Equal(t, 0.0, single.Magnitude)
}

func TestClassifyTrendDiscardsUnparseableDates(t *testing.T) {
	// Only two observations carry valid dates; the garbage one must not
	// contribute, so change = 3.5 - 3.0.
	trend := ClassifyTrend([]Observation{
		{Date: "once upon a time", Value: 1},
		{Date: "2023-01-01", Value: 3.0},
		{Date: "2023-05-01", Value: 3.5},
	})
	assert.Equal(t, model.TrendImproving, trend.Direction)
	assert.Equal(t, 0.5, trend.Change)

	// All dates unparseable degrades to the stable default.
	trend = ClassifyTrend([]Observation{
		{Date: "bad", Value: 1},
		{Date: "worse", Value: 4},
	})
	assert.Equal(t, model.TrendStable, trend.Direction)
}
