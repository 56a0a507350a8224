package analysis

import (
	"sort"
	"time"

	"cpainsight/internal/model"
)

// trendThreshold is the minimum first-to-last change that counts as movement;
// anything strictly below it is stable. A change of exactly 0.3 is therefore
// classified as improving or declining.
const trendThreshold = 0.3

// ratingScale normalizes trend magnitude, assuming a 4-point rating scale.
const ratingScale = 4.0

// Observation is one dated score entering trend classification.
type Observation struct {
	Date   string
	Value  float64
	Weight float64
}

// ClassifyTrend classifies the direction of change of a scalar field from
// its earliest to its most recent observation. Observations whose dates do
// not parse are discarded; fewer than two survivors yield a stable trend
// with zero magnitude.
func ClassifyTrend(observations []Observation) model.Trend {
	type dated struct {
		at    time.Time
		value float64
	}

	parsed := make([]dated, 0, len(observations))
	for _, o := range observations {
		if at, ok := ParseDate(o.Date); ok {
			parsed = append(parsed, dated{at: at, value: o.Value})
		}
	}
	if len(parsed) < 2 {
		return model.Trend{Direction: model.TrendStable}
	}

	// Stable so that same-day observations keep their input order.
	sort.SliceStable(parsed, func(i, j int) bool { return parsed[i].at.Before(parsed[j].at) })

	earliest := parsed[0]
	latest := parsed[len(parsed)-1]
	change := latest.value - earliest.value

	direction := model.TrendStable
	if change >= trendThreshold {
		direction = model.TrendImproving
	} else if change <= -trendThreshold {
		direction = model.TrendDeclining
	}

	magnitude := change
	if magnitude < 0 {
		magnitude = -magnitude
	}
	magnitude /= ratingScale
	if magnitude > 1.0 {
		magnitude = 1.0
	}

	return model.Trend{
		Direction:       direction,
		Magnitude:       Round2(magnitude),
		Change:          Round2(change),
		EarliestScore:   earliest.value,
		MostRecentScore: latest.value,
		TimeSpan:        earliest.at.Format("2006-01") + " to " + latest.at.Format("2006-01"),
	}
}
