package analysis

import "math"

// WeightedMean computes sum(v*w)/sum(w). Nil or length-mismatched weights
// silently fall back to a plain average; zero total weight yields 0.
func WeightedMean(values, weights []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if len(weights) == 0 || len(weights) != len(values) {
		return Mean(values)
	}

	var num, den float64
	for i, v := range values {
		num += v * weights[i]
		den += weights[i]
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// Mean returns the unweighted average, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Min returns the smallest value, 0 for an empty slice.
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest value, 0 for an empty slice.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Round2 rounds to two decimal places for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round3 rounds to three decimal places, used for confidence scores.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
