package analysis

import "time"

// FallbackWeight is returned for missing or unparseable dates. It is a
// deliberate "don't know" signal, numerically indistinguishable from a
// measured six-month-old observation; callers that need to tell the two
// apart must check the raw date string on the record.
const FallbackWeight = 0.5

// RecencyWeight maps a date string to a decay weight relative to now:
// 1.0 within the last 3 months, 0.0 beyond 9 months, linear in between.
// Month arithmetic ignores the day of month.
func RecencyWeight(dateStr string, now time.Time) float64 {
	if dateStr == "" {
		return FallbackWeight
	}
	date, ok := ParseDate(dateStr)
	if !ok {
		return FallbackWeight
	}

	months := (now.Year()-date.Year())*12 + int(now.Month()) - int(date.Month())
	switch {
	case months <= 3:
		return 1.0
	case months >= 9:
		return 0.0
	default:
		return 1.0 - float64(months-3)/6.0
	}
}
