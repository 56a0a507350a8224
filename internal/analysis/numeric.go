package analysis

import (
	"sort"
	"strings"

	"cpainsight/internal/model"
)

// NumericAnalyzer computes per-field aggregate statistics over a student's
// evaluation records.
type NumericAnalyzer struct{}

// NewNumericAnalyzer creates a numeric analyzer.
func NewNumericAnalyzer() *NumericAnalyzer {
	return &NumericAnalyzer{}
}

// Analyze produces weighted statistics and a recent trend for every rating
// field that has at least one answered value, bucketed by competency family,
// plus the temporal progression block. Records with a field unanswered do
// not enter that field's denominator. A non-empty EPAFilters set restricts
// the by_epa bucket to the named fields.
func (a *NumericAnalyzer) Analyze(records []model.EvaluationRecord, query model.StructuredQuery) model.NumericAnalysis {
	result := model.NumericAnalysis{
		ByEPA:             map[string]model.FieldStats{},
		ByCommunication:   map[string]model.FieldStats{},
		ByProfessionalism: map[string]model.FieldStats{},
		Temporal:          AnalyzeProgression(records, query.TemporalDimension),
	}

	epaFilter := map[string]bool{}
	for _, f := range query.EPAFilters {
		epaFilter[strings.ToLower(strings.TrimSpace(f))] = true
	}

	fields := answeredFields(records)
	for _, field := range fields {
		if strings.HasPrefix(field, "epa") && len(epaFilter) > 0 && !epaFilter[field] {
			continue
		}
		var values, weights []float64
		var observations []Observation

		for _, rec := range records {
			v := rec.Rating(field)
			if v == nil {
				continue
			}
			score := float64(*v)
			values = append(values, score)
			weights = append(weights, rec.RecencyWeight)

			dateStr := rec.ReleaseDate
			if dateStr == "" {
				dateStr = rec.ReleaseDateRaw
			}
			if dateStr != "" {
				observations = append(observations, Observation{
					Date:   dateStr,
					Value:  score,
					Weight: rec.RecencyWeight,
				})
			}
		}
		if len(values) == 0 {
			continue
		}

		weightedAvg := Round2(WeightedMean(values, weights))
		stats := model.FieldStats{
			Avg:         weightedAvg,
			WeightedAvg: weightedAvg,
			RawAvg:      Round2(Mean(values)),
			Min:         Min(values),
			Max:         Max(values),
			Count:       len(values),
			RecentTrend: ClassifyTrend(observations),
		}

		switch {
		case strings.HasPrefix(field, "epa"):
			result.ByEPA[field] = stats
		case strings.HasPrefix(field, "comm_"):
			result.ByCommunication[field] = stats
		case strings.HasPrefix(field, "prof_"):
			result.ByProfessionalism[field] = stats
		}
	}

	return result
}

// answeredFields returns the sorted set of rating fields answered at least
// once across the records.
func answeredFields(records []model.EvaluationRecord) []string {
	seen := map[string]bool{}
	for _, rec := range records {
		for _, m := range []map[string]*int{rec.Professionalism, rec.Communication, rec.EPA} {
			for field, v := range m {
				if v != nil {
					seen[field] = true
				}
			}
		}
	}
	fields := make([]string, 0, len(seen))
	for f := range seen {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
