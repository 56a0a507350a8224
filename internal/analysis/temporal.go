package analysis

import (
	"sort"
	"time"

	"cpainsight/internal/model"
)

// reasoningEPAs are the EPA fields most related to clinical reasoning; the
// temporal analyzer averages across just these.
var reasoningEPAs = []string{"epa1", "epa2", "epa3"}

// AnalyzeProgression partitions a student's evaluations into early and late
// halves by date and compares the average reasoning-EPA score between them.
// When requested is false it returns a bare "not performed" marker, distinct
// from the "insufficient data" marker used when fewer than two dated records
// exist.
func AnalyzeProgression(records []model.EvaluationRecord, requested bool) model.TemporalProgression {
	if !requested {
		return model.TemporalProgression{Performed: false}
	}

	type dated struct {
		at  time.Time
		raw string
		rec model.EvaluationRecord
	}

	temporal := make([]dated, 0, len(records))
	for _, rec := range records {
		dateStr := rec.ReleaseDate
		if dateStr == "" {
			dateStr = rec.ReleaseDateRaw
		}
		at, ok := ParseDate(dateStr)
		if !ok {
			continue
		}
		temporal = append(temporal, dated{at: at, raw: dateStr, rec: rec})
	}

	sort.SliceStable(temporal, func(i, j int) bool { return temporal[i].at.Before(temporal[j].at) })

	if len(temporal) < 2 {
		return model.TemporalProgression{
			Performed:        true,
			InsufficientData: true,
			Message:          "Need at least 2 time points for temporal analysis",
		}
	}

	// Integer split: the first half is one record shorter when n is odd.
	half := len(temporal) / 2
	early := temporal[:half]
	recent := temporal[half:]

	perRecordAvg := func(period []dated) []float64 {
		var avgs []float64
		for _, d := range period {
			var scores []float64
			for _, epa := range reasoningEPAs {
				if v := d.rec.EPA[epa]; v != nil {
					scores = append(scores, float64(*v))
				}
			}
			if len(scores) > 0 {
				avgs = append(avgs, Mean(scores))
			}
		}
		return avgs
	}

	earlyAvgs := perRecordAvg(early)
	recentAvgs := perRecordAvg(recent)

	progression := &model.ProgressionStats{Direction: model.TrendStable}
	if len(earlyAvgs) > 0 && len(recentAvgs) > 0 {
		earlyAvg := Round2(Mean(earlyAvgs))
		recentAvg := Round2(Mean(recentAvgs))
		change := Mean(recentAvgs) - Mean(earlyAvgs)

		if change >= trendThreshold {
			progression.Direction = model.TrendImproving
		} else if change <= -trendThreshold {
			progression.Direction = model.TrendDeclining
		}
		progression.Change = Round2(change)
		progression.EarlyAvg = &earlyAvg
		progression.RecentAvg = &recentAvg
	}

	rotations := make([]string, 0, len(temporal))
	seen := map[string]bool{}
	for _, d := range temporal {
		name := d.rec.FormName
		if name == "" {
			name = "Unknown"
		}
		if !seen[name] {
			seen[name] = true
			rotations = append(rotations, name)
		}
	}

	return model.TemporalProgression{
		Performed:        true,
		TotalEvaluations: len(temporal),
		TimeSpan: &model.TimeSpan{
			Earliest:   temporal[0].raw,
			MostRecent: temporal[len(temporal)-1].raw,
			Rotations:  rotations,
		},
		EPAProgression: progression,
	}
}
