package analysis

import (
	"fmt"
	"strings"
	"time"

	"cpainsight/internal/model"
)

// MinConfidenceScore is the default surfacing threshold: patterns scoring
// below it are dropped before being shown.
const MinConfidenceScore = 0.15

// confidenceContext carries the corroboration signals extracted once from an
// evidence set and shared by the multiplier rules.
type confidenceContext struct {
	rotations map[string]bool
	dates     map[string]bool
	roles     map[string]bool
}

// boostRule contributes one independent multiplier plus the reason shown in
// the description when it fired. Rules are evaluated in fixed order so the
// "boosted by" list is deterministic.
type boostRule struct {
	reason string
	apply  func(confidenceContext) float64
}

var boostRules = []boostRule{
	{
		reason: "cross-rotation consistency",
		apply: func(c confidenceContext) float64 {
			switch {
			case len(c.rotations) >= 3:
				return 1.3
			case len(c.rotations) == 2:
				return 1.15
			default:
				return 1.0
			}
		},
	},
	{
		reason: "temporal consistency",
		apply: func(c confidenceContext) float64 {
			if len(c.dates) < 2 {
				return 1.0
			}
			parsed := make([]time.Time, 0, len(c.dates))
			for d := range c.dates {
				if t, ok := parseEvidenceDate(d); ok {
					parsed = append(parsed, t)
				}
			}
			if len(parsed) == 0 {
				// Multiple distinct dates that all refuse to parse still
				// hint at spread across time.
				return 1.1
			}
			if len(parsed) < 2 {
				return 1.0
			}
			min, max := parsed[0], parsed[0]
			for _, t := range parsed[1:] {
				if t.Before(min) {
					min = t
				}
				if t.After(max) {
					max = t
				}
			}
			days := int(max.Sub(min).Hours() / 24)
			switch {
			case days > 30:
				return 1.2
			case days > 7:
				return 1.1
			default:
				return 1.0
			}
		},
	},
	{
		reason: "role diversity",
		apply: func(c confidenceContext) float64 {
			var resident, attending bool
			for role := range c.roles {
				if strings.Contains(role, "resident") {
					resident = true
				}
				if strings.Contains(role, "attending") {
					attending = true
				}
			}
			if resident && attending {
				return 1.1
			}
			return 1.0
		},
	},
}

// evidenceDateLayouts is narrower than the pipeline-wide list: evidence date
// strings come straight from the export and only carry these three shapes.
var evidenceDateLayouts = []string{"2006-01-02", "1/2/2006", "1/2/06"}

func parseEvidenceDate(s string) (time.Time, bool) {
	for _, layout := range evidenceDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ScoreConfidence computes a calibrated confidence for one pattern from its
// supporting evidence: a base score from the evaluator count, boosted by
// cross-rotation, temporal and role-diversity corroboration, capped at 1.0.
func ScoreConfidence(evidence []model.EvidenceItem) model.PatternConfidence {
	if len(evidence) == 0 {
		return model.PatternConfidence{
			Level:       model.ConfidenceLow,
			Score:       0.0,
			Description: "No supporting evidence",
		}
	}

	evaluatorCount := len(evidence)
	var base float64
	switch {
	case evaluatorCount >= 4:
		base = 1.0
	case evaluatorCount == 3:
		base = 0.7
	case evaluatorCount == 2:
		base = 0.4
	default:
		base = 0.1
	}

	ctx := confidenceContext{
		rotations: map[string]bool{},
		dates:     map[string]bool{},
		roles:     map[string]bool{},
	}
	for _, ev := range evidence {
		if ev.Rotation != "" && ev.Rotation != "Unknown" && ev.Rotation != "Unknown rotation" {
			clean := strings.TrimSpace(strings.ReplaceAll(strings.ToLower(ev.Rotation), "clinical performance assessment", ""))
			if clean != "" {
				ctx.rotations[clean] = true
			}
		}
		if ev.Date != "" && ev.Date != "Unknown date" {
			ctx.dates[ev.Date] = true
		}
		if ev.EvaluatorRole != "" && ev.EvaluatorRole != "Unknown" {
			ctx.roles[strings.ToLower(ev.EvaluatorRole)] = true
		}
	}

	multiplier := 1.0
	var reasons []string
	for _, rule := range boostRules {
		m := rule.apply(ctx)
		multiplier *= m
		if m > 1.0 {
			reasons = append(reasons, rule.reason)
		}
	}

	score := base * multiplier
	if score > 1.0 {
		score = 1.0
	}

	var level string
	switch {
	case score >= 0.8:
		level = model.ConfidenceHigh
	case score >= 0.6:
		level = model.ConfidenceMediumHigh
	case score >= 0.35:
		level = model.ConfidenceMedium
	case score >= 0.15:
		level = model.ConfidenceLowMedium
	default:
		level = model.ConfidenceLow
	}

	rotationDesc := "unknown rotations"
	if n := len(ctx.rotations); n > 0 {
		rotationDesc = fmt.Sprintf("%d rotation%s", n, plural(n))
	}
	description := fmt.Sprintf("%d evaluator%s across %s", evaluatorCount, plural(evaluatorCount), rotationDesc)
	if len(reasons) > 0 {
		description += fmt.Sprintf(" (boosted by %s)", strings.Join(reasons, ", "))
	}

	return model.PatternConfidence{
		Level:       level,
		Score:       Round3(score),
		Description: description,
	}
}

// FilterByConfidence drops patterns scoring below min.
func FilterByConfidence(patterns []model.Pattern, min float64) []model.Pattern {
	kept := make([]model.Pattern, 0, len(patterns))
	for _, p := range patterns {
		if p.Confidence.Score >= min {
			kept = append(kept, p)
		}
	}
	return kept
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
