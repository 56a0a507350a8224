package analysis

import (
	"sort"
	"strings"
	"unicode/utf8"

	"cpainsight/internal/model"
)

// maxPatternsPerKind caps how many strengths or improvements are surfaced.
const maxPatternsPerKind = 5

// patternTextLimit truncates long comments used as pattern headlines.
const patternTextLimit = 150

// competencyKeywords gates comment relevance per competency focus. A comment
// is relevant when it contains any keyword for the focused competency;
// with no focus every comment is relevant.
var competencyKeywords = map[string][]string{
	"clinical_reasoning":  {"reasoning", "diagnostic", "differential", "decision", "analysis", "thinking", "succinct", "decisive", "assessment", "plan"},
	"communication":       {"communication", "listening", "patient interaction", "bedside manner", "empathy", "compassion"},
	"professionalism":     {"professional", "reliability", "ethics", "responsibility", "punctual", "integrity", "feedback"},
	"patient_care":        {"patient care", "bedside manner", "empathy", "compassion", "advocacy"},
	"presentation_skills": {"presentation", "presenting", "oral", "rounds"},
	"teamwork":            {"team", "collaboration", "teamwork", "interaction"},
}

// TextAnalyzer groups free-text feedback into candidate patterns and
// annotates each with a confidence score. It is fully deterministic: grouping
// is by leading words, relevance by keyword match. A language-model analyzer
// can replace the grouping; confidence annotation stays the same either way.
type TextAnalyzer struct {
	minConfidence float64
}

// NewTextAnalyzer creates a text analyzer with the default surfacing
// threshold.
func NewTextAnalyzer() *TextAnalyzer {
	return &TextAnalyzer{minConfidence: MinConfidenceScore}
}

// Analyze extracts strength and improvement patterns from the records'
// comment fields, honoring the query's rotation filters, competency focus
// and requested-count limits.
func (a *TextAnalyzer) Analyze(records []model.EvaluationRecord, query model.StructuredQuery) model.TextAnalysis {
	filtered := filterByRotation(records, query.RotationFilters)

	strengths := a.collectPatterns(filtered, query.CompetencyFocus, func(r model.EvaluationRecord) string {
		return r.StrengthsComment
	})
	improvements := a.collectPatterns(filtered, query.CompetencyFocus, func(r model.EvaluationRecord) string {
		return r.ImprovementsComment
	})

	strengths = limitPatterns(strengths, query.StrengthsRequested, query.TopRequested)
	improvements = limitPatterns(improvements, query.ImprovementsRequested, query.TopRequested)

	return model.TextAnalysis{
		RelevantFeedbackFound: len(strengths) > 0 || len(improvements) > 0,
		Strengths:             strengths,
		Improvements:          improvements,
	}
}

// AnnotatePatterns scores externally grouped patterns (e.g. from a
// language-model analyzer) and drops those under the surfacing threshold.
func (a *TextAnalyzer) AnnotatePatterns(patterns []model.Pattern) []model.Pattern {
	for i := range patterns {
		patterns[i].Confidence = ScoreConfidence(patterns[i].Evidence)
	}
	return FilterByConfidence(patterns, a.minConfidence)
}

func (a *TextAnalyzer) collectPatterns(records []model.EvaluationRecord, focus string, comment func(model.EvaluationRecord) string) []model.Pattern {
	groups := map[string]*model.Pattern{}
	var order []string

	for _, rec := range records {
		text := comment(rec)
		if text == "" || !relevantToFocus(text, focus) {
			continue
		}

		key := groupKey(text)
		pat, ok := groups[key]
		if !ok {
			headline := text
			if len(headline) > patternTextLimit {
				cut := patternTextLimit
				for cut > 0 && !utf8.RuneStart(headline[cut]) {
					cut--
				}
				headline = headline[:cut] + "..."
			}
			pat = &model.Pattern{Text: headline}
			groups[key] = pat
			order = append(order, key)
		}

		role := rec.EvaluatorRole
		if role == "" {
			role = "Unknown"
		}
		rotation := rec.FormName
		if rotation == "" {
			rotation = "Unknown rotation"
		}
		date := rec.ReleaseDate
		if date == "" {
			date = rec.ReleaseDateRaw
		}
		if date == "" {
			date = "Unknown date"
		}
		pat.Evidence = append(pat.Evidence, model.EvidenceItem{
			Text:          text,
			EvaluatorRole: role,
			Rotation:      rotation,
			Date:          date,
			DisplayDate:   FormatDisplayDate(date),
		})
	}

	patterns := make([]model.Pattern, 0, len(order))
	for _, key := range order {
		pat := *groups[key]
		pat.Confidence = ScoreConfidence(pat.Evidence)
		patterns = append(patterns, pat)
	}

	patterns = FilterByConfidence(patterns, a.minConfidence)
	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Confidence.Score > patterns[j].Confidence.Score
	})
	if len(patterns) > maxPatternsPerKind {
		patterns = patterns[:maxPatternsPerKind]
	}
	return patterns
}

// groupKey buckets comments by their first five words, lower-cased. Crude,
// but evaluators writing the same observation tend to open the same way.
func groupKey(text string) string {
	words := strings.Fields(text)
	if len(words) > 5 {
		words = words[:5]
	}
	return strings.ToLower(strings.Join(words, " "))
}

func relevantToFocus(text, focus string) bool {
	if focus == "" {
		return true
	}
	keywords, ok := competencyKeywords[focus]
	if !ok {
		return true
	}
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func filterByRotation(records []model.EvaluationRecord, filters []string) []model.EvaluationRecord {
	if len(filters) == 0 {
		return records
	}
	kept := make([]model.EvaluationRecord, 0, len(records))
	for _, rec := range records {
		form := strings.ToLower(rec.FormName)
		for _, f := range filters {
			if strings.Contains(form, strings.ToLower(f)) {
				kept = append(kept, rec)
				break
			}
		}
	}
	return kept
}

func limitPatterns(patterns []model.Pattern, requested, top int) []model.Pattern {
	if requested > 0 && len(patterns) > requested {
		patterns = patterns[:requested]
	}
	if top > 0 && len(patterns) > top {
		patterns = patterns[:top]
	}
	return patterns
}
