package model

import "strings"

// RawRow is one observation from the long-format assessment export: one
// question/answer pair for one evaluator on one form submission. Produced by
// the CSV reader and never mutated.
type RawRow struct {
	StudentID          string `json:"studentId"`
	FormName           string `json:"formName"`
	PhaseName          string `json:"phaseName"`
	AcademicYear       string `json:"academicYear"`
	ReleaseDate        string `json:"releaseDate"` // raw export string, e.g. "3/2/23 0:00"
	QuestionName       string `json:"questionName"`
	QuestionChoiceText string `json:"questionChoiceText"`
	RatingScaleText    string `json:"ratingScaleText"` // question text of the rating scale row
	RatingSortOrder    string `json:"ratingSortOrder"` // numeric rating as exported, may be empty
	TextAnswer         string `json:"textAnswer"`
	TextAnswerCategory string `json:"textAnswerCategory"` // "positive", "improvement" or empty
}

// EvaluationRecord is the normalized output of one evaluator block: one flat
// row per evaluator per form submission. All rating maps carry the full known
// key set; a nil value means the evaluator did not answer that item, which is
// distinct from a zero score.
type EvaluationRecord struct {
	StudentID    string `json:"student_id"`
	FormName     string `json:"form_name"`
	PhaseName    string `json:"phase_name"`
	AcademicYear string `json:"academic_year"`

	// ReleaseDate is normalized to ISO YYYY-MM-DD. ReleaseDateRaw preserves
	// the export string for display in evidence citations.
	ReleaseDate    string `json:"release_date"`
	ReleaseDateRaw string `json:"release_date_str,omitempty"`

	EvaluatorRole       string `json:"evaluator_role"`
	Frequency           string `json:"frequency"`
	StrengthsComment    string `json:"strengths_comment"`
	ImprovementsComment string `json:"improvements_comment"`

	Professionalism map[string]*int `json:"professionalism"`
	Communication   map[string]*int `json:"communication"`
	EPA             map[string]*int `json:"epa"`

	// RecencyWeight is in [0,1]; 0.5 is also the fallback for dates that
	// could not be parsed (see analysis.FallbackWeight).
	RecencyWeight float64 `json:"recency_weight"`
}

// Rating returns the value of a prof_/comm_/epaN field by its flat column
// name, nil when absent or unanswered.
func (r *EvaluationRecord) Rating(field string) *int {
	if v, ok := r.Professionalism[field]; ok {
		return v
	}
	if v, ok := r.Communication[field]; ok {
		return v
	}
	if v, ok := r.EPA[field]; ok {
		return v
	}
	return nil
}

// SetRating stores a rating under its flat column name, routing on the key
// prefix. Unknown prefixes are ignored.
func (r *EvaluationRecord) SetRating(field string, value *int) {
	switch {
	case strings.HasPrefix(field, "prof_"):
		if r.Professionalism == nil {
			r.Professionalism = map[string]*int{}
		}
		r.Professionalism[field] = value
	case strings.HasPrefix(field, "comm_"):
		if r.Communication == nil {
			r.Communication = map[string]*int{}
		}
		r.Communication[field] = value
	case strings.HasPrefix(field, "epa"):
		if r.EPA == nil {
			r.EPA = map[string]*int{}
		}
		r.EPA[field] = value
	}
}
