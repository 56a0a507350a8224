package model

// Trend direction labels.
const (
	TrendStable    = "stable"
	TrendImproving = "improving"
	TrendDeclining = "declining"
)

// Trend classifies the direction and magnitude of change of one scalar field
// over time. When fewer than two dated observations exist the direction is
// "stable" with zero magnitude; that outcome also covers "could not measure",
// which is not separable from genuine stability in the numeric output.
type Trend struct {
	Direction       string  `json:"direction"`
	Magnitude       float64 `json:"magnitude"`
	Change          float64 `json:"change"`
	EarliestScore   float64 `json:"earliestScore,omitempty"`
	MostRecentScore float64 `json:"mostRecentScore,omitempty"`
	TimeSpan        string  `json:"timeSpan,omitempty"` // "2023-01 to 2023-07"
}

// FieldStats holds aggregate statistics for one numeric competency field.
type FieldStats struct {
	Avg         float64 `json:"avg"` // recency-weighted, same as WeightedAvg
	WeightedAvg float64 `json:"weightedAvg"`
	RawAvg      float64 `json:"rawAvg"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Count       int     `json:"count"`
	RecentTrend Trend   `json:"recentTrend"`
}

// TimeSpan describes the span of evaluations that entered a temporal analysis.
type TimeSpan struct {
	Earliest   string   `json:"earliest"`
	MostRecent string   `json:"mostRecent"`
	Rotations  []string `json:"rotations"`
}

// ProgressionStats compares early-half and late-half averages of the
// reasoning-relevant EPA fields.
type ProgressionStats struct {
	Direction string   `json:"direction"`
	Change    float64  `json:"change"`
	EarlyAvg  *float64 `json:"earlyAvg"`
	RecentAvg *float64 `json:"recentAvg"`
}

// TemporalProgression is the three-state result of the temporal analyzer:
// not performed, performed but insufficient data, or computed.
type TemporalProgression struct {
	Performed        bool              `json:"temporalAnalysisPerformed"`
	InsufficientData bool              `json:"insufficientData,omitempty"`
	Message          string            `json:"message,omitempty"`
	TotalEvaluations int               `json:"totalEvaluations,omitempty"`
	TimeSpan         *TimeSpan         `json:"timeSpan,omitempty"`
	EPAProgression   *ProgressionStats `json:"epaProgression,omitempty"`
}

// NumericAnalysis carries per-field statistics bucketed by competency family
// plus the temporal progression block.
type NumericAnalysis struct {
	ByEPA             map[string]FieldStats `json:"byEpa"`
	ByCommunication   map[string]FieldStats `json:"byCommunication"`
	ByProfessionalism map[string]FieldStats `json:"byProfessionalism"`
	Temporal          TemporalProgression   `json:"temporalAnalysis"`
}

// TextAnalysis carries confidence-annotated qualitative patterns.
type TextAnalysis struct {
	RelevantFeedbackFound bool      `json:"relevantFeedbackFound"`
	Strengths             []Pattern `json:"strengths"`
	Improvements          []Pattern `json:"improvements"`
}

// ConsolidatedSummary merges the numeric and text analyses for one run.
type ConsolidatedSummary struct {
	StudentID string          `json:"studentId"`
	Query     StructuredQuery `json:"query"`
	Numeric   NumericAnalysis `json:"numericAnalysis"`
	Text      TextAnalysis    `json:"textAnalysis"`
	Narrative string          `json:"narrative,omitempty"`
}
