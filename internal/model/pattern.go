package model

// EvidenceItem is one piece of supporting text for a qualitative pattern.
// Date keeps the machine-readable form used for scoring; DisplayDate is the
// "March 2023" rendering shown in citations.
type EvidenceItem struct {
	Text          string `json:"text"`
	EvaluatorRole string `json:"evaluatorRole"`
	Rotation      string `json:"rotation"`
	Date          string `json:"date"`
	DisplayDate   string `json:"displayDate"`
}

// Confidence levels, ordered weakest to strongest.
const (
	ConfidenceLow        = "low"
	ConfidenceLowMedium  = "low-medium"
	ConfidenceMedium     = "medium"
	ConfidenceMediumHigh = "medium-high"
	ConfidenceHigh       = "high"
)

// PatternConfidence summarizes how reliable a pattern is. It is derived
// deterministically from the pattern's evidence set and never stored apart
// from it.
type PatternConfidence struct {
	Level       string  `json:"confidence"`
	Score       float64 `json:"score"`
	Description string  `json:"description"`
}

// Pattern is a recurring qualitative theme (a strength or an improvement
// area) with the evidence that supports it.
type Pattern struct {
	Text       string            `json:"patternText"`
	Evidence   []EvidenceItem    `json:"supportingEvidence"`
	Confidence PatternConfidence `json:"confidenceInfo"`
}
