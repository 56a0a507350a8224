package model

// Query types understood by the analyzers.
const (
	QueryGeneralPerformance = "general_performance"
	QueryCompetencyFocus    = "competency_focus"
	QueryTemporal           = "temporal_progression"
)

// StructuredQuery is the machine-readable form of a user question about one
// student. Interpreting free text into this struct is the job of an external
// service; the pipeline only consumes it.
type StructuredQuery struct {
	QueryType         string   `json:"queryType"`
	CompetencyFocus   string   `json:"competencyFocus,omitempty"`
	TemporalDimension bool     `json:"temporalDimension"`
	RotationFilters   []string `json:"rotationFilters,omitempty"`
	EPAFilters        []string `json:"epaFilters,omitempty"`

	// Requested-count limits; zero means no limit.
	StrengthsRequested    int `json:"strengthsRequested,omitempty"`
	ImprovementsRequested int `json:"improvementsRequested,omitempty"`
	TopRequested          int `json:"topRequested,omitempty"`
}
