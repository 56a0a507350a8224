// Package schema holds the static lookup tables of the assessment pipeline:
// the flat column set of cleaned records, column types, and the keyword-to-
// field map. A Schema is built once at startup and passed to the components
// that need it; it must never be mutated afterwards.
package schema

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Column value types.
const (
	TypeText  = "text"
	TypeInt   = "int"
	TypeFloat = "float"
	TypeDate  = "date"
)

// Schema is the process-wide static configuration.
type Schema struct {
	// ColumnTypes maps flat column names to value types. Unlisted columns
	// default to text.
	ColumnTypes map[string]string `yaml:"columnTypes"`

	// KeywordFields maps query keywords to flat column names, e.g.
	// "clinical reasoning" -> "epa2".
	KeywordFields map[string]string `yaml:"keywordFields"`

	// ProfessionalismFields, CommunicationFields and EPAFields define the
	// stable rating-column set every cleaned record carries, answered or not.
	ProfessionalismFields []string `yaml:"professionalismFields"`
	CommunicationFields   []string `yaml:"communicationFields"`
	EPAFields             []string `yaml:"epaFields"`
}

// Default returns the built-in schema matching the institutional CPA export.
func Default() *Schema {
	profFields := []string{
		"prof_shows_dependability_truthfulness_and_integrity",
		"prof_acknowledges_and_demonstrates_awareness_of_limitations",
		"prof_takes_initiative_for_own_learning_and_patient_care",
		"prof_remains_open_to_feedback_and_attempts_to_implement_it",
		"prof_treats_all_patients_with_respect_and_compassion_protects_patient_confidentiality",
	}

	commFields := []string{"comm_listening", "comm_decision_making", "comm_advocacy", "comm_other"}

	epaFields := []string{
		"epa1", "epa2", "epa3", "epa4", "epa5", "epa6", "epa7", "epa8", "epa9",
		"epa10", "epa14",
	}

	types := map[string]string{
		"student_id":           TypeText,
		"form_name":            TypeText,
		"phase_name":           TypeText,
		"academic_year":        TypeDate,
		"release_date":         TypeDate,
		"evaluator_role":       TypeText,
		"frequency":            TypeText,
		"strengths_comment":    TypeText,
		"improvements_comment": TypeText,
		"comm_other":           TypeText,
	}
	for _, f := range profFields {
		types[f] = TypeInt
	}
	for _, f := range commFields[:3] {
		types[f] = TypeInt
	}
	for _, f := range epaFields {
		types[f] = TypeInt
	}

	return &Schema{
		ColumnTypes: types,
		KeywordFields: map[string]string{
			// EPA mappings
			"history taking":         "epa1",
			"history":                "epa1",
			"physical exam":          "epa1",
			"clinical reasoning":     "epa2",
			"differential diagnosis": "epa2",
			"ddx":                    "epa2",
			"diagnostic tests":       "epa3",
			"interpret tests":        "epa3",
			"recommend tests":        "epa3",
			"orders":                 "epa4",
			"prescriptions":          "epa4",
			"documentation":          "epa5",
			"written notes":          "epa5",
			"oral presentation":      "epa6",
			"presentation":           "epa6",
			"medical decision":       "epa7",
			"transitions":            "epa8",
			"handoff":                "epa8",
			"team member":            "epa9",
			"teamwork":               "epa9",
			"urgent care":            "epa10",
			"teaching":               "epa14",
			"mentoring":              "epa14",

			// Communication mappings
			"listening":           "comm_listening",
			"decision making":     "comm_decision_making",
			"shared decision":     "comm_decision_making",
			"social determinants": "comm_advocacy",
			"advocacy":            "comm_advocacy",
			"advocates":           "comm_advocacy",

			// Professionalism mappings
			"integrity":        "prof_shows_dependability_truthfulness_and_integrity",
			"dependability":    "prof_shows_dependability_truthfulness_and_integrity",
			"limitations":      "prof_acknowledges_and_demonstrates_awareness_of_limitations",
			"initiative":       "prof_takes_initiative_for_own_learning_and_patient_care",
			"open to feedback": "prof_remains_open_to_feedback_and_attempts_to_implement_it",
			"respect":          "prof_treats_all_patients_with_respect_and_compassion_protects_patient_confidentiality",
			"compassion":       "prof_treats_all_patients_with_respect_and_compassion_protects_patient_confidentiality",
			"confidentiality":  "prof_treats_all_patients_with_respect_and_compassion_protects_patient_confidentiality",

			// Text fields
			"strengths":    "strengths_comment",
			"improvements": "improvements_comment",
		},
		ProfessionalismFields: profFields,
		CommunicationFields:   commFields,
		EPAFields:             epaFields,
	}
}

// Load reads a YAML schema override from path. Sections missing from the
// file keep their defaults.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}

	var override Schema
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse schema file: %w", err)
	}

	s := Default()
	if len(override.ColumnTypes) > 0 {
		s.ColumnTypes = override.ColumnTypes
	}
	if len(override.KeywordFields) > 0 {
		s.KeywordFields = override.KeywordFields
	}
	if len(override.ProfessionalismFields) > 0 {
		s.ProfessionalismFields = override.ProfessionalismFields
	}
	if len(override.CommunicationFields) > 0 {
		s.CommunicationFields = override.CommunicationFields
	}
	if len(override.EPAFields) > 0 {
		s.EPAFields = override.EPAFields
	}
	return s, nil
}

// ColumnType returns the type of a column, defaulting to text for columns
// the schema does not know.
func (s *Schema) ColumnType(name string) string {
	if t, ok := s.ColumnTypes[name]; ok {
		return t
	}
	return TypeText
}

// RatingFields returns the full stable rating-column set in output order.
func (s *Schema) RatingFields() []string {
	out := make([]string, 0, len(s.ProfessionalismFields)+len(s.CommunicationFields)+len(s.EPAFields))
	out = append(out, s.ProfessionalismFields...)
	out = append(out, s.CommunicationFields...)
	out = append(out, s.EPAFields...)
	return out
}

// Columns returns the stable flat column order of the cleaned output table.
func (s *Schema) Columns() []string {
	base := []string{
		"student_id", "form_name", "phase_name", "academic_year", "release_date",
		"evaluator_role", "frequency", "strengths_comment", "improvements_comment",
	}
	return append(base, s.RatingFields()...)
}

// FieldForKeyword resolves a query keyword to its flat column name by
// longest-keyword-first substring match over the given text.
func (s *Schema) FieldForKeyword(text string) (string, bool) {
	lower := strings.ToLower(text)
	best := ""
	for kw := range s.KeywordFields {
		if strings.Contains(lower, strings.ToLower(kw)) && len(kw) > len(best) {
			best = kw
		}
	}
	if best == "" {
		return "", false
	}
	return s.KeywordFields[best], true
}
