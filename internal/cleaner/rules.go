package cleaner

import (
	"regexp"
	"strconv"
	"strings"

	"cpainsight/internal/model"
)

// RoleSentinel is the question that opens every evaluator block in the
// long-format export.
const RoleSentinel = "Please select your role:"

// frequencyQuestion carries the how-often-observed choice.
const frequencyQuestion = "Frequency"

// Additional question phrases routed to the communication family alongside
// "Communication:" questions.
const (
	advocacyPhrase = "Advocates for patients by addressing social determinants"
	cesPhrase      = "CES competency"
)

var (
	epaNumberRe   = regexp.MustCompile(`EPA\s*(\d+)`)
	placeholderRe = regexp.MustCompile(`<[A-Z_]+>`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
	nonWordRe     = regexp.MustCompile(`[^a-z0-9_\s]`)
)

// ratingRule derives the flat column name for one rated row. Rules are
// evaluated top to bottom; the first match wins, and a row matching no rule
// carries no rating.
type ratingRule struct {
	match func(model.RawRow) (string, bool)
}

var ratingRules = []ratingRule{
	{match: professionalismKey},
	{match: communicationKey},
	{match: epaKey},
}

// ratingKey resolves a row to its rating column, or ok=false when the row is
// not a recognized rating. The gate is presence of a rating cell; a cell that
// later fails integer coercion still claims its column and lands as null.
func ratingKey(row model.RawRow) (string, bool) {
	if strings.TrimSpace(row.RatingSortOrder) == "" {
		return "", false
	}
	for _, rule := range ratingRules {
		if key, ok := rule.match(row); ok {
			return key, ok
		}
	}
	return "", false
}

// professionalismKey slugs the rating-scale question text into
// prof_<snake_case>.
func professionalismKey(row model.RawRow) (string, bool) {
	if !strings.Contains(row.QuestionName, "Professionalism:") {
		return "", false
	}
	slug := slugify(row.RatingScaleText)
	if slug == "" {
		return "", false
	}
	return "prof_" + slug, true
}

// communicationKey maps communication-family questions onto a fixed 3-way
// keyword split. Questions matching the family but none of the keywords are
// dropped rather than guessed.
func communicationKey(row model.RawRow) (string, bool) {
	name := row.QuestionName
	inFamily := strings.Contains(name, "Communication:") ||
		strings.Contains(name, advocacyPhrase) ||
		strings.Contains(name, cesPhrase)
	if !inFamily {
		return "", false
	}

	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "listening"):
		return "comm_listening", true
	case strings.Contains(lower, "shared decision"), strings.Contains(lower, "decision making"):
		return "comm_decision_making", true
	case strings.Contains(name, "Advocates for patients"),
		strings.Contains(lower, "social determinants"),
		strings.Contains(name, cesPhrase):
		return "comm_advocacy", true
	}
	return "", false
}

// epaKey extracts the EPA number from the question name.
func epaKey(row model.RawRow) (string, bool) {
	if !strings.Contains(row.QuestionName, "EPA") {
		return "", false
	}
	m := epaNumberRe.FindStringSubmatch(row.QuestionName)
	if m == nil {
		return "", false
	}
	return "epa" + m[1], true
}

// slugify lowercases, strips non-alphanumerics and joins words with
// underscores: "Shows dependability, truthfulness and integrity" ->
// "shows_dependability_truthfulness_and_integrity".
func slugify(text string) string {
	if text == "" {
		return ""
	}
	s := nonWordRe.ReplaceAllString(strings.ToLower(text), "")
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(s), "_")
}

// sanitizeComment replaces de-identification placeholder tags such as
// <LOCATION> with [REDACTED] and collapses whitespace runs.
func sanitizeComment(comment string) string {
	if comment == "" {
		return ""
	}
	s := placeholderRe.ReplaceAllString(comment, "[REDACTED]")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// safeInt coerces a rating cell to an integer. Empty or malformed cells are
// a data-quality condition, not an error the caller should surface.
func safeInt(value string) (int, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, strconv.ErrSyntax
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	// Exports sometimes carry ratings as "3.0".
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// formatExportDate normalizes the export's "M/D/YY H:MM" timestamps to ISO
// YYYY-MM-DD. Strings in any other shape pass through unchanged; downstream
// date parsing has its own fallbacks.
func formatExportDate(raw string) string {
	if raw == "" {
		return ""
	}
	datePart, _, found := strings.Cut(raw, " ")
	if !found {
		return raw
	}
	parts := strings.Split(datePart, "/")
	if len(parts) != 3 {
		return raw
	}
	month, day, year := parts[0], parts[1], parts[2]
	if len(year) == 2 {
		year = "20" + year
	}
	if len(month) == 1 {
		month = "0" + month
	}
	if len(day) == 1 {
		day = "0" + day
	}
	return year + "-" + month + "-" + day
}
