package analysis

import "time"

// dateLayouts is the fixed priority order used everywhere a date string is
// parsed. ISO first because that is what the cleaner emits.
var dateLayouts = []string{
	"2006-01-02", // 2023-03-02
	"1/2/06",     // 3/2/23
	"1/2/2006",   // 3/2/2023
	"2/1/2006",   // 2/3/2023
	"2006/1/2",   // 2023/03/02
}

// ParseDate tries the supported date formats in priority order. The second
// return is false when no format matches; callers fall back to sentinel
// behavior (fallback weight, stable trend, unknown grouping) rather than
// erroring.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDisplayDate renders a date string as "March 2023" for evidence
// citations, returning the input unchanged when it cannot be parsed and
// "Unknown date" when empty.
func FormatDisplayDate(s string) string {
	if t, ok := ParseDate(s); ok {
		return t.Format("January 2006")
	}
	if s == "" {
		return "Unknown date"
	}
	return s
}
