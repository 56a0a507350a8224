package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2023-03-02", time.Date(2023, 3, 2, 0, 0, 0, 0, time.UTC), true},
		{"3/2/23", time.Date(2023, 3, 2, 0, 0, 0, 0, time.UTC), true},
		{"3/2/2023", time.Date(2023, 3, 2, 0, 0, 0, 0, time.UTC), true},
		{"2023/3/2", time.Date(2023, 3, 2, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"yesterday", time.Time{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseDate(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		if tt.ok {
			assert.True(t, got.Equal(tt.want), "input %q parsed as %v", tt.in, got)
		}
	}
}

func TestParseDatePriorityOrder(t *testing.T) {
	// "3/4/2023" is ambiguous between M/D/YYYY and D/M/YYYY; the fixed
	// priority order must resolve it as March 4th.
	got, ok := ParseDate("3/4/2023")
	assert.True(t, ok)
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 4, got.Day())
}

func TestFormatDisplayDate(t *testing.T) {
	assert.Equal(t, "March 2023", FormatDisplayDate("2023-03-02"))
	assert.Equal(t, "Unknown date", FormatDisplayDate(""))
	assert.Equal(t, "spring term", FormatDisplayDate("spring term"))
}
