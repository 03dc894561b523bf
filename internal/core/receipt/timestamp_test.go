package receipt

import (
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected time.Time
	}{
		{
			name:     "primary layout with period after year",
			text:     "21.07.2025. 14:03:57",
			expected: time.Date(2025, 7, 21, 14, 3, 57, 0, time.UTC),
		},
		{
			name:     "fallback layout without period",
			text:     "21.07.2025 14:03:57",
			expected: time.Date(2025, 7, 21, 14, 3, 57, 0, time.UTC),
		},
		{
			name:     "surrounding whitespace",
			text:     "  01.01.2024. 00:00:01  ",
			expected: time.Date(2024, 1, 1, 0, 0, 1, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := ParseTimestamp(tt.text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !ts.Equal(tt.expected) {
				t.Errorf("ParseTimestamp(%q) = %v, expected %v", tt.text, ts, tt.expected)
			}
		})
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	tests := []string{
		"",
		"2025-07-21 14:03:57",
		"21/07/2025 14:03:57",
		"not a timestamp",
	}

	for _, text := range tests {
		if _, err := ParseTimestamp(text); err == nil {
			t.Errorf("expected error for %q", text)
		}
	}
}
