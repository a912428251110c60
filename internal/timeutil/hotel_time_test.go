package timeutil_test

import (
	"testing"
	"time"

	"hotel-backend/internal/timeutil"
)

func TestDateKeyRoundTrip(t *testing.T) {
	day := time.Date(2026, time.July, 5, 14, 30, 0, 0, timeutil.HotelTZ)

	key := timeutil.DateKey(day)
	if key != "05_07_2026" {
		t.Fatalf("DateKey = %q, want 05_07_2026", key)
	}

	parsed, err := timeutil.ParseDateKey(key)
	if err != nil {
		t.Fatalf("ParseDateKey(%q): %v", key, err)
	}
	if parsed.Day() != 5 || parsed.Month() != time.July || parsed.Year() != 2026 {
		t.Errorf("round trip gave %v", parsed)
	}
}

func TestDisplayDate(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"05_07_2026", "05/07/2026"},
		{"31_12_2025", "31/12/2025"},
		{"not-a-key", "not-a-key"}, // malformed keys pass through
		{"", ""},
	}

	for _, tt := range tests {
		if got := timeutil.DisplayDate(tt.key); got != tt.want {
			t.Errorf("DisplayDate(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestIsDinnerService(t *testing.T) {
	tests := []struct {
		hour, min int
		want      bool
	}{
		{12, 0, false},
		{18, 29, false},
		{18, 30, true},
		{19, 0, true},
		{23, 59, true},
		{0, 0, false},
	}

	for _, tt := range tests {
		at := time.Date(2026, time.July, 5, tt.hour, tt.min, 0, 0, timeutil.HotelTZ)
		if got := timeutil.IsDinnerService(at); got != tt.want {
			t.Errorf("IsDinnerService(%02d:%02d) = %v, want %v", tt.hour, tt.min, got, tt.want)
		}
	}
}
