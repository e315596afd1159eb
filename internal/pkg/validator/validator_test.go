package validator

import (
	"testing"
	"time"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.example.co", true},
		{"user@example", false},
		{"@example.com", false},
		{"user@", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidEmail(tt.email); got != tt.valid {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.valid)
		}
	}
}

func TestIsValidTimeOfDay(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"09:00", true},
		{"9:00", true},
		{"23:59", true},
		{"00:00", true},
		{"24:00", false},
		{"12:60", false},
		{"9am", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidTimeOfDay(tt.input); got != tt.valid {
			t.Errorf("IsValidTimeOfDay(%q) = %v, want %v", tt.input, got, tt.valid)
		}
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input   string
		minutes int
		ok      bool
	}{
		{"00:00", 0, true},
		{"09:30", 570, true},
		{"9:30", 570, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"garbage", 0, false},
	}

	for _, tt := range tests {
		minutes, ok := ParseTimeOfDay(tt.input)
		if minutes != tt.minutes || ok != tt.ok {
			t.Errorf("ParseTimeOfDay(%q) = (%d, %v), want (%d, %v)", tt.input, minutes, ok, tt.minutes, tt.ok)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"2024-06-03", true},
		{"2024-02-29", true},
		{"2023-02-29", false},
		{"03/06/2024", false},
		{"2024-6-3", false},
		{"", false},
	}

	for _, tt := range tests {
		if _, ok := IsValidDate(tt.input); ok != tt.valid {
			t.Errorf("IsValidDate(%q) ok = %v, want %v", tt.input, ok, tt.valid)
		}
	}
}

func TestIsBusinessDay(t *testing.T) {
	tests := []struct {
		date     string
		business bool
	}{
		{"2024-06-03", true},  // Monday
		{"2024-06-07", true},  // Friday
		{"2024-06-08", false}, // Saturday
		{"2024-06-09", false}, // Sunday
	}

	for _, tt := range tests {
		d, _ := time.Parse("2006-01-02", tt.date)
		if got := IsBusinessDay(d); got != tt.business {
			t.Errorf("IsBusinessDay(%s) = %v, want %v", tt.date, got, tt.business)
		}
	}
}

func TestHasAtMostTwoDecimals(t *testing.T) {
	tests := []struct {
		value float64
		ok    bool
	}{
		{8, true},
		{7.5, true},
		{7.25, true},
		{7.255, false},
		{0.1 + 0.2, true}, // float noise below the epsilon still counts as 0.30
	}

	for _, tt := range tests {
		if got := HasAtMostTwoDecimals(tt.value); got != tt.ok {
			t.Errorf("HasAtMostTwoDecimals(%v) = %v, want %v", tt.value, got, tt.ok)
		}
	}
}

func TestValidationErrorsToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "start_time", Message: "Start time must be in HH:MM format"},
		{Field: "end_time", Message: "End time must be after start time"},
	}

	m := errs.ToMap()
	if len(m) != 2 {
		t.Fatalf("ToMap() has %d entries, want 2", len(m))
	}
	if m["end_time"] != "End time must be after start time" {
		t.Errorf("ToMap()[end_time] = %q", m["end_time"])
	}
}
