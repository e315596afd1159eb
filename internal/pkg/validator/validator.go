package validator

import (
	"math"
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// Messages returns the violation messages in declaration order.
func (v ValidationErrors) Messages() []string {
	msgs := make([]string, len(v))
	for i, err := range v {
		msgs[i] = err.Message
	}
	return msgs
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// Time-of-day validation, 24h "HH:MM"
var timeOfDayRegex = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

func IsValidTimeOfDay(s string) bool {
	return timeOfDayRegex.MatchString(s)
}

// ParseTimeOfDay parses "HH:MM" into minutes since midnight.
func ParseTimeOfDay(s string) (int, bool) {
	if !timeOfDayRegex.MatchString(s) {
		return 0, false
	}
	t, err := time.Parse("15:04", normalizeTimeOfDay(s))
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

func normalizeTimeOfDay(s string) string {
	if len(s) == 4 {
		return "0" + s
	}
	return s
}

// Date validation, "YYYY-MM-DD"
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// IsBusinessDay reports whether t falls on Monday through Friday.
// Public holidays are not excluded.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd >= time.Monday && wd <= time.Friday
}

// HasAtMostTwoDecimals reports whether f survives rounding to 2 decimal
// places unchanged. Hour quantities are stored at that precision.
func HasAtMostTwoDecimals(f float64) bool {
	scaled := f * 100
	return math.Abs(scaled-math.Round(scaled)) < 1e-9
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}
