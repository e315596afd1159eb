package timeentry

import "time"

// TimeEntry is one record per employee per work day. Regular hours are
// derived from the start/end times minus the lunch break; overtime hours
// are entered manually on top.
type TimeEntry struct {
	ID                string
	UserID            string
	Date              time.Time // calendar date, unique per user
	StartTime         string    // "HH:MM"
	EndTime           string    // "HH:MM"
	LunchBreakMinutes int
	TotalHours        float64 // derived, 2 decimal places
	OvertimeHours     float64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
