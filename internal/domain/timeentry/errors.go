package timeentry

import "errors"

var (
	ErrEntryNotFound     = errors.New("time entry not found")
	ErrEntryExistsForDay = errors.New("a time entry already exists for this date")
)
