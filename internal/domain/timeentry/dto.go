package timeentry

import (
	"github.com/shiftbook/shiftbook-backend/internal/pkg/validator"
)

type CreateTimeEntryRequest struct {
	UserID            string   `json:"-"`
	Date              string   `json:"date"`
	StartTime         string   `json:"start_time"`
	EndTime           string   `json:"end_time"`
	LunchBreakMinutes int      `json:"lunch_break_minutes"`
	OvertimeHours     *float64 `json:"overtime_hours,omitempty"`
}

func (r *CreateTimeEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	errs = append(errs, validateDayShape(r.StartTime, r.EndTime, r.LunchBreakMinutes)...)
	errs = append(errs, validateOvertime(r.OvertimeHours)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateTimeEntryRequest struct {
	ID                string   `json:"-"`
	UserID            string   `json:"-"`
	StartTime         *string  `json:"start_time,omitempty"`
	EndTime           *string  `json:"end_time,omitempty"`
	LunchBreakMinutes *int     `json:"lunch_break_minutes,omitempty"`
	OvertimeHours     *float64 `json:"overtime_hours,omitempty"`
}

func (r *UpdateTimeEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.StartTime != nil && !validator.IsValidTimeOfDay(*r.StartTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_time",
			Message: "Start time must be in HH:MM format",
		})
	}

	if r.EndTime != nil && !validator.IsValidTimeOfDay(*r.EndTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "End time must be in HH:MM format",
		})
	}

	if r.LunchBreakMinutes != nil && (*r.LunchBreakMinutes < 0 || *r.LunchBreakMinutes > 480) {
		errs = append(errs, validator.ValidationError{
			Field:   "lunch_break_minutes",
			Message: "Lunch break must be between 0 and 480 minutes",
		})
	}

	if r.StartTime != nil && r.EndTime != nil {
		start, okS := validator.ParseTimeOfDay(*r.StartTime)
		end, okE := validator.ParseTimeOfDay(*r.EndTime)
		if okS && okE && start >= end {
			errs = append(errs, validator.ValidationError{
				Field:   "end_time",
				Message: "End time must be after start time",
			})
		}
	}

	errs = append(errs, validateOvertime(r.OvertimeHours)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// validateDayShape accumulates the rules shared by day submissions:
// HH:MM times, lunch within [0, 480], end strictly after start.
func validateDayShape(startTime, endTime string, lunchMinutes int) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if !validator.IsValidTimeOfDay(startTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_time",
			Message: "Start time must be in HH:MM format",
		})
	}

	if !validator.IsValidTimeOfDay(endTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "End time must be in HH:MM format",
		})
	}

	if lunchMinutes < 0 || lunchMinutes > 480 {
		errs = append(errs, validator.ValidationError{
			Field:   "lunch_break_minutes",
			Message: "Lunch break must be between 0 and 480 minutes",
		})
	}

	start, okS := validator.ParseTimeOfDay(startTime)
	end, okE := validator.ParseTimeOfDay(endTime)
	if okS && okE && start >= end {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "End time must be after start time",
		})
	}

	return errs
}

func validateOvertime(overtimeHours *float64) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if overtimeHours == nil {
		return errs
	}

	if *overtimeHours < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime_hours",
			Message: "Overtime hours cannot be negative",
		})
	}

	if *overtimeHours > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime_hours",
			Message: "Overtime hours cannot exceed 12 hours per day",
		})
	}

	if !validator.HasAtMostTwoDecimals(*overtimeHours) {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime_hours",
			Message: "Overtime hours can have at most 2 decimal places",
		})
	}

	return errs
}
