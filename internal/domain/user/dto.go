package user

import (
	"time"

	"github.com/shiftbook/shiftbook-backend/internal/pkg/validator"
)

// UpdateSettingsRequest carries the per-user defaults and accounting
// configuration. Nil fields are left unchanged. The working-days and
// weekly-hours rules are enforced here, at settings-edit time, not by the
// balance engine.
type UpdateSettingsRequest struct {
	ID                  string   `json:"-"`
	FullName            *string  `json:"full_name,omitempty"`
	DefaultStartTime    *string  `json:"default_start_time,omitempty"`
	DefaultEndTime      *string  `json:"default_end_time,omitempty"`
	DefaultLunchMinutes *int     `json:"default_lunch_minutes,omitempty"`
	WeeklyTargetHours   *float64 `json:"weekly_target_hours,omitempty"`
	WorkingDaysPerWeek  *int     `json:"working_days_per_week,omitempty"`
	HolidayAllowance    *int     `json:"holiday_allowance,omitempty"`
	ThemePreference     *string  `json:"theme_preference,omitempty"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name must not be empty",
		})
	}

	if r.DefaultStartTime != nil && !validator.IsValidTimeOfDay(*r.DefaultStartTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "default_start_time",
			Message: "default_start_time must be in HH:MM format",
		})
	}

	if r.DefaultEndTime != nil && !validator.IsValidTimeOfDay(*r.DefaultEndTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "default_end_time",
			Message: "default_end_time must be in HH:MM format",
		})
	}

	if r.DefaultLunchMinutes != nil && (*r.DefaultLunchMinutes < 0 || *r.DefaultLunchMinutes > 480) {
		errs = append(errs, validator.ValidationError{
			Field:   "default_lunch_minutes",
			Message: "default_lunch_minutes must be between 0 and 480",
		})
	}

	if r.HolidayAllowance != nil && *r.HolidayAllowance < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "holiday_allowance",
			Message: "holiday_allowance must not be negative",
		})
	}

	if r.ThemePreference != nil && !validator.IsInSlice(*r.ThemePreference, []string{"light", "dark", "system"}) {
		errs = append(errs, validator.ValidationError{
			Field:   "theme_preference",
			Message: "theme_preference must be one of light, dark, system",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ProfileResponse is the API shape of a user profile.
type ProfileResponse struct {
	ID                  string    `json:"id"`
	Email               string    `json:"email"`
	FullName            string    `json:"full_name"`
	Role                Role      `json:"role"`
	HolidayAllowance    int       `json:"holiday_allowance"`
	WeeklyTargetHours   float64   `json:"weekly_target_hours"`
	WorkingDaysPerWeek  int       `json:"working_days_per_week"`
	OvertimeBalance     float64   `json:"overtime_balance"`
	DefaultStartTime    string    `json:"default_start_time"`
	DefaultEndTime      string    `json:"default_end_time"`
	DefaultLunchMinutes int       `json:"default_lunch_minutes"`
	ThemePreference     *string   `json:"theme_preference,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

func ToProfileResponse(u User) ProfileResponse {
	return ProfileResponse{
		ID:                  u.ID,
		Email:               u.Email,
		FullName:            u.FullName,
		Role:                u.Role,
		HolidayAllowance:    u.HolidayAllowance,
		WeeklyTargetHours:   u.WeeklyTargetHours,
		WorkingDaysPerWeek:  u.WorkingDaysPerWeek,
		OvertimeBalance:     u.OvertimeBalance,
		DefaultStartTime:    u.DefaultStartTime,
		DefaultEndTime:      u.DefaultEndTime,
		DefaultLunchMinutes: u.DefaultLunchMinutes,
		ThemePreference:     u.ThemePreference,
		CreatedAt:           u.CreatedAt,
	}
}
