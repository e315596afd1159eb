package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // Reviews team activity, decides holiday requests
	RoleEmployee Role = "employee" // Logs hours, submits holiday requests
)

// Accounting configuration applied to fresh accounts. A registered user
// must be able to log days and request holidays before ever opening the
// settings page, so none of these may start at zero.
const (
	DefaultHolidayAllowance   = 25
	DefaultWeeklyTargetHours  = 40.0
	DefaultWorkingDaysPerWeek = 5
	DefaultStartTimeOfDay     = "09:00"
	DefaultEndTimeOfDay       = "17:00"
	DefaultLunchBreakMinutes  = 60
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Role         Role

	// Accounting configuration
	HolidayAllowance   int
	WeeklyTargetHours  float64
	WorkingDaysPerWeek int
	OvertimeBalance    float64

	// Day-entry defaults
	DefaultStartTime    string
	DefaultEndTime      string
	DefaultLunchMinutes int

	ThemePreference *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsAdmin checks if the user can decide holiday requests
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NewEmployee builds an employee account carrying the default accounting
// configuration.
func NewEmployee(email, passwordHash, fullName string) User {
	return User{
		Email:               email,
		PasswordHash:        passwordHash,
		FullName:            fullName,
		Role:                RoleEmployee,
		HolidayAllowance:    DefaultHolidayAllowance,
		WeeklyTargetHours:   DefaultWeeklyTargetHours,
		WorkingDaysPerWeek:  DefaultWorkingDaysPerWeek,
		DefaultStartTime:    DefaultStartTimeOfDay,
		DefaultEndTime:      DefaultEndTimeOfDay,
		DefaultLunchMinutes: DefaultLunchBreakMinutes,
	}
}
