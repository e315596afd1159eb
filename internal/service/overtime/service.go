package overtime

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shiftbook/shiftbook-backend/internal/domain/auth"
	"github.com/shiftbook/shiftbook-backend/internal/domain/timeentry"
	"github.com/shiftbook/shiftbook-backend/internal/domain/user"
	"github.com/shiftbook/shiftbook-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ErrInvalidDailyTarget is returned when a recalculation is attempted for a
// profile whose settings produce a non-positive daily target.
var ErrInvalidDailyTarget = errors.New("daily target hours must be greater than zero")

// writeEpsilon is the smallest balance drift worth persisting. Recalculations
// landing within it of the stored balance are no-ops.
var writeEpsilon = decimal.NewFromFloat(0.01)

type Service interface {
	Recalculate(ctx context.Context, userID string) (float64, error)
}

type ServiceImpl struct {
	userRepo  user.Repository
	entryRepo timeentry.Repository
}

func NewService(userRepo user.Repository, entryRepo timeentry.Repository) *ServiceImpl {
	return &ServiceImpl{userRepo: userRepo, entryRepo: entryRepo}
}

// CalculateDailyTarget derives the per-day target from the weekly target and
// the number of working days, rounded to 2 decimal places. A zero working-day
// count yields 0 rather than a division error.
func CalculateDailyTarget(weeklyHours float64, workingDays int) float64 {
	if workingDays == 0 {
		return 0
	}
	target := decimal.NewFromFloat(weeklyHours).
		DivRound(decimal.NewFromInt(int64(workingDays)), 2)
	f, _ := target.Float64()
	return f
}

// ValidateWorkingDaysSettings checks a weekly-hours / working-days pair and
// accumulates every violation rather than stopping at the first.
func ValidateWorkingDaysSettings(weeklyHours float64, workingDays int) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if workingDays < 1 || workingDays > 7 {
		errs = append(errs, validator.ValidationError{
			Field:   "working_days_per_week",
			Message: "Working days must be between 1 and 7 days per week",
		})
	}
	if weeklyHours < 20 || weeklyHours > 60 {
		errs = append(errs, validator.ValidationError{
			Field:   "weekly_target_hours",
			Message: "Weekly target hours must be between 20 and 60 hours",
		})
	}

	if workingDays >= 1 && workingDays <= 7 {
		if target := CalculateDailyTarget(weeklyHours, workingDays); target > 12 {
			errs = append(errs, validator.ValidationError{
				Field:   "weekly_target_hours",
				Message: fmt.Sprintf("Daily target of %.1f hours exceeds 12-hour limit. Please increase working days or reduce weekly hours.", target),
			})
		}
	}

	return errs
}

// Recalculate recomputes the user's overtime balance from the complete time
// entry history: the sum over all entries of worked plus overtime hours minus
// the daily target. The stored balance is only written when the recomputed
// value drifts by at least 0.01 hours, so repeated calls without new entries
// perform at most one write in total.
func (s *ServiceImpl) Recalculate(ctx context.Context, userID string) (float64, error) {
	if userID == "" {
		return 0, auth.ErrNotAuthenticated
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load profile for balance recalculation: %w", err)
	}

	target := CalculateDailyTarget(u.WeeklyTargetHours, u.WorkingDaysPerWeek)
	if target <= 0 {
		return 0, ErrInvalidDailyTarget
	}

	entries, err := s.entryRepo.GetByUserID(ctx, userID, nil, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to load time entries for balance recalculation: %w", err)
	}

	targetDec := decimal.NewFromFloat(target)
	balance := decimal.Zero
	for _, e := range entries {
		worked := decimal.NewFromFloat(e.TotalHours).
			Add(decimal.NewFromFloat(e.OvertimeHours))
		balance = balance.Add(worked.Sub(targetDec))
	}
	balance = balance.Round(2)

	stored := decimal.NewFromFloat(u.OvertimeBalance)
	if balance.Sub(stored).Abs().LessThan(writeEpsilon) {
		f, _ := stored.Float64()
		return f, nil
	}

	f, _ := balance.Float64()
	if err := s.userRepo.UpdateOvertimeBalance(ctx, userID, f); err != nil {
		return 0, fmt.Errorf("failed to store recalculated balance: %w", err)
	}

	return f, nil
}

// FormatBalance renders a balance in hours as a signed display string, e.g.
// "+45min", "-2h 15min", "+3h".
func FormatBalance(hours float64) string {
	sign := "+"
	if hours < 0 {
		sign = "-"
	}

	totalMinutes := int(math.Round(math.Abs(hours) * 60))
	h := totalMinutes / 60
	m := totalMinutes % 60

	switch {
	case h == 0:
		return fmt.Sprintf("%s%dmin", sign, m)
	case m == 0:
		return fmt.Sprintf("%s%dh", sign, h)
	default:
		return fmt.Sprintf("%s%dh %dmin", sign, h, m)
	}
}

// Stats holds weekly and monthly hour aggregates for a user's dashboard.
type Stats struct {
	WeeklyRegular   float64 `json:"weekly_regular"`
	WeeklyOvertime  float64 `json:"weekly_overtime"`
	WeeklyTotal     float64 `json:"weekly_total"`
	MonthlyRegular  float64 `json:"monthly_regular"`
	MonthlyOvertime float64 `json:"monthly_overtime"`
	MonthlyTotal    float64 `json:"monthly_total"`
	OvertimeStatus  string  `json:"overtime_status"`
}

// ComputeStats aggregates entries into the Monday-to-Sunday week and the
// calendar month containing now. The overtime status classifies the weekly
// overtime load: none is "normal", up to 5 hours is "moderate", beyond that
// "excessive".
func ComputeStats(entries []timeentry.TimeEntry, now time.Time) Stats {
	weekStart := startOfWeek(now)
	weekEnd := weekStart.AddDate(0, 0, 7)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	weekRegular, weekOvertime := decimal.Zero, decimal.Zero
	monthRegular, monthOvertime := decimal.Zero, decimal.Zero

	for _, e := range entries {
		regular := decimal.NewFromFloat(e.TotalHours)
		ot := decimal.NewFromFloat(e.OvertimeHours)

		if !e.Date.Before(weekStart) && e.Date.Before(weekEnd) {
			weekRegular = weekRegular.Add(regular)
			weekOvertime = weekOvertime.Add(ot)
		}
		if !e.Date.Before(monthStart) && e.Date.Before(monthEnd) {
			monthRegular = monthRegular.Add(regular)
			monthOvertime = monthOvertime.Add(ot)
		}
	}

	weeklyOT := round2(weekOvertime)

	status := "normal"
	switch {
	case weeklyOT > 5:
		status = "excessive"
	case weeklyOT > 0:
		status = "moderate"
	}

	return Stats{
		WeeklyRegular:   round2(weekRegular),
		WeeklyOvertime:  weeklyOT,
		WeeklyTotal:     round2(weekRegular.Add(weekOvertime)),
		MonthlyRegular:  round2(monthRegular),
		MonthlyOvertime: round2(monthOvertime),
		MonthlyTotal:    round2(monthRegular.Add(monthOvertime)),
		OvertimeStatus:  status,
	}
}

func startOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
