package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shiftbook/shiftbook-backend/internal/domain/holiday"
	"github.com/shiftbook/shiftbook-backend/internal/domain/timeentry"
	"github.com/shiftbook/shiftbook-backend/internal/domain/user"
	holidayservice "github.com/shiftbook/shiftbook-backend/internal/service/holiday"
	"github.com/shiftbook/shiftbook-backend/internal/service/overtime"
	"github.com/shopspring/decimal"
)

// EmployeeOverview is one row of the admin dashboard.
type EmployeeOverview struct {
	ID                string  `json:"id"`
	FullName          string  `json:"full_name"`
	Email             string  `json:"email"`
	TodayHours        float64 `json:"today_hours"`
	WeekHours         float64 `json:"week_hours"`
	OvertimeBalance   float64 `json:"overtime_balance"`
	BalanceDisplay    string  `json:"balance_display"`
	RemainingHolidays int     `json:"remaining_holidays"`
}

// PendingRequest is a holiday request awaiting review.
type PendingRequest struct {
	ID            string  `json:"id"`
	EmployeeName  string  `json:"employee_name"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	DaysRequested int     `json:"days_requested"`
	Reason        *string `json:"reason,omitempty"`
}

// Dashboard is the admin overview: per-employee hours for today and the
// current week, balances, remaining allowances, and the pending review feed.
type Dashboard struct {
	Employees       []EmployeeOverview `json:"employees"`
	PendingRequests []PendingRequest   `json:"pending_requests"`
}

type Service interface {
	Dashboard(ctx context.Context) (Dashboard, error)
	ListEmployees(ctx context.Context) ([]user.ProfileResponse, error)
}

type ServiceImpl struct {
	userRepo    user.Repository
	entryRepo   timeentry.Repository
	holidayRepo holiday.Repository

	now func() time.Time
}

func NewService(userRepo user.Repository, entryRepo timeentry.Repository, holidayRepo holiday.Repository) *ServiceImpl {
	return &ServiceImpl{
		userRepo:    userRepo,
		entryRepo:   entryRepo,
		holidayRepo: holidayRepo,
		now:         time.Now,
	}
}

func (s *ServiceImpl) Dashboard(ctx context.Context) (Dashboard, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to list users for dashboard: %w", err)
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekStart := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))
	year := now.Year()

	employees := make([]EmployeeOverview, 0, len(users))
	for _, u := range users {
		entries, err := s.entryRepo.GetByUserID(ctx, u.ID, &weekStart, &today)
		if err != nil {
			return Dashboard{}, fmt.Errorf("failed to load entries for dashboard: %w", err)
		}

		todayHours := decimal.Zero
		weekHours := decimal.Zero
		for _, e := range entries {
			worked := decimal.NewFromFloat(e.TotalHours).
				Add(decimal.NewFromFloat(e.OvertimeHours))
			weekHours = weekHours.Add(worked)
			if e.Date.Equal(today) {
				todayHours = todayHours.Add(worked)
			}
		}

		requests, err := s.holidayRepo.GetByUserID(ctx, u.ID, &year)
		if err != nil {
			return Dashboard{}, fmt.Errorf("failed to load holiday requests for dashboard: %w", err)
		}
		used := holidayservice.UsedDays(requests, year)

		todayF, _ := todayHours.Round(2).Float64()
		weekF, _ := weekHours.Round(2).Float64()

		employees = append(employees, EmployeeOverview{
			ID:                u.ID,
			FullName:          u.FullName,
			Email:             u.Email,
			TodayHours:        todayF,
			WeekHours:         weekF,
			OvertimeBalance:   u.OvertimeBalance,
			BalanceDisplay:    overtime.FormatBalance(u.OvertimeBalance),
			RemainingHolidays: holidayservice.RemainingDays(u.HolidayAllowance, used),
		})
	}

	pendingStatus := holiday.StatusPending
	pending, err := s.holidayRepo.ListByStatus(ctx, &pendingStatus)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to list pending holiday requests: %w", err)
	}

	feed := make([]PendingRequest, 0, len(pending))
	for _, r := range pending {
		name := ""
		if r.EmployeeName != nil {
			name = *r.EmployeeName
		}
		feed = append(feed, PendingRequest{
			ID:            r.ID,
			EmployeeName:  name,
			StartDate:     r.StartDate.Format("2006-01-02"),
			EndDate:       r.EndDate.Format("2006-01-02"),
			DaysRequested: r.DaysRequested,
			Reason:        r.Reason,
		})
	}

	return Dashboard{Employees: employees, PendingRequests: feed}, nil
}

func (s *ServiceImpl) ListEmployees(ctx context.Context) ([]user.ProfileResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	profiles := make([]user.ProfileResponse, len(users))
	for i, u := range users {
		profiles[i] = user.ToProfileResponse(u)
	}
	return profiles, nil
}
