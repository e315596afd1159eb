package user

import (
	"context"
	"fmt"

	"github.com/shiftbook/shiftbook-backend/internal/domain/user"
	"github.com/shiftbook/shiftbook-backend/internal/pkg/validator"
	"github.com/shiftbook/shiftbook-backend/internal/service/overtime"
)

type Service interface {
	GetProfile(ctx context.Context, userID string) (user.ProfileResponse, error)
	UpdateSettings(ctx context.Context, req user.UpdateSettingsRequest) (user.ProfileResponse, error)
	OvertimeSummary(ctx context.Context, userID string) (OvertimeSummary, error)
}

// OvertimeSummary pairs the numeric balance with its display form.
type OvertimeSummary struct {
	Balance   float64 `json:"balance"`
	Formatted string  `json:"formatted"`
}

type ServiceImpl struct {
	userRepo    user.Repository
	overtimeSvc overtime.Service
}

func NewService(userRepo user.Repository, overtimeSvc overtime.Service) *ServiceImpl {
	return &ServiceImpl{userRepo: userRepo, overtimeSvc: overtimeSvc}
}

func (s *ServiceImpl) GetProfile(ctx context.Context, userID string) (user.ProfileResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.ProfileResponse{}, err
	}
	return user.ToProfileResponse(u), nil
}

// UpdateSettings applies the partial update. The weekly-hours and
// working-days pair is validated against the merged result, so a request
// that changes only one of the two still cannot produce an invalid daily
// target.
func (s *ServiceImpl) UpdateSettings(ctx context.Context, req user.UpdateSettingsRequest) (user.ProfileResponse, error) {
	if err := req.Validate(); err != nil {
		return user.ProfileResponse{}, err
	}

	current, err := s.userRepo.GetByID(ctx, req.ID)
	if err != nil {
		return user.ProfileResponse{}, err
	}

	weeklyHours := current.WeeklyTargetHours
	if req.WeeklyTargetHours != nil {
		weeklyHours = *req.WeeklyTargetHours
	}
	workingDays := current.WorkingDaysPerWeek
	if req.WorkingDaysPerWeek != nil {
		workingDays = *req.WorkingDaysPerWeek
	}

	if req.WeeklyTargetHours != nil || req.WorkingDaysPerWeek != nil {
		if errs := overtime.ValidateWorkingDaysSettings(weeklyHours, workingDays); len(errs) > 0 {
			return user.ProfileResponse{}, errs
		}
	}

	if req.DefaultStartTime != nil || req.DefaultEndTime != nil {
		startTime := current.DefaultStartTime
		if req.DefaultStartTime != nil {
			startTime = *req.DefaultStartTime
		}
		endTime := current.DefaultEndTime
		if req.DefaultEndTime != nil {
			endTime = *req.DefaultEndTime
		}
		start, okS := validator.ParseTimeOfDay(startTime)
		end, okE := validator.ParseTimeOfDay(endTime)
		if okS && okE && start >= end {
			return user.ProfileResponse{}, validator.ValidationErrors{{
				Field:   "default_end_time",
				Message: "default_end_time must be after default_start_time",
			}}
		}
	}

	if err := s.userRepo.UpdateSettings(ctx, req); err != nil {
		return user.ProfileResponse{}, err
	}

	// Target changes shift the balance of every recorded day; recompute
	// rather than serving a stale figure.
	if req.WeeklyTargetHours != nil || req.WorkingDaysPerWeek != nil {
		if _, err := s.overtimeSvc.Recalculate(ctx, req.ID); err != nil {
			return user.ProfileResponse{}, fmt.Errorf("failed to recalculate balance after settings change: %w", err)
		}
	}

	return s.GetProfile(ctx, req.ID)
}

func (s *ServiceImpl) OvertimeSummary(ctx context.Context, userID string) (OvertimeSummary, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return OvertimeSummary{}, err
	}

	return OvertimeSummary{
		Balance:   u.OvertimeBalance,
		Formatted: overtime.FormatBalance(u.OvertimeBalance),
	}, nil
}
