package timeentry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shiftbook/shiftbook-backend/internal/domain/timeentry"
	"github.com/shiftbook/shiftbook-backend/internal/pkg/validator"
	"github.com/shiftbook/shiftbook-backend/internal/service/overtime"
	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req timeentry.CreateTimeEntryRequest) (timeentry.TimeEntry, error)
	Update(ctx context.Context, req timeentry.UpdateTimeEntryRequest) (timeentry.TimeEntry, error)
	Delete(ctx context.Context, id, userID string) error
	List(ctx context.Context, userID string, from, to *time.Time) ([]timeentry.TimeEntry, error)
	Summary(ctx context.Context, userID string) (overtime.Stats, error)
}

type ServiceImpl struct {
	entryRepo   timeentry.Repository
	overtimeSvc overtime.Service

	// One cache per user session, created on first use. Fetches collapse
	// onto it and mutations keep it current.
	cacheMu      sync.Mutex
	caches       map[string]*Cache
	fetchTimeout time.Duration
}

func NewService(entryRepo timeentry.Repository, overtimeSvc overtime.Service) *ServiceImpl {
	return &ServiceImpl{
		entryRepo:    entryRepo,
		overtimeSvc:  overtimeSvc,
		caches:       make(map[string]*Cache),
		fetchTimeout: DefaultWatchdogTimeout,
	}
}

func (s *ServiceImpl) cacheFor(userID string) *Cache {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	if c, ok := s.caches[userID]; ok {
		return c
	}
	c := NewCache(func(ctx context.Context) ([]timeentry.TimeEntry, error) {
		return s.entryRepo.GetByUserID(ctx, userID, nil, nil)
	}, s.fetchTimeout)
	s.caches[userID] = c
	return c
}

// CalculateTotalHours derives worked hours from start/end times and the
// lunch break, floored at zero and rounded to 2 decimal places.
func CalculateTotalHours(startTime, endTime string, lunchMinutes int) float64 {
	start, okS := validator.ParseTimeOfDay(startTime)
	end, okE := validator.ParseTimeOfDay(endTime)
	if !okS || !okE {
		return 0
	}

	workedMinutes := end - start - lunchMinutes
	if workedMinutes <= 0 {
		return 0
	}

	hours := decimal.NewFromInt(int64(workedMinutes)).
		DivRound(decimal.NewFromInt(60), 2)
	f, _ := hours.Float64()
	return f
}

func (s *ServiceImpl) Create(ctx context.Context, req timeentry.CreateTimeEntryRequest) (timeentry.TimeEntry, error) {
	if err := req.Validate(); err != nil {
		return timeentry.TimeEntry{}, err
	}

	date, _ := validator.IsValidDate(req.Date)

	entry := timeentry.TimeEntry{
		UserID:            req.UserID,
		Date:              date,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		LunchBreakMinutes: req.LunchBreakMinutes,
		TotalHours:        CalculateTotalHours(req.StartTime, req.EndTime, req.LunchBreakMinutes),
	}
	if req.OvertimeHours != nil {
		entry.OvertimeHours = *req.OvertimeHours
	}

	created, err := s.entryRepo.Create(ctx, entry)
	if err != nil {
		return timeentry.TimeEntry{}, err
	}

	s.cacheFor(req.UserID).Insert(created)
	s.recalculateBalance(ctx, req.UserID)

	return created, nil
}

func (s *ServiceImpl) Update(ctx context.Context, req timeentry.UpdateTimeEntryRequest) (timeentry.TimeEntry, error) {
	if err := req.Validate(); err != nil {
		return timeentry.TimeEntry{}, err
	}

	current, err := s.entryRepo.GetByID(ctx, req.ID)
	if err != nil {
		return timeentry.TimeEntry{}, err
	}
	if current.UserID != req.UserID {
		return timeentry.TimeEntry{}, timeentry.ErrEntryNotFound
	}

	if req.StartTime != nil {
		current.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		current.EndTime = *req.EndTime
	}
	if req.LunchBreakMinutes != nil {
		current.LunchBreakMinutes = *req.LunchBreakMinutes
	}
	if req.OvertimeHours != nil {
		current.OvertimeHours = *req.OvertimeHours
	}

	// Cross-field rules re-checked against the merged entry, not just the
	// fields present in the request.
	errs := validateMerged(current)
	if len(errs) > 0 {
		return timeentry.TimeEntry{}, errs
	}

	current.TotalHours = CalculateTotalHours(current.StartTime, current.EndTime, current.LunchBreakMinutes)

	updated, err := s.entryRepo.Update(ctx, current)
	if err != nil {
		return timeentry.TimeEntry{}, err
	}

	s.cacheFor(req.UserID).Replace(updated)
	s.recalculateBalance(ctx, req.UserID)

	return updated, nil
}

func validateMerged(e timeentry.TimeEntry) validator.ValidationErrors {
	var errs validator.ValidationErrors
	start, okS := validator.ParseTimeOfDay(e.StartTime)
	end, okE := validator.ParseTimeOfDay(e.EndTime)
	if okS && okE && start >= end {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "End time must be after start time",
		})
	}
	return errs
}

func (s *ServiceImpl) Delete(ctx context.Context, id, userID string) error {
	if err := s.entryRepo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.cacheFor(userID).Remove(id)
	s.recalculateBalance(ctx, userID)

	return nil
}

// List serves from the session cache; the full history is loaded once and
// the optional range is filtered in memory.
func (s *ServiceImpl) List(ctx context.Context, userID string, from, to *time.Time) ([]timeentry.TimeEntry, error) {
	entries, err := s.cacheFor(userID).Fetch(ctx)
	if err != nil {
		return nil, err
	}

	s.recalculateBalance(ctx, userID)

	if from == nil && to == nil {
		return entries, nil
	}

	filtered := make([]timeentry.TimeEntry, 0, len(entries))
	for _, e := range entries {
		if from != nil && e.Date.Before(*from) {
			continue
		}
		if to != nil && e.Date.After(*to) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered, nil
}

func (s *ServiceImpl) Summary(ctx context.Context, userID string) (overtime.Stats, error) {
	entries, err := s.cacheFor(userID).Fetch(ctx)
	if err != nil {
		return overtime.Stats{}, err
	}

	return overtime.ComputeStats(entries, time.Now()), nil
}

// recalculateBalance refreshes the overtime balance after an entry mutation
// or fetch. The mutation has already succeeded at this point; a failed
// recalculation is logged and swallowed, never surfaced to the caller.
func (s *ServiceImpl) recalculateBalance(ctx context.Context, userID string) {
	if _, err := s.overtimeSvc.Recalculate(ctx, userID); err != nil {
		slog.Error("overtime balance recalculation failed", "user_id", userID, "error", err)
	}
}
