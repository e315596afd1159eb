package holiday

import (
	"context"
	"fmt"
	"time"

	"github.com/shiftbook/shiftbook-backend/internal/domain/holiday"
	"github.com/shiftbook/shiftbook-backend/internal/domain/notification"
	"github.com/shiftbook/shiftbook-backend/internal/domain/user"
	"github.com/shiftbook/shiftbook-backend/internal/pkg/validator"
)

// Notifier is the slice of the notification service this package needs.
type Notifier interface {
	QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error
	QueueBulkNotification(ctx context.Context, reqs []notification.CreateNotificationRequest) error
	RemoveUnreadByReference(ctx context.Context, referenceID string, notifType notification.NotificationType) error
}

type Service interface {
	Create(ctx context.Context, req holiday.CreateRequestRequest) (holiday.Request, error)
	List(ctx context.Context, userID string, year *int) ([]holiday.Request, error)
	ListAll(ctx context.Context, status *holiday.Status) ([]holiday.Request, error)
	StatusOn(ctx context.Context, userID string, date time.Time) (holiday.Status, bool, error)
	Cancel(ctx context.Context, requestID, userID string) error
	Approve(ctx context.Context, req holiday.DecideRequestRequest) (holiday.Request, error)
	Deny(ctx context.Context, req holiday.DecideRequestRequest) (holiday.Request, error)
	Allowance(ctx context.Context, userID string) (holiday.AllowanceSummary, error)
}

type ServiceImpl struct {
	holidayRepo holiday.Repository
	userRepo    user.Repository
	notifier    Notifier

	// now is swappable so backdating rules can be tested against a fixed day.
	now func() time.Time
}

func NewService(holidayRepo holiday.Repository, userRepo user.Repository, notifier Notifier) *ServiceImpl {
	return &ServiceImpl{
		holidayRepo: holidayRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		now:         time.Now,
	}
}

// CalculateBusinessDays counts Monday-through-Friday days in the inclusive
// span. Unparseable dates or a start after the end count as 0.
func CalculateBusinessDays(startDate, endDate string) int {
	start, ok := validator.IsValidDate(startDate)
	if !ok {
		return 0
	}
	end, ok := validator.IsValidDate(endDate)
	if !ok {
		return 0
	}
	if start.After(end) {
		return 0
	}

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if validator.IsBusinessDay(d) {
			days++
		}
	}
	return days
}

// UsedDays sums the business days of approved requests starting in the given
// year. Pending and denied requests consume nothing.
func UsedDays(requests []holiday.Request, year int) int {
	used := 0
	for _, r := range requests {
		if r.Status == holiday.StatusApproved && r.StartDate.Year() == year {
			used += r.DaysRequested
		}
	}
	return used
}

// RemainingDays floors the remainder at zero so an over-allocated year never
// reports a negative allowance.
func RemainingDays(allowance, used int) int {
	if remaining := allowance - used; remaining > 0 {
		return remaining
	}
	return 0
}

// StatusForDate resolves which request, if any, covers the date. When
// overlapping requests disagree, approved wins over pending, pending over
// denied.
func StatusForDate(requests []holiday.Request, date time.Time) (holiday.Status, bool) {
	var (
		found  bool
		status holiday.Status
	)
	rank := map[holiday.Status]int{
		holiday.StatusDenied:   0,
		holiday.StatusPending:  1,
		holiday.StatusApproved: 2,
	}
	for i := range requests {
		r := &requests[i]
		if !r.Contains(date) {
			continue
		}
		if !found || rank[r.Status] > rank[status] {
			status = r.Status
			found = true
		}
	}
	return status, found
}

func (s *ServiceImpl) Create(ctx context.Context, req holiday.CreateRequestRequest) (holiday.Request, error) {
	if err := req.Validate(); err != nil {
		return holiday.Request{}, err
	}

	u, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return holiday.Request{}, fmt.Errorf("failed to load requesting user: %w", err)
	}

	summary, err := s.Allowance(ctx, req.UserID)
	if err != nil {
		return holiday.Request{}, err
	}

	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)
	days := CalculateBusinessDays(req.StartDate, req.EndDate)

	var errs validator.ValidationErrors
	if today := truncateToDay(s.now()); start.Before(today) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "Start date cannot be in the past",
		})
	}
	if days > summary.Remaining {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: fmt.Sprintf("Not enough holiday days remaining. You have %d days left.", summary.Remaining),
		})
	}
	if len(errs) > 0 {
		return holiday.Request{}, errs
	}

	created, err := s.holidayRepo.Create(ctx, holiday.Request{
		UserID:        req.UserID,
		StartDate:     start,
		EndDate:       end,
		DaysRequested: days,
		Status:        holiday.StatusPending,
		Reason:        req.Reason,
	})
	if err != nil {
		return holiday.Request{}, err
	}

	s.notifyAdmins(ctx, u, created)

	return created, nil
}

// notifyAdmins fans a new-request notification out to every admin. Delivery
// failures are logged inside the notification service; a request that was
// stored successfully is never failed over them.
func (s *ServiceImpl) notifyAdmins(ctx context.Context, requester user.User, r holiday.Request) {
	adminIDs, err := s.userRepo.ListAdminIDs(ctx)
	if err != nil {
		return
	}

	reqs := make([]notification.CreateNotificationRequest, 0, len(adminIDs))
	for _, adminID := range adminIDs {
		reqs = append(reqs, notification.CreateNotificationRequest{
			RecipientID: adminID,
			Type:        notification.TypeHolidayRequest,
			Title:       "New holiday request",
			Message: fmt.Sprintf("%s requested %d day(s) off (%s to %s)",
				requester.FullName, r.DaysRequested,
				r.StartDate.Format("2006-01-02"), r.EndDate.Format("2006-01-02")),
			ReferenceID: &r.ID,
		})
	}
	_ = s.notifier.QueueBulkNotification(ctx, reqs)
}

func (s *ServiceImpl) List(ctx context.Context, userID string, year *int) ([]holiday.Request, error) {
	return s.holidayRepo.GetByUserID(ctx, userID, year)
}

// StatusOn resolves the holiday status covering a single day, for
// calendar views. The second return is false when no request spans the
// date.
func (s *ServiceImpl) StatusOn(ctx context.Context, userID string, date time.Time) (holiday.Status, bool, error) {
	year := date.Year()
	requests, err := s.holidayRepo.GetByUserID(ctx, userID, &year)
	if err != nil {
		return "", false, fmt.Errorf("failed to load holiday requests for date lookup: %w", err)
	}

	status, ok := StatusForDate(requests, date)
	return status, ok, nil
}

func (s *ServiceImpl) ListAll(ctx context.Context, status *holiday.Status) ([]holiday.Request, error) {
	return s.holidayRepo.ListByStatus(ctx, status)
}

// Cancel withdraws a still-pending request. The status check runs against
// fresh store state and the delete is owner-scoped, so a request decided in
// between cannot be removed. Unread admin notifications for the request are
// swept away with it.
func (s *ServiceImpl) Cancel(ctx context.Context, requestID, userID string) error {
	r, err := s.holidayRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if r.UserID != userID {
		return holiday.ErrRequestNotFound
	}
	if r.Status != holiday.StatusPending {
		return holiday.ErrOnlyPendingCancelable
	}

	if err := s.holidayRepo.Delete(ctx, requestID, userID); err != nil {
		return err
	}

	if err := s.notifier.RemoveUnreadByReference(ctx, requestID, notification.TypeHolidayRequest); err != nil {
		return fmt.Errorf("failed to remove notifications for cancelled request: %w", err)
	}

	return nil
}

func (s *ServiceImpl) Approve(ctx context.Context, req holiday.DecideRequestRequest) (holiday.Request, error) {
	return s.decide(ctx, req, holiday.StatusApproved)
}

func (s *ServiceImpl) Deny(ctx context.Context, req holiday.DecideRequestRequest) (holiday.Request, error) {
	return s.decide(ctx, req, holiday.StatusDenied)
}

func (s *ServiceImpl) decide(ctx context.Context, req holiday.DecideRequestRequest, status holiday.Status) (holiday.Request, error) {
	if err := req.Validate(); err != nil {
		return holiday.Request{}, err
	}

	updated, err := s.holidayRepo.UpdateStatus(ctx, req.RequestID, status, &req.DecidedBy, req.AdminNote, s.now())
	if err != nil {
		return holiday.Request{}, err
	}

	s.notifyDecision(ctx, updated)

	return updated, nil
}

func (s *ServiceImpl) notifyDecision(ctx context.Context, r holiday.Request) {
	notifType := notification.TypeHolidayApproved
	title := "Holiday request approved"
	verdict := "approved"
	if r.Status == holiday.StatusDenied {
		notifType = notification.TypeHolidayDenied
		title = "Holiday request denied"
		verdict = "denied"
	}

	msg := fmt.Sprintf("Your holiday request (%s to %s) was %s",
		r.StartDate.Format("2006-01-02"), r.EndDate.Format("2006-01-02"), verdict)
	if r.AdminNote != nil && *r.AdminNote != "" {
		msg += ": " + *r.AdminNote
	}

	_ = s.notifier.QueueNotification(ctx, notification.CreateNotificationRequest{
		RecipientID: r.UserID,
		Type:        notifType,
		Title:       title,
		Message:     msg,
		ReferenceID: &r.ID,
	})
}

// Allowance reports the current-year holiday budget: total allowance, days
// consumed by approved requests starting this year, and the floor-at-zero
// remainder.
func (s *ServiceImpl) Allowance(ctx context.Context, userID string) (holiday.AllowanceSummary, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return holiday.AllowanceSummary{}, fmt.Errorf("failed to load user for allowance summary: %w", err)
	}

	year := s.now().Year()
	requests, err := s.holidayRepo.GetByUserID(ctx, userID, &year)
	if err != nil {
		return holiday.AllowanceSummary{}, fmt.Errorf("failed to load holiday requests for allowance summary: %w", err)
	}

	used := UsedDays(requests, year)
	return holiday.AllowanceSummary{
		Allowance: u.HolidayAllowance,
		Used:      used,
		Remaining: RemainingDays(u.HolidayAllowance, used),
	}, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
