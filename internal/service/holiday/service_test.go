package holiday

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shiftbook/shiftbook-backend/internal/domain/holiday"
	"github.com/shiftbook/shiftbook-backend/internal/domain/notification"
	"github.com/shiftbook/shiftbook-backend/internal/domain/user"
	"github.com/shiftbook/shiftbook-backend/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHolidayRepo struct {
	requests map[string]holiday.Request
	nextID   int
}

func newFakeHolidayRepo(requests ...holiday.Request) *fakeHolidayRepo {
	r := &fakeHolidayRepo{requests: make(map[string]holiday.Request)}
	for _, req := range requests {
		r.requests[req.ID] = req
	}
	return r
}

func (r *fakeHolidayRepo) Create(ctx context.Context, req holiday.Request) (holiday.Request, error) {
	r.nextID++
	req.ID = fmt.Sprintf("req-%d", r.nextID)
	req.CreatedAt = time.Now()
	r.requests[req.ID] = req
	return req, nil
}

func (r *fakeHolidayRepo) GetByID(ctx context.Context, id string) (holiday.Request, error) {
	req, ok := r.requests[id]
	if !ok {
		return holiday.Request{}, holiday.ErrRequestNotFound
	}
	return req, nil
}

func (r *fakeHolidayRepo) GetByUserID(ctx context.Context, userID string, year *int) ([]holiday.Request, error) {
	var out []holiday.Request
	for _, req := range r.requests {
		if req.UserID != userID {
			continue
		}
		if year != nil && req.StartDate.Year() != *year {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

func (r *fakeHolidayRepo) ListByStatus(ctx context.Context, status *holiday.Status) ([]holiday.Request, error) {
	var out []holiday.Request
	for _, req := range r.requests {
		if status == nil || req.Status == *status {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *fakeHolidayRepo) UpdateStatus(ctx context.Context, id string, status holiday.Status, decidedBy *string, adminNote *string, decidedAt time.Time) (holiday.Request, error) {
	req, ok := r.requests[id]
	if !ok {
		return holiday.Request{}, holiday.ErrRequestNotFound
	}
	if req.Status != holiday.StatusPending {
		return holiday.Request{}, holiday.ErrAlreadyProcessed
	}
	req.Status = status
	req.DecidedBy = decidedBy
	req.AdminNote = adminNote
	req.DecidedAt = &decidedAt
	r.requests[id] = req
	return req, nil
}

func (r *fakeHolidayRepo) Delete(ctx context.Context, id, userID string) error {
	req, ok := r.requests[id]
	if !ok || req.UserID != userID {
		return holiday.ErrRequestNotFound
	}
	if req.Status != holiday.StatusPending {
		return holiday.ErrOnlyPendingCancelable
	}
	delete(r.requests, id)
	return nil
}

type fakeNotifier struct {
	queued  []notification.CreateNotificationRequest
	removed []string
}

func (n *fakeNotifier) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	n.queued = append(n.queued, req)
	return nil
}

func (n *fakeNotifier) QueueBulkNotification(ctx context.Context, reqs []notification.CreateNotificationRequest) error {
	n.queued = append(n.queued, reqs...)
	return nil
}

func (n *fakeNotifier) RemoveUnreadByReference(ctx context.Context, referenceID string, notifType notification.NotificationType) error {
	n.removed = append(n.removed, referenceID)
	return nil
}

type fakeUserRepo struct {
	users map[string]user.User
}

func newFakeUserRepo(users ...user.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]user.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) List(ctx context.Context) ([]user.User, error) {
	out := make([]user.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) ListAdminIDs(ctx context.Context) ([]string, error) {
	var ids []string
	for _, u := range r.users {
		if u.Role == user.RoleAdmin {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func (r *fakeUserRepo) UpdateSettings(ctx context.Context, req user.UpdateSettingsRequest) error {
	return nil
}

func (r *fakeUserRepo) UpdateOvertimeBalance(ctx context.Context, userID string, balance float64) error {
	return nil
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func newTestService(holidayRepo *fakeHolidayRepo, userRepo *fakeUserRepo, notifier *fakeNotifier, today string) *ServiceImpl {
	svc := NewService(holidayRepo, userRepo, notifier)
	svc.now = func() time.Time { return day(today) }
	return svc
}

func TestCalculateBusinessDays(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected int
	}{
		{"full work week", "2024-06-03", "2024-06-07", 5},
		{"weekend only", "2024-06-01", "2024-06-02", 0},
		{"spanning a weekend", "2024-06-07", "2024-06-10", 2},
		{"single business day", "2024-06-05", "2024-06-05", 1},
		{"start after end", "2024-06-07", "2024-06-03", 0},
		{"invalid start date", "not-a-date", "2024-06-07", 0},
		{"invalid end date", "2024-06-03", "junk", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateBusinessDays(tt.start, tt.end))
		})
	}
}

func TestUsedDays_OnlyApprovedInYear(t *testing.T) {
	requests := []holiday.Request{
		{StartDate: day("2024-03-04"), DaysRequested: 5, Status: holiday.StatusApproved},
		{StartDate: day("2024-07-01"), DaysRequested: 3, Status: holiday.StatusPending},
		{StartDate: day("2024-08-05"), DaysRequested: 2, Status: holiday.StatusDenied},
		{StartDate: day("2023-12-18"), DaysRequested: 4, Status: holiday.StatusApproved},
	}

	assert.Equal(t, 5, UsedDays(requests, 2024))
	assert.Equal(t, 4, UsedDays(requests, 2023))
}

func TestRemainingDays_FlooredAtZero(t *testing.T) {
	assert.Equal(t, 15, RemainingDays(25, 10))
	assert.Equal(t, 0, RemainingDays(25, 25))
	assert.Equal(t, 0, RemainingDays(25, 30))
}

func TestStatusForDate_ApprovedWinsOverlap(t *testing.T) {
	requests := []holiday.Request{
		{StartDate: day("2024-06-03"), EndDate: day("2024-06-07"), Status: holiday.StatusDenied},
		{StartDate: day("2024-06-05"), EndDate: day("2024-06-06"), Status: holiday.StatusPending},
		{StartDate: day("2024-06-06"), EndDate: day("2024-06-06"), Status: holiday.StatusApproved},
	}

	status, ok := StatusForDate(requests, day("2024-06-06"))
	require.True(t, ok)
	assert.Equal(t, holiday.StatusApproved, status)

	status, ok = StatusForDate(requests, day("2024-06-05"))
	require.True(t, ok)
	assert.Equal(t, holiday.StatusPending, status)

	status, ok = StatusForDate(requests, day("2024-06-03"))
	require.True(t, ok)
	assert.Equal(t, holiday.StatusDenied, status)

	_, ok = StatusForDate(requests, day("2024-06-10"))
	assert.False(t, ok)
}

func TestHolidayService_StatusOn(t *testing.T) {
	holidayRepo := newFakeHolidayRepo(
		holiday.Request{
			ID: "r1", UserID: "u1",
			StartDate: day("2024-06-03"), EndDate: day("2024-06-07"),
			Status: holiday.StatusApproved,
		},
		holiday.Request{
			ID: "r2", UserID: "someone-else",
			StartDate: day("2024-06-10"), EndDate: day("2024-06-14"),
			Status: holiday.StatusApproved,
		},
	)
	svc := newTestService(holidayRepo, newFakeUserRepo(), &fakeNotifier{}, "2024-06-01")

	status, found, err := svc.StatusOn(context.Background(), "u1", day("2024-06-05"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, holiday.StatusApproved, status)

	// Another user's request never shows up on this user's calendar.
	_, found, err = svc.StatusOn(context.Background(), "u1", day("2024-06-12"))
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = svc.StatusOn(context.Background(), "u1", day("2024-06-22"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHolidayService_Create_Success(t *testing.T) {
	holidayRepo := newFakeHolidayRepo()
	userRepo := newFakeUserRepo(
		user.User{ID: "u1", FullName: "Sam Wilson", HolidayAllowance: 25},
		user.User{ID: "a1", Role: user.RoleAdmin},
		user.User{ID: "a2", Role: user.RoleAdmin},
	)
	notifier := &fakeNotifier{}
	svc := newTestService(holidayRepo, userRepo, notifier, "2024-06-01")

	created, err := svc.Create(context.Background(), holiday.CreateRequestRequest{
		UserID:    "u1",
		StartDate: "2024-06-03",
		EndDate:   "2024-06-07",
	})

	require.NoError(t, err)
	assert.Equal(t, holiday.StatusPending, created.Status)
	assert.Equal(t, 5, created.DaysRequested)
	assert.Len(t, notifier.queued, 2)
	assert.Equal(t, "New holiday request", notifier.queued[0].Title)
	assert.Contains(t, notifier.queued[0].Message, "Sam Wilson requested 5 day(s) off")
}

func TestHolidayService_Create_FreshlyRegisteredUser(t *testing.T) {
	// New accounts carry the default allowance, so a first request goes
	// through without any admin setup.
	u := user.NewEmployee("new@example.com", "hash", "New Hire")
	u.ID = "u1"
	svc := newTestService(newFakeHolidayRepo(), newFakeUserRepo(u), &fakeNotifier{}, "2024-06-01")

	summary, err := svc.Allowance(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 25, summary.Remaining)

	created, err := svc.Create(context.Background(), holiday.CreateRequestRequest{
		UserID:    "u1",
		StartDate: "2024-06-03",
		EndDate:   "2024-06-07",
	})

	require.NoError(t, err)
	assert.Equal(t, 5, created.DaysRequested)
}

func TestHolidayService_Create_Backdated(t *testing.T) {
	svc := newTestService(newFakeHolidayRepo(), newFakeUserRepo(
		user.User{ID: "u1", HolidayAllowance: 25},
	), &fakeNotifier{}, "2024-06-10")

	_, err := svc.Create(context.Background(), holiday.CreateRequestRequest{
		UserID:    "u1",
		StartDate: "2024-06-03",
		EndDate:   "2024-06-07",
	})

	var vErrs validator.ValidationErrors
	require.ErrorAs(t, err, &vErrs)
	require.Len(t, vErrs, 1)
	assert.Equal(t, "Start date cannot be in the past", vErrs[0].Message)
}

func TestHolidayService_Create_InsufficientAllowance(t *testing.T) {
	holidayRepo := newFakeHolidayRepo(holiday.Request{
		ID:            "existing",
		UserID:        "u1",
		StartDate:     day("2024-02-05"),
		EndDate:       day("2024-02-16"),
		DaysRequested: 10,
		Status:        holiday.StatusApproved,
	})
	svc := newTestService(holidayRepo, newFakeUserRepo(
		user.User{ID: "u1", HolidayAllowance: 25},
	), &fakeNotifier{}, "2024-06-01")

	// 16 business days against the 15 remaining.
	_, err := svc.Create(context.Background(), holiday.CreateRequestRequest{
		UserID:    "u1",
		StartDate: "2024-06-03",
		EndDate:   "2024-06-24",
	})

	var vErrs validator.ValidationErrors
	require.ErrorAs(t, err, &vErrs)
	require.Len(t, vErrs, 1)
	assert.Equal(t, "Not enough holiday days remaining. You have 15 days left.", vErrs[0].Message)
}

func TestHolidayService_Cancel_Pending(t *testing.T) {
	holidayRepo := newFakeHolidayRepo(holiday.Request{
		ID:     "req-1",
		UserID: "u1",
		Status: holiday.StatusPending,
	})
	notifier := &fakeNotifier{}
	svc := newTestService(holidayRepo, newFakeUserRepo(), notifier, "2024-06-01")

	err := svc.Cancel(context.Background(), "req-1", "u1")

	require.NoError(t, err)
	_, err = holidayRepo.GetByID(context.Background(), "req-1")
	assert.ErrorIs(t, err, holiday.ErrRequestNotFound)
	assert.Equal(t, []string{"req-1"}, notifier.removed)
}

func TestHolidayService_Cancel_ApprovedRejected(t *testing.T) {
	holidayRepo := newFakeHolidayRepo(holiday.Request{
		ID:     "req-1",
		UserID: "u1",
		Status: holiday.StatusApproved,
	})
	svc := newTestService(holidayRepo, newFakeUserRepo(), &fakeNotifier{}, "2024-06-01")

	err := svc.Cancel(context.Background(), "req-1", "u1")

	assert.ErrorIs(t, err, holiday.ErrOnlyPendingCancelable)
	stored, getErr := holidayRepo.GetByID(context.Background(), "req-1")
	require.NoError(t, getErr)
	assert.Equal(t, holiday.StatusApproved, stored.Status)
}

// staleReadRepo reports every request as still pending on reads, standing in
// for an admin decision landing between the status check and the delete.
type staleReadRepo struct {
	*fakeHolidayRepo
}

func (r *staleReadRepo) GetByID(ctx context.Context, id string) (holiday.Request, error) {
	req, err := r.fakeHolidayRepo.GetByID(ctx, id)
	if err != nil {
		return holiday.Request{}, err
	}
	req.Status = holiday.StatusPending
	return req, nil
}

func TestHolidayService_Cancel_DecidedAfterStatusCheck(t *testing.T) {
	holidayRepo := newFakeHolidayRepo(holiday.Request{
		ID:     "req-1",
		UserID: "u1",
		Status: holiday.StatusApproved,
	})
	svc := NewService(&staleReadRepo{holidayRepo}, newFakeUserRepo(), &fakeNotifier{})

	err := svc.Cancel(context.Background(), "req-1", "u1")

	assert.ErrorIs(t, err, holiday.ErrOnlyPendingCancelable)
	stored, getErr := holidayRepo.GetByID(context.Background(), "req-1")
	require.NoError(t, getErr)
	assert.Equal(t, holiday.StatusApproved, stored.Status)
}

func TestHolidayService_Cancel_OtherUsersRequest(t *testing.T) {
	holidayRepo := newFakeHolidayRepo(holiday.Request{
		ID:     "req-1",
		UserID: "u1",
		Status: holiday.StatusPending,
	})
	svc := newTestService(holidayRepo, newFakeUserRepo(), &fakeNotifier{}, "2024-06-01")

	err := svc.Cancel(context.Background(), "req-1", "someone-else")

	assert.ErrorIs(t, err, holiday.ErrRequestNotFound)
}

func TestHolidayService_Approve_NotifiesRequester(t *testing.T) {
	holidayRepo := newFakeHolidayRepo(holiday.Request{
		ID:        "req-1",
		UserID:    "u1",
		StartDate: day("2024-06-03"),
		EndDate:   day("2024-06-07"),
		Status:    holiday.StatusPending,
	})
	notifier := &fakeNotifier{}
	svc := newTestService(holidayRepo, newFakeUserRepo(), notifier, "2024-06-01")

	updated, err := svc.Approve(context.Background(), holiday.DecideRequestRequest{
		RequestID: "req-1",
		DecidedBy: "a1",
	})

	require.NoError(t, err)
	assert.Equal(t, holiday.StatusApproved, updated.Status)
	require.NotNil(t, updated.DecidedBy)
	assert.Equal(t, "a1", *updated.DecidedBy)
	require.Len(t, notifier.queued, 1)
	assert.Equal(t, "Holiday request approved", notifier.queued[0].Title)
	assert.Equal(t, "u1", notifier.queued[0].RecipientID)
}

func TestHolidayService_Deny_IncludesAdminNote(t *testing.T) {
	holidayRepo := newFakeHolidayRepo(holiday.Request{
		ID:        "req-1",
		UserID:    "u1",
		StartDate: day("2024-06-03"),
		EndDate:   day("2024-06-07"),
		Status:    holiday.StatusPending,
	})
	notifier := &fakeNotifier{}
	svc := newTestService(holidayRepo, newFakeUserRepo(), notifier, "2024-06-01")

	note := "Team is short-staffed that week"
	_, err := svc.Deny(context.Background(), holiday.DecideRequestRequest{
		RequestID: "req-1",
		DecidedBy: "a1",
		AdminNote: &note,
	})

	require.NoError(t, err)
	require.Len(t, notifier.queued, 1)
	assert.Equal(t, "Holiday request denied", notifier.queued[0].Title)
	assert.Contains(t, notifier.queued[0].Message, ": Team is short-staffed that week")
}

func TestHolidayService_Decide_AlreadyProcessed(t *testing.T) {
	holidayRepo := newFakeHolidayRepo(holiday.Request{
		ID:     "req-1",
		UserID: "u1",
		Status: holiday.StatusDenied,
	})
	svc := newTestService(holidayRepo, newFakeUserRepo(), &fakeNotifier{}, "2024-06-01")

	_, err := svc.Approve(context.Background(), holiday.DecideRequestRequest{
		RequestID: "req-1",
		DecidedBy: "a1",
	})

	assert.ErrorIs(t, err, holiday.ErrAlreadyProcessed)
}

func TestHolidayService_Allowance(t *testing.T) {
	holidayRepo := newFakeHolidayRepo(
		holiday.Request{
			ID: "r1", UserID: "u1",
			StartDate: day("2024-02-05"), EndDate: day("2024-02-09"),
			DaysRequested: 5, Status: holiday.StatusApproved,
		},
		holiday.Request{
			ID: "r2", UserID: "u1",
			StartDate: day("2024-07-01"), EndDate: day("2024-07-05"),
			DaysRequested: 5, Status: holiday.StatusPending,
		},
	)
	svc := newTestService(holidayRepo, newFakeUserRepo(
		user.User{ID: "u1", HolidayAllowance: 25},
	), &fakeNotifier{}, "2024-06-01")

	summary, err := svc.Allowance(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, 25, summary.Allowance)
	assert.Equal(t, 5, summary.Used)
	assert.Equal(t, 20, summary.Remaining)
}
