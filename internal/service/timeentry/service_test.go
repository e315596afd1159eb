package timeentry

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shiftbook/shiftbook-backend/internal/domain/timeentry"
	"github.com/shiftbook/shiftbook-backend/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEntryRepo struct {
	entries map[string]timeentry.TimeEntry
	nextID  int
	reads   int
}

func newFakeEntryRepo(entries ...timeentry.TimeEntry) *fakeEntryRepo {
	r := &fakeEntryRepo{entries: make(map[string]timeentry.TimeEntry)}
	for _, e := range entries {
		r.entries[e.ID] = e
	}
	return r
}

func (r *fakeEntryRepo) Create(ctx context.Context, entry timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	for _, e := range r.entries {
		if e.UserID == entry.UserID && e.Date.Equal(entry.Date) {
			return timeentry.TimeEntry{}, timeentry.ErrEntryExistsForDay
		}
	}
	r.nextID++
	entry.ID = fmt.Sprintf("entry-%d", r.nextID)
	r.entries[entry.ID] = entry
	return entry, nil
}

func (r *fakeEntryRepo) GetByID(ctx context.Context, id string) (timeentry.TimeEntry, error) {
	e, ok := r.entries[id]
	if !ok {
		return timeentry.TimeEntry{}, timeentry.ErrEntryNotFound
	}
	return e, nil
}

func (r *fakeEntryRepo) GetByUserID(ctx context.Context, userID string, from, to *time.Time) ([]timeentry.TimeEntry, error) {
	r.reads++
	var out []timeentry.TimeEntry
	for _, e := range r.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEntryRepo) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (timeentry.TimeEntry, error) {
	for _, e := range r.entries {
		if e.UserID == userID && e.Date.Equal(date) {
			return e, nil
		}
	}
	return timeentry.TimeEntry{}, timeentry.ErrEntryNotFound
}

func (r *fakeEntryRepo) Update(ctx context.Context, entry timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	if _, ok := r.entries[entry.ID]; !ok {
		return timeentry.TimeEntry{}, timeentry.ErrEntryNotFound
	}
	r.entries[entry.ID] = entry
	return entry, nil
}

func (r *fakeEntryRepo) Delete(ctx context.Context, id, userID string) error {
	e, ok := r.entries[id]
	if !ok || e.UserID != userID {
		return timeentry.ErrEntryNotFound
	}
	delete(r.entries, id)
	return nil
}

type fakeOvertimeService struct {
	calls int
}

func (s *fakeOvertimeService) Recalculate(ctx context.Context, userID string) (float64, error) {
	s.calls++
	return 0, nil
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func ptr[T any](v T) *T { return &v }

func TestCalculateTotalHours(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		lunch    int
		expected float64
	}{
		{"standard day", "09:00", "17:30", 30, 8},
		{"no lunch", "09:00", "17:00", 0, 8},
		{"uneven minutes", "08:45", "16:00", 45, 6.5},
		{"lunch swallows the day", "09:00", "09:30", 60, 0},
		{"invalid start", "9am", "17:00", 0, 0},
		{"invalid end", "09:00", "25:00", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateTotalHours(tt.start, tt.end, tt.lunch))
		})
	}
}

func TestTimeEntryService_Create_Success(t *testing.T) {
	repo := newFakeEntryRepo()
	overtimeSvc := &fakeOvertimeService{}
	svc := NewService(repo, overtimeSvc)

	created, err := svc.Create(context.Background(), timeentry.CreateTimeEntryRequest{
		UserID:            "u1",
		Date:              "2024-06-03",
		StartTime:         "09:00",
		EndTime:           "17:30",
		LunchBreakMinutes: 30,
		OvertimeHours:     ptr(1.5),
	})

	require.NoError(t, err)
	assert.Equal(t, 8.0, created.TotalHours)
	assert.Equal(t, 1.5, created.OvertimeHours)
	assert.Equal(t, 1, overtimeSvc.calls)
}

func TestTimeEntryService_Create_DuplicateDay(t *testing.T) {
	repo := newFakeEntryRepo(timeentry.TimeEntry{
		ID: "e1", UserID: "u1", Date: day("2024-06-03"),
	})
	svc := NewService(repo, &fakeOvertimeService{})

	_, err := svc.Create(context.Background(), timeentry.CreateTimeEntryRequest{
		UserID:    "u1",
		Date:      "2024-06-03",
		StartTime: "09:00",
		EndTime:   "17:00",
	})

	assert.ErrorIs(t, err, timeentry.ErrEntryExistsForDay)
}

func TestTimeEntryService_Create_ValidationErrors(t *testing.T) {
	svc := NewService(newFakeEntryRepo(), &fakeOvertimeService{})

	_, err := svc.Create(context.Background(), timeentry.CreateTimeEntryRequest{
		UserID:            "u1",
		Date:              "03/06/2024",
		StartTime:         "17:00",
		EndTime:           "09:00",
		LunchBreakMinutes: 500,
		OvertimeHours:     ptr(13.0),
	})

	var vErrs validator.ValidationErrors
	require.ErrorAs(t, err, &vErrs)
	fields := make(map[string]bool)
	for _, e := range vErrs {
		fields[e.Field] = true
	}
	assert.True(t, fields["date"])
	assert.True(t, fields["end_time"])
	assert.True(t, fields["lunch_break_minutes"])
	assert.True(t, fields["overtime_hours"])
}

func TestTimeEntryService_Update_MergesAndRecomputes(t *testing.T) {
	repo := newFakeEntryRepo(timeentry.TimeEntry{
		ID: "e1", UserID: "u1", Date: day("2024-06-03"),
		StartTime: "09:00", EndTime: "17:00", LunchBreakMinutes: 30,
		TotalHours: 7.5,
	})
	overtimeSvc := &fakeOvertimeService{}
	svc := NewService(repo, overtimeSvc)

	updated, err := svc.Update(context.Background(), timeentry.UpdateTimeEntryRequest{
		ID:      "e1",
		UserID:  "u1",
		EndTime: ptr("18:00"),
	})

	require.NoError(t, err)
	assert.Equal(t, "09:00", updated.StartTime)
	assert.Equal(t, "18:00", updated.EndTime)
	assert.Equal(t, 8.5, updated.TotalHours)
	assert.Equal(t, 1, overtimeSvc.calls)
}

func TestTimeEntryService_Update_MergedEndBeforeStart(t *testing.T) {
	repo := newFakeEntryRepo(timeentry.TimeEntry{
		ID: "e1", UserID: "u1", Date: day("2024-06-03"),
		StartTime: "09:00", EndTime: "17:00",
	})
	svc := NewService(repo, &fakeOvertimeService{})

	// Valid on its own, invalid against the stored start time.
	_, err := svc.Update(context.Background(), timeentry.UpdateTimeEntryRequest{
		ID:      "e1",
		UserID:  "u1",
		EndTime: ptr("08:00"),
	})

	var vErrs validator.ValidationErrors
	require.ErrorAs(t, err, &vErrs)
	require.Len(t, vErrs, 1)
	assert.Equal(t, "End time must be after start time", vErrs[0].Message)
}

func TestTimeEntryService_Update_OtherUsersEntry(t *testing.T) {
	repo := newFakeEntryRepo(timeentry.TimeEntry{
		ID: "e1", UserID: "u1", Date: day("2024-06-03"),
		StartTime: "09:00", EndTime: "17:00",
	})
	svc := NewService(repo, &fakeOvertimeService{})

	_, err := svc.Update(context.Background(), timeentry.UpdateTimeEntryRequest{
		ID:      "e1",
		UserID:  "intruder",
		EndTime: ptr("18:00"),
	})

	assert.ErrorIs(t, err, timeentry.ErrEntryNotFound)
}

func TestTimeEntryService_Delete(t *testing.T) {
	repo := newFakeEntryRepo(timeentry.TimeEntry{
		ID: "e1", UserID: "u1", Date: day("2024-06-03"),
	})
	overtimeSvc := &fakeOvertimeService{}
	svc := NewService(repo, overtimeSvc)

	err := svc.Delete(context.Background(), "e1", "u1")

	require.NoError(t, err)
	assert.Empty(t, repo.entries)
	assert.Equal(t, 1, overtimeSvc.calls)
}

func TestTimeEntryService_List_ServesFromCache(t *testing.T) {
	repo := newFakeEntryRepo(
		timeentry.TimeEntry{ID: "e1", UserID: "u1", Date: day("2024-06-03")},
		timeentry.TimeEntry{ID: "e2", UserID: "u1", Date: day("2024-06-10")},
	)
	svc := NewService(repo, &fakeOvertimeService{})

	first, err := svc.List(context.Background(), "u1", nil, nil)
	require.NoError(t, err)
	second, err := svc.List(context.Background(), "u1", nil, nil)
	require.NoError(t, err)

	assert.Len(t, first, 2)
	assert.Len(t, second, 2)
	assert.Equal(t, 1, repo.reads)
}

func TestTimeEntryService_List_RangeFilter(t *testing.T) {
	repo := newFakeEntryRepo(
		timeentry.TimeEntry{ID: "e1", UserID: "u1", Date: day("2024-06-03")},
		timeentry.TimeEntry{ID: "e2", UserID: "u1", Date: day("2024-06-10")},
		timeentry.TimeEntry{ID: "e3", UserID: "u1", Date: day("2024-06-17")},
	)
	svc := NewService(repo, &fakeOvertimeService{})

	entries, err := svc.List(context.Background(), "u1", ptr(day("2024-06-05")), ptr(day("2024-06-12")))

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "e2", entries[0].ID)
}

func TestTimeEntryService_Create_UpdatesCachedList(t *testing.T) {
	repo := newFakeEntryRepo(timeentry.TimeEntry{
		ID: "e1", UserID: "u1", Date: day("2024-06-03"),
	})
	svc := NewService(repo, &fakeOvertimeService{})

	_, err := svc.List(context.Background(), "u1", nil, nil)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), timeentry.CreateTimeEntryRequest{
		UserID:    "u1",
		Date:      "2024-06-04",
		StartTime: "09:00",
		EndTime:   "17:00",
	})
	require.NoError(t, err)

	entries, err := svc.List(context.Background(), "u1", nil, nil)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, 1, repo.reads)
}
