package timeentry

import (
	"context"
	"time"
)

// Repository - interface for the time_entries table. All mutations are
// additionally scoped to the owning user id (defense in depth on top of
// handler-level auth).
type Repository interface {
	Create(ctx context.Context, entry TimeEntry) (TimeEntry, error)
	GetByID(ctx context.Context, id string) (TimeEntry, error)
	GetByUserID(ctx context.Context, userID string, from, to *time.Time) ([]TimeEntry, error)
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (TimeEntry, error)
	Update(ctx context.Context, entry TimeEntry) (TimeEntry, error)
	Delete(ctx context.Context, id, userID string) error
}
