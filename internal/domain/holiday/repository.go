package holiday

import (
	"context"
	"time"
)

// Repository - interface for the holiday_requests table.
type Repository interface {
	Create(ctx context.Context, req Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	// GetByUserID returns the user's requests, most recent start date first.
	// A non-nil year restricts to requests starting in that year.
	GetByUserID(ctx context.Context, userID string, year *int) ([]Request, error)
	// ListByStatus returns requests across all users, for admin review.
	// A nil status returns every request.
	ListByStatus(ctx context.Context, status *Status) ([]Request, error)
	// UpdateStatus transitions a pending request and returns the updated
	// row. Non-pending requests yield ErrAlreadyProcessed.
	UpdateStatus(ctx context.Context, id string, status Status, decidedBy *string, adminNote *string, decidedAt time.Time) (Request, error)
	// Delete removes a pending request, scoped to the owning user. A
	// request decided in the meantime yields ErrOnlyPendingCancelable.
	Delete(ctx context.Context, id, userID string) error
}
