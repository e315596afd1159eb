package notification

import "time"

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeHolidayRequest  NotificationType = "holiday_request"
	TypeHolidayApproved NotificationType = "holiday_approved"
	TypeHolidayDenied   NotificationType = "holiday_denied"
)

// Notification represents a notification entity. ReferenceID links back to
// the holiday request that produced it; cancellation of a pending request
// removes its unread notifications but preserves read ones.
type Notification struct {
	ID          string
	RecipientID string
	Type        NotificationType
	Title       string
	Message     string
	ReferenceID *string
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
