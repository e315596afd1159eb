package notification

import "context"

// Repository defines the notification repository interface
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	CreateBatch(ctx context.Context, notifications []*Notification) error
	GetByUserID(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) ([]*Notification, int, error)
	GetUnreadCount(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, ids []string, userID string) error
	MarkAllAsRead(ctx context.Context, userID string) error
	// DeleteUnreadByReference removes unread notifications that point at the
	// given reference (cancellation cascade). Read ones stay.
	DeleteUnreadByReference(ctx context.Context, referenceID string, notifType NotificationType) error
	Delete(ctx context.Context, id string, userID string) error
}
