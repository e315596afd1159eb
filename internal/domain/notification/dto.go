package notification

import "time"

// CreateNotificationRequest is a queued delivery request.
type CreateNotificationRequest struct {
	RecipientID string
	Type        NotificationType
	Title       string
	Message     string
	ReferenceID *string
}

type NotificationResponse struct {
	ID          string           `json:"id"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	ReferenceID *string          `json:"reference_id,omitempty"`
	IsRead      bool             `json:"is_read"`
	ReadAt      *time.Time       `json:"read_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
	UnreadCount   int                    `json:"unread_count"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"page_size"`
}

type MarkAsReadRequest struct {
	NotificationIDs []string `json:"notification_ids"`
}

// SSEEvent is the payload pushed over the realtime stream. Data is a
// NotificationResponse for delivery events and a small map for sync events.
type SSEEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}
