package user

import "context"

// Repository - interface for the users table
type Repository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context) ([]User, error)
	ListAdminIDs(ctx context.Context) ([]string, error)
	UpdateSettings(ctx context.Context, req UpdateSettingsRequest) error
	UpdateOvertimeBalance(ctx context.Context, userID string, balance float64) error
}
