package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/shiftbook/shiftbook-backend/internal/domain/auth"
	"github.com/shiftbook/shiftbook-backend/internal/domain/holiday"
	"github.com/shiftbook/shiftbook-backend/internal/domain/notification"
	"github.com/shiftbook/shiftbook-backend/internal/domain/timeentry"
	"github.com/shiftbook/shiftbook-backend/internal/domain/user"
	"github.com/shiftbook/shiftbook-backend/internal/pkg/validator"
	"github.com/shiftbook/shiftbook-backend/internal/service/overtime"
	timeentryservice "github.com/shiftbook/shiftbook-backend/internal/service/timeentry"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrNotAuthenticated):
		Unauthorized(w, "Not authenticated")
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Time entry domain errors
	case errors.Is(err, timeentry.ErrEntryNotFound):
		NotFound(w, "Time entry not found")
	case errors.Is(err, timeentry.ErrEntryExistsForDay):
		Conflict(w, "A time entry already exists for this date")
	case errors.Is(err, timeentryservice.ErrFetchTimeout):
		RequestTimeout(w, "Time entry fetch timed out")

	// Holiday domain errors
	case errors.Is(err, holiday.ErrRequestNotFound):
		NotFound(w, "Holiday request not found")
	case errors.Is(err, holiday.ErrAlreadyProcessed):
		Conflict(w, "Holiday request already processed")
	case errors.Is(err, holiday.ErrOnlyPendingCancelable):
		Conflict(w, "Can only cancel pending requests")
	case errors.Is(err, holiday.ErrInsufficientAllowance):
		BadRequest(w, "Not enough holiday days remaining", nil)

	// Notification domain errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")

	// Balance engine errors
	case errors.Is(err, overtime.ErrInvalidDailyTarget):
		BadRequest(w, "Daily target hours must be greater than zero", nil)

	// Deadline-bounded operations
	case errors.Is(err, context.DeadlineExceeded):
		RequestTimeout(w, "Request timed out")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
