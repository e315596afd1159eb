package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shiftbook/shiftbook-backend/internal/domain/user"
	"github.com/shiftbook/shiftbook-backend/internal/handler/http/middleware"
	"github.com/shiftbook/shiftbook-backend/internal/handler/http/response"
	userservice "github.com/shiftbook/shiftbook-backend/internal/service/user"
)

type UserHandler interface {
	GetProfile(w http.ResponseWriter, r *http.Request)
	UpdateSettings(w http.ResponseWriter, r *http.Request)
	GetOvertimeSummary(w http.ResponseWriter, r *http.Request)
}

type UserHandlerImpl struct {
	userService userservice.Service
}

func NewUserHandler(userService userservice.Service) UserHandler {
	return &UserHandlerImpl{userService: userService}
}

// GetProfile implements UserHandler.
func (h *UserHandlerImpl) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.userService.GetProfile(r.Context(), middleware.UserID(r))
	if err != nil {
		slog.Error("GetProfile service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, profile)
}

// UpdateSettings implements UserHandler.
func (h *UserHandlerImpl) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req user.UpdateSettingsRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateSettings decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = middleware.UserID(r)

	profile, err := h.userService.UpdateSettings(r.Context(), req)
	if err != nil {
		slog.Error("UpdateSettings service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Settings updated", profile)
}

// GetOvertimeSummary implements UserHandler.
func (h *UserHandlerImpl) GetOvertimeSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.userService.OvertimeSummary(r.Context(), middleware.UserID(r))
	if err != nil {
		slog.Error("GetOvertimeSummary service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}
