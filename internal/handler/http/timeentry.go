package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shiftbook/shiftbook-backend/internal/domain/timeentry"
	"github.com/shiftbook/shiftbook-backend/internal/handler/http/middleware"
	"github.com/shiftbook/shiftbook-backend/internal/handler/http/response"
	timeentryservice "github.com/shiftbook/shiftbook-backend/internal/service/timeentry"
)

type TimeEntryHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
}

type TimeEntryHandlerImpl struct {
	entryService timeentryservice.Service
}

func NewTimeEntryHandler(entryService timeentryservice.Service) TimeEntryHandler {
	return &TimeEntryHandlerImpl{entryService: entryService}
}

// List implements TimeEntryHandler. Optional ?from and ?to narrow the range.
func (h *TimeEntryHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var from, to *time.Time
	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.BadRequest(w, "from must be in YYYY-MM-DD format", nil)
			return
		}
		from = &parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.BadRequest(w, "to must be in YYYY-MM-DD format", nil)
			return
		}
		to = &parsed
	}

	entries, err := h.entryService.List(r.Context(), middleware.UserID(r), from, to)
	if err != nil {
		slog.Error("List time entries service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, toEntryResponses(entries))
}

// Create implements TimeEntryHandler.
func (h *TimeEntryHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req timeentry.CreateTimeEntryRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create time entry decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.UserID = middleware.UserID(r)

	created, err := h.entryService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Create time entry service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Time entry created", toEntryResponse(created))
}

// Update implements TimeEntryHandler.
func (h *TimeEntryHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req timeentry.UpdateTimeEntryRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update time entry decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.UserID = middleware.UserID(r)

	updated, err := h.entryService.Update(r.Context(), req)
	if err != nil {
		slog.Error("Update time entry service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time entry updated", toEntryResponse(updated))
}

// Delete implements TimeEntryHandler.
func (h *TimeEntryHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.entryService.Delete(r.Context(), id, middleware.UserID(r)); err != nil {
		slog.Error("Delete time entry service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time entry deleted", nil)
}

// Summary implements TimeEntryHandler.
func (h *TimeEntryHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	stats, err := h.entryService.Summary(r.Context(), middleware.UserID(r))
	if err != nil {
		slog.Error("Time entry summary service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

type entryResponse struct {
	ID                string  `json:"id"`
	Date              string  `json:"date"`
	StartTime         string  `json:"start_time"`
	EndTime           string  `json:"end_time"`
	LunchBreakMinutes int     `json:"lunch_break_minutes"`
	TotalHours        float64 `json:"total_hours"`
	OvertimeHours     float64 `json:"overtime_hours"`
}

func toEntryResponse(e timeentry.TimeEntry) entryResponse {
	return entryResponse{
		ID:                e.ID,
		Date:              e.Date.Format("2006-01-02"),
		StartTime:         e.StartTime,
		EndTime:           e.EndTime,
		LunchBreakMinutes: e.LunchBreakMinutes,
		TotalHours:        e.TotalHours,
		OvertimeHours:     e.OvertimeHours,
	}
}

func toEntryResponses(entries []timeentry.TimeEntry) []entryResponse {
	out := make([]entryResponse, len(entries))
	for i, e := range entries {
		out[i] = toEntryResponse(e)
	}
	return out
}
