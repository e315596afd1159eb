package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shiftbook/shiftbook-backend/internal/domain/holiday"
	"github.com/shiftbook/shiftbook-backend/internal/handler/http/middleware"
	"github.com/shiftbook/shiftbook-backend/internal/handler/http/response"
	"github.com/shiftbook/shiftbook-backend/internal/pkg/validator"
	holidayservice "github.com/shiftbook/shiftbook-backend/internal/service/holiday"
)

type HolidayHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	Remaining(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Deny(w http.ResponseWriter, r *http.Request)
}

type HolidayHandlerImpl struct {
	holidayService holidayservice.Service
}

func NewHolidayHandler(holidayService holidayservice.Service) HolidayHandler {
	return &HolidayHandlerImpl{holidayService: holidayService}
}

// List implements HolidayHandler. An optional ?year filters to requests
// starting in that year.
func (h *HolidayHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var year *int
	if v := r.URL.Query().Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "year must be a number", nil)
			return
		}
		year = &parsed
	}

	requests, err := h.holidayService.List(r.Context(), middleware.UserID(r), year)
	if err != nil {
		slog.Error("List holiday requests service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, toHolidayResponses(requests))
}

// Create implements HolidayHandler.
func (h *HolidayHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req holiday.CreateRequestRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create holiday request decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.UserID = middleware.UserID(r)

	created, err := h.holidayService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Create holiday request service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Holiday request submitted", toHolidayResponse(created))
}

// Cancel implements HolidayHandler.
func (h *HolidayHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.holidayService.Cancel(r.Context(), id, middleware.UserID(r)); err != nil {
		slog.Error("Cancel holiday request service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holiday request cancelled", nil)
}

// Remaining implements HolidayHandler.
func (h *HolidayHandlerImpl) Remaining(w http.ResponseWriter, r *http.Request) {
	summary, err := h.holidayService.Allowance(r.Context(), middleware.UserID(r))
	if err != nil {
		slog.Error("Holiday allowance service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// Status implements HolidayHandler. Calendar views ask which of the
// user's requests, if any, covers a given day.
func (h *HolidayHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	date, ok := validator.IsValidDate(r.URL.Query().Get("date"))
	if !ok {
		response.BadRequest(w, "date must be in YYYY-MM-DD format", nil)
		return
	}

	status, found, err := h.holidayService.StatusOn(r.Context(), middleware.UserID(r), date)
	if err != nil {
		slog.Error("Holiday day status service error", "error", err)
		response.HandleError(w, err)
		return
	}

	resp := dayStatusResponse{Date: date.Format("2006-01-02")}
	if found {
		s := string(status)
		resp.Status = &s
	}

	response.Success(w, resp)
}

type dayStatusResponse struct {
	Date   string  `json:"date"`
	Status *string `json:"status,omitempty"`
}

// ListAll implements HolidayHandler. Admin review view across all
// employees; an optional ?status narrows the list.
func (h *HolidayHandlerImpl) ListAll(w http.ResponseWriter, r *http.Request) {
	var status *holiday.Status
	if v := r.URL.Query().Get("status"); v != "" {
		s := holiday.Status(v)
		if s != holiday.StatusPending && s != holiday.StatusApproved && s != holiday.StatusDenied {
			response.BadRequest(w, "status must be one of pending, approved, denied", nil)
			return
		}
		status = &s
	}

	requests, err := h.holidayService.ListAll(r.Context(), status)
	if err != nil {
		slog.Error("List all holiday requests service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, toHolidayResponses(requests))
}

// Approve implements HolidayHandler.
func (h *HolidayHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.holidayService.Approve)
}

// Deny implements HolidayHandler.
func (h *HolidayHandlerImpl) Deny(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.holidayService.Deny)
}

func (h *HolidayHandlerImpl) decide(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, req holiday.DecideRequestRequest) (holiday.Request, error)) {
	var req holiday.DecideRequestRequest

	// Body is optional; the admin note is its only field.
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	req.RequestID = chi.URLParam(r, "id")
	req.DecidedBy = middleware.UserID(r)

	updated, err := fn(r.Context(), req)
	if err != nil {
		slog.Error("Decide holiday request service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holiday request "+string(updated.Status), toHolidayResponse(updated))
}

type holidayResponse struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	DaysRequested int     `json:"days_requested"`
	Status        string  `json:"status"`
	Reason        *string `json:"reason,omitempty"`
	AdminNote     *string `json:"admin_note,omitempty"`
	EmployeeName  *string `json:"employee_name,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

func toHolidayResponse(r holiday.Request) holidayResponse {
	return holidayResponse{
		ID:            r.ID,
		UserID:        r.UserID,
		StartDate:     r.StartDate.Format("2006-01-02"),
		EndDate:       r.EndDate.Format("2006-01-02"),
		DaysRequested: r.DaysRequested,
		Status:        string(r.Status),
		Reason:        r.Reason,
		AdminNote:     r.AdminNote,
		EmployeeName:  r.EmployeeName,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
}

func toHolidayResponses(requests []holiday.Request) []holidayResponse {
	out := make([]holidayResponse, len(requests))
	for i, r := range requests {
		out[i] = toHolidayResponse(r)
	}
	return out
}
