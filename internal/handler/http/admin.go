package http

import (
	"log/slog"
	"net/http"

	"github.com/shiftbook/shiftbook-backend/internal/handler/http/response"
	reportservice "github.com/shiftbook/shiftbook-backend/internal/service/report"
)

type AdminHandler interface {
	Dashboard(w http.ResponseWriter, r *http.Request)
	ListEmployees(w http.ResponseWriter, r *http.Request)
}

type AdminHandlerImpl struct {
	reportService reportservice.Service
}

func NewAdminHandler(reportService reportservice.Service) AdminHandler {
	return &AdminHandlerImpl{reportService: reportService}
}

// Dashboard implements AdminHandler.
func (h *AdminHandlerImpl) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.reportService.Dashboard(r.Context())
	if err != nil {
		slog.Error("Admin dashboard service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, dashboard)
}

// ListEmployees implements AdminHandler.
func (h *AdminHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.reportService.ListEmployees(r.Context())
	if err != nil {
		slog.Error("Admin list employees service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, employees)
}
