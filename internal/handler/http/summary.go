package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/summary"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/handler/http/response"
)

type SummaryHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	GenerateAll(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Sign(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
	BulkApprove(w http.ResponseWriter, r *http.Request)
}

type SummaryHandlerImpl struct {
	summaryService summary.Service
}

func NewSummaryHandler(summaryService summary.Service) SummaryHandler {
	return &SummaryHandlerImpl{summaryService: summaryService}
}

// Generate implements SummaryHandler.
func (h *SummaryHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req summary.GenerateRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Generate decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.summaryService.Generate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// Generation upserts: a repeat call refreshes the existing DRAFT or
	// REJECTED record, so this is not always a create.
	response.SuccessWithMessage(w, "Monthly summary generated successfully", result)
}

// GenerateAll implements SummaryHandler.
func (h *SummaryHandlerImpl) GenerateAll(w http.ResponseWriter, r *http.Request) {
	var req summary.GenerateAllRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("GenerateAll decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.summaryService.GenerateAll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements SummaryHandler.
func (h *SummaryHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var req summary.ListRequest

	q := r.URL.Query()
	if v := q.Get("employee_id"); v != "" {
		req.EmployeeID = &v
	}
	if v := q.Get("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "Invalid month parameter", nil)
			return
		}
		req.Month = &month
	}
	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "Invalid year parameter", nil)
			return
		}
		req.Year = &year
	}
	if v := q.Get("status"); v != "" {
		status := summary.Status(v)
		req.Status = &status
	}

	result, err := h.summaryService.List(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get implements SummaryHandler.
func (h *SummaryHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Summary ID is required", nil)
		return
	}

	result, err := h.summaryService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Sign implements SummaryHandler.
func (h *SummaryHandlerImpl) Sign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Summary ID is required", nil)
		return
	}

	var req summary.SignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Sign decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.summaryService.SignByStaff(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Monthly summary signed successfully", result)
}

// Decide implements SummaryHandler.
func (h *SummaryHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Summary ID is required", nil)
		return
	}

	var req summary.DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Decide decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.summaryService.Decide(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Decision recorded successfully", result)
}

// BulkApprove implements SummaryHandler.
func (h *SummaryHandlerImpl) BulkApprove(w http.ResponseWriter, r *http.Request) {
	var req summary.BulkApproveRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("BulkApprove decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.summaryService.BulkApprove(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Monthly summaries approved successfully", result)
}
