package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/agenthub/agenthub/internal/auth"
	"github.com/agenthub/agenthub/internal/handler/dto"
	"github.com/agenthub/agenthub/internal/middleware"
	"github.com/agenthub/agenthub/internal/service"
)

// UsageHandler handles HTTP requests for usage record operations.
type UsageHandler struct {
	svc    *service.UsageService
	logger *slog.Logger
}

// NewUsageHandler creates a new UsageHandler.
func NewUsageHandler(svc *service.UsageService, logger *slog.Logger) *UsageHandler {
	return &UsageHandler{
		svc:    svc,
		logger: logger,
	}
}

// Record handles POST /api/v1/organizations/{id}/usage.
func (h *UsageHandler) Record(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "id")

	var req dto.RecordUsageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.RecordUsageInput{
		OrganizationID: orgID,
		AgentID:        req.AgentID,
		Kind:           req.Kind,
		Quantity:       req.Quantity,
	}
	if req.RecordedAt != nil {
		input.RecordedAt = *req.RecordedAt
	}

	callerID := auth.UserIDFromContext(r.Context())
	rec, err := h.svc.Record(r.Context(), callerID, input)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("usage_recorded",
		"usage_record_id", rec.ID,
		"organization_id", rec.OrganizationID,
		"kind", rec.Kind,
		"quantity", rec.Quantity,
	)

	writeJSON(w, http.StatusCreated, dto.ToUsageRecordResponse(rec))
}

// Get handles GET /api/v1/usage/{id}.
func (h *UsageHandler) Get(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "id")
	callerID := auth.UserIDFromContext(r.Context())

	rec, err := h.svc.Get(r.Context(), callerID, recordID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUsageRecordResponse(rec))
}

// List handles GET /api/v1/organizations/{id}/usage.
func (h *UsageHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "id")

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	callerID := auth.UserIDFromContext(r.Context())
	records, err := h.svc.List(r.Context(), callerID, orgID, limit)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUsageRecordListResponse(records))
}

// handleServiceError maps usage service errors to HTTP responses.
func (h *UsageHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidUsageKind):
		writeError(w, http.StatusBadRequest, "INVALID_KIND", "Usage kind is required")
	case errors.Is(err, service.ErrInvalidUsageQuantity):
		writeError(w, http.StatusBadRequest, "INVALID_QUANTITY", "Quantity must be positive")
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrAccessDenied):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Usage record not found")
	default:
		h.logger.Error("internal_error",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
