package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agenthub/agenthub/internal/auth"
	"github.com/agenthub/agenthub/internal/handler/dto"
	"github.com/agenthub/agenthub/internal/middleware"
	"github.com/agenthub/agenthub/internal/service"
)

// WebsiteHandler handles HTTP requests for website registrations.
type WebsiteHandler struct {
	svc    *service.WebsiteService
	logger *slog.Logger
}

// NewWebsiteHandler creates a new WebsiteHandler.
func NewWebsiteHandler(svc *service.WebsiteService, logger *slog.Logger) *WebsiteHandler {
	return &WebsiteHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /api/v1/websites.
func (h *WebsiteHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterWebsiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	callerID := auth.UserIDFromContext(r.Context())
	site, err := h.svc.Register(r.Context(), callerID, req.Domain)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("website_registered",
		"website_id", site.ID,
		"domain", site.Domain,
	)

	writeJSON(w, http.StatusCreated, dto.ToWebsiteResponse(site))
}

// Get handles GET /api/v1/websites/{id}.
func (h *WebsiteHandler) Get(w http.ResponseWriter, r *http.Request) {
	websiteID := chi.URLParam(r, "id")
	callerID := auth.UserIDFromContext(r.Context())

	site, err := h.svc.Get(r.Context(), callerID, websiteID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToWebsiteResponse(site))
}

// List handles GET /api/v1/websites.
func (h *WebsiteHandler) List(w http.ResponseWriter, r *http.Request) {
	callerID := auth.UserIDFromContext(r.Context())

	sites, err := h.svc.List(r.Context(), callerID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToWebsiteListResponse(sites))
}

// Delete handles DELETE /api/v1/websites/{id}.
func (h *WebsiteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	websiteID := chi.URLParam(r, "id")
	callerID := auth.UserIDFromContext(r.Context())

	if err := h.svc.Delete(r.Context(), callerID, websiteID); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("website_deleted", "website_id", websiteID)

	w.WriteHeader(http.StatusNoContent)
}

// Verify handles POST /api/v1/websites/{id}/verify.
func (h *WebsiteHandler) Verify(w http.ResponseWriter, r *http.Request) {
	websiteID := chi.URLParam(r, "id")
	callerID := auth.UserIDFromContext(r.Context())

	site, err := h.svc.Verify(r.Context(), callerID, websiteID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("website_verified", "website_id", site.ID, "domain", site.Domain)

	writeJSON(w, http.StatusOK, dto.ToWebsiteResponse(site))
}

// handleServiceError maps website service errors to HTTP responses.
func (h *WebsiteHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDomain):
		writeError(w, http.StatusBadRequest, "INVALID_DOMAIN", "Invalid domain name")
	case errors.Is(err, service.ErrDomainTaken):
		writeError(w, http.StatusConflict, "DOMAIN_TAKEN", "Domain already registered")
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrAccessDenied):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Website not found")
	default:
		h.logger.Error("internal_error",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
