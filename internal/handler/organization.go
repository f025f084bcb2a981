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

// OrganizationHandler handles HTTP requests for organization operations.
type OrganizationHandler struct {
	svc    *service.OrgService
	logger *slog.Logger
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(svc *service.OrgService, logger *slog.Logger) *OrganizationHandler {
	return &OrganizationHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/organizations.
func (h *OrganizationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.CreateOrganizationInput{
		Name:    req.Name,
		URLSlug: req.URLSlug,
		OwnerID: auth.UserIDFromContext(r.Context()),
	}

	org, err := h.svc.Create(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("organization_created",
		"organization_id", org.ID,
		"owner_id", org.OwnerID,
		"url_slug", org.URLSlug,
	)

	writeJSON(w, http.StatusCreated, dto.ToOrganizationResponse(org))
}

// Get handles GET /api/v1/organizations/{id}.
func (h *OrganizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "id")
	callerID := auth.UserIDFromContext(r.Context())

	org, err := h.svc.Get(r.Context(), callerID, orgID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToOrganizationResponse(org))
}

// List handles GET /api/v1/organizations.
func (h *OrganizationHandler) List(w http.ResponseWriter, r *http.Request) {
	callerID := auth.UserIDFromContext(r.Context())

	orgs, err := h.svc.List(r.Context(), callerID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToOrganizationListResponse(orgs))
}

// Update handles PATCH /api/v1/organizations/{id}.
func (h *OrganizationHandler) Update(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "id")

	var req dto.UpdateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	callerID := auth.UserIDFromContext(r.Context())
	org, err := h.svc.Update(r.Context(), callerID, orgID, req.ToUpdate())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("organization_updated", "organization_id", org.ID)

	writeJSON(w, http.StatusOK, dto.ToOrganizationResponse(org))
}

// Delete handles DELETE /api/v1/organizations/{id}.
func (h *OrganizationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "id")
	callerID := auth.UserIDFromContext(r.Context())

	if err := h.svc.Delete(r.Context(), callerID, orgID); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("organization_deleted", "organization_id", orgID)

	w.WriteHeader(http.StatusNoContent)
}

// AddMember handles POST /api/v1/organizations/{id}/members.
func (h *OrganizationHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "id")

	var req dto.AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_USER_ID", "User ID is required")
		return
	}

	callerID := auth.UserIDFromContext(r.Context())
	member, err := h.svc.AddMember(r.Context(), callerID, orgID, req.UserID, req.Role)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("member_added",
		"organization_id", orgID,
		"user_id", req.UserID,
		"role", member.Role,
	)

	writeJSON(w, http.StatusCreated, dto.ToMembershipResponse(member))
}

// ListMembers handles GET /api/v1/organizations/{id}/members.
func (h *OrganizationHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "id")
	callerID := auth.UserIDFromContext(r.Context())

	members, err := h.svc.ListMembers(r.Context(), callerID, orgID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToMembershipListResponse(members))
}

// handleServiceError maps organization service errors to HTTP responses.
func (h *OrganizationHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidOrgName):
		writeError(w, http.StatusBadRequest, "INVALID_NAME", "Invalid organization name")
	case errors.Is(err, service.ErrInvalidSlug):
		writeError(w, http.StatusBadRequest, "INVALID_SLUG", "Slug must be 3-50 lowercase letters, digits, or hyphens")
	case errors.Is(err, service.ErrSlugTaken):
		writeError(w, http.StatusConflict, "SLUG_TAKEN", "URL slug already taken")
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrAccessDenied),
		errors.Is(err, service.ErrOwnerRequired):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Organization not found")
	default:
		h.logger.Error("internal_error",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
