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

// AgentHandler handles HTTP requests for agent operations.
type AgentHandler struct {
	svc    *service.AgentService
	logger *slog.Logger
}

// NewAgentHandler creates a new AgentHandler.
func NewAgentHandler(svc *service.AgentService, logger *slog.Logger) *AgentHandler {
	return &AgentHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/organizations/{id}/agents.
func (h *AgentHandler) Create(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "id")

	var req dto.CreateAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.CreateAgentInput{
		OrganizationID: orgID,
		Name:           req.Name,
		Description:    req.Description,
		Capabilities:   req.Capabilities,
	}

	callerID := auth.UserIDFromContext(r.Context())
	agent, err := h.svc.Create(r.Context(), callerID, input)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("agent_created",
		"agent_id", agent.ID,
		"organization_id", agent.OrganizationID,
	)

	writeJSON(w, http.StatusCreated, dto.ToAgentResponse(agent))
}

// Get handles GET /api/v1/agents/{id}.
func (h *AgentHandler) Get(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "id")
	callerID := auth.UserIDFromContext(r.Context())

	agent, err := h.svc.Get(r.Context(), callerID, agentID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToAgentResponse(agent))
}

// List handles GET /api/v1/organizations/{id}/agents.
func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "id")
	callerID := auth.UserIDFromContext(r.Context())

	agents, err := h.svc.List(r.Context(), callerID, orgID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToAgentListResponse(agents))
}

// Update handles PATCH /api/v1/agents/{id}.
func (h *AgentHandler) Update(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "id")

	var req dto.UpdateAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	callerID := auth.UserIDFromContext(r.Context())
	agent, err := h.svc.Update(r.Context(), callerID, agentID, req.ToUpdate())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("agent_updated", "agent_id", agent.ID)

	writeJSON(w, http.StatusOK, dto.ToAgentResponse(agent))
}

// Delete handles DELETE /api/v1/agents/{id}.
func (h *AgentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "id")
	callerID := auth.UserIDFromContext(r.Context())

	if err := h.svc.Delete(r.Context(), callerID, agentID); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("agent_deleted", "agent_id", agentID)

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps agent service errors to HTTP responses.
func (h *AgentHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidAgentName):
		writeError(w, http.StatusBadRequest, "INVALID_NAME", "Invalid agent name")
	case errors.Is(err, service.ErrInvalidAgentStatus):
		writeError(w, http.StatusBadRequest, "INVALID_STATUS", "Invalid agent status")
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrAccessDenied):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Agent not found")
	default:
		h.logger.Error("internal_error",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
