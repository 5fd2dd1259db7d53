package handlers

import (
	"net/http"
	"time"

	"github.com/RushabhaJain/vocalbridge/middleware"
	"github.com/RushabhaJain/vocalbridge/models"
	"github.com/RushabhaJain/vocalbridge/repositories"
	"github.com/RushabhaJain/vocalbridge/services/providers"
	"github.com/RushabhaJain/vocalbridge/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// AgentHandler serves agent configuration endpoints
type AgentHandler struct {
	agents   repositories.AgentRepository
	registry *providers.Registry
	logger   *zap.Logger
}

// NewAgentHandler creates a new agent handler
func NewAgentHandler(agents repositories.AgentRepository, registry *providers.Registry, logger *zap.Logger) *AgentHandler {
	return &AgentHandler{
		agents:   agents,
		registry: registry,
		logger:   logger,
	}
}

// AgentRequest is the create/update body for an agent
type AgentRequest struct {
	Name             string   `json:"name" validate:"required,max=255"`
	PrimaryProvider  string   `json:"primary_provider" validate:"required,max=100"`
	FallbackProvider string   `json:"fallback_provider,omitempty" validate:"omitempty,max=100"`
	SystemPrompt     string   `json:"system_prompt,omitempty" validate:"max=32768"`
	EnabledTools     []string `json:"enabled_tools,omitempty"`
}

// Create handles POST /v1/agents
func (h *AgentHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantIDFromContext(r.Context())

	req, ok := h.decodeAgentRequest(w, r)
	if !ok {
		return
	}

	agent := models.NewAgent(tenantID, req.Name, req.PrimaryProvider, req.SystemPrompt)
	if req.FallbackProvider != "" {
		agent.WithFallback(req.FallbackProvider)
	}
	if len(req.EnabledTools) > 0 {
		agent.EnabledTools = pq.StringArray(req.EnabledTools)
	}

	if err := h.agents.Create(r.Context(), agent); err != nil {
		h.logger.Error("failed to create agent", zap.Error(err))
		_ = utils.WriteInternalError(w, "")
		return
	}

	_ = utils.WriteCreated(w, agent)
}

// Get handles GET /v1/agents/{agentID}
func (h *AgentHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantIDFromContext(r.Context())

	agentID, err := uuid.Parse(chi.URLParam(r, "agentID"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "invalid agent ID", nil)
		return
	}

	agent, err := h.agents.GetByID(r.Context(), agentID, tenantID)
	if err != nil {
		h.logger.Error("failed to get agent", zap.Error(err))
		_ = utils.WriteInternalError(w, "")
		return
	}
	if agent == nil {
		_ = utils.WriteNotFound(w, "agent not found")
		return
	}

	_ = utils.WriteOK(w, agent)
}

// List handles GET /v1/agents
func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantIDFromContext(r.Context())

	agents, err := h.agents.ListByTenant(r.Context(), tenantID)
	if err != nil {
		h.logger.Error("failed to list agents", zap.Error(err))
		_ = utils.WriteInternalError(w, "")
		return
	}

	_ = utils.WriteOK(w, agents)
}

// Update handles PUT /v1/agents/{agentID}
func (h *AgentHandler) Update(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantIDFromContext(r.Context())

	agentID, err := uuid.Parse(chi.URLParam(r, "agentID"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "invalid agent ID", nil)
		return
	}

	req, ok := h.decodeAgentRequest(w, r)
	if !ok {
		return
	}

	agent, err := h.agents.GetByID(r.Context(), agentID, tenantID)
	if err != nil {
		h.logger.Error("failed to get agent", zap.Error(err))
		_ = utils.WriteInternalError(w, "")
		return
	}
	if agent == nil {
		_ = utils.WriteNotFound(w, "agent not found")
		return
	}

	agent.Name = req.Name
	agent.PrimaryProvider = req.PrimaryProvider
	agent.FallbackProvider = nil
	if req.FallbackProvider != "" {
		agent.WithFallback(req.FallbackProvider)
	}
	agent.SystemPrompt = req.SystemPrompt
	agent.EnabledTools = pq.StringArray(req.EnabledTools)
	agent.UpdatedAt = time.Now()

	if err := h.agents.Update(r.Context(), agent); err != nil {
		h.logger.Error("failed to update agent", zap.Error(err))
		_ = utils.WriteInternalError(w, "")
		return
	}

	_ = utils.WriteOK(w, agent)
}

// Delete handles DELETE /v1/agents/{agentID}
func (h *AgentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantIDFromContext(r.Context())

	agentID, err := uuid.Parse(chi.URLParam(r, "agentID"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "invalid agent ID", nil)
		return
	}

	if err := h.agents.Delete(r.Context(), agentID, tenantID); err != nil {
		h.logger.Warn("failed to delete agent", zap.Error(err))
		_ = utils.WriteNotFound(w, "agent not found")
		return
	}

	utils.WriteNoContent(w)
}

// decodeAgentRequest parses, validates, and checks provider names,
// writing the error response itself on failure
func (h *AgentHandler) decodeAgentRequest(w http.ResponseWriter, r *http.Request) (*AgentRequest, bool) {
	var req AgentRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		_ = utils.WriteBadRequest(w, "invalid request body", nil)
		return nil, false
	}
	if details := utils.ValidateStruct(req); details != nil {
		_ = utils.WriteBadRequest(w, "validation failed", details)
		return nil, false
	}

	if _, err := h.registry.Get(req.PrimaryProvider); err != nil {
		_ = utils.WriteBadRequest(w, "unknown primary provider", map[string]interface{}{
			"primary_provider": req.PrimaryProvider,
			"known":            h.registry.Names(),
		})
		return nil, false
	}
	if req.FallbackProvider != "" {
		if _, err := h.registry.Get(req.FallbackProvider); err != nil {
			_ = utils.WriteBadRequest(w, "unknown fallback provider", map[string]interface{}{
				"fallback_provider": req.FallbackProvider,
				"known":             h.registry.Names(),
			})
			return nil, false
		}
	}

	return &req, true
}
