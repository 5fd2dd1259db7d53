package handlers

import (
	"net/http"
	"strconv"

	"github.com/RushabhaJain/vocalbridge/middleware"
	"github.com/RushabhaJain/vocalbridge/models"
	"github.com/RushabhaJain/vocalbridge/repositories"
	"github.com/RushabhaJain/vocalbridge/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionHandler serves conversation session endpoints
type SessionHandler struct {
	sessions repositories.SessionRepository
	agents   repositories.AgentRepository
	logger   *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions repositories.SessionRepository, agents repositories.AgentRepository, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		agents:   agents,
		logger:   logger,
	}
}

// CreateSessionRequest is the POST body for opening a session
type CreateSessionRequest struct {
	AgentID    string `json:"agent_id" validate:"required,uuid"`
	CustomerID string `json:"customer_id" validate:"required,max=255"`
}

// Create handles POST /v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantIDFromContext(r.Context())

	var req CreateSessionRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		_ = utils.WriteBadRequest(w, "invalid request body", nil)
		return
	}
	if details := utils.ValidateStruct(req); details != nil {
		_ = utils.WriteBadRequest(w, "validation failed", details)
		return
	}

	agentID, _ := uuid.Parse(req.AgentID)
	agent, err := h.agents.GetByID(r.Context(), agentID, tenantID)
	if err != nil {
		h.logger.Error("failed to load agent", zap.Error(err))
		_ = utils.WriteInternalError(w, "")
		return
	}
	if agent == nil {
		_ = utils.WriteNotFound(w, "agent not found")
		return
	}

	session := models.NewSession(tenantID, agentID, req.CustomerID)
	if err := h.sessions.Create(r.Context(), session); err != nil {
		h.logger.Error("failed to create session", zap.Error(err))
		_ = utils.WriteInternalError(w, "")
		return
	}

	_ = utils.WriteCreated(w, session)
}

// Get handles GET /v1/sessions/{sessionID}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantIDFromContext(r.Context())

	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "invalid session ID", nil)
		return
	}

	session, err := h.sessions.GetByID(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("failed to get session", zap.Error(err))
		_ = utils.WriteInternalError(w, "")
		return
	}
	if session == nil || session.TenantID != tenantID {
		_ = utils.WriteNotFound(w, "session not found")
		return
	}

	_ = utils.WriteOK(w, session)
}

// List handles GET /v1/sessions?limit=&offset=
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantIDFromContext(r.Context())

	limit := queryInt(r, "limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	sessions, err := h.sessions.ListByTenant(r.Context(), tenantID, limit, offset)
	if err != nil {
		h.logger.Error("failed to list sessions", zap.Error(err))
		_ = utils.WriteInternalError(w, "")
		return
	}

	_ = utils.WriteOK(w, sessions)
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return parsed
}
