package handlers

import (
	"net/http"

	"github.com/RushabhaJain/vocalbridge/middleware"
	"github.com/RushabhaJain/vocalbridge/repositories"
	"github.com/RushabhaJain/vocalbridge/services/conversation"
	"github.com/RushabhaJain/vocalbridge/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConversationHandler serves the conversation turn endpoints
type ConversationHandler struct {
	conversations *conversation.Service
	messages      repositories.MessageRepository
	callEvents    repositories.ProviderCallEventRepository
	sessions      repositories.SessionRepository
	logger        *zap.Logger
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(
	conversations *conversation.Service,
	messages repositories.MessageRepository,
	callEvents repositories.ProviderCallEventRepository,
	sessions repositories.SessionRepository,
	logger *zap.Logger,
) *ConversationHandler {
	return &ConversationHandler{
		conversations: conversations,
		messages:      messages,
		callEvents:    callEvents,
		sessions:      sessions,
		logger:        logger,
	}
}

// SendMessageRequest is the POST body for a conversation turn
type SendMessageRequest struct {
	Message        string `json:"message" validate:"required,max=32768"`
	IdempotencyKey string `json:"idempotency_key,omitempty" validate:"omitempty,max=255"`
}

// SendMessage handles POST /v1/sessions/{sessionID}/messages
func (h *ConversationHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantIDFromContext(r.Context())

	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "invalid session ID", nil)
		return
	}

	var req SendMessageRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		_ = utils.WriteBadRequest(w, "invalid request body", nil)
		return
	}
	if details := utils.ValidateStruct(req); details != nil {
		_ = utils.WriteBadRequest(w, "validation failed", details)
		return
	}

	// idempotency key can also arrive as a header; body wins
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = r.Header.Get("Idempotency-Key")
	}

	result, err := h.conversations.SendMessage(r.Context(), conversation.SendMessageRequest{
		TenantID:       tenantID,
		SessionID:      sessionID,
		Message:        req.Message,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, result)
}

// ListMessages handles GET /v1/sessions/{sessionID}/messages
func (h *ConversationHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantIDFromContext(r.Context())

	sessionID, ok := h.authorizeSession(w, r, tenantID)
	if !ok {
		return
	}

	messages, err := h.messages.ListBySession(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("failed to list messages", zap.Error(err))
		_ = utils.WriteInternalError(w, "")
		return
	}

	_ = utils.WriteOK(w, messages)
}

// ListProviderCalls handles GET /v1/sessions/{sessionID}/provider-calls
func (h *ConversationHandler) ListProviderCalls(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantIDFromContext(r.Context())

	sessionID, ok := h.authorizeSession(w, r, tenantID)
	if !ok {
		return
	}

	events, err := h.callEvents.ListBySession(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("failed to list provider call events", zap.Error(err))
		_ = utils.WriteInternalError(w, "")
		return
	}

	_ = utils.WriteOK(w, events)
}

// authorizeSession parses the session ID and verifies tenant ownership,
// writing the error response itself on failure
func (h *ConversationHandler) authorizeSession(w http.ResponseWriter, r *http.Request, tenantID uuid.UUID) (uuid.UUID, bool) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "invalid session ID", nil)
		return uuid.Nil, false
	}

	session, err := h.sessions.GetByID(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("failed to load session", zap.Error(err))
		_ = utils.WriteInternalError(w, "")
		return uuid.Nil, false
	}
	if session == nil {
		_ = utils.WriteNotFound(w, "session not found")
		return uuid.Nil, false
	}
	if session.TenantID != tenantID {
		_ = utils.WriteForbidden(w, "")
		return uuid.Nil, false
	}

	return sessionID, true
}
