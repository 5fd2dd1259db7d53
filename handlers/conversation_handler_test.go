package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/RushabhaJain/vocalbridge/middleware"
	"github.com/RushabhaJain/vocalbridge/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*models.Session
}

func (f *fakeSessionRepo) Create(ctx context.Context, s *models.Session) error {
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	return f.sessions[id], nil
}

func (f *fakeSessionRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Session, error) {
	return nil, nil
}

func (f *fakeSessionRepo) Touch(ctx context.Context, id uuid.UUID) error { return nil }

type fakeMessageRepo struct {
	messages []*models.Message
}

func (f *fakeMessageRepo) Create(ctx context.Context, m *models.Message) error {
	f.messages = append(f.messages, m)
	return nil
}

func (f *fakeMessageRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*models.Message, error) {
	return f.messages, nil
}

type fakeCallEventRepo struct {
	events []*models.ProviderCallEvent
}

func (f *fakeCallEventRepo) Create(ctx context.Context, e *models.ProviderCallEvent) error {
	f.events = append(f.events, e)
	return nil
}

func (f *fakeCallEventRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*models.ProviderCallEvent, error) {
	return f.events, nil
}

func routeRequest(t *testing.T, handler http.HandlerFunc, method, path string, body string, tenantID uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.MethodFunc(method, "/v1/sessions/{sessionID}/messages", handler)
	r.MethodFunc(method, "/v1/sessions/{sessionID}/provider-calls", handler)

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req = req.WithContext(middleware.WithTenantID(req.Context(), tenantID))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func newTestHandler(sessions *fakeSessionRepo, messages *fakeMessageRepo, events *fakeCallEventRepo) *ConversationHandler {
	return NewConversationHandler(nil, messages, events, sessions, zap.NewNop())
}

func TestSendMessage_InvalidSessionID(t *testing.T) {
	h := newTestHandler(&fakeSessionRepo{sessions: map[uuid.UUID]*models.Session{}}, &fakeMessageRepo{}, &fakeCallEventRepo{})

	rec := routeRequest(t, h.SendMessage, http.MethodPost,
		"/v1/sessions/not-a-uuid/messages", `{"message":"hi"}`, uuid.New())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendMessage_InvalidBody(t *testing.T) {
	h := newTestHandler(&fakeSessionRepo{sessions: map[uuid.UUID]*models.Session{}}, &fakeMessageRepo{}, &fakeCallEventRepo{})

	tests := []struct {
		name string
		body string
	}{
		{"not json", "{{{"},
		{"missing message", `{}`},
		{"unknown field", `{"message":"hi","bogus":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := routeRequest(t, h.SendMessage, http.MethodPost,
				"/v1/sessions/"+uuid.NewString()+"/messages", tt.body, uuid.New())
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestListMessages(t *testing.T) {
	tenantID := uuid.New()
	session := models.NewSession(tenantID, uuid.New(), "customer-1")
	sessions := &fakeSessionRepo{sessions: map[uuid.UUID]*models.Session{session.ID: session}}
	messages := &fakeMessageRepo{messages: []*models.Message{
		models.NewMessage(session.ID, models.RoleUser, "hello"),
	}}
	h := newTestHandler(sessions, messages, &fakeCallEventRepo{})

	t.Run("owner sees messages", func(t *testing.T) {
		rec := routeRequest(t, h.ListMessages, http.MethodGet,
			"/v1/sessions/"+session.ID.String()+"/messages", "", tenantID)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "hello")
	})

	t.Run("other tenant is forbidden", func(t *testing.T) {
		rec := routeRequest(t, h.ListMessages, http.MethodGet,
			"/v1/sessions/"+session.ID.String()+"/messages", "", uuid.New())
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown session", func(t *testing.T) {
		rec := routeRequest(t, h.ListMessages, http.MethodGet,
			"/v1/sessions/"+uuid.NewString()+"/messages", "", tenantID)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListProviderCalls(t *testing.T) {
	tenantID := uuid.New()
	session := models.NewSession(tenantID, uuid.New(), "customer-1")
	sessions := &fakeSessionRepo{sessions: map[uuid.UUID]*models.Session{session.ID: session}}
	events := &fakeCallEventRepo{events: []*models.ProviderCallEvent{
		models.NewProviderCallEvent(tenantID, session.AgentID, session.ID, "vendorA", true, 42),
	}}
	h := newTestHandler(sessions, &fakeMessageRepo{}, events)

	rec := routeRequest(t, h.ListProviderCalls, http.MethodGet,
		"/v1/sessions/"+session.ID.String()+"/provider-calls", "", tenantID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "vendorA")
}
