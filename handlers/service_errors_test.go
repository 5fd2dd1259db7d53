package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RushabhaJain/vocalbridge/services"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", services.ErrAgentNotFound, http.StatusNotFound},
		{"validation", services.ErrEmptyMessage, http.StatusBadRequest},
		{"unauthorized", services.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", services.ErrTenantMismatch, http.StatusForbidden},
		{"provider unavailable", services.ErrProviderUnavailable, http.StatusBadGateway},
		{"unrecognized response shape", services.ErrUnrecognizedResponseShape, http.StatusBadGateway},
		{"internal", services.ErrDatabaseError, http.StatusInternalServerError},
		{"wrapped external", services.WrapExternal("backend exploded", services.ErrProviderUnavailable), http.StatusBadGateway},
		{"plain error", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleServiceError(rec, tt.err, zap.NewNop())
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandleServiceError_NilIsNoOp(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleServiceError(rec, nil, zap.NewNop())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}
