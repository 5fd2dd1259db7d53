package middleware

import (
	"net/http"
	"strings"

	"github.com/RushabhaJain/vocalbridge/auth"
	"github.com/RushabhaJain/vocalbridge/utils"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenValidator validates gateway tokens
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// AuthMiddleware authenticates requests and resolves the acting tenant
type AuthMiddleware struct {
	validator TokenValidator
	logger    *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(validator TokenValidator, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
		logger:    logger,
	}
}

// RequireTenant requires a valid bearer token and puts the tenant ID on the
// request context
func (m *AuthMiddleware) RequireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := chimiddleware.GetReqID(ctx)

		token := extractToken(r)
		if token == "" {
			m.logger.Warn("missing bearer token",
				zap.String("request_id", requestID))
			_ = utils.WriteUnauthorized(w, "Missing or invalid authorization")
			return
		}

		claims, err := m.validator.ValidateToken(token)
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("request_id", requestID),
				zap.Error(err))
			_ = utils.WriteUnauthorized(w, "Invalid or expired token")
			return
		}

		tenantID, err := uuid.Parse(claims.TenantID)
		if err != nil {
			m.logger.Error("invalid tenant_id in claims",
				zap.String("request_id", requestID),
				zap.String("tenant_id", claims.TenantID),
				zap.Error(err))
			_ = utils.WriteForbidden(w, "Invalid tenant ID")
			return
		}

		ctx = WithTenantID(ctx, tenantID)

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("tenant_id", tenantID.String()))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractToken pulls the bearer token from the Authorization header
func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
