package handlers

import (
	"net/http"
	"time"

	"github.com/RushabhaJain/vocalbridge/middleware"
	"github.com/RushabhaJain/vocalbridge/models"
	"github.com/RushabhaJain/vocalbridge/repositories"
	"github.com/RushabhaJain/vocalbridge/utils"
	"go.uber.org/zap"
)

// UsageHandler serves usage reporting endpoints
type UsageHandler struct {
	usage  repositories.UsageEventRepository
	logger *zap.Logger
}

// NewUsageHandler creates a new usage handler
func NewUsageHandler(usage repositories.UsageEventRepository, logger *zap.Logger) *UsageHandler {
	return &UsageHandler{
		usage:  usage,
		logger: logger,
	}
}

// UsageReport is the summary response with its time window
type UsageReport struct {
	From    time.Time            `json:"from"`
	To      time.Time            `json:"to"`
	Summary *models.UsageSummary `json:"summary"`
}

// Summary handles GET /v1/usage?from=&to= (RFC 3339; defaults to last 30 days)
func (h *UsageHandler) Summary(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantIDFromContext(r.Context())

	from, to, ok := parseWindow(w, r)
	if !ok {
		return
	}

	summary, err := h.usage.SummaryByTenant(r.Context(), tenantID, from, to)
	if err != nil {
		h.logger.Error("failed to summarize usage", zap.Error(err))
		_ = utils.WriteInternalError(w, "")
		return
	}

	_ = utils.WriteOK(w, UsageReport{From: from, To: to, Summary: summary})
}

// Events handles GET /v1/usage/events?from=&to=
func (h *UsageHandler) Events(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantIDFromContext(r.Context())

	from, to, ok := parseWindow(w, r)
	if !ok {
		return
	}

	events, err := h.usage.ListByTenant(r.Context(), tenantID, from, to)
	if err != nil {
		h.logger.Error("failed to list usage events", zap.Error(err))
		_ = utils.WriteInternalError(w, "")
		return
	}

	_ = utils.WriteOK(w, events)
}

// parseWindow reads the from/to query params, writing the error response
// itself on failure
func parseWindow(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			_ = utils.WriteBadRequest(w, "invalid 'from' timestamp, expected RFC 3339", nil)
			return time.Time{}, time.Time{}, false
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			_ = utils.WriteBadRequest(w, "invalid 'to' timestamp, expected RFC 3339", nil)
			return time.Time{}, time.Time{}, false
		}
		to = parsed
	}
	if !from.Before(to) {
		_ = utils.WriteBadRequest(w, "'from' must be before 'to'", nil)
		return time.Time{}, time.Time{}, false
	}

	return from, to, true
}
