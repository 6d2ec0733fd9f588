package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/andrew/ai-usage-monitor/internal/api/middleware"
	"github.com/andrew/ai-usage-monitor/internal/database"
)

// AnalyticsHandler handles dashboard aggregation requests
type AnalyticsHandler struct {
	db *database.DB
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(db *database.DB) *AnalyticsHandler {
	return &AnalyticsHandler{db: db}
}

// HandleDaily handles GET /api/analytics/daily
func (h *AnalyticsHandler) HandleDaily(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusInternalServerError, "user not found in context")
		return
	}

	days := 30
	if d := r.URL.Query().Get("days"); d != "" {
		if parsed, err := strconv.Atoi(d); err == nil && parsed > 0 {
			days = parsed
		}
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	daily, err := h.db.GetDailyUsage(r.Context(), user.ID, since, r.URL.Query().Get("platform_id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve analytics")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"data": daily,
		"period": map[string]string{
			"start": since.Format(time.RFC3339),
			"end":   time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// HandleDistribution handles GET /api/analytics/distribution
func (h *AnalyticsHandler) HandleDistribution(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusInternalServerError, "user not found in context")
		return
	}

	dist, err := h.db.GetPlatformDistribution(r.Context(), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve distribution")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"data": dist})
}
