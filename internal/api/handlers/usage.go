package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/andrew/ai-usage-monitor/internal/api/middleware"
	"github.com/andrew/ai-usage-monitor/internal/database"
)

// UsageHandler handles usage log and stats requests
type UsageHandler struct {
	db *database.DB
}

// NewUsageHandler creates a new usage handler
func NewUsageHandler(db *database.DB) *UsageHandler {
	return &UsageHandler{db: db}
}

// HandleGetLogs handles GET /api/usage/logs
func (h *UsageHandler) HandleGetLogs(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusInternalServerError, "user not found in context")
		return
	}

	query := r.URL.Query()
	filter := database.UsageLogFilter{
		PlatformID: query.Get("platform_id"),
		Model:      query.Get("model"),
	}

	if p := query.Get("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			filter.Page = parsed
		}
	}
	if l := query.Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			filter.Limit = parsed
		}
	}
	if st := query.Get("start_time"); st != "" {
		if t, err := time.Parse(time.RFC3339, st); err == nil {
			filter.StartTime = &t
		}
	}
	if et := query.Get("end_time"); et != "" {
		if t, err := time.Parse(time.RFC3339, et); err == nil {
			filter.EndTime = &t
		}
	}

	page, err := h.db.GetUsageLogs(r.Context(), user.ID, filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve usage logs")
		return
	}

	respondJSON(w, http.StatusOK, page)
}

// HandleGetStats handles GET /api/usage/stats
func (h *UsageHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusInternalServerError, "user not found in context")
		return
	}

	stats, err := h.db.GetUsageStats(r.Context(), user.ID, r.URL.Query().Get("platform_id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve usage stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
