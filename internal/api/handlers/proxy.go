package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/andrew/ai-usage-monitor/internal/alerts"
	"github.com/andrew/ai-usage-monitor/internal/api/middleware"
	"github.com/andrew/ai-usage-monitor/internal/database"
	"github.com/andrew/ai-usage-monitor/internal/database/models"
	"github.com/andrew/ai-usage-monitor/internal/providers"
)

// ProxyHandler forwards chat requests to a platform's upstream API and
// records token usage
type ProxyHandler struct {
	db       *database.DB
	upstream *providers.Client
	alerts   *alerts.Checker
}

// NewProxyHandler creates a new proxy handler
func NewProxyHandler(db *database.DB, upstream *providers.Client, checker *alerts.Checker) *ProxyHandler {
	return &ProxyHandler{db: db, upstream: upstream, alerts: checker}
}

// HandleChat handles POST /api/proxy/{platformID}/chat
func (h *ProxyHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusInternalServerError, "user not found in context")
		return
	}

	platform, err := h.db.GetPlatform(r.Context(), r.PathValue("platformID"), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get platform")
		return
	}
	if platform == nil {
		respondError(w, http.StatusNotFound, "platform not found")
		return
	}
	if !platform.IsActive {
		respondError(w, http.StatusForbidden, "platform is inactive")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var reqFields struct {
		Model string `json:"model"`
	}
	if err := json.Unmarshal(body, &reqFields); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.upstream.ChatCompletion(r.Context(), platform.BaseURL, platform.APIKey, body)
	if err != nil {
		respondError(w, http.StatusBadGateway, "failed to proxy request")
		return
	}

	// Record usage when the upstream reported it, then check the quota.
	if result.Usage != nil {
		model := result.Model
		if model == "" {
			model = reqFields.Model
		}

		usageLog := &models.UsageLog{
			PlatformID:       platform.ID,
			Model:            model,
			PromptTokens:     result.Usage.PromptTokens,
			CompletionTokens: result.Usage.CompletionTokens,
			TotalTokens:      result.Usage.TotalTokens,
			EstimatedCost:    platform.Cost(result.Usage.PromptTokens, result.Usage.CompletionTokens),
		}
		if result.RequestID != "" {
			usageLog.RequestID = &result.RequestID
		}
		if err := h.db.CreateUsageLog(r.Context(), usageLog); err == nil {
			h.checkQuota(r, platform)
		}
	}

	// Relay the upstream response verbatim, status included.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(result.StatusCode)
	w.Write(result.Body)
}

// ReportUsageRequest represents an out-of-band usage report
type ReportUsageRequest struct {
	PlatformID       string  `json:"platform_id"`
	Model            string  `json:"model"`
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	RequestID        *string `json:"request_id,omitempty"`
}

// HandleReportUsage handles POST /api/usage/report
func (h *ProxyHandler) HandleReportUsage(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusInternalServerError, "user not found in context")
		return
	}

	var req ReportUsageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PlatformID == "" {
		respondError(w, http.StatusBadRequest, "platform_id is required")
		return
	}

	platform, err := h.db.GetPlatform(r.Context(), req.PlatformID, user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get platform")
		return
	}
	if platform == nil {
		respondError(w, http.StatusNotFound, "platform not found")
		return
	}

	if req.TotalTokens == 0 {
		req.TotalTokens = req.PromptTokens + req.CompletionTokens
	}

	usageLog := &models.UsageLog{
		PlatformID:       platform.ID,
		Model:            req.Model,
		PromptTokens:     req.PromptTokens,
		CompletionTokens: req.CompletionTokens,
		TotalTokens:      req.TotalTokens,
		EstimatedCost:    platform.Cost(req.PromptTokens, req.CompletionTokens),
		RequestID:        req.RequestID,
	}
	if err := h.db.CreateUsageLog(r.Context(), usageLog); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to record usage")
		return
	}

	outcome := h.checkQuota(r, platform)

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"log":           usageLog,
		"alert_outcome": outcome,
	})
}

func (h *ProxyHandler) checkQuota(r *http.Request, platform *models.Platform) alerts.Outcome {
	total, err := h.db.GetMonthlyTokenTotal(r.Context(), platform.ID)
	if err != nil {
		return alerts.OutcomeNone
	}
	return h.alerts.Check(r.Context(), platform, total)
}
