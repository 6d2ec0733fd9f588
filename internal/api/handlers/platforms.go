package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/andrew/ai-usage-monitor/internal/api/middleware"
	"github.com/andrew/ai-usage-monitor/internal/database"
	"github.com/andrew/ai-usage-monitor/internal/database/models"
)

// PlatformHandler handles platform CRUD requests
type PlatformHandler struct {
	db *database.DB
}

// NewPlatformHandler creates a new platform handler
func NewPlatformHandler(db *database.DB) *PlatformHandler {
	return &PlatformHandler{db: db}
}

// PlatformRequest represents a create/update platform request
type PlatformRequest struct {
	Name             string   `json:"name"`
	Provider         string   `json:"provider"`
	APIKey           string   `json:"api_key"`
	BaseURL          string   `json:"base_url,omitempty"`
	PriceInputPer1K  float64  `json:"price_input_per_1k"`
	PriceOutputPer1K float64  `json:"price_output_per_1k"`
	MonthlyQuota     *int64   `json:"monthly_quota,omitempty"`
	AlertThreshold   *int     `json:"alert_threshold,omitempty"`
	IsActive         *bool    `json:"is_active,omitempty"`
}

// HandleList handles GET /api/platforms
func (h *PlatformHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusInternalServerError, "user not found in context")
		return
	}

	platforms, err := h.db.ListPlatforms(r.Context(), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list platforms")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"platforms": platforms})
}

// HandleCreate handles POST /api/platforms
func (h *PlatformHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusInternalServerError, "user not found in context")
		return
	}

	var req PlatformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Provider == "" {
		respondError(w, http.StatusBadRequest, "provider is required")
		return
	}
	if req.AlertThreshold != nil && (*req.AlertThreshold < 0 || *req.AlertThreshold > 100) {
		respondError(w, http.StatusBadRequest, "alert_threshold must be between 0 and 100")
		return
	}

	platform := &models.Platform{
		ID:               uuid.NewString(),
		UserID:           user.ID,
		Name:             req.Name,
		Provider:         req.Provider,
		APIKey:           req.APIKey,
		BaseURL:          req.BaseURL,
		PriceInputPer1K:  req.PriceInputPer1K,
		PriceOutputPer1K: req.PriceOutputPer1K,
		MonthlyQuota:     req.MonthlyQuota,
		AlertThreshold:   database.DefaultAlertThreshold,
		IsActive:         true,
	}
	if req.AlertThreshold != nil {
		platform.AlertThreshold = *req.AlertThreshold
	}
	if req.IsActive != nil {
		platform.IsActive = *req.IsActive
	}

	if err := h.db.CreatePlatform(r.Context(), platform); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create platform")
		return
	}

	respondJSON(w, http.StatusCreated, platform)
}

// HandleGet handles GET /api/platforms/{id}
func (h *PlatformHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusInternalServerError, "user not found in context")
		return
	}

	platform, err := h.db.GetPlatform(r.Context(), r.PathValue("id"), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get platform")
		return
	}
	if platform == nil {
		respondError(w, http.StatusNotFound, "platform not found")
		return
	}

	respondJSON(w, http.StatusOK, platform)
}

// HandleUpdate handles PUT /api/platforms/{id}
func (h *PlatformHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusInternalServerError, "user not found in context")
		return
	}

	platform, err := h.db.GetPlatform(r.Context(), r.PathValue("id"), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get platform")
		return
	}
	if platform == nil {
		respondError(w, http.StatusNotFound, "platform not found")
		return
	}

	var req PlatformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AlertThreshold != nil && (*req.AlertThreshold < 0 || *req.AlertThreshold > 100) {
		respondError(w, http.StatusBadRequest, "alert_threshold must be between 0 and 100")
		return
	}

	if req.Name != "" {
		platform.Name = req.Name
	}
	if req.Provider != "" {
		platform.Provider = req.Provider
	}
	if req.APIKey != "" {
		platform.APIKey = req.APIKey
	}
	if req.BaseURL != "" {
		platform.BaseURL = req.BaseURL
	}
	if req.PriceInputPer1K != 0 {
		platform.PriceInputPer1K = req.PriceInputPer1K
	}
	if req.PriceOutputPer1K != 0 {
		platform.PriceOutputPer1K = req.PriceOutputPer1K
	}
	if req.MonthlyQuota != nil {
		platform.MonthlyQuota = req.MonthlyQuota
	}
	if req.AlertThreshold != nil {
		platform.AlertThreshold = *req.AlertThreshold
	}
	if req.IsActive != nil {
		platform.IsActive = *req.IsActive
	}

	if err := h.db.UpdatePlatform(r.Context(), platform); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update platform")
		return
	}

	respondJSON(w, http.StatusOK, platform)
}

// HandleDelete handles DELETE /api/platforms/{id}
func (h *PlatformHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusInternalServerError, "user not found in context")
		return
	}

	platform, err := h.db.GetPlatform(r.Context(), r.PathValue("id"), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get platform")
		return
	}
	if platform == nil {
		respondError(w, http.StatusNotFound, "platform not found")
		return
	}

	if err := h.db.DeletePlatform(r.Context(), platform.ID, user.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete platform")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
