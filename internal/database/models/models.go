package models

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Sanitized returns a copy with the password hash cleared. Handlers return
// this copy so the hash never leaves the storage layer, regardless of how
// the struct is later serialized or logged.
func (u *User) Sanitized() *User {
	c := *u
	c.PasswordHash = ""
	return &c
}

type Platform struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Name             string    `json:"name"`
	Provider         string    `json:"provider"` // openai, anthropic, etc.
	APIKey           string    `json:"-"`
	BaseURL          string    `json:"base_url,omitempty"`
	PriceInputPer1K  float64   `json:"price_input_per_1k"`
	PriceOutputPer1K float64   `json:"price_output_per_1k"`
	MonthlyQuota     *int64    `json:"monthly_quota,omitempty"`
	AlertThreshold   int       `json:"alert_threshold"` // percent of quota, default 80
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Cost prices a request against the platform's per-1K-token pricing config.
func (p *Platform) Cost(promptTokens, completionTokens int) float64 {
	return float64(promptTokens)/1000.0*p.PriceInputPer1K +
		float64(completionTokens)/1000.0*p.PriceOutputPer1K
}

type UsageLog struct {
	ID               int64     `json:"id"`
	PlatformID       string    `json:"platform_id"`
	Model            string    `json:"model"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens"`
	EstimatedCost    float64   `json:"estimated_cost"`
	RequestID        *string   `json:"request_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type UsageSums struct {
	PromptTokens     int64   `json:"prompt_tokens"`
	CompletionTokens int64   `json:"completion_tokens"`
	TotalTokens      int64   `json:"total_tokens"`
	EstimatedCost    float64 `json:"estimated_cost"`
}

type UsageStats struct {
	TotalRequests int64     `json:"total_requests"`
	Total         UsageSums `json:"total"`
	Today         UsageSums `json:"today"`
}

type DailyUsage struct {
	Date          string  `json:"date"` // YYYY-MM-DD
	TotalTokens   int64   `json:"total_tokens"`
	EstimatedCost float64 `json:"estimated_cost"`
}

type PlatformUsage struct {
	PlatformID   string `json:"platform_id"`
	PlatformName string `json:"platform_name"`
	TotalTokens  int64  `json:"total_tokens"`
}
