// Package providers talks to upstream LLM APIs. Platforms point at any
// OpenAI-compatible chat-completions endpoint; the platform's stored API key
// authenticates the forwarded call.
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is used when a platform has no base URL configured.
const DefaultBaseURL = "https://api.openai.com/v1"

const defaultTimeout = 60 * time.Second

// Usage mirrors the usage object of a chat-completion response.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResult carries the upstream response. Body is the raw upstream JSON,
// returned to the caller untouched; RequestID, Model and Usage are parsed
// out of it for usage accounting.
type ChatResult struct {
	StatusCode int
	Body       json.RawMessage
	RequestID  string
	Model      string
	Usage      *Usage
}

// Client forwards chat-completion requests. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a Client with the given upstream timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ChatCompletion forwards body to {baseURL}/chat/completions with the given
// API key. One call, no retries. A non-2xx upstream status is not an error
// here; the caller relays status and body to its own client.
func (c *Client) ChatCompletion(ctx context.Context, baseURL, apiKey string, body []byte) (*ChatResult, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	url := strings.TrimRight(baseURL, "/") + "/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upstream response: %w", err)
	}

	result := &ChatResult{
		StatusCode: resp.StatusCode,
		Body:       respBody,
	}

	// Best effort: an upstream error body has none of these fields.
	var parsed struct {
		ID    string `json:"id"`
		Model string `json:"model"`
		Usage *Usage `json:"usage"`
	}
	if err := json.Unmarshal(respBody, &parsed); err == nil {
		result.RequestID = parsed.ID
		result.Model = parsed.Model
		result.Usage = parsed.Usage
	}

	return result, nil
}
