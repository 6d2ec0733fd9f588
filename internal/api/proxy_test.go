package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProxyChat(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-xyz",
			"model": "gpt-4o",
			"choices": [{"message": {"role": "assistant", "content": "hello"}}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30}
		}`))
	}))
	defer upstream.Close()

	handler := newTestHandler(t)
	token := registerAndLogin(t, handler, "erin@example.com")

	rec := doJSON(t, handler, http.MethodPost, "/api/platforms", token, map[string]interface{}{
		"name":                "openai-main",
		"provider":            "openai",
		"api_key":             "sk-test",
		"base_url":            upstream.URL,
		"price_input_per_1k":  1.0,
		"price_output_per_1k": 2.0,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var platform struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &platform)

	// Proxy a chat request; the upstream body comes back verbatim.
	rec = doJSON(t, handler, http.MethodPost, "/api/proxy/"+platform.ID+"/chat", token, map[string]interface{}{
		"model":    "gpt-4o",
		"messages": []map[string]string{{"role": "user", "content": "hi"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "chatcmpl-xyz")

	// The forwarded call was recorded with cost from the pricing config:
	// 10/1000*1.0 + 20/1000*2.0 = 0.05.
	rec = doJSON(t, handler, http.MethodGet, "/api/usage/logs", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Logs []struct {
			Model         string  `json:"model"`
			TotalTokens   int     `json:"total_tokens"`
			EstimatedCost float64 `json:"estimated_cost"`
			RequestID     *string `json:"request_id"`
		} `json:"logs"`
	}
	decodeBody(t, rec, &page)
	require.Len(t, page.Logs, 1)
	require.Equal(t, "gpt-4o", page.Logs[0].Model)
	require.Equal(t, 30, page.Logs[0].TotalTokens)
	require.InDelta(t, 0.05, page.Logs[0].EstimatedCost, 1e-9)
	require.NotNil(t, page.Logs[0].RequestID)
	require.Equal(t, "chatcmpl-xyz", *page.Logs[0].RequestID)
}

func TestProxyChat_InactivePlatform(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t)
	token := registerAndLogin(t, handler, "frank@example.com")

	inactive := false
	rec := doJSON(t, handler, http.MethodPost, "/api/platforms", token, map[string]interface{}{
		"name":      "disabled",
		"provider":  "openai",
		"is_active": inactive,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var platform struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &platform)

	rec = doJSON(t, handler, http.MethodPost, "/api/proxy/"+platform.ID+"/chat", token, map[string]interface{}{
		"model": "gpt-4o",
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProxyChat_UnknownPlatform(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t)
	token := registerAndLogin(t, handler, "grace@example.com")

	rec := doJSON(t, handler, http.MethodPost, "/api/proxy/does-not-exist/chat", token, map[string]interface{}{
		"model": "gpt-4o",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}
