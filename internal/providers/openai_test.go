package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestChatCompletion(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-abc123",
			"model": "gpt-4o",
			"choices": [{"message": {"role": "assistant", "content": "hi"}}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 34, "total_tokens": 46}
		}`))
	}))
	defer upstream.Close()

	client := NewClient(5 * time.Second)
	result, err := client.ChatCompletion(context.Background(), upstream.URL+"/v1", "sk-test",
		[]byte(`{"model":"gpt-4o","messages":[]}`))
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, result.StatusCode)
	require.Equal(t, "chatcmpl-abc123", result.RequestID)
	require.Equal(t, "gpt-4o", result.Model)
	require.NotNil(t, result.Usage)
	require.Equal(t, 12, result.Usage.PromptTokens)
	require.Equal(t, 34, result.Usage.CompletionTokens)
	require.Equal(t, 46, result.Usage.TotalTokens)
	require.Contains(t, string(result.Body), "assistant")
}

func TestChatCompletion_UpstreamError(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "invalid api key"}}`))
	}))
	defer upstream.Close()

	client := NewClient(5 * time.Second)
	result, err := client.ChatCompletion(context.Background(), upstream.URL, "sk-bad", []byte(`{}`))
	require.NoError(t, err)

	// Upstream errors are relayed, not turned into Go errors.
	require.Equal(t, http.StatusUnauthorized, result.StatusCode)
	require.Nil(t, result.Usage)
	require.Contains(t, string(result.Body), "invalid api key")
}

func TestChatCompletion_UpstreamDown(t *testing.T) {
	t.Parallel()

	client := NewClient(time.Second)
	_, err := client.ChatCompletion(context.Background(), "http://127.0.0.1:1", "sk", []byte(`{}`))
	require.Error(t, err)
}
