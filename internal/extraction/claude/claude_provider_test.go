package claude_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxform/internal/config"
	"voxform/internal/extraction"
	"voxform/internal/extraction/claude"
	"voxform/internal/port"
)

func newTestProvider(serverURL string) *claude.Provider {
	cfg := &config.ExtractionConfig{
		Provider:    "claude",
		APIKey:      "test-claude-key",
		TimeoutSecs: 5,
	}
	return claude.NewProviderWithEndpoint(cfg, serverURL)
}

func textResponse(text, stopReason string) map[string]interface{} {
	return map[string]interface{}{
		"content":     []map[string]interface{}{{"type": "text", "text": text}},
		"stop_reason": stopReason,
	}
}

func jsonRequest() port.CompletionRequest {
	return port.CompletionRequest{SystemPrompt: "system", UserPrompt: "user", Temperature: 0.1, MaxTokens: 2000, JSONMode: true}
}

func TestProvider_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-claude-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "claude-sonnet-4-20250514", body["model"])
		assert.Equal(t, "system", body["system"])
		assert.Equal(t, float64(2000), body["max_tokens"])
		messages := body["messages"].([]interface{})
		require.Len(t, messages, 1)
		assert.Equal(t, "user", messages[0].(map[string]interface{})["content"])

		_ = json.NewEncoder(w).Encode(textResponse(`{"mood":"happy"}`, "end_turn"))
	}))
	defer server.Close()

	resp, err := newTestProvider(server.URL).Complete(context.Background(), jsonRequest())
	require.NoError(t, err)
	require.NotNil(t, resp.Content)
	assert.Equal(t, `{"mood":"happy"}`, *resp.Content)
}

func TestProvider_Complete_StripsCodeFenceInJSONMode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(textResponse("```json\n{\"mood\":\"sad\"}\n```", "end_turn"))
	}))
	defer server.Close()

	resp, err := newTestProvider(server.URL).Complete(context.Background(), jsonRequest())
	require.NoError(t, err)
	assert.Equal(t, `{"mood":"sad"}`, *resp.Content)
}

func TestProvider_Complete_KeepsFenceWithoutJSONMode(t *testing.T) {
	fenced := "```json\n{}\n```"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(textResponse(fenced, "end_turn"))
	}))
	defer server.Close()

	req := jsonRequest()
	req.JSONMode = false
	resp, err := newTestProvider(server.URL).Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, fenced, *resp.Content)
}

func TestProvider_Complete_NoTextBlock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[],"stop_reason":"end_turn"}`))
	}))
	defer server.Close()

	resp, err := newTestProvider(server.URL).Complete(context.Background(), jsonRequest())
	require.NoError(t, err)
	assert.Nil(t, resp.Content)
}

func TestProvider_Complete_MaxTokens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(textResponse(`{"mood":`, "max_tokens"))
	}))
	defer server.Close()

	_, err := newTestProvider(server.URL).Complete(context.Background(), jsonRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
}

func TestProvider_Complete_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestProvider(server.URL).Complete(context.Background(), jsonRequest())
	var rlErr *extraction.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "claude", rlErr.Provider)
	assert.Equal(t, 60.0, rlErr.RetryAfter.Seconds())
}
