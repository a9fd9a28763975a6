package gemini_test

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
	"voxform/internal/extraction/gemini"
	"voxform/internal/port"
)

func newTestProvider(serverURL string) *gemini.Provider {
	cfg := &config.ExtractionConfig{
		Provider:    "gemini",
		APIKey:      "test-gemini-key",
		TimeoutSecs: 5,
	}
	return gemini.NewProviderWithEndpoint(cfg, serverURL)
}

func jsonRequest() port.CompletionRequest {
	return port.CompletionRequest{SystemPrompt: "system", UserPrompt: "user", Temperature: 0.1, MaxTokens: 2000, JSONMode: true}
}

func TestProvider_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-gemini-key", r.Header.Get("x-goog-api-key"))

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gen := body["generationConfig"].(map[string]interface{})
		assert.Equal(t, "application/json", gen["responseMimeType"])
		assert.Equal(t, float64(2000), gen["maxOutputTokens"])
		assert.Equal(t, 0.1, gen["temperature"])

		sys := body["systemInstruction"].(map[string]interface{})
		parts := sys["parts"].([]interface{})
		assert.Equal(t, "system", parts[0].(map[string]interface{})["text"])

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"mood\":"},{"text":"\"happy\"}"}]},"finishReason":"STOP"}]}`))
	}))
	defer server.Close()

	resp, err := newTestProvider(server.URL).Complete(context.Background(), jsonRequest())
	require.NoError(t, err)
	require.NotNil(t, resp.Content)
	assert.Equal(t, `{"mood":"happy"}`, *resp.Content)
	assert.Equal(t, "gemini-2.0-flash", resp.Model)
}

func TestProvider_Complete_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	resp, err := newTestProvider(server.URL).Complete(context.Background(), jsonRequest())
	require.NoError(t, err)
	assert.Nil(t, resp.Content)
}

func TestProvider_Complete_MaxTokens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{"}]},"finishReason":"MAX_TOKENS"}]}`))
	}))
	defer server.Close()

	_, err := newTestProvider(server.URL).Complete(context.Background(), jsonRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_TOKENS")
}

func TestProvider_Complete_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestProvider(server.URL).Complete(context.Background(), jsonRequest())
	var rlErr *extraction.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "gemini", rlErr.Provider)
}
