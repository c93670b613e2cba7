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

	"ppoeval/internal/config"
	"ppoeval/internal/domain"
	"ppoeval/internal/evaluator"
	"ppoeval/internal/evaluator/claude"
	"ppoeval/internal/port"
)

func newTestClient(serverURL string) *claude.Client {
	cfg := &config.EvaluatorConfig{
		Provider:     "claude",
		APIKey:       "test-api-key",
		DefaultModel: "claude-sonnet-4-20250514",
		TimeoutSecs:  30,
	}
	return claude.NewClientWithEndpoint(cfg, serverURL)
}

func TestClaudeClient_Evaluate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-api-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "claude-sonnet-4-20250514", reqBody["model"])
		assert.Equal(t, "persona", reqBody["system"])
		messages := reqBody["messages"].([]interface{})
		require.Len(t, messages, 1)
		assert.Equal(t, "el prompt", messages[0].(map[string]interface{})["content"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]interface{}{
				{"type": "text", "text": "<h2>Dictamen final</h2>"},
			},
			"stop_reason": "end_turn",
		})
	}))
	defer server.Close()

	out, err := newTestClient(server.URL).Evaluate(context.Background(), port.EvaluateInput{
		Prompt:            "el prompt",
		SystemInstruction: "persona",
	})

	require.NoError(t, err)
	assert.Equal(t, "<h2>Dictamen final</h2>", out.Text)
	assert.Equal(t, "claude-sonnet-4-20250514", out.ModelUsed)
}

func TestClaudeClient_Evaluate_IgnoresGeminiDefaultModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "claude-sonnet-4-20250514", reqBody["model"])
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"ok"}]}`))
	}))
	defer server.Close()

	c := claude.NewClientWithEndpoint(&config.EvaluatorConfig{APIKey: "k", DefaultModel: "gemini-1.5-flash"}, server.URL)
	_, err := c.Evaluate(context.Background(), port.EvaluateInput{Prompt: "p"})
	require.NoError(t, err)
}

func TestClaudeClient_Evaluate_MissingKey(t *testing.T) {
	c := claude.NewClientWithEndpoint(&config.EvaluatorConfig{}, "http://127.0.0.1:1")
	assert.False(t, c.HasCredential())
	assert.True(t, newTestClient("http://127.0.0.1:1").HasCredential())

	_, err := c.Evaluate(context.Background(), port.EvaluateInput{Prompt: "p"})
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
}

func TestClaudeClient_Evaluate_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Evaluate(context.Background(), port.EvaluateInput{Prompt: "p"})

	var rlErr *evaluator.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "claude", rlErr.Provider)
}

func TestClaudeClient_Evaluate_NoTextContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Evaluate(context.Background(), port.EvaluateInput{Prompt: "p"})
	assert.ErrorIs(t, err, domain.ErrUpstreamService)
}

func TestClaudeClient_Evaluate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Evaluate(context.Background(), port.EvaluateInput{Prompt: "p"})
	assert.ErrorIs(t, err, domain.ErrUpstreamService)
	assert.Contains(t, err.Error(), "status 502")
}
