package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ppoeval/internal/config"
	"ppoeval/internal/domain"
	"ppoeval/internal/evaluator"
	"ppoeval/internal/evaluator/gemini"
	"ppoeval/internal/port"
)

func newTestClient(serverURL string) *gemini.Client {
	cfg := &config.EvaluatorConfig{
		Provider:     "gemini",
		APIKey:       "test-gemini-key",
		DefaultModel: "gemini-1.5-flash",
		TimeoutSecs:  30,
	}
	return gemini.NewClientWithEndpoint(cfg, serverURL)
}

func successResponse(parts ...string) map[string]interface{} {
	ps := make([]map[string]interface{}, 0, len(parts))
	for _, p := range parts {
		ps = append(ps, map[string]interface{}{"text": p})
	}
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"role":  "model",
					"parts": ps,
				},
				"finishReason": "STOP",
			},
		},
	}
}

func TestGeminiClient_Evaluate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-gemini-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))

		contents := reqBody["contents"].([]interface{})
		require.Len(t, contents, 1)
		msg := contents[0].(map[string]interface{})
		assert.Equal(t, "user", msg["role"])
		parts := msg["parts"].([]interface{})
		require.Len(t, parts, 1)
		assert.Equal(t, "evalúa esto", parts[0].(map[string]interface{})["text"])

		sys := reqBody["systemInstruction"].(map[string]interface{})
		sysParts := sys["parts"].([]interface{})
		assert.Equal(t, "sos un pedagogo", sysParts[0].(map[string]interface{})["text"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(successResponse("<h2>Resumen ejecutivo</h2>"))
	}))
	defer server.Close()

	out, err := newTestClient(server.URL).Evaluate(context.Background(), port.EvaluateInput{
		Prompt:            "evalúa esto",
		SystemInstruction: "sos un pedagogo",
	})

	require.NoError(t, err)
	assert.Equal(t, "<h2>Resumen ejecutivo</h2>", out.Text)
	assert.Equal(t, "gemini-1.5-flash", out.ModelUsed)
}

func TestGeminiClient_Evaluate_JoinsParts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(successResponse("<p>uno", " dos</p>"))
	}))
	defer server.Close()

	out, err := newTestClient(server.URL).Evaluate(context.Background(), port.EvaluateInput{Prompt: "p"})

	require.NoError(t, err)
	assert.Equal(t, "<p>uno dos</p>", out.Text)
}

func TestGeminiClient_Evaluate_OmitsEmptySystemInstruction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		_, ok := reqBody["systemInstruction"]
		assert.False(t, ok)
		_ = json.NewEncoder(w).Encode(successResponse("ok"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Evaluate(context.Background(), port.EvaluateInput{Prompt: "p"})
	require.NoError(t, err)
}

func TestGeminiClient_Evaluate_MissingKeyMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	c := gemini.NewClientWithEndpoint(&config.EvaluatorConfig{Provider: "gemini"}, server.URL)
	assert.False(t, c.HasCredential())
	assert.True(t, newTestClient(server.URL).HasCredential())

	_, err := c.Evaluate(context.Background(), port.EvaluateInput{Prompt: "p"})

	assert.ErrorIs(t, err, domain.ErrMissingCredential)
	assert.Equal(t, int32(0), calls.Load())
}

func TestGeminiClient_Evaluate_SendsExactlyOneRequest(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"internal"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Evaluate(context.Background(), port.EvaluateInput{Prompt: "p"})

	assert.ErrorIs(t, err, domain.ErrUpstreamService)
	assert.Contains(t, err.Error(), "status 500")
	assert.Equal(t, int32(1), calls.Load())
}

func TestGeminiClient_Evaluate_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Evaluate(context.Background(), port.EvaluateInput{Prompt: "p"})

	var rlErr *evaluator.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "gemini", rlErr.Provider)
	assert.Equal(t, 30*time.Second, rlErr.RetryAfter)
	assert.ErrorIs(t, err, domain.ErrUpstreamService)
}

func TestGeminiClient_Evaluate_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Evaluate(context.Background(), port.EvaluateInput{Prompt: "p"})

	assert.ErrorIs(t, err, domain.ErrUpstreamService)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestGeminiClient_Evaluate_BlockedPrompt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Evaluate(context.Background(), port.EvaluateInput{Prompt: "p"})

	assert.ErrorIs(t, err, domain.ErrUpstreamService)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestGeminiClient_Evaluate_NoParts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[]}}]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Evaluate(context.Background(), port.EvaluateInput{Prompt: "p"})

	assert.ErrorIs(t, err, domain.ErrUpstreamService)
}

func TestGeminiClient_Evaluate_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Evaluate(context.Background(), port.EvaluateInput{Prompt: "p"})

	assert.ErrorIs(t, err, domain.ErrUpstreamService)
}

func TestGeminiClient_Evaluate_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestClient(server.URL).Evaluate(ctx, port.EvaluateInput{Prompt: "p"})

	assert.ErrorIs(t, err, domain.ErrUpstreamTimeout)
	assert.NotErrorIs(t, err, domain.ErrUpstreamService)
}

func TestGeminiClient_DefaultModel(t *testing.T) {
	c := gemini.NewClient(&config.EvaluatorConfig{APIKey: "k"})
	assert.Equal(t, "gemini-1.5-flash", c.Model())
}
