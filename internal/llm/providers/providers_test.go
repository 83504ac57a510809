package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-research/internal/config"
	"job-research/internal/logging"
)

func testConfig(provider, baseURL string) *config.Config {
	cfg := config.Default()
	cfg.LLM.Provider = provider
	cfg.LLM.APIKey = "test-key"
	cfg.LLM.BaseURL = baseURL
	cfg.LLM.Timeout = 2 * time.Second
	return cfg
}

func claudeMessage(text string) string {
	return fmt.Sprintf(`{
		"id": "msg_01",
		"type": "message",
		"role": "assistant",
		"model": "claude-3-haiku-20240307",
		"content": [{"type": "text", "text": %q}],
		"stop_reason": "end_turn",
		"stop_sequence": null,
		"usage": {"input_tokens": 12, "output_tokens": 7}
	}`, text)
}

func TestClaudeProvider_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "claude-3-haiku-20240307", body["model"])

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, claudeMessage(`["Learn Go", "Network"]`))
	}))
	defer srv.Close()

	p := NewClaudeProvider(testConfig("claude", srv.URL), logging.NewNopLogger())
	reply, err := p.Complete(context.Background(), "recommend")
	require.NoError(t, err)
	assert.Equal(t, `["Learn Go", "Network"]`, reply)
	assert.Equal(t, "claude", p.GetProviderName())
}

func TestClaudeProvider_EmptyReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, claudeMessage("   "))
	}))
	defer srv.Close()

	p := NewClaudeProvider(testConfig("claude", srv.URL), logging.NewNopLogger())
	_, err := p.Complete(context.Background(), "recommend")
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestClaudeProvider_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"type":"error","error":{"type":"invalid_request_error","message":"bad model"}}`)
	}))
	defer srv.Close()

	p := NewClaudeProvider(testConfig("claude", srv.URL), logging.NewNopLogger())
	_, err := p.Complete(context.Background(), "recommend")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to call Claude API")
}

func TestClaudeProvider_ServerErrorNotRetried(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"type":"error","error":{"type":"api_error","message":"overloaded"}}`)
	}))
	defer srv.Close()

	p := NewClaudeProvider(testConfig("claude", srv.URL), logging.NewNopLogger())
	_, err := p.Complete(context.Background(), "recommend")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestClaudeProvider_IsHealthyWithoutKey(t *testing.T) {
	cfg := testConfig("claude", "")
	cfg.LLM.APIKey = ""
	p := NewClaudeProvider(cfg, logging.NewNopLogger())
	assert.Error(t, p.IsHealthy(context.Background()))
}

func TestOpenRouterProvider_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "https://example.com", r.Header.Get("HTTP-Referer"))
		assert.Equal(t, "job-research", r.Header.Get("X-Title"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "recommend", req.Messages[0].Content)
		assert.Equal(t, 1024, req.MaxTokens)

		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"  [\"Apply early\"]  "}}]}`)
	}))
	defer srv.Close()

	cfg := testConfig("openrouter", srv.URL+"/")
	cfg.LLM.Referer = "https://example.com"
	p := NewOpenRouterProvider(cfg, logging.NewNopLogger())

	reply, err := p.Complete(context.Background(), "recommend")
	require.NoError(t, err)
	assert.Equal(t, `["Apply early"]`, reply)
}

func TestOpenRouterProvider_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		contain string
	}{
		{name: "http error", status: http.StatusTooManyRequests, body: `{"error":{"message":"rate limited"}}`, contain: "429"},
		{name: "error object", status: http.StatusOK, body: `{"error":{"message":"model overloaded"}}`, contain: "model overloaded"},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantErr: ErrEmptyCompletion},
		{name: "blank content", status: http.StatusOK, body: `{"choices":[{"message":{"role":"assistant","content":" "}}]}`, wantErr: ErrEmptyCompletion},
		{name: "invalid json", status: http.StatusOK, body: `not json`, contain: "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			p := NewOpenRouterProvider(testConfig("openrouter", srv.URL), logging.NewNopLogger())
			_, err := p.Complete(context.Background(), "recommend")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.contain != "" {
				assert.Contains(t, err.Error(), tt.contain)
			}
		})
	}
}

func TestOpenRouterProvider_IsHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer srv.Close()

	p := NewOpenRouterProvider(testConfig("openrouter", srv.URL), logging.NewNopLogger())
	assert.NoError(t, p.IsHealthy(context.Background()))

	cfg := testConfig("openrouter", srv.URL)
	cfg.LLM.APIKey = ""
	assert.Error(t, NewOpenRouterProvider(cfg, logging.NewNopLogger()).IsHealthy(context.Background()))
}
