package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reportdraft/internal/core/domain"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewLLMService(Config{APIKey: "key", BaseURL: server.URL})
	require.NoError(t, err)
	return svc
}

func TestNewLLMService(t *testing.T) {
	_, err := NewLLMService(Config{})
	assert.Error(t, err)

	svc, err := NewLLMService(Config{APIKey: "key"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, svc.ModelName())
}

func TestSystemPrompt(t *testing.T) {
	got, err := systemPrompt(domain.CompletionRequest{
		Instructions: "inst",
		Context:      []string{"a", "b"},
		Mode:         domain.ModeStructured,
		Schema:       domain.NewResponseSchema([]string{"title"}),
	})
	require.NoError(t, err)
	assert.Equal(t, "inst\n\na\n\nb\n\nRespond with only a JSON object that matches this JSON schema, with no other text:\n"+
		`{"type":"object","additionalProperties":false,"properties":{"title":{"type":"string"}},"required":["title"]}`, got)

	got, err = systemPrompt(domain.CompletionRequest{Mode: domain.ModeUnstructured, Context: []string{"a"}})
	require.NoError(t, err)
	assert.Equal(t, "a", got)
}

func TestComplete(t *testing.T) {
	var body messagesRequest
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &body))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Hello "},{"type":"text","text":"there"}],"stop_reason":"end_turn"}`))
	})

	reply, err := svc.Complete(context.Background(), domain.CompletionRequest{
		Instructions: "inst",
		Prompt:       "prompt",
		Mode:         domain.ModeUnstructured,
		Temperature:  0.5,
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello there", reply)
	assert.Equal(t, DefaultModel, body.Model)
	assert.Equal(t, "inst", body.System)
	assert.Equal(t, []messagesMessage{{Role: "user", Content: "prompt"}}, body.Messages)
	assert.Equal(t, DefaultMaxTokens, body.MaxTokens)
	assert.InDelta(t, 0.5, body.Temperature, 1e-9)
}

func TestComplete_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"api error", http.StatusBadRequest, `{"type":"error","error":{"type":"invalid_request_error","message":"temperature: range"}}`, "anthropic: temperature: range"},
		{"plain text", http.StatusServiceUnavailable, `overloaded`, "anthropic: API returned status 503: overloaded"},
		{"empty content", http.StatusOK, `{"content":[]}`, "anthropic: no text content returned"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := svc.Complete(context.Background(), domain.CompletionRequest{Prompt: "p"})

			assert.ErrorIs(t, err, domain.ErrCompletionFailed)
			assert.Equal(t, tt.message, domain.ErrorMessage(err))
		})
	}
}

func TestPing(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
	})
	assert.NoError(t, svc.Ping(context.Background()))
}
