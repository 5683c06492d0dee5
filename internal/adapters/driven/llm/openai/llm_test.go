package openai

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

	svc, err := NewLLMService(LLMConfig{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)
	return svc
}

func TestNewLLMService(t *testing.T) {
	_, err := NewLLMService(LLMConfig{})
	assert.Error(t, err)

	svc, err := NewLLMService(LLMConfig{APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, DefaultLLMModel, svc.ModelName())
	assert.Equal(t, DefaultBaseURL, svc.baseURL)
	assert.NoError(t, svc.Close())
}

func TestComplete_StructuredRequest(t *testing.T) {
	var body map[string]any
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/responses", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Client-Request-Id"))
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &body))

		_, _ = w.Write([]byte(`{"output":[
			{"type":"file_search_call"},
			{"type":"message","content":[{"type":"output_text","text":"{\"title\":"},{"type":"output_text","text":"\"T\"}"}]}
		]}`))
	})

	reply, err := svc.Complete(context.Background(), domain.CompletionRequest{
		Instructions:  "inst",
		Context:       []string{"ctx one", "ctx two"},
		Prompt:        "prompt",
		Mode:          domain.ModeStructured,
		Schema:        domain.NewResponseSchema([]string{"title"}),
		Sections:      []string{"title"},
		VectorStoreID: "vs_1",
		Model:         "gpt-test",
		Temperature:   1.2,
	})

	require.NoError(t, err)
	assert.Equal(t, `{"title":"T"}`, reply)

	assert.Equal(t, "gpt-test", body["model"])
	assert.Equal(t, "inst", body["instructions"])
	assert.InDelta(t, 1.2, body["temperature"], 1e-9)

	input := body["input"].([]any)
	require.Len(t, input, 3)
	assert.Equal(t, map[string]any{"role": "assistant", "content": "ctx one"}, input[0])
	assert.Equal(t, map[string]any{"role": "user", "content": "prompt"}, input[2])

	format := body["text"].(map[string]any)["format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
	assert.Equal(t, true, format["strict"])
	schema := format["schema"].(map[string]any)
	assert.Equal(t, []any{"title"}, schema["required"])
	assert.Equal(t, false, schema["additionalProperties"])

	tools := body["tools"].([]any)
	require.Len(t, tools, 1)
	assert.Equal(t, "file_search", tools[0].(map[string]any)["type"])
	assert.Equal(t, []any{"vs_1"}, tools[0].(map[string]any)["vector_store_ids"])
}

func TestComplete_UnstructuredOmitsFormatAndTools(t *testing.T) {
	var body map[string]any
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &body))
		_, _ = w.Write([]byte(`{"output":[{"type":"message","content":[{"type":"output_text","text":"review"}]}]}`))
	})

	reply, err := svc.Complete(context.Background(), domain.CompletionRequest{
		Prompt: "p",
		Mode:   domain.ModeUnstructured,
	})

	require.NoError(t, err)
	assert.Equal(t, "review", reply)
	assert.Equal(t, DefaultLLMModel, body["model"])
	assert.NotContains(t, body, "text")
	assert.NotContains(t, body, "tools")
	assert.NotContains(t, body, "instructions")
}

func TestComplete_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"api error member", http.StatusBadRequest, `{"error":{"message":"Invalid temperature"}}`, "openai: Invalid temperature"},
		{"non-json error", http.StatusBadGateway, `upstream down`, "openai: API returned status 502: upstream down"},
		{"status without message", http.StatusInternalServerError, `{}`, "openai: API returned status 500"},
		{"no output", http.StatusOK, `{"output":[]}`, "openai: no output text returned"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := svc.Complete(context.Background(), domain.CompletionRequest{Prompt: "p"})

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrCompletionFailed)
			assert.Equal(t, tt.message, domain.ErrorMessage(err))
		})
	}
}

func TestComplete_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()
	svc, err := NewLLMService(LLMConfig{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), domain.CompletionRequest{Prompt: "p"})

	assert.ErrorIs(t, err, domain.ErrCompletionFailed)
	assert.Equal(t, "openai: request failed", domain.ErrorMessage(err))
}

func TestPing(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "/models", r.URL.Path)
	})
	assert.NoError(t, svc.Ping(context.Background()))

	bad := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("bad key"))
	})
	err := bad.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
