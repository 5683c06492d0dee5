package ai

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	anthropicllm "github.com/custodia-labs/reportdraft/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/reportdraft/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/reportdraft/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/reportdraft/internal/core/domain"
)

func TestCreateCompletionService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.LLMSettings
		wantNil  bool
		wantErr  bool
		check    func(t *testing.T, svc any)
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.LLMSettings{},
			wantNil:  true,
		},
		{
			name:     "openai without key is unconfigured",
			settings: &domain.LLMSettings{Provider: domain.AIProviderOpenAI},
			wantNil:  true,
		},
		{
			name: "ollama provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOllama,
				Model:    "llama3.2",
			},
			check: func(t *testing.T, svc any) {
				_, ok := svc.(*ollamallm.LLMService)
				assert.True(t, ok)
			},
		},
		{
			name: "openai provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "sk-test",
			},
			check: func(t *testing.T, svc any) {
				_, ok := svc.(*openaillm.LLMService)
				assert.True(t, ok)
			},
		},
		{
			name: "anthropic provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "key",
			},
			check: func(t *testing.T, svc any) {
				_, ok := svc.(*anthropicllm.LLMService)
				assert.True(t, ok)
			},
		},
		{
			name: "requests per minute wraps service",
			settings: &domain.LLMSettings{
				Provider:          domain.AIProviderOllama,
				RequestsPerMinute: 30,
			},
			check: func(t *testing.T, svc any) {
				_, ok := svc.(*RateLimited)
				assert.True(t, ok)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateCompletionService(tt.settings)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			tt.check(t, svc)
		})
	}
}

func TestCreateCompletionService_ModelAndTimeout(t *testing.T) {
	svc, err := CreateCompletionService(&domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		Model:    "mistral",
		Timeout:  5 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, "mistral", svc.ModelName())
}

func TestCreateAndValidateCompletionService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
	}))
	defer server.Close()

	svc, err := CreateAndValidateCompletionService(&domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  server.URL,
	})
	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.NoError(t, svc.Close())

	svc, err = CreateAndValidateCompletionService(nil)
	assert.NoError(t, err)
	assert.Nil(t, svc)
}

func TestCreateAndValidateCompletionService_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := CreateAndValidateCompletionService(&domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  server.URL,
	})
	assert.ErrorIs(t, err, domain.ErrCompletionUnavailable)
}
