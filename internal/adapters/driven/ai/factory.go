// Package ai provides factory functions for creating completion service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	anthropicllm "github.com/custodia-labs/reportdraft/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/reportdraft/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/reportdraft/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/reportdraft/internal/core/domain"
	"github.com/custodia-labs/reportdraft/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateAndValidateCompletionService creates a completion service and validates connectivity.
// Returns nil without error when no provider is configured.
func CreateAndValidateCompletionService(settings *domain.LLMSettings) (driven.CompletionService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateCompletionService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'reportdraft settings llm' to fix",
			domain.ErrCompletionUnavailable, err)
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'reportdraft settings llm' to fix",
			domain.ErrCompletionUnavailable, err)
	}

	return svc, nil
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
// This is intended for use when settings are saved to validate credentials.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateCompletionService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateCompletionService creates the adapter for the configured provider,
// rate limited when settings carry a requests-per-minute budget.
// Returns nil if the provider is not configured.
func CreateCompletionService(settings *domain.LLMSettings) (driven.CompletionService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	var (
		svc driven.CompletionService
		err error
	)
	switch settings.Provider {
	case domain.AIProviderOllama:
		svc = createOllamaLLM(settings)

	case domain.AIProviderOpenAI:
		svc, err = createOpenAILLM(settings)

	case domain.AIProviderAnthropic:
		svc, err = createAnthropicLLM(settings)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
	if err != nil {
		return nil, err
	}

	return NewRateLimited(svc, settings.RequestsPerMinute), nil
}

// createOllamaLLM creates an Ollama completion service.
func createOllamaLLM(settings *domain.LLMSettings) driven.CompletionService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
		Timeout: settings.Timeout,
	})
}

// createOpenAILLM creates an OpenAI completion service.
func createOpenAILLM(settings *domain.LLMSettings) (driven.CompletionService, error) {
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
		Timeout: settings.Timeout,
	})
}

// createAnthropicLLM creates an Anthropic completion service.
func createAnthropicLLM(settings *domain.LLMSettings) (driven.CompletionService, error) {
	return anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
		Timeout: settings.Timeout,
	})
}
