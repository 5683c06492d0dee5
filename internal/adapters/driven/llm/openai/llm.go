// Package openai provides a completion adapter using the OpenAI Responses API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/reportdraft/internal/core/domain"
	"github.com/custodia-labs/reportdraft/internal/core/ports/driven"
	"github.com/custodia-labs/reportdraft/internal/logger"
)

// Ensure LLMService implements the interface.
var _ driven.CompletionService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultLLMModel   = "gpt-4.1-mini-2025-04-14"
	DefaultLLMTimeout = 120 * time.Second
)

// schemaName names the json_schema response format.
const schemaName = "staff_report"

// LLMConfig holds configuration for the OpenAI completion service.
type LLMConfig struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is used when a request names none (default: gpt-4.1-mini).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMService sends completion requests to the Responses API.
type LLMService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// responsesRequest is the /responses request body.
type responsesRequest struct {
	Model        string           `json:"model"`
	Instructions string           `json:"instructions,omitempty"`
	Input        []inputMessage   `json:"input"`
	Temperature  float64          `json:"temperature"`
	Text         *textOptions     `json:"text,omitempty"`
	Tools        []fileSearchTool `json:"tools,omitempty"`
}

type inputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type textOptions struct {
	Format textFormat `json:"format"`
}

type textFormat struct {
	Type   string                 `json:"type"`
	Name   string                 `json:"name"`
	Schema *domain.ResponseSchema `json:"schema"`
	Strict bool                   `json:"strict"`
}

type fileSearchTool struct {
	Type           string   `json:"type"`
	VectorStoreIDs []string `json:"vector_store_ids"`
}

// responsesResponse is the subset of the /responses reply we read.
type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// NewLLMService creates a new OpenAI completion service.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	return &LLMService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// buildRequest maps a completion request onto the Responses API.
// Context statements are sent as assistant turns ahead of the user prompt.
func (s *LLMService) buildRequest(req domain.CompletionRequest) responsesRequest {
	model := req.Model
	if model == "" {
		model = s.model
	}

	input := make([]inputMessage, 0, len(req.Context)+1)
	for _, c := range req.Context {
		input = append(input, inputMessage{Role: "assistant", Content: c})
	}
	input = append(input, inputMessage{Role: "user", Content: req.Prompt})

	body := responsesRequest{
		Model:        model,
		Instructions: req.Instructions,
		Input:        input,
		Temperature:  req.Temperature,
	}
	if req.Structured() && req.Schema != nil {
		body.Text = &textOptions{Format: textFormat{
			Type:   "json_schema",
			Name:   schemaName,
			Schema: req.Schema,
			Strict: true,
		}}
	}
	if req.VectorStoreID != "" {
		body.Tools = []fileSearchTool{{
			Type:           "file_search",
			VectorStoreIDs: []string{req.VectorStoreID},
		}}
	}
	return body
}

// Complete sends one request and returns the concatenated output text.
func (s *LLMService) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	jsonBody, err := json.Marshal(s.buildRequest(req))
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	requestID := uuid.NewString()
	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/responses",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	httpReq.Header.Set("X-Client-Request-Id", requestID)

	logger.Debug("openai: request %s (mode %s, %d context blocks)", requestID, req.Mode, len(req.Context))

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", failure("openai: request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", failure("openai: failed to read response", err)
	}

	var out responsesResponse
	if err := json.Unmarshal(body, &out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", failure(fmt.Sprintf("openai: API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
		}
		return "", failure("openai: invalid response body", err)
	}

	if out.Error != nil && out.Error.Message != "" {
		return "", failure("openai: "+out.Error.Message, nil)
	}
	if resp.StatusCode != http.StatusOK {
		return "", failure(fmt.Sprintf("openai: API returned status %d", resp.StatusCode), nil)
	}

	var text strings.Builder
	for _, item := range out.Output {
		if item.Type != "message" {
			continue
		}
		for _, c := range item.Content {
			if c.Type == "output_text" {
				text.WriteString(c.Text)
			}
		}
	}
	if text.Len() == 0 {
		return "", failure("openai: no output text returned", nil)
	}
	return text.String(), nil
}

func failure(message string, cause error) error {
	return fmt.Errorf("%w: %w", domain.ErrCompletionFailed, &domain.ServiceError{Message: message, Err: cause})
}

// ModelName returns the model used when a request names none.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by checking the /models endpoint.
// This is a lightweight check that validates the API key without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("openai: failed to create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("openai: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("openai: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
