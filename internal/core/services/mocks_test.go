package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/reportdraft/internal/core/domain"
	"github.com/custodia-labs/reportdraft/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockCompletion implements driven.CompletionService for testing.
type mockCompletion struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []domain.CompletionRequest

	// started is signalled when Complete is entered, if set.
	started chan struct{}
	// release blocks Complete until closed, if set.
	release chan struct{}
}

func (m *mockCompletion) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.release != nil {
		select {
		case <-m.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return m.reply, m.err
}

func (m *mockCompletion) ModelName() string { return "mock-model" }

func (m *mockCompletion) Ping(_ context.Context) error { return nil }

func (m *mockCompletion) Close() error { return nil }

func (m *mockCompletion) lastRequest() domain.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return domain.CompletionRequest{}
	}
	return m.requests[len(m.requests)-1]
}

func (m *mockCompletion) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// mockPrompts implements driven.PromptStore for testing.
type mockPrompts struct {
	prompts map[string]string
	loads   int
}

func (m *mockPrompts) Load(name string) (string, error) {
	m.loads++
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", errors.New("prompt not found")
}

func (m *mockPrompts) Reload() {}

func defaultMockPrompts() *mockPrompts {
	return &mockPrompts{prompts: map[string]string{
		driven.PromptDraftInstructions:  "draft instructions",
		driven.PromptDraftRequest:       "draft request",
		driven.PromptReviewInstructions: "review instructions",
		driven.PromptReviewRequest:      "review request",
	}}
}

// mockLookup implements driven.RecordLookup for testing.
type mockLookup struct {
	records map[domain.RecordRef]domain.Record
	err     error
	seen    []domain.RecordRef
}

func (m *mockLookup) Lookup(_ context.Context, ref domain.RecordRef) (*domain.Record, error) {
	m.seen = append(m.seen, ref)
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.records[ref]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

// mockExporter implements driven.ReportExporter for testing.
type mockExporter struct {
	err error
}

func (m *mockExporter) DownloadURL(base string, doc domain.Document) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return fmt.Sprintf("%s?keys=%d", base, doc.Len()), nil
}

// mockAIValidator implements driven.AIConfigValidator for testing.
type mockAIValidator struct {
	err  error
	seen *domain.LLMSettings
}

func (m *mockAIValidator) ValidateLLM(settings *domain.LLMSettings) error {
	m.seen = settings
	return m.err
}
