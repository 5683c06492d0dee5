package driven

import (
	"context"

	"github.com/custodia-labs/reportdraft/internal/core/domain"
)

// CompletionService sends one request to a language model and returns its reply text.
// Implementations never retry; a failed call surfaces to the user as-is.
//
// Implementations may include:
//   - OpenAI (Responses API, with hosted file search)
//   - Anthropic (Claude)
//   - Ollama (local models)
type CompletionService interface {
	// Complete sends the request and returns the raw reply text.
	// Transport failures are wrapped with domain.ErrCompletionFailed.
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)

	// ModelName returns the default model used when a request names none.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
