package ai

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/reportdraft/internal/core/domain"
	"github.com/custodia-labs/reportdraft/internal/core/ports/driven"
	"github.com/custodia-labs/reportdraft/internal/logger"
)

// Ensure RateLimited implements the interface.
var _ driven.CompletionService = (*RateLimited)(nil)

// RateLimited spaces completion calls to a requests-per-minute budget.
// It waits for a token before each call and never retries a failed one.
type RateLimited struct {
	next    driven.CompletionService
	limiter *rate.Limiter
}

// NewRateLimited wraps svc. A non-positive rpm returns svc unchanged.
func NewRateLimited(svc driven.CompletionService, rpm int) driven.CompletionService {
	if rpm <= 0 || svc == nil {
		return svc
	}
	interval := time.Minute / time.Duration(rpm)
	return &RateLimited{
		next:    svc,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Complete waits for the limiter, then forwards the request.
func (r *RateLimited) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	if !r.limiter.Allow() {
		logger.Debug("Completion rate limit reached, waiting")
		if err := r.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: rate limit wait: %w", domain.ErrCompletionFailed, err)
		}
	}
	return r.next.Complete(ctx, req)
}

// ModelName returns the wrapped service's model.
func (r *RateLimited) ModelName() string {
	return r.next.ModelName()
}

// Ping is not rate limited.
func (r *RateLimited) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}

// Close closes the wrapped service.
func (r *RateLimited) Close() error {
	return r.next.Close()
}
