package driven

import "github.com/custodia-labs/reportdraft/internal/core/domain"

// ResponseNormaliser turns a completion reply into section values.
type ResponseNormaliser interface {
	// Normalise decodes raw according to the request's mode.
	// Structured replies that no strategy can decode return
	// domain.ErrUnparseableResponse. Unstructured replies never fail.
	Normalise(raw string, req domain.CompletionRequest) (domain.Patch, error)
}
