package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Transport Errors.

	// ErrCompletionFailed indicates the completion service call failed.
	ErrCompletionFailed = errors.New("completion request failed")

	// ErrRecordLookup indicates a reference record could not be resolved.
	// It aborts the request build.
	ErrRecordLookup = errors.New("reference record lookup failed")

	// ErrCompletionUnavailable indicates no completion service is configured.
	ErrCompletionUnavailable = errors.New("completion service unavailable")

	// Shape Errors.

	// ErrUnparseableResponse indicates a structured reply could not be
	// recovered by any parse strategy.
	ErrUnparseableResponse = errors.New("unparseable AI response")

	// Protocol Errors.

	// ErrInvalidSnapshot indicates a bus payload is not a well-formed report.
	ErrInvalidSnapshot = errors.New("invalid report snapshot")

	// Draft Errors.

	// ErrNoPreview indicates there is no pending patch to apply or edit.
	ErrNoPreview = errors.New("no preview to apply")

	// ErrRequestInFlight indicates the surface is already waiting on a completion.
	ErrRequestInFlight = errors.New("a request is already in flight")
)

// ServiceError carries a human-readable message from an external service.
type ServiceError struct {
	// Message is safe to show to users.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// ErrorMessage returns the text a surface shows for err.
// A ServiceError's message wins over the full error chain.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) && svcErr.Message != "" {
		return svcErr.Message
	}
	return err.Error()
}
