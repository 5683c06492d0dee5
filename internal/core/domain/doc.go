// Package domain defines the core business entities for reportdraft.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: The field-keyed staff report shared by both surfaces
//   - Patch: Proposed section values awaiting review
//   - CompletionRequest: One call to the completion service
//   - ContextStatement: Background text attached to a request
//   - Record: A reference record resolved from an external lookup
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
