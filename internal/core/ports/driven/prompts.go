package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Returns the prompt content and any error encountered.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
// None of them carry format placeholders.
const (
	// PromptDraftInstructions is the system text for draft generation.
	PromptDraftInstructions = "draft_instructions"

	// PromptDraftRequest is the default user request for draft generation.
	PromptDraftRequest = "draft_request"

	// PromptReviewInstructions is the system text for reviews.
	PromptReviewInstructions = "review_instructions"

	// PromptReviewRequest is the user request sent with every review.
	PromptReviewRequest = "review_request"
)

// PromptNames returns every well-known prompt name.
func PromptNames() []string {
	return []string{
		PromptDraftInstructions,
		PromptDraftRequest,
		PromptReviewInstructions,
		PromptReviewRequest,
	}
}
