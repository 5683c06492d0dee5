package driven

// TextTransform rewrites text in one step of a post-processing pipeline.
// Transforms must be pure: same input, same output.
type TextTransform interface {
	// Name returns the transform name for logging and configuration.
	Name() string

	// Apply returns the rewritten text.
	Apply(text string) string
}

// TextPipeline chains multiple TextTransforms.
type TextPipeline interface {
	// Apply runs text through every transform in order.
	Apply(text string) string
}
