// Package postprocessors provides text post-processing pipelines.
package postprocessors

import (
	"github.com/custodia-labs/reportdraft/internal/core/ports/driven"
)

// Ensure Pipeline implements the interface.
var _ driven.TextPipeline = (*Pipeline)(nil)

// Pipeline chains multiple TextTransforms and runs them in order.
// It implements the TextPipeline interface.
type Pipeline struct {
	transforms []driven.TextTransform
}

// NewPipeline creates a new pipeline with the given transforms.
// Transforms are executed in the order provided.
func NewPipeline(transforms ...driven.TextTransform) *Pipeline {
	return &Pipeline{
		transforms: transforms,
	}
}

// Apply runs text through all transforms in order.
// Each transform receives the previous transform's output.
func (p *Pipeline) Apply(text string) string {
	for _, t := range p.transforms {
		text = t.Apply(text)
	}
	return text
}

// Add appends a transform to the pipeline.
func (p *Pipeline) Add(t driven.TextTransform) {
	p.transforms = append(p.transforms, t)
}

// Len returns the number of transforms in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.transforms)
}

// Names returns the transform names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.transforms))
	for i, t := range p.transforms {
		names[i] = t.Name()
	}
	return names
}
