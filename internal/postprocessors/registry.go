package postprocessors

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/reportdraft/internal/core/domain"
	"github.com/custodia-labs/reportdraft/internal/core/ports/driven"
)

// BuilderFunc creates a TextTransform from generic config.
// Config is a map of transform-specific settings parsed from user config.
type BuilderFunc func(cfg map[string]any) (driven.TextTransform, error)

// Registry maps transform names to their builders.
// It allows dynamic construction of pipelines from configuration.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates a new transform registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a transform builder to the registry.
// Name should be unique and match the transform's Name() return value.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates a transform by name with the given config.
// Returns error if the transform name is not registered.
func (r *Registry) Build(name string, cfg map[string]any) (driven.TextTransform, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown processor: %s", name)
	}
	return builder(cfg)
}

// BuildPipeline creates every transform named in cfg, in order.
func (r *Registry) BuildPipeline(cfg domain.PipelineConfig) (*Pipeline, error) {
	p := NewPipeline()
	for _, name := range cfg.Processors {
		t, err := r.Build(name, cfg.GetProcessorConfig(name))
		if err != nil {
			return nil, fmt.Errorf("build pipeline: %w", err)
		}
		p.Add(t)
	}
	return p, nil
}

// Has returns true if a transform with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns all registered transform names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
