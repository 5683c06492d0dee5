package postprocessors

import (
	"slices"

	"github.com/custodia-labs/reportdraft/internal/core/domain"
	"github.com/custodia-labs/reportdraft/internal/core/ports/driven"
	"github.com/custodia-labs/reportdraft/internal/logger"
	"github.com/custodia-labs/reportdraft/internal/postprocessors/markup"
)

// RegisterDefaults registers all built-in transforms with the registry.
// Call this during application initialisation to enable standard transforms.
func RegisterDefaults(r *Registry) {
	r.Register(markup.NameBold, func(map[string]any) (driven.TextTransform, error) {
		return markup.Bold{}, nil
	})
	r.Register(markup.NameItalic, func(map[string]any) (driven.TextTransform, error) {
		return markup.Italic{}, nil
	})
	r.Register(markup.NameBreaks, func(map[string]any) (driven.TextTransform, error) {
		return markup.Breaks{}, nil
	})
	r.Register(markup.NameLists, buildLists)
}

// DefaultReviewPipeline returns the review markup stages in their fixed order.
func DefaultReviewPipeline() *Pipeline {
	r := NewRegistry()
	RegisterDefaults(r)
	p, err := r.BuildPipeline(domain.DefaultPipelineConfig())
	if err != nil {
		// Every default name is registered above.
		panic(err)
	}
	return p
}

// ReviewPipeline builds the review stages with the per-stage settings in
// cfg. The stage list must name the default stages in their default order;
// any other list, or a stage that fails to build, yields DefaultReviewPipeline.
func ReviewPipeline(cfg domain.PipelineConfig) *Pipeline {
	want := domain.DefaultPipelineConfig().Processors
	if len(cfg.Processors) > 0 && !slices.Equal(cfg.Processors, want) {
		logger.Warn("Review stages %v ignored; the order is fixed as %v", cfg.Processors, want)
		return DefaultReviewPipeline()
	}
	cfg.Processors = want

	r := NewRegistry()
	RegisterDefaults(r)
	p, err := r.BuildPipeline(cfg)
	if err != nil {
		logger.Warn("Using default review pipeline: %v", err)
		return DefaultReviewPipeline()
	}
	return p
}

// buildLists creates the list stage from generic config.
// Supported config keys:
//   - marker (string): Line prefix that starts a list item (default: "- ")
func buildLists(cfg map[string]any) (driven.TextTransform, error) {
	var opts []markup.ListOption
	if marker := getStringFromConfig(cfg, "marker"); marker != "" {
		opts = append(opts, markup.WithMarker(marker))
	}
	return markup.NewLists(opts...), nil
}

// getStringFromConfig safely extracts a string from generic config map.
func getStringFromConfig(cfg map[string]any, key string) string {
	if cfg == nil {
		return ""
	}
	s, _ := cfg[key].(string)
	return s
}
