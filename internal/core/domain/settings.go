package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies a completion service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// SupportsVectorStore returns true if the provider can search a hosted vector store.
func (p AIProvider) SupportsVectorStore() bool {
	return p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// LLMSettings holds completion provider configuration.
type LLMSettings struct {
	// Provider is the completion service provider.
	Provider AIProvider `validate:"omitempty,oneof=ollama openai anthropic"`

	// Model is the default model name for the provider.
	Model string

	// BaseURL is the API endpoint (optional for cloud providers).
	BaseURL string `validate:"omitempty,url"`

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// Timeout bounds a single HTTP call. Zero uses the adapter default.
	Timeout time.Duration `validate:"gte=0"`

	// RequestsPerMinute spaces completion calls. Zero disables the limiter.
	RequestsPerMinute int `validate:"gte=0"`
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// DraftSettings holds the defaults the controls surface starts with.
type DraftSettings struct {
	// Model overrides the provider model for draft requests when set.
	Model string

	// Temperature is passed to the service as-is.
	Temperature float64

	// VectorStoreID is an optional hosted file-search store.
	VectorStoreID string

	// Sections is the initial section selection.
	Sections []string `validate:"dive,required"`
}

// RecordSettings configures reference record lookups.
type RecordSettings struct {
	// Dir holds one TOML file per record, under a directory per kind.
	Dir string

	// CacheTTL keeps resolved records in memory. Zero disables caching.
	CacheTTL time.Duration `validate:"gte=0"`
}

// ExportSettings configures the download endpoint.
type ExportSettings struct {
	// BaseURL is the rendering endpoint that receives the report as query parameters.
	// A path without scheme or host is allowed.
	BaseURL string `validate:"omitempty,uri"`
}

// PipelineConfig holds review post-processor configuration.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	// Key is processor name, value is processor-specific config.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// DefaultPipelineConfig returns the review markup stages in their required order.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"bold", "italic", "breaks", "lists"},
	}
}

// AppSettings holds all application settings.
type AppSettings struct {
	// LLM holds completion provider settings.
	LLM LLMSettings

	// Draft holds draft request defaults.
	Draft DraftSettings

	// Records holds reference record lookup settings.
	Records RecordSettings

	// Export holds download settings.
	Export ExportSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The LLM provider is left unconfigured; users must set it explicitly.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM: LLMSettings{},
		Draft: DraftSettings{
			Temperature: 1.2,
			Sections:    SectionKeys(),
		},
		Records: RecordSettings{
			CacheTTL: 10 * time.Minute,
		},
	}
}

// AllLLMProviders returns providers that support completions.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultLLMModels returns default models for each provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4.1-mini-2025-04-14",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}
