package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/reportdraft/internal/core/domain"
	"github.com/custodia-labs/reportdraft/internal/core/ports/driven"
	"github.com/custodia-labs/reportdraft/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
	keyLLMTimeout       = "llm.timeout_seconds"
	keyLLMRPM           = "llm.requests_per_minute"
	keyDraftModel       = "draft.model"
	keyDraftTemperature = "draft.temperature"
	keyDraftVectorStore = "draft.vector_store_id"
	keyDraftSections    = "draft.sections"
	keyRecordsDir       = "records.dir"
	keyRecordsCacheTTL  = "records.cache_ttl_seconds"
	keyExportBaseURL    = "export.base_url"
	keyReviewProcessors = "review.processors"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	validate    *validator.Validate
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider:          s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:             s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:           s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:            s.configStore.GetString(keyLLMAPIKey),
			Timeout:           s.getSeconds(keyLLMTimeout, defaults.LLM.Timeout),
			RequestsPerMinute: s.configStore.GetInt(keyLLMRPM),
		},
		Draft: domain.DraftSettings{
			Model:         s.getString(keyDraftModel, defaults.Draft.Model),
			Temperature:   s.getFloat(keyDraftTemperature, defaults.Draft.Temperature),
			VectorStoreID: s.configStore.GetString(keyDraftVectorStore),
			Sections:      s.getSections(defaults.Draft.Sections),
		},
		Records: domain.RecordSettings{
			Dir:      s.configStore.GetString(keyRecordsDir),
			CacheTTL: s.getSeconds(keyRecordsCacheTTL, defaults.Records.CacheTTL),
		},
		Export: domain.ExportSettings{
			BaseURL: s.getString(keyExportBaseURL, defaults.Export.BaseURL),
		},
	}

	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.check(settings); err != nil {
		return err
	}

	// Save LLM settings
	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}
	if err := s.configStore.Set(keyLLMTimeout, int(settings.LLM.Timeout/time.Second)); err != nil {
		return fmt.Errorf("save llm timeout: %w", err)
	}
	if err := s.configStore.Set(keyLLMRPM, settings.LLM.RequestsPerMinute); err != nil {
		return fmt.Errorf("save llm requests_per_minute: %w", err)
	}

	// Save draft defaults
	if err := s.configStore.Set(keyDraftModel, settings.Draft.Model); err != nil {
		return fmt.Errorf("save draft model: %w", err)
	}
	if err := s.configStore.Set(keyDraftTemperature, settings.Draft.Temperature); err != nil {
		return fmt.Errorf("save draft temperature: %w", err)
	}
	if err := s.configStore.Set(keyDraftVectorStore, settings.Draft.VectorStoreID); err != nil {
		return fmt.Errorf("save draft vector_store_id: %w", err)
	}
	if err := s.configStore.Set(keyDraftSections, settings.Draft.Sections); err != nil {
		return fmt.Errorf("save draft sections: %w", err)
	}

	// Save record and export settings
	if err := s.configStore.Set(keyRecordsDir, settings.Records.Dir); err != nil {
		return fmt.Errorf("save records dir: %w", err)
	}
	if err := s.configStore.Set(keyRecordsCacheTTL, int(settings.Records.CacheTTL/time.Second)); err != nil {
		return fmt.Errorf("save records cache_ttl: %w", err)
	}
	if err := s.configStore.Set(keyExportBaseURL, settings.Export.BaseURL); err != nil {
		return fmt.Errorf("save export base_url: %w", err)
	}

	return nil
}

// check runs struct tag validation plus the rules tags cannot express.
func (s *SettingsService) check(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings are required", domain.ErrInvalidInput)
	}
	if err := s.validate.Struct(settings); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, len(verrs))
			for i, fe := range verrs {
				fields[i] = fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag())
			}
			return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	for _, k := range settings.Draft.Sections {
		if !domain.IsKnownSection(k) {
			return fmt.Errorf("%w: unknown section %q", domain.ErrInvalidInput, k)
		}
	}
	return nil
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		defaults := domain.DefaultLLMModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.LLM.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		// Local providers need a base URL
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetDraftDefaults replaces the defaults the controls surface starts with.
func (s *SettingsService) SetDraftDefaults(draft domain.DraftSettings) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Draft = draft
	return s.Save(settings)
}

// Validate checks the stored settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if err := s.check(settings); err != nil {
		return err
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: LLM provider is not configured", domain.ErrCompletionUnavailable)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// GetPipelineConfig returns the review pipeline configuration.
// Returns default configuration if nothing is configured.
func (s *SettingsService) GetPipelineConfig() domain.PipelineConfig {
	defaults := domain.DefaultPipelineConfig()

	if processors := s.configStore.GetStringSlice(keyReviewProcessors); len(processors) > 0 {
		defaults.Processors = processors
	}

	for _, name := range defaults.Processors {
		cfg := s.loadProcessorConfig("review." + name + ".")
		if len(cfg) > 0 {
			if defaults.ProcessorConfigs == nil {
				defaults.ProcessorConfigs = make(map[string]map[string]any)
			}
			defaults.ProcessorConfigs[name] = cfg
		}
	}

	return defaults
}

// loadProcessorConfig loads config keys with a given prefix into a map.
func (s *SettingsService) loadProcessorConfig(prefix string) map[string]any {
	cfg := make(map[string]any)
	for _, key := range []string{"marker"} {
		if val, exists := s.configStore.Get(prefix + key); exists {
			cfg[key] = val
		}
	}
	return cfg
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return time.Duration(s.configStore.GetInt(key)) * time.Second
}

func (s *SettingsService) getSections(defaultVal []string) []string {
	if _, exists := s.configStore.Get(keyDraftSections); !exists {
		return defaultVal
	}
	return s.configStore.GetStringSlice(keyDraftSections)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
