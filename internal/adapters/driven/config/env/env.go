// Package env overlays process environment variables, optionally seeded
// from .env files, onto stored settings.
package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/reportdraft/internal/core/domain"
)

// Environment variable names.
//
//nolint:gosec // G101: These are variable names, not credentials.
const (
	EnvAPIKey          = "REPORTDRAFT_API_KEY"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvLogFile         = "REPORTDRAFT_LOG_FILE"
)

// Load reads the given .env files into the process environment. Variables
// already set are left alone and missing files are skipped. With no paths
// it reads ".env" in the working directory.
func Load(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// APIKey returns the key for provider from the environment, preferring
// REPORTDRAFT_API_KEY over the provider's own variable.
func APIKey(provider domain.AIProvider) string {
	if key := lookup(EnvAPIKey); key != "" {
		return key
	}
	switch provider {
	case domain.AIProviderOpenAI:
		return lookup(EnvOpenAIAPIKey)
	case domain.AIProviderAnthropic:
		return lookup(EnvAnthropicAPIKey)
	default:
		return ""
	}
}

// ApplyLLM fills an unset API key from the environment. A stored key wins.
func ApplyLLM(settings *domain.LLMSettings) {
	if settings == nil || settings.APIKey != "" || !settings.Provider.RequiresAPIKey() {
		return
	}
	settings.APIKey = APIKey(settings.Provider)
}

// LogFile returns the log file path from the environment, or fallback.
func LogFile(fallback string) string {
	if path := lookup(EnvLogFile); path != "" {
		return path
	}
	return fallback
}

func lookup(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}
