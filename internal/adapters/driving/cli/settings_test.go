package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reportdraft/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/reportdraft/internal/core/domain"
	"github.com/custodia-labs/reportdraft/internal/core/services"
)

func setupSettings(t *testing.T) *services.SettingsService {
	t.Helper()
	svc := services.NewSettingsService(memory.NewConfigStore(), nil)
	SetServices(Services{Settings: svc})
	t.Cleanup(func() {
		resetSettingsFlags()
		SetServices(Services{})
	})
	return svc
}

// resetSettingsFlags clears flag values and Changed marks left by earlier runs.
func resetSettingsFlags() {
	settingsDraftModel = ""
	settingsDraftTemperature = ""
	settingsDraftSections = nil
	settingsDraftVectorStore = ""
	settingsRecordsDir = ""
	settingsRecordsCacheTTL = 0
	settingsExportBaseURL = ""
	for _, c := range []*cobra.Command{settingsDraftCmd, settingsRecordsCmd, settingsExportCmd} {
		c.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	}
}

func TestSettingsShow_Defaults(t *testing.T) {
	setupSettings(t)

	out, err := runRoot(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "[Draft]")
	assert.Contains(t, out, "Model: (provider default)")
	assert.Contains(t, out, "Temperature: 1.2")
	assert.Contains(t, out, "Sections: "+strings.Join(domain.SectionKeys(), ", "))
	assert.Contains(t, out, "Directory: (default)")
	assert.Contains(t, out, "Base URL: (not set)")
	assert.Contains(t, out, "Status: not configured")
	assert.Contains(t, out, "Run 'reportdraft settings llm'")
}

func TestSettingsLLM_ConfiguresProviderAndMasksKey(t *testing.T) {
	svc := setupSettings(t)
	rootCmd.SetIn(strings.NewReader("2\n\nsk-test-1234567890\n"))
	defer rootCmd.SetIn(nil)

	out, err := runRoot(t, "settings", "llm")

	require.NoError(t, err)
	assert.Contains(t, out, "LLM provider configured: OpenAI (cloud)")

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.LLM.Provider)
	assert.Equal(t, domain.DefaultLLMModels()[domain.AIProviderOpenAI], settings.LLM.Model)

	out, err = runRoot(t, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "API Key: sk-t...7890")
	assert.NotContains(t, out, "sk-test-1234567890")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsLLM_MissingAPIKey(t *testing.T) {
	setupSettings(t)
	rootCmd.SetIn(strings.NewReader("3\n\n\n"))
	defer rootCmd.SetIn(nil)

	_, err := runRoot(t, "settings", "llm")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestSettingsDraft_SavesChangedFlags(t *testing.T) {
	svc := setupSettings(t)

	_, err := runRoot(t, "settings", "draft", "--temperature", "0.7", "--sections", "title,purpose")

	require.NoError(t, err)
	settings, err := svc.Get()
	require.NoError(t, err)
	assert.InDelta(t, 0.7, settings.Draft.Temperature, 1e-9)
	assert.Equal(t, []string{"title", "purpose"}, settings.Draft.Sections)
}

func TestSettingsDraft_RejectsUnknownSection(t *testing.T) {
	setupSettings(t)

	_, err := runRoot(t, "settings", "draft", "--sections", "appendix")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsRecordsAndExport(t *testing.T) {
	svc := setupSettings(t)

	_, err := runRoot(t, "settings", "records", "--dir", "/srv/records", "--cache-ttl", "2m")
	require.NoError(t, err)
	_, err = runRoot(t, "settings", "export", "--base-url", " /apex/StaffReportDoc ")
	require.NoError(t, err)

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "/srv/records", settings.Records.Dir)
	assert.Equal(t, 2*time.Minute, settings.Records.CacheTTL)
	assert.Equal(t, "/apex/StaffReportDoc", settings.Export.BaseURL)
}

func TestSettings_NoService(t *testing.T) {
	SetServices(Services{})

	_, err := runRoot(t, "settings", "show")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}
