package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/reportdraft/internal/core/domain"
)

// Flags for settings subcommands.
var (
	settingsDraftModel       string
	settingsDraftTemperature string
	settingsDraftSections    []string
	settingsDraftVectorStore string
	settingsRecordsDir       string
	settingsRecordsCacheTTL  time.Duration
	settingsExportBaseURL    string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the LLM provider, draft defaults, reference records
and the export endpoint.

Settings are stored in ~/.reportdraft/config.toml.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Choose the LLM provider, model and API key used for drafts and reviews.`,
	RunE:  runSettingsLLM,
}

var settingsDraftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Set draft defaults",
	Long: `Set the defaults the drafting controls start with. Only flags that are
given change; the rest keep their stored values.

Example:
  reportdraft settings draft --temperature 0.7 --sections title,purpose,discussion`,
	Args: cobra.NoArgs,
	RunE: runSettingsDraft,
}

var settingsRecordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Configure reference records",
	Args:  cobra.NoArgs,
	RunE:  runSettingsRecords,
}

var settingsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Configure the download endpoint",
	Args:  cobra.NoArgs,
	RunE:  runSettingsExport,
}

func init() {
	f := settingsDraftCmd.Flags()
	f.StringVar(&settingsDraftModel, "model", "", "completion model for drafts")
	f.StringVar(&settingsDraftTemperature, "temperature", "", "sampling temperature")
	f.StringSliceVar(&settingsDraftSections, "sections", nil, "initial section selection")
	f.StringVar(&settingsDraftVectorStore, "vector-store", "", "hosted file-search store id")

	settingsRecordsCmd.Flags().StringVar(&settingsRecordsDir, "dir", "", "directory holding record files")
	settingsRecordsCmd.Flags().DurationVar(&settingsRecordsCacheTTL, "cache-ttl", 0, "how long to cache records (0 disables)")

	settingsExportCmd.Flags().StringVar(&settingsExportBaseURL, "base-url", "", "rendering endpoint for downloads")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsDraftCmd)
	settingsCmd.AddCommand(settingsRecordsCmd)
	settingsCmd.AddCommand(settingsExportCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	// LLM settings
	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.Provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		if settings.LLM.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	if settings.LLM.RequestsPerMinute > 0 {
		cmd.Printf("  Rate limit: %d/min\n", settings.LLM.RequestsPerMinute)
	}
	status := "configured"
	if !settings.LLM.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	// Draft defaults
	cmd.Println("[Draft]")
	model := settings.Draft.Model
	if model == "" {
		model = "(provider default)"
	}
	cmd.Printf("  Model: %s\n", model)
	cmd.Printf("  Temperature: %s\n", strconv.FormatFloat(settings.Draft.Temperature, 'g', -1, 64))
	cmd.Printf("  Sections: %s\n", strings.Join(settings.Draft.Sections, ", "))
	if settings.Draft.VectorStoreID != "" {
		cmd.Printf("  Vector store: %s\n", settings.Draft.VectorStoreID)
	}
	cmd.Println()

	// Records and export
	cmd.Println("[Records]")
	dir := settings.Records.Dir
	if dir == "" {
		dir = "(default)"
	}
	cmd.Printf("  Directory: %s\n", dir)
	cmd.Printf("  Cache TTL: %s\n", settings.Records.CacheTTL)
	cmd.Println()

	cmd.Println("[Export]")
	base := settings.Export.BaseURL
	if base == "" {
		base = "(not set)"
	}
	cmd.Printf("  Base URL: %s\n", base)
	cmd.Println()

	// Validation
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'reportdraft settings llm' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureLLMProvider(cmd, reader)
}

func runSettingsDraft(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	draft := settings.Draft

	flags := cmd.Flags()
	if flags.Changed("model") {
		draft.Model = settingsDraftModel
	}
	if flags.Changed("temperature") {
		t, err := domain.ParseTemperature(settingsDraftTemperature)
		if err != nil {
			return err
		}
		draft.Temperature = t
	}
	if flags.Changed("sections") {
		draft.Sections = settingsDraftSections
	}
	if flags.Changed("vector-store") {
		draft.VectorStoreID = settingsDraftVectorStore
	}

	if err := settingsService.SetDraftDefaults(draft); err != nil {
		return fmt.Errorf("failed to save draft defaults: %w", err)
	}
	cmd.Println("Draft defaults saved.")
	return nil
}

func runSettingsRecords(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if cmd.Flags().Changed("dir") {
		settings.Records.Dir = settingsRecordsDir
	}
	if cmd.Flags().Changed("cache-ttl") {
		settings.Records.CacheTTL = settingsRecordsCacheTTL
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save record settings: %w", err)
	}
	cmd.Println("Record settings saved.")
	return nil
}

func runSettingsExport(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings.Export.BaseURL = strings.TrimSpace(settingsExportBaseURL)

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save export settings: %w", err)
	}
	cmd.Println("Export settings saved.")
	return nil
}

func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaults := domain.DefaultLLMModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// Get API key if needed
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetLLMProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo from a terminal, and from reader otherwise.
func readPassword(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
