// Package cli is the command-line driving adapter.
package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/reportdraft/internal/core/ports/driving"
	"github.com/custodia-labs/reportdraft/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

var verbose bool

// Services wired by main.
var (
	draftService    driving.DraftService
	reportService   driving.ReportService
	settingsService driving.SettingsService
	recordService   driving.RecordService
	watchPrompts    func() (io.Closer, error)
)

// Services holds the core services the commands drive.
type Services struct {
	Draft    driving.DraftService
	Report   driving.ReportService
	Settings driving.SettingsService
	Records  driving.RecordService

	// WatchPrompts starts reloading prompts when their files change.
	// Long-running commands call it; it may be nil.
	WatchPrompts func() (io.Closer, error)
}

var rootCmd = &cobra.Command{
	Use:   "reportdraft",
	Short: "Draft and review municipal staff reports",
	Long: `reportdraft drafts staff report sections with an LLM, keeps the report
and the drafting controls in step, and reviews finished drafts.

Run 'reportdraft settings llm' first to choose a provider.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices wires the core services into the commands.
func SetServices(s Services) {
	draftService = s.Draft
	reportService = s.Report
	settingsService = s.Settings
	recordService = s.Records
	watchPrompts = s.WatchPrompts
}

// SetVersion sets the version reported by 'reportdraft version'.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// startPromptWatch starts the prompt watcher if one is wired.
// The returned stop function is always safe to call.
func startPromptWatch(cmd *cobra.Command) func() {
	if watchPrompts == nil {
		return func() {}
	}
	closer, err := watchPrompts()
	if err != nil {
		logger.Warn("Prompt files will not reload: %v", err)
		return func() {}
	}
	return func() {
		if err := closer.Close(); err != nil {
			cmd.PrintErrf("stop prompt watcher: %v\n", err)
		}
	}
}

func requireDraftServices() error {
	if draftService == nil || reportService == nil {
		return errors.New("draft services not configured")
	}
	return nil
}
