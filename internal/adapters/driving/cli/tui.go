package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/reportdraft/internal/adapters/driving/tui"
)

// tuiExportBase overrides the configured download endpoint.
var tuiExportBase string

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for reportdraft.

The TUI shows the report beside the drafting controls. Edits made in
either pane are seen by the other straight away.

Controls:
  tab      - Switch between report and controls
  e        - Edit a section or preview entry
  g / r    - Generate drafts / review the report
  a / d    - Apply / dismiss the preview
  Esc      - Back / Cancel
  ?        - Toggle help
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiExportBase, "base", "", "download endpoint (defaults to export.base_url)")
	rootCmd.AddCommand(tuiCmd)
}

func tuiPorts() *tui.Ports {
	ports := tui.NewPorts(draftService, reportService)
	ports.Records = recordService
	ports.Settings = settingsService
	ports.ExportBaseURL = tuiExportBase
	return ports
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = errors.New("TUI crashed")
		}
	}()

	app, err := tui.NewApp(tuiPorts())
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	// Prompt edits on disk show up in the next request.
	stop := startPromptWatch(cmd)
	defer stop()

	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
