package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reportdraft/internal/adapters/driving/tui"
)

func TestTUICmd_Exists(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Use == "tui" {
			found = true
			break
		}
	}
	assert.True(t, found, "tui command should be registered")
}

func TestTUICmd_ShortDescription(t *testing.T) {
	assert.Equal(t, "Launch the interactive terminal UI", tuiCmd.Short)
}

func TestTUICmd_LongDescription(t *testing.T) {
	assert.Contains(t, tuiCmd.Long, "interactive terminal user interface")
	assert.Contains(t, tuiCmd.Long, "Controls:")
}

func TestTUICmd_HelpOutput(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"tui", "--help"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "interactive terminal user interface")
	assert.Contains(t, output, "--base")
}

func TestTUIPorts_FromServices(t *testing.T) {
	env := setupDraftEnv(t)
	tuiExportBase = "/generate"
	defer func() { tuiExportBase = "" }()

	ports := tuiPorts()

	require.NoError(t, ports.Validate())
	assert.Equal(t, env.drafts, ports.Draft)
	assert.Equal(t, env.reports, ports.Report)
	assert.Equal(t, "/generate", ports.ExportBase())
}

func TestTUIPorts_MissingServices(t *testing.T) {
	SetServices(Services{})

	ports := tuiPorts()

	assert.ErrorIs(t, ports.Validate(), tui.ErrMissingDraftService)

	err := runTUI(tuiCmd, nil)
	assert.ErrorIs(t, err, tui.ErrMissingDraftService)
}
