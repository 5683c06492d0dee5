// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// Select confirms a selection.
	Select key.Binding

	// Cancel cancels the current edit.
	Cancel key.Binding

	// SwitchPane moves focus between the report and the controls.
	SwitchPane key.Binding

	// Edit opens the selected value for editing.
	Edit key.Binding

	// Toggle adds or removes the selected section from the draft request.
	Toggle key.Binding

	// SelectAll selects every section.
	SelectAll key.Binding

	// Generate asks for section drafts.
	Generate key.Binding

	// Review asks for feedback on the report.
	Review key.Binding

	// Apply merges the preview into the report.
	Apply key.Binding

	// Dismiss discards the preview.
	Dismiss key.Binding

	// Prompt edits the draft request.
	Prompt key.Binding

	// Model edits the completion model.
	Model key.Binding

	// Temperature edits the sampling temperature.
	Temperature key.Binding

	// Records opens the reference record picker.
	Records key.Binding

	// Download shows the export link.
	Download key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		SwitchPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "all sections"),
		),
		Generate: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "generate"),
		),
		Review: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "review"),
		),
		Apply: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "apply"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "dismiss"),
		),
		Prompt: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "prompt"),
		),
		Model: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "model"),
		),
		Temperature: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "temperature"),
		),
		Records: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "records"),
		),
		Download: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "download link"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SwitchPane, k.Quit, k.Help}
}

// ReportHelp returns keybindings for the report pane.
func (k *KeyMap) ReportHelp() []key.Binding {
	return []key.Binding{k.Up, k.Edit, k.Download, k.SwitchPane, k.Quit}
}

// ControlsHelp returns keybindings for the controls pane.
func (k *KeyMap) ControlsHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.SelectAll, k.Generate, k.Review, k.Records, k.SwitchPane}
}

// PreviewHelp returns keybindings for while a preview is shown.
func (k *KeyMap) PreviewHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Apply, k.Dismiss}
}

// EditHelp returns keybindings for while a value is being edited.
func (k *KeyMap) EditHelp() []key.Binding {
	return []key.Binding{k.Select, k.Cancel}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.SwitchPane},
		{k.Edit, k.Toggle, k.SelectAll, k.Prompt, k.Model, k.Temperature},
		{k.Generate, k.Review, k.Apply, k.Dismiss},
		{k.Records, k.Download, k.Back, k.Cancel},
		{k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
