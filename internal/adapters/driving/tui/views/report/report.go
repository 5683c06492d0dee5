// Package report provides the content pane: the report sections and
// single-section editing.
package report

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/reportdraft/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/reportdraft/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/reportdraft/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/reportdraft/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reportdraft/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reportdraft/internal/core/domain"
	"github.com/custodia-labs/reportdraft/internal/core/ports/driving"
)

// ErrDownloadDisabled is returned when a link is asked for an empty report.
var ErrDownloadDisabled = errors.New("download is disabled while the report is empty")

// View is the report pane.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	reports driving.ReportService

	sections   *list.SectionList
	editor     *input.Field
	editingKey string
	exportBase string
	link       string

	width  int
	height int
	err    error
}

// NewView creates a new report pane.
func NewView(s *styles.Styles, km *keymap.KeyMap, reports driving.ReportService, exportBase string) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		reports:    reports,
		sections:   list.NewSectionList(s, "Report"),
		editor:     input.NewField(s, "", ""),
		exportBase: exportBase,
		width:      40,
		height:     24,
	}
}

// Init loads the current report.
func (v *View) Init() tea.Cmd {
	v.Refresh()
	return nil
}

// Refresh reloads the sections from the report service.
func (v *View) Refresh() {
	if v.reports == nil {
		return
	}
	v.sections.SetSections(v.reports.Sections())
}

// Update handles messages for the report pane.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.Editing() {
			return v.handleEditKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.SectionEdited:
		v.err = msg.Err
		v.Refresh()
		return v, nil

	case messages.DownloadLinkReady:
		v.err = msg.Err
		v.link = msg.URL
		return v, nil
	}

	if v.Editing() {
		var cmd tea.Cmd
		v.editor, cmd = v.editor.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Up):
		v.sections.MoveUp()
	case keymap.Matches(key, v.keymap.Down):
		v.sections.MoveDown()
	case keymap.Matches(key, v.keymap.Edit):
		return v, v.startEdit()
	case keymap.Matches(key, v.keymap.Download):
		return v, v.downloadLink()
	}
	return v, nil
}

func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEsc:
		v.stopEdit()
		return v, nil
	case tea.KeyEnter:
		key, value := v.editingKey, v.editor.Value()
		v.stopEdit()
		return v, v.saveSection(key, value)
	}

	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	return v, cmd
}

func (v *View) startEdit() tea.Cmd {
	section := v.sections.SelectedSection()
	if section == nil || v.reports == nil {
		return nil
	}
	v.editingKey = section.Key
	v.editor.SetLabel(section.Label)
	v.editor.SetValue(section.Value)
	v.editor.SetWidth(v.width)
	return v.editor.Focus()
}

func (v *View) stopEdit() {
	v.editingKey = ""
	v.editor.Blur()
	v.editor.Reset()
}

// saveSection publishes the edit. Delivery is synchronous, so the command
// only reports the outcome.
func (v *View) saveSection(key, value string) tea.Cmd {
	err := v.reports.EditSection(key, value)
	return func() tea.Msg {
		return messages.SectionEdited{Key: key, Err: err}
	}
}

func (v *View) downloadLink() tea.Cmd {
	if v.reports == nil {
		return nil
	}
	if v.reports.DownloadDisabled() {
		return func() tea.Msg {
			return messages.DownloadLinkReady{Err: ErrDownloadDisabled}
		}
	}
	url, err := v.reports.DownloadURL(v.exportBase)
	return func() tea.Msg {
		return messages.DownloadLinkReady{URL: url, Err: err}
	}
}

// View renders the report pane.
func (v *View) View() string {
	var b strings.Builder

	v.Refresh()
	b.WriteString(v.sections.View())
	b.WriteString("\n\n")

	if v.Editing() {
		b.WriteString(v.editor.View())
		b.WriteString("\n\n")
	}

	b.WriteString(v.renderDownload())

	if msg := v.errorText(); msg != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", msg)))
	}

	return b.String()
}

func (v *View) renderDownload() string {
	if v.reports == nil || v.reports.DownloadDisabled() {
		return v.styles.Muted.Render("Download: disabled (report is empty)")
	}
	if v.link != "" {
		return v.styles.Normal.Render("Download: ") + v.styles.Subtitle.Render(v.link)
	}
	return v.styles.Muted.Render("Download: press D for a link")
}

// errorText prefers the local failure over the surface's own error.
func (v *View) errorText() string {
	if v.err != nil {
		return domain.ErrorMessage(v.err)
	}
	if v.reports != nil {
		return v.reports.Err()
	}
	return ""
}

// SetDimensions sets the pane dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.sections.SetDimensions(width, height-6)
	v.editor.SetWidth(width)
}

// Editing returns true while a section is open in the editor.
func (v *View) Editing() bool {
	return v.editingKey != ""
}

// EditingKey returns the key of the section being edited.
func (v *View) EditingKey() string {
	return v.editingKey
}

// SelectedIndex returns the highlighted section index.
func (v *View) SelectedIndex() int {
	return v.sections.Selected()
}

// Link returns the last download link.
func (v *View) Link() string {
	return v.link
}

// Err returns the last local error.
func (v *View) Err() error {
	return v.err
}
