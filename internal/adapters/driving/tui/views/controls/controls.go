// Package controls provides the draft controls pane: the request settings,
// the generate and review actions, and the pending preview.
package controls

import (
	"context"
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

// target names the value open in the editor.
type target int

const (
	targetNone target = iota
	targetPrompt
	targetModel
	targetTemperature
	targetPreview
)

// View is the controls pane.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	drafts driving.DraftService
	ctx    context.Context

	sections *list.SectionList
	preview  *list.SectionList
	editor   *input.Field

	editing    target
	previewKey string
	running    messages.DraftAction
	note       string

	width  int
	height int
	err    error
}

// NewView creates a new controls pane.
func NewView(s *styles.Styles, km *keymap.KeyMap, drafts driving.DraftService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:   s,
		keymap:   km,
		drafts:   drafts,
		ctx:      context.Background(),
		sections: list.NewSectionList(s, "Sections to draft").WithCheckboxes(),
		preview:  list.NewSectionList(s, "Preview"),
		editor:   input.NewField(s, "", ""),
		width:    40,
		height:   24,
	}
}

// WithContext sets the context completion requests run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the current state.
func (v *View) Init() tea.Cmd {
	v.Refresh()
	return nil
}

// Refresh reloads the lists from the draft service.
func (v *View) Refresh() {
	if v.drafts == nil {
		return
	}
	state := v.drafts.State()
	v.sections.SetSections(state.Report.Sections())
	v.sections.SetMarked(state.Sections)
	v.preview.SetSections(state.Preview.Sections())
}

// Update handles messages for the controls pane.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.Editing() {
			return v.handleEditKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.DraftCompleted:
		v.running = ""
		v.err = msg.Err
		v.Refresh()
		return v, nil

	case messages.PreviewApplied:
		v.err = msg.Err
		if msg.Err == nil {
			v.note = "Preview applied"
		}
		v.Refresh()
		return v, nil

	case messages.RecordSelected:
		v.err = msg.Err
		return v, nil
	}

	if v.Editing() {
		var cmd tea.Cmd
		v.editor, cmd = v.editor.Update(msg)
		return v, cmd
	}
	return v, nil
}

//nolint:gocyclo // one branch per binding
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.drafts == nil {
		return v, nil
	}
	state := v.drafts.State()
	key := msg.String()

	if state.HasPreview() {
		switch {
		case keymap.Matches(key, v.keymap.Up):
			v.preview.MoveUp()
		case keymap.Matches(key, v.keymap.Down):
			v.preview.MoveDown()
		case keymap.Matches(key, v.keymap.Edit):
			return v, v.editPreview()
		case keymap.Matches(key, v.keymap.Apply):
			return v, v.apply()
		case keymap.Matches(key, v.keymap.Dismiss):
			v.dismiss()
		}
		return v, nil
	}

	if state.ReviewOutput != "" && keymap.Matches(key, v.keymap.Dismiss) {
		v.dismiss()
		return v, nil
	}

	switch {
	case keymap.Matches(key, v.keymap.Up):
		v.sections.MoveUp()
	case keymap.Matches(key, v.keymap.Down):
		v.sections.MoveDown()
	case keymap.Matches(key, v.keymap.Toggle):
		v.toggleSection(state)
	case keymap.Matches(key, v.keymap.SelectAll):
		v.drafts.SelectAllSections()
		v.Refresh()
	case keymap.Matches(key, v.keymap.Prompt):
		return v, v.edit(targetPrompt, "Prompt", state.Prompt)
	case keymap.Matches(key, v.keymap.Model):
		return v, v.edit(targetModel, "Model", state.Model)
	case keymap.Matches(key, v.keymap.Temperature):
		return v, v.edit(targetTemperature, "Temperature", formatTemperature(state.Temperature))
	case keymap.Matches(key, v.keymap.Generate):
		return v, v.request(messages.ActionGenerate)
	case keymap.Matches(key, v.keymap.Review):
		return v, v.request(messages.ActionReview)
	case keymap.Matches(key, v.keymap.Records):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewRecords}
		}
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
		v.commit(v.editing, v.editor.Value())
		v.stopEdit()
		v.Refresh()
		return v, nil
	}

	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	return v, cmd
}

// toggleSection adds or removes the highlighted section, keeping the
// existing selection order.
func (v *View) toggleSection(state driving.DraftState) {
	section := v.sections.SelectedSection()
	if section == nil {
		return
	}

	keys := make([]string, 0, len(state.Sections)+1)
	found := false
	for _, k := range state.Sections {
		if k == section.Key {
			found = true
			continue
		}
		keys = append(keys, k)
	}
	if !found {
		keys = append(keys, section.Key)
	}

	v.err = v.drafts.SetSections(keys)
	v.Refresh()
}

func (v *View) edit(t target, label, value string) tea.Cmd {
	v.editing = t
	v.editor.SetLabel(label)
	v.editor.SetValue(value)
	v.editor.SetWidth(v.width)
	return v.editor.Focus()
}

func (v *View) editPreview() tea.Cmd {
	section := v.preview.SelectedSection()
	if section == nil {
		return nil
	}
	v.previewKey = section.Key
	return v.edit(targetPreview, section.Label, section.Value)
}

func (v *View) stopEdit() {
	v.editing = targetNone
	v.previewKey = ""
	v.editor.Blur()
	v.editor.Reset()
}

func (v *View) commit(t target, value string) {
	v.err = nil
	switch t {
	case targetPrompt:
		v.drafts.SetPrompt(value)
	case targetModel:
		v.drafts.SetModel(strings.TrimSpace(value))
	case targetTemperature:
		temp, err := domain.ParseTemperature(value)
		if err != nil {
			v.err = err
			return
		}
		v.drafts.SetTemperature(temp)
	case targetPreview:
		v.err = v.drafts.EditPreview(v.previewKey, value)
	case targetNone:
	}
}

// request starts a completion. The service holds the result; the
// returned message only carries the error.
func (v *View) request(action messages.DraftAction) tea.Cmd {
	if v.running != "" {
		return nil
	}
	v.running = action
	v.note = ""
	v.err = nil

	drafts, ctx := v.drafts, v.ctx
	return func() tea.Msg {
		var err error
		if action == messages.ActionReview {
			err = drafts.Review(ctx)
		} else {
			err = drafts.Generate(ctx)
		}
		return messages.DraftCompleted{Action: action, Err: err}
	}
}

func (v *View) apply() tea.Cmd {
	err := v.drafts.Apply()
	return func() tea.Msg {
		return messages.PreviewApplied{Err: err}
	}
}

func (v *View) dismiss() {
	v.drafts.Dismiss()
	v.err = nil
	v.note = ""
	v.Refresh()
}

// View renders the controls pane.
func (v *View) View() string {
	if v.drafts == nil {
		return v.styles.Muted.Render("Draft controls unavailable")
	}

	state := v.drafts.State()
	v.Refresh()

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Draft"))
	b.WriteString("\n\n")

	switch {
	case state.Loading:
		b.WriteString(v.styles.Muted.Render(loadingText(v.running)))
	case state.HasPreview():
		b.WriteString(v.preview.View())
	case state.ReviewOutput != "":
		b.WriteString(v.styles.Subtitle.Render("Review"))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Normal.Render(state.ReviewOutput))
	case state.SettingsVisible:
		b.WriteString(v.renderSettings(state))
	}

	if v.Editing() {
		b.WriteString("\n\n")
		b.WriteString(v.editor.View())
	}

	if state.Err != "" {
		b.WriteString("\n\n")
		b.WriteString(v.styles.Error.Render("Error: " + state.Err))
	} else if v.err != nil {
		b.WriteString("\n\n")
		b.WriteString(v.styles.Error.Render("Error: " + domain.ErrorMessage(v.err)))
	}

	if v.note != "" {
		b.WriteString("\n\n")
		b.WriteString(v.styles.Success.Render(v.note))
	}

	return b.String()
}

func (v *View) renderSettings(state driving.DraftState) string {
	var b strings.Builder

	prompt := state.Prompt
	if prompt == "" {
		prompt = "(default prompt)"
	}
	model := state.Model
	if model == "" {
		model = "(provider default)"
	}

	fmt.Fprintf(&b, "%s %s\n", v.styles.Label.Render("Prompt:"), prompt)
	fmt.Fprintf(&b, "%s %s\n", v.styles.Label.Render("Model:"), model)
	fmt.Fprintf(&b, "%s %s\n", v.styles.Label.Render("Temperature:"), formatTemperature(state.Temperature))
	if state.VectorStoreID != "" {
		fmt.Fprintf(&b, "%s %s\n", v.styles.Label.Render("Vector store:"), state.VectorStoreID)
	}
	for _, ref := range state.Records {
		fmt.Fprintf(&b, "%s %s\n", v.styles.Label.Render(ref.Kind.Description()+":"), ref.ID)
	}

	b.WriteString("\n")
	b.WriteString(v.sections.View())
	return b.String()
}

func loadingText(action messages.DraftAction) string {
	if action == messages.ActionReview {
		return "Reviewing the report..."
	}
	return "Drafting sections..."
}

func formatTemperature(t float64) string {
	return fmt.Sprintf("%g", t)
}

// SetDimensions sets the pane dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.sections.SetDimensions(width, height-10)
	v.preview.SetDimensions(width, height-6)
	v.editor.SetWidth(width)
}

// Editing returns true while a value is open in the editor.
func (v *View) Editing() bool {
	return v.editing != targetNone
}

// Running returns the request in flight, empty when idle.
func (v *View) Running() messages.DraftAction {
	return v.running
}

// Err returns the last local error.
func (v *View) Err() error {
	return v.err
}
