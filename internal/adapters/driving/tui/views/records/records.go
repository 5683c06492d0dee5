// Package records provides the reference record picker for the TUI.
package records

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/reportdraft/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reportdraft/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reportdraft/internal/core/domain"
	"github.com/custodia-labs/reportdraft/internal/core/ports/driving"
)

// ErrNoRecordService is reported when records cannot be browsed.
var ErrNoRecordService = errors.New("record service not available")

// View lists the records of one kind and picks one as drafting context.
type View struct {
	styles  *styles.Styles
	records driving.RecordService
	drafts  driving.DraftService
	ctx     context.Context

	kinds   []domain.RecordKind
	kind    int
	items   []domain.Record
	loading bool

	selected int
	width    int
	height   int
	err      error
}

// NewView creates a new record picker.
func NewView(s *styles.Styles, records driving.RecordService, drafts driving.DraftService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:  s,
		records: records,
		drafts:  drafts,
		ctx:     context.Background(),
		kinds:   domain.RecordKinds(),
		width:   80,
		height:  24,
	}
}

// WithContext sets the context lookups run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the records of the current kind.
func (v *View) Init() tea.Cmd {
	return v.load()
}

func (v *View) load() tea.Cmd {
	kind := v.Kind()
	v.loading = true
	service, ctx := v.records, v.ctx
	return func() tea.Msg {
		if service == nil {
			return messages.RecordsLoaded{Kind: kind, Err: ErrNoRecordService}
		}
		items, err := service.List(ctx, kind)
		return messages.RecordsLoaded{Kind: kind, Records: items, Err: err}
	}
}

// Update handles messages for the record picker.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.RecordsLoaded:
		// A reply for a kind the user has already left is stale.
		if msg.Kind != v.Kind() {
			return v, nil
		}
		v.loading = false
		v.err = msg.Err
		v.items = msg.Records
		v.selected = 0
		return v, nil

	case messages.RecordSelected:
		v.err = msg.Err
		return v, nil
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.items)-1 {
			v.selected++
		}
	case "left", "h", "shift+tab":
		v.kind = (v.kind + len(v.kinds) - 1) % len(v.kinds)
		return v, v.load()
	case "right", "l", "tab":
		v.kind = (v.kind + 1) % len(v.kinds)
		return v, v.load()
	case "enter":
		if v.selected < len(v.items) {
			return v, v.choose(v.items[v.selected].ID)
		}
	case "x":
		return v, v.choose("")
	case "r":
		return v, v.load()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewWorkspace}
		}
	}
	return v, nil
}

// choose picks id as the record of the current kind. An empty id clears it.
func (v *View) choose(id string) tea.Cmd {
	ref := domain.RecordRef{Kind: v.Kind(), ID: id}
	var err error
	if v.drafts == nil {
		err = fmt.Errorf("%w: draft controls not available", domain.ErrInvalidInput)
	} else {
		err = v.drafts.SelectRecord(ref.Kind, ref.ID)
	}
	return func() tea.Msg {
		return messages.RecordSelected{Ref: ref, Err: err}
	}
}

// View renders the record picker.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Reference records"))
	b.WriteString("\n\n")
	b.WriteString(v.renderKinds())
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading records..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + domain.ErrorMessage(v.err)))
	case len(v.items) == 0:
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("No %s records.", strings.ToLower(v.Kind().Description()))))
	default:
		chosen := v.chosenID()
		for i := range v.items {
			b.WriteString(v.renderRecord(i, &v.items[i], chosen))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[←/→] kind  [enter] use  [x] clear  [r] reload  [esc] back"))
	return b.String()
}

func (v *View) renderKinds() string {
	tabs := make([]string, len(v.kinds))
	for i, k := range v.kinds {
		if i == v.kind {
			tabs[i] = v.styles.Selected.Render(" " + k.Description() + " ")
		} else {
			tabs[i] = v.styles.Muted.Render(" " + k.Description() + " ")
		}
	}
	return strings.Join(tabs, " ")
}

func (v *View) renderRecord(index int, record *domain.Record, chosen string) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}
	mark := " "
	if record.ID == chosen {
		mark = "*"
	}

	name := record.Field("name")
	if name == "" {
		name = record.Field("case_name")
	}
	line := fmt.Sprintf("%s%s %s", indicator, mark, record.ID)
	if name != "" {
		line += " - " + name
	}

	if index == v.selected {
		return v.styles.Selected.Render(line)
	}
	return v.styles.Normal.Render(line)
}

// chosenID returns the record the draft controls hold for the current kind.
func (v *View) chosenID() string {
	if v.drafts == nil {
		return ""
	}
	for _, ref := range v.drafts.State().Records {
		if ref.Kind == v.Kind() {
			return ref.ID
		}
	}
	return ""
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Kind returns the kind being browsed.
func (v *View) Kind() domain.RecordKind {
	return v.kinds[v.kind]
}

// Records returns the loaded records.
func (v *View) Records() []domain.Record {
	return v.items
}

// SelectedIndex returns the highlighted record index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
