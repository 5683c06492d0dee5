package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/reportdraft/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/reportdraft/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/reportdraft/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reportdraft/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reportdraft/internal/adapters/driving/tui/views/controls"
	"github.com/custodia-labs/reportdraft/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/reportdraft/internal/adapters/driving/tui/views/records"
	"github.com/custodia-labs/reportdraft/internal/adapters/driving/tui/views/report"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	// menuView is the main navigation menu.
	menuView *menu.View

	// reportView is the content pane of the workspace.
	reportView *report.View

	// controlsView is the draft controls pane of the workspace.
	controlsView *controls.View

	// recordsView picks reference records for drafting.
	recordsView *records.View

	statusbar *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// pane is the workspace pane with focus.
	pane messages.Pane

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w: %w", ErrInvalidPorts, err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		menuView:     menu.NewView(s).WithReport(ports.Report),
		reportView:   report.NewView(s, km, ports.Report, ports.ExportBase()),
		controlsView: controls.NewView(s, km, ports.Draft),
		recordsView:  records.NewView(s, ports.Records, ports.Draft),
		statusbar:    status.NewBar(s, km),
		currentView:  messages.ViewMenu,
		pane:         messages.PaneReport,
	}, nil
}

// WithContext sets the context for the app and the views that make requests.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.controlsView.WithContext(ctx)
	a.recordsView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("reportdraft - Staff Report Drafting"),
		a.reportView.Init(),
		a.controlsView.Init(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.handleKeyMsg(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewWorkspace:
			a.reportView.Refresh()
			a.controlsView.Refresh()
		case messages.ViewRecords:
			return a, a.recordsView.Init()
		case messages.ViewMenu, messages.ViewHelp:
		}
		return a, nil

	case messages.DraftCompleted, messages.PreviewApplied:
		a.controlsView, cmd = a.controlsView.Update(msg)
		a.reportView.Refresh()
		return a, cmd

	case messages.SectionEdited, messages.DownloadLinkReady:
		a.reportView, cmd = a.reportView.Update(msg)
		a.controlsView.Refresh()
		return a, cmd

	case messages.RecordsLoaded:
		a.recordsView, cmd = a.recordsView.Update(msg)
		return a, cmd

	case messages.RecordSelected:
		a.recordsView, _ = a.recordsView.Update(msg)
		a.controlsView, cmd = a.controlsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages (cursor blinks) to the focused pane.
	if a.currentView == messages.ViewWorkspace {
		if a.pane == messages.PaneReport {
			a.reportView, cmd = a.reportView.Update(msg)
		} else {
			a.controlsView, cmd = a.controlsView.Update(msg)
		}
	}
	return a, cmd
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
		return a, cmd

	case messages.ViewRecords:
		a.recordsView, cmd = a.recordsView.Update(msg)
		return a, cmd

	case messages.ViewHelp:
		if msg.Type == tea.KeyEsc {
			a.currentView = messages.ViewMenu
		}
		return a, nil

	case messages.ViewWorkspace:
		if !a.editing() {
			key := msg.String()
			switch {
			case keymap.Matches(key, a.keymap.SwitchPane):
				a.togglePane()
				return a, nil
			case keymap.Matches(key, a.keymap.Back):
				a.currentView = messages.ViewMenu
				return a, nil
			case keymap.Matches(key, a.keymap.Help):
				a.currentView = messages.ViewHelp
				return a, nil
			case keymap.Matches(key, a.keymap.Quit):
				return a, tea.Quit
			}
		}

		if a.pane == messages.PaneReport {
			a.reportView, cmd = a.reportView.Update(msg)
		} else {
			a.controlsView, cmd = a.controlsView.Update(msg)
		}
		return a, cmd
	}
	return a, nil
}

func (a *App) togglePane() {
	if a.pane == messages.PaneReport {
		a.pane = messages.PaneControls
	} else {
		a.pane = messages.PaneReport
	}
}

func (a *App) editing() bool {
	return a.reportView.Editing() || a.controlsView.Editing()
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewWorkspace:
		return a.viewWorkspace()
	case messages.ViewRecords:
		return a.recordsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewWorkspace renders the report and controls side by side.
func (a *App) viewWorkspace() string {
	reportStyle, controlsStyle := a.styles.ActivePane, a.styles.Pane
	if a.pane == messages.PaneControls {
		reportStyle, controlsStyle = a.styles.Pane, a.styles.ActivePane
	}

	left, right := a.paneWidths()
	panes := lipgloss.JoinHorizontal(
		lipgloss.Top,
		reportStyle.Width(left).Render(a.reportView.View()),
		controlsStyle.Width(right).Render(a.controlsView.View()),
	)

	a.syncStatus()
	return lipgloss.JoinVertical(lipgloss.Left, panes, a.statusbar.View())
}

// syncStatus derives the status bar from the surfaces.
func (a *App) syncStatus() {
	state := a.ports.Draft.State()

	a.statusbar.Clear()
	if a.pane == messages.PaneReport {
		a.statusbar.SetHints(a.keymap.ReportHelp())
	} else {
		a.statusbar.SetHints(a.keymap.ControlsHelp())
	}

	count := 0
	for _, section := range a.ports.Report.Sections() {
		if section.Value != "" {
			count++
		}
	}
	a.statusbar.SetSectionCount(count)

	switch {
	case a.editing():
		a.statusbar.SetState(status.StateEditing)
	case state.Loading:
		a.statusbar.SetState(status.StateLoading)
		if a.controlsView.Running() == messages.ActionReview {
			a.statusbar.SetMessage("Reviewing")
		} else {
			a.statusbar.SetMessage("Generating")
		}
	case state.Err != "":
		a.statusbar.SetState(status.StateError)
		a.statusbar.SetMessage(state.Err)
	case a.err != nil:
		a.statusbar.SetState(status.StateError)
		a.statusbar.SetMessage(a.err.Error())
	case state.HasPreview():
		a.statusbar.SetState(status.StatePreview)
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Workspace:
  tab         Switch between report and controls
  esc         Back to Menu
  ?           This help
  q, ctrl+c   Quit

Report pane:
  j/k, ↑/↓    Move between sections
  e, enter    Edit the section (enter saves, esc cancels)
  D           Show the download link

Controls pane:
  space       Include or skip the section in the draft request
  A           Select every section
  p / m / t   Edit prompt, model, temperature
  g           Generate section drafts
  r           Review the report
  R           Choose reference records

Preview:
  e, enter    Edit the drafted section
  a           Apply the preview to the report
  d           Dismiss the preview or review

[esc] back to menu`
}

// paneWidths splits the terminal between the two panes, leaving room
// for borders and padding.
func (a *App) paneWidths() (int, int) {
	inner := a.width - 8
	if inner < 40 {
		inner = 40
	}
	left := inner / 2
	return left, inner - left
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Pane returns the workspace pane with focus.
func (a *App) Pane() messages.Pane {
	return a.pane
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions and sizes every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	left, right := a.paneWidths()
	paneHeight := height - 3
	a.menuView.SetDimensions(width, height)
	a.reportView.SetDimensions(left, paneHeight)
	a.controlsView.SetDimensions(right, paneHeight)
	a.recordsView.SetDimensions(width, height)
	a.statusbar.SetWidth(width)
}
