// Package menu provides the start screen of the TUI.
package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/reportdraft/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reportdraft/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reportdraft/internal/core/domain"
	"github.com/custodia-labs/reportdraft/internal/core/ports/driving"
)

// Item is one entry on the start screen.
type Item struct {
	Label       string
	Description string
	// Shortcut jumps straight to the item from anywhere in the list.
	Shortcut string
	View     messages.ViewType
	Quit     bool
}

// View lists where to go next and summarises the report in progress.
type View struct {
	styles   *styles.Styles
	reports  driving.ReportService
	items    []Item
	selected int
	width    int
	height   int
	ready    bool
}

// NewView creates the start screen.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		items: []Item{
			{
				Label:       "Draft report",
				Description: "Edit sections beside the drafting controls",
				Shortcut:    "d",
				View:        messages.ViewWorkspace,
			},
			{
				Label:       "Reference records",
				Description: "Attach a catalog entry, comms plan or rezoning submittal",
				Shortcut:    "r",
				View:        messages.ViewRecords,
			},
			{Label: "Help", Description: "Key bindings", Shortcut: "?", View: messages.ViewHelp},
			{Label: "Quit", Shortcut: "q", Quit: true},
		},
		width:  80,
		height: 24,
	}
}

// WithReport shows progress of the shared report under the title.
func (v *View) WithReport(reports driving.ReportService) *View {
	v.reports = reports
	return v
}

// Init implements the view lifecycle; the menu loads nothing.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "up", "k":
			v.selected = (v.selected - 1 + len(v.items)) % len(v.items)
			return v, nil
		case "down", "j":
			v.selected = (v.selected + 1) % len(v.items)
			return v, nil
		case "enter":
			return v, v.choose(v.selected)
		}
		for i, item := range v.items {
			if item.Shortcut == key {
				v.selected = i
				return v, v.choose(i)
			}
		}
	}

	return v, nil
}

func (v *View) choose(i int) tea.Cmd {
	item := v.items[i]
	if item.Quit {
		return tea.Quit
	}
	return func() tea.Msg {
		return messages.ViewChanged{View: item.View}
	}
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Report Draft"))
	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render("Staff report drafting assistant"))
	b.WriteString("\n")
	if summary := v.summary(); summary != "" {
		b.WriteString(v.styles.Muted.Render(summary))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	shortcuts := make([]string, 0, len(v.items))
	for i, item := range v.items {
		label := fmt.Sprintf("[%s] %s", item.Shortcut, item.Label)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + label))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + label))
		}
		b.WriteString("\n")
		if i == v.selected && item.Description != "" {
			b.WriteString(v.styles.Muted.Render("    " + item.Description))
			b.WriteString("\n")
		}
		shortcuts = append(shortcuts, item.Shortcut)
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(
		fmt.Sprintf("[j/k] Navigate  [Enter] Select  [%s] Jump", strings.Join(shortcuts, "/"))))
	return b.String()
}

// summary counts the written sections of the shared report.
func (v *View) summary() string {
	if v.reports == nil {
		return ""
	}
	written := 0
	for _, s := range v.reports.Sections() {
		if strings.TrimSpace(s.Value) != "" {
			written++
		}
	}
	if v.reports.DownloadDisabled() {
		return fmt.Sprintf("%d of %d sections written, nothing to download yet", written, len(domain.SectionKeys()))
	}
	return fmt.Sprintf("%d of %d sections written", written, len(domain.SectionKeys()))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}

// Items returns the menu entries.
func (v *View) Items() []Item {
	return v.items
}
