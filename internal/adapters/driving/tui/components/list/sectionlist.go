// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/reportdraft/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reportdraft/internal/core/domain"
)

// SectionList displays labelled report sections in a navigable list.
// With checkboxes enabled it doubles as the section selection control.
type SectionList struct {
	title      string
	sections   []domain.Section
	marked     map[string]bool
	checkboxes bool
	selected   int
	styles     *styles.Styles
	width      int
	height     int
}

// NewSectionList creates a new section list component.
func NewSectionList(s *styles.Styles, title string) *SectionList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &SectionList{
		title:  title,
		marked: make(map[string]bool),
		styles: s,
		width:  80,
		height: 20,
	}
}

// WithCheckboxes shows a mark beside each section.
func (l *SectionList) WithCheckboxes() *SectionList {
	l.checkboxes = true
	return l
}

// Init initialises the list.
func (l *SectionList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *SectionList) Update(msg tea.Msg) (*SectionList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the list.
func (l *SectionList) View() string {
	lines := make([]string, 0, len(l.sections)*2+2)
	if l.title != "" {
		lines = append(lines, l.styles.Subtitle.Render(l.title), "")
	}

	if len(l.sections) == 0 {
		lines = append(lines, l.styles.Muted.Render("Nothing to show"))
		return strings.Join(lines, "\n")
	}

	// Each section takes two lines: label and value preview.
	visibleCount := (l.height - 2) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if l.selected >= visibleCount {
		start = l.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(l.sections) {
		end = len(l.sections)
	}

	for i := start; i < end; i++ {
		lines = append(lines, l.renderSection(i, &l.sections[i]))
	}

	return strings.Join(lines, "\n")
}

// renderSection formats a single section with a one-line preview of its value.
func (l *SectionList) renderSection(index int, section *domain.Section) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	label := section.Label
	if l.checkboxes {
		mark := "[ ]"
		if l.marked[section.Key] {
			mark = "[x]"
		}
		label = fmt.Sprintf("%s %s", mark, label)
	}

	var labelLine string
	if index == l.selected {
		labelLine = l.styles.Selected.Render(indicator + label)
	} else {
		labelLine = l.styles.Normal.Render(indicator) + l.styles.Label.Render(label)
	}

	preview := firstLine(section.Value)
	if preview == "" {
		return labelLine + "\n" + l.styles.Muted.Render("    (empty)")
	}

	maxPreviewLen := l.width - 6
	if maxPreviewLen < 20 {
		maxPreviewLen = 20
	}
	preview = truncate(preview, maxPreviewLen)

	return labelLine + "\n" + l.styles.Normal.Render("    "+preview)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

// SetSections replaces the sections. The selection is kept when still in range.
func (l *SectionList) SetSections(sections []domain.Section) {
	l.sections = sections
	if l.selected >= len(sections) {
		l.selected = 0
	}
}

// Sections returns the current sections.
func (l *SectionList) Sections() []domain.Section {
	return l.sections
}

// SetMarked replaces the set of marked section keys.
func (l *SectionList) SetMarked(keys []string) {
	l.marked = make(map[string]bool, len(keys))
	for _, k := range keys {
		l.marked[k] = true
	}
}

// Marked reports whether key is marked.
func (l *SectionList) Marked(key string) bool {
	return l.marked[key]
}

// Selected returns the index of the selected section.
func (l *SectionList) Selected() int {
	return l.selected
}

// SetSelected sets the selected index.
func (l *SectionList) SetSelected(index int) {
	if index >= 0 && index < len(l.sections) {
		l.selected = index
	}
}

// SelectedSection returns the currently selected section, or nil if none.
func (l *SectionList) SelectedSection() *domain.Section {
	if len(l.sections) == 0 || l.selected < 0 || l.selected >= len(l.sections) {
		return nil
	}
	return &l.sections[l.selected]
}

// MoveUp moves selection up.
func (l *SectionList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *SectionList) MoveDown() {
	if l.selected < len(l.sections)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *SectionList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Width returns the current width.
func (l *SectionList) Width() int {
	return l.width
}

// Height returns the current height.
func (l *SectionList) Height() int {
	return l.height
}

// Count returns the number of sections.
func (l *SectionList) Count() int {
	return len(l.sections)
}

// IsEmpty returns whether the list is empty.
func (l *SectionList) IsEmpty() bool {
	return len(l.sections) == 0
}
