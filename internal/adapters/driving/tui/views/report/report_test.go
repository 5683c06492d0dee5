package report

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reportdraft/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reportdraft/internal/core/domain"
)

// MockReportService implements driving.ReportService for testing.
type MockReportService struct {
	doc       domain.Document
	err       string
	editErr   error
	lastBase  string
	editCalls int
}

func newMockReportService(values map[string]string) *MockReportService {
	return &MockReportService{doc: domain.DocumentFrom(values)}
}

func (m *MockReportService) Attach() error { return nil }
func (m *MockReportService) Detach() {}

func (m *MockReportService) EditSection(key, value string) error {
	m.editCalls++
	if m.editErr != nil {
		return m.editErr
	}
	m.doc.Set(key, value)
	return nil
}

func (m *MockReportService) Report() domain.Document { return m.doc.Clone() }
func (m *MockReportService) Sections() []domain.Section { return m.doc.Sections() }
func (m *MockReportService) DownloadDisabled() bool { return m.doc.DownloadDisabled() }
func (m *MockReportService) Err() string { return m.err }

func (m *MockReportService) DownloadURL(base string) (string, error) {
	m.lastBase = base
	return base + "?title=x", nil
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func typeText(v *View, text string) {
	for _, r := range text {
		v.Update(key(r))
	}
}

// run executes cmd and feeds its message back into the view.
func run(t *testing.T, v *View, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	v.Update(msg)
	return msg
}

func TestNewView_NilParams(t *testing.T) {
	v := NewView(nil, nil, nil, "")

	require.NotNil(t, v)
	assert.NotNil(t, v.styles)
	assert.NotNil(t, v.keymap)
	assert.Nil(t, v.Init())
	assert.Contains(t, v.View(), "Download: disabled")
}

func TestView_Init_LoadsSections(t *testing.T) {
	svc := newMockReportService(map[string]string{domain.SectionTitle: "Library Hours"})
	v := NewView(nil, nil, svc, "")

	v.Init()

	assert.Equal(t, len(domain.SectionKeys()), v.sections.Count())
	assert.Contains(t, v.View(), "Library Hours")
}

func TestView_Navigate(t *testing.T) {
	v := NewView(nil, nil, newMockReportService(nil), "")
	v.Init()

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v.Update(key('j'))
	assert.Equal(t, 2, v.SelectedIndex())

	v.Update(key('k'))
	assert.Equal(t, 1, v.SelectedIndex())
}

func TestView_EditSection(t *testing.T) {
	svc := newMockReportService(map[string]string{domain.SectionPurpose: "Old"})
	v := NewView(nil, nil, svc, "")
	v.Init()
	v.Update(tea.KeyMsg{Type: tea.KeyDown})

	v.Update(key('e'))
	require.True(t, v.Editing())
	assert.Equal(t, domain.SectionPurpose, v.EditingKey())
	assert.Equal(t, "Old", v.editor.Value())

	typeText(v, " and new")
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msg := run(t, v, cmd)

	assert.False(t, v.Editing())
	assert.Equal(t, messages.SectionEdited{Key: domain.SectionPurpose}, msg)
	assert.Equal(t, "Old and new", svc.doc.Get(domain.SectionPurpose))
	assert.Contains(t, v.View(), "Old and new")
}

func TestView_EditSection_KeysDoNotLeak(t *testing.T) {
	svc := newMockReportService(nil)
	v := NewView(nil, nil, svc, "")
	v.Init()

	v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	typeText(v, "jD")

	assert.True(t, v.Editing())
	assert.Equal(t, 0, v.SelectedIndex())
	assert.Equal(t, "jD", v.editor.Value())
	assert.Empty(t, v.Link())
}

func TestView_EditSection_Cancel(t *testing.T) {
	svc := newMockReportService(nil)
	v := NewView(nil, nil, svc, "")
	v.Init()

	v.Update(key('e'))
	typeText(v, "draft")
	v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, v.Editing())
	assert.Equal(t, 0, svc.editCalls)
	assert.True(t, svc.doc.IsEmpty())
}

func TestView_EditSection_Error(t *testing.T) {
	svc := newMockReportService(nil)
	svc.editErr = errors.New("publish failed")
	v := NewView(nil, nil, svc, "")
	v.Init()

	v.Update(key('e'))
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	run(t, v, cmd)

	assert.EqualError(t, v.Err(), "publish failed")
	assert.Contains(t, v.View(), "publish failed")
}

func TestView_Download_Disabled(t *testing.T) {
	svc := newMockReportService(nil)
	v := NewView(nil, nil, svc, "/generate")
	v.Init()

	_, cmd := v.Update(key('D'))
	run(t, v, cmd)

	assert.ErrorIs(t, v.Err(), ErrDownloadDisabled)
	assert.Empty(t, v.Link())
	assert.Contains(t, v.View(), "Download: disabled")
}

func TestView_Download_Link(t *testing.T) {
	svc := newMockReportService(map[string]string{domain.SectionTitle: "x"})
	v := NewView(nil, nil, svc, "/generate")
	v.Init()

	_, cmd := v.Update(key('D'))
	run(t, v, cmd)

	assert.NoError(t, v.Err())
	assert.Equal(t, "/generate", svc.lastBase)
	assert.Equal(t, "/generate?title=x", v.Link())
	assert.Contains(t, v.View(), "/generate?title=x")
}

func TestView_ShowsSurfaceError(t *testing.T) {
	svc := newMockReportService(nil)
	svc.err = "invalid report snapshot"
	v := NewView(nil, nil, svc, "")

	assert.Contains(t, v.View(), "invalid report snapshot")
}

func TestView_SetDimensions(t *testing.T) {
	v := NewView(nil, nil, nil, "")

	v.SetDimensions(60, 30)

	assert.Equal(t, 60, v.width)
	assert.Equal(t, 24, v.sections.Height())
}
