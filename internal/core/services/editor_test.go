package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reportdraft/internal/bus"
	"github.com/custodia-labs/reportdraft/internal/core/domain"
)

func newTestEditor(t *testing.T, b *bus.Bus) *ReportEditor {
	t.Helper()
	e := NewReportEditor(b, &mockExporter{})
	require.NoError(t, e.Attach())
	t.Cleanup(e.Detach)
	return e
}

func TestReportEditor_StartsEmpty(t *testing.T) {
	e := newTestEditor(t, bus.New())

	assert.True(t, e.Report().IsEmpty())
	assert.True(t, e.DownloadDisabled())
	assert.Empty(t, e.Err())
	assert.Len(t, e.Sections(), len(domain.SectionKeys()))
}

func TestReportEditor_EditSectionPublishes(t *testing.T) {
	b := bus.New()
	e := newTestEditor(t, b)
	c := newTestController(t, b, &mockCompletion{}, nil)

	require.NoError(t, e.EditSection("title", "Park Plan"))
	require.NoError(t, e.EditSection("purpose", "Fund it"))

	assert.Equal(t, "Park Plan", e.Report().Get("title"))
	assert.True(t, e.Report().Equal(c.State().Report))
	assert.False(t, e.DownloadDisabled())
}

func TestReportEditor_EditSectionRequiresKey(t *testing.T) {
	e := newTestEditor(t, bus.New())
	assert.ErrorIs(t, e.EditSection("", "x"), domain.ErrInvalidInput)
}

func TestReportEditor_EditSectionOnClosedBus(t *testing.T) {
	b := bus.New()
	e := newTestEditor(t, b)
	b.Close()

	err := e.EditSection("title", "T")

	assert.ErrorIs(t, err, bus.ErrClosed)
	assert.NotEmpty(t, e.Err())
	assert.Equal(t, "T", e.Report().Get("title"))
}

func TestReportEditor_AdoptsAppliedPreview(t *testing.T) {
	b := bus.New()
	e := newTestEditor(t, b)
	c := newTestController(t, b, &mockCompletion{reply: `{"title":"Drafted","purpose":"Why"}`}, nil)

	require.NoError(t, e.EditSection("background", "History"))
	require.NoError(t, c.Generate(context.Background()))
	assert.Empty(t, e.Report().Get("title"), "preview stays private until applied")

	require.NoError(t, c.Apply())

	report := e.Report()
	assert.Equal(t, "Drafted", report.Get("title"))
	assert.Equal(t, "Why", report.Get("purpose"))
	assert.Equal(t, "History", report.Get("background"))
}

func TestReportEditor_SnapshotReplacesWholeReport(t *testing.T) {
	b := bus.New()
	e := newTestEditor(t, b)
	require.NoError(t, e.EditSection("background", "x"))

	snapshot := domain.DocumentFrom(map[string]string{"title": "T"})
	require.NoError(t, b.Publish(OwnerControls, snapshot))

	report := e.Report()
	assert.False(t, report.Has("background"), "earlier keys are discarded, not merged")
	assert.True(t, report.Equal(snapshot))
}

func TestReportEditor_InvalidSnapshotKeepsReport(t *testing.T) {
	b := bus.New()
	e := newTestEditor(t, b)
	require.NoError(t, b.Publish(OwnerControls, domain.DocumentFrom(map[string]string{"title": "Kept"})))

	payloads := []string{
		`not json`,
		`{"report":null}`,
		`{"report":"text"}`,
		`{"other":{}}`,
		`{"report":{"title":["a"]}}`,
	}
	for _, p := range payloads {
		require.NoError(t, b.PublishRaw(OwnerControls, []byte(p)))
		assert.Equal(t, "Kept", e.Report().Get("title"), p)
		assert.NotEmpty(t, e.Err(), p)
	}

	require.NoError(t, b.Publish(OwnerControls, domain.DocumentFrom(map[string]string{"title": "Next"})))
	assert.Equal(t, "Next", e.Report().Get("title"))
	assert.Empty(t, e.Err())
}

func TestReportEditor_NullValuesBecomeEmpty(t *testing.T) {
	b := bus.New()
	e := newTestEditor(t, b)

	require.NoError(t, b.PublishRaw(OwnerControls, []byte(`{"report":{"title":null,"purpose":"P"}}`)))

	report := e.Report()
	assert.True(t, report.Has("title"))
	assert.Empty(t, report.Get("title"))
	assert.Equal(t, "P", report.Get("purpose"))
}

func TestReportEditor_ReportIsCopy(t *testing.T) {
	e := newTestEditor(t, bus.New())
	require.NoError(t, e.EditSection("title", "T"))

	report := e.Report()
	report.Set("title", "mutated")

	assert.Equal(t, "T", e.Report().Get("title"))
}

func TestReportEditor_DownloadURL(t *testing.T) {
	e := newTestEditor(t, bus.New())

	_, err := e.DownloadURL("/export")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, e.EditSection("title", "T"))
	url, err := e.DownloadURL("/export")
	require.NoError(t, err)
	assert.Equal(t, "/export?keys=1", url)
}

func TestReportEditor_DownloadURLWithoutExporter(t *testing.T) {
	e := NewReportEditor(bus.New(), nil)
	require.NoError(t, e.EditSection("title", "T"))

	_, err := e.DownloadURL("/export")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReportEditor_DownloadURLExporterError(t *testing.T) {
	cause := errors.New("bad base")
	e := NewReportEditor(bus.New(), &mockExporter{err: cause})
	require.NoError(t, e.EditSection("title", "T"))

	_, err := e.DownloadURL("::")
	assert.ErrorIs(t, err, cause)
}

func TestReportEditor_AttachTwice(t *testing.T) {
	b := bus.New()
	newTestEditor(t, b)

	other := NewReportEditor(b, nil)
	assert.ErrorIs(t, other.Attach(), bus.ErrDuplicateSubscriber)
}
