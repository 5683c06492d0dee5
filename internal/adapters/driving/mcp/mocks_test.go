package mcp

import (
	"context"

	"github.com/custodia-labs/reportdraft/internal/core/domain"
	"github.com/custodia-labs/reportdraft/internal/core/ports/driving"
)

// mockDraftService is a mock implementation of driving.DraftService.
type mockDraftService struct {
	state       driving.DraftState
	err         error
	generated   int
	reviewed    int
	applied     int
	dismissed   int
	allSections bool
}

func (m *mockDraftService) Attach() error { return nil }
func (m *mockDraftService) Detach()       {}

func (m *mockDraftService) Generate(_ context.Context) error {
	m.generated++
	if m.err != nil {
		return m.err
	}
	m.state.Preview = domain.Patch{"title": "Drafted title"}
	return nil
}

func (m *mockDraftService) Review(_ context.Context) error {
	m.reviewed++
	if m.err != nil {
		return m.err
	}
	m.state.ReviewOutput = "<b>Solid</b> draft"
	return nil
}

func (m *mockDraftService) EditPreview(key, value string) error {
	if m.state.Preview == nil {
		return domain.ErrNoPreview
	}
	m.state.Preview[key] = value
	return nil
}

func (m *mockDraftService) Apply() error {
	m.applied++
	return m.err
}

func (m *mockDraftService) Dismiss() {
	m.dismissed++
	m.state.Preview = nil
	m.state.ReviewOutput = ""
}

func (m *mockDraftService) SetInstructions(text string) { m.state.Instructions = text }
func (m *mockDraftService) SetPrompt(text string)       { m.state.Prompt = text }

func (m *mockDraftService) SetSections(keys []string) error {
	for _, k := range keys {
		if !domain.IsKnownSection(k) {
			return domain.ErrInvalidInput
		}
	}
	m.state.Sections = keys
	return nil
}

func (m *mockDraftService) SelectAllSections() {
	m.allSections = true
	m.state.Sections = domain.SectionKeys()
}

func (m *mockDraftService) SetVectorStoreID(id string) { m.state.VectorStoreID = id }
func (m *mockDraftService) SetModel(model string)      { m.state.Model = model }
func (m *mockDraftService) SetTemperature(t float64)   { m.state.Temperature = t }

func (m *mockDraftService) SelectRecord(kind domain.RecordKind, id string) error {
	if !kind.IsValid() {
		return domain.ErrInvalidInput
	}
	m.state.Records = append(m.state.Records, domain.RecordRef{Kind: kind, ID: id})
	return nil
}

func (m *mockDraftService) State() driving.DraftState { return m.state }

// mockReportService is a mock implementation of driving.ReportService.
type mockReportService struct {
	doc     domain.Document
	errText string
	edits   []string
}

func newMockReport(values map[string]string) *mockReportService {
	return &mockReportService{doc: domain.DocumentFrom(values)}
}

func (m *mockReportService) Attach() error { return nil }
func (m *mockReportService) Detach()       {}

func (m *mockReportService) EditSection(key, value string) error {
	if key == "" {
		return domain.ErrInvalidInput
	}
	m.edits = append(m.edits, key)
	m.doc.Set(key, value)
	return nil
}

func (m *mockReportService) Report() domain.Document    { return m.doc.Clone() }
func (m *mockReportService) Sections() []domain.Section { return m.doc.Sections() }
func (m *mockReportService) DownloadDisabled() bool     { return m.doc.DownloadDisabled() }
func (m *mockReportService) Err() string                { return m.errText }

func (m *mockReportService) DownloadURL(base string) (string, error) {
	if m.doc.DownloadDisabled() {
		return "", domain.ErrInvalidInput
	}
	return base + "?title=" + m.doc.Get("title"), nil
}

// mockRecordService is a mock implementation of driving.RecordService.
type mockRecordService struct {
	records []domain.Record
	err     error
}

func (m *mockRecordService) List(_ context.Context, _ domain.RecordKind) ([]domain.Record, error) {
	return m.records, m.err
}

func (m *mockRecordService) Get(_ context.Context, ref domain.RecordRef) (*domain.Record, error) {
	for i := range m.records {
		if m.records[i].ID == ref.ID {
			return &m.records[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockRecordService) Save(_ context.Context, _ domain.Record) error {
	return m.err
}
