package services

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/reportdraft/internal/bus"
	"github.com/custodia-labs/reportdraft/internal/core/domain"
	"github.com/custodia-labs/reportdraft/internal/core/ports/driven"
	"github.com/custodia-labs/reportdraft/internal/core/ports/driving"
	"github.com/custodia-labs/reportdraft/internal/logger"
)

// Ensure ReportEditor implements the interface.
var _ driving.ReportService = (*ReportEditor)(nil)

// OwnerContent is the bus owner name of the content surface.
const OwnerContent = "content"

// ReportEditor is the content surface: it shows the report and publishes
// every edit so the controls surface stays in step.
type ReportEditor struct {
	bus      *bus.Bus
	exporter driven.ReportExporter

	mu      sync.Mutex
	sub     *bus.Subscription
	report  domain.Document
	errText string
}

// NewReportEditor creates the content surface with an empty report.
func NewReportEditor(b *bus.Bus, exporter driven.ReportExporter) *ReportEditor {
	return &ReportEditor{
		bus:      b,
		exporter: exporter,
		report:   domain.NewDocument(),
	}
}

// Attach subscribes to report snapshots.
func (e *ReportEditor) Attach() error {
	sub, err := e.bus.Subscribe(OwnerContent, e.receive)
	if err != nil {
		return fmt.Errorf("attach content: %w", err)
	}
	e.mu.Lock()
	e.sub = sub
	e.mu.Unlock()
	return nil
}

// Detach drops the subscription.
func (e *ReportEditor) Detach() {
	e.mu.Lock()
	sub := e.sub
	e.sub = nil
	e.mu.Unlock()
	sub.Close()
}

func (e *ReportEditor) receive(msg bus.Message) {
	doc, err := domain.DecodeReportMessage(msg.Payload)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		logger.Warn("content: rejected message %s from %s: %v", msg.ID, msg.Source, err)
		e.errText = err.Error()
		return
	}
	logger.Debug("content: adopted report from %s (%d keys)", msg.Source, doc.Len())
	e.report = doc
	e.errText = ""
}

// EditSection sets one value locally, then publishes the full report.
func (e *ReportEditor) EditSection(key, value string) error {
	if key == "" {
		return fmt.Errorf("%w: section key is required", domain.ErrInvalidInput)
	}

	e.mu.Lock()
	e.report.Set(key, value)
	snapshot := e.report.Clone()
	e.mu.Unlock()

	if err := e.bus.Publish(OwnerContent, snapshot); err != nil {
		e.mu.Lock()
		e.errText = err.Error()
		e.mu.Unlock()
		return fmt.Errorf("publish report: %w", err)
	}
	return nil
}

// Report returns a copy of the current report.
func (e *ReportEditor) Report() domain.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.report.Clone()
}

// Sections returns the labelled standard sections.
func (e *ReportEditor) Sections() []domain.Section {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.report.Sections()
}

// DownloadDisabled returns true while the report is empty.
func (e *ReportEditor) DownloadDisabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.report.DownloadDisabled()
}

// DownloadURL builds the export link. An empty report cannot be exported.
func (e *ReportEditor) DownloadURL(base string) (string, error) {
	doc := e.Report()
	if doc.DownloadDisabled() {
		return "", fmt.Errorf("%w: report is empty", domain.ErrInvalidInput)
	}
	if e.exporter == nil {
		return "", fmt.Errorf("%w: no exporter configured", domain.ErrInvalidInput)
	}
	return e.exporter.DownloadURL(base, doc)
}

// Err returns the visible error text, empty when none.
func (e *ReportEditor) Err() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errText
}
