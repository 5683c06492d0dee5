// Package tui provides an interactive terminal user interface for reportdraft.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/reportdraft/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Draft is the controls surface.
	Draft driving.DraftService

	// Report is the content surface.
	Report driving.ReportService

	// Records browses reference records. Optional.
	Records driving.RecordService

	// Settings supplies the export endpoint when ExportBaseURL is empty. Optional.
	Settings driving.SettingsService

	// ExportBaseURL overrides the configured download endpoint.
	ExportBaseURL string
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(draft driving.DraftService, report driving.ReportService) *Ports {
	return &Ports{
		Draft:  draft,
		Report: report,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p == nil || p.Draft == nil {
		return ErrMissingDraftService
	}
	if p.Report == nil {
		return ErrMissingReportService
	}
	return nil
}

// ExportBase returns the download endpoint, falling back to settings.
func (p *Ports) ExportBase() string {
	if p.ExportBaseURL != "" || p.Settings == nil {
		return p.ExportBaseURL
	}
	settings, err := p.Settings.Get()
	if err != nil || settings == nil {
		return ""
	}
	return settings.Export.BaseURL
}
