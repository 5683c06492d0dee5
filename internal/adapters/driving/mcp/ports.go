package mcp

import (
	"github.com/custodia-labs/reportdraft/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Draft is the controls surface.
	Draft driving.DraftService

	// Report is the content surface.
	Report driving.ReportService

	// Records browses reference records. Optional.
	Records driving.RecordService

	// ExportBaseURL is the download endpoint. Optional.
	ExportBaseURL string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Draft == nil {
		return ErrMissingDraftService
	}
	if p.Report == nil {
		return ErrMissingReportService
	}
	return nil
}
