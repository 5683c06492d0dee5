// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants read the staff report, edit sections and drive
// the drafting controls.
package mcp

import "errors"

var (
	// ErrMissingDraftService is returned when the draft service is not provided.
	ErrMissingDraftService = errors.New("mcp: draft service is required")

	// ErrMissingReportService is returned when the report service is not provided.
	ErrMissingReportService = errors.New("mcp: report service is required")

	// ErrNoRecordService is returned by record tools when no record service is wired.
	ErrNoRecordService = errors.New("mcp: reference records are not available")
)
