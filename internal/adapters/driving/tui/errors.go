package tui

import "errors"

// ErrMissingDraftService is returned when the draft service is not provided.
var ErrMissingDraftService = errors.New("tui: draft service is required")

// ErrMissingReportService is returned when the report service is not provided.
var ErrMissingReportService = errors.New("tui: report service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
