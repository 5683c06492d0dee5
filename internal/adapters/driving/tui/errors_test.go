package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	errors := []error{
		ErrMissingDraftService,
		ErrMissingReportService,
		ErrInvalidPorts,
	}

	seen := make(map[string]bool)
	for _, err := range errors {
		msg := err.Error()
		assert.False(t, seen[msg], "duplicate error message: %s", msg)
		seen[msg] = true
	}
}

func TestErrMissingDraftService_Message(t *testing.T) {
	assert.Contains(t, ErrMissingDraftService.Error(), "draft service")
}

func TestErrMissingReportService_Message(t *testing.T) {
	assert.Contains(t, ErrMissingReportService.Error(), "report service")
}

func TestErrInvalidPorts_Message(t *testing.T) {
	assert.Contains(t, ErrInvalidPorts.Error(), "invalid ports")
}
