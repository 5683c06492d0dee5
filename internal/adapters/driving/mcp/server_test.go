package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil ports returns error", func(t *testing.T) {
		server, err := NewServer(nil)
		require.Error(t, err)
		assert.Nil(t, server)
	})

	t.Run("missing draft service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Report: newMockReport(nil)})
		assert.ErrorIs(t, err, ErrMissingDraftService)
		assert.Nil(t, server)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{Draft: &mockDraftService{}, Report: newMockReport(nil)})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("missing report service", func(t *testing.T) {
		ports := &Ports{Draft: &mockDraftService{}}
		assert.ErrorIs(t, ports.Validate(), ErrMissingReportService)
	})

	t.Run("records are optional", func(t *testing.T) {
		ports := &Ports{Draft: &mockDraftService{}, Report: newMockReport(nil)}
		assert.NoError(t, ports.Validate())
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Draft:   &mockDraftService{},
			Report:  newMockReport(nil),
			Records: &mockRecordService{},
		}
		assert.NoError(t, ports.Validate())
	})
}
