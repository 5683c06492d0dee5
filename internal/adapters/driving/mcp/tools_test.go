package mcp

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reportdraft/internal/core/domain"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	if ports.Draft == nil {
		ports.Draft = &mockDraftService{}
	}
	if ports.Report == nil {
		ports.Report = newMockReport(nil)
	}
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestServer_handleGetReport(t *testing.T) {
	report := newMockReport(map[string]string{"title": "Parks Plan", "notes": "kept"})
	server := newTestServer(t, &Ports{Report: report, ExportBaseURL: "https://docs.example.gov/render"})

	_, out, err := server.handleGetReport(context.Background(), nil, EmptyInput{})

	require.NoError(t, err)
	require.Len(t, out.Sections, len(domain.SectionKeys()))
	assert.Equal(t, "title", out.Sections[0].Key)
	assert.Equal(t, "Parks Plan", out.Sections[0].Value)
	assert.Equal(t, map[string]string{"notes": "kept"}, out.Extras)
	assert.False(t, out.DownloadDisabled)
	assert.Equal(t, "https://docs.example.gov/render?title=Parks Plan", out.DownloadURL)
}

func TestServer_handleGetReport_EmptyHasNoLink(t *testing.T) {
	server := newTestServer(t, &Ports{ExportBaseURL: "https://docs.example.gov/render"})

	_, out, err := server.handleGetReport(context.Background(), nil, EmptyInput{})

	require.NoError(t, err)
	assert.True(t, out.DownloadDisabled)
	assert.Empty(t, out.DownloadURL)
	assert.Nil(t, out.Extras)
}

func TestServer_handleEditSection(t *testing.T) {
	report := newMockReport(nil)
	server := newTestServer(t, &Ports{Report: report})

	_, out, err := server.handleEditSection(context.Background(), nil, SectionInput{Key: "purpose", Value: "Fund it"})
	require.NoError(t, err)
	assert.Equal(t, "Fund it", out.Sections[1].Value)

	_, _, err = server.handleEditSection(context.Background(), nil, SectionInput{Value: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestServer_handlePublishReport_UsesDocumentOrder(t *testing.T) {
	report := newMockReport(nil)
	server := newTestServer(t, &Ports{Report: report})

	_, _, err := server.handlePublishReport(context.Background(), nil, PublishInput{Sections: map[string]string{
		"discussion": "D",
		"title":      "T",
		"purpose":    "P",
	}})

	require.NoError(t, err)
	assert.Equal(t, []string{"title", "purpose", "discussion"}, report.edits)
}

func TestServer_handleConfigureDraft(t *testing.T) {
	draft := &mockDraftService{}
	server := newTestServer(t, &Ports{Draft: draft})
	temp := 0.0

	_, out, err := server.handleConfigureDraft(context.Background(), nil, ConfigureInput{
		Prompt:        "Write about parks",
		Sections:      []string{"title", "purpose"},
		Model:         "gpt-test",
		Temperature:   &temp,
		VectorStoreID: "vs_1",
		Records:       []RecordInput{{Kind: "catalog", ID: "cat-7"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "Write about parks", out.Prompt)
	assert.Equal(t, []string{"title", "purpose"}, out.Sections)
	assert.Equal(t, "gpt-test", out.Model)
	assert.Equal(t, 0.0, out.Temperature)
	assert.Equal(t, "vs_1", out.VectorStoreID)
	assert.Equal(t, []RecordInput{{Kind: "catalog", ID: "cat-7"}}, out.Records)
}

func TestServer_handleConfigureDraft_Errors(t *testing.T) {
	server := newTestServer(t, &Ports{})

	_, _, err := server.handleConfigureDraft(context.Background(), nil, ConfigureInput{Sections: []string{"bogus"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = server.handleConfigureDraft(context.Background(), nil, ConfigureInput{
		Records: []RecordInput{{Kind: "budget", ID: "1"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestServer_handleConfigureDraft_AllSectionsWins(t *testing.T) {
	draft := &mockDraftService{}
	server := newTestServer(t, &Ports{Draft: draft})

	_, out, err := server.handleConfigureDraft(context.Background(), nil, ConfigureInput{
		AllSections: true,
		Sections:    []string{"title"},
	})

	require.NoError(t, err)
	assert.True(t, draft.allSections)
	assert.Equal(t, domain.SectionKeys(), out.Sections)
}

func TestServer_handleGenerateDraft(t *testing.T) {
	draft := &mockDraftService{}
	server := newTestServer(t, &Ports{Draft: draft})

	_, out, err := server.handleGenerateDraft(context.Background(), nil, EmptyInput{})

	require.NoError(t, err)
	assert.Equal(t, 1, draft.generated)
	require.Len(t, out.Preview, 1)
	assert.Equal(t, SectionOutput{Key: "title", Label: "Title", Value: "Drafted title"}, out.Preview[0])
}

func TestServer_handleGenerateDraft_ShowsServiceMessage(t *testing.T) {
	cause := fmt.Errorf("%w: %w", domain.ErrCompletionFailed, &domain.ServiceError{Message: "rate limited"})
	server := newTestServer(t, &Ports{Draft: &mockDraftService{err: cause}})

	_, _, err := server.handleGenerateDraft(context.Background(), nil, EmptyInput{})

	require.Error(t, err)
	assert.Equal(t, "draft failed: rate limited", err.Error())
}

func TestServer_handleReviewDraft(t *testing.T) {
	draft := &mockDraftService{}
	server := newTestServer(t, &Ports{Draft: draft})

	_, out, err := server.handleReviewDraft(context.Background(), nil, EmptyInput{})
	require.NoError(t, err)
	assert.Equal(t, "<b>Solid</b> draft", out.Review)

	draft.err = errors.New("offline")
	_, _, err = server.handleReviewDraft(context.Background(), nil, EmptyInput{})
	assert.Error(t, err)
}

func TestServer_PreviewLifecycle(t *testing.T) {
	draft := &mockDraftService{}
	server := newTestServer(t, &Ports{Draft: draft})
	ctx := context.Background()

	_, _, err := server.handleEditPreview(ctx, nil, SectionInput{Key: "title", Value: "x"})
	assert.ErrorIs(t, err, domain.ErrNoPreview)

	_, _, err = server.handleGenerateDraft(ctx, nil, EmptyInput{})
	require.NoError(t, err)

	_, out, err := server.handleEditPreview(ctx, nil, SectionInput{Key: "title", Value: "Edited"})
	require.NoError(t, err)
	assert.Equal(t, "Edited", out.Preview[0].Value)

	_, _, err = server.handleApplyPreview(ctx, nil, EmptyInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, draft.applied)

	_, out, err = server.handleDismissPreview(ctx, nil, EmptyInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, draft.dismissed)
	assert.Nil(t, out.Preview)
}

func TestServer_handleListRecords(t *testing.T) {
	t.Run("without record service", func(t *testing.T) {
		server := newTestServer(t, &Ports{})
		_, _, err := server.handleListRecords(context.Background(), nil, RecordsInput{Kind: "catalog"})
		assert.ErrorIs(t, err, ErrNoRecordService)
	})

	t.Run("lists records", func(t *testing.T) {
		records := &mockRecordService{records: []domain.Record{
			{Kind: domain.RecordCatalog, ID: "cat-1", Fields: map[string]string{"name": "Parks"}},
		}}
		server := newTestServer(t, &Ports{Records: records})

		_, out, err := server.handleListRecords(context.Background(), nil, RecordsInput{Kind: "catalog"})

		require.NoError(t, err)
		assert.Equal(t, "catalog", out.Kind)
		require.Len(t, out.Records, 1)
		assert.Equal(t, "Parks", out.Records[0].Fields["name"])
	})
}
