package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/reportdraft/internal/core/domain"
	"github.com/custodia-labs/reportdraft/internal/core/ports/driving"
)

// SectionOutput is one labelled report or preview section.
type SectionOutput struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// ReportOutput is the content surface's report.
type ReportOutput struct {
	Sections         []SectionOutput   `json:"sections"`
	Extras           map[string]string `json:"extras,omitempty"`
	DownloadDisabled bool              `json:"download_disabled"`
	DownloadURL      string            `json:"download_url,omitempty"`
	Error            string            `json:"error,omitempty"`
}

// RecordInput selects a reference record.
type RecordInput struct {
	Kind string `json:"kind" jsonschema:"record kind: catalog, comms_plan or rezoning_submittal"`
	ID   string `json:"id" jsonschema:"record id, empty to clear the selection"`
}

// DraftStateOutput is a snapshot of the controls surface.
type DraftStateOutput struct {
	Prompt        string          `json:"prompt"`
	Sections      []string        `json:"sections"`
	Model         string          `json:"model"`
	Temperature   float64         `json:"temperature"`
	VectorStoreID string          `json:"vector_store_id,omitempty"`
	Records       []RecordInput   `json:"records,omitempty"`
	Preview       []SectionOutput `json:"preview,omitempty"`
	Review        string          `json:"review,omitempty"`
	Error         string          `json:"error,omitempty"`
	Loading       bool            `json:"loading"`
}

// EmptyInput is the input of tools that take no arguments.
type EmptyInput struct{}

// SectionInput sets one section.
type SectionInput struct {
	Key   string `json:"key" jsonschema:"section key, e.g. purpose or fiscal_impact"`
	Value string `json:"value" jsonschema:"the new section text"`
}

// PublishInput replaces report values.
type PublishInput struct {
	Sections map[string]string `json:"sections" jsonschema:"section values keyed by section key"`
}

// ConfigureInput changes the drafting controls. Unset fields are left alone.
type ConfigureInput struct {
	Instructions  string        `json:"instructions,omitempty" jsonschema:"system instructions for drafts"`
	Prompt        string        `json:"prompt,omitempty" jsonschema:"the draft request"`
	Sections      []string      `json:"sections,omitempty" jsonschema:"sections to draft, in order"`
	AllSections   bool          `json:"all_sections,omitempty" jsonschema:"select every section"`
	Model         string        `json:"model,omitempty" jsonschema:"completion model"`
	Temperature   *float64      `json:"temperature,omitempty" jsonschema:"sampling temperature"`
	VectorStoreID string        `json:"vector_store_id,omitempty" jsonschema:"hosted file-search store id"`
	Records       []RecordInput `json:"records,omitempty" jsonschema:"reference records to include as context"`
}

// ReviewOutput is the rendered review.
type ReviewOutput struct {
	Review string `json:"review"`
}

// RecordsInput lists records of a kind.
type RecordsInput struct {
	Kind string `json:"kind" jsonschema:"record kind: catalog, comms_plan or rezoning_submittal"`
}

// RecordOutput is one reference record.
type RecordOutput struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`
}

// RecordsOutput lists records of a kind.
type RecordsOutput struct {
	Kind    string         `json:"kind"`
	Records []RecordOutput `json:"records"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_report",
		Description: "Get the current staff report",
	}, s.handleGetReport)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "edit_section",
		Description: "Set one section of the staff report",
	}, s.handleEditSection)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "publish_report",
		Description: "Set several report sections at once",
	}, s.handlePublishReport)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "configure_draft",
		Description: "Change the drafting controls: prompt, sections, model, temperature and reference records",
	}, s.handleConfigureDraft)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_draft",
		Description: "Draft the selected sections. The result is a preview until applied",
	}, s.handleGenerateDraft)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "review_draft",
		Description: "Review the current report and return feedback",
	}, s.handleReviewDraft)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "edit_preview",
		Description: "Change one section of the pending preview",
	}, s.handleEditPreview)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "apply_preview",
		Description: "Merge the pending preview into the report",
	}, s.handleApplyPreview)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "dismiss_preview",
		Description: "Discard the pending preview and any review",
	}, s.handleDismissPreview)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_records",
		Description: "List reference records of a kind",
	}, s.handleListRecords)
}

func (s *Server) handleGetReport(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, ReportOutput, error) {
	return nil, s.reportOutput(), nil
}

func (s *Server) handleEditSection(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SectionInput,
) (*mcp.CallToolResult, ReportOutput, error) {
	if err := s.ports.Report.EditSection(input.Key, input.Value); err != nil {
		return nil, ReportOutput{}, err
	}
	return nil, s.reportOutput(), nil
}

func (s *Server) handlePublishReport(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input PublishInput,
) (*mcp.CallToolResult, ReportOutput, error) {
	doc := domain.DocumentFrom(input.Sections)
	for _, key := range doc.Keys() {
		if err := s.ports.Report.EditSection(key, doc.Get(key)); err != nil {
			return nil, ReportOutput{}, err
		}
	}
	return nil, s.reportOutput(), nil
}

func (s *Server) handleConfigureDraft(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ConfigureInput,
) (*mcp.CallToolResult, DraftStateOutput, error) {
	d := s.ports.Draft
	if input.Instructions != "" {
		d.SetInstructions(input.Instructions)
	}
	if input.Prompt != "" {
		d.SetPrompt(input.Prompt)
	}
	switch {
	case input.AllSections:
		d.SelectAllSections()
	case len(input.Sections) > 0:
		if err := d.SetSections(input.Sections); err != nil {
			return nil, DraftStateOutput{}, err
		}
	}
	if input.Model != "" {
		d.SetModel(input.Model)
	}
	if input.Temperature != nil {
		d.SetTemperature(*input.Temperature)
	}
	if input.VectorStoreID != "" {
		d.SetVectorStoreID(input.VectorStoreID)
	}
	for _, r := range input.Records {
		if err := d.SelectRecord(domain.RecordKind(r.Kind), r.ID); err != nil {
			return nil, DraftStateOutput{}, err
		}
	}
	return nil, draftStateOutput(d.State()), nil
}

func (s *Server) handleGenerateDraft(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, DraftStateOutput, error) {
	if err := s.ports.Draft.Generate(ctx); err != nil {
		return nil, DraftStateOutput{}, fmt.Errorf("draft failed: %s", domain.ErrorMessage(err))
	}
	return nil, draftStateOutput(s.ports.Draft.State()), nil
}

func (s *Server) handleReviewDraft(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, ReviewOutput, error) {
	if err := s.ports.Draft.Review(ctx); err != nil {
		return nil, ReviewOutput{}, fmt.Errorf("review failed: %s", domain.ErrorMessage(err))
	}
	return nil, ReviewOutput{Review: s.ports.Draft.State().ReviewOutput}, nil
}

func (s *Server) handleEditPreview(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SectionInput,
) (*mcp.CallToolResult, DraftStateOutput, error) {
	if err := s.ports.Draft.EditPreview(input.Key, input.Value); err != nil {
		return nil, DraftStateOutput{}, err
	}
	return nil, draftStateOutput(s.ports.Draft.State()), nil
}

func (s *Server) handleApplyPreview(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, ReportOutput, error) {
	if err := s.ports.Draft.Apply(); err != nil {
		return nil, ReportOutput{}, err
	}
	return nil, s.reportOutput(), nil
}

func (s *Server) handleDismissPreview(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, DraftStateOutput, error) {
	s.ports.Draft.Dismiss()
	return nil, draftStateOutput(s.ports.Draft.State()), nil
}

func (s *Server) handleListRecords(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RecordsInput,
) (*mcp.CallToolResult, RecordsOutput, error) {
	records, err := s.listRecords(ctx, domain.RecordKind(input.Kind))
	if err != nil {
		return nil, RecordsOutput{}, err
	}
	return nil, RecordsOutput{Kind: input.Kind, Records: records}, nil
}

func (s *Server) listRecords(ctx context.Context, kind domain.RecordKind) ([]RecordOutput, error) {
	if s.ports.Records == nil {
		return nil, ErrNoRecordService
	}
	records, err := s.ports.Records.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	out := make([]RecordOutput, len(records))
	for i, r := range records {
		out[i] = RecordOutput{ID: r.ID, Fields: r.Fields}
	}
	return out, nil
}

// reportOutput snapshots the content surface. The download link is only
// built when an endpoint is configured and the report is not empty.
func (s *Server) reportOutput() ReportOutput {
	doc := s.ports.Report.Report()
	out := ReportOutput{
		Sections:         sectionOutputs(s.ports.Report.Sections()),
		DownloadDisabled: s.ports.Report.DownloadDisabled(),
		Error:            s.ports.Report.Err(),
	}
	if extras := doc.Extras(); len(extras) > 0 {
		out.Extras = make(map[string]string, len(extras))
		for _, k := range extras {
			out.Extras[k] = doc.Get(k)
		}
	}
	if s.ports.ExportBaseURL != "" && !out.DownloadDisabled {
		if link, err := s.ports.Report.DownloadURL(s.ports.ExportBaseURL); err == nil {
			out.DownloadURL = link
		}
	}
	return out
}

func draftStateOutput(st driving.DraftState) DraftStateOutput {
	out := DraftStateOutput{
		Prompt:        st.Prompt,
		Sections:      st.Sections,
		Model:         st.Model,
		Temperature:   st.Temperature,
		VectorStoreID: st.VectorStoreID,
		Review:        st.ReviewOutput,
		Error:         st.Err,
		Loading:       st.Loading,
	}
	for _, r := range st.Records {
		out.Records = append(out.Records, RecordInput{Kind: r.Kind.String(), ID: r.ID})
	}
	if st.HasPreview() {
		out.Preview = sectionOutputs(st.Preview.Sections())
	}
	return out
}

func sectionOutputs(sections []domain.Section) []SectionOutput {
	out := make([]SectionOutput, len(sections))
	for i, sec := range sections {
		out[i] = SectionOutput{Key: sec.Key, Label: sec.Label, Value: sec.Value}
	}
	return out
}
