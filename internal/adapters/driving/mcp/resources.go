package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/reportdraft/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for report resources.
	uriScheme = "reportdraft://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "report",
		Name:        "report",
		Description: "The current staff report as a JSON object of sections",
		MIMEType:    "application/json",
	}, s.handleReportResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "report/sections/{key}",
		Name:        "report-section",
		Description: "Text of one report section",
		MIMEType:    "text/plain",
	}, s.handleSectionResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "records/{kind}",
		Name:        "records",
		Description: "Reference records of one kind",
		MIMEType:    "application/json",
	}, s.handleRecordsResource)
}

// handleReportResource returns the whole report.
func (s *Server) handleReportResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(s.ports.Report.Report(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling report: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleSectionResource returns one section's text. Unknown keys are not found;
// known keys that were never set read as "".
func (s *Server) handleSectionResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	key := extractSuffix(req.Params.URI, uriScheme+"report/sections/")
	doc := s.ports.Report.Report()
	if key == "" || (!domain.IsKnownSection(key) && !doc.Has(key)) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     doc.Get(key),
		}},
	}, nil
}

// handleRecordsResource returns the records of a kind.
func (s *Server) handleRecordsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	kind := domain.RecordKind(extractSuffix(req.Params.URI, uriScheme+"records/"))
	if s.ports.Records == nil || !kind.IsValid() {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	records, err := s.listRecords(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling records: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSuffix returns the single path segment after prefix, or "".
func extractSuffix(uri, prefix string) string {
	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	rest := strings.TrimPrefix(uri, prefix)
	if strings.Contains(rest, "/") {
		return ""
	}
	return rest
}
