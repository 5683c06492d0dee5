package driven

import "github.com/custodia-labs/reportdraft/internal/core/domain"

// ReportExporter builds the link that renders a report for download.
type ReportExporter interface {
	// DownloadURL returns base with every report key attached as a query parameter.
	DownloadURL(base string, doc domain.Document) (string, error)
}
