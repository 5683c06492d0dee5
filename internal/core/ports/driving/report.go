package driving

import "github.com/custodia-labs/reportdraft/internal/core/domain"

// ReportService is the content surface: it shows the report and lets the
// user edit one section at a time.
type ReportService interface {
	// Attach subscribes to report snapshots.
	Attach() error

	// Detach drops the subscription. Safe to call more than once.
	Detach()

	// EditSection sets one value and publishes the full report.
	EditSection(key, value string) error

	// Report returns a copy of the current report.
	Report() domain.Document

	// Sections returns the labelled standard sections.
	Sections() []domain.Section

	// DownloadDisabled returns true while the report is empty.
	DownloadDisabled() bool

	// DownloadURL builds the export link for the report.
	DownloadURL(base string) (string, error)

	// Err returns the visible error text, empty when none.
	Err() string
}
