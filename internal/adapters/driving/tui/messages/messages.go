// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/reportdraft/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewWorkspace is the split report and controls view.
	ViewWorkspace
	// ViewRecords is the reference record picker.
	ViewRecords
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewWorkspace:
		return "workspace"
	case ViewRecords:
		return "records"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Pane identifies one half of the workspace.
type Pane int

const (
	// PaneReport is the content surface.
	PaneReport Pane = iota
	// PaneControls is the draft controls surface.
	PaneControls
)

// String returns the string representation of the pane.
func (p Pane) String() string {
	switch p {
	case PaneReport:
		return "report"
	case PaneControls:
		return "controls"
	default:
		return "unknown"
	}
}

// DraftAction names a completion request started from the controls.
type DraftAction string

// Completion requests.
const (
	ActionGenerate DraftAction = "generate"
	ActionReview   DraftAction = "review"
)

// DraftStarted is sent when a completion request leaves the controls.
type DraftStarted struct {
	Action DraftAction
}

// DraftCompleted carries the outcome of a completion request. The result
// itself lives in the draft service; only the error travels here.
type DraftCompleted struct {
	Action DraftAction
	Err    error
}

// PreviewApplied signals the preview was merged into the report.
type PreviewApplied struct {
	Err error
}

// SectionEdited signals a report section was changed from the report pane.
type SectionEdited struct {
	Key string
	Err error
}

// RecordsLoaded carries the records of one kind.
type RecordsLoaded struct {
	Kind    domain.RecordKind
	Records []domain.Record
	Err     error
}

// RecordSelected signals a reference record was picked for drafting.
type RecordSelected struct {
	Ref domain.RecordRef
	Err error
}

// DownloadLinkReady carries the export link for the report.
type DownloadLinkReady struct {
	URL string
	Err error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
