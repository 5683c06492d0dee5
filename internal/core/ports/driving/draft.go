package driving

import (
	"context"

	"github.com/custodia-labs/reportdraft/internal/core/domain"
)

// DraftService is the controls surface: it drafts and reviews the report
// through the completion service and keeps its own copy of the report in
// step with the content surface.
type DraftService interface {
	// Attach subscribes to report snapshots.
	Attach() error

	// Detach drops the subscription. Safe to call more than once.
	Detach()

	// Generate asks the completion service for section drafts and stores
	// the result as the preview. The report itself is not changed.
	Generate(ctx context.Context) error

	// Review asks the completion service to critique the report.
	// The reply is rendered as markup and replaces any preview.
	Review(ctx context.Context) error

	// EditPreview changes one value of the pending preview.
	EditPreview(key, value string) error

	// Apply merges the preview into the report and publishes the result.
	Apply() error

	// Dismiss discards the preview and any review output.
	Dismiss()

	// SetInstructions replaces the system text sent with drafts.
	SetInstructions(text string)

	// SetPrompt replaces the draft request text.
	SetPrompt(text string)

	// SetSections replaces the section selection. Unknown keys are rejected.
	SetSections(keys []string) error

	// SelectAllSections selects every section in display order.
	SelectAllSections()

	// SetVectorStoreID sets the hosted file-search store.
	SetVectorStoreID(id string)

	// SetModel sets the completion model.
	SetModel(model string)

	// SetTemperature sets the sampling temperature.
	SetTemperature(t float64)

	// SelectRecord picks the reference record of a kind. An empty id clears it.
	SelectRecord(kind domain.RecordKind, id string) error

	// State returns a snapshot of the controls surface.
	State() DraftState
}

// DraftState is a read-only snapshot of the controls surface.
type DraftState struct {
	// Report is the controls surface's copy of the report.
	Report domain.Document

	// Instructions is the system text for drafts.
	Instructions string

	// Prompt is the draft request text.
	Prompt string

	// Sections is the current selection, in selection order.
	Sections []string

	// VectorStoreID is the hosted file-search store, if any.
	VectorStoreID string

	// Model is the completion model.
	Model string

	// Temperature is the sampling temperature.
	Temperature float64

	// Records holds the selected record per kind.
	Records []domain.RecordRef

	// Preview is the pending patch, nil when none.
	Preview domain.Patch

	// ReviewOutput is the rendered review markup, empty when none.
	ReviewOutput string

	// Err is the visible error text, empty when none.
	Err string

	// Loading is true while a completion is in flight.
	Loading bool

	// SettingsVisible is false while a request runs or a result is shown.
	SettingsVisible bool
}

// HasPreview returns true when a patch is waiting to be applied.
func (s DraftState) HasPreview() bool {
	return s.Preview != nil
}
