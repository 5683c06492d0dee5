package driving

import (
	"context"

	"github.com/custodia-labs/reportdraft/internal/core/domain"
)

// RecordService browses and maintains reference records.
type RecordService interface {
	// List returns every record of a kind, sorted by ID.
	List(ctx context.Context, kind domain.RecordKind) ([]domain.Record, error)

	// Get returns one record.
	// Returns domain.ErrNotFound if no such record exists.
	Get(ctx context.Context, ref domain.RecordRef) (*domain.Record, error)

	// Save stores or replaces a record. Later lookups see the new fields.
	Save(ctx context.Context, record domain.Record) error
}
