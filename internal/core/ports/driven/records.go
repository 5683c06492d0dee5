package driven

import (
	"context"

	"github.com/custodia-labs/reportdraft/internal/core/domain"
)

// RecordLookup resolves reference records used as request context.
type RecordLookup interface {
	// Lookup returns the record for ref.
	// Returns domain.ErrNotFound if no such record exists.
	Lookup(ctx context.Context, ref domain.RecordRef) (*domain.Record, error)
}

// RecordStore is a RecordLookup that can also be written to.
type RecordStore interface {
	RecordLookup

	// Save stores or replaces a record.
	Save(ctx context.Context, record domain.Record) error

	// List returns every record of the given kind, sorted by ID.
	List(ctx context.Context, kind domain.RecordKind) ([]domain.Record, error)
}
