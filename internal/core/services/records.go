package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/reportdraft/internal/core/domain"
	"github.com/custodia-labs/reportdraft/internal/core/ports/driven"
	"github.com/custodia-labs/reportdraft/internal/core/ports/driving"
)

// Ensure RecordService implements the interface.
var _ driving.RecordService = (*RecordService)(nil)

// invalidator is implemented by caching lookups.
type invalidator interface {
	Invalidate(ref domain.RecordRef)
}

// RecordService fronts the record store. When the lookup used for request
// context caches records, saves drop the stale entry.
type RecordService struct {
	store  driven.RecordStore
	lookup driven.RecordLookup
}

// NewRecordService creates a record service. lookup may be nil.
func NewRecordService(store driven.RecordStore, lookup driven.RecordLookup) *RecordService {
	return &RecordService{store: store, lookup: lookup}
}

// List returns every record of a kind, sorted by ID.
func (s *RecordService) List(ctx context.Context, kind domain.RecordKind) ([]domain.Record, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown record kind %q", domain.ErrInvalidInput, kind)
	}
	records, err := s.store.List(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("list %s records: %w", kind, err)
	}
	return records, nil
}

// Get returns one record.
func (s *RecordService) Get(ctx context.Context, ref domain.RecordRef) (*domain.Record, error) {
	if !ref.Kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown record kind %q", domain.ErrInvalidInput, ref.Kind)
	}
	return s.store.Lookup(ctx, ref)
}

// Save stores or replaces a record.
func (s *RecordService) Save(ctx context.Context, record domain.Record) error {
	if !record.Kind.IsValid() {
		return fmt.Errorf("%w: unknown record kind %q", domain.ErrInvalidInput, record.Kind)
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("%w: record id is required", domain.ErrInvalidInput)
	}
	if err := s.store.Save(ctx, record); err != nil {
		return fmt.Errorf("save %s %s: %w", record.Kind, record.ID, err)
	}
	if inv, ok := s.lookup.(invalidator); ok {
		inv.Invalidate(domain.RecordRef{Kind: record.Kind, ID: record.ID})
	}
	return nil
}
