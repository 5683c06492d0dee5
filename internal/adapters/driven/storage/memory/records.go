package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/reportdraft/internal/core/domain"
	"github.com/custodia-labs/reportdraft/internal/core/ports/driven"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore is an in-memory implementation of driven.RecordStore.
type RecordStore struct {
	mu      sync.RWMutex
	records map[domain.RecordRef]domain.Record
}

// NewRecordStore creates a new in-memory record store.
func NewRecordStore(records ...domain.Record) *RecordStore {
	s := &RecordStore{
		records: make(map[domain.RecordRef]domain.Record),
	}
	for _, r := range records {
		s.records[domain.RecordRef{Kind: r.Kind, ID: r.ID}] = copyRecord(r)
	}
	return s
}

// Lookup returns the record for ref.
func (s *RecordStore) Lookup(_ context.Context, ref domain.RecordRef) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[ref]
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", domain.ErrNotFound, ref.Kind, ref.ID)
	}
	out := copyRecord(r)
	return &out, nil
}

// Save stores or replaces a record.
func (s *RecordStore) Save(_ context.Context, record domain.Record) error {
	if !record.Kind.IsValid() || record.ID == "" {
		return fmt.Errorf("%w: record needs a known kind and an id", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[domain.RecordRef{Kind: record.Kind, ID: record.ID}] = copyRecord(record)
	return nil
}

// List returns every record of kind, sorted by ID.
func (s *RecordStore) List(_ context.Context, kind domain.RecordKind) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Record
	for ref, r := range s.records {
		if ref.Kind == kind {
			out = append(out, copyRecord(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func copyRecord(r domain.Record) domain.Record {
	fields := make(map[string]string, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = v
	}
	r.Fields = fields
	return r
}
