// ABOUTME: In-memory record store implementation guarded by a RWMutex
// ABOUTME: Default backend for tests and single-process deployments

package memory

import (
	"context"
	"sync"

	"plugindex-api/core/domain"
	"plugindex-api/core/errors"
	"plugindex-api/core/interfaces"
)

// Store implements the RecordStore interface in process memory. Records are
// cloned on the way in and out so callers can never alias stored state.
type Store struct {
	mu      sync.RWMutex
	records map[string]domain.Record
}

// NewStore creates an empty in-memory record store.
func NewStore() *Store {
	return &Store{records: map[string]domain.Record{}}
}

// Get retrieves a record by slug.
func (s *Store) Get(ctx context.Context, slug string) (domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[slug]
	if !ok {
		return nil, &errors.NotFoundError{Resource: "plugin", ID: slug}
	}
	return rec.Clone(), nil
}

// GetAllByIndex returns every record whose indexed field equals value.
// The in-memory backend answers index lookups with a linear scan; it exists
// for tests and small corpora where that is cheaper than bookkeeping.
func (s *Store) GetAllByIndex(ctx context.Context, index, value string) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Record
	for _, rec := range s.records {
		if domain.StringField(rec, index) == value {
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}

// Insert stores a new record, failing on a slug collision.
func (s *Store) Insert(ctx context.Context, record domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	slug := domain.StringField(record, domain.FieldSlug)
	if slug == "" {
		return &errors.InvalidInputError{Field: "slug", Message: "record has no slug"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[slug]; ok {
		return &errors.DuplicateKeyError{Key: slug}
	}
	s.records[slug] = record.Clone()
	return nil
}

// Upsert stores a record, replacing any existing record under the same slug.
func (s *Store) Upsert(ctx context.Context, record domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	slug := domain.StringField(record, domain.FieldSlug)
	if slug == "" {
		return &errors.InvalidInputError{Field: "slug", Message: "record has no slug"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[slug] = record.Clone()
	return nil
}

// ScanAll returns every stored record.
func (s *Store) ScanAll(ctx context.Context) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Clone())
	}
	return out, nil
}

var _ interfaces.RecordStore = (*Store)(nil)
