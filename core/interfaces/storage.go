// ABOUTME: Record store contract for persisting canonical plugin records
// ABOUTME: Key-value collection with secondary-index lookup, slug as primary key

package interfaces

import (
	"context"

	"plugindex-api/core/domain"
)

// Names of the secondary indexes every RecordStore implementation maintains.
// IndexRepoStars is not queried by the reconciliation core itself; it is a
// store-maintenance requirement inherited from the surrounding system.
const (
	IndexPackageID = "pkgindex_id"
	IndexRepoStars = "repo_stars"
)

// RecordStore defines the persistence contract for canonical plugin records.
// The store is the only shared mutable resource in the system; all methods
// must be safe for concurrent use, but read-then-write sequences built on top
// of them are not atomic (see the ingest service's documentation).
type RecordStore interface {
	// Get retrieves a record by slug. Returns a NotFoundError from
	// core/errors when no record exists.
	Get(ctx context.Context, slug string) (domain.Record, error)

	// GetAllByIndex returns every record whose indexed field equals value.
	GetAllByIndex(ctx context.Context, index string, value string) ([]domain.Record, error)

	// Insert stores a new record. Returns a DuplicateKeyError from
	// core/errors when the slug is already taken.
	Insert(ctx context.Context, record domain.Record) error

	// Upsert stores a record, replacing any existing record with the same slug.
	Upsert(ctx context.Context, record domain.Record) error

	// ScanAll returns every record in the store.
	ScanAll(ctx context.Context) ([]domain.Record, error)
}
