// ABOUTME: SQLite-backed record store persisting plugin documents as JSON rows
// ABOUTME: File-based backend with indexed lookup columns for both secondary indexes

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"

	sqlite3 "github.com/mattn/go-sqlite3"

	"plugindex-api/core/domain"
	"plugindex-api/core/errors"
	"plugindex-api/core/interfaces"
)

// Store implements the RecordStore interface on SQLite. The full document is
// stored as a JSON column; the two indexed fields are mirrored into their own
// columns so lookups stay cheap without parsing every row.
type Store struct {
	db       *sql.DB
	filePath string
}

// NewStore opens (creating if necessary) the database at filePath.
func NewStore(filePath string) (*Store, error) {
	if filePath == "" {
		filePath = "plugins.db"
	}

	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, errors.WrapError(err, "failed to open SQLite database")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.WrapError(err, "failed to connect to SQLite database")
	}

	store := &Store{db: db, filePath: filePath}
	if err := store.initSchema(); err != nil {
		return nil, errors.WrapError(err, "failed to initialize schema")
	}
	return store, nil
}

// initSchema creates the plugins table and its indexes if they don't exist
func (s *Store) initSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS plugins (
			slug TEXT PRIMARY KEY,
			pkgindex_id TEXT,
			repo_stars INTEGER NOT NULL DEFAULT 0,
			data TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_plugins_pkgindex_id ON plugins(pkgindex_id);
		CREATE INDEX IF NOT EXISTS idx_plugins_repo_stars ON plugins(repo_stars);
	`
	_, err := s.db.Exec(query)
	return err
}

// Get retrieves a record by slug.
func (s *Store) Get(ctx context.Context, slug string) (domain.Record, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM plugins WHERE slug = ?", slug).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, &errors.NotFoundError{Resource: "plugin", ID: slug}
	}
	if err != nil {
		return nil, errors.WrapError(err, "failed to get record")
	}
	return decode(data)
}

// GetAllByIndex returns every record whose indexed column equals value.
func (s *Store) GetAllByIndex(ctx context.Context, index, value string) ([]domain.Record, error) {
	var query string
	switch index {
	case interfaces.IndexPackageID:
		query = "SELECT data FROM plugins WHERE pkgindex_id = ?"
	case interfaces.IndexRepoStars:
		query = "SELECT data FROM plugins WHERE repo_stars = CAST(? AS INTEGER)"
	default:
		return nil, &errors.InvalidInputError{Field: "index", Message: "unknown index " + index}
	}

	rows, err := s.db.QueryContext(ctx, query, value)
	if err != nil {
		return nil, errors.WrapError(err, "index lookup failed")
	}
	defer rows.Close()

	return collect(rows)
}

// Insert stores a new record, failing when the slug already exists.
func (s *Store) Insert(ctx context.Context, record domain.Record) error {
	slug, id, stars, data, err := encode(record)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO plugins (slug, pkgindex_id, repo_stars, data) VALUES (?, ?, ?, ?)",
		slug, id, stars, data)
	if err != nil {
		var sqliteErr sqlite3.Error
		if stderrors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return &errors.DuplicateKeyError{Key: slug}
		}
		return errors.WrapError(err, "insert failed")
	}
	return nil
}

// Upsert stores a record, replacing any existing row under the same slug.
func (s *Store) Upsert(ctx context.Context, record domain.Record) error {
	slug, id, stars, data, err := encode(record)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO plugins (slug, pkgindex_id, repo_stars, data) VALUES (?, ?, ?, ?)",
		slug, id, stars, data)
	if err != nil {
		return errors.WrapError(err, "upsert failed")
	}
	return nil
}

// ScanAll returns every record in the store.
func (s *Store) ScanAll(ctx context.Context) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT data FROM plugins")
	if err != nil {
		return nil, errors.WrapError(err, "scan failed")
	}
	defer rows.Close()

	return collect(rows)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// encode pulls the keyed columns out of the record and serializes the body.
// The pkgindex_id column stays NULL when the field is absent so unset ids
// never collide in the index.
func encode(record domain.Record) (slug string, id any, stars int64, data []byte, err error) {
	slug = domain.StringField(record, domain.FieldSlug)
	if slug == "" {
		return "", nil, 0, nil, &errors.InvalidInputError{Field: "slug", Message: "record has no slug"}
	}

	if v := domain.StringField(record, domain.FieldIndexID); v != "" {
		id = v
	}
	stars = domain.Int64Field(record, domain.FieldRepoStars)

	data, err = json.Marshal(record)
	if err != nil {
		return "", nil, 0, nil, errors.WrapError(err, "record serialization failed")
	}
	return slug, id, stars, data, nil
}

func decode(data []byte) (domain.Record, error) {
	var record domain.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.WrapError(err, "stored record is not valid JSON")
	}
	return record, nil
}

func collect(rows *sql.Rows) ([]domain.Record, error) {
	var records []domain.Record
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, errors.WrapError(err, "row scan failed")
		}
		record, err := decode(data)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapError(err, "row iteration failed")
	}
	return records, nil
}

var _ interfaces.RecordStore = (*Store)(nil)
