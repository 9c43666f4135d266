// ABOUTME: Redis-backed record store using ReJSON documents per plugin
// ABOUTME: Maintains the pkgindex_id set index and the repo_stars sorted set

package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nitishm/go-rejson/v4"
	goredis "github.com/redis/go-redis/v9"

	"plugindex-api/core/domain"
	"plugindex-api/core/errors"
	"plugindex-api/core/interfaces"
	"plugindex-api/pkg/config"
)

const (
	recordKeyPrefix = "plugin:"
	allSlugsKey     = "plugins"
	packageIDPrefix = "idx:pkgindex_id:"
	repoStarsKey    = "idx:repo_stars"
)

// Store implements the RecordStore interface on Redis. Each record lives as
// one ReJSON document under plugin:<slug>; the slug catalog and both
// secondary indexes are kept in step with every write.
type Store struct {
	client  *goredis.Client
	handler *rejson.Handler
}

// NewStore connects to Redis and verifies the connection.
func NewStore(cfg config.RedisConfig) (*Store, error) {
	if cfg.Address == "" {
		return nil, &errors.InvalidInputError{Field: "address", Message: "redis address cannot be empty"}
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.WrapError(err, "redis connection failed")
	}

	handler := rejson.NewReJSONHandler()
	handler.SetGoRedisClient(client)

	return &Store{client: client, handler: handler}, nil
}

// Get retrieves a record by slug.
func (s *Store) Get(ctx context.Context, slug string) (domain.Record, error) {
	val, err := s.handler.JSONGet(recordKeyPrefix+slug, ".")
	if err != nil {
		if err == goredis.Nil {
			return nil, &errors.NotFoundError{Resource: "plugin", ID: slug}
		}
		return nil, errors.WrapError(err, "redis read failed")
	}
	data, ok := val.([]byte)
	if !ok || data == nil {
		return nil, &errors.NotFoundError{Resource: "plugin", ID: slug}
	}

	var record domain.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.WrapError(err, "stored record is not valid JSON")
	}
	return record, nil
}

// GetAllByIndex answers secondary-index lookups for the two maintained
// indexes: pkgindex_id (set per value) and repo_stars (score lookup in the
// sorted set).
func (s *Store) GetAllByIndex(ctx context.Context, index, value string) ([]domain.Record, error) {
	var slugs []string
	var err error

	switch index {
	case interfaces.IndexPackageID:
		slugs, err = s.client.SMembers(ctx, packageIDPrefix+value).Result()
	case interfaces.IndexRepoStars:
		slugs, err = s.client.ZRangeByScore(ctx, repoStarsKey, &goredis.ZRangeBy{
			Min: value,
			Max: value,
		}).Result()
	default:
		return nil, &errors.InvalidInputError{Field: "index", Message: "unknown index " + index}
	}
	if err != nil {
		return nil, errors.WrapError(err, "index lookup failed")
	}

	return s.getAll(ctx, slugs)
}

// Insert stores a new record, failing when the slug already exists.
func (s *Store) Insert(ctx context.Context, record domain.Record) error {
	slug := domain.StringField(record, domain.FieldSlug)
	if slug == "" {
		return &errors.InvalidInputError{Field: "slug", Message: "record has no slug"}
	}

	exists, err := s.client.Exists(ctx, recordKeyPrefix+slug).Result()
	if err != nil {
		return errors.WrapError(err, "existence check failed")
	}
	if exists > 0 {
		return &errors.DuplicateKeyError{Key: slug}
	}

	return s.write(ctx, slug, record, nil)
}

// Upsert stores a record, replacing any previous version and migrating its
// index entries when the indexed fields changed.
func (s *Store) Upsert(ctx context.Context, record domain.Record) error {
	slug := domain.StringField(record, domain.FieldSlug)
	if slug == "" {
		return &errors.InvalidInputError{Field: "slug", Message: "record has no slug"}
	}

	previous, err := s.Get(ctx, slug)
	if err != nil && !errors.IsNotFound(err) {
		return err
	}

	return s.write(ctx, slug, record, previous)
}

// ScanAll returns every record in the store.
func (s *Store) ScanAll(ctx context.Context) ([]domain.Record, error) {
	slugs, err := s.client.SMembers(ctx, allSlugsKey).Result()
	if err != nil {
		return nil, errors.WrapError(err, "slug catalog read failed")
	}
	return s.getAll(ctx, slugs)
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) getAll(ctx context.Context, slugs []string) ([]domain.Record, error) {
	records := make([]domain.Record, 0, len(slugs))
	for _, slug := range slugs {
		rec, err := s.Get(ctx, slug)
		if err != nil {
			if errors.IsNotFound(err) {
				// Index entry outlived its record; skip rather than fail the read.
				continue
			}
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// write persists the document and brings the slug catalog and both secondary
// indexes in line. previous, when non-nil, is the record being replaced.
func (s *Store) write(ctx context.Context, slug string, record, previous domain.Record) error {
	if _, err := s.handler.JSONSet(recordKeyPrefix+slug, ".", map[string]any(record)); err != nil {
		return errors.WrapError(err, "redis write failed")
	}

	if err := s.client.SAdd(ctx, allSlugsKey, slug).Err(); err != nil {
		return errors.WrapError(err, "slug catalog update failed")
	}

	oldID := domain.StringField(previous, domain.FieldIndexID)
	newID := domain.StringField(record, domain.FieldIndexID)
	if oldID != "" && oldID != newID {
		if err := s.client.SRem(ctx, packageIDPrefix+oldID, slug).Err(); err != nil {
			return errors.WrapError(err, "stale index entry removal failed")
		}
	}
	if newID != "" {
		if err := s.client.SAdd(ctx, packageIDPrefix+newID, slug).Err(); err != nil {
			return errors.WrapError(err, "package-index id index update failed")
		}
	}

	stars := domain.Int64Field(record, domain.FieldRepoStars)
	if err := s.client.ZAdd(ctx, repoStarsKey, goredis.Z{
		Score:  float64(stars),
		Member: slug,
	}).Err(); err != nil {
		return errors.WrapError(err, "star index update failed")
	}

	return nil
}

var _ interfaces.RecordStore = (*Store)(nil)
