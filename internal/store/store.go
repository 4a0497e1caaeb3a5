// Package store implements the durable favorites collection: CRUD over
// records persisted as one JSON array under a single key-value backend
// key, fronted by a TTL cache. All mutation of the persisted collection
// is funneled through this package.
package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/padfav/padfav/internal/cache"
	"github.com/padfav/padfav/internal/errors"
	"github.com/padfav/padfav/internal/favorite"
	"github.com/padfav/padfav/internal/kv"
	"github.com/padfav/padfav/internal/logging"
)

// DefaultStorageKey is the backend key the collection is persisted under.
const DefaultStorageKey = "tabletFavorites"

// DefaultCacheTTL bounds how long a cached read stays valid.
const DefaultCacheTTL = 5 * time.Minute

// Store owns the persisted favorites collection.
type Store struct {
	backend kv.Backend
	key     string
	log     logging.Logger
	cache   *cache.Cache[[]favorite.Record]
	now     func() time.Time

	exportsDir       string
	allowedPaths     []string
	allowUnsafePaths bool

	// mu serializes every store operation so read-modify-write cycles
	// and cache maintenance stay atomic.
	mu sync.Mutex
}

// Options configures a Store.
type Options struct {
	Backend kv.Backend // required
	Key     string     // default: DefaultStorageKey
	Logger  logging.Logger
	TTL     time.Duration    // cache TTL, default: DefaultCacheTTL
	Now     func() time.Time // injectable clock for tests

	ExportsDir       string   // default location for export files
	AllowedPaths     []string // extra directories allowed for import/export
	AllowUnsafePaths bool     // skip directory restrictions (not symlink checks)
}

// New creates a Store over the given backend.
func New(opts Options) (*Store, error) {
	if opts.Backend == nil {
		return nil, errors.NewInvalidRequest("storage backend is required")
	}
	key := opts.Key
	if key == "" {
		key = DefaultStorageKey
	}
	log := opts.Logger
	if log == nil {
		log = logging.Noop()
	}
	ttl := opts.TTL
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Store{
		backend:          opts.Backend,
		key:              key,
		log:              log,
		cache:            cache.New[[]favorite.Record](ttl),
		now:              now,
		exportsDir:       opts.ExportsDir,
		allowedPaths:     opts.AllowedPaths,
		allowUnsafePaths: opts.AllowUnsafePaths,
	}, nil
}

// ClearCache forces the next read to bypass the TTL and re-read from the
// backend.
func (s *Store) ClearCache() {
	s.cache.Invalidate()
	s.log.Debug("favorites cache cleared")
}

// Close releases the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// load returns the current collection, reading through the cache.
// Caller must hold s.mu. The returned slice is the cached canonical
// form; callers hand out clones, never this slice.
func (s *Store) load(ctx context.Context) ([]favorite.Record, error) {
	if records, ok := s.cache.Get(); ok {
		return records, nil
	}

	value, ok, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return nil, errors.NewStorageUnavailable(err)
	}
	if !ok || strings.TrimSpace(value) == "" {
		empty := []favorite.Record{}
		s.cache.Set(empty)
		return empty, nil
	}

	records, repairs, err := favorite.DecodeCollection([]byte(value), s.now())
	if err != nil {
		// An unparseable payload reads as empty. The stored value is left
		// in place until the next mutation overwrites it, so nothing is
		// destroyed silently.
		s.log.Warn("stored favorites are not parseable, treating as empty", "err", err)
		empty := []favorite.Record{}
		s.cache.Set(empty)
		return empty, nil
	}

	if len(repairs) > 0 {
		s.log.Warn("repaired malformed favorites", "repairs", len(repairs))
		for _, note := range repairs {
			s.log.Debug("favorite repaired", "note", note)
		}
		if data, encErr := favorite.EncodeCollection(records); encErr == nil {
			if setErr := s.backend.Set(ctx, s.key, string(data)); setErr != nil {
				s.log.Warn("failed to persist repaired favorites", "err", setErr)
			}
		}
	}

	s.cache.Set(records)
	return records, nil
}

// persist encodes and writes the collection, then invalidates the cache
// so the next read observes the stored form. Caller must hold s.mu.
func (s *Store) persist(ctx context.Context, records []favorite.Record) error {
	data, err := favorite.EncodeCollection(records)
	if err != nil {
		return errors.NewInternal(err)
	}
	if err := s.backend.Set(ctx, s.key, string(data)); err != nil {
		return errors.NewStorageUnavailable(err)
	}
	s.cache.Invalidate()
	return nil
}

func (s *Store) nowMillis() int64 {
	return s.now().UnixMilli()
}
