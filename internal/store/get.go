package store

import (
	"context"

	"github.com/padfav/padfav/internal/errors"
	"github.com/padfav/padfav/internal/favorite"
)

// GetAll returns the full collection. Backend failures degrade to an
// empty list with a logged diagnostic; read paths never surface errors.
func (s *Store) GetAll(ctx context.Context) []favorite.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		s.log.Error("failed to load favorites", "err", err)
		return []favorite.Record{}
	}
	return favorite.CloneAll(records)
}

// GetByID returns the favorite with the given id. Ids are compared in
// canonical form, so numeric and string spellings of the same id match.
func (s *Store) GetByID(ctx context.Context, id string) (*favorite.Record, error) {
	canonical := favorite.CanonicalID(id)
	if canonical == "" {
		return nil, errors.NewNotFound(id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if favorite.CanonicalID(records[i].ID) == canonical {
			rec := records[i].Clone()
			return &rec, nil
		}
	}
	return nil, errors.NewNotFound(id)
}

// Exists reports whether a favorite with the given id is stored.
// Like GetAll, backend failures degrade to false.
func (s *Store) Exists(ctx context.Context, id string) bool {
	canonical := favorite.CanonicalID(id)
	if canonical == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		s.log.Error("failed to load favorites", "err", err)
		return false
	}
	for i := range records {
		if favorite.CanonicalID(records[i].ID) == canonical {
			return true
		}
	}
	return false
}

// Count returns the number of stored favorites, 0 on backend failure.
func (s *Store) Count(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		s.log.Error("failed to load favorites", "err", err)
		return 0
	}
	return len(records)
}
