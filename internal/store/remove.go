package store

import (
	"context"

	"github.com/padfav/padfav/internal/favorite"
)

// Remove filters the id out of the collection and persists the
// remainder. Removing an absent id still persists and succeeds, so
// delete is idempotent.
func (s *Store) Remove(ctx context.Context, id string) error {
	canonical := favorite.CanonicalID(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return err
	}

	remaining := make([]favorite.Record, 0, len(records))
	removed := 0
	for i := range records {
		if canonical != "" && favorite.CanonicalID(records[i].ID) == canonical {
			removed++
			continue
		}
		remaining = append(remaining, records[i].Clone())
	}

	if err := s.persist(ctx, remaining); err != nil {
		return err
	}

	if removed > 0 {
		s.log.Info("favorite removed", "id", id)
	} else {
		s.log.Debug("remove of absent favorite", "id", id)
	}
	return nil
}
