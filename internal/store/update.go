package store

import (
	"context"

	"github.com/padfav/padfav/internal/errors"
	"github.com/padfav/padfav/internal/favorite"
	"github.com/padfav/padfav/internal/geometry"
)

// Update merges the set fields of patch into the favorite with the given
// id, refreshes lastModified, and persists. Returns the updated record.
func (s *Store) Update(ctx context.Context, id string, patch favorite.Patch) (*favorite.Record, error) {
	if patch.IsZero() {
		return nil, errors.NewInvalidRequest("at least one field must be provided")
	}
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

	idx := -1
	for i := range records {
		if favorite.CanonicalID(records[i].ID) == canonical {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, errors.NewNotFound(id)
	}

	updated := favorite.CloneAll(records)
	rec := &updated[idx]
	rec.Apply(sanitizePatch(patch))

	rec.LastModified = s.nowMillis()
	if rec.LastModified < rec.CreatedAt {
		rec.LastModified = rec.CreatedAt
	}

	if err := s.persist(ctx, updated); err != nil {
		return nil, err
	}

	s.log.Info("favorite updated", "id", rec.ID)
	stored := rec.Clone()
	return &stored, nil
}

// sanitizePatch clamps and truncates patch fields to the record
// invariants before they are applied.
func sanitizePatch(p favorite.Patch) favorite.Patch {
	if p.Width != nil && *p.Width < 0 {
		zero := 0.0
		p.Width = &zero
	}
	if p.Height != nil && *p.Height < 0 {
		zero := 0.0
		p.Height = &zero
	}
	if p.Radius != nil {
		clamped := geometry.ClampInt(*p.Radius, 0, 100)
		p.Radius = &clamped
	}
	if p.Title != nil {
		limited := favorite.LimitTitle(*p.Title)
		p.Title = &limited
	}
	if p.Description != nil {
		limited := favorite.LimitDescription(*p.Description)
		p.Description = &limited
	}
	return p
}
