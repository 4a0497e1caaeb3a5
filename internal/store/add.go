package store

import (
	"context"
	"math"

	"github.com/padfav/padfav/internal/errors"
	"github.com/padfav/padfav/internal/favorite"
	"github.com/padfav/padfav/internal/geometry"
)

// AddInput contains the fields for a new favorite. Width and Height are
// required in spirit: an absent or invalid value is defaulted to 0 and
// logged, never rejected.
type AddInput struct {
	Width  *float64
	Height *float64

	X       *float64
	Y       *float64
	Ratio   *float64
	Radius  int
	TabletW *float64
	TabletH *float64

	PresetInfo  string
	Title       string
	Description string
}

// Add appends a new favorite with a generated id and current timestamps,
// persists the collection, and returns the stored record.
func (s *Store) Add(ctx context.Context, input AddInput) (*favorite.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	millis := now.UnixMilli()
	rec := favorite.Record{
		ID:           favorite.NewID(now),
		Width:        s.dimension(input.Width, "width"),
		Height:       s.dimension(input.Height, "height"),
		X:            input.X,
		Y:            input.Y,
		Ratio:        input.Ratio,
		Radius:       geometry.ClampInt(input.Radius, 0, 100),
		TabletW:      input.TabletW,
		TabletH:      input.TabletH,
		PresetInfo:   input.PresetInfo,
		Title:        favorite.LimitTitle(input.Title),
		Description:  favorite.LimitDescription(input.Description),
		CreatedAt:    millis,
		LastModified: millis,
	}

	updated := append(favorite.CloneAll(records), rec)
	if err := s.persist(ctx, updated); err != nil {
		return nil, err
	}

	s.log.Info("favorite added", "id", rec.ID)
	stored := rec.Clone()
	return &stored, nil
}

// dimension validates a required area dimension, defaulting missing or
// invalid values to 0.
func (s *Store) dimension(v *float64, field string) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		s.log.Warn("favorite input defaulted",
			"err", errors.NewValidationFailure(field, "missing or not a number, defaulted to 0"))
		return 0
	}
	if *v < 0 {
		s.log.Warn("favorite input defaulted",
			"err", errors.NewValidationFailure(field, "negative, defaulted to 0"))
		return 0
	}
	return *v
}
