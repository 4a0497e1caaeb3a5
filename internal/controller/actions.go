package controller

import (
	"context"

	"github.com/padfav/padfav/internal/errors"
	"github.com/padfav/padfav/internal/favorite"
)

// DeleteFavorite routes the delete through the confirmation dialog and
// removes the record on confirm. A session or details popup targeting the
// deleted record is dropped with it.
func (c *Controller) DeleteFavorite(ctx context.Context, id string) {
	c.dialogs.ShowDeleteDialog(func(confirmed bool) {
		if !confirmed {
			return
		}

		if err := c.store.Remove(ctx, id); err != nil {
			c.log.Error("favorite delete failed", "id", id, "error", err)
			c.notifyError("favorites.deleteFailed", "Could not delete favorite")
			return
		}

		canonical := favorite.CanonicalID(id)
		c.mu.Lock()
		if c.session != nil && favorite.CanonicalID(c.session.id) == canonical {
			c.session = nil
		}
		if c.details != nil && favorite.CanonicalID(c.details.id) == canonical {
			c.stopDetailsTimerLocked()
			c.details = nil
		}
		c.mu.Unlock()

		c.notifier.Success(c.translate("favorites.deleted", "Favorite deleted"))
		c.Refresh(ctx)
	})
}

// LoadFavorite pushes a stored favorite's geometry into the form, clamping
// the offsets into tablet bounds, and highlights its card. The edit
// session is untouched; loading is not editing.
func (c *Controller) LoadFavorite(ctx context.Context, id string) bool {
	rec, err := c.store.GetByID(ctx, id)
	if err != nil {
		c.log.Warn("load requested for unreadable favorite", "id", id, "error", err)
		if errors.Is(err, errors.ErrNotFound) {
			c.notifier.Warning(c.translate("favorites.notFound", "Favorite not found"))
		} else {
			c.notifyError("favorites.loadFailed", "Could not load favorites")
		}
		return false
	}

	c.form.SetValues(clampOffsets(rec.ToFormValues()))
	c.renderer.Highlight(rec.ID, true)
	c.notifier.Info(c.translate("favorites.loaded", "Favorite loaded"))
	return true
}

// Refresh re-reads the collection, sorts it by the current criterion, and
// hands the result to the renderer.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	criterion := c.criterion
	c.mu.Unlock()

	sorted := favorite.Sort(c.store.GetAll(ctx), criterion)
	order := make([]string, len(sorted))
	for i, r := range sorted {
		order[i] = r.ID
	}
	c.renderer.Render(sorted, order)
}

// SetSortCriterion switches the ordering and re-renders. Unrecognized
// criteria fall back to the default.
func (c *Controller) SetSortCriterion(ctx context.Context, criterion favorite.Criterion) {
	if !criterion.IsValid() {
		criterion = favorite.DefaultCriterion
	}
	c.mu.Lock()
	c.criterion = criterion
	c.mu.Unlock()
	c.Refresh(ctx)
}

// SortCriterion returns the active ordering.
func (c *Controller) SortCriterion() favorite.Criterion {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criterion
}
