package controller

import (
	"context"
	"time"

	"github.com/padfav/padfav/internal/errors"
	"github.com/padfav/padfav/internal/favorite"
)

// OpenDetails opens the details popup for id. Any pending auto-save from a
// previously detailed record is cancelled, not committed; its field values
// belong to the old popup context. Returns false when the record cannot be
// read.
func (c *Controller) OpenDetails(ctx context.Context, id string) bool {
	rec, err := c.store.GetByID(ctx, id)
	if err != nil {
		c.log.Warn("details requested for unreadable favorite", "id", id, "error", err)
		if errors.Is(err, errors.ErrNotFound) {
			c.notifier.Warning(c.translate("favorites.notFound", "Favorite not found"))
		}
		return false
	}

	c.mu.Lock()
	c.stopDetailsTimerLocked()
	c.details = &detailsSession{id: rec.ID, title: rec.Title, desc: rec.Description}
	c.mu.Unlock()
	return true
}

// DetailsFieldChanged records the current popup field values and
// (re)schedules the debounced commit: each call resets the quiet window.
// No-op when no details popup is open.
func (c *Controller) DetailsFieldChanged(title, description string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := c.details
	if d == nil {
		return
	}
	d.title = title
	d.desc = description
	d.dirty = true

	id := d.id
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(c.autosaveDelay, func() {
		c.commitDetails(context.Background(), id)
	})
}

// CommitDetails flushes a pending details commit immediately. An explicit
// save action calls this instead of waiting out the quiet window.
func (c *Controller) CommitDetails(ctx context.Context) {
	c.mu.Lock()
	var id string
	if c.details != nil {
		id = c.details.id
	}
	c.mu.Unlock()

	if id != "" {
		c.commitDetails(ctx, id)
	}
}

// CloseDetails closes the popup and cancels any pending commit.
func (c *Controller) CloseDetails() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopDetailsTimerLocked()
	c.details = nil
}

// ApplyDetails commits a one-shot title/description edit without a popup
// session, for submit-style surfaces like the web form. The typed title
// goes through the same reference-preserving normalization as the popup
// path, unchanged values are not written, and the outcome comes back as
// an explicit error instead of a notification.
func (c *Controller) ApplyDetails(ctx context.Context, id, title, description string) (*favorite.Record, error) {
	rec, err := c.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newTitle := c.normalizeTitle(rec.Title, title)
	newDesc := favorite.LimitDescription(description)

	patch := favorite.Patch{}
	if newTitle != rec.Title {
		patch.Title = &newTitle
	}
	if newDesc != rec.Description {
		patch.Description = &newDesc
	}
	if patch.IsZero() {
		return rec, nil
	}

	updated, err := c.store.Update(ctx, rec.ID, patch)
	if err != nil {
		return nil, err
	}
	c.renderer.UpdateCard(updated.ID, *updated)
	return updated, nil
}

// commitDetails applies the pending popup values to the stored record.
// Only fields that actually changed are written; an unchanged pair is a
// no-op and does not bump lastModified.
func (c *Controller) commitDetails(ctx context.Context, id string) {
	c.mu.Lock()
	d := c.details
	if d == nil || d.id != id || !d.dirty {
		c.mu.Unlock()
		return
	}
	title, desc := d.title, d.desc
	d.dirty = false
	c.stopDetailsTimerLocked()
	c.mu.Unlock()

	rec, err := c.store.GetByID(ctx, id)
	if err != nil {
		c.log.Error("details commit failed to read favorite", "id", id, "error", err)
		c.notifyError("favorites.updateFailed", "Could not update favorite")
		return
	}

	newTitle := c.normalizeTitle(rec.Title, title)
	newDesc := favorite.LimitDescription(desc)

	patch := favorite.Patch{}
	if newTitle != rec.Title {
		patch.Title = &newTitle
	}
	if newDesc != rec.Description {
		patch.Description = &newDesc
	}
	if patch.IsZero() {
		return
	}

	updated, err := c.store.Update(ctx, id, patch)
	if err != nil {
		c.log.Error("details commit failed", "id", id, "error", err)
		c.notifyError("favorites.updateFailed", "Could not update favorite")
		return
	}
	c.renderer.UpdateCard(updated.ID, *updated)
}

// normalizeTitle decides what the typed title commits as. When the stored
// title is an i18n indirection and the typed text is just that indirection
// rendered (the key's current translation, the raw key, or for the default
// name any of its known translations), the indirection is kept so the
// title keeps following the active language.
func (c *Controller) normalizeTitle(stored, typed string) string {
	d := favorite.ParseDisplayText(stored)
	if d.IsRef() {
		key := d.Key()
		if typed == key || typed == c.translator.Translate(key) {
			return stored
		}
		if key == favorite.DefaultNameKey {
			for _, variant := range c.defaultNames {
				if typed == variant {
					return stored
				}
			}
		}
	}
	return favorite.LimitTitle(typed)
}
