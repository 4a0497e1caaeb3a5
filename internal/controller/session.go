package controller

import (
	"context"

	"github.com/padfav/padfav/internal/errors"
	"github.com/padfav/padfav/internal/favorite"
	"github.com/padfav/padfav/internal/store"
)

// EditFavorite starts an edit session for id: the stored record's editable
// fields are captured as the restore snapshot and pushed into the form.
// A pending details auto-save is cancelled so it cannot commit against the
// new session. Returns false when the record cannot be read.
func (c *Controller) EditFavorite(ctx context.Context, id string) bool {
	rec, err := c.store.GetByID(ctx, id)
	if err != nil {
		c.log.Warn("edit requested for unreadable favorite", "id", id, "error", err)
		if errors.Is(err, errors.ErrNotFound) {
			c.notifier.Warning(c.translate("favorites.notFound", "Favorite not found"))
		} else {
			c.notifyError("favorites.loadFailed", "Could not load favorites")
		}
		return false
	}

	c.mu.Lock()
	c.stopDetailsTimerLocked()
	if c.details != nil {
		c.details.dirty = false
	}
	c.session = &editSession{id: rec.ID, original: rec.ToSnapshot()}
	c.mu.Unlock()

	c.form.SetValues(rec.ToFormValues())
	return true
}

// SaveFavorite persists the form. With an active edit session it updates
// the edited record's geometry, tablet, and preset fields; title and
// description are left as they were, they change only through the details
// path. Without a session it collects title and description through the
// comment dialog and adds a new favorite.
func (c *Controller) SaveFavorite(ctx context.Context) {
	c.mu.Lock()
	session := c.session
	c.session = nil
	c.mu.Unlock()

	if session != nil {
		c.saveSession(ctx, session)
		return
	}
	c.addViaDialog(ctx)
}

func (c *Controller) saveSession(ctx context.Context, session *editSession) {
	values := mergeFormOverSnapshot(c.form.Values(), session.original.FormValues)
	values = clampOffsets(values)

	updated, err := c.store.Update(ctx, session.id, updatePatch(values))
	if err != nil {
		c.log.Error("favorite update failed", "id", session.id, "error", err)
		c.notifyError("favorites.updateFailed", "Could not update favorite")
		return
	}

	c.form.SetValues(values)
	c.renderer.UpdateCard(updated.ID, *updated)
	c.notifier.Success(c.translate("favorites.updated", "Favorite updated"))
}

func (c *Controller) addViaDialog(ctx context.Context) {
	c.dialogs.ShowCommentDialog(func(title, description string, ok bool) {
		if !ok {
			return
		}
		c.confirmAdd(ctx, title, description)
	})
}

func (c *Controller) confirmAdd(ctx context.Context, title, description string) {
	title = favorite.LimitTitle(title)
	if title == "" {
		title = favorite.DefaultTitle
	}
	description = favorite.LimitDescription(description)

	values := clampOffsets(c.form.Values())
	rec, err := c.store.Add(ctx, store.AddInput{
		Width:       &values.Width,
		Height:      &values.Height,
		X:           values.X,
		Y:           values.Y,
		Ratio:       values.Ratio,
		Radius:      values.Radius,
		TabletW:     values.TabletW,
		TabletH:     values.TabletH,
		PresetInfo:  values.PresetInfo,
		Title:       title,
		Description: description,
	})
	if err != nil {
		c.log.Error("favorite add failed", "error", err)
		c.notifyError("favorites.saveFailed", "Could not save favorite")
		return
	}

	c.notifier.Success(c.translate("favorites.added", "Favorite added"))
	c.Refresh(ctx)
	c.renderer.Highlight(rec.ID, true)
}

// CancelEditMode abandons the active edit session and restores the form
// to the snapshot taken when editing began. No-op when no session is
// active. skipNotification suppresses the cancelled notice.
func (c *Controller) CancelEditMode(skipNotification bool) bool {
	c.mu.Lock()
	session := c.session
	c.session = nil
	c.mu.Unlock()

	if session == nil {
		return false
	}

	c.form.SetValues(session.original.FormValues)
	if !skipNotification {
		c.notifier.Info(c.translate("favorites.editCancelled", "Editing cancelled"))
	}
	return true
}

// mergeFormOverSnapshot lays the current form values over the snapshot:
// fields the form has no value for fall back to what editing started with.
func mergeFormOverSnapshot(values, snap favorite.FormValues) favorite.FormValues {
	merged := values
	if merged.X == nil {
		merged.X = snap.X
	}
	if merged.Y == nil {
		merged.Y = snap.Y
	}
	if merged.Ratio == nil {
		merged.Ratio = snap.Ratio
	}
	if merged.TabletW == nil {
		merged.TabletW = snap.TabletW
	}
	if merged.TabletH == nil {
		merged.TabletH = snap.TabletH
	}
	if merged.PresetInfo == "" {
		merged.PresetInfo = snap.PresetInfo
	}
	return merged
}

// updatePatch builds the generic-save patch. Title and description are
// deliberately absent: that pair belongs to the details path alone.
func updatePatch(v favorite.FormValues) favorite.Patch {
	return favorite.Patch{
		Width:      &v.Width,
		Height:     &v.Height,
		X:          v.X,
		Y:          v.Y,
		Ratio:      v.Ratio,
		Radius:     &v.Radius,
		TabletW:    v.TabletW,
		TabletH:    v.TabletH,
		PresetInfo: &v.PresetInfo,
	}
}
