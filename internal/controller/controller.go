// Package controller orchestrates the favorites lifecycle between the
// store and the UI collaborators. It is the only component that mutates
// edit-session state; surfaces call it and render what it pushes back.
package controller

import (
	"fmt"
	"sync"
	"time"

	"github.com/padfav/padfav/internal/favorite"
	"github.com/padfav/padfav/internal/geometry"
	"github.com/padfav/padfav/internal/logging"
	"github.com/padfav/padfav/internal/store"
)

// DefaultAutosaveDelay is the quiet window before edited details commit.
const DefaultAutosaveDelay = 600 * time.Millisecond

// Controller coordinates favorites operations across the store and the
// injected collaborators. Safe for concurrent use.
type Controller struct {
	store      *store.Store
	renderer   Renderer
	translator Translator
	notifier   Notifier
	dialogs    Dialogs
	form       Form
	log        logging.Logger

	autosaveDelay time.Duration
	defaultNames  []string

	mu        sync.Mutex
	criterion favorite.Criterion
	session   *editSession
	details   *detailsSession
}

// editSession tracks an active edit: the id being edited and the snapshot
// taken when editing began, for cancel-to-restore and save merging.
type editSession struct {
	id       string
	original favorite.Snapshot
}

// detailsSession tracks the open details popup and its pending auto-save.
type detailsSession struct {
	id    string
	title string
	desc  string
	dirty bool
	timer *time.Timer
}

// Options configures a new Controller. Store and all collaborators are
// required.
type Options struct {
	Store      *store.Store
	Renderer   Renderer
	Translator Translator
	Notifier   Notifier
	Dialogs    Dialogs
	Form       Form
	Logger     logging.Logger

	// SortCriterion is the initial ordering. Invalid values fall back to
	// the default.
	SortCriterion favorite.Criterion

	// AutosaveDelay overrides the details auto-save quiet window.
	AutosaveDelay time.Duration

	// DefaultNameVariants lists the known translations of the default
	// favorite name, for the title-equivalence rule.
	DefaultNameVariants []string
}

// New builds a Controller, failing when a required collaborator is missing.
func New(opts Options) (*Controller, error) {
	switch {
	case opts.Store == nil:
		return nil, fmt.Errorf("favorites store is required")
	case opts.Renderer == nil:
		return nil, fmt.Errorf("renderer collaborator is required")
	case opts.Translator == nil:
		return nil, fmt.Errorf("translator collaborator is required")
	case opts.Notifier == nil:
		return nil, fmt.Errorf("notifier collaborator is required")
	case opts.Dialogs == nil:
		return nil, fmt.Errorf("dialogs collaborator is required")
	case opts.Form == nil:
		return nil, fmt.Errorf("form collaborator is required")
	}

	log := opts.Logger
	if log == nil {
		log = logging.Noop()
	}
	delay := opts.AutosaveDelay
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	criterion := opts.SortCriterion
	if !criterion.IsValid() {
		criterion = favorite.DefaultCriterion
	}

	return &Controller{
		store:         opts.Store,
		renderer:      opts.Renderer,
		translator:    opts.Translator,
		notifier:      opts.Notifier,
		dialogs:       opts.Dialogs,
		form:          opts.Form,
		log:           log,
		autosaveDelay: delay,
		defaultNames:  opts.DefaultNameVariants,
		criterion:     criterion,
	}, nil
}

// Close cancels pending auto-save timers and clears session state.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopDetailsTimerLocked()
	c.details = nil
	c.session = nil
}

// EditingID returns the id of the active edit session, if any.
func (c *Controller) EditingID() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return "", false
	}
	return c.session.id, true
}

// DetailedID returns the id the details popup is open for, if any.
func (c *Controller) DetailedID() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.details == nil {
		return "", false
	}
	return c.details.id, true
}

func (c *Controller) stopDetailsTimerLocked() {
	if c.details != nil && c.details.timer != nil {
		c.details.timer.Stop()
		c.details.timer = nil
	}
}

func (c *Controller) translate(key, fallback string) string {
	return c.translator.TranslateWithFallback(key, fallback)
}

func (c *Controller) notifyError(key, fallback string) {
	c.notifier.Error(c.translate(key, fallback))
}

// clampOffsets pulls the center offsets back inside the tablet bounds when
// both the offsets and the tablet dimensions are known.
func clampOffsets(v favorite.FormValues) favorite.FormValues {
	if v.X == nil || v.Y == nil || v.TabletW == nil || v.TabletH == nil {
		return v
	}
	x, y := geometry.ConstrainOffset(*v.X, *v.Y, v.Width, v.Height, *v.TabletW, *v.TabletH)
	v.X = &x
	v.Y = &y
	return v
}
