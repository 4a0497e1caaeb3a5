package controller

import "github.com/padfav/padfav/internal/favorite"

// Renderer is the list surface the controller pushes display updates to.
type Renderer interface {
	// Render replaces the displayed list. order holds the sorted ids.
	Render(records []favorite.Record, order []string)
	// Highlight draws attention to one card, optionally scrolling to it.
	Highlight(id string, withScroll bool)
	// UpdateCard refreshes a single card in place.
	UpdateCard(id string, rec favorite.Record)
}

// Translator resolves translation keys for user-facing messages.
type Translator interface {
	// Translate returns the key unchanged when untranslated.
	Translate(key string) string
	// TranslateWithFallback returns fallback when no locale has the key.
	TranslateWithFallback(key, fallback string) string
}

// Notifier surfaces one-line user notifications.
type Notifier interface {
	Success(message string)
	Error(message string)
	Info(message string)
	Warning(message string)
}

// Dialogs collect user confirmation or input. Implementations may invoke
// the callback synchronously or later, but exactly once.
type Dialogs interface {
	// ShowCommentDialog collects title and description for a new favorite.
	// ok is false when the user dismissed the dialog.
	ShowCommentDialog(cb func(title, description string, ok bool))
	// ShowDeleteDialog asks for delete confirmation.
	ShowDeleteDialog(cb func(confirmed bool))
}

// Form is the visualizer's geometry input set.
type Form interface {
	Values() favorite.FormValues
	SetValues(values favorite.FormValues)
}
