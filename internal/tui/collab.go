package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/padfav/padfav/internal/controller"
	"github.com/padfav/padfav/internal/favorite"
)

var (
	_ controller.Renderer = (*Model)(nil)
	_ controller.Notifier = (*Model)(nil)
	_ controller.Dialogs  = (*Model)(nil)
	_ controller.Form     = (*Model)(nil)
)

// redrawMsg is posted when shared state changes off the event loop, so
// the program repaints.
type redrawMsg struct{}

// Render implements controller.Renderer. The cursor follows the selected
// record across re-sorts; when it is gone the position is clamped.
func (m *Model) Render(records []favorite.Record, order []string) {
	m.mu.Lock()
	var current string
	if m.cursor >= 0 && m.cursor < len(m.order) {
		current = m.order[m.cursor]
	}
	m.records = records
	m.order = order
	if idx := indexOf(order, current); idx >= 0 {
		m.cursor = idx
	} else if m.cursor >= len(order) {
		m.cursor = len(order) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.mu.Unlock()
	m.wake()
}

// Highlight implements controller.Renderer.
func (m *Model) Highlight(id string, withScroll bool) {
	m.mu.Lock()
	idx := indexOf(m.order, id)
	m.mu.Unlock()
	if idx < 0 {
		return
	}
	m.cursor = idx
	if withScroll {
		m.ensureCursorVisible()
	}
}

// UpdateCard implements controller.Renderer. Called by the details
// auto-save off the event loop.
func (m *Model) UpdateCard(id string, rec favorite.Record) {
	m.mu.Lock()
	for i := range m.records {
		if m.records[i].ID == id {
			m.records[i] = rec
			break
		}
	}
	m.mu.Unlock()
	m.wake()
}

// Success implements controller.Notifier.
func (m *Model) Success(message string) { m.setStatus(statusSuccess, message) }

// Error implements controller.Notifier.
func (m *Model) Error(message string) { m.setStatus(statusError, message) }

// Info implements controller.Notifier.
func (m *Model) Info(message string) { m.setStatus(statusInfo, message) }

// Warning implements controller.Notifier.
func (m *Model) Warning(message string) { m.setStatus(statusWarning, message) }

// Values implements controller.Form.
func (m *Model) Values() favorite.FormValues {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.form
}

// SetValues implements controller.Form.
func (m *Model) SetValues(values favorite.FormValues) {
	m.mu.Lock()
	m.form = values
	m.mu.Unlock()
	m.wake()
}

// ShowCommentDialog implements controller.Dialogs. The callback fires
// once the overlay is confirmed or dismissed.
func (m *Model) ShowCommentDialog(cb func(title, description string, ok bool)) {
	m.commentCB = cb
	m.titleInput.SetValue("")
	m.descInput.SetValue("")
	m.focusTitle()
	m.mode = modeComment
}

// ShowDeleteDialog implements controller.Dialogs.
func (m *Model) ShowDeleteDialog(cb func(confirmed bool)) {
	m.deleteCB = cb
	m.mode = modeConfirmDelete
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.mu.Lock()
	m.status = statusLine{kind: kind, text: text}
	m.mu.Unlock()
	m.wake()
}

func (m *Model) clearStatus() {
	m.mu.Lock()
	m.status = statusLine{}
	m.mu.Unlock()
}

// wake nudges the program after an off-loop state change. Nil until Run
// hooks up the program; tests drive Update directly and never need it.
func (m *Model) wake() {
	m.mu.Lock()
	send := m.send
	m.mu.Unlock()
	if send != nil {
		send(redrawMsg{})
	}
}

func indexOf(ids []string, id string) int {
	if id == "" {
		return -1
	}
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
