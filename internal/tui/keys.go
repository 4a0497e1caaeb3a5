package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/padfav/padfav/internal/favorite"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vh := msg.Height - chromeLines
		if vh < minViewportHeight {
			vh = minViewportHeight
		}
		m.viewport = viewport.New(msg.Width, vh)
		return m, nil
	case redrawMsg:
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch m.mode {
	case modeConfirmDelete:
		return m.handleConfirmKey(msg)
	case modeDetails:
		return m.handleDetailsKey(msg)
	case modeComment:
		return m.handleCommentKey(msg)
	}
	return m.handleListKey(msg)
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.clearStatus()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "g":
		m.setCursor(0)
	case "G":
		m.setCursor(m.listLen() - 1)
	case "enter":
		if id, ok := m.selectedID(); ok {
			m.ctrl.LoadFavorite(m.ctx, id)
		}
	case "e":
		m.openDetailsEditor()
	case "d":
		m.requestDelete()
	case "s":
		m.cycleSort()
	case "r":
		m.ctrl.Refresh(m.ctx)
	}
	return m, nil
}

func (m *Model) handleDetailsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.ctrl.CloseDetails()
		m.mode = modeList
		return m, nil
	case tea.KeyEnter:
		m.ctrl.DetailsFieldChanged(m.titleInput.Value(), m.descInput.Value())
		m.ctrl.CommitDetails(m.ctx)
		m.ctrl.CloseDetails()
		m.mode = modeList
		return m, nil
	case tea.KeyTab, tea.KeyShiftTab:
		m.toggleDetailsFocus()
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	if m.descFocus {
		m.descInput, cmd = m.descInput.Update(msg)
	} else {
		m.titleInput, cmd = m.titleInput.Update(msg)
	}
	m.ctrl.DetailsFieldChanged(m.titleInput.Value(), m.descInput.Value())
	return m, cmd
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.resolveDelete(true)
	case "n", "N", "esc", "q":
		m.resolveDelete(false)
	}
	return m, nil
}

func (m *Model) handleCommentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.resolveComment(false)
		return m, nil
	case tea.KeyEnter:
		m.resolveComment(true)
		return m, nil
	case tea.KeyTab, tea.KeyShiftTab:
		m.toggleDetailsFocus()
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	if m.descFocus {
		m.descInput, cmd = m.descInput.Update(msg)
	} else {
		m.titleInput, cmd = m.titleInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) openDetailsEditor() {
	id, ok := m.selectedID()
	if !ok {
		return
	}
	rec, found := m.recordByID(id)
	if !found {
		return
	}
	if !m.ctrl.OpenDetails(m.ctx, id) {
		return
	}

	// The editor shows the resolved translation for reference titles,
	// like the details popup it mirrors. The controller's equivalence
	// rules keep the stored reference intact when it comes back.
	seed := rec.Title
	if text := favorite.ParseDisplayText(seed); text.IsRef() {
		seed = text.Resolve(m.catalog)
	}
	m.detailsID = id
	m.titleInput.SetValue(seed)
	m.descInput.SetValue(rec.Description)
	m.focusTitle()
	m.mode = modeDetails
}

func (m *Model) requestDelete() {
	id, ok := m.selectedID()
	if !ok {
		return
	}
	if rec, found := m.recordByID(id); found {
		m.deleteName = favorite.DisplayTitle(rec, m.catalog)
	}
	m.ctrl.DeleteFavorite(m.ctx, id)
}

func (m *Model) resolveDelete(confirmed bool) {
	cb := m.deleteCB
	m.deleteCB = nil
	m.deleteName = ""
	m.mode = modeList
	if cb != nil {
		cb(confirmed)
	}
}

func (m *Model) resolveComment(ok bool) {
	cb := m.commentCB
	m.commentCB = nil
	m.mode = modeList
	if cb != nil {
		cb(m.titleInput.Value(), m.descInput.Value(), ok)
	}
}

func (m *Model) cycleSort() {
	current := m.ctrl.SortCriterion()
	all := favorite.Criteria()
	next := all[0]
	for i, c := range all {
		if c == current {
			next = all[(i+1)%len(all)]
			break
		}
	}
	m.ctrl.SetSortCriterion(m.ctx, next)
}

func (m *Model) focusTitle() {
	m.descFocus = false
	m.titleInput.Focus()
	m.descInput.Blur()
}

func (m *Model) toggleDetailsFocus() {
	m.descFocus = !m.descFocus
	if m.descFocus {
		m.titleInput.Blur()
		m.descInput.Focus()
	} else {
		m.descInput.Blur()
		m.titleInput.Focus()
	}
}

func (m *Model) listLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order)
}

func (m *Model) selectedID() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cursor < 0 || m.cursor >= len(m.order) {
		return "", false
	}
	return m.order[m.cursor], true
}

func (m *Model) recordByID(id string) (favorite.Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if rec.ID == id {
			return rec, true
		}
	}
	return favorite.Record{}, false
}

func (m *Model) moveCursor(delta int) {
	m.setCursor(m.cursor + delta)
}

func (m *Model) setCursor(pos int) {
	max := m.listLen() - 1
	if pos > max {
		pos = max
	}
	if pos < 0 {
		pos = 0
	}
	m.cursor = pos
	m.ensureCursorVisible()
}

func (m *Model) ensureCursorVisible() {
	if m.cursor < m.viewport.YOffset {
		m.viewport.LineUp(m.viewport.YOffset - m.cursor)
	}
	if m.cursor >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.LineDown(m.cursor - (m.viewport.YOffset + m.viewport.Height) + 1)
	}
}
