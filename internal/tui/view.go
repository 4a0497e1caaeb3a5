package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/padfav/padfav/internal/favorite"
)

const (
	titleWidth           = 28
	sizeWidth            = 13
	presetWidth          = 22
	ageWidth             = 5
	spacesBetweenColumns = 6
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	columnStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("39")).Foreground(lipgloss.Color("0"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	overlayStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type viewSnapshot struct {
	records []favorite.Record
	status  statusLine
	form    favorite.FormValues
}

func (m *Model) snapshot() viewSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return viewSnapshot{
		records: append([]favorite.Record(nil), m.records...),
		status:  m.status,
		form:    m.form,
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	snap := m.snapshot()

	var s strings.Builder
	s.WriteString(m.renderHeader(snap))
	s.WriteString("\n")

	switch m.mode {
	case modeDetails, modeComment:
		s.WriteString(m.renderEditor())
	default:
		s.WriteString(m.renderList(snap))
	}

	s.WriteString("\n")
	s.WriteString(m.renderForm(snap))
	s.WriteString("\n")
	s.WriteString(m.renderStatus(snap))
	s.WriteString("\n")
	s.WriteString(m.renderFooter())
	return s.String()
}

func (m *Model) renderHeader(snap viewSnapshot) string {
	criterion := m.ctrl.SortCriterion()
	sortLabel := m.catalog.Translate("sort." + criterion.String())
	header := fmt.Sprintf("padfav  %d  %s: %s",
		len(snap.records), m.catalog.Translate("sort.label"), sortLabel)
	return headerStyle.Render(header)
}

func (m *Model) renderList(snap viewSnapshot) string {
	if len(snap.records) == 0 {
		m.viewport.SetContent(dimStyle.Render(m.catalog.Translate("favorites.empty")))
		return columnHeader() + "\n" + m.viewport.View()
	}

	var content strings.Builder
	now := time.Now()
	for i, rec := range snap.records {
		if i > 0 {
			content.WriteString("\n")
		}
		content.WriteString(m.renderRow(rec, i == m.cursor, now))
	}
	m.viewport.SetContent(content.String())
	return columnHeader() + "\n" + m.viewport.View()
}

func columnHeader() string {
	header := fmt.Sprintf("%-*s  %-*s  %-*s  %-*s",
		titleWidth, "TITLE",
		sizeWidth, "SIZE",
		presetWidth, "PRESET",
		ageWidth, "AGE",
	)
	return columnStyle.Render(header)
}

func (m *Model) renderRow(rec favorite.Record, selected bool, now time.Time) string {
	title := truncate(favorite.DisplayTitle(rec, m.catalog), titleWidth)
	size := truncate(favorite.FormatDimensions(rec, m.decimals)+" mm", sizeWidth)
	preset := truncate(favorite.DisplayPreset(rec, m.catalog), presetWidth)
	age := formatAge(rec.LastModified, now)

	row := fmt.Sprintf("%-*s  %-*s  %-*s  %-*s",
		titleWidth, title,
		sizeWidth, size,
		presetWidth, preset,
		ageWidth, age,
	)
	if selected {
		return selectedStyle.Render(row)
	}
	return row
}

func (m *Model) renderEditor() string {
	var b strings.Builder
	b.WriteString(m.catalog.Translate("form.title"))
	b.WriteString("\n")
	b.WriteString(m.titleInput.View())
	b.WriteString("\n")
	b.WriteString(m.catalog.Translate("form.description"))
	b.WriteString("\n")
	b.WriteString(m.descInput.View())
	return overlayStyle.Render(b.String())
}

func (m *Model) renderForm(snap viewSnapshot) string {
	f := snap.form
	parts := []string{
		m.catalog.Translate("form.width") + " " + formatFloat(f.Width, m.decimals),
		m.catalog.Translate("form.height") + " " + formatFloat(f.Height, m.decimals),
		m.catalog.Translate("form.offsetX") + " " + formatFloatPtr(f.X, m.decimals),
		m.catalog.Translate("form.offsetY") + " " + formatFloatPtr(f.Y, m.decimals),
		m.catalog.Translate("form.radius") + " " + strconv.Itoa(f.Radius) + "%",
	}
	if f.PresetInfo != "" {
		parts = append(parts, favorite.ParseDisplayText(f.PresetInfo).Resolve(m.catalog))
	}
	return dimStyle.Render(strings.Join(parts, "  "))
}

func (m *Model) renderStatus(snap viewSnapshot) string {
	if m.mode == modeConfirmDelete {
		prompt := m.catalog.Translate("favorites.deleteConfirm")
		if m.deleteName != "" {
			prompt = fmt.Sprintf("%s %q (y/n)", prompt, m.deleteName)
		} else {
			prompt += " (y/n)"
		}
		return warningStyle.Render(prompt)
	}
	switch snap.status.kind {
	case statusSuccess:
		return successStyle.Render(snap.status.text)
	case statusError:
		return errorStyle.Render(snap.status.text)
	case statusWarning:
		return warningStyle.Render(snap.status.text)
	case statusInfo:
		return dimStyle.Render(snap.status.text)
	}
	return ""
}

func (m *Model) renderFooter() string {
	var help []string
	switch m.mode {
	case modeDetails:
		help = []string{"tab: switch field", "enter: save", "esc: discard"}
	case modeComment:
		help = []string{"tab: switch field", "enter: confirm", "esc: cancel"}
	case modeConfirmDelete:
		help = []string{"y: delete", "n: keep"}
	default:
		help = []string{"j/k: move", "enter: load", "e: details", "d: delete", "s: sort", "r: refresh", "q: quit"}
	}
	return dimStyle.Render(strings.Join(help, "  |  "))
}

func truncate(value string, width int) string {
	if utf8.RuneCountInString(value) <= width {
		return value
	}
	runes := []rune(value)
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

func formatFloat(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

func formatFloatPtr(v *float64, decimals int) string {
	if v == nil {
		return "-"
	}
	return formatFloat(*v, decimals)
}

func formatAge(millis int64, now time.Time) string {
	if millis <= 0 {
		return ""
	}
	d := now.Sub(time.UnixMilli(millis))
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}
