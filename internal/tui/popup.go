package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/slotbook/internal/appointment"
	"github.com/javiermolinar/slotbook/internal/interaction"
)

// renderList draws a bordered list with the row at cursor highlighted.
// Rows sit one line below the box top, so row i is at y+1+i.
func (m Model) renderList(labels []string, cursor int) string {
	s := m.styles
	w := 0
	for _, l := range labels {
		w = max(w, lipgloss.Width(l))
	}
	rows := make([]string, len(labels))
	for i, l := range labels {
		text := l + strings.Repeat(" ", w-lipgloss.Width(l))
		if i == cursor {
			rows[i] = s.BoxSelectedStyle.Render(text)
		} else {
			rows[i] = s.BoxTextStyle.Render(text)
		}
	}
	return s.BoxStyle.Render(strings.Join(rows, "\n"))
}

func menuLabels(target interaction.Target) []string {
	items := interaction.Items(target)
	labels := make([]string, len(items))
	for i, it := range items {
		labels[i] = it.Label
		if it.Submenu {
			labels[i] += " ›"
		}
	}
	return labels
}

func (m Model) menuBox(open interaction.MenuOpen) string {
	cursor := open.Cursor
	if open.Flyout != nil {
		cursor = -1
		for i, it := range interaction.Items(open.Target) {
			if it.Submenu {
				cursor = i
			}
		}
	}
	return m.renderList(menuLabels(open.Target), cursor)
}

func (m Model) flyoutBox(f interaction.Flyout) string {
	return m.renderList(interaction.BlockoutReasons, f.Cursor)
}

func boxRect(pos interaction.Point, box string) interaction.Rect {
	w, h := lipgloss.Size(box)
	return interaction.Rect{X: pos.X, Y: pos.Y, W: w, H: h}
}

func boxSize(box string) interaction.Size {
	w, h := lipgloss.Size(box)
	return interaction.Size{W: w, H: h}
}

// listRow maps a click inside a list box at pos to a row index.
func listRow(pos interaction.Point, box string, p interaction.Point, n int) (int, bool) {
	if !boxRect(pos, box).Contains(p) {
		return 0, false
	}
	row := p.Y - pos.Y - 1
	return row, row >= 0 && row < n
}

// openMenuAt opens the context menu for target with its corner at pos,
// clamped into the terminal.
func (m *Model) openMenuAt(pos interaction.Point, target interaction.Target) {
	m.selection = interaction.Cancel(m.selection)
	m.popover = interaction.Dismiss(m.popover)
	probe := m.renderList(menuLabels(target), 0)
	pos = interaction.Clamp(pos, boxSize(probe), m.viewport())
	m.menu = interaction.OpenMenu(m.menu, pos, target)
	m.setMode(ModeMenu, "menu open")
}

// openFlyout shows the reason submenu beside the submenu row.
func (m *Model) openFlyout() {
	open, ok := m.menu.(interaction.MenuOpen)
	if !ok {
		return
	}
	items := interaction.Items(open.Target)
	if open.Cursor < 0 || open.Cursor >= len(items) || !items[open.Cursor].Submenu {
		return
	}
	menu := boxRect(open.Pos, m.menuBox(open))
	// Align the first reason with the submenu row.
	parent := interaction.Rect{X: menu.X, Y: menu.Y + open.Cursor, W: menu.W, H: 1}
	size := boxSize(m.flyoutBox(interaction.Flyout{}))
	m.menu = interaction.OpenFlyout(m.menu, parent, size, m.viewport())
}

// popoverBox renders the details card for a record.
func (m Model) popoverBox(a appointment.Appointment, pinned bool) string {
	s := m.styles
	title := a.Label
	if a.IsBlockout() {
		title = "Blocked: " + a.Reason
	}
	name := a.ResourceID
	if r, err := m.dir.Get(a.ResourceID); err == nil {
		name = r.DisplayName()
	}
	lines := []string{
		s.BoxTitleStyle.Render(title),
		s.BoxTextStyle.Render(name),
		s.BoxTextStyle.Render(fmt.Sprintf("%s - %s (%d min)",
			m.clock.IndexToLabel(a.StartIndex), m.clock.IndexToLabel(a.EndIndex()),
			a.DurationSlots*m.clock.SlotMinutes())),
	}
	if g := a.GuestInfo; g != nil {
		guest := g.Name
		for _, extra := range []string{g.Email, g.Phone} {
			if extra != "" {
				guest += " · " + extra
			}
		}
		lines = append(lines, s.BoxTextStyle.Render("Guest: "+guest))
	}
	for _, sl := range a.ServiceLines {
		lines = append(lines, s.BoxMutedStyle.Render(fmt.Sprintf("%dx %s  %.2f", sl.Quantity, sl.Name, sl.Price)))
	}
	if a.Notes != "" {
		lines = append(lines, s.BoxMutedStyle.Render(a.Notes))
	}
	if a.CreatedBy != "" {
		lines = append(lines, s.BoxMutedStyle.Render("by "+a.CreatedBy))
	}
	if pinned {
		lines = append(lines, "", s.BoxMutedStyle.Render("e edit · d delete · esc close"))
	}
	return s.BoxStyle.Render(strings.Join(lines, "\n"))
}

// popoverPos places the card beside the record's first cell.
func (m Model) popoverPos(a appointment.Appointment, box string) (interaction.Point, bool) {
	col := m.columnOf(a.ResourceID)
	if col < 0 {
		return interaction.Point{}, false
	}
	anchor := m.cellRect(Position{Col: col, Slot: a.StartIndex})
	return interaction.PlaceFlyout(anchor, boxSize(box), m.viewport()), true
}
