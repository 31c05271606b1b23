package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/slotbook/internal/appointment"
	"github.com/javiermolinar/slotbook/internal/interaction"
	"github.com/javiermolinar/slotbook/internal/resource"
)

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	lines := make([]string, 0, m.height)
	lines = append(lines, m.renderTitle(), m.renderHeaders())
	lines = append(lines, m.renderGrid()...)
	for len(lines) < m.height-footerLines {
		lines = append(lines, "")
	}
	lines = append(lines, m.renderStatus(), m.renderHelp())
	screen := fitLines(strings.Join(lines, "\n"), m.width, m.height)

	return m.renderOverlays(screen)
}

func (m Model) renderTitle() string {
	s := m.styles
	date := m.book.Date().Format("Mon, Jan 2 2006")
	if m.isToday() {
		date += " (today)"
	}
	cats := []resource.Category{resource.CategoryRoom, resource.CategoryPractitioner}
	parts := make([]string, len(cats))
	for i, c := range cats {
		label := " " + categoryTitle(c) + " "
		if c == m.category {
			parts[i] = s.CategoryActiveStyle.Render(label)
		} else {
			parts[i] = s.CategoryIdleStyle.Render(label)
		}
	}
	left := s.TitleStyle.Render(" slotbook ") + s.DateStyle.Render(" "+date+" ")
	right := strings.Join(parts, "")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + s.DateStyle.Render(strings.Repeat(" ", gap)) + right
}

func categoryTitle(c resource.Category) string {
	switch c {
	case resource.CategoryPractitioner:
		return "Practitioners"
	default:
		return "Rooms"
	}
}

func (m Model) renderHeaders() string {
	s := m.styles
	w := m.colWidth()
	var b strings.Builder
	b.WriteString(s.ColumnHeaderStyle.Render(strings.Repeat(" ", timeColWidth)))
	for _, r := range m.columns {
		b.WriteString(s.ColumnHeaderStyle.Render(padCell(r.DisplayName(), w)))
	}
	return b.String()
}

// padCell fits text into a w-wide cell with one leading space.
func padCell(text string, w int) string {
	if w <= 0 {
		return ""
	}
	text = " " + text
	if ansi.StringWidth(text) > w {
		text = ansi.Truncate(text, w, "…")
	}
	return text + strings.Repeat(" ", max(w-ansi.StringWidth(text), 0))
}

// dragPreview describes where a carried record would land.
type dragPreview struct {
	resourceID string
	start      int
	duration   int
	bad        bool // the landing overlaps another record
}

func (m Model) preview() (dragPreview, bool) {
	var id, resID string
	var start int
	switch {
	case m.mode == ModeMove && m.moveID != "":
		res, ok := m.column(m.moveTarget.Col)
		if !ok {
			return dragPreview{}, false
		}
		id, resID, start = m.moveID, res.ID, m.moveTarget.Slot
	default:
		dr, ok := m.drag.(interaction.Dragging)
		if !ok || (m.press != nil && !m.press.moved) {
			return dragPreview{}, false
		}
		id, resID, start = dr.ID, dr.HoverResource, dr.HoverIndex
	}
	a, err := m.book.Get(id)
	if err != nil {
		return dragPreview{}, false
	}
	p := dragPreview{resourceID: resID, start: start, duration: a.DurationSlots}
	for _, other := range m.book.ListByResource(resID) {
		if other.ID != id && appointment.Overlaps(start, a.DurationSlots, other.StartIndex, other.DurationSlots) {
			p.bad = true
			break
		}
	}
	return p, true
}

// columnCells indexes a resource's records by slot. The int is the record's
// position in start order, used to alternate shades between neighbours.
type placed struct {
	appt  appointment.Appointment
	order int
}

func (m Model) columnCells(resourceID string) map[int]placed {
	cells := make(map[int]placed)
	for i, a := range m.book.ListByResource(resourceID) {
		for s := a.StartIndex; s < a.EndIndex(); s++ {
			cells[s] = placed{appt: a, order: i}
		}
	}
	return cells
}

func (m Model) renderGrid() []string {
	s := m.styles
	w := m.colWidth()
	slotsPerHour := max(60/m.clock.SlotMinutes(), 1)
	nowIdx, nowOK := m.clock.IndexAt(m.now())
	nowOK = nowOK && m.isToday()
	prev, hasPreview := m.preview()
	sel, selecting := m.selection.(interaction.Selecting)

	cells := make([]map[int]placed, len(m.columns))
	for i, r := range m.columns {
		cells[i] = m.columnCells(r.ID)
	}

	rows := make([]string, 0, m.visibleRows())
	for r := 0; r < m.visibleRows(); r++ {
		slot := m.scroll + r
		var b strings.Builder

		label := ""
		if slot%slotsPerHour == 0 || slot == m.cursor.Slot {
			label = m.clock.IndexToLabel(slot)
		}
		timeStyle := s.TimeStyle
		if nowOK && slot == nowIdx {
			label = "▶" + m.clock.IndexToLabel(slot)
			timeStyle = s.TimeNowStyle
		}
		b.WriteString(timeStyle.Render(fmt.Sprintf("%*s ", timeColWidth-1, label)))

		for col, res := range m.columns {
			text, style := "", s.EmptyCellStyle
			if slot%slotsPerHour == 0 {
				text, style = strings.Repeat("╌", max(w-2, 0)), s.EmptyHourStyle
			}
			if p, ok := cells[col][slot]; ok {
				text, style = m.recordCell(p, slot)
			}

			cellPos := Position{Col: col, Slot: slot}
			switch {
			case hasPreview && prev.resourceID == res.ID && slot >= prev.start && slot < prev.start+prev.duration:
				style = s.PreviewStyle
				if prev.bad {
					style = s.PreviewBadStyle
				}
			case selecting && sel.Covers(res.ID, slot):
				style = s.SelectStyle
			case m.mode == ModeNormal && cellPos == m.cursor:
				style = s.CursorStyle
			}
			b.WriteString(style.Render(padCell(text, w)))
		}
		rows = append(rows, b.String())
	}
	return rows
}

// recordCell picks the text and shade for one slot of a record. The first
// slot carries the label, the second the time range, the third the guest.
func (m Model) recordCell(p placed, slot int) (string, lipgloss.Style) {
	s := m.styles
	a := p.appt
	alt := p.order%2 == 1

	style := s.BookingStyle
	if alt {
		style = s.BookingAltStyle
	}
	title := a.Label
	if a.IsBlockout() {
		style = s.BlockoutStyle
		if alt {
			style = s.BlockoutAltStyle
		}
		title = "[blocked] " + a.Reason
	}

	switch slot - a.StartIndex {
	case 0:
		return title, style
	case 1:
		return m.clock.IndexToLabel(a.StartIndex) + "-" + m.clock.IndexToLabel(a.EndIndex()), style
	case 2:
		if a.GuestInfo != nil && a.GuestInfo.Name != "" {
			return a.GuestInfo.Name, style
		}
	}
	return "", style
}

func (m Model) renderStatus() string {
	s := m.styles
	msg := m.statusMsg
	if msg == "" {
		msg = fmt.Sprintf("%d records · %s", len(m.book.All()), m.book.Source())
		if m.book.Dirty() {
			return s.StatusWarnStyle.Render(" unsaved changes · " + msg)
		}
	}
	if m.statusWarn {
		return s.StatusWarnStyle.Render(" " + msg)
	}
	return s.StatusStyle.Render(" " + msg)
}

func (m Model) renderHelp() string {
	var help string
	switch m.mode {
	case ModeMove:
		help = "←↓↑→ target · enter drop · esc cancel"
	case ModeMenu:
		help = "↑↓ choose · → reasons · enter select · esc close"
	case ModeDialog:
		help = "tab field · enter save · esc cancel"
	default:
		help = "space range · enter book/details · m move · e edit · d delete · b block · f free · o menu · [ ] day · t today · c rooms/people · y copy · E export · q quit"
	}
	return m.styles.HelpStyle.Render(" " + help)
}

// renderOverlays draws the popover, the menu and the dialog over screen.
func (m Model) renderOverlays(screen string) string {
	if id, ok := interaction.PopoverID(m.popover); ok && m.mode == ModeNormal {
		if a, err := m.book.Get(id); err == nil {
			_, pinned := m.popover.(interaction.Pinned)
			box := m.popoverBox(a, pinned)
			if pos, ok := m.popoverPos(a, box); ok {
				screen = placeOverlay(screen, box, pos.X, pos.Y)
			}
		}
	}

	if open, ok := m.menu.(interaction.MenuOpen); ok {
		screen = placeOverlay(screen, m.menuBox(open), open.Pos.X, open.Pos.Y)
		if open.Flyout != nil {
			screen = placeOverlay(screen, m.flyoutBox(*open.Flyout), open.Flyout.Pos.X, open.Flyout.Pos.Y)
		}
	}

	if m.dialog != nil {
		name := m.dialog.ResourceID
		if r, err := m.dir.Get(name); err == nil {
			name = r.DisplayName()
		}
		screen = centerOverlay(screen, m.dialog.render(m.styles, m.clock, name), m.width, m.height)
	}
	return screen
}
