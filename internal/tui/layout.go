package tui

import "github.com/javiermolinar/slotbook/internal/interaction"

const (
	timeColWidth = 10 // "12:45 PM" plus padding
	minColWidth  = 10
	maxColWidth  = 32
	headerLines  = 2 // title bar, column headers
	footerLines  = 2 // status, help
)

// gridRows is the number of slot rows that fit on screen.
func (m Model) gridRows() int {
	return max(m.height-headerLines-footerLines, 1)
}

// visibleRows is gridRows limited to the slots remaining below scroll.
func (m Model) visibleRows() int {
	return max(min(m.gridRows(), m.clock.TotalSlots()-m.scroll), 0)
}

func (m Model) colWidth() int {
	if len(m.columns) == 0 {
		return minColWidth
	}
	w := (m.width - timeColWidth) / len(m.columns)
	return min(max(w, minColWidth), maxColWidth)
}

func (m Model) viewport() interaction.Size {
	return interaction.Size{W: m.width, H: m.height}
}

// cellAt maps a screen position to a grid cell.
func (m Model) cellAt(x, y int) (Position, bool) {
	row := y - headerLines
	if row < 0 || row >= m.visibleRows() || x < timeColWidth {
		return Position{}, false
	}
	col := (x - timeColWidth) / m.colWidth()
	if col >= len(m.columns) || timeColWidth+(col+1)*m.colWidth() > m.width {
		return Position{}, false
	}
	return Position{Col: col, Slot: m.scroll + row}, true
}

// cellRect returns the on-screen box of a cell. Cells scrolled out of view
// are clamped to the nearest visible row.
func (m Model) cellRect(p Position) interaction.Rect {
	row := min(max(p.Slot-m.scroll, 0), max(m.visibleRows()-1, 0))
	return interaction.Rect{
		X: timeColWidth + p.Col*m.colWidth(),
		Y: headerLines + row,
		W: m.colWidth(),
		H: 1,
	}
}

// ensureVisible scrolls so slot is on screen.
func (m *Model) ensureVisible(slot int) {
	rows := m.gridRows()
	switch {
	case slot < m.scroll:
		m.scroll = slot
	case slot >= m.scroll+rows:
		m.scroll = slot - rows + 1
	}
	m.scroll = min(max(m.scroll, 0), max(m.clock.TotalSlots()-rows, 0))
}
