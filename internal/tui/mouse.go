package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/slotbook/internal/interaction"
)

const wheelStep = 3

// handleMouseMsg routes pointer events to the gesture state machines.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scrollBy(-wheelStep)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.scrollBy(wheelStep)
		return m, nil
	}

	switch m.mode {
	case ModeMenu:
		return m.handleMenuMouse(msg)
	case ModeNormal:
	default:
		return m, nil
	}

	p := interaction.Point{X: msg.X, Y: msg.Y}
	cell, inGrid := m.cellAt(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			return m.pointerPress(cell, inGrid)
		case tea.MouseButtonRight:
			if !inGrid {
				return m, nil
			}
			m.cursor = cell
			res, _ := m.column(cell.Col)
			var target interaction.Target = interaction.CellTarget{ResourceID: res.ID, Index: cell.Slot}
			if a, ok := m.book.At(res.ID, cell.Slot); ok {
				target = interaction.RecordTarget{ID: a.ID}
			}
			m.openMenuAt(p, target)
		}
	case tea.MouseActionMotion:
		return m.pointerMotion(cell, inGrid)
	case tea.MouseActionRelease:
		return m.pointerRelease(cell, inGrid)
	}
	return m, nil
}

func (m *Model) scrollBy(delta int) {
	m.scroll = min(max(m.scroll+delta, 0), max(m.clock.TotalSlots()-m.gridRows(), 0))
}

// pointerPress grabs a record or starts a range on an empty cell.
func (m Model) pointerPress(cell Position, inGrid bool) (tea.Model, tea.Cmd) {
	if !inGrid {
		m.popover = interaction.OutsideClick(m.popover)
		m.selection = interaction.Cancel(m.selection)
		return m, nil
	}
	res, _ := m.column(cell.Col)
	m.cursor = cell
	if a, ok := m.book.At(res.ID, cell.Slot); ok {
		m.drag = interaction.BeginDrag(a, cell.Slot)
		m.press = &pressInfo{id: a.ID, cell: cell}
		return m, nil
	}
	m.popover = interaction.OutsideClick(m.popover)
	m.selection = interaction.PointerDown(m.selection, res.ID, cell.Slot)
	return m, nil
}

func (m Model) pointerMotion(cell Position, inGrid bool) (tea.Model, tea.Cmd) {
	if dr, ok := m.drag.(interaction.Dragging); ok {
		if !inGrid {
			return m, nil
		}
		a, err := m.book.Get(dr.ID)
		if err != nil {
			m.drag = interaction.CancelDrag(m.drag)
			m.press = nil
			return m, nil
		}
		if m.press != nil && cell != m.press.cell {
			m.press.moved = true
		}
		res, _ := m.column(cell.Col)
		m.drag = interaction.DragOver(m.drag, m.clock, a.DurationSlots, res.ID, cell.Slot)
		return m, nil
	}

	if _, ok := m.selection.(interaction.Selecting); ok {
		if !inGrid {
			m.selection = interaction.PointerLeave(m.selection)
			return m, nil
		}
		res, _ := m.column(cell.Col)
		m.selection = interaction.PointerEnter(m.selection, res.ID, cell.Slot)
		m.cursor.Slot = cell.Slot
		return m, nil
	}

	if inGrid {
		res, _ := m.column(cell.Col)
		if a, ok := m.book.At(res.ID, cell.Slot); ok {
			m.popover = interaction.Hover(m.popover, a.ID)
			return m, nil
		}
	}
	m.popover = interaction.Leave(m.popover)
	return m, nil
}

// pointerRelease finishes a drag or a range. A record released without
// motion counts as a click and pins its details. Drop conflicts are not
// reported: the record simply stays put.
func (m Model) pointerRelease(cell Position, inGrid bool) (tea.Model, tea.Cmd) {
	if _, ok := m.drag.(interaction.Dragging); ok {
		press := m.press
		m.press = nil
		if press != nil && !press.moved {
			m.drag = interaction.CancelDrag(m.drag)
			m.popover = interaction.Click(m.popover, press.id)
			return m, nil
		}
		if !inGrid {
			m.drag = interaction.CancelDrag(m.drag)
			return m, nil
		}
		res, _ := m.column(cell.Col)
		drag, result := interaction.Drop(m.drag, m.book.Mover(m.ctx), m.clock, res.ID, cell.Slot)
		m.drag = drag
		if result == nil {
			return m, nil
		}
		m.logMove("pointer", *result)
		if result.Outcome == interaction.Moved {
			m.cursor = Position{Col: cell.Col, Slot: result.Appointment.StartIndex}
			if m.book.Dirty() {
				return m.setStatus("Moved, but the day could not be saved", true)
			}
		}
		return m, nil
	}

	if _, ok := m.selection.(interaction.Selecting); ok {
		sel, req := interaction.PointerUp(m.selection)
		m.selection = sel
		if req != nil {
			m.openDialog(newCreateDialog(m.styles, *req), "pointer selection")
		}
	}
	return m, nil
}

// handleMenuMouse handles pointer events while the context menu is open.
func (m Model) handleMenuMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	open, ok := m.menu.(interaction.MenuOpen)
	if !ok {
		m.setMode(ModeNormal, "menu gone")
		return m, nil
	}
	p := interaction.Point{X: msg.X, Y: msg.Y}
	items := interaction.Items(open.Target)

	flyRow, onFlyout := -1, false
	if open.Flyout != nil {
		flyRow, onFlyout = listRow(open.Flyout.Pos, m.flyoutBox(*open.Flyout), p, len(interaction.BlockoutReasons))
	}
	menuRow, onMenu := listRow(open.Pos, m.menuBox(open), p, len(items))

	switch msg.Action {
	case tea.MouseActionMotion:
		switch {
		case onFlyout:
			f := *open.Flyout
			f.Cursor = flyRow
			open.Flyout = &f
			m.menu = open
		case onMenu && menuRow != open.Cursor:
			open.Cursor = menuRow
			open.Flyout = nil
			m.menu = open
		}
		return m, nil

	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft && msg.Button != tea.MouseButtonRight {
			return m, nil
		}
		switch {
		case onFlyout:
			menu, choice := interaction.SelectReason(m.menu, interaction.BlockoutReasons[flyRow])
			m.menu = menu
			m.setMode(ModeNormal, "menu choice")
			return m.applyChoice(*choice)
		case onMenu:
			open.Cursor = menuRow
			open.Flyout = nil
			menu, choice := interaction.Select(open)
			m.menu = menu
			if choice == nil {
				m.openFlyout()
				return m, nil
			}
			m.setMode(ModeNormal, "menu choice")
			return m.applyChoice(*choice)
		default:
			m.menu = interaction.MenuOutsideClick(m.menu)
			m.setMode(ModeNormal, "menu outside click")
		}
	}
	return m, nil
}
