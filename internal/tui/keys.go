package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/slotbook/internal/appointment"
	"github.com/javiermolinar/slotbook/internal/booking"
	"github.com/javiermolinar/slotbook/internal/dateutil"
	"github.com/javiermolinar/slotbook/internal/export"
	"github.com/javiermolinar/slotbook/internal/interaction"
	"github.com/javiermolinar/slotbook/internal/scheduler"
	"github.com/javiermolinar/slotbook/internal/tui/commands"
)

// ExportDir is where "E" writes calendar files.
var ExportDir = "."

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.logKeyPress(msg)

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case ModeDialog:
		return m.handleDialogKeys(msg)
	case ModeMenu:
		return m.handleMenuKeys(msg)
	case ModeMove:
		return m.handleMoveKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	// Navigation
	case "h", "left":
		m.moveCursorCol(-1)
	case "l", "right":
		m.moveCursorCol(1)
	case "k", "up":
		m.moveCursorSlot(-1)
	case "j", "down":
		m.moveCursorSlot(1)
	case "pgup", "ctrl+u":
		m.moveCursorSlot(-m.gridRows())
	case "pgdown", "ctrl+d":
		m.moveCursorSlot(m.gridRows())
	case "home", "g":
		m.moveCursorSlot(-m.clock.TotalSlots())
	case "end", "G":
		m.moveCursorSlot(m.clock.TotalSlots())
	case "f":
		return m.jumpToFree()

	// Day navigation
	case "[":
		return m.openDate(m.book.Date().AddDate(0, 0, -1))
	case "]":
		return m.openDate(m.book.Date().AddDate(0, 0, 1))
	case "t":
		return m.openDate(dateutil.TruncateToDay(m.now()))

	case "c":
		m.category = m.category.Other()
		m.selection = interaction.Cancel(m.selection)
		m.popover = interaction.Dismiss(m.popover)
		m.refreshColumns()

	// Selection and creation
	case " ":
		return m.handleSpace()
	case "enter":
		return m.handleEnter()
	case "esc":
		m.selection = interaction.Cancel(m.selection)
		m.popover = interaction.Dismiss(m.popover)

	// Record actions
	case "m":
		if a, ok := m.recordAtCursor(); ok {
			m.popover = interaction.Dismiss(m.popover)
			m.moveID = a.ID
			m.moveTarget = Position{Col: m.cursor.Col, Slot: a.StartIndex}
			m.setMode(ModeMove, "move key")
		}
	case "e":
		if a, ok := m.recordAtCursor(); ok {
			m.openDialog(newEditDialog(m.styles, a), "edit key")
		}
	case "d", "x":
		if a, ok := m.recordAtCursor(); ok {
			m.openDialog(newDeleteDialog(m.styles, a), "delete key")
		}
	case "b":
		res, ok := m.column(m.cursor.Col)
		if !ok {
			break
		}
		start, dur := m.cursor.Slot, 1
		if sel, selecting := m.selection.(interaction.Selecting); selecting {
			start, dur = sel.Range()
		}
		m.openDialog(newBlockoutDialog(m.styles, res.ID, start, dur, ""), "blockout key")

	case "o":
		return m.openMenuAtCursor()

	// Export
	case "y":
		text := export.Agenda(m.book.Date(), m.clock, m.dir, m.book.All())
		return m, commands.CopyAgenda(text)
	case "E":
		data, err := export.ICS(m.book.Date(), m.clock, m.dir, m.book.All(), time.Local)
		if err != nil {
			return m.setStatus(err.Error(), true)
		}
		path := filepath.Join(ExportDir, fmt.Sprintf("slotbook-%s.ics", dateutil.DateKey(m.book.Date())))
		return m, commands.WriteExport(path, data)
	}
	return m, nil
}

func (m *Model) moveCursorCol(delta int) {
	if len(m.columns) == 0 {
		return
	}
	m.cursor.Col = min(max(m.cursor.Col+delta, 0), len(m.columns)-1)
	// A range is bound to one resource.
	m.selection = interaction.Cancel(m.selection)
}

func (m *Model) moveCursorSlot(delta int) {
	m.cursor.Slot = m.clock.ClampIndex(m.cursor.Slot + delta)
	m.ensureVisible(m.cursor.Slot)
	if res, ok := m.column(m.cursor.Col); ok {
		m.selection = interaction.PointerEnter(m.selection, res.ID, m.cursor.Slot)
	}
}

// jumpToFree moves the cursor to the start of the next free run below it.
func (m Model) jumpToFree() (tea.Model, tea.Cmd) {
	res, ok := m.column(m.cursor.Col)
	if !ok {
		return m, nil
	}
	for _, g := range scheduler.New(m.clock).Gaps(m.book.ListByResource(res.ID), m.cursor.Slot) {
		if g.Start > m.cursor.Slot {
			m.moveCursorSlot(g.Start - m.cursor.Slot)
			return m, nil
		}
	}
	return m.setStatus("No free time below", false)
}

func (m Model) recordAtCursor() (appointment.Appointment, bool) {
	res, ok := m.column(m.cursor.Col)
	if !ok {
		return appointment.Appointment{}, false
	}
	return m.book.At(res.ID, m.cursor.Slot)
}

// handleSpace starts a range at the cursor, or finishes the one in progress.
func (m Model) handleSpace() (tea.Model, tea.Cmd) {
	if _, selecting := m.selection.(interaction.Selecting); selecting {
		return m.commitSelection()
	}
	res, ok := m.column(m.cursor.Col)
	if !ok {
		return m, nil
	}
	if _, taken := m.book.At(res.ID, m.cursor.Slot); taken {
		return m, nil
	}
	m.popover = interaction.Dismiss(m.popover)
	m.selection = interaction.PointerDown(m.selection, res.ID, m.cursor.Slot)
	return m, nil
}

// handleEnter finishes a range, pins the record under the cursor, or opens
// a one-slot booking.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	if _, selecting := m.selection.(interaction.Selecting); selecting {
		return m.commitSelection()
	}
	if a, ok := m.recordAtCursor(); ok {
		if p, pinned := m.popover.(interaction.Pinned); pinned && p.ID == a.ID {
			m.popover = interaction.Dismiss(m.popover)
		} else {
			m.popover = interaction.Click(m.popover, a.ID)
		}
		return m, nil
	}
	res, ok := m.column(m.cursor.Col)
	if !ok {
		return m, nil
	}
	m.openDialog(newCreateDialog(m.styles, interaction.CreateRequest{
		ResourceID: res.ID, StartIndex: m.cursor.Slot, DurationSlots: 1,
	}), "enter on empty cell")
	return m, nil
}

func (m Model) commitSelection() (tea.Model, tea.Cmd) {
	sel, req := interaction.PointerUp(m.selection)
	m.selection = sel
	if req == nil {
		return m, nil
	}
	m.openDialog(newCreateDialog(m.styles, *req), "selection")
	return m, nil
}

// openDate switches the book to date and resets per-day view state.
func (m Model) openDate(date time.Time) (tea.Model, tea.Cmd) {
	if err := m.book.Open(m.ctx, date); err != nil {
		m.logger.Error().Err(err).Str("date", dateutil.DateKey(date)).Msg("open day")
		if errors.Is(err, booking.ErrPersist) {
			return m.setStatus("Staying on this day. "+m.describeErr(err), true)
		}
		return m.setStatus(m.describeErr(err), true)
	}
	m.selection = interaction.Cancel(m.selection)
	m.drag = interaction.CancelDrag(m.drag)
	m.popover = interaction.Dismiss(m.popover)
	m.press = nil
	if idx, ok := m.clock.IndexAt(m.now()); ok && m.isToday() {
		m.cursor.Slot = idx
		m.ensureVisible(idx)
	}
	return m, nil
}

func (m Model) openMenuAtCursor() (tea.Model, tea.Cmd) {
	res, ok := m.column(m.cursor.Col)
	if !ok {
		return m, nil
	}
	var target interaction.Target = interaction.CellTarget{ResourceID: res.ID, Index: m.cursor.Slot}
	if a, ok := m.book.At(res.ID, m.cursor.Slot); ok {
		target = interaction.RecordTarget{ID: a.ID}
	}
	r := m.cellRect(m.cursor)
	m.openMenuAt(interaction.Point{X: r.X + 2, Y: r.Y + 1}, target)
	return m, nil
}

// handleMenuKeys drives the context menu.
func (m Model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.menu = interaction.MoveCursor(m.menu, -1)
	case "down", "j", "tab":
		m.menu = interaction.MoveCursor(m.menu, 1)
	case "right", "l":
		m.openFlyout()
	case "left", "h":
		m.menu = interaction.CloseFlyout(m.menu)
	case "esc", "q":
		m.menu = interaction.MenuCancel(m.menu)
		m.setMode(ModeNormal, "menu cancel")
	case "enter", " ":
		menu, choice := interaction.Select(m.menu)
		m.menu = menu
		if choice == nil {
			m.openFlyout()
			return m, nil
		}
		m.setMode(ModeNormal, "menu choice")
		return m.applyChoice(*choice)
	}
	return m, nil
}

// applyChoice carries out a menu action.
func (m Model) applyChoice(c interaction.Choice) (tea.Model, tea.Cmd) {
	switch t := c.Target.(type) {
	case interaction.CellTarget:
		switch c.Action {
		case interaction.ActionNewBooking:
			m.openDialog(newCreateDialog(m.styles, interaction.CreateRequest{
				ResourceID: t.ResourceID, StartIndex: t.Index, DurationSlots: 1,
			}), "menu")
		case interaction.ActionBlockout:
			m.openDialog(newBlockoutDialog(m.styles, t.ResourceID, t.Index, 1, c.Reason), "menu")
		}
	case interaction.RecordTarget:
		a, err := m.book.Get(t.ID)
		if err != nil {
			return m.setStatus(m.describeErr(err), true)
		}
		switch c.Action {
		case interaction.ActionEdit:
			m.openDialog(newEditDialog(m.styles, a), "menu")
		case interaction.ActionDelete:
			m.openDialog(newDeleteDialog(m.styles, a), "menu")
		case interaction.ActionPin:
			m.popover = interaction.Click(m.popover, a.ID)
		}
	}
	return m, nil
}

// handleMoveKeys moves the carried record's target with the arrows.
func (m Model) handleMoveKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a, err := m.book.Get(m.moveID)
	if err != nil {
		m.moveID = ""
		m.setMode(ModeNormal, "moved record gone")
		return m.setStatus(m.describeErr(err), true)
	}

	switch msg.String() {
	case "h", "left":
		m.moveTarget.Col = max(m.moveTarget.Col-1, 0)
	case "l", "right":
		m.moveTarget.Col = min(m.moveTarget.Col+1, max(len(m.columns)-1, 0))
	case "k", "up":
		m.moveTarget.Slot = m.clock.Clamp(m.moveTarget.Slot-1, a.DurationSlots)
	case "j", "down":
		m.moveTarget.Slot = m.clock.Clamp(m.moveTarget.Slot+1, a.DurationSlots)
	case "esc", "q":
		m.moveID = ""
		m.setMode(ModeNormal, "move cancel")
		return m, nil
	case "enter", " ":
		return m.confirmMove()
	}
	m.cursor = m.moveTarget
	m.ensureVisible(m.moveTarget.Slot)
	return m, nil
}

// confirmMove submits a keyboard move. A conflict is reported and the
// record stays in hand so another target can be tried.
func (m Model) confirmMove() (tea.Model, tea.Cmd) {
	res, ok := m.column(m.moveTarget.Col)
	if !ok {
		return m, nil
	}
	result := interaction.RequestMove(m.book.Mover(m.ctx), m.clock, m.moveID, res.ID, m.moveTarget.Slot)
	m.logMove("keyboard", result)

	switch result.Outcome {
	case interaction.Rejected:
		return m.setStatus(m.describeErr(result.Err), true)
	case interaction.Missing:
		m.moveID = ""
		m.setMode(ModeNormal, "moved record gone")
		return m.setStatus(m.describeErr(result.Err), true)
	}

	m.moveID = ""
	m.setMode(ModeNormal, "move done")
	m.cursor = Position{Col: m.columnOf(result.Appointment.ResourceID), Slot: result.Appointment.StartIndex}
	if result.Outcome == interaction.Unchanged {
		return m, nil
	}
	if m.book.Dirty() {
		return m.setStatus("Moved, but the day could not be saved", true)
	}
	return m.setStatus(fmt.Sprintf("Moved to %s %s", res.DisplayName(), m.clock.IndexToLabel(result.Appointment.StartIndex)), false)
}

// handleDialogKeys forwards keys to the open dialog.
func (m Model) handleDialogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.dialog == nil {
		m.setMode(ModeNormal, "no dialog")
		return m, nil
	}
	result, cmd := m.dialog.update(msg, m.clock)
	switch result {
	case dialogCancel:
		m.closeDialog("dialog cancel")
		return m, nil
	case dialogSubmit:
		return m.submitDialog()
	}
	return m, cmd
}
