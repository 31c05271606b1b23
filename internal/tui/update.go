package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/slotbook/internal/appointment"
	"github.com/javiermolinar/slotbook/internal/booking"
	"github.com/javiermolinar/slotbook/internal/interaction"
	"github.com/javiermolinar/slotbook/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureVisible(m.cursor.Slot)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case commands.StatusMsg:
		return m.setStatus(msg.Msg, false)

	case commands.ErrMsg:
		m.logger.Warn().Err(msg.Err).Msg("command failed")
		return m.setStatus(msg.Err.Error(), true)

	case commands.ClearStatusMsg:
		if m.statusTime.IsZero() || m.now().Sub(m.statusTime) >= commands.StatusDuration {
			m.statusMsg = ""
			m.statusWarn = false
		}
		return m, nil
	}
	return m, nil
}

// setStatus shows msg in the footer and schedules its removal.
func (m Model) setStatus(msg string, warn bool) (Model, tea.Cmd) {
	m.statusMsg = msg
	m.statusWarn = warn
	m.statusTime = m.now()
	return m, commands.ClearStatusAfter(commands.StatusDuration)
}

func (m *Model) setMode(to Mode, reason string) {
	m.logModeChange(to, reason)
	m.mode = to
}

// describeErr turns an engine error into a line for the user.
func (m Model) describeErr(err error) string {
	var conflict *appointment.ConflictError
	switch {
	case errors.As(err, &conflict):
		e := conflict.Existing
		what := e.Label
		if e.IsBlockout() {
			what = "blocked: " + e.Reason
		}
		return fmt.Sprintf("Conflicts with %q (%s - %s)", what,
			m.clock.IndexToLabel(e.StartIndex), m.clock.IndexToLabel(e.EndIndex()))
	case errors.Is(err, booking.ErrPersist):
		return "Not saved: " + strings.TrimPrefix(err.Error(), booking.ErrPersist.Error()+": ")
	case errors.Is(err, appointment.ErrOutOfBounds):
		return "That time is outside opening hours"
	case errors.Is(err, appointment.ErrInvalidDuration):
		return "Length must be at least one slot"
	case errors.Is(err, appointment.ErrNotFound):
		return "That record no longer exists"
	default:
		return err.Error()
	}
}

// submitDialog applies the dialog to the book. Validation failures keep the
// dialog open with the message; a save failure closes it and warns, since
// the change is already applied in memory.
func (m Model) submitDialog() (tea.Model, tea.Cmd) {
	d := m.dialog
	var (
		err    error
		status string
	)
	switch d.Kind {
	case DialogCreate:
		var a appointment.Appointment
		a, err = m.book.Create(m.ctx, d.candidate())
		status = "Booked " + a.Label
	case DialogBlockout:
		if d.ID == "" {
			var a appointment.Appointment
			a, err = m.book.Create(m.ctx, d.candidate())
			status = "Blocked out for " + a.Reason
		} else {
			_, err = m.book.Update(m.ctx, d.ID, d.patch())
			status = "Blockout updated"
		}
	case DialogEdit:
		_, err = m.book.Update(m.ctx, d.ID, d.patch())
		status = "Booking updated"
	case DialogConfirmDelete:
		err = m.book.Remove(m.ctx, d.ID)
		status = "Deleted"
	}

	if err != nil && !errors.Is(err, booking.ErrPersist) {
		m.dialog.err = m.describeErr(err)
		return m, nil
	}

	m.closeDialog("submit")
	m.popover = m.dismissStalePopover()
	if err != nil {
		return m.setStatus(m.describeErr(err), true)
	}
	return m.setStatus(status, false)
}

func (m *Model) openDialog(d *Dialog, reason string) {
	m.dialog = d
	m.selection = interaction.Cancel(m.selection)
	m.drag = interaction.CancelDrag(m.drag)
	m.menu = interaction.MenuCancel(m.menu)
	m.press = nil
	m.setMode(ModeDialog, reason)
}

func (m *Model) closeDialog(reason string) {
	m.dialog = nil
	m.setMode(ModeNormal, reason)
}

// dismissStalePopover closes the popover if its record was removed.
func (m Model) dismissStalePopover() interaction.Popover {
	id, ok := interaction.PopoverID(m.popover)
	if !ok {
		return m.popover
	}
	if _, err := m.book.Get(id); err != nil {
		return interaction.Dismiss(m.popover)
	}
	return m.popover
}
