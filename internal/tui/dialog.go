package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/slotbook/internal/appointment"
	"github.com/javiermolinar/slotbook/internal/interaction"
	"github.com/javiermolinar/slotbook/internal/slotclock"
)

// DialogKind identifies the dialog.
type DialogKind int

const (
	DialogCreate DialogKind = iota
	DialogEdit
	DialogBlockout
	DialogConfirmDelete
)

type dialogField int

const (
	fieldLabel dialogField = iota
	fieldGuest
	fieldReason
	fieldNotes
	fieldStart
	fieldLength
)

// Dialog collects the fields a booking needs beyond its slot range.
type Dialog struct {
	Kind       DialogKind
	ID         string // record being edited or deleted
	ResourceID string
	Start      int
	Duration   int
	Reason     int // index into interaction.BlockoutReasons

	label textinput.Model
	guest textinput.Model
	notes textinput.Model
	prior *appointment.GuestInfo // guest of the record being edited

	fields []dialogField
	focus  int
	err    string
}

// dialogResult tells the model what a key did to the dialog.
type dialogResult int

const (
	dialogContinue dialogResult = iota
	dialogSubmit
	dialogCancel
)

func newInput(s *Styles, placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 32
	ti.Prompt = ""
	ti.TextStyle = s.BoxTextStyle
	ti.PlaceholderStyle = s.BoxMutedStyle
	ti.Cursor.Style = s.BoxSelectedStyle
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func newDialog(s *Styles, kind DialogKind, resourceID string, start, duration int) *Dialog {
	d := &Dialog{
		Kind:       kind,
		ResourceID: resourceID,
		Start:      start,
		Duration:   max(duration, 1),
		label:      newInput(s, "Label", 80),
		guest:      newInput(s, "Guest name", 80),
		notes:      newInput(s, "Notes", 256),
	}
	switch kind {
	case DialogCreate, DialogEdit:
		d.fields = []dialogField{fieldLabel, fieldGuest, fieldNotes, fieldStart, fieldLength}
	case DialogBlockout:
		d.fields = []dialogField{fieldReason, fieldNotes, fieldStart, fieldLength}
	}
	d.setFocus(0)
	return d
}

// newCreateDialog seeds a booking dialog from a finished selection.
func newCreateDialog(s *Styles, req interaction.CreateRequest) *Dialog {
	return newDialog(s, DialogCreate, req.ResourceID, req.StartIndex, req.DurationSlots)
}

// newBlockoutDialog opens the blockout form with reason preselected.
func newBlockoutDialog(s *Styles, resourceID string, start, duration int, reason string) *Dialog {
	d := newDialog(s, DialogBlockout, resourceID, start, duration)
	for i, r := range interaction.BlockoutReasons {
		if strings.EqualFold(r, reason) {
			d.Reason = i
		}
	}
	return d
}

// newEditDialog prefills the form from a.
func newEditDialog(s *Styles, a appointment.Appointment) *Dialog {
	kind := DialogEdit
	if a.IsBlockout() {
		kind = DialogBlockout
	}
	d := newDialog(s, kind, a.ResourceID, a.StartIndex, a.DurationSlots)
	d.ID = a.ID
	d.label.SetValue(a.Label)
	d.notes.SetValue(a.Notes)
	if a.GuestInfo != nil {
		g := *a.GuestInfo
		d.prior = &g
		d.guest.SetValue(g.Name)
	}
	for i, r := range interaction.BlockoutReasons {
		if strings.EqualFold(r, a.Reason) {
			d.Reason = i
		}
	}
	return d
}

func newDeleteDialog(s *Styles, a appointment.Appointment) *Dialog {
	d := newDialog(s, DialogConfirmDelete, a.ResourceID, a.StartIndex, a.DurationSlots)
	d.ID = a.ID
	d.label.SetValue(a.Label)
	return d
}

func (d *Dialog) setFocus(i int) {
	if len(d.fields) == 0 {
		return
	}
	d.focus = (i%len(d.fields) + len(d.fields)) % len(d.fields)
	d.label.Blur()
	d.guest.Blur()
	d.notes.Blur()
	if in := d.input(d.fields[d.focus]); in != nil {
		in.Focus()
	}
}

func (d *Dialog) input(f dialogField) *textinput.Model {
	switch f {
	case fieldLabel:
		return &d.label
	case fieldGuest:
		return &d.guest
	case fieldNotes:
		return &d.notes
	default:
		return nil
	}
}

func (d *Dialog) focused() (dialogField, bool) {
	if len(d.fields) == 0 {
		return 0, false
	}
	return d.fields[d.focus], true
}

// adjust steps a choice field by delta, keeping the range on the grid.
func (d *Dialog) adjust(f dialogField, delta int, clock slotclock.Clock) {
	switch f {
	case fieldStart:
		d.Start = clock.Clamp(d.Start+delta, d.Duration)
	case fieldLength:
		d.Duration = min(max(d.Duration+delta, 1), clock.TotalSlots()-d.Start)
	case fieldReason:
		n := len(interaction.BlockoutReasons)
		d.Reason = ((d.Reason+delta)%n + n) % n
	}
}

// update handles a key press inside the dialog.
func (d *Dialog) update(msg tea.KeyMsg, clock slotclock.Clock) (dialogResult, tea.Cmd) {
	if d.Kind == DialogConfirmDelete {
		switch msg.String() {
		case "enter", "y":
			return dialogSubmit, nil
		case "esc", "n", "q":
			return dialogCancel, nil
		}
		return dialogContinue, nil
	}

	field, _ := d.focused()
	switch msg.String() {
	case "esc":
		return dialogCancel, nil
	case "enter":
		return dialogSubmit, nil
	case "tab", "down":
		d.setFocus(d.focus + 1)
		return dialogContinue, nil
	case "shift+tab", "up":
		d.setFocus(d.focus - 1)
		return dialogContinue, nil
	case "left", "right":
		if d.input(field) == nil {
			delta := 1
			if msg.String() == "left" {
				delta = -1
			}
			d.adjust(field, delta, clock)
			return dialogContinue, nil
		}
	}

	if in := d.input(field); in != nil {
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		d.err = ""
		return dialogContinue, cmd
	}
	return dialogContinue, nil
}

// reason returns the selected blockout reason.
func (d *Dialog) reason() string {
	return interaction.BlockoutReasons[d.Reason]
}

// candidate builds the record a create or blockout dialog submits.
func (d *Dialog) candidate() appointment.Appointment {
	if d.Kind == DialogBlockout {
		return appointment.NewBlockout(d.ResourceID, d.reason(), d.Start, d.Duration, strings.TrimSpace(d.notes.Value()))
	}
	a := appointment.NewBooking(d.ResourceID, d.Start, d.Duration, d.label.Value())
	a.Notes = strings.TrimSpace(d.notes.Value())
	if name := strings.TrimSpace(d.guest.Value()); name != "" {
		a.GuestInfo = &appointment.GuestInfo{Name: name}
	}
	return a
}

// patch builds the update an edit dialog submits.
func (d *Dialog) patch() appointment.Patch {
	p := appointment.Patch{
		StartIndex:    appointment.Ptr(d.Start),
		DurationSlots: appointment.Ptr(d.Duration),
		Notes:         appointment.Ptr(strings.TrimSpace(d.notes.Value())),
	}
	if d.Kind == DialogBlockout {
		p.Reason = appointment.Ptr(d.reason())
		p.Label = appointment.Ptr(d.reason())
		return p
	}
	p.Label = appointment.Ptr(d.label.Value())
	name := strings.TrimSpace(d.guest.Value())
	switch {
	case name == "":
		p.ClearGuest = d.prior != nil
	case d.prior == nil:
		p.GuestInfo = &appointment.GuestInfo{Name: name}
	case name != d.prior.Name:
		g := *d.prior
		g.Name = name
		p.GuestInfo = &g
	}
	return p
}

func (d *Dialog) title(resourceName string) string {
	switch d.Kind {
	case DialogEdit:
		return "Edit booking · " + resourceName
	case DialogBlockout:
		if d.ID != "" {
			return "Edit blockout · " + resourceName
		}
		return "Block out · " + resourceName
	case DialogConfirmDelete:
		return "Delete · " + resourceName
	default:
		return "New booking · " + resourceName
	}
}

// render draws the dialog box.
func (d *Dialog) render(s *Styles, clock slotclock.Clock, resourceName string) string {
	span := fmt.Sprintf("%s - %s", clock.IndexToLabel(d.Start), clock.IndexToLabel(d.Start+d.Duration))
	lines := []string{s.BoxTitleStyle.Render(d.title(resourceName)), ""}

	if d.Kind == DialogConfirmDelete {
		label := d.label.Value()
		if label == "" {
			label = "this record"
		}
		lines = append(lines,
			s.BoxTextStyle.Render(fmt.Sprintf("Delete %q at %s?", label, span)),
			"",
			s.BoxMutedStyle.Render("enter/y delete · esc/n keep"),
		)
		return s.BoxStyle.Render(strings.Join(lines, "\n"))
	}

	for i, f := range d.fields {
		name, value := d.fieldView(f, clock)
		marker := "  "
		nameStyle := s.BoxMutedStyle
		if i == d.focus {
			marker = "> "
			nameStyle = s.BoxSelectedStyle
		}
		lines = append(lines, s.BoxTextStyle.Render(marker)+nameStyle.Render(fmt.Sprintf("%-7s", name))+s.BoxTextStyle.Render(" ")+value)
	}
	lines = append(lines, "", s.BoxMutedStyle.Render(span))
	if d.err != "" {
		lines = append(lines, s.BoxErrorStyle.Render(d.err))
	}
	lines = append(lines, s.BoxMutedStyle.Render("tab next · ←/→ change · enter save · esc cancel"))
	return s.BoxStyle.Render(strings.Join(lines, "\n"))
}

func (d *Dialog) fieldView(f dialogField, clock slotclock.Clock) (string, string) {
	switch f {
	case fieldLabel:
		return "Label", d.label.View()
	case fieldGuest:
		return "Guest", d.guest.View()
	case fieldNotes:
		return "Notes", d.notes.View()
	case fieldReason:
		return "Reason", "‹ " + d.reason() + " ›"
	case fieldStart:
		return "Start", "‹ " + clock.IndexToLabel(d.Start) + " ›"
	case fieldLength:
		return "Length", fmt.Sprintf("‹ %d min ›", d.Duration*clock.SlotMinutes())
	default:
		return "", ""
	}
}
