package tui

import (
	"testing"

	"github.com/javiermolinar/slotbook/internal/appointment"
	"github.com/javiermolinar/slotbook/internal/interaction"
	"github.com/javiermolinar/slotbook/internal/slotclock"
	"github.com/javiermolinar/slotbook/internal/tui/theme"
)

func testStyles(t *testing.T) *Styles {
	t.Helper()
	th, err := theme.Load("mocha")
	if err != nil {
		t.Fatal(err)
	}
	return NewStyles(th)
}

func TestDialog_AdjustStaysOnGrid(t *testing.T) {
	clock := slotclock.MustNew(9, 20, 15)
	tests := []struct {
		name          string
		start, length int
		field         dialogField
		delta         int
		wantStart     int
		wantLength    int
	}{
		{name: "start forward", start: 4, length: 2, field: fieldStart, delta: 1, wantStart: 5, wantLength: 2},
		{name: "start clamped at end", start: 42, length: 2, field: fieldStart, delta: 1, wantStart: 42, wantLength: 2},
		{name: "start clamped at open", start: 0, length: 2, field: fieldStart, delta: -1, wantStart: 0, wantLength: 2},
		{name: "length grows", start: 4, length: 2, field: fieldLength, delta: 1, wantStart: 4, wantLength: 3},
		{name: "length floor", start: 4, length: 1, field: fieldLength, delta: -1, wantStart: 4, wantLength: 1},
		{name: "length ceiling", start: 43, length: 1, field: fieldLength, delta: 1, wantStart: 43, wantLength: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDialog(testStyles(t), DialogCreate, "R1", tt.start, tt.length)
			d.adjust(tt.field, tt.delta, clock)
			if d.Start != tt.wantStart || d.Duration != tt.wantLength {
				t.Errorf("got %d+%d, want %d+%d", d.Start, d.Duration, tt.wantStart, tt.wantLength)
			}
		})
	}
}

func TestDialog_ReasonWraps(t *testing.T) {
	d := newBlockoutDialog(testStyles(t), "R1", 0, 1, "")
	d.adjust(fieldReason, -1, slotclock.MustNew(9, 20, 15))
	if got, want := d.reason(), interaction.BlockoutReasons[len(interaction.BlockoutReasons)-1]; got != want {
		t.Errorf("reason = %q, want %q", got, want)
	}
}

func TestDialog_CandidateAndPatch(t *testing.T) {
	s := testStyles(t)

	d := newCreateDialog(s, interaction.CreateRequest{ResourceID: "R1", StartIndex: 3, DurationSlots: 2})
	d.label.SetValue("Facial")
	d.guest.SetValue("  Mia ")
	c := d.candidate()
	if c.Kind != appointment.KindBooking || c.Label != "Facial" || c.StartIndex != 3 || c.DurationSlots != 2 {
		t.Errorf("candidate = %+v", c)
	}
	if c.GuestInfo == nil || c.GuestInfo.Name != "Mia" {
		t.Errorf("guest = %+v", c.GuestInfo)
	}

	existing := appointment.NewBlockout("R1", "Cleaning", 5, 2, "mop")
	existing.ID = "b1"
	e := newEditDialog(s, existing)
	if e.Kind != DialogBlockout || e.reason() != "Cleaning" || e.notes.Value() != "mop" {
		t.Fatalf("edit dialog = %+v", e)
	}
	e.adjust(fieldReason, 1, slotclock.MustNew(9, 20, 15))
	p := e.patch()
	if p.Reason == nil || *p.Reason != "Training" || *p.StartIndex != 5 || *p.DurationSlots != 2 {
		t.Errorf("patch = %+v", p)
	}
}

func TestDialog_EditGuest(t *testing.T) {
	s := testStyles(t)
	existing := appointment.NewBooking("R1", 2, 2, "Facial")
	existing.ID = "a1"
	existing.GuestInfo = &appointment.GuestInfo{Name: "Mia", Email: "mia@example.com"}

	tests := []struct {
		name      string
		guest     string
		wantClear bool
		wantGuest *appointment.GuestInfo
	}{
		{name: "unchanged", guest: "Mia"},
		{name: "cleared", guest: "  ", wantClear: true},
		{name: "renamed keeps contact", guest: "Mia Ross", wantGuest: &appointment.GuestInfo{Name: "Mia Ross", Email: "mia@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newEditDialog(s, existing)
			d.guest.SetValue(tt.guest)
			p := d.patch()
			if p.ClearGuest != tt.wantClear {
				t.Errorf("ClearGuest = %v, want %v", p.ClearGuest, tt.wantClear)
			}
			switch {
			case tt.wantGuest == nil && p.GuestInfo != nil:
				t.Errorf("GuestInfo = %+v, want nil", p.GuestInfo)
			case tt.wantGuest != nil && (p.GuestInfo == nil || *p.GuestInfo != *tt.wantGuest):
				t.Errorf("GuestInfo = %+v, want %+v", p.GuestInfo, tt.wantGuest)
			}
		})
	}

	// Clearing the guest on a record without one is a no-op.
	bare := appointment.NewBooking("R1", 2, 2, "Walk-in")
	bare.ID = "a2"
	if p := newEditDialog(s, bare).patch(); p.ClearGuest || p.GuestInfo != nil {
		t.Errorf("patch for guestless record = %+v", p)
	}
}
