package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/javiermolinar/slotbook/internal/appointment"
	"github.com/javiermolinar/slotbook/internal/resource"
	"github.com/javiermolinar/slotbook/internal/slotclock"
)

func TestSlotTime(t *testing.T) {
	clock := slotclock.MustNew(9, 20, 15)
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		index int
		want  string
	}{
		{0, "09:00"},
		{5, "10:15"},
		{44, "20:00"},
	}
	for _, tt := range tests {
		if got := SlotTime(date, clock, tt.index, time.UTC).Format("15:04"); got != tt.want {
			t.Errorf("SlotTime(%d) = %s, want %s", tt.index, got, tt.want)
		}
	}
}

func TestICS(t *testing.T) {
	clock := slotclock.MustNew(9, 20, 15)
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	dir, err := resource.NewDirectory([]resource.Resource{
		{ID: "R1", Name: "Room One", Category: resource.CategoryRoom},
		{ID: "R2", Category: resource.CategoryRoom},
	})
	if err != nil {
		t.Fatal(err)
	}

	records := []appointment.Appointment{
		{ID: "a1", ResourceID: "R1", StartIndex: 4, DurationSlots: 4, Kind: appointment.KindBooking,
			Label: "Massage", GuestInfo: &appointment.GuestInfo{Name: "Ana"}},
		{ID: "a2", ResourceID: "R2", StartIndex: 0, DurationSlots: 2, Kind: appointment.KindBlockout,
			Label: "Cleaning", Reason: "Cleaning"},
	}

	data, err := ICS(date, clock, dir, records, time.UTC)
	if err != nil {
		t.Fatalf("ICS: %v", err)
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ParseCalendar: %v", err)
	}
	events := cal.Events()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	first := events[0]
	if uid := first.GetProperty(ical.ComponentPropertyUniqueId); uid == nil || uid.Value != "a1" {
		t.Errorf("UID = %v", uid)
	}
	if loc := first.GetProperty(ical.ComponentPropertyLocation); loc == nil || loc.Value != "Room One" {
		t.Errorf("LOCATION = %v", loc)
	}
	start, err := first.GetStartAt()
	if err != nil {
		t.Fatal(err)
	}
	end, err := first.GetEndAt()
	if err != nil {
		t.Fatal(err)
	}
	if !start.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)) || !end.Equal(time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC)) {
		t.Errorf("interval = %v - %v, want 10:00-11:00", start, end)
	}

	text := string(data)
	for _, want := range []string{"X-SLOTBOOK-REASON:Cleaning", "TRANSP:OPAQUE", "CATEGORIES:BLOCKOUT", "LOCATION:R2"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestICS_RequiresIDs(t *testing.T) {
	clock := slotclock.MustNew(9, 20, 15)
	_, err := ICS(time.Now(), clock, nil, []appointment.Appointment{{ResourceID: "R1", DurationSlots: 1}}, nil)
	if !errors.Is(err, ErrMissingID) {
		t.Errorf("err = %v, want ErrMissingID", err)
	}
}
