// Package export renders a day's appointments for other calendar tools.
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/javiermolinar/slotbook/internal/appointment"
	"github.com/javiermolinar/slotbook/internal/dateutil"
	"github.com/javiermolinar/slotbook/internal/resource"
	"github.com/javiermolinar/slotbook/internal/slotclock"
)

// ErrMissingID is returned for records that were never stored.
var ErrMissingID = errors.New("record has no id")

const (
	productID = "-//slotbook//slotbook//EN"

	propReason   = ical.ComponentProperty("X-SLOTBOOK-REASON")
	propResource = ical.ComponentProperty("X-SLOTBOOK-RESOURCE")
)

// SlotTime returns the wall-clock start of slot index on date in loc.
func SlotTime(date time.Time, clock slotclock.Clock, index int, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, clock.IndexToMinutes(index), 0, 0, loc)
}

// ICS renders records as an iCalendar document with one VEVENT each.
// dir may be nil, in which case resource ids are used as locations.
func ICS(date time.Time, clock slotclock.Clock, dir *resource.Directory, records []appointment.Appointment, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.Local
	}
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName("slotbook " + dateutil.DateKey(date))

	stamp := time.Now().UTC()
	for _, a := range records {
		if a.ID == "" {
			return nil, fmt.Errorf("exporting record on %s: %w", a.ResourceID, ErrMissingID)
		}
		ev := cal.AddEvent(a.ID)
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(SlotTime(date, clock, a.StartIndex, loc))
		ev.SetEndAt(SlotTime(date, clock, a.EndIndex(), loc))
		ev.SetSummary(summary(a))
		ev.SetLocation(location(dir, a.ResourceID))
		ev.SetProperty(propResource, a.ResourceID)
		ev.SetProperty(ical.ComponentPropertyCategories, strings.ToUpper(string(a.Kind)))
		if desc := description(a); desc != "" {
			ev.SetDescription(desc)
		}
		if a.IsBlockout() {
			ev.SetProperty(ical.ComponentPropertyTransp, "OPAQUE")
			if a.Reason != "" {
				ev.SetProperty(propReason, a.Reason)
			}
		}
	}
	return []byte(cal.Serialize()), nil
}

func summary(a appointment.Appointment) string {
	switch {
	case a.Label != "":
		return a.Label
	case a.IsBlockout():
		return "Blocked"
	default:
		return "Booking"
	}
}

func location(dir *resource.Directory, id string) string {
	if dir == nil {
		return id
	}
	r, err := dir.Get(id)
	if err != nil {
		return id
	}
	return r.DisplayName()
}

func description(a appointment.Appointment) string {
	var lines []string
	if a.GuestInfo != nil && a.GuestInfo.Name != "" {
		lines = append(lines, "Guest: "+a.GuestInfo.Name)
	}
	for _, s := range a.ServiceLines {
		lines = append(lines, fmt.Sprintf("%s x%d @ %.2f", s.Name, max(s.Quantity, 1), s.Price))
	}
	if a.Notes != "" {
		lines = append(lines, a.Notes)
	}
	if a.CreatedBy != "" {
		lines = append(lines, "Booked by "+a.CreatedBy)
	}
	return strings.Join(lines, "\n")
}
