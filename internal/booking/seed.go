package booking

import (
	"time"

	"github.com/javiermolinar/slotbook/internal/appointment"
	"github.com/javiermolinar/slotbook/internal/dateutil"
	"github.com/javiermolinar/slotbook/internal/resource"
	"github.com/javiermolinar/slotbook/internal/slotclock"
	"github.com/javiermolinar/slotbook/internal/snapshot"
)

// DemoSeed returns a seed that fills on with a few sample records spread over
// the first resources of dir. Other dates start empty.
func DemoSeed(dir *resource.Directory, clock slotclock.Clock, on time.Time) snapshot.SeedFunc {
	return func(date time.Time) []appointment.Appointment {
		if !dateutil.SameDay(date, on) || dir.Len() == 0 {
			return nil
		}
		total := clock.TotalSlots()
		perHour := max(60/clock.SlotMinutes(), 1)

		var out []appointment.Appointment
		add := func(a appointment.Appointment) {
			if clock.InBounds(a.StartIndex, a.DurationSlots) {
				a.CreatedBy = "demo"
				out = append(out, a)
			}
		}

		first, _ := dir.At(0)
		add(appointment.NewBooking(first.ID, perHour, perHour, "Consultation"))
		add(appointment.NewBooking(first.ID, 2*perHour, perHour/2+1, "Follow-up"))
		if second, ok := dir.At(1); ok {
			add(appointment.NewBlockout(second.ID, "Cleaning", 0, perHour, ""))
			add(appointment.NewBooking(second.ID, 3*perHour, perHour*2, "Group session"))
		}
		if last, ok := dir.At(dir.Len() - 1); ok && dir.Len() > 2 {
			add(appointment.NewBlockout(last.ID, "Training", max(total-2*perHour, 0), 2*perHour, "staff training"))
		}
		return out
	}
}
