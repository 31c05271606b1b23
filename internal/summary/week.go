// Package summary aggregates stored days into a week report.
package summary

import (
	"context"
	"time"

	"github.com/javiermolinar/slotbook/internal/appointment"
	"github.com/javiermolinar/slotbook/internal/dateutil"
	"github.com/javiermolinar/slotbook/internal/resource"
	"github.com/javiermolinar/slotbook/internal/scheduler"
	"github.com/javiermolinar/slotbook/internal/slotclock"
	"github.com/javiermolinar/slotbook/internal/snapshot"
)

// Day holds one date's totals.
type Day struct {
	Date           time.Time
	Source         snapshot.Source
	Bookings       int
	Blockouts      int
	BookedMinutes  int
	BlockedMinutes int
	FreeMinutes    int
}

// Stored reports whether the day had a snapshot.
func (d Day) Stored() bool {
	return d.Source == snapshot.SourceStored
}

// Week is seven consecutive days starting on a Monday.
type Week struct {
	Start       time.Time
	End         time.Time
	Days        []Day
	OpenMinutes int // per day, across all resources
}

// Totals sums every day of the week.
func (w *Week) Totals() Day {
	var t Day
	for _, d := range w.Days {
		t.Bookings += d.Bookings
		t.Blockouts += d.Blockouts
		t.BookedMinutes += d.BookedMinutes
		t.BlockedMinutes += d.BlockedMinutes
		t.FreeMinutes += d.FreeMinutes
	}
	return t
}

// Utilization returns booked time as a percentage of unblocked time for the
// whole week.
func (w *Week) Utilization() int {
	t := w.Totals()
	return percent(t.BookedMinutes, w.OpenMinutes*len(w.Days)-t.BlockedMinutes)
}

// DayUtilization returns the same ratio for one day.
func (w *Week) DayUtilization(d Day) int {
	return percent(d.BookedMinutes, w.OpenMinutes-d.BlockedMinutes)
}

// Busiest returns the day with the most booked minutes; ok is false when the
// week is empty.
func (w *Week) Busiest() (Day, bool) {
	var best Day
	found := false
	for _, d := range w.Days {
		if d.BookedMinutes > best.BookedMinutes {
			best, found = d, true
		}
	}
	return best, found
}

// BuildWeek loads the week containing ref. Records on resources that are not
// in dir are left out. Days without a stored snapshot count as free, even
// when the adapter would seed them.
func BuildWeek(ctx context.Context, adapter *snapshot.Adapter, clock slotclock.Clock, dir *resource.Directory, ref time.Time) (*Week, error) {
	start, end := dateutil.WeekRange(ref)
	sched := scheduler.New(clock)
	slot := clock.SlotMinutes()

	w := &Week{
		Start:       start,
		End:         end,
		OpenMinutes: clock.TotalSlots() * slot * dir.Len(),
	}
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records, source := adapter.Load(ctx, date)
		if source != snapshot.SourceStored {
			// Seed records are not bookings until the day is opened.
			records = nil
		}
		d := Day{Date: date, Source: source}

		byResource := make(map[string][]appointment.Appointment)
		for _, a := range records {
			if !dir.Has(a.ResourceID) {
				continue
			}
			byResource[a.ResourceID] = append(byResource[a.ResourceID], a)
			minutes := a.DurationSlots * slot
			if a.IsBlockout() {
				d.Blockouts++
				d.BlockedMinutes += minutes
			} else {
				d.Bookings++
				d.BookedMinutes += minutes
			}
		}
		for _, r := range dir.All() {
			d.FreeMinutes += scheduler.FreeSlots(sched.Gaps(byResource[r.ID], 0)) * slot
		}
		w.Days = append(w.Days, d)
	}
	return w, nil
}

func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return part * 100 / whole
}
