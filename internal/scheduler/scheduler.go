// Package scheduler finds open time on a resource's day.
package scheduler

import (
	"slices"
	"time"

	"github.com/javiermolinar/slotbook/internal/appointment"
	"github.com/javiermolinar/slotbook/internal/dateutil"
	"github.com/javiermolinar/slotbook/internal/slotclock"
)

// Gap is a run of free slots on one resource.
type Gap struct {
	Start    int
	Duration int
}

// End returns the exclusive end index.
func (g Gap) End() int {
	return g.Start + g.Duration
}

// Scheduler answers availability questions against a slot grid.
type Scheduler struct {
	clock slotclock.Clock
}

// New creates a Scheduler for clock.
func New(clock slotclock.Clock) *Scheduler {
	return &Scheduler{clock: clock}
}

// NextAvailableStart returns the earliest slot on day that has not started
// at now. Before opening hours that is slot 0; on a future day it is slot 0;
// on a past day, or after the last slot today, ok is false.
func (s *Scheduler) NextAvailableStart(day, now time.Time) (int, bool) {
	day = dateutil.TruncateToDay(day)
	today := dateutil.TruncateToDay(now)
	switch {
	case dateutil.SameDay(day, today):
	case day.After(today):
		return 0, true
	default:
		return 0, false
	}

	cfg := s.clock.Config()
	offset := now.Hour()*60 + now.Minute() - cfg.StartHour*60
	partial := now.Second() > 0 || now.Nanosecond() > 0
	if offset < 0 || (offset == 0 && !partial) {
		return 0, true
	}
	index := roundUp(offset, partial, cfg.SlotMinutes)
	if index >= s.clock.TotalSlots() {
		return 0, false
	}
	return index, true
}

// Gaps returns the free runs at or after from, in index order. records may
// belong to any single resource and need not be sorted.
func (s *Scheduler) Gaps(records []appointment.Appointment, from int) []Gap {
	total := s.clock.TotalSlots()
	from = max(from, 0)
	if from >= total {
		return nil
	}

	sorted := slices.Clone(records)
	slices.SortFunc(sorted, func(a, b appointment.Appointment) int {
		return a.StartIndex - b.StartIndex
	})

	var gaps []Gap
	cursor := from
	for _, a := range sorted {
		if a.EndIndex() <= cursor {
			continue
		}
		if a.StartIndex > cursor {
			gaps = append(gaps, Gap{Start: cursor, Duration: min(a.StartIndex, total) - cursor})
		}
		cursor = max(cursor, a.EndIndex())
		if cursor >= total {
			return gaps
		}
	}
	if cursor < total {
		gaps = append(gaps, Gap{Start: cursor, Duration: total - cursor})
	}
	return gaps
}

// FirstFit returns the earliest start at or after from where duration slots
// are free.
func (s *Scheduler) FirstFit(records []appointment.Appointment, duration, from int) (int, bool) {
	if duration < 1 {
		return 0, false
	}
	for _, g := range s.Gaps(records, from) {
		if g.Duration >= duration {
			return g.Start, true
		}
	}
	return 0, false
}

// CanFit reports whether [start, start+duration) is inside the grid and
// clear of records.
func (s *Scheduler) CanFit(records []appointment.Appointment, start, duration int) bool {
	if !s.clock.InBounds(start, duration) {
		return false
	}
	for _, a := range records {
		if appointment.Overlaps(start, duration, a.StartIndex, a.DurationSlots) {
			return false
		}
	}
	return true
}

// FreeSlots counts the free slots in gaps.
func FreeSlots(gaps []Gap) int {
	n := 0
	for _, g := range gaps {
		n += g.Duration
	}
	return n
}

// roundUp converts minutes past opening into a slot index, moving to the next
// boundary when the time is inside a slot.
func roundUp(offset int, partial bool, slotMinutes int) int {
	index := offset / slotMinutes
	if offset%slotMinutes != 0 || partial {
		index++
	}
	return index
}
