package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/javiermolinar/slotbook/internal/appointment"
	"github.com/javiermolinar/slotbook/internal/booking"
	"github.com/javiermolinar/slotbook/internal/resource"
	"github.com/javiermolinar/slotbook/internal/slotclock"
)

// ErrAmbiguousID is returned when an id prefix matches several records.
var ErrAmbiguousID = errors.New("id prefix matches more than one appointment")

// resolveID finds the record whose id is arg or starts with arg.
func resolveID(book *booking.Book, arg string) (appointment.Appointment, error) {
	if a, err := book.Get(arg); err == nil {
		return a, nil
	}
	var found []appointment.Appointment
	for _, a := range book.All() {
		if strings.HasPrefix(a.ID, arg) {
			found = append(found, a)
		}
	}
	switch len(found) {
	case 0:
		return appointment.Appointment{}, &appointment.NotFoundError{ID: arg}
	case 1:
		return found[0], nil
	default:
		return appointment.Appointment{}, fmt.Errorf("%w: %q", ErrAmbiguousID, arg)
	}
}

// onResources keeps the records whose resource is in dir.
func onResources(records []appointment.Appointment, dir *resource.Directory) []appointment.Appointment {
	out := records[:0:0]
	for _, a := range records {
		if dir.Has(a.ResourceID) {
			out = append(out, a)
		}
	}
	return out
}

// slotRange converts --start/--end (or --slots) into a start index and a
// duration in slots.
func slotRange(clock slotclock.Clock, start, end string, slots int) (int, int, error) {
	from, err := clock.TimeToIndex(start)
	if err != nil {
		return 0, 0, fmt.Errorf("--start: %w", err)
	}
	if slots > 0 {
		return from, slots, nil
	}
	if end == "" {
		return from, 1, nil
	}
	to, err := clock.TimeToIndex(end)
	if err != nil {
		return 0, 0, fmt.Errorf("--end: %w", err)
	}
	return from, to - from, nil
}

// explain rewrites engine errors for the terminal.
func explain(clock slotclock.Clock, err error) error {
	var conflict *appointment.ConflictError
	if errors.As(err, &conflict) {
		e := conflict.Existing
		what := e.Label
		if e.IsBlockout() {
			what = "blockout (" + e.Reason + ")"
		}
		return fmt.Errorf("%s %q %s-%s [%s]: %w", formatWarn("conflicts with"), what,
			clock.IndexToTime(e.StartIndex), clock.IndexToTime(e.EndIndex()), shortID(e.ID), appointment.ErrConflict)
	}
	return err
}
