package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/slotbook/internal/appointment"
	"github.com/javiermolinar/slotbook/internal/resource"
	"github.com/javiermolinar/slotbook/internal/slotclock"
)

// Stats aggregates slot usage for one day.
type Stats struct {
	SlotMinutes     int
	OpenMinutes     int // per resource
	Resources       int
	BookedMinutes   int
	BlockedMinutes  int
	Bookings        int
	Blockouts       int
	ResourceBooked  map[string]int
	ResourceBlocked map[string]int
}

// NewStats sums records over the directory for a day on clock.
func NewStats(clock slotclock.Clock, dir *resource.Directory, records []appointment.Appointment) Stats {
	s := Stats{
		SlotMinutes:     clock.SlotMinutes(),
		OpenMinutes:     clock.TotalSlots() * clock.SlotMinutes(),
		Resources:       dir.Len(),
		ResourceBooked:  make(map[string]int),
		ResourceBlocked: make(map[string]int),
	}
	for _, a := range records {
		minutes := a.DurationSlots * s.SlotMinutes
		if a.IsBlockout() {
			s.Blockouts++
			s.BlockedMinutes += minutes
			s.ResourceBlocked[a.ResourceID] += minutes
			continue
		}
		s.Bookings++
		s.BookedMinutes += minutes
		s.ResourceBooked[a.ResourceID] += minutes
	}
	return s
}

// CapacityMinutes is the time that could be booked: opening hours across
// all resources minus blockouts.
func (s Stats) CapacityMinutes() int {
	return max(s.OpenMinutes*s.Resources-s.BlockedMinutes, 0)
}

// Utilization returns booked time as a percentage of capacity.
func (s Stats) Utilization() int {
	if s.CapacityMinutes() == 0 {
		return 0
	}
	return (s.BookedMinutes * 100) / s.CapacityMinutes()
}

// Busiest returns the resource with the most booked minutes.
func (s Stats) Busiest() (id string, minutes int) {
	for r, m := range s.ResourceBooked {
		if m > minutes || (m == minutes && r < id) {
			id, minutes = r, m
		}
	}
	return id, minutes
}

// PrintStats prints the stats summary lines.
func PrintStats(w io.Writer, s Stats) {
	booked := formatBooking(fmt.Sprintf("Booked: %s", FormatDuration(s.BookedMinutes)))
	blocked := formatBlockout(fmt.Sprintf("Blocked: %s", FormatDuration(s.BlockedMinutes)))
	fmt.Fprintf(w, "  %s  |  %s  |  Bookings: %d  |  Blockouts: %d\n", booked, blocked, s.Bookings, s.Blockouts)
	fmt.Fprintf(w, "  Utilization: %s\n", UtilizationBar(s.BookedMinutes, s.CapacityMinutes(), 20))
	if id, minutes := s.Busiest(); minutes > 0 {
		fmt.Fprintf(w, "  Busiest: %s (%s)\n", id, formatStats(FormatDuration(minutes)))
	}
}

// UtilizationBar draws booked against capacity.
func UtilizationBar(booked, capacity, width int) string {
	if capacity == 0 {
		return "[" + strings.Repeat("░", width) + "] (0%)"
	}
	pct := (booked * 100) / capacity
	filled := min((booked*width)/capacity, width)

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s", formatBooking(bar), formatStats(fmt.Sprintf("(%d%%)", pct)))
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

// labelWidth is how much of a row the label may use.
func labelWidth(defaultWidth int) int {
	// "  HH:MM-HH:MM  [B]  " plus the id column
	const overhead = 20 + 10
	return max(termWidth()-overhead, defaultWidth)
}

// PrintRecordRow prints one appointment line.
func PrintRecordRow(w io.Writer, clock slotclock.Clock, a appointment.Appointment, maxLabel int) {
	tag := formatBooking("[B]")
	label := a.Label
	if a.IsBlockout() {
		tag = formatBlockout("[X]")
		label = a.Reason
		if a.Notes != "" {
			label += ": " + a.Notes
		}
	} else if a.GuestInfo != nil && a.GuestInfo.Name != "" {
		label += " (" + a.GuestInfo.Name + ")"
	}
	label = ansi.Truncate(label, maxLabel, "...")

	fmt.Fprintf(w, "  %s-%s  %s  %-*s  %s\n",
		clock.IndexToTime(a.StartIndex), clock.IndexToTime(a.EndIndex()),
		tag, maxLabel, label, formatMuted(shortID(a.ID)))
}

// shortID trims a UUID to its first group for display. Commands accept the
// short form as a prefix.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
