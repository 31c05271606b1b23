// Package slotclock converts between wall-clock time of day and slot indices
// on a fixed-size scheduling grid.
package slotclock

import (
	"errors"
	"fmt"
	"iter"
	"time"
)

// ErrMalformedConfig is the sentinel wrapped by MalformedConfigError.
var ErrMalformedConfig = errors.New("malformed slot configuration")

// ErrInvalidTime is returned by TimeToIndex for times off the grid.
var ErrInvalidTime = errors.New("time is not on the slot grid")

// MalformedConfigError reports a configuration whose range does not divide
// into a positive whole number of slots.
type MalformedConfigError struct {
	Config Config
	Reason string
}

func (e *MalformedConfigError) Error() string {
	return fmt.Sprintf("%v: %s (start=%d end=%d slot=%dm)",
		ErrMalformedConfig, e.Reason, e.Config.StartHour, e.Config.EndHour, e.Config.SlotMinutes)
}

func (e *MalformedConfigError) Unwrap() error {
	return ErrMalformedConfig
}

// Config is the visible day range and slot length.
type Config struct {
	StartHour   int // 0-23, inclusive
	EndHour     int // 1-24, exclusive
	SlotMinutes int
}

// LabelOption pairs a slot index with its display label.
type LabelOption struct {
	Index int
	Label string
}

// Clock is a validated Config. The zero value is not usable; build one
// with New or FromConfig.
type Clock struct {
	cfg   Config
	total int
}

// New validates the range and returns a Clock.
func New(startHour, endHour, slotMinutes int) (Clock, error) {
	return FromConfig(Config{StartHour: startHour, EndHour: endHour, SlotMinutes: slotMinutes})
}

// FromConfig validates cfg and returns a Clock.
func FromConfig(cfg Config) (Clock, error) {
	if cfg.StartHour < 0 || cfg.StartHour > 23 {
		return Clock{}, &MalformedConfigError{Config: cfg, Reason: "start hour out of range"}
	}
	if cfg.EndHour < 1 || cfg.EndHour > 24 {
		return Clock{}, &MalformedConfigError{Config: cfg, Reason: "end hour out of range"}
	}
	if cfg.SlotMinutes <= 0 {
		return Clock{}, &MalformedConfigError{Config: cfg, Reason: "slot length must be positive"}
	}
	span := (cfg.EndHour - cfg.StartHour) * 60
	if span <= 0 {
		return Clock{}, &MalformedConfigError{Config: cfg, Reason: "end hour must be after start hour"}
	}
	if span%cfg.SlotMinutes != 0 {
		return Clock{}, &MalformedConfigError{Config: cfg, Reason: "range is not a whole number of slots"}
	}
	return Clock{cfg: cfg, total: span / cfg.SlotMinutes}, nil
}

// MustNew is like New but panics on a malformed configuration.
// Intended for tests and package-level defaults.
func MustNew(startHour, endHour, slotMinutes int) Clock {
	c, err := New(startHour, endHour, slotMinutes)
	if err != nil {
		panic(err)
	}
	return c
}

// Config returns the configuration the clock was built from.
func (c Clock) Config() Config {
	return c.cfg
}

// TotalSlots returns the number of slots in the visible day.
func (c Clock) TotalSlots() int {
	return c.total
}

// SlotMinutes returns the slot length in minutes.
func (c Clock) SlotMinutes() int {
	return c.cfg.SlotMinutes
}

// IndexToMinutes returns minutes since midnight for the start of slot index.
func (c Clock) IndexToMinutes(index int) int {
	return c.cfg.StartHour*60 + index*c.cfg.SlotMinutes
}

// IndexToLabel formats the start of slot index as "h:mm AM/PM".
func (c Clock) IndexToLabel(index int) string {
	total := c.IndexToMinutes(index)
	hour := (total / 60) % 24
	minute := total % 60

	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, suffix)
}

// IndexToTime formats the start of slot index as 24-hour "HH:MM".
// Index TotalSlots() maps to the end of the day range.
func (c Clock) IndexToTime(index int) string {
	total := c.IndexToMinutes(index)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// TimeToIndex converts "HH:MM" to a slot index. The time must land on a slot
// boundary; the end of the range is accepted so durations can be expressed as
// an end time.
func (c Clock) TimeToIndex(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		if s == "24:00" {
			return c.minutesToIndex(24*60, s)
		}
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return c.minutesToIndex(t.Hour()*60+t.Minute(), s)
}

func (c Clock) minutesToIndex(mins int, s string) (int, error) {
	offset := mins - c.cfg.StartHour*60
	if offset < 0 || offset%c.cfg.SlotMinutes != 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	index := offset / c.cfg.SlotMinutes
	if index > c.total {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return index, nil
}

// IndexAt returns the slot containing the wall-clock time of t, and false
// when t is outside the visible range.
func (c Clock) IndexAt(t time.Time) (int, bool) {
	offset := t.Hour()*60 + t.Minute() - c.cfg.StartHour*60
	if offset < 0 {
		return 0, false
	}
	index := offset / c.cfg.SlotMinutes
	if index >= c.total {
		return 0, false
	}
	return index, true
}

// LabelOptions yields one entry per slot in index order. The sequence is
// finite and can be ranged over any number of times.
func (c Clock) LabelOptions() iter.Seq[LabelOption] {
	return func(yield func(LabelOption) bool) {
		for i := 0; i < c.total; i++ {
			if !yield(LabelOption{Index: i, Label: c.IndexToLabel(i)}) {
				return
			}
		}
	}
}

// InBounds reports whether [start, start+duration) lies inside the grid.
func (c Clock) InBounds(start, duration int) bool {
	return duration >= 1 && start >= 0 && start+duration <= c.total
}

// Clamp pulls start into [0, TotalSlots-duration] so the whole interval fits.
// In-bounds input is returned unchanged.
func (c Clock) Clamp(start, duration int) int {
	upper := c.total - duration
	if upper < 0 {
		upper = 0
	}
	return min(max(start, 0), upper)
}

// ClampIndex pulls a single cell index into [0, TotalSlots).
func (c Clock) ClampIndex(index int) int {
	return c.Clamp(index, 1)
}
