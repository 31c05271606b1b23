package scheduler

import (
	"testing"
	"time"

	"github.com/javiermolinar/slotbook/internal/appointment"
	"github.com/javiermolinar/slotbook/internal/slotclock"
)

// 09:00-17:00 in 15 minute slots: 32 slots.
func newScheduler() *Scheduler {
	return New(slotclock.MustNew(9, 17, 15))
}

func booking(start, duration int) appointment.Appointment {
	return appointment.NewBooking("room-1", start, duration, "x")
}

func TestNextAvailableStart(t *testing.T) {
	s := newScheduler()
	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.Local)

	tests := []struct {
		name   string
		now    time.Time
		want   int
		wantOK bool
	}{
		{"before opening", time.Date(2025, 1, 6, 7, 30, 0, 0, time.Local), 0, true},
		{"at opening", time.Date(2025, 1, 6, 9, 0, 0, 0, time.Local), 0, true},
		{"seconds before opening", time.Date(2025, 1, 6, 8, 59, 30, 0, time.Local), 0, true},
		{"seconds past opening", time.Date(2025, 1, 6, 9, 0, 30, 0, time.Local), 1, true},
		{"mid slot rounds up", time.Date(2025, 1, 6, 10, 23, 0, 0, time.Local), 6, true},
		{"on boundary", time.Date(2025, 1, 6, 10, 30, 0, 0, time.Local), 6, true},
		{"seconds past boundary", time.Date(2025, 1, 6, 10, 30, 5, 0, time.Local), 7, true},
		{"last slot started", time.Date(2025, 1, 6, 16, 50, 0, 0, time.Local), 0, false},
		{"after closing", time.Date(2025, 1, 6, 18, 0, 0, 0, time.Local), 0, false},
		{"day is in the future", time.Date(2025, 1, 5, 18, 0, 0, 0, time.Local), 0, true},
		{"day is in the past", time.Date(2025, 1, 7, 8, 0, 0, 0, time.Local), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.NextAvailableStart(day, tt.now)
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("index: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGaps(t *testing.T) {
	s := newScheduler()

	tests := []struct {
		name    string
		records []appointment.Appointment
		from    int
		want    []Gap
	}{
		{
			name: "empty day",
			want: []Gap{{Start: 0, Duration: 32}},
		},
		{
			name:    "between and around",
			records: []appointment.Appointment{booking(8, 4), booking(2, 2)},
			want:    []Gap{{0, 2}, {4, 4}, {12, 20}},
		},
		{
			name:    "adjacent records leave no gap",
			records: []appointment.Appointment{booking(0, 4), booking(4, 4)},
			want:    []Gap{{8, 24}},
		},
		{
			name:    "from inside a record",
			records: []appointment.Appointment{booking(4, 4)},
			from:    6,
			want:    []Gap{{8, 24}},
		},
		{
			name:    "fully booked",
			records: []appointment.Appointment{booking(0, 32)},
		},
		{
			name: "from past the end",
			from: 40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Gaps(tt.records, tt.from)
			if len(got) != len(tt.want) {
				t.Fatalf("gaps: got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("gap %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFirstFit(t *testing.T) {
	s := newScheduler()
	records := []appointment.Appointment{booking(2, 2), booking(6, 4), booking(12, 20)}

	tests := []struct {
		name     string
		duration int
		from     int
		want     int
		wantOK   bool
	}{
		{"one slot fits at the start", 1, 0, 0, true},
		{"two slots fit exactly", 2, 0, 0, true},
		{"skips the short gap", 3, 0, -1, false},
		{"from after the first gap", 2, 3, 4, true},
		{"nothing after noon", 1, 12, -1, false},
		{"zero duration", 0, 0, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.FirstFit(records, tt.duration, tt.from)
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("start: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCanFit(t *testing.T) {
	s := newScheduler()
	records := []appointment.Appointment{booking(4, 4)}

	if !s.CanFit(records, 0, 4) {
		t.Error("expected the slots before the record to fit")
	}
	if !s.CanFit(records, 8, 2) {
		t.Error("expected adjacent slots to fit")
	}
	if s.CanFit(records, 6, 4) {
		t.Error("expected overlap to be rejected")
	}
	if s.CanFit(records, 30, 4) {
		t.Error("expected out of bounds to be rejected")
	}
}

func TestFreeSlots(t *testing.T) {
	if got := FreeSlots([]Gap{{0, 2}, {4, 4}}); got != 6 {
		t.Errorf("got %d, want 6", got)
	}
	if got := FreeSlots(nil); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}
