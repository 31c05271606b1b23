package summary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/javiermolinar/slotbook/internal/appointment"
	"github.com/javiermolinar/slotbook/internal/resource"
	"github.com/javiermolinar/slotbook/internal/slotclock"
	"github.com/javiermolinar/slotbook/internal/snapshot"
)

func testDirectory(t *testing.T) *resource.Directory {
	t.Helper()
	dir, err := resource.NewDirectory([]resource.Resource{
		{ID: "room-1", Name: "Room 1", Category: resource.CategoryRoom},
		{ID: "room-2", Name: "Room 2", Category: resource.CategoryRoom},
	})
	if err != nil {
		t.Fatalf("NewDirectory: %v", err)
	}
	return dir
}

func TestBuildWeek(t *testing.T) {
	ctx := context.Background()
	// 09:00-17:00, 30 minute slots: 16 slots, 480 minutes per resource.
	clock := slotclock.MustNew(9, 17, 30)
	dir := testDirectory(t)
	adapter := snapshot.NewAdapter(snapshot.NewMemoryKV())

	monday := time.Date(2025, 1, 13, 0, 0, 0, 0, time.Local)
	tuesday := monday.AddDate(0, 0, 1)
	nextMonday := monday.AddDate(0, 0, 7)

	save := func(date time.Time, records ...appointment.Appointment) {
		t.Helper()
		for i := range records {
			records[i].ID = records[i].ResourceID + "-" + records[i].Label
		}
		if err := adapter.Save(ctx, date, records); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	save(monday,
		appointment.NewBooking("room-1", 0, 2, "a"),
		appointment.NewBooking("room-2", 4, 4, "b"),
		appointment.NewBlockout("room-2", "Cleaning", 0, 2, ""),
		appointment.NewBooking("gone", 0, 2, "orphan"),
	)
	save(tuesday, appointment.NewBooking("room-1", 0, 1, "c"))
	save(nextMonday, appointment.NewBooking("room-1", 0, 16, "later"))

	week, err := BuildWeek(ctx, adapter, clock, dir, time.Date(2025, 1, 16, 12, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("BuildWeek: %v", err)
	}

	if !week.Start.Equal(monday) || len(week.Days) != 7 {
		t.Fatalf("week starts %v with %d days", week.Start, len(week.Days))
	}
	if week.OpenMinutes != 960 {
		t.Errorf("OpenMinutes = %d, want 960", week.OpenMinutes)
	}

	mon := week.Days[0]
	if !mon.Stored() || mon.Bookings != 2 || mon.Blockouts != 1 {
		t.Errorf("monday = %+v", mon)
	}
	if mon.BookedMinutes != 180 || mon.BlockedMinutes != 60 {
		t.Errorf("monday minutes booked %d blocked %d, want 180 and 60", mon.BookedMinutes, mon.BlockedMinutes)
	}
	if mon.FreeMinutes != 960-240 {
		t.Errorf("monday free = %d, want %d", mon.FreeMinutes, 960-240)
	}
	if got := week.DayUtilization(mon); got != 20 {
		t.Errorf("monday utilization = %d, want 20", got)
	}

	if week.Days[3].Stored() || week.Days[3].FreeMinutes != 960 {
		t.Errorf("thursday = %+v, want unstored and free", week.Days[3])
	}

	totals := week.Totals()
	if totals.Bookings != 3 || totals.BookedMinutes != 210 {
		t.Errorf("totals = %+v", totals)
	}
	busiest, ok := week.Busiest()
	if !ok || !busiest.Date.Equal(monday) {
		t.Errorf("busiest = %v (%v), want monday", busiest.Date, ok)
	}
}

func TestBuildWeek_Empty(t *testing.T) {
	clock := slotclock.MustNew(9, 17, 30)
	adapter := snapshot.NewAdapter(snapshot.NewMemoryKV())

	week, err := BuildWeek(context.Background(), adapter, clock, testDirectory(t), time.Now())
	if err != nil {
		t.Fatalf("BuildWeek: %v", err)
	}
	if _, ok := week.Busiest(); ok {
		t.Error("expected no busiest day in an empty week")
	}
	if got := week.Utilization(); got != 0 {
		t.Errorf("Utilization = %d, want 0", got)
	}
}

func TestBuildWeek_IgnoresSeed(t *testing.T) {
	clock := slotclock.MustNew(9, 17, 30)
	wednesday := time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)
	seed := func(date time.Time) []appointment.Appointment {
		b := appointment.NewBooking("room-1", 0, 4, "sample")
		b.ID = "seed-1"
		return []appointment.Appointment{b}
	}
	adapter := snapshot.NewAdapter(snapshot.NewMemoryKV(), snapshot.WithSeed(seed))

	week, err := BuildWeek(context.Background(), adapter, clock, testDirectory(t), wednesday)
	if err != nil {
		t.Fatalf("BuildWeek: %v", err)
	}
	totals := week.Totals()
	if totals.Bookings != 0 || totals.BookedMinutes != 0 {
		t.Errorf("seeded days counted as bookings: %+v", totals)
	}
	if d := week.Days[2]; d.Source != snapshot.SourceSeeded || d.FreeMinutes != week.OpenMinutes {
		t.Errorf("wednesday = %+v, want seeded source and fully free", d)
	}
}

func TestBuildWeek_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	adapter := snapshot.NewAdapter(snapshot.NewMemoryKV())

	_, err := BuildWeek(ctx, adapter, slotclock.MustNew(9, 17, 30), testDirectory(t), time.Now())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
