package interaction

import (
	"errors"
	"fmt"
	"testing"

	"github.com/javiermolinar/slotbook/internal/appointment"
	"github.com/javiermolinar/slotbook/internal/slotclock"
)

func testClock() slotclock.Clock {
	return slotclock.MustNew(9, 20, 15)
}

func newStore(t *testing.T, records ...appointment.Appointment) *appointment.Store {
	t.Helper()
	n := 0
	s := appointment.NewStore(testClock(), appointment.WithIDFunc(func() string {
		n++
		return fmt.Sprintf("a%d", n)
	}))
	for _, r := range records {
		if _, err := s.Create(r); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	return s
}

// countingMover records how often Move is reached.
type countingMover struct {
	*appointment.Store
	moves int
}

func (c *countingMover) Move(id, resourceID string, start int) (appointment.Appointment, error) {
	c.moves++
	return c.Store.Move(id, resourceID, start)
}

func TestRequestMove(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		resource    string
		target      int
		want        Outcome
		wantStart   int
		wantRes     string
		wantMoveHit bool
	}{
		{"same resource new slot", "a1", "R1", 20, Moved, 20, "R1", true},
		{"other resource", "a1", "R2", 0, Moved, 0, "R2", true},
		{"clamped past the end", "a1", "R1", 50, Moved, 40, "R1", true},
		{"clamped below zero", "a1", "R1", -3, Moved, 0, "R1", true},
		{"same place", "a1", "R1", 4, Unchanged, 4, "R1", false},
		{"onto neighbour", "a1", "R1", 9, Rejected, 4, "R1", true},
		{"touching neighbour", "a1", "R1", 12, Moved, 12, "R1", true},
		{"unknown id", "ghost", "R1", 0, Missing, 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t,
				appointment.NewBooking("R1", 4, 4, "a1"),
				appointment.NewBooking("R1", 8, 4, "a2"),
			)
			m := &countingMover{Store: s}

			res := RequestMove(m, testClock(), tt.id, tt.resource, tt.target)
			if res.Outcome != tt.want {
				t.Fatalf("Outcome = %v (err %v), want %v", res.Outcome, res.Err, tt.want)
			}
			if (m.moves > 0) != tt.wantMoveHit {
				t.Errorf("Move called %d times", m.moves)
			}
			if tt.want == Missing {
				if !errors.Is(res.Err, appointment.ErrNotFound) {
					t.Errorf("Err = %v, want ErrNotFound", res.Err)
				}
				return
			}
			got, _ := s.Get(tt.id)
			if got.StartIndex != tt.wantStart || got.ResourceID != tt.wantRes {
				t.Errorf("stored = %s@%d, want %s@%d", got.ResourceID, got.StartIndex, tt.wantRes, tt.wantStart)
			}
			if res.Appointment.StartIndex != got.StartIndex {
				t.Errorf("result start %d disagrees with store %d", res.Appointment.StartIndex, got.StartIndex)
			}
		})
	}
}

func TestRequestMove_ConflictIsReported(t *testing.T) {
	s := newStore(t,
		appointment.NewBooking("R1", 4, 4, "a1"),
		appointment.NewBooking("R1", 8, 4, "a2"),
	)
	res := RequestMove(s, testClock(), "a1", "R1", 9)
	ce, ok := res.Conflict()
	if !ok {
		t.Fatalf("Conflict() not found in %v", res.Err)
	}
	if ce.Existing.ID != "a2" {
		t.Errorf("conflict with %s, want a2", ce.Existing.ID)
	}
}

func TestDrag(t *testing.T) {
	clock := testClock()
	s := newStore(t, appointment.NewBooking("R1", 4, 4, "a1"))
	a, _ := s.Get("a1")

	// Grab the record by its third slot.
	d := BeginDrag(a, 6)
	dr, ok := d.(Dragging)
	if !ok || dr.Grab != 2 {
		t.Fatalf("BeginDrag = %+v", d)
	}

	d = DragOver(d, clock, a.DurationSlots, "R2", 43)
	if dr := d.(Dragging); dr.HoverIndex != 40 || dr.HoverResource != "R2" {
		t.Errorf("preview = %s@%d, want R2@40", dr.HoverResource, dr.HoverIndex)
	}

	d, res := Drop(d, s, clock, "R2", 12)
	if _, ok := d.(NotDragging); !ok {
		t.Errorf("after drop = %T", d)
	}
	if res == nil || res.Outcome != Moved || res.Appointment.StartIndex != 10 {
		t.Fatalf("drop result = %+v, want moved to 10", res)
	}
}

func TestDrop_NotDragging(t *testing.T) {
	s := newStore(t)
	d, res := Drop(NotDragging{}, s, testClock(), "R1", 3)
	if res != nil {
		t.Errorf("result = %+v, want nil", res)
	}
	if _, ok := d.(NotDragging); !ok {
		t.Errorf("state = %T", d)
	}
	if _, ok := CancelDrag(Dragging{ID: "x"}).(NotDragging); !ok {
		t.Error("CancelDrag should end the drag")
	}
}
