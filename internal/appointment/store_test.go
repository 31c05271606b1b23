package appointment

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/javiermolinar/slotbook/internal/slotclock"
)

// testClock is the 09:00-20:00 grid in 15-minute slots (44 slots).
func testClock() slotclock.Clock {
	return slotclock.MustNew(9, 20, 15)
}

// seqIDs returns an id generator producing a1, a2, ...
func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("a%d", n)
	}
}

func newTestStore() *Store {
	return NewStore(testClock(), WithIDFunc(seqIDs()))
}

func mustCreate(t *testing.T, s *Store, a Appointment) Appointment {
	t.Helper()
	got, err := s.Create(a)
	if err != nil {
		t.Fatalf("Create(%+v) failed: %v", a, err)
	}
	return got
}

// assertInvariants checks bounds and pairwise non-overlap for every record.
func assertInvariants(t *testing.T, s *Store) {
	t.Helper()
	all := s.All()
	total := s.Clock().TotalSlots()
	for i, a := range all {
		if a.DurationSlots < 1 {
			t.Fatalf("%s has duration %d", a.ID, a.DurationSlots)
		}
		if a.StartIndex < 0 || a.EndIndex() > total {
			t.Fatalf("%s out of bounds: [%d,%d)", a.ID, a.StartIndex, a.EndIndex())
		}
		for _, b := range all[i+1:] {
			if a.OverlapsWith(b) {
				t.Fatalf("%s [%d,%d) overlaps %s [%d,%d) on %s",
					a.ID, a.StartIndex, a.EndIndex(), b.ID, b.StartIndex, b.EndIndex(), a.ResourceID)
			}
		}
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, d1, s2, d2 int
		want           bool
	}{
		{"identical", 4, 4, 4, 4, true},
		{"inner", 4, 4, 6, 2, true},
		{"partial left", 4, 4, 2, 3, true},
		{"touching after", 4, 4, 8, 2, false},
		{"touching before", 4, 4, 2, 2, false},
		{"disjoint", 0, 1, 10, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.s1, tt.d1, tt.s2, tt.d2); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := Overlaps(tt.s2, tt.d2, tt.s1, tt.d1); got != tt.want {
				t.Errorf("Overlaps (swapped) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStore_CreateThenConflict(t *testing.T) {
	s := newTestStore()

	first := mustCreate(t, s, NewBooking("R1", 4, 4, "Massage"))
	if first.ID == "" {
		t.Fatal("expected an id to be assigned")
	}

	_, err := s.Create(NewBooking("R1", 6, 2, "Facial"))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("error %T is not *ConflictError", err)
	}
	if ce.Existing.ID != first.ID {
		t.Errorf("conflict names %s, want %s", ce.Existing.ID, first.ID)
	}
	if s.Len() != 1 {
		t.Errorf("rejected candidate was inserted: Len() = %d", s.Len())
	}
}

func TestStore_AdjacencyAllowed(t *testing.T) {
	s := newTestStore()
	mustCreate(t, s, NewBooking("R1", 4, 4, "Massage"))
	if _, err := s.Create(NewBooking("R1", 6, 2, "Facial")); err == nil {
		t.Fatal("expected conflict")
	}

	got, err := s.Create(NewBooking("R1", 8, 2, "Nails"))
	if err != nil {
		t.Fatalf("adjacent create failed: %v", err)
	}
	if got.StartIndex != 8 || got.DurationSlots != 2 {
		t.Errorf("got [%d,%d)", got.StartIndex, got.EndIndex())
	}
}

func TestStore_SameSlotDifferentResource(t *testing.T) {
	s := newTestStore()
	mustCreate(t, s, NewBooking("R1", 4, 4, "A"))
	mustCreate(t, s, NewBooking("R2", 4, 4, "B"))
	assertInvariants(t, s)
}

func TestStore_CreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		in      Appointment
		wantErr error
	}{
		{"zero duration", NewBooking("R1", 0, 0, "x"), ErrInvalidDuration},
		{"negative start", NewBooking("R1", -1, 2, "x"), ErrOutOfBounds},
		{"past the end", NewBooking("R1", 43, 2, "x"), ErrOutOfBounds},
		{"missing resource", NewBooking("", 0, 2, "x"), ErrEmptyResource},
		{"bad kind", Appointment{ResourceID: "R1", DurationSlots: 1, Kind: "holiday"}, ErrInvalidKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			if _, err := s.Create(tt.in); !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
			if s.Len() != 0 {
				t.Error("invalid candidate was inserted")
			}
		})
	}
}

func TestStore_CreateDefaultsKindAndIgnoresID(t *testing.T) {
	s := newTestStore()
	got := mustCreate(t, s, Appointment{ID: "client-chosen", ResourceID: "R1", StartIndex: 0, DurationSlots: 1})
	if got.ID != "a1" {
		t.Errorf("ID = %q, want generated a1", got.ID)
	}
	if got.Kind != KindBooking {
		t.Errorf("Kind = %q, want booking", got.Kind)
	}
}

func TestStore_CreateDefaultIDsAreUnique(t *testing.T) {
	s := NewStore(testClock())
	a := mustCreate(t, s, NewBooking("R1", 0, 1, "x"))
	b := mustCreate(t, s, NewBooking("R1", 1, 1, "y"))
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("ids not unique: %q %q", a.ID, b.ID)
	}
}

func TestStore_UnknownResource(t *testing.T) {
	known := map[string]bool{"R1": true}
	s := NewStore(testClock(), WithResources(func(id string) bool { return known[id] }))

	if _, err := s.Create(NewBooking("R9", 0, 1, "x")); !errors.Is(err, ErrUnknownResource) {
		t.Errorf("got %v, want ErrUnknownResource", err)
	}
	if _, err := s.Create(NewBooking("R1", 0, 1, "x")); err != nil {
		t.Errorf("known resource rejected: %v", err)
	}
}

func TestStore_UpdateExcludesSelf(t *testing.T) {
	s := newTestStore()
	a := mustCreate(t, s, NewBooking("R1", 4, 4, "A"))

	// Growing in place overlaps only its own old interval.
	got, err := s.Update(a.ID, Patch{DurationSlots: Ptr(6)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.EndIndex() != 10 {
		t.Errorf("EndIndex = %d, want 10", got.EndIndex())
	}
	if got.Label != "A" {
		t.Errorf("Label changed to %q", got.Label)
	}
}

func TestStore_UpdateConflict(t *testing.T) {
	s := newTestStore()
	a := mustCreate(t, s, NewBooking("R1", 0, 4, "A"))
	mustCreate(t, s, NewBooking("R1", 4, 4, "B"))
	mustCreate(t, s, NewBooking("R2", 0, 4, "C"))

	if _, err := s.Update(a.ID, Patch{DurationSlots: Ptr(5)}); !errors.Is(err, ErrConflict) {
		t.Errorf("grow into B: got %v, want ErrConflict", err)
	}
	if _, err := s.Update(a.ID, Patch{ResourceID: Ptr("R2")}); !errors.Is(err, ErrConflict) {
		t.Errorf("move onto C: got %v, want ErrConflict", err)
	}

	unchanged, _ := s.Get(a.ID)
	if unchanged.DurationSlots != 4 || unchanged.ResourceID != "R1" {
		t.Errorf("rejected update leaked: %+v", unchanged)
	}
}

func TestStore_UpdateFields(t *testing.T) {
	s := newTestStore()
	a := mustCreate(t, s, NewBooking("R1", 0, 2, "A"))

	guest := GuestInfo{Name: "Ana", Email: "ana@example.com"}
	got, err := s.Update(a.ID, Patch{
		Label:        Ptr("  Deep tissue  "),
		Notes:        Ptr("allergic to lavender"),
		GuestInfo:    &guest,
		ServiceLines: []ServiceLine{{Name: "Massage 60", Price: 80, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Label != "Deep tissue" {
		t.Errorf("Label = %q", got.Label)
	}
	if got.GuestInfo == nil || got.GuestInfo.Name != "Ana" {
		t.Errorf("GuestInfo = %+v", got.GuestInfo)
	}

	guest.Name = "mutated"
	stored, _ := s.Get(a.ID)
	if stored.GuestInfo.Name != "Ana" {
		t.Error("patch input aliased into the store")
	}
}

func TestStore_ClearGuest(t *testing.T) {
	s := newTestStore()
	a := NewBooking("R1", 0, 2, "A")
	a.GuestInfo = &GuestInfo{Name: "Ana", Email: "ana@example.com"}
	a = mustCreate(t, s, a)

	got, err := s.Update(a.ID, Patch{ClearGuest: true, GuestInfo: &GuestInfo{Name: "Bo"}})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.GuestInfo != nil {
		t.Errorf("GuestInfo = %+v, want nil", got.GuestInfo)
	}
	if stored, _ := s.Get(a.ID); stored.GuestInfo != nil {
		t.Errorf("stored GuestInfo = %+v, want nil", stored.GuestInfo)
	}

	// A patch without a guest leaves the existing one alone.
	b := NewBooking("R1", 4, 2, "B")
	b.GuestInfo = &GuestInfo{Name: "Cy"}
	b = mustCreate(t, s, b)
	got, err = s.Update(b.ID, Patch{Label: Ptr("B2")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.GuestInfo == nil || got.GuestInfo.Name != "Cy" {
		t.Errorf("GuestInfo = %+v, want Cy", got.GuestInfo)
	}
}

func TestStore_CreateRejectsTakenID(t *testing.T) {
	s := NewStore(testClock(), WithIDFunc(func() string { return "same" }))
	first := mustCreate(t, s, NewBooking("R1", 0, 2, "first"))

	// Same interval on purpose: the id check must not hide behind the overlap check.
	_, err := s.Create(NewBooking("R1", 0, 2, "second"))
	if !errors.Is(err, ErrIDTaken) {
		t.Fatalf("Create with reused id: err = %v, want ErrIDTaken", err)
	}
	_, err = s.Create(NewBooking("R2", 10, 2, "elsewhere"))
	if !errors.Is(err, ErrIDTaken) {
		t.Fatalf("Create on free slot with reused id: err = %v, want ErrIDTaken", err)
	}

	got, err := s.Get("same")
	if err != nil || got.Label != first.Label || got.ResourceID != "R1" {
		t.Errorf("Get(same) = %+v, %v; first record should be intact", got, err)
	}
	if n := len(s.All()); n != 1 {
		t.Errorf("len(All) = %d, want 1", n)
	}
}

func TestStore_NotFound(t *testing.T) {
	s := newTestStore()

	_, err := s.Update("nope", Patch{Label: Ptr("x")})
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.ID != "nope" {
		t.Errorf("Update: got %v, want NotFoundError{nope}", err)
	}
	if _, err := s.Move("nope", "R1", 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("Move: got %v, want ErrNotFound", err)
	}
	if err := s.Remove("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove: got %v, want ErrNotFound", err)
	}
	if _, err := s.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get: got %v, want ErrNotFound", err)
	}
}

func TestStore_MoveClamps(t *testing.T) {
	s := newTestStore()
	a := mustCreate(t, s, NewBooking("R1", 40, 4, "Late"))

	got, err := s.Move(a.ID, "R1", 50)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if got.StartIndex != 40 {
		t.Errorf("StartIndex = %d, want 40", got.StartIndex)
	}

	got, err = s.Move(a.ID, "R2", -5)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if got.StartIndex != 0 || got.ResourceID != "R2" {
		t.Errorf("got %s@%d, want R2@0", got.ResourceID, got.StartIndex)
	}
}

func TestStore_MoveConflictLeavesRecord(t *testing.T) {
	s := newTestStore()
	a := mustCreate(t, s, NewBooking("R1", 0, 4, "A"))
	mustCreate(t, s, NewBooking("R2", 2, 4, "B"))

	if _, err := s.Move(a.ID, "R2", 0); !errors.Is(err, ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
	got, _ := s.Get(a.ID)
	if got.ResourceID != "R1" || got.StartIndex != 0 {
		t.Errorf("record changed after rejected move: %+v", got)
	}
}

func TestStore_RemoveKeepsOrder(t *testing.T) {
	s := newTestStore()
	a := mustCreate(t, s, NewBooking("R1", 0, 1, "A"))
	b := mustCreate(t, s, NewBooking("R1", 2, 1, "B"))
	c := mustCreate(t, s, NewBooking("R1", 4, 1, "C"))

	if err := s.Remove(b.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	got := s.ListByResource("R1")
	if len(got) != 2 || got[0].ID != a.ID || got[1].ID != c.ID {
		t.Fatalf("ListByResource after remove = %+v", got)
	}
	// The index must still resolve records after the removed one.
	if _, err := s.Update(c.ID, Patch{Label: Ptr("C2")}); err != nil {
		t.Errorf("Update after remove: %v", err)
	}
	// Freed slot is bookable again.
	mustCreate(t, s, NewBooking("R1", 2, 1, "B2"))
}

func TestStore_ListByResourceInsertionOrder(t *testing.T) {
	s := newTestStore()
	mustCreate(t, s, NewBooking("R1", 10, 1, "late"))
	mustCreate(t, s, NewBooking("R2", 0, 1, "other"))
	mustCreate(t, s, NewBooking("R1", 0, 1, "early"))

	got := s.ListByResource("R1")
	if len(got) != 2 || got[0].Label != "late" || got[1].Label != "early" {
		t.Errorf("got %+v, want insertion order late, early", got)
	}

	got[0].Label = "mutated"
	if s.ListByResource("R1")[0].Label != "late" {
		t.Error("ListByResource returned internal records")
	}
}

func TestStore_At(t *testing.T) {
	s := newTestStore()
	a := mustCreate(t, s, NewBooking("R1", 4, 4, "A"))

	if got, ok := s.At("R1", 7); !ok || got.ID != a.ID {
		t.Errorf("At(R1, 7) = %v, %v", got.ID, ok)
	}
	if _, ok := s.At("R1", 8); ok {
		t.Error("At(R1, 8) should be empty")
	}
	if _, ok := s.At("R2", 5); ok {
		t.Error("At(R2, 5) should be empty")
	}
}

func TestStore_Blockout(t *testing.T) {
	s := newTestStore()
	b := mustCreate(t, s, NewBlockout("R1", " Maintenance ", 0, 8, "HVAC"))
	if !b.IsBlockout() || b.Reason != "Maintenance" || b.Label != "Maintenance" {
		t.Errorf("blockout = %+v", b)
	}
	if _, err := s.Create(NewBooking("R1", 7, 1, "x")); !errors.Is(err, ErrConflict) {
		t.Errorf("booking over blockout: got %v, want ErrConflict", err)
	}
}

func TestStore_Replace(t *testing.T) {
	s := newTestStore()
	mustCreate(t, s, NewBooking("R1", 0, 1, "old"))

	rejected := s.Replace([]Appointment{
		{ID: "x1", ResourceID: "R1", StartIndex: 0, DurationSlots: 4, Kind: KindBooking, Label: "ok"},
		{ID: "x2", ResourceID: "R1", StartIndex: 2, DurationSlots: 4, Kind: KindBooking, Label: "overlap"},
		{ID: "x3", ResourceID: "R1", StartIndex: 42, DurationSlots: 4, Kind: KindBooking, Label: "oob"},
		{ID: "x1", ResourceID: "R2", StartIndex: 0, DurationSlots: 1, Kind: KindBooking, Label: "dup"},
		{ResourceID: "R2", StartIndex: 5, DurationSlots: 1, Label: "no id"},
	})

	if len(rejected) != 3 {
		t.Fatalf("rejected %d records, want 3: %+v", len(rejected), rejected)
	}
	if !errors.Is(rejected[0].Err, ErrConflict) || !errors.Is(rejected[1].Err, ErrOutOfBounds) {
		t.Errorf("unexpected reasons: %v, %v", rejected[0].Err, rejected[1].Err)
	}
	all := s.All()
	if len(all) != 2 || all[0].ID != "x1" || all[1].ID == "" || all[1].Kind != KindBooking {
		t.Errorf("All() after Replace = %+v", all)
	}
	assertInvariants(t, s)
}

// TestStore_InvariantsHoldUnderRandomOperations drives a long random mix of
// operations and checks the overlap and bounds invariants after each step.
func TestStore_InvariantsHoldUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	s := newTestStore()
	resources := []string{"R1", "R2", "R3"}
	total := s.Clock().TotalSlots()

	pickID := func() string {
		all := s.All()
		if len(all) == 0 || rng.IntN(10) == 0 {
			return "missing"
		}
		return all[rng.IntN(len(all))].ID
	}

	for step := 0; step < 2000; step++ {
		res := resources[rng.IntN(len(resources))]
		start := rng.IntN(total+10) - 5
		dur := rng.IntN(8)

		var err error
		switch rng.IntN(4) {
		case 0:
			_, err = s.Create(NewBooking(res, start, dur, "r"))
		case 1:
			_, err = s.Update(pickID(), Patch{StartIndex: &start, DurationSlots: &dur, ResourceID: &res})
		case 2:
			_, err = s.Move(pickID(), res, start)
		case 3:
			if rng.IntN(3) == 0 {
				err = s.Remove(pickID())
			}
		}
		if err != nil && !errors.Is(err, ErrConflict) && !errors.Is(err, ErrNotFound) &&
			!errors.Is(err, ErrOutOfBounds) && !errors.Is(err, ErrInvalidDuration) {
			t.Fatalf("step %d: unexpected error kind: %v", step, err)
		}
		assertInvariants(t, s)
	}
}
