package appointment

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/javiermolinar/slotbook/internal/slotclock"
)

// Store owns the appointments of one day. It is not safe for concurrent use:
// every operation runs to completion on the caller's goroutine.
type Store struct {
	clock       slotclock.Clock
	newID       func() string
	hasResource func(string) bool

	items []Appointment  // insertion order
	index map[string]int // id -> position in items
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithIDFunc overrides identifier generation (default: random UUIDs).
func WithIDFunc(fn func() string) StoreOption {
	return func(s *Store) {
		s.newID = fn
	}
}

// WithResources restricts resource ids to those accepted by has.
func WithResources(has func(string) bool) StoreOption {
	return func(s *Store) {
		s.hasResource = has
	}
}

// NewStore creates an empty store on clock's grid.
func NewStore(clock slotclock.Clock, opts ...StoreOption) *Store {
	s := &Store{
		clock: clock,
		newID: uuid.NewString,
		index: make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clock returns the grid the store validates against.
func (s *Store) Clock() slotclock.Clock {
	return s.clock
}

// Len returns the number of live appointments.
func (s *Store) Len() int {
	return len(s.items)
}

// Get returns a copy of the appointment with id.
func (s *Store) Get(id string) (Appointment, error) {
	i, ok := s.index[id]
	if !ok {
		return Appointment{}, &NotFoundError{ID: id}
	}
	return s.items[i].Clone(), nil
}

// All returns copies of every appointment in insertion order.
func (s *Store) All() []Appointment {
	out := make([]Appointment, len(s.items))
	for i, a := range s.items {
		out[i] = a.Clone()
	}
	return out
}

// ListByResource returns copies of the appointments on resourceID in
// insertion order.
func (s *Store) ListByResource(resourceID string) []Appointment {
	var out []Appointment
	for _, a := range s.items {
		if a.ResourceID == resourceID {
			out = append(out, a.Clone())
		}
	}
	return out
}

// At returns the appointment covering slot index on resourceID.
func (s *Store) At(resourceID string, index int) (Appointment, bool) {
	for _, a := range s.items {
		if a.ResourceID == resourceID && a.Contains(index) {
			return a.Clone(), true
		}
	}
	return Appointment{}, false
}

// Create validates candidate and inserts it under a fresh id.
// The candidate's own ID is ignored.
func (s *Store) Create(candidate Appointment) (Appointment, error) {
	a := candidate.Clone()
	a.ID = s.newID()
	if _, taken := s.index[a.ID]; taken {
		return Appointment{}, fmt.Errorf("%w: %q", ErrIDTaken, a.ID)
	}
	if a.Kind == "" {
		a.Kind = KindBooking
	}
	if err := s.validate(a, ""); err != nil {
		return Appointment{}, err
	}
	s.index[a.ID] = len(s.items)
	s.items = append(s.items, a)
	return a.Clone(), nil
}

// Update applies patch to the appointment with id. The patched interval is
// checked against every other record on the (possibly new) resource.
func (s *Store) Update(id string, patch Patch) (Appointment, error) {
	i, ok := s.index[id]
	if !ok {
		return Appointment{}, &NotFoundError{ID: id}
	}
	next := patch.apply(s.items[i])
	next.ID = id
	if err := s.validate(next, id); err != nil {
		return Appointment{}, err
	}
	s.items[i] = next
	return next.Clone(), nil
}

// Move relocates the appointment to resourceID at start. start is clamped so
// the full duration stays on the grid before the conflict check.
func (s *Store) Move(id, resourceID string, start int) (Appointment, error) {
	i, ok := s.index[id]
	if !ok {
		return Appointment{}, &NotFoundError{ID: id}
	}
	start = s.clock.Clamp(start, s.items[i].DurationSlots)
	return s.Update(id, Patch{ResourceID: &resourceID, StartIndex: &start})
}

// Remove deletes the appointment with id, preserving the order of the rest.
func (s *Store) Remove(id string) error {
	i, ok := s.index[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.reindex()
	return nil
}

// Replace discards the current contents and loads records in order. Records
// that would break an invariant are skipped and returned with their reason so
// the caller can log them.
func (s *Store) Replace(records []Appointment) []Rejected {
	s.items = s.items[:0]
	s.index = make(map[string]int, len(records))

	var rejected []Rejected
	for _, r := range records {
		a := r.Clone()
		if a.ID == "" {
			a.ID = s.newID()
		}
		if _, dup := s.index[a.ID]; dup {
			rejected = append(rejected, Rejected{Appointment: a, Err: fmt.Errorf("duplicate id %s", a.ID)})
			continue
		}
		if a.Kind == "" {
			a.Kind = KindBooking
		}
		if err := s.validate(a, ""); err != nil {
			rejected = append(rejected, Rejected{Appointment: a, Err: err})
			continue
		}
		s.index[a.ID] = len(s.items)
		s.items = append(s.items, a)
	}
	return rejected
}

// Rejected is a record Replace refused to load.
type Rejected struct {
	Appointment Appointment
	Err         error
}

func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.items))
	for i, a := range s.items {
		s.index[a.ID] = i
	}
}

// validate checks a's invariants; excludeID is skipped in the conflict scan.
func (s *Store) validate(a Appointment, excludeID string) error {
	if a.ResourceID == "" {
		return ErrEmptyResource
	}
	if s.hasResource != nil && !s.hasResource(a.ResourceID) {
		return fmt.Errorf("%w: %s", ErrUnknownResource, a.ResourceID)
	}
	if !a.Kind.Valid() {
		return ErrInvalidKind
	}
	if a.DurationSlots < 1 {
		return ErrInvalidDuration
	}
	if !s.clock.InBounds(a.StartIndex, a.DurationSlots) {
		return fmt.Errorf("%w: [%d,%d) not within [0,%d)",
			ErrOutOfBounds, a.StartIndex, a.EndIndex(), s.clock.TotalSlots())
	}
	return s.checkConflict(a, excludeID)
}

// checkConflict scans every other record on a's resource.
// Two intervals overlap if: start1 < end2 AND start2 < end1
func (s *Store) checkConflict(a Appointment, excludeID string) error {
	for _, other := range s.items {
		if other.ID == excludeID || other.ID == a.ID {
			continue
		}
		if a.OverlapsWith(other) {
			return &ConflictError{Candidate: a.Clone(), Existing: other.Clone()}
		}
	}
	return nil
}
