package interaction

import (
	"errors"

	"github.com/javiermolinar/slotbook/internal/appointment"
	"github.com/javiermolinar/slotbook/internal/slotclock"
)

// Mover is the part of the appointment store a move needs.
type Mover interface {
	Get(id string) (appointment.Appointment, error)
	Move(id, resourceID string, start int) (appointment.Appointment, error)
}

// Outcome classifies a move request.
type Outcome int

const (
	Moved     Outcome = iota // the record was relocated
	Unchanged                // the drop landed where the record already is
	Rejected                 // validation failed; the record is untouched
	Missing                  // no record with that id
)

func (o Outcome) String() string {
	switch o {
	case Moved:
		return "moved"
	case Unchanged:
		return "unchanged"
	case Rejected:
		return "rejected"
	default:
		return "missing"
	}
}

// MoveResult is always returned so the caller decides whether a rejection
// is shown or ignored.
type MoveResult struct {
	Outcome     Outcome
	Appointment appointment.Appointment // state after the request
	Err         error                   // set for Rejected and Missing
}

// Conflict returns the conflict behind a rejection, if that was the cause.
func (r MoveResult) Conflict() (*appointment.ConflictError, bool) {
	var ce *appointment.ConflictError
	if errors.As(r.Err, &ce) {
		return ce, true
	}
	return nil, false
}

// RequestMove relocates id to resourceID at targetIndex. The start is clamped
// so the whole duration stays on the grid; a request that resolves to the
// current placement is a no-op.
func RequestMove(m Mover, clock slotclock.Clock, id, resourceID string, targetIndex int) MoveResult {
	a, err := m.Get(id)
	if err != nil {
		return MoveResult{Outcome: Missing, Err: err}
	}
	start := clock.Clamp(targetIndex, a.DurationSlots)
	if resourceID == a.ResourceID && start == a.StartIndex {
		return MoveResult{Outcome: Unchanged, Appointment: a}
	}

	moved, err := m.Move(id, resourceID, start)
	switch {
	case err == nil:
		return MoveResult{Outcome: Moved, Appointment: moved}
	case errors.Is(err, appointment.ErrNotFound):
		return MoveResult{Outcome: Missing, Err: err}
	default:
		return MoveResult{Outcome: Rejected, Appointment: a, Err: err}
	}
}

// Drag is the pointer gesture that carries an existing record: NotDragging or
// Dragging.
type Drag interface {
	isDrag()
}

// NotDragging means no record is being carried.
type NotDragging struct{}

// Dragging carries a record. Grab is the slot offset between the pointer and
// the record's start, so the record keeps its position under the pointer.
type Dragging struct {
	ID         string
	ResourceID string
	StartIndex int
	Grab       int

	// Hover is where the record would land, for preview rendering.
	HoverResource string
	HoverIndex    int
}

func (NotDragging) isDrag() {}
func (Dragging) isDrag()    {}

// Target returns the start index a drop at pointerIndex asks for.
func (d Dragging) Target(pointerIndex int) int {
	return pointerIndex - d.Grab
}

// BeginDrag picks up a at the pointer's slot.
func BeginDrag(a appointment.Appointment, pointerIndex int) Drag {
	return Dragging{
		ID:            a.ID,
		ResourceID:    a.ResourceID,
		StartIndex:    a.StartIndex,
		Grab:          pointerIndex - a.StartIndex,
		HoverResource: a.ResourceID,
		HoverIndex:    a.StartIndex,
	}
}

// DragOver updates the drop preview.
func DragOver(d Drag, clock slotclock.Clock, duration int, resourceID string, pointerIndex int) Drag {
	dr, ok := d.(Dragging)
	if !ok {
		return d
	}
	dr.HoverResource = resourceID
	dr.HoverIndex = clock.Clamp(dr.Target(pointerIndex), duration)
	return dr
}

// Drop releases the record at the pointer position. The result is nil when
// nothing was being dragged.
func Drop(d Drag, m Mover, clock slotclock.Clock, resourceID string, pointerIndex int) (Drag, *MoveResult) {
	dr, ok := d.(Dragging)
	if !ok {
		return NotDragging{}, nil
	}
	res := RequestMove(m, clock, dr.ID, resourceID, dr.Target(pointerIndex))
	return NotDragging{}, &res
}

// CancelDrag puts the record down where it was.
func CancelDrag(Drag) Drag {
	return NotDragging{}
}
