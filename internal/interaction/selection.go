// Package interaction holds the transient gesture and overlay state of the
// booking grid. Every state is a small value type behind a sealed interface;
// transitions are plain functions so callers (and tests) can drive them
// without a rendering surface.
package interaction

// Selection is the creation gesture: Idle or Selecting.
type Selection interface {
	isSelection()
}

// Idle means no gesture is in progress.
type Idle struct{}

// Selecting tracks a pointer drag over one resource column.
type Selecting struct {
	ResourceID   string
	StartIndex   int
	CurrentIndex int
}

func (Idle) isSelection()      {}
func (Selecting) isSelection() {}

// Range returns the selected interval, whichever way the pointer moved.
func (s Selecting) Range() (start, duration int) {
	lo, hi := s.StartIndex, s.CurrentIndex
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, max(1, hi-lo+1)
}

// Covers reports whether index on resourceID is inside the selection.
func (s Selecting) Covers(resourceID string, index int) bool {
	if resourceID != s.ResourceID {
		return false
	}
	start, dur := s.Range()
	return index >= start && index < start+dur
}

// CreateRequest is what a finished gesture hands to the create dialog.
// Label, guest and service details are filled in later by the dialog.
type CreateRequest struct {
	ResourceID    string
	StartIndex    int
	DurationSlots int
}

// PointerDown starts a gesture on a cell. A press while already selecting
// restarts the gesture there.
func PointerDown(_ Selection, resourceID string, index int) Selection {
	return Selecting{ResourceID: resourceID, StartIndex: index, CurrentIndex: index}
}

// PointerEnter extends the gesture. Cells on other resources are ignored.
func PointerEnter(s Selection, resourceID string, index int) Selection {
	sel, ok := s.(Selecting)
	if !ok || resourceID != sel.ResourceID {
		return s
	}
	sel.CurrentIndex = index
	return sel
}

// PointerUp ends the gesture, returning the request it produced, if any.
func PointerUp(s Selection) (Selection, *CreateRequest) {
	sel, ok := s.(Selecting)
	if !ok {
		return Idle{}, nil
	}
	start, dur := sel.Range()
	return Idle{}, &CreateRequest{ResourceID: sel.ResourceID, StartIndex: start, DurationSlots: dur}
}

// PointerLeave abandons the gesture when the pointer leaves the grid.
func PointerLeave(Selection) Selection {
	return Idle{}
}

// Cancel abandons the gesture.
func Cancel(Selection) Selection {
	return Idle{}
}
