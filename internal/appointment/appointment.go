// Package appointment defines bookings and blockouts on the slot grid and the
// in-memory store that enforces their invariants.
package appointment

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Validation errors.
var (
	ErrInvalidDuration = errors.New("duration must be at least one slot")
	ErrOutOfBounds     = errors.New("interval falls outside the visible day")
	ErrInvalidKind     = errors.New("kind must be 'booking' or 'blockout'")
	ErrEmptyResource   = errors.New("resource id cannot be empty")
	ErrUnknownResource = errors.New("unknown resource")
)

// Domain errors.
var (
	ErrConflict = errors.New("interval overlaps an existing appointment")
	ErrNotFound = errors.New("appointment not found")
	ErrIDTaken  = errors.New("generated id already in use")
)

// ConflictError describes which record a candidate collided with.
type ConflictError struct {
	Candidate Appointment
	Existing  Appointment
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v: conflicts with %s %q on %s [%d,%d)",
		ErrConflict, e.Existing.ID, e.Existing.Label, e.Existing.ResourceID,
		e.Existing.StartIndex, e.Existing.EndIndex())
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// NotFoundError names the unknown id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: %s", ErrNotFound, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Kind tags an appointment as a real booking or an administrative blockout.
type Kind string

const (
	KindBooking  Kind = "booking"
	KindBlockout Kind = "blockout"
)

// Valid returns true if the kind is a known value.
func (k Kind) Valid() bool {
	switch k {
	case KindBooking, KindBlockout:
		return true
	default:
		return false
	}
}

// GuestInfo is carried for the guest-lookup collaborator; the engine only
// stores it.
type GuestInfo struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ServiceLine is one billable item attached to a booking.
type ServiceLine struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Appointment is a booked interval on one resource.
type Appointment struct {
	ID            string        `json:"id"`
	ResourceID    string        `json:"resourceId"`
	StartIndex    int           `json:"startIndex"`
	DurationSlots int           `json:"durationSlots"`
	Kind          Kind          `json:"kind"`
	Label         string        `json:"label"`
	Notes         string        `json:"notes"`
	CreatedBy     string        `json:"createdBy"`
	GuestInfo     *GuestInfo    `json:"guestInfo,omitempty"`
	ServiceLines  []ServiceLine `json:"serviceLines,omitempty"`
	Reason        string        `json:"reason,omitempty"`
}

// EndIndex returns the exclusive end slot.
func (a Appointment) EndIndex() int {
	return a.StartIndex + a.DurationSlots
}

// IsBlockout reports whether the appointment is a blockout.
func (a Appointment) IsBlockout() bool {
	return a.Kind == KindBlockout
}

// Contains reports whether slot index falls inside the appointment.
func (a Appointment) Contains(index int) bool {
	return index >= a.StartIndex && index < a.EndIndex()
}

// OverlapsWith returns true if both appointments sit on the same resource and
// their intervals intersect.
func (a Appointment) OverlapsWith(other Appointment) bool {
	if a.ResourceID != other.ResourceID {
		return false
	}
	return Overlaps(a.StartIndex, a.DurationSlots, other.StartIndex, other.DurationSlots)
}

// Clone returns a deep copy.
func (a Appointment) Clone() Appointment {
	if a.GuestInfo != nil {
		g := *a.GuestInfo
		a.GuestInfo = &g
	}
	a.ServiceLines = slices.Clone(a.ServiceLines)
	return a
}

// Overlaps is the half-open interval test for [s1, s1+d1) and [s2, s2+d2).
// Intervals that only touch do not overlap.
func Overlaps(s1, d1, s2, d2 int) bool {
	return s1 < s2+d2 && s2 < s1+d1
}

// NewBooking builds a booking candidate.
func NewBooking(resourceID string, start, duration int, label string) Appointment {
	return Appointment{
		ResourceID:    resourceID,
		StartIndex:    start,
		DurationSlots: duration,
		Kind:          KindBooking,
		Label:         strings.TrimSpace(label),
	}
}

// NewBlockout maps blockout dialog output onto a blockout candidate. The
// reason doubles as the label shown on the grid.
func NewBlockout(resourceID, reason string, start, duration int, notes string) Appointment {
	reason = strings.TrimSpace(reason)
	return Appointment{
		ResourceID:    resourceID,
		StartIndex:    start,
		DurationSlots: duration,
		Kind:          KindBlockout,
		Label:         reason,
		Reason:        reason,
		Notes:         notes,
	}
}

// Patch is a partial update; nil fields are left unchanged.
type Patch struct {
	ResourceID    *string
	StartIndex    *int
	DurationSlots *int
	Kind          *Kind
	Label         *string
	Notes         *string
	GuestInfo     *GuestInfo
	ClearGuest    bool // drop GuestInfo; wins over GuestInfo
	ServiceLines  []ServiceLine
	Reason        *string
}

// apply returns a copy of a with the patch applied.
func (p Patch) apply(a Appointment) Appointment {
	out := a.Clone()
	if p.ResourceID != nil {
		out.ResourceID = *p.ResourceID
	}
	if p.StartIndex != nil {
		out.StartIndex = *p.StartIndex
	}
	if p.DurationSlots != nil {
		out.DurationSlots = *p.DurationSlots
	}
	if p.Kind != nil {
		out.Kind = *p.Kind
	}
	if p.Label != nil {
		out.Label = strings.TrimSpace(*p.Label)
	}
	if p.Notes != nil {
		out.Notes = *p.Notes
	}
	switch {
	case p.ClearGuest:
		out.GuestInfo = nil
	case p.GuestInfo != nil:
		g := *p.GuestInfo
		out.GuestInfo = &g
	}
	if p.ServiceLines != nil {
		out.ServiceLines = slices.Clone(p.ServiceLines)
	}
	if p.Reason != nil {
		out.Reason = strings.TrimSpace(*p.Reason)
	}
	return out
}

// Ptr is a small helper for building patches.
func Ptr[T any](v T) *T {
	return &v
}
