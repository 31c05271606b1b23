// Package booking keeps the appointment store for the currently viewed date
// in step with its persisted snapshot.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/javiermolinar/slotbook/internal/appointment"
	"github.com/javiermolinar/slotbook/internal/dateutil"
	"github.com/javiermolinar/slotbook/internal/slotclock"
	"github.com/javiermolinar/slotbook/internal/snapshot"
)

var (
	// ErrNotOpen is returned when a mutation arrives before Open.
	ErrNotOpen = errors.New("no date is open")
	// ErrPersist marks a mutation that succeeded in memory but was not saved.
	ErrPersist = errors.New("snapshot not saved")
)

// Book is the day controller: one Store per viewed date, persisted after every
// successful mutation. Like the Store it is single-goroutine.
type Book struct {
	clock   slotclock.Clock
	adapter *snapshot.Adapter
	logger  zerolog.Logger

	storeOpts []appointment.StoreOption
	operator  string

	date   time.Time
	store  *appointment.Store
	source snapshot.Source
	dirty  bool // last save failed; retried on the next mutation
}

// Option configures a Book.
type Option func(*Book)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Book) {
		b.logger = l
	}
}

// WithStoreOptions passes options to every Store the Book creates.
func WithStoreOptions(opts ...appointment.StoreOption) Option {
	return func(b *Book) {
		b.storeOpts = append(b.storeOpts, opts...)
	}
}

// WithOperator stamps CreatedBy on new records that do not set it.
func WithOperator(name string) Option {
	return func(b *Book) {
		b.operator = name
	}
}

// New creates a Book. Call Open before mutating.
func New(clock slotclock.Clock, adapter *snapshot.Adapter, opts ...Option) *Book {
	b := &Book{
		clock:   clock,
		adapter: adapter,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Open switches the book to date, restoring its snapshot into a fresh store.
// A seeded first visit is persisted immediately so the seed applies once.
// Unsaved changes on the current day are saved first; if that still fails
// the book stays on the current day and the ErrPersist error is returned.
func (b *Book) Open(ctx context.Context, date time.Time) error {
	if b.store != nil {
		if err := b.Flush(ctx); err != nil {
			return err
		}
	}
	date = dateutil.TruncateToDay(date)
	records, source := b.adapter.Load(ctx, date)

	store := appointment.NewStore(b.clock, b.storeOpts...)
	for _, r := range store.Replace(records) {
		b.logger.Warn().Err(r.Err).
			Str("date", dateutil.DateKey(date)).
			Str("id", r.Appointment.ID).
			Msg("dropping invalid record from snapshot")
	}

	b.date = date
	b.store = store
	b.source = source
	b.dirty = false
	b.logger.Debug().
		Str("date", dateutil.DateKey(date)).
		Str("source", source.String()).
		Int("records", store.Len()).
		Msg("opened day")

	if err := b.adapter.SetLastViewed(ctx, date); err != nil {
		b.logger.Warn().Err(err).Msg("recording last viewed date")
	}
	if source == snapshot.SourceSeeded {
		return b.persist(ctx)
	}
	return nil
}

// IsOpen reports whether a date has been opened.
func (b *Book) IsOpen() bool {
	return b.store != nil
}

// Date returns the open date.
func (b *Book) Date() time.Time {
	return b.date
}

// Source reports where the open day's records were loaded from.
func (b *Book) Source() snapshot.Source {
	return b.source
}

// Clock returns the slot grid.
func (b *Book) Clock() slotclock.Clock {
	return b.clock
}

// Adapter returns the persistence adapter.
func (b *Book) Adapter() *snapshot.Adapter {
	return b.adapter
}

// Get returns the appointment with id.
func (b *Book) Get(id string) (appointment.Appointment, error) {
	if b.store == nil {
		return appointment.Appointment{}, ErrNotOpen
	}
	return b.store.Get(id)
}

// All returns the open day's appointments in insertion order.
func (b *Book) All() []appointment.Appointment {
	if b.store == nil {
		return nil
	}
	return b.store.All()
}

// ListByResource returns the open day's appointments on resourceID.
func (b *Book) ListByResource(resourceID string) []appointment.Appointment {
	if b.store == nil {
		return nil
	}
	return b.store.ListByResource(resourceID)
}

// At returns the appointment covering index on resourceID.
func (b *Book) At(resourceID string, index int) (appointment.Appointment, bool) {
	if b.store == nil {
		return appointment.Appointment{}, false
	}
	return b.store.At(resourceID, index)
}

// Create inserts candidate and persists the day.
func (b *Book) Create(ctx context.Context, candidate appointment.Appointment) (appointment.Appointment, error) {
	if b.store == nil {
		return appointment.Appointment{}, ErrNotOpen
	}
	if candidate.CreatedBy == "" {
		candidate.CreatedBy = b.operator
	}
	a, err := b.store.Create(candidate)
	if err != nil {
		return appointment.Appointment{}, b.observe("create", "", err)
	}
	b.logger.Debug().Str("id", a.ID).Str("resource", a.ResourceID).
		Int("start", a.StartIndex).Int("slots", a.DurationSlots).Msg("created")
	return a, b.persist(ctx)
}

// Update patches the appointment with id and persists the day.
func (b *Book) Update(ctx context.Context, id string, patch appointment.Patch) (appointment.Appointment, error) {
	if b.store == nil {
		return appointment.Appointment{}, ErrNotOpen
	}
	a, err := b.store.Update(id, patch)
	if err != nil {
		return appointment.Appointment{}, b.observe("update", id, err)
	}
	return a, b.persist(ctx)
}

// Move relocates the appointment with id and persists the day.
func (b *Book) Move(ctx context.Context, id, resourceID string, start int) (appointment.Appointment, error) {
	if b.store == nil {
		return appointment.Appointment{}, ErrNotOpen
	}
	a, err := b.store.Move(id, resourceID, start)
	if err != nil {
		return appointment.Appointment{}, b.observe("move", id, err)
	}
	b.logger.Debug().Str("id", id).Str("resource", a.ResourceID).Int("start", a.StartIndex).Msg("moved")
	return a, b.persist(ctx)
}

// Remove deletes the appointment with id and persists the day.
func (b *Book) Remove(ctx context.Context, id string) error {
	if b.store == nil {
		return ErrNotOpen
	}
	if err := b.store.Remove(id); err != nil {
		return b.observe("remove", id, err)
	}
	return b.persist(ctx)
}

// Dirty reports whether the last save failed.
func (b *Book) Dirty() bool {
	return b.dirty
}

// Flush retries a failed save, if any.
func (b *Book) Flush(ctx context.Context) error {
	if !b.dirty {
		return nil
	}
	return b.persist(ctx)
}

// observe logs engine errors. Unknown ids indicate a caller bug and are
// logged louder than ordinary validation rejections.
func (b *Book) observe(op, id string, err error) error {
	switch {
	case errors.Is(err, appointment.ErrNotFound):
		b.logger.Warn().Err(err).Str("op", op).Str("id", id).Msg("unknown appointment id")
	default:
		b.logger.Debug().Err(err).Str("op", op).Str("id", id).Msg("rejected")
	}
	return err
}

// persist writes the open day's snapshot. On failure the in-memory state is
// kept and marked dirty.
func (b *Book) persist(ctx context.Context) error {
	if err := b.adapter.Save(ctx, b.date, b.store.All()); err != nil {
		b.dirty = true
		b.logger.Error().Err(err).Str("date", dateutil.DateKey(b.date)).Msg("saving snapshot")
		return fmt.Errorf("%w: %s: %w", ErrPersist, dateutil.DateKey(b.date), err)
	}
	b.dirty = false
	return nil
}

// Bound is a Book paired with a context, for callers whose ports have no
// context parameter.
type Bound struct {
	ctx  context.Context
	book *Book
}

// Mover binds ctx to the book.
func (b *Book) Mover(ctx context.Context) Bound {
	return Bound{ctx: ctx, book: b}
}

// Get returns the appointment with id.
func (m Bound) Get(id string) (appointment.Appointment, error) {
	return m.book.Get(id)
}

// Move relocates the appointment with id and persists the day. A failed save
// does not undo the move, so it is not reported here; check Dirty.
func (m Bound) Move(id, resourceID string, start int) (appointment.Appointment, error) {
	a, err := m.book.Move(m.ctx, id, resourceID, start)
	if errors.Is(err, ErrPersist) {
		return a, nil
	}
	return a, err
}
