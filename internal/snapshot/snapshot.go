// Package snapshot serializes a day's appointments under a date-scoped key.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/javiermolinar/slotbook/internal/appointment"
	"github.com/javiermolinar/slotbook/internal/dateutil"
)

// KeyPrefix prefixes every day snapshot key.
const KeyPrefix = "appointments_by_date:"

// LastViewedKey holds the last date opened in the UI. It is a convenience
// value only and never stores appointments.
const LastViewedKey = "ui:last_viewed_date"

// Key returns the storage key for date, e.g. "appointments_by_date:2024-05-01".
func Key(date time.Time) string {
	return KeyPrefix + dateutil.DateKey(date)
}

// KV is the byte-level store snapshots are written to.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Stamped is implemented by KVs that record when each key was written.
type Stamped interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, bool, error)
}

// Source tells the caller where a loaded collection came from.
type Source int

const (
	SourceEmpty     Source = iota // nothing stored, no seed
	SourceStored                  // decoded from the stored snapshot
	SourceSeeded                  // first visit, filled from the seed
	SourceRecovered               // stored value unreadable, fell back
)

func (s Source) String() string {
	switch s {
	case SourceStored:
		return "stored"
	case SourceSeeded:
		return "seeded"
	case SourceRecovered:
		return "recovered"
	default:
		return "empty"
	}
}

// SeedFunc supplies records for a date that has never been stored.
type SeedFunc func(date time.Time) []appointment.Appointment

// Adapter reads and writes DaySnapshots. It never keeps a reference to the
// slices it is given or returns.
type Adapter struct {
	kv     KV
	seed   SeedFunc
	logger zerolog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithSeed sets the first-visit seed.
func WithSeed(fn SeedFunc) Option {
	return func(a *Adapter) {
		a.seed = fn
	}
}

// WithLogger sets the logger used to report recovered snapshots.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Adapter) {
		a.logger = l
	}
}

// NewAdapter wraps kv.
func NewAdapter(kv KV, opts ...Option) *Adapter {
	a := &Adapter{kv: kv, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Encode serializes records as a JSON array. A nil slice encodes as [].
func Encode(records []appointment.Appointment) ([]byte, error) {
	if records == nil {
		records = []appointment.Appointment{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a JSON array of appointments.
func Decode(data []byte) ([]appointment.Appointment, error) {
	var records []appointment.Appointment
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return records, nil
}

// Save writes the snapshot for date.
func (a *Adapter) Save(ctx context.Context, date time.Time, records []appointment.Appointment) error {
	data, err := Encode(records)
	if err != nil {
		return err
	}
	if err := a.kv.Put(ctx, Key(date), data); err != nil {
		return fmt.Errorf("saving snapshot %s: %w", dateutil.DateKey(date), err)
	}
	return nil
}

// Load returns the collection for date. Missing or unreadable snapshots are
// not errors: the result falls back to the seed (first visit only) or to an
// empty collection, and Source says which happened.
func (a *Adapter) Load(ctx context.Context, date time.Time) ([]appointment.Appointment, Source) {
	key := Key(date)
	data, ok, err := a.kv.Get(ctx, key)
	if err != nil {
		a.logger.Error().Err(err).Str("key", key).Msg("snapshot read failed, starting empty")
		return []appointment.Appointment{}, SourceRecovered
	}
	if !ok {
		if a.seed != nil {
			if seeded := a.seed(date); len(seeded) > 0 {
				return cloneAll(seeded), SourceSeeded
			}
		}
		return []appointment.Appointment{}, SourceEmpty
	}

	records, err := Decode(data)
	if err != nil {
		a.logger.Warn().Err(err).Str("key", key).Int("bytes", len(data)).Msg("corrupt snapshot, starting empty")
		return []appointment.Appointment{}, SourceRecovered
	}
	if records == nil {
		records = []appointment.Appointment{}
	}
	return records, SourceStored
}

// Dates lists the dates that have a stored snapshot, oldest first.
func (a *Adapter) Dates(ctx context.Context) ([]time.Time, error) {
	keys, err := a.kv.Keys(ctx, KeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	sort.Strings(keys)

	dates := make([]time.Time, 0, len(keys))
	for _, k := range keys {
		d, err := dateutil.ParseDateKey(strings.TrimPrefix(k, KeyPrefix))
		if err != nil {
			a.logger.Warn().Str("key", k).Msg("ignoring snapshot with malformed key")
			continue
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// SavedAt returns when the snapshot for date was last written. ok is false
// when nothing is stored or the backend does not keep write times.
func (a *Adapter) SavedAt(ctx context.Context, date time.Time) (time.Time, bool) {
	st, ok := a.kv.(Stamped)
	if !ok {
		return time.Time{}, false
	}
	t, found, err := st.UpdatedAt(ctx, Key(date))
	if err != nil {
		a.logger.Warn().Err(err).Str("key", Key(date)).Msg("reading snapshot write time")
		return time.Time{}, false
	}
	return t, found
}

// SetLastViewed records the last opened date.
func (a *Adapter) SetLastViewed(ctx context.Context, date time.Time) error {
	return a.kv.Put(ctx, LastViewedKey, []byte(dateutil.DateKey(date)))
}

// LastViewed returns the last opened date, if one was recorded and parses.
func (a *Adapter) LastViewed(ctx context.Context) (time.Time, bool) {
	data, ok, err := a.kv.Get(ctx, LastViewedKey)
	if err != nil || !ok {
		return time.Time{}, false
	}
	d, err := dateutil.ParseDateKey(string(data))
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func cloneAll(records []appointment.Appointment) []appointment.Appointment {
	out := make([]appointment.Appointment, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
