package snapshot

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

// MemoryKV is an in-process KV used by tests and ephemeral sessions.
type MemoryKV struct {
	mu    sync.Mutex
	data  map[string][]byte
	stamp map[string]time.Time
	now   func() time.Time
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		data:  make(map[string][]byte),
		stamp: make(map[string]time.Time),
		now:   time.Now,
	}
}

// Get implements KV.
func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return slices.Clone(v), ok, nil
}

// Put implements KV.
func (m *MemoryKV) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = slices.Clone(value)
	m.stamp[key] = m.now().UTC().Truncate(time.Second)
	return nil
}

// UpdatedAt implements Stamped.
func (m *MemoryKV) UpdatedAt(_ context.Context, key string) (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.stamp[key]
	return t, ok, nil
}

// Keys implements KV.
func (m *MemoryKV) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys, nil
}
