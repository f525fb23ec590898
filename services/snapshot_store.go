package services

import (
	"sync"
	"time"
)

// DefaultSnapshotTTL bounds how long an idle session keeps its trends
const DefaultSnapshotTTL = 24 * time.Hour

type snapshotEntry struct {
	snapshot KPISnapshot
	touched  time.Time
}

// SnapshotStore keeps one KPISnapshot per session so every view of the
// dashboard (page, charts, exports) shows the same generated trends. A
// snapshot is regenerated only when the session's time range changes.
type SnapshotStore struct {
	gen *MetricsGenerator
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]*snapshotEntry
}

// NewSnapshotStore creates a store backed by gen
func NewSnapshotStore(gen *MetricsGenerator, ttl time.Duration) *SnapshotStore {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &SnapshotStore{
		gen:     gen,
		ttl:     ttl,
		entries: make(map[string]*snapshotEntry),
	}
}

// Get returns the session's snapshot for tr, building a new one when the
// session has none or holds a different range.
func (s *SnapshotStore) Get(sessionID string, tr TimeRange) KPISnapshot {
	if !tr.IsValid() {
		tr = DefaultTimeRange
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.gen.Now()
	if entry, ok := s.entries[sessionID]; ok && entry.snapshot.TimeRange == tr {
		entry.touched = now
		return entry.snapshot
	}

	snap := BuildKPISnapshot(s.gen, tr)
	s.entries[sessionID] = &snapshotEntry{snapshot: snap, touched: now}
	return snap
}

// Forget drops a session's snapshot, e.g. on logout
func (s *SnapshotStore) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
}

// Prune drops snapshots idle longer than the TTL and returns how many
func (s *SnapshotStore) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.gen.Now().Add(-s.ttl)
	removed := 0
	for id, entry := range s.entries {
		if entry.touched.Before(cutoff) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of cached sessions
func (s *SnapshotStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
