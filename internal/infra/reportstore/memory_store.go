package reportstore

import (
	"context"
	"sync"
	"time"

	"github.com/nuvia/nutrition-advisor/internal/domain/scoring"
)

type reportEntry struct {
	metrics   []scoring.LabMetric
	expiresAt time.Time
}

// MemoryStore is an in-memory report store used for tests/dev.
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]reportEntry
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, entries: make(map[string]reportEntry)}
}

// Put stores the session's lab metrics, replacing any earlier upload.
func (s *MemoryStore) Put(_ context.Context, sessionID string, metrics []scoring.LabMetric) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if s.ttl > 0 {
		exp = time.Now().Add(s.ttl)
	}
	copied := make([]scoring.LabMetric, len(metrics))
	copy(copied, metrics)
	s.entries[sessionID] = reportEntry{metrics: copied, expiresAt: exp}
	return nil
}

// Get implements recommend.ReportStore.
func (s *MemoryStore) Get(_ context.Context, sessionID string) ([]scoring.LabMetric, error) {
	s.mu.RLock()
	entry, ok := s.entries[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && entry.expiresAt.Before(time.Now()) {
		s.mu.Lock()
		delete(s.entries, sessionID)
		s.mu.Unlock()
		return nil, nil
	}
	out := make([]scoring.LabMetric, len(entry.metrics))
	copy(out, entry.metrics)
	return out, nil
}

// Delete evicts the session's report.
func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}
