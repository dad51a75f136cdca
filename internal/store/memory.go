package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps snapshots in process memory. Used when the service runs
// without a database, and in tests.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots []*IndexSnapshot
	runs      []*ValidationRun
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) SaveIndexSnapshot(_ context.Context, snap *IndexSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap.ID = uuid.New()
	snap.CreatedAt = time.Now().UTC()
	s.snapshots = append(s.snapshots, snap)
	return nil
}

func (s *MemoryStore) LatestIndexSnapshot(_ context.Context, year int, scheme string) (*IndexSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.snapshots) - 1; i >= 0; i-- {
		if s.snapshots[i].Year == year && s.snapshots[i].Scheme == scheme {
			return s.snapshots[i], nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) ListIndexSnapshots(_ context.Context, limit int) ([]*IndexSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 50
	}
	var out []*IndexSnapshot
	for i := len(s.snapshots) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.snapshots[i])
	}
	return out, nil
}

func (s *MemoryStore) SaveValidationRun(_ context.Context, run *ValidationRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	run.ID = uuid.New()
	run.CreatedAt = time.Now().UTC()
	s.runs = append(s.runs, run)
	return nil
}

func (s *MemoryStore) LatestValidationRun(_ context.Context) (*ValidationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.runs) == 0 {
		return nil, nil
	}
	return s.runs[len(s.runs)-1], nil
}
