package outbox

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process outbox.
type MemoryStore struct {
	mu        sync.Mutex
	entries   []Entry
	published map[uuid.UUID]time.Time
	nextSeq   int64
}

func NewMemory() *MemoryStore {
	return &MemoryStore{published: make(map[uuid.UUID]time.Time)}
}

func (s *MemoryStore) Enqueue(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	e.Seq = s.nextSeq
	s.entries = append(s.entries, e)
	return nil
}

// Pending returns up to limit unpublished entries in enqueue order.
func (s *MemoryStore) Pending(_ context.Context, limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Entry
	for _, e := range s.entries {
		if _, done := s.published[e.ID]; done {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *MemoryStore) MarkPublished(_ context.Context, ids []uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entryID := range ids {
		s.published[entryID] = at
	}
	return nil
}
