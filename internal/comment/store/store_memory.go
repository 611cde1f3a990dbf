package store

import (
	"context"
	"sort"
	"sync"

	"drainadopt/internal/comment/models"
	id "drainadopt/pkg/domain"
	"drainadopt/pkg/platform/sentinel"
)

// InMemoryCommentStore keeps comments grouped by drain.
type InMemoryCommentStore struct {
	mu      sync.RWMutex
	byDrain map[id.DrainID][]*models.Comment
	ids     map[id.CommentID]struct{}
}

func NewMemory() *InMemoryCommentStore {
	return &InMemoryCommentStore{
		byDrain: make(map[id.DrainID][]*models.Comment),
		ids:     make(map[id.CommentID]struct{}),
	}
}

func (s *InMemoryCommentStore) Create(_ context.Context, c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.ids[c.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *c
	s.byDrain[c.DrainID] = append(s.byDrain[c.DrainID], &cp)
	s.ids[c.ID] = struct{}{}
	return nil
}

// ListByDrain returns the drain's comments newest first.
func (s *InMemoryCommentStore) ListByDrain(_ context.Context, drainID id.DrainID) ([]*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.byDrain[drainID]
	out := make([]*models.Comment, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		cp := *stored[i]
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
