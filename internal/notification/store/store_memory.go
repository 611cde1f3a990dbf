package store

import (
	"context"
	"sync"
	"time"

	"drainadopt/internal/notification/models"
	id "drainadopt/pkg/domain"
	"drainadopt/pkg/platform/sentinel"
)

// InMemoryNotificationStore keeps notifications in insertion order.
type InMemoryNotificationStore struct {
	mu     sync.RWMutex
	byID   map[id.NotificationID]*models.Notification
	order  []id.NotificationID
	unread int64
}

// NewMemory returns an empty store.
func NewMemory() *InMemoryNotificationStore {
	return &InMemoryNotificationStore{byID: make(map[id.NotificationID]*models.Notification)}
}

func clone(n *models.Notification) *models.Notification {
	c := *n
	if n.UserID != nil {
		u := *n.UserID
		c.UserID = &u
	}
	return &c
}

func (s *InMemoryNotificationStore) Append(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[n.ID]; exists {
		return sentinel.ErrConflict
	}
	s.byID[n.ID] = clone(n)
	s.order = append(s.order, n.ID)
	if !n.Read {
		s.unread++
	}
	return nil
}

// List returns all notifications newest first.
func (s *InMemoryNotificationStore) List(_ context.Context) ([]*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Notification, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, clone(s.byID[s.order[i]]))
	}
	return out, nil
}

func (s *InMemoryNotificationStore) CountUnread(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread, nil
}

func (s *InMemoryNotificationStore) MarkRead(_ context.Context, notificationID id.NotificationID) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.byID[notificationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if !n.Read {
		n.Read = true
		s.unread--
	}
	return clone(n), nil
}

// MarkAllRead returns how many notifications changed.
func (s *InMemoryNotificationStore) MarkAllRead(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.unread
	for _, n := range s.byID {
		n.Read = true
	}
	s.unread = 0
	return changed, nil
}

// LatestCreatedAt returns the newest timestamp, or zero when empty.
func (s *InMemoryNotificationStore) LatestCreatedAt(_ context.Context) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.order) == 0 {
		return time.Time{}, nil
	}
	return s.byID[s.order[len(s.order)-1]].CreatedAt, nil
}
