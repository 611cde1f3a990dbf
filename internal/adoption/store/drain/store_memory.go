package drain

import (
	"context"
	"sort"
	"sync"

	"drainadopt/internal/adoption/models"
	id "drainadopt/pkg/domain"
	"drainadopt/pkg/platform/sentinel"
)

// InMemoryDrainStore keeps drains in a map guarded by a RWMutex.
type InMemoryDrainStore struct {
	mu        sync.RWMutex
	drains    map[id.DrainID]*models.Drain
	byAdopter map[id.UserID]id.DrainID
}

// New returns an empty store.
func New() *InMemoryDrainStore {
	return &InMemoryDrainStore{
		drains:    make(map[id.DrainID]*models.Drain),
		byAdopter: make(map[id.UserID]id.DrainID),
	}
}

func clone(d *models.Drain) *models.Drain {
	c := *d
	if d.AdoptedByUserID != nil {
		u := *d.AdoptedByUserID
		c.AdoptedByUserID = &u
	}
	return &c
}

func (s *InMemoryDrainStore) Create(_ context.Context, d *models.Drain) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.drains[d.ID]; exists {
		return sentinel.ErrConflict
	}
	if d.AdoptedByUserID != nil {
		if _, taken := s.byAdopter[*d.AdoptedByUserID]; taken {
			return sentinel.ErrConflict
		}
		s.byAdopter[*d.AdoptedByUserID] = d.ID
	}
	s.drains[d.ID] = clone(d)
	return nil
}

func (s *InMemoryDrainStore) FindByID(_ context.Context, drainID id.DrainID) (*models.Drain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drains[drainID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(d), nil
}

// FindByIDForUpdate is FindByID; callers serialize through the memory runner.
func (s *InMemoryDrainStore) FindByIDForUpdate(ctx context.Context, drainID id.DrainID) (*models.Drain, error) {
	return s.FindByID(ctx, drainID)
}

// List returns drains in creation order.
func (s *InMemoryDrainStore) List(_ context.Context) ([]*models.Drain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Drain, 0, len(s.drains))
	for _, d := range s.drains {
		out = append(out, clone(d))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// UpdateDetails writes the descriptive fields of d. The adoption link is
// owned by SetAdopter and ClearAdopter and is left untouched.
func (s *InMemoryDrainStore) UpdateDetails(_ context.Context, d *models.Drain) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.drains[d.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	existing.Name = d.Name
	existing.ImageURL = d.ImageURL
	existing.Latitude = d.Latitude
	existing.Longitude = d.Longitude
	existing.UpdatedAt = d.UpdatedAt
	return nil
}

func (s *InMemoryDrainStore) Delete(_ context.Context, drainID id.DrainID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drains[drainID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if d.AdoptedByUserID != nil {
		delete(s.byAdopter, *d.AdoptedByUserID)
	}
	delete(s.drains, drainID)
	return nil
}

// SetAdopter links the drain to userID only if the drain has no adopter.
func (s *InMemoryDrainStore) SetAdopter(_ context.Context, drainID id.DrainID, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drains[drainID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if d.AdoptedByUserID != nil {
		return sentinel.ErrConflict
	}
	if _, taken := s.byAdopter[userID]; taken {
		return sentinel.ErrConflict
	}
	u := userID
	d.AdoptedByUserID = &u
	s.byAdopter[userID] = drainID
	return nil
}

// ClearAdopter removes the link if it still points at userID.
func (s *InMemoryDrainStore) ClearAdopter(_ context.Context, drainID id.DrainID, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drains[drainID]
	if !ok {
		return nil
	}
	if d.AdoptedByUserID != nil && *d.AdoptedByUserID == userID {
		d.AdoptedByUserID = nil
		delete(s.byAdopter, userID)
	}
	return nil
}
