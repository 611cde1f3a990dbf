package user

import (
	"context"
	"sort"
	"strings"
	"sync"

	"drainadopt/internal/identity/models"
	id "drainadopt/pkg/domain"
	"drainadopt/pkg/platform/sentinel"
)

// InMemoryUserStore keeps users in a map guarded by a RWMutex. Admin
// existence is tracked as a counter so bootstrap checks never scan.
type InMemoryUserStore struct {
	mu      sync.RWMutex
	users   map[id.UserID]*models.User
	byEmail map[string]id.UserID
	byDrain map[id.DrainID]id.UserID
	admins  int
}

// New returns an empty store.
func New() *InMemoryUserStore {
	return &InMemoryUserStore{
		users:   make(map[id.UserID]*models.User),
		byEmail: make(map[string]id.UserID),
		byDrain: make(map[id.DrainID]id.UserID),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func clone(u *models.User) *models.User {
	c := *u
	if u.AdoptedDrainID != nil {
		d := *u.AdoptedDrainID
		c.AdoptedDrainID = &d
	}
	return &c
}

// Create inserts a user; ErrConflict when the email is taken.
func (s *InMemoryUserStore) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(u)
}

// CreateIfNoAdmin inserts u only while no ADMIN exists. Returns
// ErrInvalidState when an admin is already present.
func (s *InMemoryUserStore) CreateIfNoAdmin(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.admins > 0 {
		return sentinel.ErrInvalidState
	}
	return s.insertLocked(u)
}

func (s *InMemoryUserStore) insertLocked(u *models.User) error {
	email := normalizeEmail(u.Email)
	if _, taken := s.byEmail[email]; taken {
		return sentinel.ErrConflict
	}
	if u.AdoptedDrainID != nil {
		if _, taken := s.byDrain[*u.AdoptedDrainID]; taken {
			return sentinel.ErrConflict
		}
		s.byDrain[*u.AdoptedDrainID] = u.ID
	}
	s.users[u.ID] = clone(u)
	s.byEmail[email] = u.ID
	if u.Role == models.RoleAdmin {
		s.admins++
	}
	return nil
}

// AdminExists reports whether at least one ADMIN exists.
func (s *InMemoryUserStore) AdminExists(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.admins > 0, nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(u), nil
}

// FindByIDForUpdate is FindByID; callers serialize through the memory runner.
func (s *InMemoryUserStore) FindByIDForUpdate(ctx context.Context, userID id.UserID) (*models.User, error) {
	return s.FindByID(ctx, userID)
}

func (s *InMemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(s.users[userID]), nil
}

// List returns all users ordered by creation time.
func (s *InMemoryUserStore) List(_ context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, clone(u))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// UpdateRole sets the user's role.
func (s *InMemoryUserStore) UpdateRole(_ context.Context, userID id.UserID, role models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if u.Role != models.RoleAdmin && role == models.RoleAdmin {
		s.admins++
	} else if u.Role == models.RoleAdmin && role != models.RoleAdmin {
		s.admins--
	}
	u.Role = role
	return nil
}

// SetAdoptedDrain links the user to drainID only if the user has no drain.
// Returns ErrConflict when a link already exists.
func (s *InMemoryUserStore) SetAdoptedDrain(_ context.Context, userID id.UserID, drainID id.DrainID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if u.AdoptedDrainID != nil {
		return sentinel.ErrConflict
	}
	if _, taken := s.byDrain[drainID]; taken {
		return sentinel.ErrConflict
	}
	d := drainID
	u.AdoptedDrainID = &d
	s.byDrain[drainID] = userID
	return nil
}

// ClearAdoptedDrain removes the link if it still points at drainID. Missing
// users are ignored.
func (s *InMemoryUserStore) ClearAdoptedDrain(_ context.Context, userID id.UserID, drainID id.DrainID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil
	}
	if u.AdoptedDrainID != nil && *u.AdoptedDrainID == drainID {
		u.AdoptedDrainID = nil
		delete(s.byDrain, drainID)
	}
	return nil
}
