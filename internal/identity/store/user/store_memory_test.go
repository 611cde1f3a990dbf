package user

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"drainadopt/internal/identity/models"
	id "drainadopt/pkg/domain"
	"drainadopt/pkg/platform/sentinel"
)

type InMemoryUserStoreSuite struct {
	suite.Suite
	store *InMemoryUserStore
	ctx   context.Context
}

func (s *InMemoryUserStoreSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
}

func TestInMemoryUserStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryUserStoreSuite))
}

func newUser(email string, role models.Role) *models.User {
	return &models.User{
		ID:           id.NewUserID(),
		Name:         "Jane Doe",
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
		CreatedAt:    time.Now(),
	}
}

func (s *InMemoryUserStoreSuite) TestLookupBehavior() {
	u := newUser("Jane.Doe@example.com", models.RoleAdopter)
	s.Require().NoError(s.store.Create(s.ctx, u))

	s.Run("returns user by ID", func() {
		found, err := s.store.FindByID(s.ctx, u.ID)
		s.Require().NoError(err)
		s.Equal(u.Email, found.Email)
	})

	s.Run("email lookup is case-insensitive", func() {
		found, err := s.store.FindByEmail(s.ctx, "jane.doe@EXAMPLE.com")
		s.Require().NoError(err)
		s.Equal(u.ID, found.ID)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.FindByID(s.ctx, id.NewUserID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned users are copies", func() {
		found, err := s.store.FindByID(s.ctx, u.ID)
		s.Require().NoError(err)
		found.Name = "mutated"
		again, err := s.store.FindByID(s.ctx, u.ID)
		s.Require().NoError(err)
		s.Equal("Jane Doe", again.Name)
	})
}

func (s *InMemoryUserStoreSuite) TestEmailUniqueness() {
	s.Require().NoError(s.store.Create(s.ctx, newUser("dup@example.com", models.RoleAdopter)))
	err := s.store.Create(s.ctx, newUser("DUP@example.com", models.RoleAdopter))
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

func (s *InMemoryUserStoreSuite) TestCreateIfNoAdmin() {
	s.Run("first admin succeeds, second is rejected", func() {
		s.Require().NoError(s.store.CreateIfNoAdmin(s.ctx, newUser("a1@example.com", models.RoleAdmin)))
		err := s.store.CreateIfNoAdmin(s.ctx, newUser("a2@example.com", models.RoleAdmin))
		s.Require().ErrorIs(err, sentinel.ErrInvalidState)
	})

	s.Run("promotion counts as an admin", func() {
		store := New()
		u := newUser("p@example.com", models.RoleAdopter)
		s.Require().NoError(store.Create(s.ctx, u))
		exists, _ := store.AdminExists(s.ctx)
		s.False(exists)

		s.Require().NoError(store.UpdateRole(s.ctx, u.ID, models.RoleAdmin))
		exists, _ = store.AdminExists(s.ctx)
		s.True(exists)
	})

	s.Run("concurrent bootstrap admits exactly one", func() {
		store := New()
		var wg sync.WaitGroup
		var ok atomic.Int32
		for i := 0; i < 30; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				u := newUser(id.NewUserID().String()+"@example.com", models.RoleAdmin)
				if store.CreateIfNoAdmin(s.ctx, u) == nil {
					ok.Add(1)
				}
			}(i)
		}
		wg.Wait()
		s.Equal(int32(1), ok.Load())
	})
}

func (s *InMemoryUserStoreSuite) TestAdoptionLink() {
	u := newUser("adopter@example.com", models.RoleAdopter)
	other := newUser("other@example.com", models.RoleAdopter)
	s.Require().NoError(s.store.Create(s.ctx, u))
	s.Require().NoError(s.store.Create(s.ctx, other))
	drainID := id.NewDrainID()

	s.Run("sets link once", func() {
		s.Require().NoError(s.store.SetAdoptedDrain(s.ctx, u.ID, drainID))
		found, _ := s.store.FindByID(s.ctx, u.ID)
		s.Require().NotNil(found.AdoptedDrainID)
		s.Equal(drainID, *found.AdoptedDrainID)

		err := s.store.SetAdoptedDrain(s.ctx, u.ID, id.NewDrainID())
		s.ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("a drain links to at most one user", func() {
		err := s.store.SetAdoptedDrain(s.ctx, other.ID, drainID)
		s.ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("clear ignores a stale drain id", func() {
		s.Require().NoError(s.store.ClearAdoptedDrain(s.ctx, u.ID, id.NewDrainID()))
		found, _ := s.store.FindByID(s.ctx, u.ID)
		s.NotNil(found.AdoptedDrainID)
	})

	s.Run("clear frees both sides of the index", func() {
		s.Require().NoError(s.store.ClearAdoptedDrain(s.ctx, u.ID, drainID))
		found, _ := s.store.FindByID(s.ctx, u.ID)
		s.Nil(found.AdoptedDrainID)
		s.NoError(s.store.SetAdoptedDrain(s.ctx, other.ID, drainID))
	})

	s.Run("unknown user", func() {
		s.ErrorIs(s.store.SetAdoptedDrain(s.ctx, id.NewUserID(), id.NewDrainID()), sentinel.ErrNotFound)
	})
}

func (s *InMemoryUserStoreSuite) TestListOrder() {
	base := time.Now()
	for i := 0; i < 3; i++ {
		u := newUser(id.NewUserID().String()+"@example.com", models.RoleAdopter)
		u.CreatedAt = base.Add(time.Duration(2-i) * time.Second)
		s.Require().NoError(s.store.Create(s.ctx, u))
	}
	users, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 3)
	s.True(users[0].CreatedAt.Before(users[1].CreatedAt))
	s.True(users[1].CreatedAt.Before(users[2].CreatedAt))
}
