//go:build integration

package user_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"drainadopt/internal/identity/models"
	"drainadopt/internal/identity/store/user"
	id "drainadopt/pkg/domain"
	"drainadopt/pkg/platform/sentinel"
	"drainadopt/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *user.PostgresStore
	ctx      context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = user.NewPostgres(s.postgres.DB)
	s.ctx = context.Background()
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(s.ctx))
}

func newUser(role models.Role) *models.User {
	return &models.User{
		ID:           id.NewUserID(),
		Name:         "Pat",
		Email:        id.NewUserID().String() + "@example.com",
		PasswordHash: "hash",
		Role:         role,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	u := newUser(models.RoleAdopter)
	s.Require().NoError(s.store.Create(s.ctx, u))

	found, err := s.store.FindByEmail(s.ctx, u.Email)
	s.Require().NoError(err)
	s.Equal(u.ID, found.ID)
	s.Nil(found.AdoptedDrainID)

	s.ErrorIs(s.store.Create(s.ctx, u), sentinel.ErrConflict)
	_, err = s.store.FindByID(s.ctx, id.NewUserID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestAdoptionLinkCAS() {
	u := newUser(models.RoleAdopter)
	other := newUser(models.RoleAdopter)
	s.Require().NoError(s.store.Create(s.ctx, u))
	s.Require().NoError(s.store.Create(s.ctx, other))
	drainID := id.NewDrainID()

	s.Require().NoError(s.store.SetAdoptedDrain(s.ctx, u.ID, drainID))
	s.ErrorIs(s.store.SetAdoptedDrain(s.ctx, u.ID, id.NewDrainID()), sentinel.ErrConflict)
	s.ErrorIs(s.store.SetAdoptedDrain(s.ctx, other.ID, drainID), sentinel.ErrConflict)
	s.ErrorIs(s.store.SetAdoptedDrain(s.ctx, id.NewUserID(), id.NewDrainID()), sentinel.ErrNotFound)

	s.Require().NoError(s.store.ClearAdoptedDrain(s.ctx, u.ID, drainID))
	found, err := s.store.FindByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Nil(found.AdoptedDrainID)
}

// TestConcurrentAdminBootstrap verifies the advisory lock admits exactly one admin.
func (s *PostgresStoreSuite) TestConcurrentAdminBootstrap() {
	const goroutines = 20
	var wg sync.WaitGroup
	var successCount, rejectedCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.CreateIfNoAdmin(s.ctx, newUser(models.RoleAdmin))
			switch {
			case err == nil:
				successCount.Add(1)
			case err == sentinel.ErrInvalidState:
				rejectedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load())
	s.Equal(int32(goroutines-1), rejectedCount.Load())
}
