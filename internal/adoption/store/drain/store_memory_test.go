package drain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"drainadopt/internal/adoption/models"
	id "drainadopt/pkg/domain"
	"drainadopt/pkg/platform/sentinel"
)

type InMemoryDrainStoreSuite struct {
	suite.Suite
	store *InMemoryDrainStore
	ctx   context.Context
}

func TestInMemoryDrainStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryDrainStoreSuite))
}

func (s *InMemoryDrainStoreSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
}

func (s *InMemoryDrainStoreSuite) newDrain(name string) *models.Drain {
	now := time.Now()
	d := &models.Drain{ID: id.NewDrainID(), Name: name, Latitude: 42.36, Longitude: -71.06, CreatedAt: now, UpdatedAt: now}
	s.Require().NoError(s.store.Create(s.ctx, d))
	return d
}

func (s *InMemoryDrainStoreSuite) TestCreateAndFind() {
	d := s.newDrain("Main & 1st")

	found, err := s.store.FindByID(s.ctx, d.ID)
	s.Require().NoError(err)
	s.Equal("Main & 1st", found.Name)
	s.False(found.IsAdopted())

	_, err = s.store.FindByID(s.ctx, id.NewDrainID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryDrainStoreSuite) TestSetAdopterCAS() {
	d := s.newDrain("A")
	u1, u2 := id.NewUserID(), id.NewUserID()

	s.Require().NoError(s.store.SetAdopter(s.ctx, d.ID, u1))
	s.ErrorIs(s.store.SetAdopter(s.ctx, d.ID, u2), sentinel.ErrConflict)

	other := s.newDrain("B")
	s.ErrorIs(s.store.SetAdopter(s.ctx, other.ID, u1), sentinel.ErrConflict, "a user adopts at most one drain")
	s.ErrorIs(s.store.SetAdopter(s.ctx, id.NewDrainID(), u2), sentinel.ErrNotFound)

	s.Require().NoError(s.store.ClearAdopter(s.ctx, d.ID, u2), "stale clear is a no-op")
	found, _ := s.store.FindByID(s.ctx, d.ID)
	s.Equal(u1, *found.AdoptedByUserID)

	s.Require().NoError(s.store.ClearAdopter(s.ctx, d.ID, u1))
	s.NoError(s.store.SetAdopter(s.ctx, other.ID, u1))
}

func (s *InMemoryDrainStoreSuite) TestUpdateDetailsKeepsAdopter() {
	d := s.newDrain("A")
	u := id.NewUserID()
	s.Require().NoError(s.store.SetAdopter(s.ctx, d.ID, u))

	d.Name = "Renamed"
	d.AdoptedByUserID = nil
	s.Require().NoError(s.store.UpdateDetails(s.ctx, d))

	found, _ := s.store.FindByID(s.ctx, d.ID)
	s.Equal("Renamed", found.Name)
	s.Require().NotNil(found.AdoptedByUserID)
	s.Equal(u, *found.AdoptedByUserID)
}

func (s *InMemoryDrainStoreSuite) TestDelete() {
	d := s.newDrain("A")
	u := id.NewUserID()
	s.Require().NoError(s.store.SetAdopter(s.ctx, d.ID, u))

	s.Require().NoError(s.store.Delete(s.ctx, d.ID))
	s.ErrorIs(s.store.Delete(s.ctx, d.ID), sentinel.ErrNotFound)

	other := s.newDrain("B")
	s.NoError(s.store.SetAdopter(s.ctx, other.ID, u), "deleting frees the adopter index")
}

func (s *InMemoryDrainStoreSuite) TestListOrder() {
	base := time.Now()
	for i := 3; i > 0; i-- {
		d := &models.Drain{ID: id.NewDrainID(), Name: "D", CreatedAt: base.Add(time.Duration(i) * time.Second)}
		s.Require().NoError(s.store.Create(s.ctx, d))
	}
	drains, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(drains, 3)
	s.True(drains[0].CreatedAt.Before(drains[2].CreatedAt))
}
