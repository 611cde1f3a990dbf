package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"drainadopt/internal/notification/models"
	"drainadopt/internal/notification/outbox/mocks"
	"drainadopt/internal/platform/kafka"
	id "drainadopt/pkg/domain"
	"drainadopt/pkg/platform/tx"
)

//go:generate mockgen -source=relay.go -destination=mocks/mocks.go -package=mocks Publisher
type RelaySuite struct {
	suite.Suite
	ctx       context.Context
	store     *MemoryStore
	publisher *mocks.MockPublisher
	relay     *Relay
}

func TestRelaySuite(t *testing.T) {
	suite.Run(t, new(RelaySuite))
}

func (s *RelaySuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.ctx = context.Background()
	s.store = NewMemory()
	s.publisher = mocks.NewMockPublisher(ctrl)
	s.relay = NewRelay(s.store, s.publisher, tx.NewMemoryRunner(), WithBatchSize(2))
}

func (s *RelaySuite) enqueue() Entry {
	userID := id.NewUserID()
	e, err := NewEntry(&models.Notification{
		ID:        id.NewNotificationID(),
		Type:      models.TypeDrainAdopted,
		Message:   "Ana adopted drain Main St",
		DrainID:   id.NewDrainID(),
		UserID:    &userID,
		CreatedAt: time.Now(),
	})
	s.Require().NoError(err)
	s.Require().NoError(s.store.Enqueue(s.ctx, e))
	return e
}

func (s *RelaySuite) TestRelayOncePublishesAndMarks() {
	first := s.enqueue()
	s.enqueue()
	s.enqueue()

	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
			s.Require().Len(msgs, 2)
			s.Equal([]byte(first.AggregateID), msgs[0].Key)
			s.Equal("DRAIN_ADOPTED", msgs[0].Headers["event_type"])
			return nil
		})
	n, err := s.relay.RelayOnce(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, n)

	pending, err := s.store.Pending(s.ctx, 10)
	s.Require().NoError(err)
	s.Len(pending, 1)
}

func (s *RelaySuite) TestRelayOnceEmpty() {
	n, err := s.relay.RelayOnce(s.ctx)
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *RelaySuite) TestPublishFailureLeavesEntriesPending() {
	s.enqueue()
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker unavailable"))

	_, err := s.relay.RelayOnce(s.ctx)
	s.ErrorContains(err, "broker unavailable")

	pending, err := s.store.Pending(s.ctx, 10)
	s.Require().NoError(err)
	s.Len(pending, 1)
}

func (s *RelaySuite) TestRunStopsOnCancel() {
	s.enqueue()
	ctx, cancel := context.WithCancel(s.ctx)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, ...kafka.Message) error {
			cancel()
			return nil
		})

	err := NewRelay(s.store, s.publisher, tx.NewMemoryRunner(), WithInterval(time.Millisecond)).Run(ctx)
	s.ErrorIs(err, context.Canceled)
}
