//go:build integration

package outbox_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"drainadopt/internal/notification/models"
	"drainadopt/internal/notification/outbox"
	"drainadopt/internal/notification/service"
	"drainadopt/internal/notification/store"
	"drainadopt/internal/platform/config"
	"drainadopt/internal/platform/kafka"
	"drainadopt/internal/platform/postgres"
	id "drainadopt/pkg/domain"
	"drainadopt/pkg/testutil/containers"
)

type RelayIntegrationSuite struct {
	suite.Suite
	ctx      context.Context
	postgres *containers.PostgresContainer
	redpanda *containers.RedpandaContainer
	producer *kafka.Producer
	topic    string
}

func TestRelayIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RelayIntegrationSuite))
}

func (s *RelayIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.redpanda = containers.GetManager().GetRedpanda(s.T())
	s.topic = "drain-notifications-" + id.NewDrainID().String()[:8]

	producer, err := kafka.NewProducer(config.KafkaConfig{Brokers: s.redpanda.Brokers, Topic: s.topic})
	s.Require().NoError(err)
	s.Require().NoError(producer.EnsureTopic(s.ctx, 1))
	s.producer = producer
}

func (s *RelayIntegrationSuite) TearDownSuite() {
	if s.producer != nil {
		s.producer.Close()
	}
}

func (s *RelayIntegrationSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(s.ctx))
}

func (s *RelayIntegrationSuite) TestCommittedNotificationReachesTopic() {
	runner := postgres.NewTxRunner(s.postgres.DB, 0)
	box := outbox.NewPostgres(s.postgres.DB)
	dispatcher := service.New(store.NewPostgres(s.postgres.DB), runner, service.WithOutbox(box))

	drainID := id.NewDrainID()
	n, err := dispatcher.Emit(s.ctx, models.TypeDrainAdopted, drainID, nil, "Ana adopted drain Main St")
	s.Require().NoError(err)

	relay := outbox.NewRelay(box, s.producer, runner)
	published, err := relay.RelayOnce(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, published)

	again, err := relay.RelayOnce(s.ctx)
	s.Require().NoError(err)
	s.Zero(again, "published rows are not relayed twice")

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Brokers...),
		kgo.ConsumeTopics(s.topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	ctx, cancel := context.WithTimeout(s.ctx, 20*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(ctx)
	s.Require().Empty(fetches.Errors())

	records := fetches.Records()
	s.Require().Len(records, 1)
	s.Equal(drainID.String(), string(records[0].Key))

	var body map[string]any
	s.Require().NoError(json.Unmarshal(records[0].Value, &body))
	s.Equal(n.ID.String(), body["id"])
	s.Equal("DRAIN_ADOPTED", body["type"])
}
