package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drainadopt/internal/platform/config"
)

func TestNewProducerDisabledWithoutBrokers(t *testing.T) {
	p, err := NewProducer(config.KafkaConfig{Topic: "drain-notifications"})
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestNewProducerDoesNotDialEagerly(t *testing.T) {
	p, err := NewProducer(config.KafkaConfig{Brokers: []string{"127.0.0.1:1"}, Topic: "drain-notifications"})
	require.NoError(t, err)
	defer p.Close()
	assert.Equal(t, "drain-notifications", p.Topic())
}
