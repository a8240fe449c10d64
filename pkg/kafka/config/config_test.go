package kafka_config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, "broker-1:9092, broker-2:9092")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Brokers)
	assert.Equal(t, DefaultEventsTopic, cfg.EventsTopic)
	assert.Equal(t, DefaultPaymentsTopic, cfg.PaymentsTopic)
	assert.Equal(t, int64(-2), cfg.ConsumerStartOffset)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, " ")
	t.Setenv(EnvKafkaProducerCompression, "brotli")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker")
	assert.Contains(t, err.Error(), "ProducerCompression")
}
