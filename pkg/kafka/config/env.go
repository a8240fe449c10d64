package kafka_config

const (
	EnvKafkaBrokers = "KAFKA_BROKERS"

	// Topics
	EnvKafkaEventsTopic      = "KAFKA_EVENTS_TOPIC"
	EnvKafkaEventsDLQTopic   = "KAFKA_EVENTS_DLQ_TOPIC"
	EnvKafkaPaymentsTopic    = "KAFKA_PAYMENTS_TOPIC"
	EnvKafkaPaymentsDLQTopic = "KAFKA_PAYMENTS_DLQ_TOPIC"
	EnvKafkaPaymentsGroupID  = "KAFKA_PAYMENTS_GROUP_ID"

	// Producer
	EnvKafkaProducerMaxAttempts  = "KAFKA_PRODUCER_MAX_ATTEMPTS"
	EnvKafkaProducerBatchTimeout = "KAFKA_PRODUCER_BATCH_TIMEOUT"
	EnvKafkaProducerRequireAcks  = "KAFKA_PRODUCER_REQUIRE_ACKS"
	EnvKafkaProducerCompression  = "KAFKA_PRODUCER_COMPRESSION"

	// Consumer
	EnvKafkaConsumerStartOffset    = "KAFKA_CONSUMER_START_OFFSET"
	EnvKafkaConsumerMinBytes       = "KAFKA_CONSUMER_MIN_BYTES"
	EnvKafkaConsumerMaxBytes       = "KAFKA_CONSUMER_MAX_BYTES"
	EnvKafkaConsumerMaxWait        = "KAFKA_CONSUMER_MAX_WAIT"
	EnvKafkaConsumerCommitInterval = "KAFKA_CONSUMER_COMMIT_INTERVAL"
	EnvKafkaConsumerSessionTimeout = "KAFKA_CONSUMER_SESSION_TIMEOUT"
	EnvKafkaConsumerMaxRetries     = "KAFKA_CONSUMER_MAX_RETRIES"
	EnvKafkaConsumerRetryBackoff   = "KAFKA_CONSUMER_RETRY_BACKOFF"
)
