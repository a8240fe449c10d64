package kafka_config

import "time"

const (
	DefaultKafkaBrokers = "localhost:9092"

	DefaultEventsTopic      = "courtbook.events"
	DefaultEventsDLQTopic   = "courtbook.events.dlq"
	DefaultPaymentsTopic    = "courtbook.payments"
	DefaultPaymentsDLQTopic = "courtbook.payments.dlq"
	DefaultPaymentsGroupID  = "courtbook-invoices"

	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerRequireAcks  = -1
	DefaultProducerCompression  = "snappy"

	DefaultConsumerStartOffset    = -2 // oldest, so no payment is skipped on first start
	DefaultConsumerMinBytes       = 1
	DefaultConsumerMaxBytes       = 10 * 1024 * 1024
	DefaultConsumerMaxWait        = 500 * time.Millisecond
	DefaultConsumerCommitInterval = 0 // synchronous commits
	DefaultConsumerSessionTimeout = 10 * time.Second
	DefaultConsumerMaxRetries     = 3
	DefaultConsumerRetryBackoff   = 200 * time.Millisecond
)
