package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONNECTION_TIMEOUT"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"

	EnvPort          = "PORT"
	EnvLogLevel      = "LOG_LEVEL"
	EnvLogFormat     = "LOG_FORMAT"
	EnvStorageDriver = "STORAGE_DRIVER"
	EnvLockBackend   = "LOCK_BACKEND"
	EnvCatalogFile   = "CATALOG_FILE"

	EnvLockTTL         = "LOCK_TTL"
	EnvLockWaitTimeout = "LOCK_WAIT_TIMEOUT"
	EnvTxTimeout       = "TX_TIMEOUT"

	EnvInvoiceDueDays         = "INVOICE_DUE_DAYS"
	EnvMaxSlotsPerReservation = "MAX_SLOTS_PER_RESERVATION"
	EnvAlignToSlotGrid        = "ALIGN_TO_SLOT_GRID"

	EnvCompletionSweepCron = "COMPLETION_SWEEP_CRON"

	EnvRateLimitRPS   = "RATE_LIMIT_RPS"
	EnvRateLimitBurst = "RATE_LIMIT_BURST"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvKafkaEnabled = "KAFKA_ENABLED"
)
