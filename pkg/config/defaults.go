package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "courtbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisAddr = "localhost:6379"
	DefaultRedisDB   = 0

	DefaultPort          = "8080"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "json"
	DefaultStorageDriver = StorageMongo
	DefaultLockBackend   = LockMongo

	DefaultLockTTL         = 15 * time.Second
	DefaultLockWaitTimeout = 3 * time.Second
	DefaultTxTimeout       = 5 * time.Second

	DefaultInvoiceDueDays         = 0
	DefaultMaxSlotsPerReservation = 4
	DefaultAlignToSlotGrid        = false

	DefaultCompletionSweepCron = "*/5 * * * *"

	DefaultRateLimitRPS   = 5.0
	DefaultRateLimitBurst = 10

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100
)

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"

	LockMongo  = "mongo"
	LockRedis  = "redis"
	LockMemory = "memory"
)
