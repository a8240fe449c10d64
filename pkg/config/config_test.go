package config

import (
	"strings"
	"testing"
	"time"

	"courtbook/pkg/logger"
)

func validConfig() *Config {
	return &Config{
		MongoURI:               DefaultMongoURI,
		MongoDatabaseName:      DefaultMongoDatabaseName,
		MongoConnTimeout:       DefaultMongoConnTimeout,
		Port:                   DefaultPort,
		StorageDriver:          StorageMongo,
		LockBackend:            LockMongo,
		LockTTL:                DefaultLockTTL,
		LockWaitTimeout:        DefaultLockWaitTimeout,
		TxTimeout:              DefaultTxTimeout,
		MaxSlotsPerReservation: DefaultMaxSlotsPerReservation,
		CompletionSweepCron:    DefaultCompletionSweepCron,
		RateLimitRPS:           DefaultRateLimitRPS,
		RateLimitBurst:         DefaultRateLimitBurst,
		RequestTimeout:         DefaultRequestTimeout,
		IdempotencyTTL:         DefaultIdempotencyTTL,
		MaxRequestSize:         DefaultMaxRequestSize,
		ReadTimeout:            DefaultReadTimeout,
		WriteTimeout:           DefaultWriteTimeout,
		IdleTimeout:            DefaultIdleTimeout,
		ShutdownTimeout:        DefaultShutdownTimeout,
		Log:                    logger.Discard(),
	}
}

func TestValidate_Defaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("default configuration should be valid, got: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.Port = "99999" },
			wantErr: "Port must be between",
		},
		{
			name:    "unknown storage driver",
			mutate:  func(c *Config) { c.StorageDriver = "postgres" },
			wantErr: "StorageDriver must be one of",
		},
		{
			name:    "memory lock over mongo store",
			mutate:  func(c *Config) { c.LockBackend = LockMemory },
			wantErr: "cannot guard a shared mongo store",
		},
		{
			name: "memory store without catalog",
			mutate: func(c *Config) {
				c.StorageDriver = StorageMemory
				c.LockBackend = LockMemory
			},
			wantErr: "CatalogFile is required",
		},
		{
			name:    "lock ttl shorter than transaction",
			mutate:  func(c *Config) { c.LockTTL = time.Second },
			wantErr: "must be greater than TxTimeout",
		},
		{
			name:    "zero max slots",
			mutate:  func(c *Config) { c.MaxSlotsPerReservation = 0 },
			wantErr: "MaxSlotsPerReservation must be at least 1",
		},
		{
			name:    "bad mongo uri",
			mutate:  func(c *Config) { c.MongoURI = "http://localhost" },
			wantErr: "MongoURI must start with",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_AccumulatesErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "0"
	cfg.RateLimitBurst = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "1. ") || !strings.Contains(err.Error(), "2. ") {
		t.Errorf("expected both violations to be reported, got: %v", err)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvStorageDriver, "MEMORY")
	t.Setenv(EnvLockBackend, "redis")
	t.Setenv(EnvLockWaitTimeout, "750ms")
	t.Setenv(EnvAlignToSlotGrid, "true")
	t.Setenv(EnvRateLimitRPS, "2.5")

	cfg := FromEnv("test")

	if cfg.StorageDriver != StorageMemory {
		t.Errorf("expected storage driver %q, got %q", StorageMemory, cfg.StorageDriver)
	}
	if cfg.LockBackend != LockRedis {
		t.Errorf("expected lock backend %q, got %q", LockRedis, cfg.LockBackend)
	}
	if cfg.LockWaitTimeout != 750*time.Millisecond {
		t.Errorf("expected lock wait 750ms, got %s", cfg.LockWaitTimeout)
	}
	if !cfg.AlignToSlotGrid {
		t.Errorf("expected AlignToSlotGrid to be true")
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Errorf("expected rate 2.5, got %v", cfg.RateLimitRPS)
	}
	if cfg.UsesMongo() {
		t.Errorf("memory store with redis locks should not need mongo")
	}
}

func TestRedactMongoURI(t *testing.T) {
	got := redactMongoURI("mongodb://admin:secret@db:27017")
	if strings.Contains(got, "secret") {
		t.Errorf("expected credentials to be redacted, got %q", got)
	}
}
