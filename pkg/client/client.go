package client

import (
	"context"
	"errors"
	"time"

	"courtbook/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const shutdownTimeout = 10 * time.Second

// Client holds the shared infrastructure connections of a service. Every
// field is optional; the storage and lock drivers decide which are dialled.
type Client struct {
	Mongo *mongo.Client
	Redis *redis.Client

	log *logger.Logger
}

func NewClient(log *logger.Logger) *Client {
	return &Client{log: log}
}

// Ping checks every configured connection. Used by the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	var errs []error
	if c.Mongo != nil {
		if err := c.Mongo.Ping(ctx, nil); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Client) GracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if c.Mongo != nil {
		if err := c.Mongo.Disconnect(ctx); err != nil {
			c.log.Error("Failed to disconnect from MongoDB", "error", err)
		} else {
			c.log.Info("Disconnected from MongoDB")
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.log.Error("Failed to close Redis client", "error", err)
		} else {
			c.log.Info("Closed Redis client")
		}
	}
}
