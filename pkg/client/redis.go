package client

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisOptions struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

func (c *Client) SetRedis(opts RedisOptions) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.DialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), opts.DialTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		c.log.Fatal("Failed to ping Redis", "error", err, "addr", opts.Addr)
	}

	c.log.Info("Successfully connected to Redis", "addr", opts.Addr)
	c.Redis = rdb
}
