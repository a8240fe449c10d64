package repository

import (
	"context"
	"fmt"
	"time"

	reservationserrors "courtbook/internal/reservations/errors"
	"courtbook/pkg/model"

	"github.com/redis/go-redis/v9"
)

const redisLockPrefix = "courtbook:"

// releaseScript deletes the key only when it still carries our owner token.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

type redisCourtLockRepository struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisCourtLockRepository stores locks as plain keys expiring after ttl,
// so a crashed holder never blocks a court for longer than that.
func NewRedisCourtLockRepository(client redis.Cmdable, ttl time.Duration) CourtLockRepository {
	return &redisCourtLockRepository{client: client, ttl: ttl}
}

func redisLockKey(id string) string {
	return redisLockPrefix + id
}

func (r *redisCourtLockRepository) Create(ctx context.Context, lock *model.CourtLock) error {
	lock.CreatedAt = time.Now().UTC()
	lock.ExpiresAt = lock.CreatedAt.Add(r.ttl)

	ok, err := r.client.SetNX(ctx, redisLockKey(lock.ID), lock.Owner, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to create court lock: %w", err)
	}
	if !ok {
		return reservationserrors.ErrLockHeld
	}
	return nil
}

func (r *redisCourtLockRepository) Delete(ctx context.Context, lock *model.CourtLock) error {
	if err := r.client.Eval(ctx, releaseScript, []string{redisLockKey(lock.ID)}, lock.Owner).Err(); err != nil {
		return fmt.Errorf("failed to delete court lock: %w", err)
	}
	return nil
}
