package repository

import (
	"context"
	"fmt"
	"time"

	reservationserrors "courtbook/internal/reservations/errors"
	"courtbook/pkg/config"
	"courtbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LockCollectionName = "Court_locks"

// CourtLockRepository stores advisory locks keyed by court and date.
type CourtLockRepository interface {
	// Create takes the lock or fails with ErrLockHeld.
	Create(ctx context.Context, lock *model.CourtLock) error
	// Delete releases the lock if lock.Owner still holds it.
	Delete(ctx context.Context, lock *model.CourtLock) error
}

type mongoCourtLockRepository struct {
	collection *mongo.Collection
}

func NewMongoCourtLockRepository(cfg *config.Config) CourtLockRepository {
	database := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCourtLockRepository{
		collection: database.Collection(LockCollectionName),
	}
}

// Create inserts the lock document. The TTL index reaps expired locks only
// about once a minute, so an expired holder is cleared here before retrying.
func (r *mongoCourtLockRepository) Create(ctx context.Context, lock *model.CourtLock) error {
	lock.CreatedAt = time.Now().UTC()

	_, err := r.collection.InsertOne(ctx, lock)
	if err == nil {
		return nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to create court lock: %w", err)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{
		"_id":        lock.ID,
		"expires_at": bson.M{"$lte": lock.CreatedAt},
	})
	if err != nil {
		return fmt.Errorf("failed to clear expired court lock: %w", err)
	}
	if res.DeletedCount == 0 {
		return reservationserrors.ErrLockHeld
	}

	if _, err = r.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return reservationserrors.ErrLockHeld
		}
		return fmt.Errorf("failed to create court lock: %w", err)
	}
	return nil
}

func (r *mongoCourtLockRepository) Delete(ctx context.Context, lock *model.CourtLock) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lock.ID, "owner": lock.Owner})
	if err != nil {
		return fmt.Errorf("failed to delete court lock: %w", err)
	}
	return nil
}
