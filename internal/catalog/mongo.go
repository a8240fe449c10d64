package catalog

import (
	"context"
	"errors"
	"fmt"

	"courtbook/pkg/config"
	mongotx "courtbook/pkg/db/mongo"
	"courtbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = "Courts"

type mongoReader struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoReader(cfg *config.Config) Reader {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReader{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoReader) GetCourt(ctx context.Context, id string) (*model.Court, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var court model.Court
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&court)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", ErrCourtNotFound, id)
		}
		return nil, fmt.Errorf("failed to find court: %w", err)
	}
	return &court, nil
}
