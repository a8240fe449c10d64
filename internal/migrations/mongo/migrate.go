package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"courtbook/internal/catalog"
	invoicerepository "courtbook/internal/invoices/repository"
	"courtbook/internal/migrations/mongo/validators"
	reservationrepository "courtbook/internal/reservations/repository"
	"courtbook/pkg/logger"
)

type Collection struct {
	Name      string
	Indexes   []mongo.IndexModel
	Validator bson.M
}

var Collections = []Collection{
	{
		Name: reservationrepository.CollectionName,
		Indexes: []mongo.IndexModel{
			{Keys: bson.D{
				{Key: "court_id", Value: 1},
				{Key: "reservation_date", Value: 1},
				{Key: "start_time", Value: 1},
			}},
			{Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "end_time", Value: 1},
			}},
			{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "start_time", Value: -1}}},
		},
		Validator: validators.ReservationValidator,
	},
	{
		Name: invoicerepository.CollectionName,
		Indexes: []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "reservation_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("reservation_id_unique"),
			},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "due_date", Value: 1}}},
		},
		Validator: validators.InvoiceValidator,
	},
	{
		Name: reservationrepository.LockCollectionName,
		Indexes: []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "expires_at", Value: 1}},
				Options: options.Index().SetExpireAfterSeconds(0).SetName("expires_at_ttl"),
			},
		},
		Validator: validators.CourtLockValidator,
	},
	{
		Name: catalog.CollectionName,
		Indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "complex_id", Value: 1}}},
		},
		Validator: validators.CourtValidator,
	},
}

func RunMigration(ctx context.Context, client *mongo.Client, dbName string, log *logger.Logger) error {
	db := client.Database(dbName)
	log.Info("Running Mongo migrations", "database", dbName)

	for _, c := range Collections {
		if err := ensureCollection(ctx, db, c.Name, c.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", c.Name, err)
		}
		if err := ensureIndexes(ctx, db, c.Name, c.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", c.Name, err)
		}
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if len(models) == 0 {
		return nil
	}
	if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}
