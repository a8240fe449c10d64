package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	reservationserrors "courtbook/internal/reservations/errors"
	"courtbook/pkg/config"
	"courtbook/pkg/db"
	mongotx "courtbook/pkg/db/mongo"
	"courtbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Reservations"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	FindByID(ctx context.Context, id string) (*model.Reservation, error)
	// FindByCourtAndDate lists the reservations of a court on a date ordered by
	// start time. Cancelled ones are skipped unless includeCancelled is set.
	FindByCourtAndDate(ctx context.Context, courtID string, date string, includeCancelled bool) ([]*model.Reservation, error)
	FindConfirmedEndedBefore(ctx context.Context, t time.Time, limit int) ([]*model.Reservation, error)
	// UpdateStatus applies change only while the stored status is one of from.
	UpdateStatus(ctx context.Context, id string, from []model.ReservationStatus, change model.StatusChange) (*model.Reservation, error)
	ExecuteTransaction(ctx context.Context, fn db.TransactionFunc) error
}

type mongoReservationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  db.TransactionManager
}

func NewMongoReservationRepository(cfg *config.Config) ReservationRepository {
	database := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationRepository{
		cfg:        cfg,
		collection: database.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo, cfg.TxTimeout),
	}
}

func (r *mongoReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	reservation.CreatedAt = now
	reservation.UpdatedAt = now
	if _, err := r.collection.InsertOne(ctx, reservation); err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}
	return nil
}

func (r *mongoReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var reservation model.Reservation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&reservation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}
	return &reservation, nil
}

func (r *mongoReservationRepository) FindByCourtAndDate(ctx context.Context, courtID string, date string, includeCancelled bool) ([]*model.Reservation, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"court_id":         courtID,
		"reservation_date": date,
	}
	if !includeCancelled {
		filter["status"] = bson.M{"$ne": model.ReservationCancelled}
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reservations: %w", err)
	}
	defer cursor.Close(ctx)

	reservations := []*model.Reservation{}
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}
	return reservations, nil
}

func (r *mongoReservationRepository) FindConfirmedEndedBefore(ctx context.Context, t time.Time, limit int) ([]*model.Reservation, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"status":   model.ReservationConfirmed,
		"end_time": bson.M{"$lte": t},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "end_time", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find elapsed reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []*model.Reservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode elapsed reservations: %w", err)
	}
	return reservations, nil
}

func (r *mongoReservationRepository) UpdateStatus(ctx context.Context, id string, from []model.ReservationStatus, change model.StatusChange) (*model.Reservation, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	at := change.At.UTC().Truncate(time.Millisecond)
	set := bson.M{
		"status":     change.To,
		"updated_at": at,
	}
	switch change.To {
	case model.ReservationCancelled:
		set["cancelled_by"] = change.CancelledBy
		set["cancelled_at"] = at
	case model.ReservationCompleted:
		set["completed_at"] = at
	}
	if change.InvoiceID != "" {
		set["invoice_id"] = change.InvoiceID
	}

	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$in": from},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated model.Reservation
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated)
	if err == nil {
		return &updated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update reservation status: %w", err)
	}

	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	return nil, reservationserrors.ErrStatusMismatch
}

func (r *mongoReservationRepository) ExecuteTransaction(ctx context.Context, fn db.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
