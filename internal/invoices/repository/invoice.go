package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	invoiceserrors "courtbook/internal/invoices/errors"
	"courtbook/pkg/config"
	"courtbook/pkg/db"
	mongotx "courtbook/pkg/db/mongo"
	"courtbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "Invoices"

type InvoiceRepository interface {
	// Create fails with ErrInvoiceAlreadyExists when the reservation already
	// has an invoice.
	Create(ctx context.Context, invoice *model.Invoice) error
	FindByID(ctx context.Context, id string) (*model.Invoice, error)
	FindByReservationID(ctx context.Context, reservationID string) (*model.Invoice, error)
	// UpdateStatus moves the invoice from one status to another, failing with
	// ErrStatusMismatch when the stored status is not from.
	UpdateStatus(ctx context.Context, id string, from, to model.InvoiceStatus, paidAt *time.Time) (*model.Invoice, error)
	ExecuteTransaction(ctx context.Context, fn db.TransactionFunc) error
}

type mongoInvoiceRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  db.TransactionManager
}

func NewMongoInvoiceRepository(cfg *config.Config) InvoiceRepository {
	database := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoInvoiceRepository{
		cfg:        cfg,
		collection: database.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo, cfg.TxTimeout),
	}
}

func (r *mongoInvoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	invoice.CreatedAt = now
	invoice.UpdatedAt = now

	// reservation_id carries a unique index, see internal/migrations/mongo
	if _, err := r.collection.InsertOne(ctx, invoice); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return invoiceserrors.ErrInvoiceAlreadyExists
		}
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

func (r *mongoInvoiceRepository) FindByID(ctx context.Context, id string) (*model.Invoice, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoInvoiceRepository) FindByReservationID(ctx context.Context, reservationID string) (*model.Invoice, error) {
	return r.findOne(ctx, bson.M{"reservation_id": reservationID})
}

func (r *mongoInvoiceRepository) findOne(ctx context.Context, filter bson.M) (*model.Invoice, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var invoice model.Invoice
	err := r.collection.FindOne(ctx, filter).Decode(&invoice)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, invoiceserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice: %w", err)
	}
	return &invoice, nil
}

func (r *mongoInvoiceRepository) UpdateStatus(ctx context.Context, id string, from, to model.InvoiceStatus, paidAt *time.Time) (*model.Invoice, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	set := bson.M{
		"status":     to,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}
	if paidAt != nil {
		set["paid_at"] = paidAt.UTC().Truncate(time.Millisecond)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated model.Invoice
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id, "status": from}, bson.M{"$set": set}, opts).Decode(&updated)
	if err == nil {
		return &updated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update invoice status: %w", err)
	}

	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	return nil, invoiceserrors.ErrStatusMismatch
}

func (r *mongoInvoiceRepository) ExecuteTransaction(ctx context.Context, fn db.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
