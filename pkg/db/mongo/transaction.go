package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courtbook/pkg/db"
	apperrors "courtbook/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	labelTransientTransaction = "TransientTransactionError"
	labelUnknownCommitResult  = "UnknownTransactionCommitResult"
)

type mongoTransactionManager struct {
	client  *mongo.Client
	timeout time.Duration
}

// NewTransactionManager runs every transaction under timeout. The driver
// retries transient aborts until the deadline; what is left after it is
// reported as db.ErrBusy.
func NewTransactionManager(client *mongo.Client, timeout time.Duration) db.TransactionManager {
	return &mongoTransactionManager{
		client:  client,
		timeout: timeout,
	}
}

// ExecuteTransaction joins the session already carried by ctx, if any.
func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn db.TransactionFunc) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(context.WithoutCancel(ctx))

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	})

	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		if isBusy(ctx, err) {
			return fmt.Errorf("%w: %v", db.ErrBusy, err)
		}
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

func isBusy(ctx context.Context, err error) bool {
	var labeled mongo.LabeledError
	if errors.As(err, &labeled) {
		if labeled.HasErrorLabel(labelTransientTransaction) || labeled.HasErrorLabel(labelUnknownCommitResult) {
			return true
		}
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	return mongo.IsTimeout(err)
}

// WithTimeout bounds a single repository call. Inside a transaction the
// transaction deadline already applies and ctx is returned unchanged.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if mongo.SessionFromContext(ctx) != nil {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}

	return context.WithTimeout(ctx, timeout)
}
