// Package db holds the storage-agnostic transaction contract shared by the
// Mongo and in-memory drivers.
package db

import (
	"context"
	"errors"
)

// TransactionFunc runs inside a transaction. Repositories called with ctx
// take part in the same atomic unit.
type TransactionFunc func(ctx context.Context) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

// ErrBusy reports contention the caller may retry: a transaction that could
// not start or commit within its time bound.
var ErrBusy = errors.New("store is busy")
