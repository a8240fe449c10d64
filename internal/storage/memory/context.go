package memory

import "context"

type transactionKey struct{}

func withTransaction(ctx context.Context, trx *transaction) context.Context {
	return context.WithValue(ctx, transactionKey{}, trx)
}

func transactionFromContext(ctx context.Context) (*transaction, bool) {
	trx, ok := ctx.Value(transactionKey{}).(*transaction)
	return trx, ok && trx != nil
}
