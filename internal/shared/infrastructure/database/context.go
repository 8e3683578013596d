package database

import "context"

type txKey struct{}

// TxInfo is the transaction carried in a context. Owned is false when a
// nested unit of work joined a transaction started further up the stack.
type TxInfo struct {
	Tx    Transaction
	Owned bool
}

// WithTx returns a context carrying tx.
func WithTx(ctx context.Context, tx Transaction, owned bool) context.Context {
	return context.WithValue(ctx, txKey{}, TxInfo{Tx: tx, Owned: owned})
}

// TxInfoFromContext returns the transaction carried by ctx, if any.
func TxInfoFromContext(ctx context.Context) (TxInfo, bool) {
	info, ok := ctx.Value(txKey{}).(TxInfo)
	if !ok || info.Tx == nil {
		return TxInfo{}, false
	}
	return info, true
}

// TxFromContext returns the transaction carried by ctx or nil.
func TxFromContext(ctx context.Context) Transaction {
	info, _ := TxInfoFromContext(ctx)
	return info.Tx
}

// ExecutorFromContext picks the transaction in ctx when there is one and
// falls back to the connection otherwise.
func ExecutorFromContext(ctx context.Context, conn Connection) Executor {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return conn
}
