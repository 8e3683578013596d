package database

import (
	"context"
	"database/sql"
)

// Row is satisfied by pgx.Row and *sql.Row.
type Row interface {
	Scan(dest ...any) error
}

// Rows is satisfied by the pgx and database/sql row iterators once wrapped.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

// Result reports the effect of a write.
type Result interface {
	RowsAffected() (int64, error)
	LastInsertId() (int64, error)
}

// Executor runs statements against a connection or a transaction.
type Executor interface {
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
	Query(ctx context.Context, query string, args ...any) (Rows, error)
}

// Transaction is an Executor that can be committed or rolled back.
type Transaction interface {
	Executor
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Connection is a pooled handle to one database.
type Connection interface {
	Executor
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
	Ping(ctx context.Context) error
	Driver() Driver
}

// Session is what repositories hold. Each call runs on the transaction in
// the context when present and has its '?' placeholders rebound for the
// connection's driver.
type Session struct {
	conn Connection
}

// NewSession wraps conn.
func NewSession(conn Connection) Session {
	return Session{conn: conn}
}

// Driver returns the driver of the underlying connection.
func (s Session) Driver() Driver { return s.conn.Driver() }

func (s Session) Exec(ctx context.Context, query string, args ...any) (Result, error) {
	return ExecutorFromContext(ctx, s.conn).Exec(ctx, Rebind(s.conn.Driver(), query), args...)
}

func (s Session) QueryRow(ctx context.Context, query string, args ...any) Row {
	return ExecutorFromContext(ctx, s.conn).QueryRow(ctx, Rebind(s.conn.Driver(), query), args...)
}

func (s Session) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	return ExecutorFromContext(ctx, s.conn).Query(ctx, Rebind(s.conn.Driver(), query), args...)
}

type sqlResult struct {
	sql.Result
}

// WrapSQLResult adapts a database/sql result.
func WrapSQLResult(r sql.Result) Result {
	return sqlResult{Result: r}
}

type sqlRows struct {
	*sql.Rows
}

// WrapSQLRows adapts database/sql rows.
func WrapSQLRows(r *sql.Rows) Rows {
	return sqlRows{Rows: r}
}
