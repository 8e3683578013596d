package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipisou/garage/internal/shared/application"
	"github.com/pipisou/garage/internal/shared/infrastructure/database"
)

func openTestConnection(t *testing.T) database.Connection {
	t.Helper()
	conn, err := NewConnection(context.Background(), database.Config{
		SQLitePath: filepath.Join(t.TempDir(), "garage.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = conn.Exec(context.Background(), `CREATE TABLE mechanics (id TEXT PRIMARY KEY, name TEXT NOT NULL)`)
	require.NoError(t, err)
	return conn
}

func countMechanics(t *testing.T, conn database.Connection) int {
	t.Helper()
	var n int
	require.NoError(t, conn.QueryRow(context.Background(), `SELECT COUNT(*) FROM mechanics`).Scan(&n))
	return n
}

func TestNewConnection_RegistersDriver(t *testing.T) {
	conn, err := database.NewConnection(context.Background(), database.Config{
		SQLitePath: filepath.Join(t.TempDir(), "nested", "garage.db"),
	})
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, database.DriverSQLite, conn.Driver())
	assert.NoError(t, conn.Ping(context.Background()))
}

func TestConnection_ExecAndQuery(t *testing.T) {
	ctx := context.Background()
	conn := openTestConnection(t)

	res, err := conn.Exec(ctx, `INSERT INTO mechanics (id, name) VALUES (?, ?), (?, ?)`, "m1", "Rakoto", "m2", "Rabe")
	require.NoError(t, err)
	affected, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	rows, err := conn.Query(ctx, `SELECT name FROM mechanics ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"Rakoto", "Rabe"}, names)

	var missing string
	err = conn.QueryRow(ctx, `SELECT name FROM mechanics WHERE id = ?`, "m9").Scan(&missing)
	assert.True(t, database.IsNoRows(err))
}

func TestUnitOfWork_CommitAndRollback(t *testing.T) {
	ctx := context.Background()
	conn := openTestConnection(t)
	uow := database.NewUnitOfWork(conn)
	session := database.NewSession(conn)

	err := application.WithUnitOfWork(ctx, uow, func(txCtx context.Context) error {
		_, err := session.Exec(txCtx, `INSERT INTO mechanics (id, name) VALUES (?, ?)`, "m1", "Rakoto")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countMechanics(t, conn))

	boom := errors.New("rejected")
	err = application.WithUnitOfWork(ctx, uow, func(txCtx context.Context) error {
		if _, err := session.Exec(txCtx, `INSERT INTO mechanics (id, name) VALUES (?, ?)`, "m2", "Rabe"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, countMechanics(t, conn))
}

func TestUnitOfWork_NestedJoinsOuterTransaction(t *testing.T) {
	ctx := context.Background()
	conn := openTestConnection(t)
	uow := database.NewUnitOfWork(conn)
	session := database.NewSession(conn)

	outer, err := uow.Begin(ctx)
	require.NoError(t, err)

	inner, err := uow.Begin(outer)
	require.NoError(t, err)
	_, err = session.Exec(inner, `INSERT INTO mechanics (id, name) VALUES (?, ?)`, "m1", "Rakoto")
	require.NoError(t, err)
	require.NoError(t, uow.Commit(inner))

	// The inner commit is a no-op; rolling back the outer discards the row.
	require.NoError(t, uow.Rollback(outer))
	assert.Equal(t, 0, countMechanics(t, conn))
}
