// Package dbtest opens throwaway SQLite databases with the full schema applied.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pipisou/garage/internal/shared/infrastructure/database"
	"github.com/pipisou/garage/internal/shared/infrastructure/database/sqlite"
	"github.com/pipisou/garage/internal/shared/infrastructure/migrations"
)

// Open returns a migrated SQLite connection in t's temp dir. It is closed
// when the test ends.
func Open(t testing.TB) database.Connection {
	t.Helper()
	ctx := context.Background()

	conn, err := sqlite.NewConnection(ctx, database.Config{
		SQLitePath: filepath.Join(t.TempDir(), "garage.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, migrations.Run(ctx, conn))
	return conn
}
