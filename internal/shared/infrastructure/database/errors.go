package database

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
)

// ErrNoRows is the driver-neutral "nothing found" error.
var ErrNoRows = errors.New("no rows in result set")

// IsNoRows reports whether err means the query matched nothing, for either driver.
func IsNoRows(err error) bool {
	return err != nil && (errors.Is(err, pgx.ErrNoRows) ||
		errors.Is(err, sql.ErrNoRows) ||
		errors.Is(err, ErrNoRows))
}
