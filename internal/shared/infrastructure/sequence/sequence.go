// Package sequence hands out monotonically increasing numbers per named
// counter, backed by the counters table.
package sequence

import (
	"context"
	"fmt"

	"github.com/pipisou/garage/internal/shared/infrastructure/database"
)

// Generator increments named counters atomically. Concurrent callers never
// observe the same value because the increment is a single upsert.
type Generator struct {
	db database.Session
}

func NewGenerator(conn database.Connection) *Generator {
	return &Generator{db: database.NewSession(conn)}
}

// Next returns the next value of counter name, starting at 1. It joins the
// transaction in ctx so a rolled back command does not consume a number.
func (g *Generator) Next(ctx context.Context, name string) (int64, error) {
	var value int64
	err := g.db.QueryRow(ctx, `
		INSERT INTO counters (name, value) VALUES (?, 1)
		ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		RETURNING value`, name).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("next %s sequence value: %w", name, err)
	}
	return value, nil
}
