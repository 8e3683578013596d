package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pipisou/garage/internal/catalog/domain"
	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
	"github.com/pipisou/garage/internal/shared/infrastructure/database"
)

const taskDefinitionColumns = `id, description, price_cents, estimated_minutes, margin_minutes, created_at, updated_at`

// SQLTaskDefinitionRepository stores the task catalogue.
type SQLTaskDefinitionRepository struct {
	db database.Session
}

func NewSQLTaskDefinitionRepository(conn database.Connection) *SQLTaskDefinitionRepository {
	return &SQLTaskDefinitionRepository{db: database.NewSession(conn)}
}

func (r *SQLTaskDefinitionRepository) Save(ctx context.Context, t *domain.TaskDefinition) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO task_definitions (`+taskDefinitionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			description = excluded.description,
			price_cents = excluded.price_cents,
			estimated_minutes = excluded.estimated_minutes,
			margin_minutes = excluded.margin_minutes,
			updated_at = excluded.updated_at`,
		t.ID(), t.Description(), t.PriceCents(), t.EstimatedMinutes(), t.MarginMinutes(),
		t.CreatedAt().UTC(), t.UpdatedAt().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save task definition: %w", err)
	}
	return nil
}

func (r *SQLTaskDefinitionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.TaskDefinition, error) {
	t, err := scanTaskDefinition(r.db.QueryRow(ctx,
		`SELECT `+taskDefinitionColumns+` FROM task_definitions WHERE id = ?`, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find task definition: %w", err)
	}
	return t, nil
}

// FindByIDs returns the known definitions among ids, in no particular order.
func (r *SQLTaskDefinitionRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.TaskDefinition, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return r.list(ctx, `SELECT `+taskDefinitionColumns+` FROM task_definitions
		WHERE id IN (`+database.Placeholders(len(ids))+`)`, args...)
}

func (r *SQLTaskDefinitionRepository) List(ctx context.Context) ([]*domain.TaskDefinition, error) {
	return r.list(ctx, `SELECT `+taskDefinitionColumns+` FROM task_definitions ORDER BY description, id`)
}

func (r *SQLTaskDefinitionRepository) list(ctx context.Context, query string, args ...any) ([]*domain.TaskDefinition, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list task definitions: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.TaskDefinition
	for rows.Next() {
		t, err := scanTaskDefinition(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func scanTaskDefinition(row database.Row) (*domain.TaskDefinition, error) {
	var (
		id                   uuid.UUID
		description          string
		priceCents           int64
		estimated, margin    int
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &description, &priceCents, &estimated, &margin, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	base := sharedDomain.RehydrateBaseAggregateRoot(sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt), 0)
	return domain.RehydrateTaskDefinition(base, description, priceCents, estimated, margin), nil
}
