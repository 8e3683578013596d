package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pipisou/garage/internal/quotes/domain"
	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
	"github.com/pipisou/garage/internal/shared/infrastructure/database"
)

// SQLQuoteRepository stores quotes with their task list as JSON.
type SQLQuoteRepository struct {
	db database.Session
}

var (
	_ domain.Repository                      = (*SQLQuoteRepository)(nil)
	_ sharedDomain.Repository[*domain.Quote] = (*SQLQuoteRepository)(nil)
)

func NewSQLQuoteRepository(conn database.Connection) *SQLQuoteRepository {
	return &SQLQuoteRepository{db: database.NewSession(conn)}
}

func (r *SQLQuoteRepository) Save(ctx context.Context, q *domain.Quote) error {
	taskIDs, err := json.Marshal(q.TaskIDs())
	if err != nil {
		return fmt.Errorf("encode quote tasks: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO quotes (id, reference, client_id, vehicle_id, task_ids, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			client_id = excluded.client_id,
			vehicle_id = excluded.vehicle_id,
			task_ids = excluded.task_ids,
			updated_at = excluded.updated_at`,
		q.ID(), q.Reference(), q.ClientID(), q.VehicleID(), string(taskIDs),
		q.CreatedAt().UTC(), q.UpdatedAt().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save quote: %w", err)
	}
	return nil
}

func (r *SQLQuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	var (
		qid, clientID, vehicleID uuid.UUID
		reference, taskJSON      string
		createdAt, updatedAt     time.Time
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, reference, client_id, vehicle_id, task_ids, created_at, updated_at
		FROM quotes WHERE id = ?`, id,
	).Scan(&qid, &reference, &clientID, &vehicleID, &taskJSON, &createdAt, &updatedAt)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find quote: %w", err)
	}

	var taskIDs []uuid.UUID
	if err := json.Unmarshal([]byte(taskJSON), &taskIDs); err != nil {
		return nil, fmt.Errorf("decode quote tasks: %w", err)
	}
	base := sharedDomain.RehydrateBaseAggregateRoot(sharedDomain.RehydrateBaseEntity(qid, createdAt, updatedAt), 0)
	return domain.RehydrateQuote(base, reference, clientID, vehicleID, taskIDs), nil
}

func (r *SQLQuoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM quotes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}
	return nil
}
