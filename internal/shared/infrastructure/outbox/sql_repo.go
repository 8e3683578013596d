package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/pipisou/garage/internal/shared/infrastructure/database"
)

const messageColumns = `id, event_id, aggregate_type, aggregate_id, event_type, routing_key,
	payload, metadata, created_at, published_at, next_retry_at, retry_count,
	last_error, dead_lettered_at, dead_letter_reason`

// SQLRepository is the outbox table for either database driver.
type SQLRepository struct {
	db database.Session
}

// NewSQLRepository creates an outbox repository on conn.
func NewSQLRepository(conn database.Connection) *SQLRepository {
	return &SQLRepository{db: database.NewSession(conn)}
}

func (r *SQLRepository) Save(ctx context.Context, msg *Message) error {
	var metadata *string
	if len(msg.Metadata) > 0 {
		s := string(msg.Metadata)
		metadata = &s
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO outbox (event_id, aggregate_type, aggregate_id, event_type, routing_key,
			payload, metadata, created_at, retry_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)
		RETURNING id`,
		msg.EventID, msg.AggregateType, msg.AggregateID, msg.EventType, msg.RoutingKey,
		string(msg.Payload), metadata, msg.CreatedAt.UTC(),
	).Scan(&msg.ID)
}

func (r *SQLRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	for _, msg := range msgs {
		if err := r.Save(ctx, msg); err != nil {
			return fmt.Errorf("save outbox message %s: %w", msg.EventID, err)
		}
	}
	return nil
}

func (r *SQLRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+messageColumns+`
		FROM outbox
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY created_at, id
		LIMIT ?`, time.Now().UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		var (
			msg      Message
			payload  string
			metadata *string
		)
		if err := rows.Scan(&msg.ID, &msg.EventID, &msg.AggregateType, &msg.AggregateID,
			&msg.EventType, &msg.RoutingKey, &payload, &metadata, &msg.CreatedAt,
			&msg.PublishedAt, &msg.NextRetryAt, &msg.RetryCount, &msg.LastError,
			&msg.DeadLetteredAt, &msg.DeadLetterReason); err != nil {
			return nil, err
		}
		msg.Payload = []byte(payload)
		if metadata != nil {
			msg.Metadata = []byte(*metadata)
		}
		msgs = append(msgs, &msg)
	}
	return msgs, rows.Err()
}

func (r *SQLRepository) MarkPublished(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE outbox SET published_at = ? WHERE id = ?`, time.Now().UTC(), id)
	return err
}

func (r *SQLRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE outbox
		SET retry_count = retry_count + 1, last_error = ?, next_retry_at = ?
		WHERE id = ?`, errMsg, nextRetryAt.UTC(), id)
	return err
}

func (r *SQLRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE outbox SET dead_lettered_at = ?, dead_letter_reason = ? WHERE id = ?`,
		time.Now().UTC(), reason, id)
	return err
}

func (r *SQLRepository) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	res, err := r.db.Exec(ctx, `
		DELETE FROM outbox WHERE published_at IS NOT NULL AND published_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
