package outbox

import (
	"context"
	"time"
)

// Repository stores outbox messages. Save and SaveBatch join the transaction
// carried by ctx so events commit together with the aggregate change.
type Repository interface {
	Save(ctx context.Context, msg *Message) error
	SaveBatch(ctx context.Context, msgs []*Message) error

	// GetUnpublished returns pending messages that are due, oldest first.
	GetUnpublished(ctx context.Context, limit int) ([]*Message, error)
	MarkPublished(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, err string, nextRetryAt time.Time) error
	MarkDead(ctx context.Context, id int64, reason string) error

	// DeleteOld purges published messages older than the retention period.
	DeleteOld(ctx context.Context, olderThanDays int) (int64, error)
}
