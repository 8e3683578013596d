package commands

import (
	"context"

	"github.com/google/uuid"

	sharedApplication "github.com/pipisou/garage/internal/shared/application"
	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
	"github.com/pipisou/garage/internal/shared/infrastructure/outbox"
)

// saveEvents moves the aggregate's pending events into the outbox within
// the caller's transaction.
func saveEvents(ctx context.Context, outboxRepo outbox.Repository, actorID uuid.UUID, aggregate sharedDomain.AggregateRoot) error {
	events := aggregate.DomainEvents()
	if len(events) == 0 {
		return nil
	}
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ctx, actorID))
	msgs, err := outbox.FromEvents(events)
	if err != nil {
		return err
	}
	if err := outboxRepo.SaveBatch(ctx, msgs); err != nil {
		return err
	}
	aggregate.ClearDomainEvents()
	return nil
}
