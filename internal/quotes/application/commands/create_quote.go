package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	catalogDomain "github.com/pipisou/garage/internal/catalog/domain"
	"github.com/pipisou/garage/internal/quotes/domain"
	sharedApplication "github.com/pipisou/garage/internal/shared/application"
	"github.com/pipisou/garage/internal/shared/infrastructure/outbox"
	"github.com/pipisou/garage/pkg/observability"
)

// Sequence hands out the numbers behind quote references.
type Sequence interface {
	Next(ctx context.Context, name string) (int64, error)
}

type CreateQuoteCommand struct {
	ActorID   uuid.UUID
	ClientID  uuid.UUID
	VehicleID uuid.UUID
	TaskIDs   []uuid.UUID
}

type CreateQuoteResult struct {
	QuoteID   uuid.UUID
	Reference string
}

type CreateQuoteHandler struct {
	quoteRepo  domain.Repository
	taskRepo   catalogDomain.TaskDefinitionRepository
	sequence   Sequence
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	logger     *slog.Logger
	metrics    observability.Metrics
}

func NewCreateQuoteHandler(
	quoteRepo domain.Repository,
	taskRepo catalogDomain.TaskDefinitionRepository,
	sequence Sequence,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	logger *slog.Logger,
) *CreateQuoteHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateQuoteHandler{
		quoteRepo:  quoteRepo,
		taskRepo:   taskRepo,
		sequence:   sequence,
		outboxRepo: outboxRepo,
		uow:        uow,
		logger:     logger,
		metrics:    observability.NoopMetrics{},
	}
}

func (h *CreateQuoteHandler) WithMetrics(m observability.Metrics) *CreateQuoteHandler {
	h.metrics = m
	return h
}

// Handle checks every task against the catalogue and stores the quote under
// the next DEV reference. The number is drawn inside the transaction.
func (h *CreateQuoteHandler) Handle(ctx context.Context, cmd CreateQuoteCommand) (*CreateQuoteResult, error) {
	var result *CreateQuoteResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.checkTasks(txCtx, cmd.TaskIDs); err != nil {
			return err
		}

		n, err := h.sequence.Next(txCtx, domain.ReferenceSequence)
		if err != nil {
			return err
		}
		quote, err := domain.NewQuote(domain.FormatReference(n), cmd.ClientID, cmd.VehicleID, cmd.TaskIDs)
		if err != nil {
			return err
		}
		if err := h.quoteRepo.Save(txCtx, quote); err != nil {
			return err
		}

		events := quote.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(txCtx, cmd.ActorID))
		msgs, err := outbox.FromEvents(events)
		if err != nil {
			return err
		}
		if err := h.outboxRepo.SaveBatch(txCtx, msgs); err != nil {
			return err
		}

		result = &CreateQuoteResult{QuoteID: quote.ID(), Reference: quote.Reference()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.metrics.Counter(observability.MetricQuotesCreated, 1)
	h.logger.InfoContext(ctx, "quote created", "quote_id", result.QuoteID, "reference", result.Reference)
	return result, nil
}

func (h *CreateQuoteHandler) checkTasks(ctx context.Context, taskIDs []uuid.UUID) error {
	unique := make([]uuid.UUID, 0, len(taskIDs))
	seen := make(map[uuid.UUID]bool, len(taskIDs))
	for _, id := range taskIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return fmt.Errorf("%w: at least one task is required", domain.ErrInvalidQuote)
	}

	found, err := h.taskRepo.FindByIDs(ctx, unique)
	if err != nil {
		return err
	}
	known := make(map[uuid.UUID]bool, len(found))
	for _, t := range found {
		known[t.ID()] = true
	}
	for _, id := range unique {
		if !known[id] {
			return fmt.Errorf("task %s: %w", id, catalogDomain.ErrTaskDefinitionNotFound)
		}
	}
	return nil
}
