package commands

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pipisou/garage/internal/appointments/domain"
	quoteDomain "github.com/pipisou/garage/internal/quotes/domain"
	sharedApplication "github.com/pipisou/garage/internal/shared/application"
	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
	"github.com/pipisou/garage/internal/shared/infrastructure/outbox"
	"github.com/pipisou/garage/pkg/observability"
)

// CreateAppointmentCommand opens an appointment from a quote for the
// client's requested date ranges.
type CreateAppointmentCommand struct {
	ActorID        uuid.UUID
	QuoteID        uuid.UUID
	RequestedDates []sharedDomain.TimeRange
}

type CreateAppointmentResult struct {
	AppointmentID uuid.UUID
	SlotIDs       []uuid.UUID
}

type CreateAppointmentHandler struct {
	appointmentRepo domain.Repository
	quoteRepo       quoteDomain.Repository
	outboxRepo      outbox.Repository
	uow             sharedApplication.UnitOfWork
	logger          *slog.Logger
	metrics         observability.Metrics
}

func NewCreateAppointmentHandler(
	appointmentRepo domain.Repository,
	quoteRepo quoteDomain.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	logger *slog.Logger,
) *CreateAppointmentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateAppointmentHandler{
		appointmentRepo: appointmentRepo,
		quoteRepo:       quoteRepo,
		outboxRepo:      outboxRepo,
		uow:             uow,
		logger:          logger,
		metrics:         observability.NoopMetrics{},
	}
}

func (h *CreateAppointmentHandler) WithMetrics(m observability.Metrics) *CreateAppointmentHandler {
	if m != nil {
		h.metrics = m
	}
	return h
}

func (h *CreateAppointmentHandler) Handle(ctx context.Context, cmd CreateAppointmentCommand) (*CreateAppointmentResult, error) {
	var result *CreateAppointmentResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		quote, err := h.quoteRepo.FindByID(txCtx, cmd.QuoteID)
		if err != nil {
			return err
		}
		if quote == nil {
			return quoteDomain.ErrQuoteNotFound
		}

		appointment, err := domain.NewAppointment(quote.ClientID(), quote.ID(), quote.TaskIDs(), cmd.RequestedDates)
		if err != nil {
			return err
		}
		if err := h.appointmentRepo.Save(txCtx, appointment); err != nil {
			return err
		}
		if err := saveEvents(txCtx, h.outboxRepo, cmd.ActorID, appointment); err != nil {
			return err
		}

		result = &CreateAppointmentResult{AppointmentID: appointment.ID()}
		for _, t := range appointment.Tasks() {
			result.SlotIDs = append(result.SlotIDs, t.SlotID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.metrics.Counter(observability.MetricAppointmentsCreated, 1)
	h.logger.InfoContext(ctx, "appointment created",
		"appointment_id", result.AppointmentID,
		"quote_id", cmd.QuoteID,
		"slots", len(result.SlotIDs),
	)
	return result, nil
}
