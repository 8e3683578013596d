package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pipisou/garage/internal/appointments/domain"
	quoteDomain "github.com/pipisou/garage/internal/quotes/domain"
	sharedApplication "github.com/pipisou/garage/internal/shared/application"
	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
	"github.com/pipisou/garage/internal/shared/infrastructure/outbox"
)

// mutateFunc changes a loaded appointment. Returning an error aborts the
// unit of work.
type mutateFunc func(a *domain.Appointment) error

// lifecycle runs load, mutate, save and outbox for the single-aggregate
// commands below.
type lifecycle struct {
	appointmentRepo domain.Repository
	outboxRepo      outbox.Repository
	uow             sharedApplication.UnitOfWork
}

func (l lifecycle) run(ctx context.Context, actorID, appointmentID uuid.UUID, mutate mutateFunc) (*domain.Appointment, error) {
	var out *domain.Appointment
	err := sharedApplication.WithUnitOfWork(ctx, l.uow, func(txCtx context.Context) error {
		a, err := l.appointmentRepo.FindByID(txCtx, appointmentID)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrAppointmentNotFound
		}
		if err := mutate(a); err != nil {
			return err
		}
		if err := l.appointmentRepo.Save(txCtx, a); err != nil {
			return err
		}
		if err := saveEvents(txCtx, l.outboxRepo, actorID, a); err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ValidateAppointmentCommand confirms the visit on ChosenDate.
type ValidateAppointmentCommand struct {
	ActorID       uuid.UUID
	AppointmentID uuid.UUID
	ChosenDate    time.Time
}

type ValidateAppointmentHandler struct {
	lifecycle
}

func NewValidateAppointmentHandler(appointmentRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *ValidateAppointmentHandler {
	return &ValidateAppointmentHandler{lifecycle{appointmentRepo, outboxRepo, uow}}
}

func (h *ValidateAppointmentHandler) Handle(ctx context.Context, cmd ValidateAppointmentCommand) (*domain.Appointment, error) {
	return h.run(ctx, cmd.ActorID, cmd.AppointmentID, func(a *domain.Appointment) error {
		a.Validate(cmd.ChosenDate)
		return nil
	})
}

// RequestNewDatesCommand records new date ranges asked for by the client.
type RequestNewDatesCommand struct {
	ActorID       uuid.UUID
	AppointmentID uuid.UUID
	Ranges        []sharedDomain.TimeRange
}

type RequestNewDatesHandler struct {
	lifecycle
}

func NewRequestNewDatesHandler(appointmentRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *RequestNewDatesHandler {
	return &RequestNewDatesHandler{lifecycle{appointmentRepo, outboxRepo, uow}}
}

func (h *RequestNewDatesHandler) Handle(ctx context.Context, cmd RequestNewDatesCommand) (*domain.Appointment, error) {
	return h.run(ctx, cmd.ActorID, cmd.AppointmentID, func(a *domain.Appointment) error {
		return a.RequestNewDates(cmd.Ranges)
	})
}

// UpdateStatusCommand sets any lifecycle status.
type UpdateStatusCommand struct {
	ActorID       uuid.UUID
	AppointmentID uuid.UUID
	Status        string
}

type UpdateStatusHandler struct {
	lifecycle
}

func NewUpdateStatusHandler(appointmentRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *UpdateStatusHandler {
	return &UpdateStatusHandler{lifecycle{appointmentRepo, outboxRepo, uow}}
}

func (h *UpdateStatusHandler) Handle(ctx context.Context, cmd UpdateStatusCommand) (*domain.Appointment, error) {
	status, err := domain.ParseStatus(cmd.Status)
	if err != nil {
		return nil, err
	}
	return h.run(ctx, cmd.ActorID, cmd.AppointmentID, func(a *domain.Appointment) error {
		return a.SetStatus(status)
	})
}

// UpdateTaskStatusCommand records progress on one slot.
type UpdateTaskStatusCommand struct {
	ActorID       uuid.UUID
	AppointmentID uuid.UUID
	SlotID        uuid.UUID
	Status        string
}

type UpdateTaskStatusHandler struct {
	lifecycle
}

func NewUpdateTaskStatusHandler(appointmentRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *UpdateTaskStatusHandler {
	return &UpdateTaskStatusHandler{lifecycle{appointmentRepo, outboxRepo, uow}}
}

func (h *UpdateTaskStatusHandler) Handle(ctx context.Context, cmd UpdateTaskStatusCommand) (*domain.Appointment, error) {
	status, err := domain.ParseTaskStatus(cmd.Status)
	if err != nil {
		return nil, err
	}
	return h.run(ctx, cmd.ActorID, cmd.AppointmentID, func(a *domain.Appointment) error {
		return a.SetTaskStatus(cmd.SlotID, status)
	})
}

// DeleteAppointmentCommand removes an appointment together with its quote.
type DeleteAppointmentCommand struct {
	AppointmentID uuid.UUID
}

type DeleteAppointmentHandler struct {
	appointmentRepo domain.Repository
	quoteRepo       quoteDomain.Repository
	uow             sharedApplication.UnitOfWork
}

func NewDeleteAppointmentHandler(appointmentRepo domain.Repository, quoteRepo quoteDomain.Repository, uow sharedApplication.UnitOfWork) *DeleteAppointmentHandler {
	return &DeleteAppointmentHandler{appointmentRepo: appointmentRepo, quoteRepo: quoteRepo, uow: uow}
}

func (h *DeleteAppointmentHandler) Handle(ctx context.Context, cmd DeleteAppointmentCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		a, err := h.appointmentRepo.FindByID(txCtx, cmd.AppointmentID)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrAppointmentNotFound
		}
		if err := h.appointmentRepo.Delete(txCtx, a.ID()); err != nil {
			return err
		}
		return h.quoteRepo.Delete(txCtx, a.QuoteID())
	})
}
