package commands

import (
	"context"

	"github.com/google/uuid"

	sharedApplication "github.com/pipisou/garage/internal/shared/application"
	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
	"github.com/pipisou/garage/internal/shared/infrastructure/outbox"
	"github.com/pipisou/garage/internal/workforce/domain"
)

// RecordAbsenceCommand adds an absence. Leaving Start and End empty records a
// full day.
type RecordAbsenceCommand struct {
	ActorID    uuid.UUID
	MechanicID uuid.UUID
	Date       string
	Start      string
	End        string
	Reason     string
}

type RecordAbsenceResult struct {
	AbsenceID uuid.UUID
}

type RecordAbsenceHandler struct {
	mechanicRepo domain.MechanicRepository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
}

func NewRecordAbsenceHandler(mechanicRepo domain.MechanicRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *RecordAbsenceHandler {
	return &RecordAbsenceHandler{
		mechanicRepo: mechanicRepo,
		outboxRepo:   outboxRepo,
		uow:          uow,
	}
}

func (h *RecordAbsenceHandler) Handle(ctx context.Context, cmd RecordAbsenceCommand) (*RecordAbsenceResult, error) {
	absence, err := buildAbsence(cmd)
	if err != nil {
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		mechanic, err := h.mechanicRepo.FindByID(txCtx, cmd.MechanicID)
		if err != nil {
			return err
		}
		if mechanic == nil {
			return domain.ErrMechanicNotFound
		}

		mechanic.RecordAbsence(absence)
		if err := h.mechanicRepo.Save(txCtx, mechanic); err != nil {
			return err
		}
		return saveEvents(txCtx, h.outboxRepo, cmd.ActorID, mechanic)
	})
	if err != nil {
		return nil, err
	}

	return &RecordAbsenceResult{AbsenceID: absence.ID()}, nil
}

func buildAbsence(cmd RecordAbsenceCommand) (*domain.Absence, error) {
	date, err := sharedDomain.ParseDate(cmd.Date)
	if err != nil {
		return nil, err
	}
	if cmd.Start == "" && cmd.End == "" {
		return domain.NewFullDayAbsence(date, cmd.Reason)
	}
	start, err := sharedDomain.ParseClockTime(cmd.Start)
	if err != nil {
		return nil, err
	}
	end, err := sharedDomain.ParseClockTime(cmd.End)
	if err != nil {
		return nil, err
	}
	return domain.NewAbsence(date, start, end, cmd.Reason)
}

// RemoveAbsenceCommand deletes one absence.
type RemoveAbsenceCommand struct {
	MechanicID uuid.UUID
	AbsenceID  uuid.UUID
}

type RemoveAbsenceHandler struct {
	mechanicRepo domain.MechanicRepository
	uow          sharedApplication.UnitOfWork
}

func NewRemoveAbsenceHandler(mechanicRepo domain.MechanicRepository, uow sharedApplication.UnitOfWork) *RemoveAbsenceHandler {
	return &RemoveAbsenceHandler{mechanicRepo: mechanicRepo, uow: uow}
}

func (h *RemoveAbsenceHandler) Handle(ctx context.Context, cmd RemoveAbsenceCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		mechanic, err := h.mechanicRepo.FindByID(txCtx, cmd.MechanicID)
		if err != nil {
			return err
		}
		if mechanic == nil {
			return domain.ErrMechanicNotFound
		}
		if err := mechanic.RemoveAbsence(cmd.AbsenceID); err != nil {
			return err
		}
		return h.mechanicRepo.Save(txCtx, mechanic)
	})
}
