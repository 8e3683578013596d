package commands

import (
	"context"

	"github.com/google/uuid"

	sharedApplication "github.com/pipisou/garage/internal/shared/application"
	"github.com/pipisou/garage/internal/shared/infrastructure/outbox"
	"github.com/pipisou/garage/internal/workforce/domain"
)

// CreateMechanicCommand registers a mechanic without a schedule.
type CreateMechanicCommand struct {
	ActorID   uuid.UUID
	FirstName string
	LastName  string
	Email     string
}

type CreateMechanicResult struct {
	MechanicID uuid.UUID
}

type CreateMechanicHandler struct {
	mechanicRepo domain.MechanicRepository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
}

func NewCreateMechanicHandler(mechanicRepo domain.MechanicRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CreateMechanicHandler {
	return &CreateMechanicHandler{
		mechanicRepo: mechanicRepo,
		outboxRepo:   outboxRepo,
		uow:          uow,
	}
}

func (h *CreateMechanicHandler) Handle(ctx context.Context, cmd CreateMechanicCommand) (*CreateMechanicResult, error) {
	mechanic, err := domain.NewMechanic(cmd.FirstName, cmd.LastName, cmd.Email)
	if err != nil {
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.mechanicRepo.Save(txCtx, mechanic); err != nil {
			return err
		}
		return saveEvents(txCtx, h.outboxRepo, cmd.ActorID, mechanic)
	})
	if err != nil {
		return nil, err
	}

	return &CreateMechanicResult{MechanicID: mechanic.ID()}, nil
}
