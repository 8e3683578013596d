package queries

import (
	"context"

	"github.com/google/uuid"

	"github.com/pipisou/garage/internal/appointments/domain"
	catalogDomain "github.com/pipisou/garage/internal/catalog/domain"
)

type GetInvoiceQuery struct {
	AppointmentID uuid.UUID
}

// GetInvoiceHandler prices an appointment from the task catalogue and the
// frozen article prices.
type GetInvoiceHandler struct {
	appointmentRepo domain.Repository
	taskRepo        catalogDomain.TaskDefinitionRepository
}

func NewGetInvoiceHandler(appointmentRepo domain.Repository, taskRepo catalogDomain.TaskDefinitionRepository) *GetInvoiceHandler {
	return &GetInvoiceHandler{appointmentRepo: appointmentRepo, taskRepo: taskRepo}
}

func (h *GetInvoiceHandler) Handle(ctx context.Context, query GetInvoiceQuery) (*domain.Invoice, error) {
	a, err := h.appointmentRepo.FindByID(ctx, query.AppointmentID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrAppointmentNotFound
	}

	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, t := range a.Tasks() {
		if !seen[t.TaskID] {
			seen[t.TaskID] = true
			ids = append(ids, t.TaskID)
		}
	}
	tasks, err := h.taskRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	prices := make(map[uuid.UUID]domain.TaskPrice, len(tasks))
	for _, t := range tasks {
		prices[t.ID()] = domain.TaskPrice{Description: t.Description(), PriceCents: t.PriceCents()}
	}

	invoice := a.BuildInvoice(prices)
	return &invoice, nil
}
