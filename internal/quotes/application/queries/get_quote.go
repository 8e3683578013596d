package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pipisou/garage/internal/quotes/domain"
)

type QuoteDTO struct {
	ID        uuid.UUID
	Reference string
	ClientID  uuid.UUID
	VehicleID uuid.UUID
	TaskIDs   []uuid.UUID
	CreatedAt time.Time
}

type GetQuoteQuery struct {
	QuoteID uuid.UUID
}

type GetQuoteHandler struct {
	quoteRepo domain.Repository
}

func NewGetQuoteHandler(quoteRepo domain.Repository) *GetQuoteHandler {
	return &GetQuoteHandler{quoteRepo: quoteRepo}
}

func (h *GetQuoteHandler) Handle(ctx context.Context, q GetQuoteQuery) (*QuoteDTO, error) {
	quote, err := h.quoteRepo.FindByID(ctx, q.QuoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, domain.ErrQuoteNotFound
	}
	return &QuoteDTO{
		ID:        quote.ID(),
		Reference: quote.Reference(),
		ClientID:  quote.ClientID(),
		VehicleID: quote.VehicleID(),
		TaskIDs:   quote.TaskIDs(),
		CreatedAt: quote.CreatedAt(),
	}, nil
}
