package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
)

// ReferenceSequence is the counter name quote references are drawn from.
const ReferenceSequence = "quote_reference"

var (
	ErrQuoteNotFound = errors.New("quote not found")
	ErrInvalidQuote  = errors.New("invalid quote")
)

// FormatReference renders the n-th quote reference, e.g. DEV-00042.
func FormatReference(n int64) string {
	return fmt.Sprintf("DEV-%05d", n)
}

// Quote is an estimate for a client's vehicle listing the catalogue tasks to
// perform. An appointment is opened from it.
type Quote struct {
	sharedDomain.BaseAggregateRoot
	reference string
	clientID  uuid.UUID
	vehicleID uuid.UUID
	taskIDs   []uuid.UUID
}

func NewQuote(reference string, clientID, vehicleID uuid.UUID, taskIDs []uuid.UUID) (*Quote, error) {
	switch {
	case reference == "":
		return nil, fmt.Errorf("%w: reference is required", ErrInvalidQuote)
	case clientID == uuid.Nil:
		return nil, fmt.Errorf("%w: client is required", ErrInvalidQuote)
	case vehicleID == uuid.Nil:
		return nil, fmt.Errorf("%w: vehicle is required", ErrInvalidQuote)
	case len(taskIDs) == 0:
		return nil, fmt.Errorf("%w: at least one task is required", ErrInvalidQuote)
	}
	q := &Quote{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		reference:         reference,
		clientID:          clientID,
		vehicleID:         vehicleID,
		taskIDs:           append([]uuid.UUID(nil), taskIDs...),
	}
	q.AddDomainEvent(NewQuoteCreated(q))
	return q, nil
}

func RehydrateQuote(base sharedDomain.BaseAggregateRoot, reference string, clientID, vehicleID uuid.UUID, taskIDs []uuid.UUID) *Quote {
	return &Quote{
		BaseAggregateRoot: base,
		reference:         reference,
		clientID:          clientID,
		vehicleID:         vehicleID,
		taskIDs:           taskIDs,
	}
}

func (q *Quote) Reference() string    { return q.reference }
func (q *Quote) ClientID() uuid.UUID  { return q.clientID }
func (q *Quote) VehicleID() uuid.UUID { return q.vehicleID }

// TaskIDs lists the quoted tasks in quote order. A task may appear twice.
func (q *Quote) TaskIDs() []uuid.UUID {
	return append([]uuid.UUID(nil), q.taskIDs...)
}

const (
	AggregateType          = "Quote"
	RoutingKeyQuoteCreated = "quotes.created"
)

type QuoteCreated struct {
	sharedDomain.BaseEvent
	Reference string      `json:"reference"`
	ClientID  uuid.UUID   `json:"client_id"`
	TaskIDs   []uuid.UUID `json:"task_ids"`
}

func NewQuoteCreated(q *Quote) *QuoteCreated {
	return &QuoteCreated{
		BaseEvent: sharedDomain.NewBaseEvent(q.ID(), AggregateType, RoutingKeyQuoteCreated),
		Reference: q.reference,
		ClientID:  q.clientID,
		TaskIDs:   q.TaskIDs(),
	}
}
