package domain

import (
	"context"

	"github.com/google/uuid"

	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
)

// ListFilter narrows List. Zero values match everything.
type ListFilter struct {
	Status   Status
	ClientID uuid.UUID
}

// Repository loads and stores appointments with their slots and articles.
// Save writes the appointment and all of its slots and fails with
// ErrConcurrentModification when the stored version moved on. FindByID
// returns nil, nil for an unknown id.
type Repository interface {
	sharedDomain.Repository[*Appointment]
	List(ctx context.Context, filter ListFilter) ([]*Appointment, error)
}
