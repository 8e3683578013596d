package domain

import (
	"context"

	"github.com/google/uuid"
)

// MechanicRepository loads mechanics fully assembled: the latest work
// schedule and every absence are joined in.
type MechanicRepository interface {
	Save(ctx context.Context, mechanic *Mechanic) error
	// FindByID returns nil, nil when the mechanic does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*Mechanic, error)
	List(ctx context.Context) ([]*Mechanic, error)
}
