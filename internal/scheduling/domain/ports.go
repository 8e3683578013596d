package domain

import (
	"context"

	"github.com/google/uuid"
)

// AvailabilityProvider loads a mechanic's active schedule and absences.
// A missing mechanic is reported as an error wrapping ErrNotFound.
type AvailabilityProvider interface {
	Availability(ctx context.Context, mechanicID uuid.UUID) (*Availability, error)
}

// RequirementProvider loads the duration requirement of a task definition.
// A missing task is reported as an error wrapping ErrNotFound.
type RequirementProvider interface {
	Requirement(ctx context.Context, taskID uuid.UUID) (*TaskRequirement, error)
}

// CommittedBookingReader lists the assigned slots of one mechanic that belong
// to appointments in one of statuses.
type CommittedBookingReader interface {
	ListCommitted(ctx context.Context, mechanicID uuid.UUID, statuses []string) ([]Booking, error)
}

// MechanicLocker serialises validate-and-write for a set of mechanics.
// Implementations acquire locks in a stable order; release is idempotent.
type MechanicLocker interface {
	Lock(ctx context.Context, mechanicIDs []uuid.UUID) (release func(), err error)
}

// AttemptRepository stores the audit trail of validation decisions.
type AttemptRepository interface {
	Create(ctx context.Context, attempt AssignmentAttempt) error
	ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]AssignmentAttempt, error)
}
