package domain

import (
	"time"

	"github.com/google/uuid"
)

// AssignmentAttempt records one validation decision for auditing.
type AssignmentAttempt struct {
	ID            uuid.UUID
	AppointmentID uuid.UUID
	SlotID        uuid.UUID
	MechanicID    uuid.UUID
	TaskID        uuid.UUID
	Start         time.Time
	End           time.Time
	Accepted      bool
	Reason        Reason
	Message       string
	AttemptedAt   time.Time
}

// NewAssignmentAttempt captures the outcome of validating c. A nil outcome
// means the candidate was accepted.
func NewAssignmentAttempt(c Candidate, outcome *Rejection) AssignmentAttempt {
	attempt := AssignmentAttempt{
		ID:            uuid.New(),
		AppointmentID: c.AppointmentID,
		SlotID:        c.SlotID,
		MechanicID:    c.MechanicID,
		TaskID:        c.TaskID,
		Start:         c.Start,
		End:           c.End,
		Accepted:      outcome == nil,
		AttemptedAt:   time.Now().UTC(),
	}
	if outcome != nil {
		attempt.Reason = outcome.Reason
		attempt.Message = outcome.Message
	}
	return attempt
}
