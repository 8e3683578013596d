package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pipisou/garage/internal/scheduling/domain"
)

// AttemptDTO is one validation decision of the audit trail.
type AttemptDTO struct {
	SlotID      uuid.UUID
	MechanicID  uuid.UUID
	TaskID      uuid.UUID
	Start       time.Time
	End         time.Time
	Accepted    bool
	Reason      string
	Message     string
	AttemptedAt time.Time
}

type ListAssignmentAttemptsQuery struct {
	AppointmentID uuid.UUID
}

type ListAssignmentAttemptsHandler struct {
	attempts domain.AttemptRepository
}

func NewListAssignmentAttemptsHandler(attempts domain.AttemptRepository) *ListAssignmentAttemptsHandler {
	return &ListAssignmentAttemptsHandler{attempts: attempts}
}

// Handle returns the attempts of one appointment, oldest first.
func (h *ListAssignmentAttemptsHandler) Handle(ctx context.Context, q ListAssignmentAttemptsQuery) ([]AttemptDTO, error) {
	attempts, err := h.attempts.ListByAppointment(ctx, q.AppointmentID)
	if err != nil {
		return nil, err
	}
	dtos := make([]AttemptDTO, 0, len(attempts))
	for _, a := range attempts {
		dtos = append(dtos, AttemptDTO{
			SlotID:      a.SlotID,
			MechanicID:  a.MechanicID,
			TaskID:      a.TaskID,
			Start:       a.Start,
			End:         a.End,
			Accepted:    a.Accepted,
			Reason:      string(a.Reason),
			Message:     a.Message,
			AttemptedAt: a.AttemptedAt,
		})
	}
	return dtos, nil
}
