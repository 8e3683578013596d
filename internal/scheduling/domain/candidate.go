package domain

import (
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
)

// Candidate is a proposed assignment of a mechanic to one task slot.
type Candidate struct {
	AppointmentID uuid.UUID
	SlotID        uuid.UUID
	MechanicID    uuid.UUID
	TaskID        uuid.UUID
	Start         time.Time
	End           time.Time

	// Siblings are the other assigned slots of the same appointment in their
	// current, possibly uncommitted, state. They replace whatever the store
	// holds for that appointment.
	Siblings []Booking
}

// Interval returns the candidate window, rejecting empty or inverted ones.
func (c Candidate) Interval() (sharedDomain.TimeRange, error) {
	r, err := sharedDomain.NewTimeRange(c.Start, c.End)
	if err != nil {
		return sharedDomain.TimeRange{}, Reject(ReasonInvalidInterval,
			"end %s is not after start %s", c.End.Format(time.RFC3339), c.Start.Format(time.RFC3339))
	}
	return r, nil
}

// Booking returns the candidate as a booking once accepted.
func (c Candidate) Booking() Booking {
	return Booking{
		AppointmentID: c.AppointmentID,
		SlotID:        c.SlotID,
		MechanicID:    c.MechanicID,
		Interval:      sharedDomain.TimeRange{Start: c.Start, End: c.End},
	}
}
