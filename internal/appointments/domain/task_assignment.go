package domain

import (
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
)

// TaskAssignment is one task slot of an appointment. Mechanic and times are
// nil until a manager schedules the slot.
type TaskAssignment struct {
	SlotID     uuid.UUID
	TaskID     uuid.UUID
	MechanicID *uuid.UUID
	Start      *time.Time
	End        *time.Time
	Status     TaskStatus
}

// IsScheduled reports whether mechanic, start and end are all set.
func (t TaskAssignment) IsScheduled() bool {
	return t.MechanicID != nil && t.Start != nil && t.End != nil
}

// Interval returns the booked window of a scheduled slot.
func (t TaskAssignment) Interval() (sharedDomain.TimeRange, bool) {
	if t.Start == nil || t.End == nil {
		return sharedDomain.TimeRange{}, false
	}
	return sharedDomain.TimeRange{Start: *t.Start, End: *t.End}, true
}

// SlotPatch is a partial update of one slot. Nil fields keep their value.
type SlotPatch struct {
	SlotID     uuid.UUID
	MechanicID *uuid.UUID
	Start      *time.Time
	End        *time.Time
}

// TouchesSchedule reports whether the patch sets mechanic or time.
func (p SlotPatch) TouchesSchedule() bool {
	return p.MechanicID != nil || p.Start != nil || p.End != nil
}

// apply returns t with the patch fields copied over.
func (p SlotPatch) apply(t TaskAssignment) TaskAssignment {
	if p.MechanicID != nil {
		id := *p.MechanicID
		t.MechanicID = &id
	}
	if p.Start != nil {
		start := p.Start.UTC()
		t.Start = &start
	}
	if p.End != nil {
		end := p.End.UTC()
		t.End = &end
	}
	return t
}
