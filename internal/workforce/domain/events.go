package domain

import (
	"github.com/google/uuid"

	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
)

const (
	AggregateType = "Mechanic"

	RoutingKeyMechanicRegistered = "workforce.mechanic.registered"
	RoutingKeyScheduleChanged    = "workforce.schedule.changed"
	RoutingKeyAbsenceRecorded    = "workforce.absence.recorded"
)

type MechanicRegistered struct {
	sharedDomain.BaseEvent
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func NewMechanicRegistered(m *Mechanic) *MechanicRegistered {
	return &MechanicRegistered{
		BaseEvent: sharedDomain.NewBaseEvent(m.ID(), AggregateType, RoutingKeyMechanicRegistered),
		FirstName: m.firstName,
		LastName:  m.lastName,
	}
}

type ScheduleChanged struct {
	sharedDomain.BaseEvent
	ScheduleID    uuid.UUID         `json:"schedule_id"`
	EffectiveFrom sharedDomain.Date `json:"effective_from"`
	Days          int               `json:"days"`
}

func NewScheduleChanged(mechanicID uuid.UUID, s *WorkSchedule) *ScheduleChanged {
	return &ScheduleChanged{
		BaseEvent:     sharedDomain.NewBaseEvent(mechanicID, AggregateType, RoutingKeyScheduleChanged),
		ScheduleID:    s.id,
		EffectiveFrom: s.effectiveFrom,
		Days:          len(s.days),
	}
}

type AbsenceRecorded struct {
	sharedDomain.BaseEvent
	AbsenceID uuid.UUID              `json:"absence_id"`
	Date      sharedDomain.Date      `json:"date"`
	Start     sharedDomain.ClockTime `json:"start"`
	End       sharedDomain.ClockTime `json:"end"`
}

func NewAbsenceRecorded(mechanicID uuid.UUID, a *Absence) *AbsenceRecorded {
	return &AbsenceRecorded{
		BaseEvent: sharedDomain.NewBaseEvent(mechanicID, AggregateType, RoutingKeyAbsenceRecorded),
		AbsenceID: a.id,
		Date:      a.date,
		Start:     a.start,
		End:       a.end,
	}
}
