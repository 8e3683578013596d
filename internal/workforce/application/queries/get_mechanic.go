package queries

import (
	"context"

	"github.com/google/uuid"

	"github.com/pipisou/garage/internal/workforce/domain"
)

// WorkDayDTO is one weekday of a schedule.
type WorkDayDTO struct {
	Day        string
	Start      string
	End        string
	PauseStart string
	PauseEnd   string
}

type ScheduleDTO struct {
	ID            uuid.UUID
	EffectiveFrom string
	Days          []WorkDayDTO
}

type AbsenceDTO struct {
	ID     uuid.UUID
	Date   string
	Start  string
	End    string
	Reason string
}

// MechanicDTO is a read model of a mechanic. Schedule is nil until one is set.
type MechanicDTO struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Email     string
	Schedule  *ScheduleDTO
	Absences  []AbsenceDTO
}

type GetMechanicQuery struct {
	MechanicID uuid.UUID
}

type GetMechanicHandler struct {
	mechanicRepo domain.MechanicRepository
}

func NewGetMechanicHandler(mechanicRepo domain.MechanicRepository) *GetMechanicHandler {
	return &GetMechanicHandler{mechanicRepo: mechanicRepo}
}

func (h *GetMechanicHandler) Handle(ctx context.Context, query GetMechanicQuery) (*MechanicDTO, error) {
	mechanic, err := h.mechanicRepo.FindByID(ctx, query.MechanicID)
	if err != nil {
		return nil, err
	}
	if mechanic == nil {
		return nil, domain.ErrMechanicNotFound
	}
	dto := toMechanicDTO(mechanic)
	return &dto, nil
}

type ListMechanicsHandler struct {
	mechanicRepo domain.MechanicRepository
}

func NewListMechanicsHandler(mechanicRepo domain.MechanicRepository) *ListMechanicsHandler {
	return &ListMechanicsHandler{mechanicRepo: mechanicRepo}
}

func (h *ListMechanicsHandler) Handle(ctx context.Context) ([]MechanicDTO, error) {
	mechanics, err := h.mechanicRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]MechanicDTO, 0, len(mechanics))
	for _, m := range mechanics {
		dtos = append(dtos, toMechanicDTO(m))
	}
	return dtos, nil
}

func toMechanicDTO(m *domain.Mechanic) MechanicDTO {
	dto := MechanicDTO{
		ID:        m.ID(),
		FirstName: m.FirstName(),
		LastName:  m.LastName(),
		Email:     m.Email(),
	}
	if s := m.Schedule(); s != nil {
		sched := &ScheduleDTO{ID: s.ID(), EffectiveFrom: s.EffectiveFrom().String()}
		for _, d := range s.Days() {
			day := WorkDayDTO{Day: d.Day.String(), Start: d.Start.String(), End: d.End.String()}
			if d.HasPause() {
				day.PauseStart, day.PauseEnd = d.PauseStart.String(), d.PauseEnd.String()
			}
			sched.Days = append(sched.Days, day)
		}
		dto.Schedule = sched
	}
	for _, a := range m.Absences() {
		dto.Absences = append(dto.Absences, AbsenceDTO{
			ID:     a.ID(),
			Date:   a.Date().String(),
			Start:  a.Start().String(),
			End:    a.End().String(),
			Reason: a.Reason(),
		})
	}
	return dto
}
