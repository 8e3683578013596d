package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pipisou/garage/internal/appointments/domain"
)

// SlotDTO is one task slot. Unassigned fields are nil.
type SlotDTO struct {
	SlotID     uuid.UUID
	TaskID     uuid.UUID
	MechanicID *uuid.UUID
	Start      *time.Time
	End        *time.Time
	Status     string
}

type DateRangeDTO struct {
	Start time.Time
	End   time.Time
}

// AppointmentDTO is a read model of an appointment with its slots ordered by
// start time, unscheduled slots last.
type AppointmentDTO struct {
	ID               uuid.UUID
	ClientID         uuid.UUID
	QuoteID          uuid.UUID
	Status           string
	ChosenDate       *time.Time
	RequestedDates   []DateRangeDTO
	Slots            []SlotDTO
	ConsumedArticles []domain.ConsumedArticle
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type GetAppointmentQuery struct {
	AppointmentID uuid.UUID
}

type GetAppointmentHandler struct {
	appointmentRepo domain.Repository
}

func NewGetAppointmentHandler(appointmentRepo domain.Repository) *GetAppointmentHandler {
	return &GetAppointmentHandler{appointmentRepo: appointmentRepo}
}

func (h *GetAppointmentHandler) Handle(ctx context.Context, query GetAppointmentQuery) (*AppointmentDTO, error) {
	a, err := h.appointmentRepo.FindByID(ctx, query.AppointmentID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrAppointmentNotFound
	}
	dto := ToAppointmentDTO(a)
	return &dto, nil
}

// ListAppointmentsQuery filters by status and client; empty fields match all.
type ListAppointmentsQuery struct {
	Status   string
	ClientID uuid.UUID
}

type ListAppointmentsHandler struct {
	appointmentRepo domain.Repository
}

func NewListAppointmentsHandler(appointmentRepo domain.Repository) *ListAppointmentsHandler {
	return &ListAppointmentsHandler{appointmentRepo: appointmentRepo}
}

func (h *ListAppointmentsHandler) Handle(ctx context.Context, query ListAppointmentsQuery) ([]AppointmentDTO, error) {
	filter := domain.ListFilter{ClientID: query.ClientID}
	if query.Status != "" {
		status, err := domain.ParseStatus(query.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}

	appointments, err := h.appointmentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]AppointmentDTO, 0, len(appointments))
	for _, a := range appointments {
		dtos = append(dtos, ToAppointmentDTO(a))
	}
	return dtos, nil
}

func ToAppointmentDTO(a *domain.Appointment) AppointmentDTO {
	dto := AppointmentDTO{
		ID:               a.ID(),
		ClientID:         a.ClientID(),
		QuoteID:          a.QuoteID(),
		Status:           string(a.Status()),
		ChosenDate:       a.ChosenDate(),
		ConsumedArticles: a.ConsumedArticles(),
		CreatedAt:        a.CreatedAt(),
		UpdatedAt:        a.UpdatedAt(),
	}
	for _, r := range a.RequestedDates() {
		dto.RequestedDates = append(dto.RequestedDates, DateRangeDTO{Start: r.Start, End: r.End})
	}
	for _, t := range a.TasksByStart() {
		dto.Slots = append(dto.Slots, SlotDTO{
			SlotID:     t.SlotID,
			TaskID:     t.TaskID,
			MechanicID: t.MechanicID,
			Start:      t.Start,
			End:        t.End,
			Status:     string(t.Status),
		})
	}
	return dto
}
