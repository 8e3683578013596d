package domain

import (
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
)

const (
	AggregateType = "Appointment"

	RoutingKeyAppointmentCreated   = "appointments.created"
	RoutingKeyTaskAssigned         = "appointments.task.assigned"
	RoutingKeyArticlesReplaced     = "appointments.articles.replaced"
	RoutingKeyStatusChanged        = "appointments.status.changed"
	RoutingKeyAppointmentValidated = "appointments.validated"
	RoutingKeyDatesRequested       = "appointments.dates.requested"
)

type AppointmentCreated struct {
	sharedDomain.BaseEvent
	ClientID uuid.UUID `json:"client_id"`
	QuoteID  uuid.UUID `json:"quote_id"`
	Slots    int       `json:"slots"`
}

func NewAppointmentCreated(a *Appointment) *AppointmentCreated {
	return &AppointmentCreated{
		BaseEvent: sharedDomain.NewBaseEvent(a.ID(), AggregateType, RoutingKeyAppointmentCreated),
		ClientID:  a.clientID,
		QuoteID:   a.quoteID,
		Slots:     len(a.tasks),
	}
}

// TaskAssigned is raised when a slot gets a mechanic and a time window.
type TaskAssigned struct {
	sharedDomain.BaseEvent
	SlotID     uuid.UUID `json:"slot_id"`
	TaskID     uuid.UUID `json:"task_id"`
	MechanicID uuid.UUID `json:"mechanic_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
}

func NewTaskAssigned(appointmentID uuid.UUID, t TaskAssignment) *TaskAssigned {
	return &TaskAssigned{
		BaseEvent:  sharedDomain.NewBaseEvent(appointmentID, AggregateType, RoutingKeyTaskAssigned),
		SlotID:     t.SlotID,
		TaskID:     t.TaskID,
		MechanicID: *t.MechanicID,
		Start:      *t.Start,
		End:        *t.End,
	}
}

type ArticlesReplaced struct {
	sharedDomain.BaseEvent
	Lines          int   `json:"lines"`
	SaleTotalCents int64 `json:"sale_total_cents"`
}

func NewArticlesReplaced(appointmentID uuid.UUID, articles []ConsumedArticle) *ArticlesReplaced {
	var total int64
	for _, a := range articles {
		total += a.SaleTotalCents()
	}
	return &ArticlesReplaced{
		BaseEvent:      sharedDomain.NewBaseEvent(appointmentID, AggregateType, RoutingKeyArticlesReplaced),
		Lines:          len(articles),
		SaleTotalCents: total,
	}
}

type StatusChanged struct {
	sharedDomain.BaseEvent
	From Status `json:"from"`
	To   Status `json:"to"`
}

func NewStatusChanged(appointmentID uuid.UUID, from, to Status) *StatusChanged {
	return &StatusChanged{
		BaseEvent: sharedDomain.NewBaseEvent(appointmentID, AggregateType, RoutingKeyStatusChanged),
		From:      from,
		To:        to,
	}
}

type AppointmentValidated struct {
	sharedDomain.BaseEvent
	ChosenDate time.Time `json:"chosen_date"`
	From       Status    `json:"from"`
}

func NewAppointmentValidated(appointmentID uuid.UUID, chosen time.Time, from Status) *AppointmentValidated {
	return &AppointmentValidated{
		BaseEvent:  sharedDomain.NewBaseEvent(appointmentID, AggregateType, RoutingKeyAppointmentValidated),
		ChosenDate: chosen,
		From:       from,
	}
}

type requestedRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type DatesRequested struct {
	sharedDomain.BaseEvent
	Ranges []requestedRange `json:"ranges"`
	From   Status           `json:"from"`
}

func NewDatesRequested(appointmentID uuid.UUID, ranges []sharedDomain.TimeRange, from Status) *DatesRequested {
	e := &DatesRequested{
		BaseEvent: sharedDomain.NewBaseEvent(appointmentID, AggregateType, RoutingKeyDatesRequested),
		From:      from,
	}
	for _, r := range ranges {
		e.Ranges = append(e.Ranges, requestedRange{Start: r.Start, End: r.End})
	}
	return e
}
