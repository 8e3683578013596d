package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
)

// Appointment is a client's visit opened from a quote. It owns its task
// slots and consumed articles.
type Appointment struct {
	sharedDomain.BaseAggregateRoot
	clientID       uuid.UUID
	quoteID        uuid.UUID
	status         Status
	requestedDates []sharedDomain.TimeRange
	chosenDate     *time.Time
	tasks          []TaskAssignment
	articles       []ConsumedArticle
}

// NewAppointment opens a pending appointment with one unassigned slot per
// task id, in order.
func NewAppointment(clientID, quoteID uuid.UUID, taskIDs []uuid.UUID, requested []sharedDomain.TimeRange) (*Appointment, error) {
	if clientID == uuid.Nil || quoteID == uuid.Nil {
		return nil, fmt.Errorf("%w: client and quote are required", ErrInvalidAppointment)
	}
	if len(taskIDs) == 0 {
		return nil, fmt.Errorf("%w: no tasks", ErrInvalidAppointment)
	}
	if err := checkRanges(requested); err != nil {
		return nil, err
	}

	a := &Appointment{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		clientID:          clientID,
		quoteID:           quoteID,
		status:            StatusPending,
		requestedDates:    append([]sharedDomain.TimeRange(nil), requested...),
	}
	for _, id := range taskIDs {
		a.tasks = append(a.tasks, TaskAssignment{SlotID: uuid.New(), TaskID: id, Status: TaskPending})
	}
	a.AddDomainEvent(NewAppointmentCreated(a))
	return a, nil
}

// RehydrateAppointment rebuilds a stored appointment.
func RehydrateAppointment(
	base sharedDomain.BaseAggregateRoot,
	clientID, quoteID uuid.UUID,
	status Status,
	requested []sharedDomain.TimeRange,
	chosenDate *time.Time,
	tasks []TaskAssignment,
	articles []ConsumedArticle,
) *Appointment {
	return &Appointment{
		BaseAggregateRoot: base,
		clientID:          clientID,
		quoteID:           quoteID,
		status:            status,
		requestedDates:    requested,
		chosenDate:        chosenDate,
		tasks:             tasks,
		articles:          articles,
	}
}

func (a *Appointment) ClientID() uuid.UUID    { return a.clientID }
func (a *Appointment) QuoteID() uuid.UUID     { return a.quoteID }
func (a *Appointment) Status() Status         { return a.status }
func (a *Appointment) ChosenDate() *time.Time { return a.chosenDate }

func (a *Appointment) RequestedDates() []sharedDomain.TimeRange {
	return append([]sharedDomain.TimeRange(nil), a.requestedDates...)
}

// Tasks returns the slots in creation order.
func (a *Appointment) Tasks() []TaskAssignment {
	return append([]TaskAssignment(nil), a.tasks...)
}

// TasksByStart returns the slots ordered by start time. Unscheduled slots
// come last, in creation order.
func (a *Appointment) TasksByStart() []TaskAssignment {
	out := a.Tasks()
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := out[i].Start, out[j].Start
		switch {
		case si == nil:
			return false
		case sj == nil:
			return true
		default:
			return si.Before(*sj)
		}
	})
	return out
}

func (a *Appointment) ConsumedArticles() []ConsumedArticle {
	return append([]ConsumedArticle(nil), a.articles...)
}

// Slot returns the slot with id.
func (a *Appointment) Slot(id uuid.UUID) (TaskAssignment, bool) {
	if i := a.slotIndex(id); i >= 0 {
		return a.tasks[i], true
	}
	return TaskAssignment{}, false
}

func (a *Appointment) slotIndex(id uuid.UUID) int {
	for i, t := range a.tasks {
		if t.SlotID == id {
			return i
		}
	}
	return -1
}

// PreviewSlot returns the slot as it would be after patch, without changing
// the appointment.
func (a *Appointment) PreviewSlot(patch SlotPatch) (TaskAssignment, error) {
	i := a.slotIndex(patch.SlotID)
	if i < 0 {
		return TaskAssignment{}, fmt.Errorf("%w: %s", ErrSlotNotFound, patch.SlotID)
	}
	return patch.apply(a.tasks[i]), nil
}

// ApplySlot writes patch into its slot. Callers validate the result first.
func (a *Appointment) ApplySlot(patch SlotPatch) error {
	i := a.slotIndex(patch.SlotID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSlotNotFound, patch.SlotID)
	}
	a.tasks[i] = patch.apply(a.tasks[i])
	a.Touch()
	if a.tasks[i].IsScheduled() && patch.TouchesSchedule() {
		a.AddDomainEvent(NewTaskAssigned(a.ID(), a.tasks[i]))
	}
	return nil
}

// ScheduledSlots returns every slot with mechanic and times set, except the
// slot with id except.
func (a *Appointment) ScheduledSlots(except uuid.UUID) []TaskAssignment {
	var out []TaskAssignment
	for _, t := range a.tasks {
		if t.SlotID != except && t.IsScheduled() {
			out = append(out, t)
		}
	}
	return out
}

// SetTaskStatus records progress on one slot.
func (a *Appointment) SetTaskStatus(slotID uuid.UUID, status TaskStatus) error {
	i := a.slotIndex(slotID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSlotNotFound, slotID)
	}
	a.tasks[i].Status = status
	a.Touch()
	return nil
}

// ReplaceArticles swaps the whole consumed-article list.
func (a *Appointment) ReplaceArticles(articles []ConsumedArticle) {
	a.articles = append([]ConsumedArticle(nil), articles...)
	a.Touch()
	a.AddDomainEvent(NewArticlesReplaced(a.ID(), a.articles))
}

// Validate fixes the visit date chosen by the manager.
func (a *Appointment) Validate(chosen time.Time) {
	chosen = chosen.UTC()
	a.chosenDate = &chosen
	from := a.status
	a.status = StatusValidated
	a.Touch()
	a.AddDomainEvent(NewAppointmentValidated(a.ID(), chosen, from))
}

// RequestNewDates replaces the client's requested ranges and sends the
// appointment back to pending with no chosen date.
func (a *Appointment) RequestNewDates(ranges []sharedDomain.TimeRange) error {
	if len(ranges) == 0 {
		return fmt.Errorf("%w: no date range", ErrInvalidAppointment)
	}
	if err := checkRanges(ranges); err != nil {
		return err
	}
	a.requestedDates = append([]sharedDomain.TimeRange(nil), ranges...)
	a.chosenDate = nil
	from := a.status
	a.status = StatusPending
	a.Touch()
	a.AddDomainEvent(NewDatesRequested(a.ID(), a.requestedDates, from))
	return nil
}

// SetStatus moves to any status. There is no transition table.
func (a *Appointment) SetStatus(status Status) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if status == a.status {
		return nil
	}
	from := a.status
	a.status = status
	a.Touch()
	a.AddDomainEvent(NewStatusChanged(a.ID(), from, status))
	return nil
}

// MarkSaved records a successful write.
func (a *Appointment) MarkSaved() {
	a.IncrementVersion()
}

func checkRanges(ranges []sharedDomain.TimeRange) error {
	for _, r := range ranges {
		if !r.End.After(r.Start) {
			return fmt.Errorf("%w: requested range %s - %s", ErrInvalidAppointment,
				r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
		}
	}
	return nil
}
