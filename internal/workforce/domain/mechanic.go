package domain

import (
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"

	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
)

var (
	ErrMechanicNotFound = errors.New("mechanic not found")
	ErrInvalidMechanic  = errors.New("mechanic needs a first and last name")
)

// Mechanic is a workshop employee together with the active work schedule
// and recorded absences.
type Mechanic struct {
	sharedDomain.BaseAggregateRoot
	firstName string
	lastName  string
	email     string
	schedule  *WorkSchedule
	absences  []*Absence
}

func NewMechanic(firstName, lastName, email string) (*Mechanic, error) {
	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, ErrInvalidMechanic
	}
	m := &Mechanic{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		firstName:         firstName,
		lastName:          lastName,
		email:             strings.TrimSpace(email),
	}
	m.AddDomainEvent(NewMechanicRegistered(m))
	return m, nil
}

// RehydrateMechanic rebuilds a stored mechanic. schedule may be nil.
func RehydrateMechanic(base sharedDomain.BaseAggregateRoot, firstName, lastName, email string, schedule *WorkSchedule, absences []*Absence) *Mechanic {
	return &Mechanic{
		BaseAggregateRoot: base,
		firstName:         firstName,
		lastName:          lastName,
		email:             email,
		schedule:          schedule,
		absences:          absences,
	}
}

func (m *Mechanic) FirstName() string       { return m.firstName }
func (m *Mechanic) LastName() string        { return m.lastName }
func (m *Mechanic) Email() string           { return m.email }
func (m *Mechanic) FullName() string        { return m.firstName + " " + m.lastName }
func (m *Mechanic) Schedule() *WorkSchedule { return m.schedule }

// Absences returns the absences ordered by date and start time.
func (m *Mechanic) Absences() []*Absence {
	out := append([]*Absence(nil), m.absences...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].date != out[j].date {
			return out[i].date.Before(out[j].date)
		}
		return out[i].start.Before(out[j].start)
	})
	return out
}

// SetSchedule makes s the active schedule. Earlier schedules stay stored but
// are no longer consulted.
func (m *Mechanic) SetSchedule(s *WorkSchedule) {
	m.schedule = s
	m.Touch()
	m.AddDomainEvent(NewScheduleChanged(m.ID(), s))
}

func (m *Mechanic) RecordAbsence(a *Absence) {
	m.absences = append(m.absences, a)
	m.Touch()
	m.AddDomainEvent(NewAbsenceRecorded(m.ID(), a))
}

func (m *Mechanic) RemoveAbsence(id uuid.UUID) error {
	for i, a := range m.absences {
		if a.id == id {
			m.absences = append(m.absences[:i], m.absences[i+1:]...)
			m.Touch()
			return nil
		}
	}
	return ErrAbsenceNotFound
}
