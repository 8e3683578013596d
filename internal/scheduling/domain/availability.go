package domain

import (
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
)

// WorkingDay is one weekday of a mechanic's active schedule.
type WorkingDay struct {
	Day        time.Weekday
	Start      sharedDomain.ClockTime
	End        sharedDomain.ClockTime
	PauseStart *sharedDomain.ClockTime
	PauseEnd   *sharedDomain.ClockTime
}

// Pause returns the pause window of the day, if it has one.
func (d WorkingDay) Pause() (start, end sharedDomain.ClockTime, ok bool) {
	if d.PauseStart == nil || d.PauseEnd == nil {
		return sharedDomain.ClockTime{}, sharedDomain.ClockTime{}, false
	}
	return *d.PauseStart, *d.PauseEnd, true
}

// AbsenceWindow is a dated absence with its recorded time of day.
type AbsenceWindow struct {
	Date  sharedDomain.Date
	Start sharedDomain.ClockTime
	End   sharedDomain.ClockTime
}

// Availability is the read model of one mechanic used for validation.
type Availability struct {
	MechanicID uuid.UUID
	Days       []WorkingDay
	Absences   []AbsenceWindow
}

// Day returns the working day entry for weekday.
func (a *Availability) Day(weekday time.Weekday) (WorkingDay, bool) {
	for _, d := range a.Days {
		if d.Day == weekday {
			return d, true
		}
	}
	return WorkingDay{}, false
}

// TaskRequirement is the catalog data the duration rule needs.
type TaskRequirement struct {
	TaskID           uuid.UUID
	EstimatedMinutes int
	MarginMinutes    int
}

// RequiredMinutes is the minimum booking length.
func (r TaskRequirement) RequiredMinutes() int {
	return r.EstimatedMinutes + r.MarginMinutes
}
