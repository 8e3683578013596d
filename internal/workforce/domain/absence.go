package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
)

var (
	ErrInvalidAbsence  = errors.New("invalid absence")
	ErrAbsenceNotFound = errors.New("absence not found")
)

// Absence is a dated leave. Start and End bound the hours of that day; a
// full-day absence runs 00:00-24:00.
type Absence struct {
	id        uuid.UUID
	date      sharedDomain.Date
	start     sharedDomain.ClockTime
	end       sharedDomain.ClockTime
	reason    string
	createdAt time.Time
}

func NewAbsence(date sharedDomain.Date, start, end sharedDomain.ClockTime, reason string) (*Absence, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidAbsence)
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: %s-%s", ErrInvalidAbsence, start, end)
	}
	return &Absence{
		id:        uuid.New(),
		date:      date,
		start:     start,
		end:       end,
		reason:    reason,
		createdAt: time.Now().UTC(),
	}, nil
}

// NewFullDayAbsence covers the whole date.
func NewFullDayAbsence(date sharedDomain.Date, reason string) (*Absence, error) {
	return NewAbsence(date, sharedDomain.MustClockTime(0, 0), sharedDomain.MustClockTime(24, 0), reason)
}

func RehydrateAbsence(id uuid.UUID, date sharedDomain.Date, start, end sharedDomain.ClockTime, reason string, createdAt time.Time) *Absence {
	return &Absence{id: id, date: date, start: start, end: end, reason: reason, createdAt: createdAt}
}

func (a *Absence) ID() uuid.UUID                 { return a.id }
func (a *Absence) Date() sharedDomain.Date       { return a.date }
func (a *Absence) Start() sharedDomain.ClockTime { return a.start }
func (a *Absence) End() sharedDomain.ClockTime   { return a.end }
func (a *Absence) Reason() string                { return a.reason }
func (a *Absence) CreatedAt() time.Time          { return a.createdAt }
