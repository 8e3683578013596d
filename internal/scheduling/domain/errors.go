package domain

import (
	"errors"
	"fmt"
)

// Rejection reasons. Each maps to one sentinel so callers can use errors.Is.
var (
	ErrInvalidInterval      = errors.New("end must be after start")
	ErrOutsideWorkingHours  = errors.New("outside working hours")
	ErrMechanicAbsent       = errors.New("mechanic is absent")
	ErrSchedulingConflict   = errors.New("scheduling conflict")
	ErrInsufficientDuration = errors.New("insufficient duration")
	ErrNotFound             = errors.New("not found")

	// ErrLookupUnavailable is returned when a collaborator lookup is short
	// circuited by the breaker. It is an internal error, not a rejection.
	ErrLookupUnavailable = errors.New("availability lookup unavailable")
)

// Reason is the machine readable category of a rejection.
type Reason string

const (
	ReasonInvalidInterval      Reason = "invalid_interval"
	ReasonOutsideWorkingHours  Reason = "outside_working_hours"
	ReasonMechanicAbsent       Reason = "mechanic_absent"
	ReasonSchedulingConflict   Reason = "scheduling_conflict"
	ReasonInsufficientDuration Reason = "insufficient_duration"
	ReasonNotFound             Reason = "not_found"
)

var reasonSentinels = map[Reason]error{
	ReasonInvalidInterval:      ErrInvalidInterval,
	ReasonOutsideWorkingHours:  ErrOutsideWorkingHours,
	ReasonMechanicAbsent:       ErrMechanicAbsent,
	ReasonSchedulingConflict:   ErrSchedulingConflict,
	ReasonInsufficientDuration: ErrInsufficientDuration,
	ReasonNotFound:             ErrNotFound,
}

// Rejection is a validation outcome: the candidate was well formed but may
// not be committed.
type Rejection struct {
	Reason  Reason
	Message string
}

// Reject builds a rejection with a formatted, user facing message.
func Reject(reason Reason, format string, args ...any) *Rejection {
	return &Rejection{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Reason, r.Message)
}

func (r *Rejection) Unwrap() error {
	return reasonSentinels[r.Reason]
}

// AsRejection extracts a rejection from err.
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
