package domain

import (
	"errors"
	"time"
)

// ErrInvalidTimeRange is returned when a range does not end after it starts.
var ErrInvalidTimeRange = errors.New("end time must be after start time")

// TimeRange is a half-open interval [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange builds a range, rejecting empty and inverted intervals.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if !end.After(start) {
		return TimeRange{}, ErrInvalidTimeRange
	}
	return TimeRange{Start: start, End: end}, nil
}

// Overlaps reports whether two half-open ranges share any instant.
// Ranges that only touch at an endpoint do not overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Contains reports whether t lies inside the range.
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Duration returns End - Start.
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// DurationMinutes returns the length in whole minutes, rounded down.
func (r TimeRange) DurationMinutes() int {
	return int(r.Duration() / time.Minute)
}
