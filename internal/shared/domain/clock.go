package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidClockTime is returned for values that are not "HH:MM".
var ErrInvalidClockTime = errors.New("clock time must be HH:MM")

const minutesPerDay = 24 * 60

// ClockTime is a time of day with minute precision.
// "24:00" is accepted as the end of the day.
type ClockTime struct {
	minutes int
}

// NewClockTime builds a clock time from hours and minutes.
func NewClockTime(hour, minute int) (ClockTime, error) {
	total := hour*60 + minute
	if hour < 0 || minute < 0 || minute > 59 || total > minutesPerDay {
		return ClockTime{}, fmt.Errorf("%w: %02d:%02d", ErrInvalidClockTime, hour, minute)
	}
	return ClockTime{minutes: total}, nil
}

// MustClockTime is NewClockTime for constants known to be valid.
func MustClockTime(hour, minute int) ClockTime {
	c, err := NewClockTime(hour, minute)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseClockTime parses "HH:MM" (also "H:MM").
func ParseClockTime(s string) (ClockTime, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(h) < 1 || len(h) > 2 || len(m) != 2 {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	hour, errH := strconv.Atoi(h)
	minute, errM := strconv.Atoi(m)
	if errH != nil || errM != nil {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	return NewClockTime(hour, minute)
}

// ClockOf returns the time of day of t in t's own location.
func ClockOf(t time.Time) ClockTime {
	return ClockTime{minutes: t.Hour()*60 + t.Minute()}
}

// Minutes returns minutes since midnight.
func (c ClockTime) Minutes() int { return c.minutes }

func (c ClockTime) Hour() int   { return c.minutes / 60 }
func (c ClockTime) Minute() int { return c.minutes % 60 }

func (c ClockTime) Before(other ClockTime) bool { return c.minutes < other.minutes }
func (c ClockTime) After(other ClockTime) bool  { return c.minutes > other.minutes }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// On places the clock time on the calendar day of day, in day's location.
func (c ClockTime) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, day.Location()).Add(time.Duration(c.minutes) * time.Minute)
}

// MarshalText encodes the clock time as "HH:MM".
func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes "HH:MM".
func (c *ClockTime) UnmarshalText(text []byte) error {
	parsed, err := ParseClockTime(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
