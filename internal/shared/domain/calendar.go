package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate is returned for values that are not "YYYY-MM-DD".
var ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

const dateLayout = "2006-01-02"

// Date is a calendar day without a time of day or location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) IsZero() bool { return d == Date{} }

// Before reports whether d is an earlier day than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// MarshalText encodes the date as "YYYY-MM-DD".
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes "YYYY-MM-DD".
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Calendar resolves absolute instants to weekdays, dates and clock times in a
// single location. Every scheduling rule goes through one Calendar so the
// weekday and the time of day of an instant never disagree.
type Calendar struct {
	loc *time.Location
}

// NewCalendar returns a calendar for loc; nil means UTC.
func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{loc: loc}
}

// LoadCalendar returns a calendar for an IANA zone name such as "Indian/Antananarivo".
func LoadCalendar(name string) (Calendar, error) {
	if name == "" {
		return NewCalendar(time.UTC), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Calendar{}, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return NewCalendar(loc), nil
}

// Location returns the calendar's location.
func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// In converts t to the calendar's location.
func (c Calendar) In(t time.Time) time.Time { return t.In(c.Location()) }

// DayOfWeek returns the weekday of t in the calendar's location.
func (c Calendar) DayOfWeek(t time.Time) time.Weekday { return c.In(t).Weekday() }

// DateOf returns the calendar day of t in the calendar's location.
func (c Calendar) DateOf(t time.Time) Date { return DateOf(c.In(t)) }

// ClockOf returns the time of day of t in the calendar's location.
func (c Calendar) ClockOf(t time.Time) ClockTime { return ClockOf(c.In(t)) }

// At returns the instant for a day and clock time in the calendar's location.
func (c Calendar) At(d Date, clock ClockTime) time.Time {
	midnight := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, c.Location())
	return clock.On(midnight)
}

// DayRange returns [midnight, next midnight) of d.
func (c Calendar) DayRange(d Date) TimeRange {
	start := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, c.Location())
	return TimeRange{Start: start, End: start.AddDate(0, 0, 1)}
}
