package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
)

var (
	ErrInvalidWorkDay   = errors.New("invalid work day")
	ErrDuplicateWorkDay = errors.New("work day listed twice")
	ErrEmptySchedule    = errors.New("work schedule has no days")
)

// WorkDay is the shift of one weekday, with an optional pause.
type WorkDay struct {
	Day        time.Weekday
	Start      sharedDomain.ClockTime
	End        sharedDomain.ClockTime
	PauseStart *sharedDomain.ClockTime
	PauseEnd   *sharedDomain.ClockTime
}

// NewWorkDay validates a shift. A pause needs both bounds and must lie
// strictly inside the shift.
func NewWorkDay(day time.Weekday, start, end sharedDomain.ClockTime, pauseStart, pauseEnd *sharedDomain.ClockTime) (WorkDay, error) {
	if !start.Before(end) {
		return WorkDay{}, fmt.Errorf("%w: %s shift %s-%s", ErrInvalidWorkDay, day, start, end)
	}
	if (pauseStart == nil) != (pauseEnd == nil) {
		return WorkDay{}, fmt.Errorf("%w: %s pause needs a start and an end", ErrInvalidWorkDay, day)
	}
	if pauseStart != nil {
		if !pauseStart.Before(*pauseEnd) || pauseStart.Before(start) || pauseEnd.After(end) {
			return WorkDay{}, fmt.Errorf("%w: %s pause %s-%s outside shift %s-%s",
				ErrInvalidWorkDay, day, pauseStart, pauseEnd, start, end)
		}
	}
	return WorkDay{Day: day, Start: start, End: end, PauseStart: pauseStart, PauseEnd: pauseEnd}, nil
}

func (d WorkDay) HasPause() bool { return d.PauseStart != nil && d.PauseEnd != nil }

// WorkSchedule is a weekly timetable valid from a date. Days are kept in
// week order starting on Monday.
type WorkSchedule struct {
	id            uuid.UUID
	effectiveFrom sharedDomain.Date
	days          []WorkDay
	createdAt     time.Time
}

func NewWorkSchedule(effectiveFrom sharedDomain.Date, days []WorkDay) (*WorkSchedule, error) {
	if len(days) == 0 {
		return nil, ErrEmptySchedule
	}
	seen := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		if seen[d.Day] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateWorkDay, d.Day)
		}
		seen[d.Day] = true
	}
	return &WorkSchedule{
		id:            uuid.New(),
		effectiveFrom: effectiveFrom,
		days:          sortDays(days),
		createdAt:     time.Now().UTC(),
	}, nil
}

// RehydrateWorkSchedule rebuilds a stored schedule without validation.
func RehydrateWorkSchedule(id uuid.UUID, effectiveFrom sharedDomain.Date, days []WorkDay, createdAt time.Time) *WorkSchedule {
	return &WorkSchedule{id: id, effectiveFrom: effectiveFrom, days: sortDays(days), createdAt: createdAt}
}

func (s *WorkSchedule) ID() uuid.UUID                    { return s.id }
func (s *WorkSchedule) EffectiveFrom() sharedDomain.Date { return s.effectiveFrom }
func (s *WorkSchedule) CreatedAt() time.Time             { return s.createdAt }

func (s *WorkSchedule) Days() []WorkDay {
	return append([]WorkDay(nil), s.days...)
}

// Day returns the shift for weekday.
func (s *WorkSchedule) Day(weekday time.Weekday) (WorkDay, bool) {
	for _, d := range s.days {
		if d.Day == weekday {
			return d, true
		}
	}
	return WorkDay{}, false
}

func sortDays(days []WorkDay) []WorkDay {
	out := append([]WorkDay(nil), days...)
	sort.Slice(out, func(i, j int) bool { return weekIndex(out[i].Day) < weekIndex(out[j].Day) })
	return out
}

// weekIndex puts Monday first and Sunday last.
func weekIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// ParseWeekday accepts English day names in any case, full or three letter.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if d, ok := weekdayNames[s]; ok {
		return d, nil
	}
	for name, d := range weekdayNames {
		if len(s) == 3 && strings.HasPrefix(name, s) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown weekday %q", ErrInvalidWorkDay, s)
}
