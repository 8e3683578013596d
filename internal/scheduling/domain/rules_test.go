package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipisou/garage/internal/scheduling/domain"
	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
)

var utc = sharedDomain.NewCalendar(time.UTC)

// 2024-06-10 is a Monday.
func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.June, day, hour, minute, 0, 0, time.UTC)
}

func span(t *testing.T, start, end time.Time) sharedDomain.TimeRange {
	t.Helper()
	r, err := sharedDomain.NewTimeRange(start, end)
	require.NoError(t, err)
	return r
}

func clock(h, m int) sharedDomain.ClockTime { return sharedDomain.MustClockTime(h, m) }

func ptr(c sharedDomain.ClockTime) *sharedDomain.ClockTime { return &c }

func mondayOnly() *domain.Availability {
	return &domain.Availability{
		MechanicID: uuid.New(),
		Days: []domain.WorkingDay{
			{Day: time.Monday, Start: clock(8, 0), End: clock(17, 0)},
		},
	}
}

func assertReason(t *testing.T, err error, reason domain.Reason, sentinel error) {
	t.Helper()
	require.Error(t, err)
	rej, ok := domain.AsRejection(err)
	require.True(t, ok, "expected a rejection, got %v", err)
	assert.Equal(t, reason, rej.Reason)
	assert.True(t, errors.Is(err, sentinel))
}

func TestCandidate_Interval(t *testing.T) {
	for _, tc := range []struct {
		name       string
		start, end time.Time
	}{
		{"equal", at(10, 9, 0), at(10, 9, 0)},
		{"inverted", at(10, 10, 0), at(10, 9, 0)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := domain.Candidate{Start: tc.start, End: tc.end}.Interval()
			assertReason(t, err, domain.ReasonInvalidInterval, domain.ErrInvalidInterval)
		})
	}

	r, err := domain.Candidate{Start: at(10, 9, 0), End: at(10, 10, 0)}.Interval()
	require.NoError(t, err)
	assert.Equal(t, 60, r.DurationMinutes())
}

func TestCheckWorkingHours(t *testing.T) {
	a := mondayOnly()

	t.Run("starts before shift", func(t *testing.T) {
		err := domain.CheckWorkingHours(utc, a, span(t, at(10, 7, 0), at(10, 9, 0)))
		assertReason(t, err, domain.ReasonOutsideWorkingHours, domain.ErrOutsideWorkingHours)
	})

	t.Run("inside shift", func(t *testing.T) {
		assert.NoError(t, domain.CheckWorkingHours(utc, a, span(t, at(10, 9, 0), at(10, 10, 0))))
	})

	t.Run("whole shift", func(t *testing.T) {
		assert.NoError(t, domain.CheckWorkingHours(utc, a, span(t, at(10, 8, 0), at(10, 17, 0))))
	})

	t.Run("ends after shift at minute precision", func(t *testing.T) {
		err := domain.CheckWorkingHours(utc, a, span(t, at(10, 16, 0), at(10, 17, 1)))
		assertReason(t, err, domain.ReasonOutsideWorkingHours, domain.ErrOutsideWorkingHours)
	})

	t.Run("ends seconds after shift", func(t *testing.T) {
		end := at(10, 17, 0).Add(45 * time.Second)
		err := domain.CheckWorkingHours(utc, a, span(t, at(10, 16, 0), end))
		assertReason(t, err, domain.ReasonOutsideWorkingHours, domain.ErrOutsideWorkingHours)
		assert.Contains(t, err.Error(), "17:00:45")
	})

	t.Run("starts seconds before shift", func(t *testing.T) {
		start := at(10, 8, 0).Add(-30 * time.Second)
		err := domain.CheckWorkingHours(utc, a, span(t, start, at(10, 9, 0)))
		assertReason(t, err, domain.ReasonOutsideWorkingHours, domain.ErrOutsideWorkingHours)
	})

	t.Run("starts seconds into shift", func(t *testing.T) {
		start := at(10, 8, 0).Add(30 * time.Second)
		assert.NoError(t, domain.CheckWorkingHours(utc, a, span(t, start, at(10, 9, 0))))
	})

	t.Run("day off", func(t *testing.T) {
		err := domain.CheckWorkingHours(utc, a, span(t, at(11, 9, 0), at(11, 10, 0)))
		assertReason(t, err, domain.ReasonOutsideWorkingHours, domain.ErrOutsideWorkingHours)
	})

	t.Run("end day off when crossing midnight", func(t *testing.T) {
		err := domain.CheckWorkingHours(utc, a, span(t, at(10, 16, 0), at(11, 9, 0)))
		assertReason(t, err, domain.ReasonOutsideWorkingHours, domain.ErrOutsideWorkingHours)
	})

	t.Run("pause window", func(t *testing.T) {
		withPause := &domain.Availability{Days: []domain.WorkingDay{{
			Day: time.Monday, Start: clock(8, 0), End: clock(17, 0),
			PauseStart: ptr(clock(12, 0)), PauseEnd: ptr(clock(13, 0)),
		}}}
		err := domain.CheckWorkingHours(utc, withPause, span(t, at(10, 11, 30), at(10, 12, 30)))
		assertReason(t, err, domain.ReasonOutsideWorkingHours, domain.ErrOutsideWorkingHours)

		assert.NoError(t, domain.CheckWorkingHours(utc, withPause, span(t, at(10, 11, 0), at(10, 12, 0))))
		assert.NoError(t, domain.CheckWorkingHours(utc, withPause, span(t, at(10, 13, 0), at(10, 14, 0))))
	})

	t.Run("weekday resolved in calendar zone", func(t *testing.T) {
		// 2024-06-09 23:30 UTC is Monday 02:30 at UTC+3.
		plus3 := sharedDomain.NewCalendar(time.FixedZone("EAT", 3*3600))
		night := &domain.Availability{Days: []domain.WorkingDay{
			{Day: time.Monday, Start: clock(2, 0), End: clock(6, 0)},
		}}
		start := time.Date(2024, time.June, 9, 23, 30, 0, 0, time.UTC)
		r := span(t, start, start.Add(time.Hour))
		assert.NoError(t, domain.CheckWorkingHours(plus3, night, r))

		err := domain.CheckWorkingHours(utc, night, r)
		assertReason(t, err, domain.ReasonOutsideWorkingHours, domain.ErrOutsideWorkingHours)
	})
}

func TestCheckAbsence(t *testing.T) {
	a := mondayOnly()
	d, err := sharedDomain.ParseDate("2024-06-10")
	require.NoError(t, err)
	a.Absences = []domain.AbsenceWindow{{Date: d, Start: clock(14, 0), End: clock(16, 0)}}

	morning := span(t, at(10, 8, 0), at(10, 9, 30))

	t.Run("full day blocks any time on the date", func(t *testing.T) {
		err := domain.CheckAbsence(utc, domain.AbsenceMatchFullDay, a, morning)
		assertReason(t, err, domain.ReasonMechanicAbsent, domain.ErrMechanicAbsent)
	})

	t.Run("other date is free", func(t *testing.T) {
		assert.NoError(t, domain.CheckAbsence(utc, domain.AbsenceMatchFullDay, a, span(t, at(17, 8, 0), at(17, 9, 0))))
	})

	t.Run("window blocks only overlapping hours", func(t *testing.T) {
		assert.NoError(t, domain.CheckAbsence(utc, domain.AbsenceMatchWindow, a, morning))
		err := domain.CheckAbsence(utc, domain.AbsenceMatchWindow, a, span(t, at(10, 15, 0), at(10, 16, 30)))
		assertReason(t, err, domain.ReasonMechanicAbsent, domain.ErrMechanicAbsent)
	})
}

func TestCheckOverlap(t *testing.T) {
	existing := domain.Booking{SlotID: uuid.New(), Interval: span(t, at(10, 9, 0), at(10, 11, 0))}
	idx := domain.NewBookingIndex([]domain.Booking{existing})

	c := domain.Candidate{SlotID: uuid.New()}
	err := domain.CheckOverlap(idx, c, span(t, at(10, 10, 0), at(10, 12, 0)))
	assertReason(t, err, domain.ReasonSchedulingConflict, domain.ErrSchedulingConflict)

	assert.NoError(t, domain.CheckOverlap(idx, c, span(t, at(10, 11, 0), at(10, 12, 0))), "touching intervals do not overlap")

	c.SlotID = existing.SlotID
	assert.NoError(t, domain.CheckOverlap(idx, c, span(t, at(10, 10, 0), at(10, 12, 0))), "slot never conflicts with itself")
}

func TestCheckDuration(t *testing.T) {
	req := domain.TaskRequirement{EstimatedMinutes: 60, MarginMinutes: 10}

	assert.NoError(t, domain.CheckDuration(req, span(t, at(10, 9, 0), at(10, 10, 10))))

	err := domain.CheckDuration(req, span(t, at(10, 9, 0), at(10, 10, 9)))
	assertReason(t, err, domain.ReasonInsufficientDuration, domain.ErrInsufficientDuration)

	// 69 minutes and 59 seconds still rounds down to 69.
	err = domain.CheckDuration(req, span(t, at(10, 9, 0), at(10, 10, 9).Add(59*time.Second)))
	assertReason(t, err, domain.ReasonInsufficientDuration, domain.ErrInsufficientDuration)
}

func TestParsePolicies(t *testing.T) {
	p, err := domain.ParseBatchPolicy("")
	require.NoError(t, err)
	assert.Equal(t, domain.BatchPerSlot, p)

	p, err = domain.ParseBatchPolicy("all_or_nothing")
	require.NoError(t, err)
	assert.Equal(t, domain.BatchAllOrNothing, p)

	_, err = domain.ParseBatchPolicy("sometimes")
	assert.Error(t, err)

	m, err := domain.ParseAbsenceMatching("window")
	require.NoError(t, err)
	assert.Equal(t, domain.AbsenceMatchWindow, m)

	_, err = domain.ParseAbsenceMatching("hourly")
	assert.Error(t, err)
}

func TestNewAssignmentAttempt(t *testing.T) {
	c := domain.Candidate{AppointmentID: uuid.New(), SlotID: uuid.New(), Start: at(10, 9, 0), End: at(10, 10, 0)}

	ok := domain.NewAssignmentAttempt(c, nil)
	assert.True(t, ok.Accepted)
	assert.Empty(t, ok.Reason)

	rejected := domain.NewAssignmentAttempt(c, domain.Reject(domain.ReasonMechanicAbsent, "on leave"))
	assert.False(t, rejected.Accepted)
	assert.Equal(t, domain.ReasonMechanicAbsent, rejected.Reason)
	assert.Equal(t, "on leave", rejected.Message)
}
