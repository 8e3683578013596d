package domain_test

import (
	"testing"
	"time"

	"github.com/pipisou/garage/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendar_ResolvesInOneLocation(t *testing.T) {
	// UTC+3, like Antananarivo.
	cal := domain.NewCalendar(time.FixedZone("EAT", 3*60*60))

	// Sunday 22:30 UTC is Monday 01:30 local.
	instant := time.Date(2024, 6, 9, 22, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Monday, cal.DayOfWeek(instant))
	assert.Equal(t, domain.Date{Year: 2024, Month: time.June, Day: 10}, cal.DateOf(instant))
	assert.Equal(t, "01:30", cal.ClockOf(instant).String())
}

func TestCalendar_DefaultsToUTC(t *testing.T) {
	cal := domain.NewCalendar(nil)
	assert.Equal(t, time.UTC, cal.Location())

	cal, err := domain.LoadCalendar("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, cal.Location())
}

func TestCalendar_LoadCalendarRejectsUnknownZone(t *testing.T) {
	_, err := domain.LoadCalendar("Not/AZone")
	assert.Error(t, err)
}

func TestCalendar_At(t *testing.T) {
	cal := domain.NewCalendar(time.UTC)
	d := domain.Date{Year: 2024, Month: time.June, Day: 10}

	got := cal.At(d, domain.MustClockTime(9, 45))
	assert.Equal(t, time.Date(2024, 6, 10, 9, 45, 0, 0, time.UTC), got)

	day := cal.DayRange(d)
	assert.Equal(t, 24*time.Hour, day.Duration())
}

func TestParseDate(t *testing.T) {
	d, err := domain.ParseDate("2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-10", d.String())
	assert.True(t, domain.Date{Year: 2024, Month: time.June, Day: 9}.Before(d))
	assert.False(t, d.Before(d))

	_, err = domain.ParseDate("10/06/2024")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}
