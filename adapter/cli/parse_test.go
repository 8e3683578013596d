package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
)

func TestParseInstant(t *testing.T) {
	loc := time.FixedZone("EAT", 3*60*60)
	cal := sharedDomain.NewCalendar(loc)

	local, err := ParseInstant("2024-06-17 09:30", cal)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 17, 6, 30, 0, 0, time.UTC), local.UTC())

	zoned, err := ParseInstant("2024-06-17T09:30:00Z", cal)
	require.NoError(t, err)
	assert.Equal(t, 9, zoned.UTC().Hour())

	_, err = ParseInstant("tomorrow", cal)
	assert.Error(t, err)
}

func TestParseRange(t *testing.T) {
	cal := sharedDomain.NewCalendar(time.UTC)

	r, err := ParseRange("2024-06-17 08:00/2024-06-17 12:00", cal)
	require.NoError(t, err)
	assert.Equal(t, 240, r.DurationMinutes())

	_, err = ParseRange("2024-06-17 12:00/2024-06-17 08:00", cal)
	assert.Error(t, err)

	_, err = ParseRange("2024-06-17 08:00", cal)
	assert.Error(t, err)
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "12.50", FormatCents(1250))
	assert.Equal(t, "0.05", FormatCents(5))
	assert.Equal(t, "-3.00", FormatCents(-300))
}

func TestParseIDs(t *testing.T) {
	_, err := ParseIDs("task", []string{"not-a-uuid"})
	assert.ErrorContains(t, err, "invalid task id")
}
