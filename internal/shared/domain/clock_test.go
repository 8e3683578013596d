package domain_test

import (
	"testing"
	"time"

	"github.com/pipisou/garage/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	valid := map[string]int{
		"08:00": 8 * 60,
		"8:30":  8*60 + 30,
		"17:45": 17*60 + 45,
		"00:00": 0,
		"24:00": 24 * 60,
	}
	for input, minutes := range valid {
		c, err := domain.ParseClockTime(input)
		require.NoError(t, err, input)
		assert.Equal(t, minutes, c.Minutes(), input)
	}

	for _, input := range []string{"", "8", "8:0", "25:00", "12:60", "ab:cd", "24:01", "-1:00"} {
		_, err := domain.ParseClockTime(input)
		assert.ErrorIs(t, err, domain.ErrInvalidClockTime, input)
	}
}

func TestClockTime_StringAndOrdering(t *testing.T) {
	morning := domain.MustClockTime(8, 5)
	evening := domain.MustClockTime(17, 0)

	assert.Equal(t, "08:05", morning.String())
	assert.True(t, morning.Before(evening))
	assert.True(t, evening.After(morning))
	assert.False(t, morning.After(morning))
}

func TestClockTime_On(t *testing.T) {
	day := time.Date(2024, 6, 10, 15, 30, 0, 0, time.UTC)
	got := domain.MustClockTime(8, 15).On(day)
	assert.Equal(t, time.Date(2024, 6, 10, 8, 15, 0, 0, time.UTC), got)
}

func TestClockTime_TextRoundTrip(t *testing.T) {
	var c domain.ClockTime
	require.NoError(t, c.UnmarshalText([]byte("12:30")))
	text, err := c.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "12:30", string(text))
}
