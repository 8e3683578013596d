package domain_test

import (
	"testing"
	"time"

	"github.com/pipisou/garage/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 6, 10, hour, minute, 0, 0, time.UTC)
}

func TestNewTimeRange(t *testing.T) {
	t.Run("accepts increasing bounds", func(t *testing.T) {
		r, err := domain.NewTimeRange(at(9, 0), at(10, 0))
		require.NoError(t, err)
		assert.Equal(t, 60, r.DurationMinutes())
	})

	t.Run("rejects zero length", func(t *testing.T) {
		_, err := domain.NewTimeRange(at(9, 0), at(9, 0))
		assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)
	})

	t.Run("rejects inverted bounds", func(t *testing.T) {
		_, err := domain.NewTimeRange(at(10, 0), at(9, 0))
		assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)
	})
}

func TestTimeRange_Overlaps(t *testing.T) {
	base := domain.TimeRange{Start: at(9, 0), End: at(10, 0)}

	tests := []struct {
		name  string
		other domain.TimeRange
		want  bool
	}{
		{"identical", base, true},
		{"inside", domain.TimeRange{Start: at(9, 15), End: at(9, 45)}, true},
		{"covers", domain.TimeRange{Start: at(8, 0), End: at(11, 0)}, true},
		{"straddles start", domain.TimeRange{Start: at(8, 30), End: at(9, 1)}, true},
		{"straddles end", domain.TimeRange{Start: at(9, 59), End: at(10, 30)}, true},
		{"touches end", domain.TimeRange{Start: at(10, 0), End: at(11, 0)}, false},
		{"touches start", domain.TimeRange{Start: at(8, 0), End: at(9, 0)}, false},
		{"disjoint", domain.TimeRange{Start: at(14, 0), End: at(15, 0)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base), "overlap must be symmetric")
		})
	}
}

func TestTimeRange_DurationMinutesRoundsDown(t *testing.T) {
	r := domain.TimeRange{Start: at(9, 0), End: at(10, 9).Add(59 * time.Second)}
	assert.Equal(t, 69, r.DurationMinutes())
}

func TestTimeRange_Contains(t *testing.T) {
	r := domain.TimeRange{Start: at(9, 0), End: at(10, 0)}
	assert.True(t, r.Contains(at(9, 0)))
	assert.True(t, r.Contains(at(9, 59)))
	assert.False(t, r.Contains(at(10, 0)))
}
