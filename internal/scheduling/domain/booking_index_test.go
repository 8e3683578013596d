package domain_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipisou/garage/internal/scheduling/domain"
	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
)

func booking(t *testing.T, start, end time.Time) domain.Booking {
	return domain.Booking{SlotID: uuid.New(), Interval: span(t, start, end)}
}

func TestBookingIndex_LongBookingIsFoundBehindShortOnes(t *testing.T) {
	long := booking(t, at(10, 8, 0), at(10, 17, 0))
	idx := domain.NewBookingIndex([]domain.Booking{
		booking(t, at(10, 9, 0), at(10, 9, 30)),
		long,
		booking(t, at(10, 10, 0), at(10, 10, 30)),
	})

	got := idx.Overlapping(span(t, at(10, 15, 0), at(10, 16, 0)))
	require.Len(t, got, 1)
	assert.Equal(t, long.SlotID, got[0].SlotID)
}

func TestBookingIndex_Add(t *testing.T) {
	idx := domain.NewBookingIndex(nil)
	assert.Zero(t, idx.Len())

	first := booking(t, at(10, 13, 0), at(10, 14, 0))
	idx.Add(first)
	idx.Add(booking(t, at(10, 9, 0), at(10, 10, 0)))

	conflict, ok := idx.FirstConflict(span(t, at(10, 13, 30), at(10, 15, 0)), uuid.Nil)
	require.True(t, ok)
	assert.Equal(t, first.SlotID, conflict.SlotID)

	_, ok = idx.FirstConflict(span(t, at(10, 10, 0), at(10, 13, 0)), uuid.Nil)
	assert.False(t, ok)
	assert.Equal(t, 2, idx.Len())
}

// The index must agree with a linear scan for arbitrary data.
func TestBookingIndex_MatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := at(10, 0, 0)
	randomRange := func() sharedDomain.TimeRange {
		start := base.Add(time.Duration(rng.Intn(24*60)) * time.Minute)
		return sharedDomain.TimeRange{Start: start, End: start.Add(time.Duration(1+rng.Intn(240)) * time.Minute)}
	}

	var all []domain.Booking
	for i := 0; i < 200; i++ {
		all = append(all, domain.Booking{SlotID: uuid.New(), Interval: randomRange()})
	}
	idx := domain.NewBookingIndex(all)

	for i := 0; i < 500; i++ {
		q := randomRange()
		want := 0
		for _, b := range all {
			if b.Interval.Overlaps(q) {
				want++
			}
		}
		got := idx.Overlapping(q)
		require.Len(t, got, want)
		for j := 1; j < len(got); j++ {
			assert.False(t, got[j].Interval.Start.Before(got[j-1].Interval.Start))
		}
	}
}
