package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
	"github.com/pipisou/garage/internal/shared/infrastructure/database/dbtest"
	"github.com/pipisou/garage/internal/workforce/domain"
	"github.com/pipisou/garage/internal/workforce/infrastructure/persistence"
)

func schedule(t *testing.T, from string, days ...domain.WorkDay) *domain.WorkSchedule {
	t.Helper()
	d, err := sharedDomain.ParseDate(from)
	require.NoError(t, err)
	s, err := domain.NewWorkSchedule(d, days)
	require.NoError(t, err)
	return s
}

func TestSQLMechanicRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewSQLMechanicRepository(dbtest.Open(t))

	m, err := domain.NewMechanic("Jane", "Doe", "jane@example.com")
	require.NoError(t, err)

	pauseStart, pauseEnd := sharedDomain.MustClockTime(12, 0), sharedDomain.MustClockTime(13, 0)
	mon, err := domain.NewWorkDay(time.Monday, sharedDomain.MustClockTime(8, 0), sharedDomain.MustClockTime(17, 0), &pauseStart, &pauseEnd)
	require.NoError(t, err)
	m.SetSchedule(schedule(t, "2024-06-01", mon))

	absenceDate, _ := sharedDomain.ParseDate("2024-06-10")
	absence, err := domain.NewAbsence(absenceDate, sharedDomain.MustClockTime(9, 0), sharedDomain.MustClockTime(11, 30), "dentist")
	require.NoError(t, err)
	m.RecordAbsence(absence)

	require.NoError(t, repo.Save(ctx, m))

	got, err := repo.FindByID(ctx, m.ID())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Jane", got.FirstName())
	assert.Equal(t, "jane@example.com", got.Email())

	require.NotNil(t, got.Schedule())
	day, ok := got.Schedule().Day(time.Monday)
	require.True(t, ok)
	assert.Equal(t, "08:00", day.Start.String())
	require.True(t, day.HasPause())
	assert.Equal(t, "12:00", day.PauseStart.String())

	absences := got.Absences()
	require.Len(t, absences, 1)
	assert.Equal(t, absence.ID(), absences[0].ID())
	assert.Equal(t, "11:30", absences[0].End().String())
	assert.Equal(t, "dentist", absences[0].Reason())
}

func TestSQLMechanicRepository_LatestScheduleWins(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewSQLMechanicRepository(dbtest.Open(t))

	m, _ := domain.NewMechanic("Jane", "Doe", "")
	mon, _ := domain.NewWorkDay(time.Monday, sharedDomain.MustClockTime(8, 0), sharedDomain.MustClockTime(17, 0), nil, nil)
	m.SetSchedule(schedule(t, "2024-01-01", mon))
	require.NoError(t, repo.Save(ctx, m))

	time.Sleep(5 * time.Millisecond)
	tue, _ := domain.NewWorkDay(time.Tuesday, sharedDomain.MustClockTime(9, 0), sharedDomain.MustClockTime(18, 0), nil, nil)
	latest := schedule(t, "2023-01-01", tue)
	m.SetSchedule(latest)
	require.NoError(t, repo.Save(ctx, m))

	got, err := repo.FindByID(ctx, m.ID())
	require.NoError(t, err)
	assert.Equal(t, latest.ID(), got.Schedule().ID())
	_, ok := got.Schedule().Day(time.Monday)
	assert.False(t, ok)
}

func TestSQLMechanicRepository_RemovedAbsenceIsGone(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewSQLMechanicRepository(dbtest.Open(t))

	m, _ := domain.NewMechanic("Jane", "Doe", "")
	d, _ := sharedDomain.ParseDate("2024-06-10")
	a, _ := domain.NewFullDayAbsence(d, "")
	m.RecordAbsence(a)
	require.NoError(t, repo.Save(ctx, m))

	require.NoError(t, m.RemoveAbsence(a.ID()))
	require.NoError(t, repo.Save(ctx, m))

	got, err := repo.FindByID(ctx, m.ID())
	require.NoError(t, err)
	assert.Empty(t, got.Absences())
	assert.Nil(t, got.Schedule())
}

func TestSQLMechanicRepository_FindAndList(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewSQLMechanicRepository(dbtest.Open(t))

	got, err := repo.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)

	zed, _ := domain.NewMechanic("Ann", "Zed", "")
	abe, _ := domain.NewMechanic("Bob", "Abe", "")
	require.NoError(t, repo.Save(ctx, zed))
	require.NoError(t, repo.Save(ctx, abe))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Abe", all[0].LastName())
	assert.Equal(t, "Zed", all[1].LastName())
}
