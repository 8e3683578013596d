package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipisou/garage/internal/scheduling/domain"
	"github.com/pipisou/garage/internal/scheduling/infrastructure/persistence"
	"github.com/pipisou/garage/internal/shared/infrastructure/database/dbtest"
)

func TestSQLAttemptRepository_CreateAndList(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewSQLAttemptRepository(dbtest.Open(t))

	appointmentID := uuid.New()
	start := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
	c := domain.Candidate{
		AppointmentID: appointmentID,
		SlotID:        uuid.New(),
		MechanicID:    uuid.New(),
		TaskID:        uuid.New(),
		Start:         start,
		End:           start.Add(time.Hour),
	}

	accepted := domain.NewAssignmentAttempt(c, nil)
	rejected := domain.NewAssignmentAttempt(c, domain.Reject(domain.ReasonSchedulingConflict, "busy"))
	rejected.AttemptedAt = accepted.AttemptedAt.Add(time.Second)

	require.NoError(t, repo.Create(ctx, accepted))
	require.NoError(t, repo.Create(ctx, rejected))
	require.NoError(t, repo.Create(ctx, domain.NewAssignmentAttempt(domain.Candidate{
		AppointmentID: uuid.New(), Start: start, End: start.Add(time.Hour),
	}, nil)))

	got, err := repo.ListByAppointment(ctx, appointmentID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.True(t, got[0].Accepted)
	assert.True(t, got[0].Start.Equal(start))
	assert.False(t, got[1].Accepted)
	assert.Equal(t, domain.ReasonSchedulingConflict, got[1].Reason)
	assert.Equal(t, "busy", got[1].Message)
}
