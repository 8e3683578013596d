package persistence_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipisou/garage/internal/quotes/domain"
	"github.com/pipisou/garage/internal/quotes/infrastructure/persistence"
	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
	"github.com/pipisou/garage/internal/shared/infrastructure/database/dbtest"
)

func TestSQLQuoteRepository(t *testing.T) {
	ctx := context.Background()
	var repo sharedDomain.Repository[*domain.Quote] = persistence.NewSQLQuoteRepository(dbtest.Open(t))

	tasks := []uuid.UUID{uuid.New(), uuid.New()}
	q, err := domain.NewQuote(domain.FormatReference(7), uuid.New(), uuid.New(), tasks)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, q))

	got, err := repo.FindByID(ctx, q.ID())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "DEV-00007", got.Reference())
	assert.Equal(t, tasks, got.TaskIDs())
	assert.Equal(t, q.ClientID(), got.ClientID())

	require.NoError(t, repo.Delete(ctx, q.ID()))
	got, err = repo.FindByID(ctx, q.ID())
	require.NoError(t, err)
	assert.Nil(t, got)
}
