package queries_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipisou/garage/internal/catalog/application/queries"
	"github.com/pipisou/garage/internal/catalog/domain"
	"github.com/pipisou/garage/internal/catalog/infrastructure/persistence"
	"github.com/pipisou/garage/internal/shared/infrastructure/database/dbtest"
)

func TestListCatalog(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.Open(t)
	tasks := persistence.NewSQLTaskDefinitionRepository(conn)
	articles := persistence.NewSQLArticleRepository(conn)

	margin := 0
	task, err := domain.NewTaskDefinition("Tyre swap", 6000, 45, &margin)
	require.NoError(t, err)
	require.NoError(t, tasks.Save(ctx, task))
	article, err := domain.NewArticle("Valve", "V-1")
	require.NoError(t, err)
	require.NoError(t, articles.Save(ctx, article))

	taskDTOs, err := queries.NewListTaskDefinitionsHandler(tasks).Handle(ctx)
	require.NoError(t, err)
	require.Len(t, taskDTOs, 1)
	assert.Equal(t, task.ID(), taskDTOs[0].ID)
	assert.Equal(t, 45, taskDTOs[0].EstimatedMinutes)
	assert.Zero(t, taskDTOs[0].MarginMinutes)

	articleDTOs, err := queries.NewListArticlesHandler(articles).Handle(ctx)
	require.NoError(t, err)
	require.Len(t, articleDTOs, 1)
	assert.Equal(t, "V-1", articleDTOs[0].Reference)
}
