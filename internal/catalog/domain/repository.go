package domain

import (
	"context"

	"github.com/google/uuid"
)

// TaskDefinitionRepository stores the task catalogue. FindByID returns
// nil, nil for an unknown id.
type TaskDefinitionRepository interface {
	Save(ctx context.Context, task *TaskDefinition) error
	FindByID(ctx context.Context, id uuid.UUID) (*TaskDefinition, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*TaskDefinition, error)
	List(ctx context.Context) ([]*TaskDefinition, error)
}

// ArticleRepository stores articles. FindByID returns nil, nil for an
// unknown id.
type ArticleRepository interface {
	Save(ctx context.Context, article *Article) error
	FindByID(ctx context.Context, id uuid.UUID) (*Article, error)
	List(ctx context.Context) ([]*Article, error)
}
