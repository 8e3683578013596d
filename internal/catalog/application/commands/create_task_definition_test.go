package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pipisou/garage/internal/catalog/domain"
)

type mockTaskRepo struct {
	mock.Mock
}

func (m *mockTaskRepo) Save(ctx context.Context, task *domain.TaskDefinition) error {
	return m.Called(ctx, task).Error(0)
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.TaskDefinition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaskDefinition), args.Error(1)
}

func (m *mockTaskRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.TaskDefinition, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TaskDefinition), args.Error(1)
}

func (m *mockTaskRepo) List(ctx context.Context) ([]*domain.TaskDefinition, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TaskDefinition), args.Error(1)
}

type mockArticleRepo struct {
	mock.Mock
}

func (m *mockArticleRepo) Save(ctx context.Context, article *domain.Article) error {
	return m.Called(ctx, article).Error(0)
}

func (m *mockArticleRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Article), args.Error(1)
}

func (m *mockArticleRepo) List(ctx context.Context) ([]*domain.Article, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Article), args.Error(1)
}

func TestCreateTaskDefinitionHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the definition with the default margin", func(t *testing.T) {
		repo := new(mockTaskRepo)
		repo.On("Save", ctx, mock.MatchedBy(func(task *domain.TaskDefinition) bool {
			return task.MarginMinutes() == domain.DefaultMarginMinutes && task.EstimatedMinutes() == 45
		})).Return(nil)

		result, err := NewCreateTaskDefinitionHandler(repo).Handle(ctx, CreateTaskDefinitionCommand{
			Description: "Timing belt", PriceCents: 30000, EstimatedMinutes: 45,
		})

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, result.TaskID)
		repo.AssertExpectations(t)
	})

	t.Run("rejects a negative margin", func(t *testing.T) {
		repo := new(mockTaskRepo)
		negative := -1
		_, err := NewCreateTaskDefinitionHandler(repo).Handle(ctx, CreateTaskDefinitionCommand{
			Description: "Timing belt", EstimatedMinutes: 45, MarginMinutes: &negative,
		})

		assert.ErrorIs(t, err, domain.ErrInvalidTaskDefinition)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestRegisterArticleHandler_Handle(t *testing.T) {
	ctx := context.Background()
	repo := new(mockArticleRepo)
	repo.On("Save", ctx, mock.AnythingOfType("*domain.Article")).Return(errors.New("locked"))

	_, err := NewRegisterArticleHandler(repo).Handle(ctx, RegisterArticleCommand{Name: "Spark plug"})
	assert.EqualError(t, err, "locked")
}
