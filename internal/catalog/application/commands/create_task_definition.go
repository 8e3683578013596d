package commands

import (
	"context"

	"github.com/google/uuid"

	"github.com/pipisou/garage/internal/catalog/domain"
)

// CreateTaskDefinitionCommand adds a task to the catalogue. MarginMinutes
// nil selects the default margin.
type CreateTaskDefinitionCommand struct {
	Description      string
	PriceCents       int64
	EstimatedMinutes int
	MarginMinutes    *int
}

type CreateTaskDefinitionResult struct {
	TaskID uuid.UUID
}

type CreateTaskDefinitionHandler struct {
	taskRepo domain.TaskDefinitionRepository
}

func NewCreateTaskDefinitionHandler(taskRepo domain.TaskDefinitionRepository) *CreateTaskDefinitionHandler {
	return &CreateTaskDefinitionHandler{taskRepo: taskRepo}
}

func (h *CreateTaskDefinitionHandler) Handle(ctx context.Context, cmd CreateTaskDefinitionCommand) (*CreateTaskDefinitionResult, error) {
	task, err := domain.NewTaskDefinition(cmd.Description, cmd.PriceCents, cmd.EstimatedMinutes, cmd.MarginMinutes)
	if err != nil {
		return nil, err
	}
	if err := h.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return &CreateTaskDefinitionResult{TaskID: task.ID()}, nil
}

// RegisterArticleCommand adds an article that appointments can consume.
type RegisterArticleCommand struct {
	Name      string
	Reference string
}

type RegisterArticleResult struct {
	ArticleID uuid.UUID
}

type RegisterArticleHandler struct {
	articleRepo domain.ArticleRepository
}

func NewRegisterArticleHandler(articleRepo domain.ArticleRepository) *RegisterArticleHandler {
	return &RegisterArticleHandler{articleRepo: articleRepo}
}

func (h *RegisterArticleHandler) Handle(ctx context.Context, cmd RegisterArticleCommand) (*RegisterArticleResult, error) {
	article, err := domain.NewArticle(cmd.Name, cmd.Reference)
	if err != nil {
		return nil, err
	}
	if err := h.articleRepo.Save(ctx, article); err != nil {
		return nil, err
	}
	return &RegisterArticleResult{ArticleID: article.ID()}, nil
}
