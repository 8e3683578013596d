package queries

import (
	"context"

	"github.com/google/uuid"

	"github.com/pipisou/garage/internal/catalog/domain"
)

type TaskDefinitionDTO struct {
	ID               uuid.UUID
	Description      string
	PriceCents       int64
	EstimatedMinutes int
	MarginMinutes    int
}

type ArticleDTO struct {
	ID        uuid.UUID
	Name      string
	Reference string
}

type ListTaskDefinitionsHandler struct {
	taskRepo domain.TaskDefinitionRepository
}

func NewListTaskDefinitionsHandler(taskRepo domain.TaskDefinitionRepository) *ListTaskDefinitionsHandler {
	return &ListTaskDefinitionsHandler{taskRepo: taskRepo}
}

func (h *ListTaskDefinitionsHandler) Handle(ctx context.Context) ([]TaskDefinitionDTO, error) {
	tasks, err := h.taskRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]TaskDefinitionDTO, 0, len(tasks))
	for _, t := range tasks {
		dtos = append(dtos, TaskDefinitionDTO{
			ID:               t.ID(),
			Description:      t.Description(),
			PriceCents:       t.PriceCents(),
			EstimatedMinutes: t.EstimatedMinutes(),
			MarginMinutes:    t.MarginMinutes(),
		})
	}
	return dtos, nil
}

type ListArticlesHandler struct {
	articleRepo domain.ArticleRepository
}

func NewListArticlesHandler(articleRepo domain.ArticleRepository) *ListArticlesHandler {
	return &ListArticlesHandler{articleRepo: articleRepo}
}

func (h *ListArticlesHandler) Handle(ctx context.Context) ([]ArticleDTO, error) {
	articles, err := h.articleRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]ArticleDTO, 0, len(articles))
	for _, a := range articles {
		dtos = append(dtos, ArticleDTO{ID: a.ID(), Name: a.Name(), Reference: a.Reference()})
	}
	return dtos, nil
}
