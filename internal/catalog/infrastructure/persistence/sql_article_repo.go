package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pipisou/garage/internal/catalog/domain"
	"github.com/pipisou/garage/internal/shared/infrastructure/database"
)

// SQLArticleRepository stores articles.
type SQLArticleRepository struct {
	db database.Session
}

func NewSQLArticleRepository(conn database.Connection) *SQLArticleRepository {
	return &SQLArticleRepository{db: database.NewSession(conn)}
}

func (r *SQLArticleRepository) Save(ctx context.Context, a *domain.Article) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO articles (id, name, reference, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			reference = excluded.reference`,
		a.ID(), a.Name(), a.Reference(), a.CreatedAt().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save article: %w", err)
	}
	return nil
}

func (r *SQLArticleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	a, err := scanArticle(r.db.QueryRow(ctx,
		`SELECT id, name, reference, created_at FROM articles WHERE id = ?`, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find article: %w", err)
	}
	return a, nil
}

func (r *SQLArticleRepository) List(ctx context.Context) ([]*domain.Article, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, reference, created_at FROM articles ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var articles []*domain.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func scanArticle(row database.Row) (*domain.Article, error) {
	var (
		id              uuid.UUID
		name, reference string
		createdAt       time.Time
	)
	if err := row.Scan(&id, &name, &reference, &createdAt); err != nil {
		return nil, err
	}
	return domain.RehydrateArticle(id, name, reference, createdAt), nil
}
