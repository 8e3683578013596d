package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrInvalidArticle  = errors.New("article needs a name")
)

// Article is a stocked part. Prices live on each consumption, not here.
type Article struct {
	id        uuid.UUID
	name      string
	reference string
	createdAt time.Time
}

func NewArticle(name, reference string) (*Article, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidArticle
	}
	return &Article{
		id:        uuid.New(),
		name:      name,
		reference: strings.TrimSpace(reference),
		createdAt: time.Now().UTC(),
	}, nil
}

func RehydrateArticle(id uuid.UUID, name, reference string, createdAt time.Time) *Article {
	return &Article{id: id, name: name, reference: reference, createdAt: createdAt}
}

func (a *Article) ID() uuid.UUID        { return a.id }
func (a *Article) Name() string         { return a.name }
func (a *Article) Reference() string    { return a.reference }
func (a *Article) CreatedAt() time.Time { return a.createdAt }
