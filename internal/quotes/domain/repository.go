package domain

import (
	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
)

// Repository stores quotes. FindByID returns nil, nil for an unknown id.
type Repository interface {
	sharedDomain.Repository[*Quote]
}
