package repository

import (
	"context"

	"citylift/internal/domain"
)

// UserRepository reads accounts owned by the auth service.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
