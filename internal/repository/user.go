package repository

import (
	"context"

	"github.com/gefest173/meteora/internal/domain"
)

type CreateUserInput struct {
	Email          string
	HashedPassword string
	IsVerified     bool
}

type UserRepository interface {
	// FindByEmail returns domain.ErrUserNotFound when no row matches.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create returns domain.ErrDuplicateUser when the email is already taken.
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
}
