package repository

import (
	"context"

	"flock/internal/domain"
)

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	// Create persists a new user. Returns ErrConflict if the email is taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by lower-cased email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByIDs retrieves many users in one query, keyed by ID.
	// Unknown IDs are absent from the result.
	GetByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)

	// Update stores profile, car, gender and student verification fields.
	Update(ctx context.Context, user *domain.User) error
}
