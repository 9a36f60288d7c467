package repository

import (
	"context"

	"flock/internal/domain"
)

// ReviewRepository defines the persistence operations for reviews.
type ReviewRepository interface {
	// Create persists a review. Returns ErrConflict if the reviewer already
	// reviewed the reviewee for the trip.
	Create(ctx context.Context, review *domain.Review) error

	// ListByReviewee retrieves the reviews a user received, newest first.
	ListByReviewee(ctx context.Context, revieweeID string) ([]*domain.Review, error)
}
