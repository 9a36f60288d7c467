package postgres

import (
	"context"
	"database/sql"

	"flock/internal/domain"
	"flock/internal/repository"
)

// ReviewRepository is a PostgreSQL implementation of repository.ReviewRepository.
type ReviewRepository struct {
	q Querier
}

var _ repository.ReviewRepository = (*ReviewRepository)(nil)

// NewReviewRepository creates a new PostgreSQL review repository.
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{q: db}
}

// Create persists a review.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, trip_id, reviewer_id, reviewee_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.q.QueryRowContext(ctx, query,
		review.ID,
		review.TripID,
		review.ReviewerID,
		review.RevieweeID,
		review.Rating,
		nullString(review.Comment),
	).Scan(&review.CreatedAt)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	return err
}

// ListByReviewee retrieves the reviews a user received.
func (r *ReviewRepository) ListByReviewee(ctx context.Context, revieweeID string) ([]*domain.Review, error) {
	query := `
		SELECT id, trip_id, reviewer_id, reviewee_id, rating, comment, created_at
		FROM reviews
		WHERE reviewee_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, revieweeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		var review domain.Review
		var comment sql.NullString
		if err := rows.Scan(
			&review.ID,
			&review.TripID,
			&review.ReviewerID,
			&review.RevieweeID,
			&review.Rating,
			&comment,
			&review.CreatedAt,
		); err != nil {
			return nil, err
		}
		review.Comment = comment.String
		reviews = append(reviews, &review)
	}
	return reviews, rows.Err()
}
