package postgres

import (
	"context"
	"database/sql"
	"errors"

	"flock/internal/domain"
	"flock/internal/repository"
)

const rideRequestColumns = `id, trip_id, rider_id, message, status, created_at`

// RideRequestRepository is a PostgreSQL implementation of repository.RideRequestRepository.
type RideRequestRepository struct {
	q Querier
}

var _ repository.RideRequestRepository = (*RideRequestRepository)(nil)

// NewRideRequestRepository creates a new PostgreSQL ride request repository.
func NewRideRequestRepository(db *sql.DB) *RideRequestRepository {
	return &RideRequestRepository{q: db}
}

// NewRideRequestRepositoryWithTx creates a ride request repository using a transaction.
func NewRideRequestRepositoryWithTx(tx *sql.Tx) *RideRequestRepository {
	return &RideRequestRepository{q: tx}
}

// Create persists a new ride request.
func (r *RideRequestRepository) Create(ctx context.Context, req *domain.RideRequest) error {
	query := `
		INSERT INTO ride_requests (id, trip_id, rider_id, message, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.q.QueryRowContext(ctx, query,
		req.ID,
		req.TripID,
		req.RiderID,
		req.Message,
		req.Status,
	).Scan(&req.CreatedAt)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	return err
}

// GetByID retrieves a ride request by ID.
func (r *RideRequestRepository) GetByID(ctx context.Context, id string) (*domain.RideRequest, error) {
	query := `SELECT ` + rideRequestColumns + ` FROM ride_requests WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByTripAndRider retrieves the rider's request on a trip.
func (r *RideRequestRepository) GetByTripAndRider(ctx context.Context, tripID, riderID string) (*domain.RideRequest, error) {
	query := `SELECT ` + rideRequestColumns + ` FROM ride_requests WHERE trip_id = $1 AND rider_id = $2`
	return r.getOne(ctx, query, tripID, riderID)
}

// ListByTrip retrieves all requests for a trip.
func (r *RideRequestRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.RideRequest, error) {
	query := `SELECT ` + rideRequestColumns + ` FROM ride_requests WHERE trip_id = $1 ORDER BY created_at ASC`
	return r.list(ctx, query, tripID)
}

// ListAcceptedByTrip retrieves the accepted requests for a trip.
func (r *RideRequestRepository) ListAcceptedByTrip(ctx context.Context, tripID string) ([]*domain.RideRequest, error) {
	query := `
		SELECT ` + rideRequestColumns + ` FROM ride_requests
		WHERE trip_id = $1 AND status = 'accepted'
		ORDER BY created_at ASC
	`
	return r.list(ctx, query, tripID)
}

// ListByRider retrieves the requests a rider made.
func (r *RideRequestRepository) ListByRider(ctx context.Context, riderID string) ([]*domain.RideRequest, error) {
	query := `SELECT ` + rideRequestColumns + ` FROM ride_requests WHERE rider_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, riderID)
}

// UpdateStatus sets the status of a ride request.
func (r *RideRequestRepository) UpdateStatus(ctx context.Context, id string, status domain.RideRequestStatus) error {
	result, err := r.q.ExecContext(ctx, `UPDATE ride_requests SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(result)
}

// Delete removes a ride request.
func (r *RideRequestRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM ride_requests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(result)
}

func (r *RideRequestRepository) getOne(ctx context.Context, query string, args ...any) (*domain.RideRequest, error) {
	var req domain.RideRequest
	err := r.q.QueryRowContext(ctx, query, args...).Scan(
		&req.ID,
		&req.TripID,
		&req.RiderID,
		&req.Message,
		&req.Status,
		&req.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *RideRequestRepository) list(ctx context.Context, query string, args ...any) ([]*domain.RideRequest, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*domain.RideRequest
	for rows.Next() {
		var req domain.RideRequest
		if err := rows.Scan(
			&req.ID,
			&req.TripID,
			&req.RiderID,
			&req.Message,
			&req.Status,
			&req.CreatedAt,
		); err != nil {
			return nil, err
		}
		requests = append(requests, &req)
	}
	return requests, rows.Err()
}
