package repository

import (
	"context"

	"flock/internal/domain"
)

// RideRequestRepository defines the persistence operations for ride requests.
type RideRequestRepository interface {
	// Create persists a new request. Returns ErrConflict if the rider
	// already requested the trip.
	Create(ctx context.Context, req *domain.RideRequest) error

	// GetByID retrieves a request by ID.
	GetByID(ctx context.Context, id string) (*domain.RideRequest, error)

	// GetByTripAndRider retrieves the rider's request on a trip.
	GetByTripAndRider(ctx context.Context, tripID, riderID string) (*domain.RideRequest, error)

	// ListByTrip retrieves the requests for a trip, oldest first.
	ListByTrip(ctx context.Context, tripID string) ([]*domain.RideRequest, error)

	// ListAcceptedByTrip retrieves the accepted requests for a trip, oldest first.
	ListAcceptedByTrip(ctx context.Context, tripID string) ([]*domain.RideRequest, error)

	// ListByRider retrieves the requests a rider made, newest first.
	ListByRider(ctx context.Context, riderID string) ([]*domain.RideRequest, error)

	// UpdateStatus sets the status of a request.
	UpdateStatus(ctx context.Context, id string, status domain.RideRequestStatus) error

	// Delete removes a request.
	Delete(ctx context.Context, id string) error
}
