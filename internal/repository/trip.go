package repository

import (
	"context"
	"time"

	"flock/internal/domain"
)

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// GetByIDForUpdate retrieves a trip and locks its row until the
	// surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Trip, error)

	// GetByIDs retrieves many trips in one query, keyed by ID.
	GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Trip, error)

	// List retrieves all trips ordered by departure time, newest first on ties.
	List(ctx context.Context) ([]*domain.Trip, error)

	// ListByDriver retrieves the trips a driver posted.
	ListByDriver(ctx context.Context, driverID string) ([]*domain.Trip, error)

	// Update updates an existing trip.
	Update(ctx context.Context, trip *domain.Trip) error

	// CompleteExpired marks open or full trips that departed before now and
	// have at least one accepted request as completed. Returns the number of trips changed.
	CompleteExpired(ctx context.Context, now time.Time) (int64, error)
}
