package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"flock/internal/domain"
	"flock/internal/repository"
)

const tripColumns = `
	id, driver_id, origin_city, destination_city, origin_label, destination_label,
	origin_lat, origin_lng, destination_lat, destination_lng,
	departure_time, seats_available, status, meeting_spot, notes, created_at`

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

var _ repository.TripRepository = (*TripRepository)(nil)

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (id, driver_id, origin_city, destination_city, origin_label, destination_label,
			origin_lat, origin_lng, destination_lat, destination_lng,
			departure_time, seats_available, status, meeting_spot, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at
	`

	originLat, originLng := pointArgs(trip.OriginPoint)
	destLat, destLng := pointArgs(trip.DestinationPoint)

	return r.q.QueryRowContext(ctx, query,
		trip.ID,
		trip.DriverID,
		trip.OriginCity,
		trip.DestinationCity,
		nullString(trip.OriginLabel),
		nullString(trip.DestinationLabel),
		originLat,
		originLng,
		destLat,
		destLng,
		trip.DepartureTime,
		trip.SeatsAvailable,
		trip.Status,
		nullString(trip.MeetingSpot),
		nullString(trip.Notes),
	).Scan(&trip.CreatedAt)
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByIDForUpdate retrieves a trip by ID and locks the row.
func (r *TripRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

// GetByIDs retrieves many trips keyed by ID.
func (r *TripRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Trip, error) {
	trips := make(map[string]*domain.Trip, len(ids))
	if len(ids) == 0 {
		return trips, nil
	}

	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = ANY($1::uuid[])`
	list, err := r.list(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	for _, t := range list {
		trips[t.ID] = t
	}
	return trips, nil
}

// List retrieves all trips.
func (r *TripRepository) List(ctx context.Context) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips ORDER BY departure_time ASC, created_at DESC`
	return r.list(ctx, query)
}

// ListByDriver retrieves the trips a driver posted, soonest departure first.
func (r *TripRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE driver_id = $1 ORDER BY departure_time ASC, created_at DESC`
	return r.list(ctx, query, driverID)
}

// Update updates an existing trip.
func (r *TripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	query := `
		UPDATE trips
		SET origin_city = $1, destination_city = $2, origin_label = $3, destination_label = $4,
			origin_lat = $5, origin_lng = $6, destination_lat = $7, destination_lng = $8,
			departure_time = $9, seats_available = $10, status = $11, meeting_spot = $12, notes = $13
		WHERE id = $14
	`

	originLat, originLng := pointArgs(trip.OriginPoint)
	destLat, destLng := pointArgs(trip.DestinationPoint)

	result, err := r.q.ExecContext(ctx, query,
		trip.OriginCity,
		trip.DestinationCity,
		nullString(trip.OriginLabel),
		nullString(trip.DestinationLabel),
		originLat,
		originLng,
		destLat,
		destLng,
		trip.DepartureTime,
		trip.SeatsAvailable,
		trip.Status,
		nullString(trip.MeetingSpot),
		nullString(trip.Notes),
		trip.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(result)
}

// CompleteExpired completes departed trips that carried at least one accepted rider.
func (r *TripRepository) CompleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE trips t
		SET status = 'completed'
		WHERE t.status IN ('open', 'full')
			AND t.departure_time < $1
			AND EXISTS (
				SELECT 1 FROM ride_requests rr
				WHERE rr.trip_id = t.id AND rr.status = 'accepted'
			)
	`

	result, err := r.q.ExecContext(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *TripRepository) getOne(ctx context.Context, query string, id string) (*domain.Trip, error) {
	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return trip, nil
}

func (r *TripRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Trip, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	return trips, rows.Err()
}

func scanTrip(row rowScanner) (*domain.Trip, error) {
	var (
		trip                   domain.Trip
		originLabel, destLabel sql.NullString
		meetingSpot, notes     sql.NullString
		originLat, originLng   sql.NullFloat64
		destLat, destLng       sql.NullFloat64
	)

	if err := row.Scan(
		&trip.ID,
		&trip.DriverID,
		&trip.OriginCity,
		&trip.DestinationCity,
		&originLabel,
		&destLabel,
		&originLat,
		&originLng,
		&destLat,
		&destLng,
		&trip.DepartureTime,
		&trip.SeatsAvailable,
		&trip.Status,
		&meetingSpot,
		&notes,
		&trip.CreatedAt,
	); err != nil {
		return nil, err
	}

	trip.OriginLabel = originLabel.String
	trip.DestinationLabel = destLabel.String
	trip.MeetingSpot = meetingSpot.String
	trip.Notes = notes.String
	if originLat.Valid && originLng.Valid {
		trip.OriginPoint = &domain.Coordinates{Lat: originLat.Float64, Lng: originLng.Float64}
	}
	if destLat.Valid && destLng.Valid {
		trip.DestinationPoint = &domain.Coordinates{Lat: destLat.Float64, Lng: destLng.Float64}
	}

	return &trip, nil
}

func pointArgs(p *domain.Coordinates) (sql.NullFloat64, sql.NullFloat64) {
	if p == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: p.Lat, Valid: true}, sql.NullFloat64{Float64: p.Lng, Valid: true}
}
