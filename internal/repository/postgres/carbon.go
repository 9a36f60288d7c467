package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"flock/internal/domain"
	"flock/internal/repository"
)

// CarbonRepository is a PostgreSQL implementation of repository.CarbonRepository.
type CarbonRepository struct {
	q Querier
}

var _ repository.CarbonRepository = (*CarbonRepository)(nil)

// NewCarbonRepository creates a new PostgreSQL carbon repository.
func NewCarbonRepository(db *sql.DB) *CarbonRepository {
	return &CarbonRepository{q: db}
}

// RiderLegs returns the counted rides the users took as accepted riders.
func (r *CarbonRepository) RiderLegs(ctx context.Context, userIDs []string, now time.Time) ([]domain.CarbonLeg, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT rr.rider_id, t.origin_city, t.destination_city
		FROM ride_requests rr
		JOIN trips t ON t.id = rr.trip_id
		WHERE rr.rider_id = ANY($1::uuid[])
			AND rr.status = 'accepted'
			AND (t.status = 'completed' OR t.departure_time < $2)
	`
	return r.legs(ctx, query, pq.Array(userIDs), now)
}

// DriverLegs returns the counted trips the users drove with at least one accepted rider.
func (r *CarbonRepository) DriverLegs(ctx context.Context, userIDs []string, now time.Time) ([]domain.CarbonLeg, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT t.driver_id, t.origin_city, t.destination_city
		FROM trips t
		WHERE t.driver_id = ANY($1::uuid[])
			AND (t.status = 'completed' OR t.departure_time < $2)
			AND EXISTS (
				SELECT 1 FROM ride_requests rr
				WHERE rr.trip_id = t.id AND rr.status = 'accepted'
			)
	`
	return r.legs(ctx, query, pq.Array(userIDs), now)
}

func (r *CarbonRepository) legs(ctx context.Context, query string, args ...any) ([]domain.CarbonLeg, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var legs []domain.CarbonLeg
	for rows.Next() {
		var leg domain.CarbonLeg
		if err := rows.Scan(&leg.UserID, &leg.OriginCity, &leg.DestinationCity); err != nil {
			return nil, err
		}
		legs = append(legs, leg)
	}
	return legs, rows.Err()
}
