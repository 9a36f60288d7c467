package repository

import (
	"context"
	"time"

	"flock/internal/domain"
)

// CarbonRepository reads the rides that count toward carbon savings.
// Counted trips are completed or departed before now, and never cancelled.
type CarbonRepository interface {
	// RiderLegs returns one leg per accepted request held by any of the users.
	RiderLegs(ctx context.Context, userIDs []string, now time.Time) ([]domain.CarbonLeg, error)

	// DriverLegs returns one leg per trip driven by any of the users with at
	// least one accepted request.
	DriverLegs(ctx context.Context, userIDs []string, now time.Time) ([]domain.CarbonLeg, error)
}
