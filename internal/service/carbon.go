package service

import (
	"context"
	"time"

	"flock/internal/domain"
	"flock/internal/geo"
	"flock/internal/logger"
	"flock/internal/redis"
	"flock/internal/repository"
)

// CarbonService computes CO2 savings from shared rides.
type CarbonService struct {
	repo   repository.CarbonRepository
	cities *geo.Directory
	cache  redis.CarbonCacheInterface // optional
	log    logger.Logger
}

// NewCarbonService creates a new CarbonService.
func NewCarbonService(repo repository.CarbonRepository, cities *geo.Directory, cache redis.CarbonCacheInterface, log logger.Logger) *CarbonService {
	return &CarbonService{repo: repo, cities: cities, cache: cache, log: log}
}

// StatsForUser returns a user's lifetime savings, served from cache when fresh.
func (s *CarbonService) StatsForUser(ctx context.Context, userID string) (*domain.CarbonStats, error) {
	if s.cache != nil {
		cached, err := s.cache.GetCarbonStats(ctx, userID)
		if err != nil {
			s.log.Warn("carbon cache read failed", logger.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	all, err := s.compute(ctx, []string{userID})
	if err != nil {
		return nil, err
	}
	stats := all[userID]

	if s.cache != nil {
		if err := s.cache.SetCarbonStats(ctx, userID, stats); err != nil {
			s.log.Warn("carbon cache write failed", logger.Error(err))
		}
	}
	return stats, nil
}

// SavedGramsForUsers returns the CO2 saved by each user. Cache misses are
// resolved together with exactly two queries.
func (s *CarbonService) SavedGramsForUsers(ctx context.Context, userIDs []string) (map[string]int, error) {
	result := make(map[string]int, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	missing := userIDs
	if s.cache != nil {
		cached, miss, err := s.cache.GetCarbonStatsBatch(ctx, userIDs)
		if err != nil {
			s.log.Warn("carbon cache batch read failed", logger.Error(err))
		} else {
			for id, st := range cached {
				result[id] = st.TotalCO2SavedGrams
			}
			missing = miss
		}
	}

	if len(missing) == 0 {
		return result, nil
	}

	computed, err := s.compute(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, st := range computed {
		result[id] = st.TotalCO2SavedGrams
	}

	if s.cache != nil {
		if err := s.cache.SetCarbonStatsBatch(ctx, computed); err != nil {
			s.log.Warn("carbon cache batch write failed", logger.Error(err))
		}
	}
	return result, nil
}

// Invalidate drops cached statistics for the given users.
func (s *CarbonService) Invalidate(ctx context.Context, userIDs ...string) {
	if s.cache == nil || len(userIDs) == 0 {
		return
	}
	if err := s.cache.InvalidateCarbonStats(ctx, userIDs...); err != nil {
		s.log.Warn("carbon cache invalidation failed", logger.Error(err))
	}
}

// compute returns stats for every requested user, zero-valued when they have no rides.
func (s *CarbonService) compute(ctx context.Context, userIDs []string) (map[string]*domain.CarbonStats, error) {
	now := time.Now()

	riderLegs, err := s.repo.RiderLegs(ctx, userIDs, now)
	if err != nil {
		return nil, err
	}
	driverLegs, err := s.repo.DriverLegs(ctx, userIDs, now)
	if err != nil {
		return nil, err
	}

	stats := make(map[string]*domain.CarbonStats, len(userIDs))
	for _, id := range userIDs {
		stats[id] = &domain.CarbonStats{}
	}

	for _, legs := range [][]domain.CarbonLeg{riderLegs, driverLegs} {
		for _, leg := range legs {
			st, ok := stats[leg.UserID]
			if !ok {
				continue
			}
			st.Add(s.cities.DistanceKm(leg.OriginCity, leg.DestinationCity))
		}
	}

	return stats, nil
}
