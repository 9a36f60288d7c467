package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"flock/internal/domain"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// CarbonCacheTTL bounds how stale a user's carbon statistics may be.
const CarbonCacheTTL = 60 * time.Second

const carbonCachePrefix = "cache:carbon:"

// cachedCarbonStats is the JSON form of domain.CarbonStats.
type cachedCarbonStats struct {
	TotalCO2SavedGrams int `json:"total_co2_saved_grams"`
	TotalDistanceKm    int `json:"total_distance_km"`
	CompletedRides     int `json:"completed_rides"`
}

// GetCarbonStats retrieves a user's carbon statistics from cache.
func (s *CacheStore) GetCarbonStats(ctx context.Context, userID string) (*domain.CarbonStats, error) {
	data, err := s.client.Get(ctx, carbonCachePrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, err
	}
	return decodeCarbonStats(data)
}

// SetCarbonStats stores a user's carbon statistics in cache.
func (s *CacheStore) SetCarbonStats(ctx context.Context, userID string, stats *domain.CarbonStats) error {
	data, err := encodeCarbonStats(stats)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, carbonCachePrefix+userID, data, CarbonCacheTTL).Err()
}

// GetCarbonStatsBatch retrieves the statistics of many users using a pipeline.
// Returns the cached entries and the IDs that missed.
func (s *CacheStore) GetCarbonStatsBatch(ctx context.Context, userIDs []string) (map[string]*domain.CarbonStats, []string, error) {
	result := make(map[string]*domain.CarbonStats, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil, nil
	}

	pipe := s.client.Pipeline()
	cmds := make(map[string]*redis.StringCmd, len(userIDs))
	for _, id := range userIDs {
		cmds[id] = pipe.Get(ctx, carbonCachePrefix+id)
	}

	// Missing keys surface as redis.Nil on the individual commands.
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, nil, err
	}

	var missing []string
	for _, id := range userIDs {
		data, err := cmds[id].Bytes()
		if err != nil {
			missing = append(missing, id)
			continue
		}

		stats, err := decodeCarbonStats(data)
		if err != nil {
			missing = append(missing, id)
			continue
		}
		result[id] = stats
	}

	return result, missing, nil
}

// SetCarbonStatsBatch stores the statistics of many users using a pipeline.
func (s *CacheStore) SetCarbonStatsBatch(ctx context.Context, stats map[string]*domain.CarbonStats) error {
	if len(stats) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for id, st := range stats {
		data, err := encodeCarbonStats(st)
		if err != nil {
			continue
		}
		pipe.Set(ctx, carbonCachePrefix+id, data, CarbonCacheTTL)
	}

	_, err := pipe.Exec(ctx)
	return err
}

// InvalidateCarbonStats removes the cached statistics of the given users.
func (s *CacheStore) InvalidateCarbonStats(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}

	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = carbonCachePrefix + id
	}
	return s.client.Del(ctx, keys...).Err()
}

func encodeCarbonStats(stats *domain.CarbonStats) ([]byte, error) {
	return json.Marshal(cachedCarbonStats{
		TotalCO2SavedGrams: stats.TotalCO2SavedGrams,
		TotalDistanceKm:    stats.TotalDistanceKm,
		CompletedRides:     stats.CompletedRides,
	})
}

func decodeCarbonStats(data []byte) (*domain.CarbonStats, error) {
	var cached cachedCarbonStats
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	return &domain.CarbonStats{
		TotalCO2SavedGrams: cached.TotalCO2SavedGrams,
		TotalDistanceKm:    cached.TotalDistanceKm,
		CompletedRides:     cached.CompletedRides,
	}, nil
}
