package redis

import (
	"context"
	"time"

	"flock/internal/domain"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireLock(ctx context.Context, name string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, name string) error
}

// CarbonCacheInterface defines the interface for cached carbon statistics.
// A nil result with a nil error is a cache miss.
type CarbonCacheInterface interface {
	GetCarbonStats(ctx context.Context, userID string) (*domain.CarbonStats, error)
	SetCarbonStats(ctx context.Context, userID string, stats *domain.CarbonStats) error
	GetCarbonStatsBatch(ctx context.Context, userIDs []string) (map[string]*domain.CarbonStats, []string, error)
	SetCarbonStatsBatch(ctx context.Context, stats map[string]*domain.CarbonStats) error
	InvalidateCarbonStats(ctx context.Context, userIDs ...string) error
}

// IdempotencyStoreInterface defines the interface for replayable responses.
type IdempotencyStoreInterface interface {
	GetResponse(ctx context.Context, key string) (*StoredResponse, error)
	SaveResponse(ctx context.Context, key string, resp *StoredResponse) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface        = (*LockStore)(nil)
	_ CarbonCacheInterface      = (*CacheStore)(nil)
	_ IdempotencyStoreInterface = (*IdempotencyStore)(nil)
)
