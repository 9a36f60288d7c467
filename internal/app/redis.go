package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"flock/internal/config"
)

// NewRedisClient connects to Redis. When nrApp is set every command is
// recorded as a datastore segment on the request transaction.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, nrApp *newrelic.Application) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if nrApp != nil {
		client.AddHook(nrRedisHook{})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// nrRedisHook implements redis.Hook for New Relic instrumentation.
type nrRedisHook struct{}

func (nrRedisHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (nrRedisHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if txn := newrelic.FromContext(ctx); txn != nil {
			segment := newrelic.DatastoreSegment{
				StartTime:  txn.StartSegmentNow(),
				Product:    newrelic.DatastoreRedis,
				Operation:  cmd.Name(),
				Collection: keyNamespace(cmd),
			}
			defer segment.End()
		}
		return next(ctx, cmd)
	}
}

func (nrRedisHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		if txn := newrelic.FromContext(ctx); txn != nil && len(cmds) > 0 {
			segment := newrelic.DatastoreSegment{
				StartTime:  txn.StartSegmentNow(),
				Product:    newrelic.DatastoreRedis,
				Operation:  "pipeline:" + cmds[0].Name(),
				Collection: keyNamespace(cmds[0]),
			}
			defer segment.End()
		}
		return next(ctx, cmds)
	}
}

// keyNamespace names the store a command touches: "lock", "cache:carbon" or
// "idempotency".
func keyNamespace(cmd redis.Cmder) string {
	args := cmd.Args()
	if len(args) < 2 {
		return "redis"
	}
	key, ok := args[1].(string)
	if !ok {
		return "redis"
	}

	parts := strings.SplitN(key, ":", 3)
	switch {
	case len(parts) == 1:
		return "redis"
	case parts[0] == "cache" && len(parts) == 3:
		return parts[0] + ":" + parts[1]
	default:
		return parts[0]
	}
}
