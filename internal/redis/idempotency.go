package redis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyTTL is how long a replayable response is kept.
const IdempotencyTTL = 24 * time.Hour

const idempotencyPrefix = "idempotency:"

// StoredResponse is a response captured for replay.
type StoredResponse struct {
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body"`
	Headers    http.Header     `json:"headers"`
}

// IdempotencyStore keeps responses keyed by idempotency key.
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// GetResponse returns the stored response for key, or nil on a miss.
func (s *IdempotencyStore) GetResponse(ctx context.Context, key string) (*StoredResponse, error) {
	data, err := s.client.Get(ctx, idempotencyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var stored StoredResponse
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// SaveResponse stores a response under key.
func (s *IdempotencyStore) SaveResponse(ctx context.Context, key string, resp *StoredResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, idempotencyPrefix+key, data, IdempotencyTTL).Err()
}
