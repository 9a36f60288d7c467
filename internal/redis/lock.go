package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only while it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockStore handles distributed locking in Redis. Each acquired lock holds a
// random token so that an instance whose lock expired cannot release the lock
// another instance has taken since.
type LockStore struct {
	client *redis.Client

	mu     sync.Mutex
	tokens map[string]string
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{
		client: client,
		tokens: make(map[string]string),
	}
}

// AcquireLock attempts to acquire the named lock.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireLock(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	token := uuid.NewString()

	ok, err := s.client.SetNX(ctx, lockKey(name), token, ttl).Result()
	if err != nil {
		return false, err
	}
	if ok {
		s.mu.Lock()
		s.tokens[name] = token
		s.mu.Unlock()
	}

	return ok, nil
}

// ReleaseLock releases the named lock if this store still owns it.
// Releasing a lock that was never acquired here is a no-op.
func (s *LockStore) ReleaseLock(ctx context.Context, name string) error {
	s.mu.Lock()
	token, ok := s.tokens[name]
	delete(s.tokens, name)
	s.mu.Unlock()

	if !ok {
		return nil
	}
	return releaseScript.Run(ctx, s.client, []string{lockKey(name)}, token).Err()
}

// holds reports whether this store has a token for the named lock.
func (s *LockStore) holds(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tokens[name]
	return ok
}

func lockKey(name string) string {
	return fmt.Sprintf("lock:%s", name)
}
