// Package tokens stores the ids of revoked access tokens until they expire.
package tokens

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "liceo:revoked:"

// RedisStore keeps revoked token ids in Redis with a TTL matching the token expiry.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil // already expired
	}
	if err := s.client.Set(ctx, keyPrefix+jti, "1", ttl).Err(); err != nil {
		return errors.Wrap(err, "revoking token")
	}
	return nil
}

func (s *RedisStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, keyPrefix+jti).Result()
	if err != nil {
		return false, errors.Wrap(err, "checking token revocation")
	}
	return n > 0, nil
}

// MemoryStore is a process-local store, used when no Redis address is configured.
type MemoryStore struct {
	mutex   sync.Mutex
	revoked map[string]time.Time
	nowFunc func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{revoked: make(map[string]time.Time), nowFunc: time.Now}
}

func (s *MemoryStore) Revoke(_ context.Context, jti string, until time.Time) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.nowFunc()
	if !until.After(now) {
		return nil
	}
	s.revoked[jti] = until
	s.purge(now)
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	until, ok := s.revoked[jti]
	if !ok {
		return false, nil
	}
	if !until.After(s.nowFunc()) {
		delete(s.revoked, jti)
		return false, nil
	}
	return true, nil
}

// purge drops expired entries. Callers hold the lock.
func (s *MemoryStore) purge(now time.Time) {
	for jti, until := range s.revoked {
		if !until.After(now) {
			delete(s.revoked, jti)
		}
	}
}
