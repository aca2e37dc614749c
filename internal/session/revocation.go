package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore records token ids that have been logged out before their
// expiry. Entries only need to live as long as the token would have.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// MemoryRevocationStore is the single-process fallback used when no Redis
// address is configured, and in tests.
type MemoryRevocationStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{entries: make(map[string]time.Time)}
}

func (s *MemoryRevocationStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[jti] = time.Now().Add(ttl)
	return nil
}

func (s *MemoryRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.entries[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(s.entries, jti)
		return false, nil
	}
	return true, nil
}

// RedisRevocationStore shares revocations across server instances.
type RedisRevocationStore struct {
	client *redis.Client
}

func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

func revocationKey(jti string) string {
	return "session:revoked:" + jti
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := s.client.Set(ctx, revocationKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to record revocation: %w", err)
	}
	return nil
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, revocationKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check revocation: %w", err)
	}
	return n > 0, nil
}

var (
	_ RevocationStore = (*MemoryRevocationStore)(nil)
	_ RevocationStore = (*RedisRevocationStore)(nil)
)
