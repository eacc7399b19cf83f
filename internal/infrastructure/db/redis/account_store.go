package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/projecthub/account-entry/internal/core/domain"
)

// AccountStore keeps the account slot in Redis.
// Key format: <prefix>:<key>, no expiry unless ttl > 0.
type AccountStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewAccountStore wraps client. An empty prefix stores keys verbatim.
func NewAccountStore(client *redis.Client, prefix string, ttl time.Duration) *AccountStore {
	return &AccountStore{client: client, prefix: prefix, ttl: ttl}
}

// Put writes value under key, replacing any previous account.
func (s *AccountStore) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis put %s: %w", domain.ErrStoreUnavailable, key, err)
	}
	return nil
}

// Get reads the value under key.
func (s *AccountStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: redis get %s: %w", domain.ErrStoreUnavailable, key, err)
	}
	return b, nil
}

// Ping checks the connection.
func (s *AccountStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *AccountStore) key(k string) string {
	if s.prefix == "" {
		return k
	}
	return s.prefix + ":" + k
}
