// Package memory provides a process-local AccountStore, used in development
// and tests when no external backend is configured.
package memory

import (
	"context"
	"sync"

	"github.com/projecthub/account-entry/internal/core/domain"
)

// AccountStore keeps values in a map guarded by a mutex.
type AccountStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewAccountStore() *AccountStore {
	return &AccountStore{values: make(map[string][]byte)}
}

// Put stores a copy of value under key.
func (s *AccountStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}

// Get returns a copy of the value under key, or domain.ErrAccountNotFound.
func (s *AccountStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *AccountStore) Ping(context.Context) error { return nil }
