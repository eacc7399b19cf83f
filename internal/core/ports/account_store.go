package ports

import "context"

// AccountStore is the durable key-value slot the created account is written to.
type AccountStore interface {
	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
	// Get returns the value stored under key, or domain.ErrAccountNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}
