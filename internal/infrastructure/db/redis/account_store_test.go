package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/projecthub/account-entry/internal/core/domain"
)

func TestAccountStore_Key(t *testing.T) {
	cases := []struct {
		prefix, key, want string
	}{
		{"", "user", "user"},
		{"accounts", "user", "accounts:user"},
	}
	for _, tc := range cases {
		s := NewAccountStore(nil, tc.prefix, 0)
		if got := s.key(tc.key); got != tc.want {
			t.Fatalf("prefix %q: expected %q, got %q", tc.prefix, tc.want, got)
		}
	}
}

func TestAccountStore_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	s := NewAccountStore(client, "accounts", 0)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := s.Put(ctx, "user", []byte("{}"))
	if err == nil {
		t.Fatalf("expected error from unreachable redis")
	}
	if errors.Is(err, redis.Nil) || errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("connection errors must not look like a missing key")
	}
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if err := s.Ping(ctx); err == nil {
		t.Fatalf("expected ping error")
	}
}
