package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss signals that a key is not cached.
var ErrMiss = errors.New("cache miss")

// Cache is the key-value contract the service caches through.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}
