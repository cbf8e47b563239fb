// Package db defines the key-value store contract behind the query-embedding
// cache. The engine itself never touches it; only the embedder decorator does.
package db

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound signals a cache miss. Callers treat it as an expected
// outcome, not a failure.
var ErrKeyNotFound = errors.New("db: key not found")

// Store is the key-value contract the embedding cache is built on.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close()
}
