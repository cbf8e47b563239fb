// Package redis backs the db.Store contract with rueidis. The serving
// process uses it only for the query-embedding cache, so the store is
// deliberately tiny: get, set-with-ttl, ping.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/campuskit/courserag/internal/db"
)

var _ db.Store = (*Store)(nil)

// Config holds the Redis connection parameters.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
}

// Store is a rueidis-backed key-value store.
type Store struct {
	client rueidis.Client
}

// NewStore connects to Redis. Client-side caching is disabled: cached
// embeddings are read once per unique query, so the local cache would only
// hold memory.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("redis: at least one address is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("redis: connect: %w", err)
	}
	return &Store{client: client}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Do(ctx, s.client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	return nil
}

// Close shuts down the underlying client.
func (s *Store) Close() { s.client.Close() }

// WaitForReady polls until Redis answers a ping or the timeout expires.
// Startup calls it so the server does not begin serving with a cold,
// unreachable cache it would then log warnings about on every query.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	deadline, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		if err := s.Ping(deadline); err == nil {
			return nil
		}
		select {
		case <-deadline.Done():
			return fmt.Errorf("redis: not ready after %s: %w", timeout, deadline.Err())
		case <-ticker.C:
		}
	}
}
