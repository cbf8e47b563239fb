// Package embcache decorates an Embedder with a key-value cache so repeated
// queries skip the provider round trip. Caching lives entirely on the
// collaborator side of the encode(text) contract; the retrieval engine
// itself caches nothing.
package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/campuskit/courserag/internal/db"
	"github.com/campuskit/courserag/internal/domain"
)

const cacheKeyPrefix = "courserag:emb_cache:"

// store is the slice of db.Store this package actually needs.
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedEmbedder caches embedding vectors in a key-value store, keyed by a
// hash of the exact input text. Entries expire after ttl so a model or
// instruction change does not serve stale vectors forever.
type CachedEmbedder struct {
	inner      domain.Embedder
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates the caching decorator. cacheTotal is a counter vec labeled by
// "result" ("hit" / "miss"); nil disables cache metrics.
func New(
	inner domain.Embedder,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedEmbedder {
	return &CachedEmbedder{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Embed returns the cached vector when present, otherwise delegates to the
// inner embedder and stores the result. A hit reports zero token usage: no
// provider tokens were consumed. Cache failures degrade to a provider call.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := c.cacheKey(text)

	if vec, ok := c.lookup(ctx, key); ok {
		c.count("hit")
		return domain.EmbeddingResult{Embedding: vec}, nil
	}
	c.count("miss")

	result, err := c.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", err)
	}

	if err := c.store.SetWithTTL(ctx, key, encodeVector(result.Embedding), c.ttl); err != nil {
		c.logger.Warn("Failed to cache embedding", zap.String("key", key), zap.Error(err))
	}
	return result, nil
}

func (c *CachedEmbedder) count(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedEmbedder) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *CachedEmbedder) lookup(ctx context.Context, key string) ([]float32, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Embedding cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	vec, err := decodeVector(data)
	if err != nil {
		// Poisoned entry: ignore it and let the TTL reap it.
		c.logger.Warn("Embedding cache entry is corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return vec, true
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("embedding payload of %d bytes is not a float32 row", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
