package embcache

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/campuskit/courserag/internal/db"
	"github.com/campuskit/courserag/internal/domain"
)

// --- Mocks ---

type mockStore struct {
	data    map[string][]byte
	getErr  error
	setErr  error
	lastTTL time.Duration
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string][]byte)}
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.lastTTL = ttl
	return nil
}

type countingEmbedder struct {
	calls  int
	result domain.EmbeddingResult
	err    error
}

func (e *countingEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	e.calls++
	return e.result, e.err
}

func TestEmbedCachesResult(t *testing.T) {
	inner := &countingEmbedder{result: domain.EmbeddingResult{
		Embedding:   []float32{0.1, -0.2, 0.3},
		TotalTokens: 7,
	}}
	store := newMockStore()
	cached := New(inner, store, time.Hour, nil, zap.NewNop())

	first, err := cached.Embed(context.Background(), "intro programming")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("inner calls = %d, want 1", inner.calls)
	}
	if store.lastTTL != time.Hour {
		t.Errorf("ttl = %v, want 1h", store.lastTTL)
	}

	second, err := cached.Embed(context.Background(), "intro programming")
	if err != nil {
		t.Fatalf("Embed (cached): %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, second call must hit the cache", inner.calls)
	}
	if !reflect.DeepEqual(first.Embedding, second.Embedding) {
		t.Errorf("cached vector = %v, want %v", second.Embedding, first.Embedding)
	}
	if second.TotalTokens != 0 {
		t.Errorf("cached TotalTokens = %d, want 0", second.TotalTokens)
	}
}

func TestEmbedDistinctTextsDistinctKeys(t *testing.T) {
	inner := &countingEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}
	store := newMockStore()
	cached := New(inner, store, time.Hour, nil, zap.NewNop())

	if _, err := cached.Embed(context.Background(), "one"); err != nil {
		t.Fatal(err)
	}
	if _, err := cached.Embed(context.Background(), "two"); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("inner calls = %d, want 2 for distinct texts", inner.calls)
	}
	if len(store.data) != 2 {
		t.Errorf("stored keys = %d, want 2", len(store.data))
	}
}

func TestEmbedStoreFailuresFallThrough(t *testing.T) {
	inner := &countingEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1, 2}}}
	store := newMockStore()
	store.getErr = errors.New("redis down")
	store.setErr = errors.New("redis down")
	cached := New(inner, store, time.Hour, nil, zap.NewNop())

	result, err := cached.Embed(context.Background(), "query")
	if err != nil {
		t.Fatalf("cache failures must not break embedding: %v", err)
	}
	if !reflect.DeepEqual(result.Embedding, []float32{1, 2}) {
		t.Errorf("embedding = %v", result.Embedding)
	}
}

func TestEmbedInnerErrorPropagates(t *testing.T) {
	inner := &countingEmbedder{err: domain.ErrEmbeddingProviderError}
	cached := New(inner, newMockStore(), time.Hour, nil, zap.NewNop())

	_, err := cached.Embed(context.Background(), "query")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Errorf("err = %v, want ErrEmbeddingProviderError", err)
	}
}

func TestEmbedCorruptCacheEntryIgnored(t *testing.T) {
	inner := &countingEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}
	store := newMockStore()
	cached := New(inner, store, time.Hour, nil, zap.NewNop())

	// Pre-poison the key with a payload that is not a multiple of 4 bytes.
	store.data[cached.cacheKey("query")] = []byte{1, 2, 3}

	result, err := cached.Embed(context.Background(), "query")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, corrupt entry must fall through to the provider", inner.calls)
	}
	if !reflect.DeepEqual(result.Embedding, []float32{1}) {
		t.Errorf("embedding = %v", result.Embedding)
	}
}

func TestVectorCodecRoundTrip(t *testing.T) {
	in := []float32{0.5, -1.25, 3.75, 0}
	out, err := decodeVector(encodeVector(in))
	if err != nil {
		t.Fatalf("decodeVector: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip = %v, want %v", out, in)
	}
}
