// Package request defines the validated per-query configuration.
package request

import (
	"fmt"

	"github.com/campuskit/courserag/internal/domain"
	"github.com/campuskit/courserag/internal/domain/search/filter"
	"github.com/campuskit/courserag/internal/domain/search/fusion"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultK       = 5
	MaxK           = 100
	DefaultPool    = 50
	MaxPool        = 500
)

// Request is a validated retrieval query. It is constructed per call,
// immutable, and discarded when the call completes.
type Request struct {
	query    string
	k        int
	poolSize int
	strategy fusion.Strategy
	filters  filter.Expression
}

// New validates and creates a retrieval request. k and poolSize must be
// positive: a zero or negative value is a caller configuration error,
// not a default to be filled in.
func New(
	query string,
	k, poolSize int,
	strategy fusion.Strategy,
	filters filter.Expression,
) (Request, error) {
	if query == "" {
		return Request{}, fmt.Errorf("%w: query is required", domain.ErrInvalidRequest)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	if k <= 0 {
		return Request{}, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidRequest, k)
	}
	if k > MaxK {
		return Request{}, fmt.Errorf("%w: k too large (max %d)", domain.ErrInvalidRequest, MaxK)
	}
	if poolSize <= 0 {
		return Request{}, fmt.Errorf("%w: pool size must be positive, got %d", domain.ErrInvalidRequest, poolSize)
	}
	if poolSize > MaxPool {
		return Request{}, fmt.Errorf("%w: pool size too large (max %d)", domain.ErrInvalidRequest, MaxPool)
	}
	return Request{
		query:    query,
		k:        k,
		poolSize: poolSize,
		strategy: strategy,
		filters:  filters,
	}, nil
}

// Query returns the free-text query.
func (r *Request) Query() string { return r.query }

// K returns the requested result count.
func (r *Request) K() int { return r.k }

// PoolSize returns the candidate pool size per leg.
func (r *Request) PoolSize() int { return r.poolSize }

// Strategy returns the fusion strategy.
func (r *Request) Strategy() fusion.Strategy { return r.strategy }

// Filters returns the post-fusion filter expression.
func (r *Request) Filters() filter.Expression { return r.filters }
