// Package vector implements the dense candidate source: exact brute-force
// inner-product search over L2-normalized embeddings. At catalog scale
// (well under 10^6 rows) exhaustive scan beats any index overhead.
package vector

import (
	"fmt"
	"sort"

	"github.com/campuskit/courserag/internal/domain"
	"github.com/campuskit/courserag/internal/domain/search/result"
)

// Index holds the read-only embedding matrix. It is built once at load time
// and never mutated, so concurrent Search calls need no synchronization.
type Index struct {
	vectors [][]float32
	dim     int
}

// New creates a vector index over the given embedding matrix.
// All rows must share one dimension; row order defines the ordinal space.
func New(vectors [][]float32) (*Index, error) {
	ix := &Index{vectors: vectors}
	if len(vectors) == 0 {
		return ix, nil
	}
	ix.dim = len(vectors[0])
	if ix.dim == 0 {
		return nil, fmt.Errorf("%w: zero-dimension embedding at row 0", domain.ErrIndexMisaligned)
	}
	for i, v := range vectors {
		if len(v) != ix.dim {
			return nil, fmt.Errorf("%w: row %d has dimension %d, want %d",
				domain.ErrIndexMisaligned, i, len(v), ix.dim)
		}
	}
	return ix, nil
}

// Len returns the number of indexed vectors.
func (ix *Index) Len() int { return len(ix.vectors) }

// Dim returns the embedding dimension (0 for an empty index).
func (ix *Index) Dim() int { return ix.dim }

// Search returns up to poolSize candidates ordered by descending inner-product
// similarity, ties broken by ascending ordinal. The query must share the index
// dimension and normalization convention; a dimension mismatch is a caller error.
// An empty index yields an empty list.
func (ix *Index) Search(query []float32, poolSize int) ([]result.Candidate, error) {
	if len(ix.vectors) == 0 {
		return nil, nil
	}
	if len(query) != ix.dim {
		return nil, fmt.Errorf("%w: query dimension %d, index dimension %d",
			domain.ErrVectorDimMismatch, len(query), ix.dim)
	}

	candidates := make([]result.Candidate, len(ix.vectors))
	for i, v := range ix.vectors {
		candidates[i] = result.Candidate{Ordinal: i, Score: dot(query, v)}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].Score != candidates[b].Score {
			return candidates[a].Score > candidates[b].Score
		}
		return candidates[a].Ordinal < candidates[b].Ordinal
	})

	if len(candidates) > poolSize {
		candidates = candidates[:poolSize]
	}
	return candidates, nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
