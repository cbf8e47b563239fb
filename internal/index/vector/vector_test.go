package vector

import (
	"errors"
	"testing"

	"github.com/campuskit/courserag/internal/domain"
)

func TestNewRejectsMixedDimensions(t *testing.T) {
	_, err := New([][]float32{{1, 0}, {0, 1, 0}})
	if !errors.Is(err, domain.ErrIndexMisaligned) {
		t.Fatalf("err = %v, want ErrIndexMisaligned", err)
	}
}

func TestSearchOrdersByInnerProduct(t *testing.T) {
	ix, err := New([][]float32{
		{1, 0},       // ordinal 0
		{0, 1},       // ordinal 1
		{0.6, 0.8},   // ordinal 2
		{-1, 0},      // ordinal 3
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	candidates, err := ix.Search([]float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	wantOrder := []int{0, 2, 1, 3} // dots: 1.0, 0.6, 0.0, -1.0
	if len(candidates) != len(wantOrder) {
		t.Fatalf("candidates = %d, want %d", len(candidates), len(wantOrder))
	}
	for i, want := range wantOrder {
		if candidates[i].Ordinal != want {
			t.Errorf("position %d: ordinal = %d, want %d", i, candidates[i].Ordinal, want)
		}
	}
}

func TestSearchTruncatesToPoolSize(t *testing.T) {
	ix, err := New([][]float32{{1, 0}, {0, 1}, {0.5, 0.5}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	candidates, err := ix.Search([]float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(candidates) != 2 {
		t.Errorf("candidates = %d, want 2", len(candidates))
	}
}

func TestSearchTieBreaksByAscendingOrdinal(t *testing.T) {
	ix, err := New([][]float32{{0, 1}, {1, 0}, {1, 0}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	candidates, err := ix.Search([]float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if candidates[0].Ordinal != 1 || candidates[1].Ordinal != 2 {
		t.Errorf("tied ordinals = [%d, %d], want [1, 2]",
			candidates[0].Ordinal, candidates[1].Ordinal)
	}
}

func TestSearchDimensionMismatch(t *testing.T) {
	ix, err := New([][]float32{{1, 0, 0}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := ix.Search([]float32{1, 0}, 10); !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Errorf("err = %v, want ErrVectorDimMismatch", err)
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	ix, err := New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	candidates, err := ix.Search([]float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("Search on empty index: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("candidates = %+v, want empty", candidates)
	}
}
