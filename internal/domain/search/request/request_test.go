package request

import (
	"errors"
	"strings"
	"testing"

	"github.com/campuskit/courserag/internal/domain"
	"github.com/campuskit/courserag/internal/domain/search/filter"
	"github.com/campuskit/courserag/internal/domain/search/fusion"
)

func TestNewValid(t *testing.T) {
	req, err := New("machine learning", 5, 50, fusion.Default(), filter.Expression{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if req.Query() != "machine learning" || req.K() != 5 || req.PoolSize() != 50 {
		t.Errorf("unexpected request: query=%q k=%d pool=%d", req.Query(), req.K(), req.PoolSize())
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		k        int
		poolSize int
	}{
		{"empty query", "", 5, 50},
		{"query too long", strings.Repeat("a", MaxQueryLength+1), 5, 50},
		{"zero k", "q", 0, 50},
		{"negative k", "q", -3, 50},
		{"k too large", "q", MaxK + 1, 50},
		{"zero pool", "q", 5, 0},
		{"negative pool", "q", 5, -1},
		{"pool too large", "q", 5, MaxPool + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.query, tt.k, tt.poolSize, fusion.Default(), filter.Expression{})
			if !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("err = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

// A non-positive pool size must be rejected every time, never surfaced as a
// partial result.
func TestNewZeroPoolRejectedConsistently(t *testing.T) {
	for i := 0; i < 2; i++ {
		_, err := New("identical query", 5, 0, fusion.Default(), filter.Expression{})
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Fatalf("attempt %d: err = %v, want ErrInvalidRequest", i+1, err)
		}
	}
}
