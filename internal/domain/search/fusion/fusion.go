// Package fusion defines the fusion strategy selector and its parameters.
package fusion

import (
	"fmt"

	"github.com/campuskit/courserag/internal/domain"
)

// Kind selects the fusion algorithm.
type Kind string

// Fusion strategy constants.
const (
	// Weighted combines per-leg min-max normalized scores as α·semantic + β·lexical.
	Weighted Kind = "weighted"
	// RRF combines 1-based per-leg ranks as Σ 1/(k + rank).
	RRF Kind = "rrf"
)

// Defaults. Weights lean semantic: keyword overlap is a sharp, high-precision
// signal better used as a tie-breaker than the dominant ranker. The RRF
// constant is the standard value from Cormack et al. 2009.
const (
	DefaultAlpha = 0.7
	DefaultBeta  = 0.3
	DefaultKRRF  = 60
)

// Strategy is a validated tagged variant: Kind plus the parameters of that
// kind. Weights apply to Weighted, KRRF to RRF.
type Strategy struct {
	kind  Kind
	alpha float64
	beta  float64
	kRRF  int
}

// NewWeighted creates a weighted-sum strategy.
// Weights must be non-negative and not both zero; they are not required to sum to 1.
func NewWeighted(alpha, beta float64) (Strategy, error) {
	if alpha < 0 || beta < 0 {
		return Strategy{}, fmt.Errorf("%w: fusion weights must be non-negative", domain.ErrInvalidRequest)
	}
	if alpha == 0 && beta == 0 {
		return Strategy{}, fmt.Errorf("%w: at least one fusion weight must be positive", domain.ErrInvalidRequest)
	}
	return Strategy{kind: Weighted, alpha: alpha, beta: beta}, nil
}

// NewRRF creates a reciprocal-rank-fusion strategy with the given damping constant.
func NewRRF(kRRF int) (Strategy, error) {
	if kRRF <= 0 {
		return Strategy{}, fmt.Errorf("%w: rrf constant must be positive", domain.ErrInvalidRequest)
	}
	return Strategy{kind: RRF, kRRF: kRRF}, nil
}

// Default returns the weighted-sum strategy with α=0.7, β=0.3.
func Default() Strategy {
	return Strategy{kind: Weighted, alpha: DefaultAlpha, beta: DefaultBeta}
}

// Parse resolves a strategy selector string ("weighted", "rrf", "" = default).
func Parse(selector string, alpha, beta float64, kRRF int) (Strategy, error) {
	switch Kind(selector) {
	case "":
		return Default(), nil
	case Weighted:
		if alpha == 0 && beta == 0 {
			alpha, beta = DefaultAlpha, DefaultBeta
		}
		return NewWeighted(alpha, beta)
	case RRF:
		if kRRF == 0 {
			kRRF = DefaultKRRF
		}
		return NewRRF(kRRF)
	default:
		return Strategy{}, fmt.Errorf("%w: unknown fusion strategy %q", domain.ErrInvalidRequest, selector)
	}
}

// Kind returns the strategy tag.
func (s Strategy) Kind() Kind { return s.kind }

// Alpha returns the semantic-leg weight (Weighted only).
func (s Strategy) Alpha() float64 { return s.alpha }

// Beta returns the lexical-leg weight (Weighted only).
func (s Strategy) Beta() float64 { return s.beta }

// KRRF returns the rank damping constant (RRF only).
func (s Strategy) KRRF() int { return s.kRRF }
