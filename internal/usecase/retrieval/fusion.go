package retrieval

import (
	"sort"

	"github.com/campuskit/courserag/internal/domain/search/fusion"
	"github.com/campuskit/courserag/internal/domain/search/result"
)

// fuse merges the two candidate lists under the selected strategy. The output
// covers the union of ordinals from both legs and is totally ordered by
// descending fused score, ties broken by ascending ordinal. Pure function:
// no hidden state, no randomness.
func fuse(semantic, lexical []result.Candidate, strategy fusion.Strategy) []result.Fused {
	var fused []result.Fused
	switch strategy.Kind() {
	case fusion.Weighted:
		fused = fuseWeighted(semantic, lexical, strategy.Alpha(), strategy.Beta())
	case fusion.RRF:
		fused = fuseRRF(semantic, lexical, strategy.KRRF())
	default:
		// Strategies are validated at construction; an unknown tag here means
		// a zero value slipped past the boundary, so return nothing rather
		// than silently picking an algorithm.
		return nil
	}
	sortFused(fused)
	return fused
}

// fuseWeighted min-max normalizes each leg over its own pool and combines as
// α·semantic + β·lexical. An ordinal absent from a leg contributes 0 for that
// leg; a leg whose score range collapses normalizes every candidate to 1.0.
func fuseWeighted(semantic, lexical []result.Candidate, alpha, beta float64) []result.Fused {
	semNorm := minMaxNormalize(semantic)
	lexNorm := minMaxNormalize(lexical)

	merged := make(map[int]float64, len(semNorm)+len(lexNorm))
	for ordinal, s := range semNorm {
		merged[ordinal] += alpha * s
	}
	for ordinal, s := range lexNorm {
		merged[ordinal] += beta * s
	}

	fused := make([]result.Fused, 0, len(merged))
	for ordinal, score := range merged {
		fused = append(fused, result.Fused{Ordinal: ordinal, Score: score})
	}
	return fused
}

// fuseRRF combines 1-based per-leg ranks as score = Σ 1/(kRRF + rank).
// Rank position is all that matters, so wildly different score scales
// between the legs cannot skew the outcome. An ordinal absent from a
// leg contributes 0 for that leg.
func fuseRRF(semantic, lexical []result.Candidate, kRRF int) []result.Fused {
	merged := make(map[int]float64, len(semantic)+len(lexical))
	for rank, c := range semantic {
		merged[c.Ordinal] += 1.0 / float64(kRRF+rank+1)
	}
	for rank, c := range lexical {
		merged[c.Ordinal] += 1.0 / float64(kRRF+rank+1)
	}

	fused := make([]result.Fused, 0, len(merged))
	for ordinal, score := range merged {
		fused = append(fused, result.Fused{Ordinal: ordinal, Score: score})
	}
	return fused
}

// minMaxNormalize maps a leg's raw scores onto [0, 1] over that leg's own
// pool. A degenerate range (single candidate, or all scores equal) maps
// every candidate to 1.0.
func minMaxNormalize(candidates []result.Candidate) map[int]float64 {
	if len(candidates) == 0 {
		return nil
	}

	lo, hi := candidates[0].Score, candidates[0].Score
	for _, c := range candidates[1:] {
		if c.Score < lo {
			lo = c.Score
		}
		if c.Score > hi {
			hi = c.Score
		}
	}

	normed := make(map[int]float64, len(candidates))
	for _, c := range candidates {
		if hi == lo {
			normed[c.Ordinal] = 1.0
			continue
		}
		normed[c.Ordinal] = (c.Score - lo) / (hi - lo)
	}
	return normed
}

// sortFused orders by descending fused score, ties by ascending ordinal,
// so identical inputs always reproduce identical output order.
func sortFused(fused []result.Fused) {
	sort.Slice(fused, func(i, j int) bool {
		if fused[i].Score != fused[j].Score {
			return fused[i].Score > fused[j].Score
		}
		return fused[i].Ordinal < fused[j].Ordinal
	})
}
