// Package retrieval implements the hybrid retrieval orchestrator: it drives
// the dense and lexical candidate sources, fuses their pools under the
// requested strategy, applies post-fusion filters, and truncates to k.
package retrieval

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campuskit/courserag/internal/domain"
	"github.com/campuskit/courserag/internal/domain/search/request"
	"github.com/campuskit/courserag/internal/domain/search/result"
	"github.com/campuskit/courserag/internal/logger"
	"github.com/campuskit/courserag/internal/metrics"
)

// Service is the public retrieval entry point. It is stateless per call over
// the shared read-only index, so any number of Retrieve calls may run
// concurrently without coordination.
type Service struct {
	vec   VectorSearcher
	lex   LexicalSearcher
	docs  CourseReader
	embed domain.Embedder
}

// New creates a retrieval service.
func New(vec VectorSearcher, lex LexicalSearcher, docs CourseReader, embed domain.Embedder) *Service {
	return &Service{vec: vec, lex: lex, docs: docs, embed: embed}
}

// Retrieve runs one hybrid retrieval: embed the query, gather both candidate
// pools, fuse, filter, truncate to k. Both legs empty is a valid empty
// outcome, not an error. The two leg calls are order-independent.
func (s *Service) Retrieve(ctx context.Context, req *request.Request) ([]result.Hit, error) {
	start := time.Now()
	strategy := string(req.Strategy().Kind())

	hits, err := s.retrieve(ctx, req)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RetrievalRequestsTotal.WithLabelValues(strategy, status).Inc()
	metrics.RetrievalDuration.WithLabelValues(strategy).Observe(time.Since(start).Seconds())

	return hits, err
}

func (s *Service) retrieve(ctx context.Context, req *request.Request) ([]result.Hit, error) {
	embResult, err := s.embed.Embed(ctx, req.Query())
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	semantic, err := s.vec.Search(embResult.Embedding, req.PoolSize())
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	lexical := s.lex.Search(req.Query(), req.PoolSize())

	metrics.RetrievalCandidates.WithLabelValues("semantic").Observe(float64(len(semantic)))
	metrics.RetrievalCandidates.WithLabelValues("lexical").Observe(float64(len(lexical)))

	fused := fuse(semantic, lexical, req.Strategy())

	// Filtering happens strictly after fusion so the ranking reflects the
	// full corpus signal and filters only narrow the output.
	hits := make([]result.Hit, 0, min(req.K(), len(fused)))
	for _, f := range fused {
		rec := s.docs.At(f.Ordinal)
		if !req.Filters().IsEmpty() && !req.Filters().Matches(rec) {
			continue
		}
		hits = append(hits, result.Hit{Course: rec, Ordinal: f.Ordinal, Score: f.Score})
		if len(hits) == req.K() {
			break
		}
	}

	metrics.RetrievalResults.Observe(float64(len(hits)))
	logger.FromContext(ctx).Debug("retrieval complete",
		zap.String("strategy", string(req.Strategy().Kind())),
		zap.Int("semantic_candidates", len(semantic)),
		zap.Int("lexical_candidates", len(lexical)),
		zap.Int("fused", len(fused)),
		zap.Int("hits", len(hits)),
	)

	return hits, nil
}
