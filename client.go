// Package courserag embeds the hybrid course-retrieval engine in-process:
// it loads the index artifacts produced by the offline indexer and answers
// natural-language queries without running the HTTP server.
package courserag

import (
	"context"
	"errors"
	"fmt"

	"github.com/campuskit/courserag/internal/domain"
	"github.com/campuskit/courserag/internal/index"
	answeruc "github.com/campuskit/courserag/internal/usecase/answer"
	retrievaluc "github.com/campuskit/courserag/internal/usecase/retrieval"
)

// Client is the courserag library entry point. It is safe for concurrent use:
// the index is read-only after Open.
type Client struct {
	idx       *index.Index
	retrieval *retrievaluc.Service
	answer    *answeruc.Service
}

// Open loads the index artifacts from dataDir and wires the retrieval engine.
func Open(dataDir string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}

	idx, err := index.Load(dataDir)
	if err != nil {
		return nil, fmt.Errorf("courserag: load index: %w", err)
	}

	var domEmb domain.Embedder = &noopEmbedder{}
	if cfg.embedder != nil {
		domEmb = &embedderAdapter{inner: cfg.embedder}
	}
	if cfg.queryInstruction != "" {
		domEmb = domain.NewInstructionEmbedder(domEmb, cfg.queryInstruction)
	}

	var gen answeruc.Generator
	if cfg.generator != nil {
		gen = cfg.generator
	}

	return &Client{
		idx:       idx,
		retrieval: retrievaluc.New(idx.Vector(), idx.Lexical(), idx, domEmb),
		answer:    answeruc.New(gen),
	}, nil
}

// Len returns the number of indexed courses.
func (c *Client) Len() int { return c.idx.Len() }

// Dim returns the embedding dimension of the loaded index.
func (c *Client) Dim() int { return c.idx.Dim() }

// embedderAdapter wraps the public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// noopEmbedder returns an error on Embed (used when no embedder is configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, errors.New(
		"courserag: embedder not configured (use WithEmbedder)",
	)
}
