package domain

import "errors"

var (
	// ErrInvalidRequest signals malformed per-query parameters
	// (non-positive k or pool size, unknown fusion strategy, bad weights).
	ErrInvalidRequest = errors.New("invalid request")
	// ErrVectorDimMismatch signals a query vector whose dimension differs from the index.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrIndexMisaligned signals that the embedding matrix and the document list
	// do not cover the same ordinal space.
	ErrIndexMisaligned = errors.New("index misaligned")
	// ErrIndexArtifactMissing signals missing or unreadable index artifacts on disk.
	ErrIndexArtifactMissing = errors.New("index artifact missing")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGenerationProviderError signals an answer-generation provider failure.
	ErrGenerationProviderError = errors.New("generation provider error")
)
