package health

import "context"

// IndexStats reports the size of the loaded retrieval index.
type IndexStats interface {
	Len() int
	Dim() int
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
