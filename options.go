package courserag

import "context"

// EmbeddingResult carries an embedding vector plus token accounting.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder converts query text into an L2-normalized vector. Implementations
// must match the model and normalization the index was built with.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// Generator produces a prose answer from a system prompt and user message.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	embedder         Embedder
	generator        Generator
	queryInstruction string
}

// WithEmbedder sets the query embedding provider. Required for Retrieve and Ask.
func WithEmbedder(e Embedder) Option {
	return func(c *clientConfig) {
		c.embedder = e
	}
}

// WithGenerator sets the answer-generation provider. Without it, Ask returns
// the assembled context with an empty answer.
func WithGenerator(g Generator) Option {
	return func(c *clientConfig) {
		c.generator = g
	}
}

// WithQueryInstruction prefixes every query before embedding, for models
// trained with instruction-tuned retrieval prompts.
func WithQueryInstruction(instruction string) Option {
	return func(c *clientConfig) {
		c.queryInstruction = instruction
	}
}
