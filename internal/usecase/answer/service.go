// Package answer assembles retrieval context and drives the external
// answer-generation collaborator. Retrieval never depends on this package.
package answer

import (
	"context"
	"fmt"

	"github.com/campuskit/courserag/internal/domain/search/result"
)

const systemPrompt = `You are a helpful academic advisor for Brown University.
Answer the user's question using ONLY the course information provided below.
Cite course codes (e.g. CSCI0150) when referencing specific courses.
If the answer is not in the provided context, say so clearly.
Be concise and factual.`

// Service generates prose answers from retrieved courses.
type Service struct {
	gen Generator
}

// New creates an answer service. gen may be nil: the service then runs in
// retrieval-only mode and returns the assembled context with an empty answer.
func New(gen Generator) *Service {
	return &Service{gen: gen}
}

// Answer assembles the context from hits and, when a generator is configured,
// produces a prose answer. Empty hits yield empty answer and context.
func (s *Service) Answer(ctx context.Context, question string, hits []result.Hit) (answer, contextBlock string, err error) {
	if len(hits) == 0 {
		return "", "", nil
	}

	contextBlock = AssembleContext(hits)
	if s.gen == nil {
		return "", contextBlock, nil
	}

	user := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextBlock, question)
	answer, err = s.gen.Generate(ctx, systemPrompt, user)
	if err != nil {
		return "", contextBlock, fmt.Errorf("generate answer: %w", err)
	}
	return answer, contextBlock, nil
}
