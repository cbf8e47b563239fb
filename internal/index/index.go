// Package index assembles the loaded, read-only retrieval index: the
// embedding matrix, the lexical term statistics, and the parallel
// ordinal-indexed course metadata. One exclusive owner loads it at startup;
// all queries borrow it immutably, so concurrent reads need no coordination.
package index

import (
	"fmt"

	"github.com/campuskit/courserag/internal/domain"
	"github.com/campuskit/courserag/internal/domain/course"
	"github.com/campuskit/courserag/internal/index/lexical"
	"github.com/campuskit/courserag/internal/index/vector"
)

// Index is the loaded corpus: both candidate sources plus metadata, all
// sharing one contiguous zero-based ordinal space.
type Index struct {
	courses []course.Course
	vec     *vector.Index
	lex     *lexical.Index
}

// New builds an Index from parallel course metadata and embedding rows.
// A length mismatch between the two is a fatal configuration error.
func New(courses []course.Course, embeddings [][]float32) (*Index, error) {
	if len(courses) != len(embeddings) {
		return nil, fmt.Errorf("%w: %d courses vs %d embedding rows",
			domain.ErrIndexMisaligned, len(courses), len(embeddings))
	}

	vec, err := vector.New(embeddings)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(courses))
	for i, c := range courses {
		texts[i] = c.EmbedText()
	}

	return &Index{
		courses: courses,
		vec:     vec,
		lex:     lexical.New(texts),
	}, nil
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int { return len(ix.courses) }

// Dim returns the embedding dimension.
func (ix *Index) Dim() int { return ix.vec.Dim() }

// At returns the course at the given ordinal.
func (ix *Index) At(ordinal int) course.Course { return ix.courses[ordinal] }

// Vector returns the dense candidate source.
func (ix *Index) Vector() *vector.Index { return ix.vec }

// Lexical returns the sparse candidate source.
func (ix *Index) Lexical() *lexical.Index { return ix.lex }
