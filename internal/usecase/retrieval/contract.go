package retrieval

import (
	"github.com/campuskit/courserag/internal/domain/course"
	"github.com/campuskit/courserag/internal/domain/search/result"
)

// VectorSearcher is the dense candidate source contract.
type VectorSearcher interface {
	// Search returns up to poolSize candidates ordered by descending
	// similarity. The query vector must match the index dimension.
	Search(queryVector []float32, poolSize int) ([]result.Candidate, error)
}

// LexicalSearcher is the sparse candidate source contract. Tokenization is
// owned by the implementation so that build-time and query-time terms agree.
type LexicalSearcher interface {
	// Search returns up to poolSize candidates ordered by descending score.
	// No term overlap yields an empty list.
	Search(query string, poolSize int) []result.Candidate
}

// CourseReader resolves ordinals to course metadata.
type CourseReader interface {
	At(ordinal int) course.Course
	Len() int
}
