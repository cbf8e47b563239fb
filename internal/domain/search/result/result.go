// Package result defines the transient scoring records flowing through
// the retrieval pipeline: per-leg candidates, fused entries, and the
// final document-resolved hits.
package result

import "github.com/campuskit/courserag/internal/domain/course"

// Candidate is a (document ordinal, raw leg score) pair produced by one
// candidate source. Raw scores from different legs are not comparable.
type Candidate struct {
	Ordinal int
	Score   float64
}

// Fused is a (document ordinal, fused score) pair. Fused lists are totally
// ordered by descending score with ties broken by ascending ordinal.
type Fused struct {
	Ordinal int
	Score   float64
}

// Hit is a fused entry resolved to its document for the caller.
type Hit struct {
	Course  course.Course
	Ordinal int
	Score   float64
}
