package index

import (
	"github.com/campuskit/courserag/internal/index/artifact"
)

// Load reads the index artifacts from dir and assembles the Index.
// Missing, corrupt, or misaligned artifacts are fatal load-time errors.
func Load(dir string) (*Index, error) {
	courses, err := artifact.LoadCourses(dir)
	if err != nil {
		return nil, err
	}
	vectors, err := artifact.LoadEmbeddings(dir)
	if err != nil {
		return nil, err
	}
	return New(courses, vectors)
}
