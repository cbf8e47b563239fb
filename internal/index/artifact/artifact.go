// Package artifact reads and writes the offline index artifacts: the
// ordinal-ordered course metadata (JSON) and the embedding matrix (a
// little-endian float32 blob with a count/dimension header). The offline
// indexer writes them; the serving process only reads.
package artifact

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/campuskit/courserag/internal/domain"
	"github.com/campuskit/courserag/internal/domain/course"
)

// Artifact file names within the data directory.
const (
	CoursesFile    = "courses.json"
	EmbeddingsFile = "embeddings.bin"
)

// magic identifies the embeddings blob format.
var magic = [4]byte{'C', 'R', 'V', '1'}

const headerSize = 4 + 4 + 4 // magic + count + dim

// SaveCourses writes the ordinal-ordered course list.
func SaveCourses(dir string, courses []course.Course) error {
	data, err := json.MarshalIndent(courses, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal courses: %w", err)
	}
	path := filepath.Join(dir, CoursesFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadCourses reads the ordinal-ordered course list.
func LoadCourses(dir string) ([]course.Course, error) {
	path := filepath.Join(dir, CoursesFile)
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (run the indexer first)", domain.ErrIndexArtifactMissing, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var courses []course.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrIndexArtifactMissing, path, err)
	}
	if len(courses) == 0 {
		return nil, fmt.Errorf("%w: %s holds zero records", domain.ErrIndexArtifactMissing, path)
	}
	return courses, nil
}

// SaveEmbeddings writes the embedding matrix. All rows must share one dimension.
func SaveEmbeddings(dir string, vectors [][]float32) error {
	if len(vectors) == 0 {
		return fmt.Errorf("no vectors to save")
	}
	dim := len(vectors[0])

	buf := make([]byte, headerSize+len(vectors)*dim*4)
	copy(buf, magic[:])
	binary.LittleEndian.PutUint32(buf[4:], uint32(len(vectors)))
	binary.LittleEndian.PutUint32(buf[8:], uint32(dim))

	off := headerSize
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("row %d has dimension %d, want %d", i, len(v), dim)
		}
		for _, f := range v {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(f))
			off += 4
		}
	}

	path := filepath.Join(dir, EmbeddingsFile)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadEmbeddings reads the embedding matrix.
func LoadEmbeddings(dir string) ([][]float32, error) {
	path := filepath.Join(dir, EmbeddingsFile)
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (run the indexer first)", domain.ErrIndexArtifactMissing, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) < headerSize || [4]byte(data[:4]) != magic {
		return nil, fmt.Errorf("%w: %s has an invalid header", domain.ErrIndexArtifactMissing, path)
	}

	count := int(binary.LittleEndian.Uint32(data[4:]))
	dim := int(binary.LittleEndian.Uint32(data[8:]))
	if count == 0 || dim == 0 {
		return nil, fmt.Errorf("%w: %s declares an empty matrix", domain.ErrIndexArtifactMissing, path)
	}
	// Validate against the payload by division so a crafted header with huge
	// count/dim values cannot overflow the expected-size arithmetic.
	payload := int64(len(data) - headerSize)
	rowBytes := int64(dim) * 4
	if payload%rowBytes != 0 || payload/rowBytes != int64(count) {
		return nil, fmt.Errorf("%w: %s holds %d payload bytes, want %d rows of %d bytes",
			domain.ErrIndexArtifactMissing, path, payload, count, rowBytes)
	}

	vectors := make([][]float32, count)
	off := headerSize
	for i := range vectors {
		row := make([]float32, dim)
		for j := range row {
			row[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
		vectors[i] = row
	}
	return vectors, nil
}
