package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/campuskit/courserag/internal/domain"
	"github.com/campuskit/courserag/internal/domain/course"
	"github.com/campuskit/courserag/internal/domain/search/filter"
	"github.com/campuskit/courserag/internal/domain/search/fusion"
	"github.com/campuskit/courserag/internal/domain/search/request"
	"github.com/campuskit/courserag/internal/domain/search/result"
)

// --- Mocks ---

type mockVec struct {
	candidates []result.Candidate
	err        error
	gotPool    int
}

func (m *mockVec) Search(_ []float32, poolSize int) ([]result.Candidate, error) {
	m.gotPool = poolSize
	return m.candidates, m.err
}

type mockLex struct {
	candidates []result.Candidate
	gotPool    int
}

func (m *mockLex) Search(_ string, poolSize int) []result.Candidate {
	m.gotPool = poolSize
	return m.candidates
}

type mockDocs struct {
	courses []course.Course
}

func (m *mockDocs) At(ordinal int) course.Course { return m.courses[ordinal] }
func (m *mockDocs) Len() int                     { return len(m.courses) }

type mockEmbedder struct {
	vec []float32
	err error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

// Scenario corpus: A=0 (Computer Science), B=1 (Applied Mathematics),
// C=2 (Computer Science).
func scenarioDocs() *mockDocs {
	return &mockDocs{courses: []course.Course{
		{Code: "CSCI0150", Title: "Intro Programming", Department: "Computer Science", Source: "CAB"},
		{Code: "APMA2070", Title: "Deep Learning", Department: "Applied Mathematics", Source: "CAB"},
		{Code: "CSCI2470", Title: "Advanced AI", Department: "Computer Science", Source: "CAB"},
	}}
}

func newRequest(t *testing.T, k int, strategy fusion.Strategy, filters filter.Expression) request.Request {
	t.Helper()
	req, err := request.New("machine learning", k, 50, strategy, filters)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return req
}

func TestRetrieveScenarioOrder(t *testing.T) {
	vec := &mockVec{candidates: []result.Candidate{
		{Ordinal: 1, Score: 0.9},
		{Ordinal: 2, Score: 0.8},
		{Ordinal: 0, Score: 0.7},
	}}
	lex := &mockLex{candidates: []result.Candidate{
		{Ordinal: 2, Score: 3.0},
		{Ordinal: 0, Score: 2.0},
		{Ordinal: 1, Score: 1.0},
	}}
	svc := New(vec, lex, scenarioDocs(), &mockEmbedder{vec: []float32{1, 0}})

	req := newRequest(t, 3, fusion.Default(), filter.Expression{})
	hits, err := svc.Retrieve(context.Background(), &req)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}

	wantCodes := []string{"APMA2070", "CSCI2470", "CSCI0150"} // B, C, A
	if len(hits) != len(wantCodes) {
		t.Fatalf("hits = %d, want %d", len(hits), len(wantCodes))
	}
	for i, want := range wantCodes {
		if hits[i].Course.Code != want {
			t.Errorf("hit %d = %s, want %s", i, hits[i].Course.Code, want)
		}
	}
}

func TestRetrieveFilterAppliedAfterFusion(t *testing.T) {
	vec := &mockVec{candidates: []result.Candidate{
		{Ordinal: 1, Score: 0.9},
		{Ordinal: 2, Score: 0.8},
		{Ordinal: 0, Score: 0.7},
	}}
	lex := &mockLex{candidates: []result.Candidate{
		{Ordinal: 2, Score: 3.0},
		{Ordinal: 0, Score: 2.0},
		{Ordinal: 1, Score: 1.0},
	}}
	svc := New(vec, lex, scenarioDocs(), &mockEmbedder{vec: []float32{1, 0}})

	cond, err := filter.DepartmentContains("Computer Science")
	if err != nil {
		t.Fatalf("DepartmentContains: %v", err)
	}
	filters, err := filter.NewExpression(cond)
	if err != nil {
		t.Fatalf("NewExpression: %v", err)
	}

	req := newRequest(t, 3, fusion.Default(), filters)
	hits, err := svc.Retrieve(context.Background(), &req)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}

	// B wins fusion but fails the filter: the fused order of the survivors
	// must be preserved, yielding [C, A].
	wantCodes := []string{"CSCI2470", "CSCI0150"}
	if len(hits) != len(wantCodes) {
		t.Fatalf("hits = %d, want %d", len(hits), len(wantCodes))
	}
	for i, want := range wantCodes {
		if hits[i].Course.Code != want {
			t.Errorf("hit %d = %s, want %s", i, hits[i].Course.Code, want)
		}
	}
}

func TestRetrieveTruncatesToK(t *testing.T) {
	vec := &mockVec{candidates: []result.Candidate{
		{Ordinal: 0, Score: 0.9},
		{Ordinal: 1, Score: 0.8},
		{Ordinal: 2, Score: 0.7},
	}}
	svc := New(vec, &mockLex{}, scenarioDocs(), &mockEmbedder{vec: []float32{1, 0}})

	req := newRequest(t, 2, fusion.Default(), filter.Expression{})
	hits, err := svc.Retrieve(context.Background(), &req)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("hits = %d, want 2", len(hits))
	}
}

func TestRetrievePassesPoolSizeToBothLegs(t *testing.T) {
	vec := &mockVec{}
	lex := &mockLex{}
	svc := New(vec, lex, scenarioDocs(), &mockEmbedder{vec: []float32{1, 0}})

	req, err := request.New("query", 5, 17, fusion.Default(), filter.Expression{})
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	if _, err := svc.Retrieve(context.Background(), &req); err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if vec.gotPool != 17 || lex.gotPool != 17 {
		t.Errorf("pool sizes = (%d, %d), want (17, 17)", vec.gotPool, lex.gotPool)
	}
}

func TestRetrieveEmptyLegsIsValidEmptyResult(t *testing.T) {
	svc := New(&mockVec{}, &mockLex{}, scenarioDocs(), &mockEmbedder{vec: []float32{1, 0}})

	req := newRequest(t, 5, fusion.Default(), filter.Expression{})
	hits, err := svc.Retrieve(context.Background(), &req)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("hits = %+v, want empty", hits)
	}
}

func TestRetrieveEmbedErrorPropagates(t *testing.T) {
	svc := New(&mockVec{}, &mockLex{}, scenarioDocs(),
		&mockEmbedder{err: domain.ErrEmbeddingProviderError})

	req := newRequest(t, 5, fusion.Default(), filter.Expression{})
	if _, err := svc.Retrieve(context.Background(), &req); !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Errorf("err = %v, want ErrEmbeddingProviderError", err)
	}
}

func TestRetrieveVectorErrorPropagates(t *testing.T) {
	svc := New(&mockVec{err: domain.ErrVectorDimMismatch}, &mockLex{}, scenarioDocs(),
		&mockEmbedder{vec: []float32{1, 0}})

	req := newRequest(t, 5, fusion.Default(), filter.Expression{})
	if _, err := svc.Retrieve(context.Background(), &req); !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Errorf("err = %v, want ErrVectorDimMismatch", err)
	}
}
