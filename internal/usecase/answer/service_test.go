package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/campuskit/courserag/internal/domain"
	"github.com/campuskit/courserag/internal/domain/course"
	"github.com/campuskit/courserag/internal/domain/search/result"
)

// --- Mocks ---

type mockGenerator struct {
	answer     string
	err        error
	gotSystem  string
	gotUser    string
	called     bool
}

func (m *mockGenerator) Generate(_ context.Context, system, user string) (string, error) {
	m.called = true
	m.gotSystem = system
	m.gotUser = user
	return m.answer, m.err
}

func sampleHits() []result.Hit {
	return []result.Hit{
		{
			Course: course.Course{
				Code:        "CSCI0150",
				Title:       "Intro Programming",
				Department:  "Computer Science",
				Description: "Learn OOP",
				Source:      course.SourceCAB,
			},
			Ordinal: 0,
			Score:   0.9,
		},
		{
			Course: course.Course{
				Code:          "CSCI2470",
				Title:         "Advanced AI",
				Department:    "Computer Science",
				Description:   "Deep learning",
				Prerequisites: "CSCI1470",
				Source:        course.SourceBulletin,
			},
			Ordinal: 2,
			Score:   0.7,
		},
	}
}

func TestAssembleContextFormat(t *testing.T) {
	got := AssembleContext(sampleHits())

	for _, want := range []string{
		"[CSCI0150] Intro Programming",
		"Department: Computer Science",
		"Source: CAB",
		"Description: Learn OOP",
		"Prerequisites: None listed",
		"[CSCI2470] Advanced AI",
		"Prerequisites: CSCI1470",
		"---",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("context missing %q:\n%s", want, got)
		}
	}
}

func TestAssembleContextRespectsBudget(t *testing.T) {
	long := strings.Repeat("very long description ", 400) // ~8.8k chars per block
	hits := []result.Hit{
		{Course: course.Course{Code: "AAAA1000", Title: "First", Description: long}},
		{Course: course.Course{Code: "BBBB2000", Title: "Second", Description: long}},
	}

	got := AssembleContext(hits)
	if len(got) > charBudget+100 {
		t.Errorf("context length = %d, exceeds budget %d", len(got), charBudget)
	}
	if !strings.Contains(got, "[…truncated…]") {
		t.Error("oversized context should carry a truncation marker")
	}
	if strings.Contains(got, "BBBB2000") {
		t.Error("second block should not fit the budget")
	}
}

func TestAssembleContextEmptyHits(t *testing.T) {
	if got := AssembleContext(nil); got != "" {
		t.Errorf("context = %q, want empty", got)
	}
}

func TestAnswerWithGenerator(t *testing.T) {
	gen := &mockGenerator{answer: "Take CSCI0150 first."}
	svc := New(gen)

	answer, contextBlock, err := svc.Answer(context.Background(), "where do I start?", sampleHits())
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if answer != "Take CSCI0150 first." {
		t.Errorf("answer = %q", answer)
	}
	if contextBlock == "" {
		t.Error("context block should be returned")
	}
	if !strings.Contains(gen.gotUser, "where do I start?") {
		t.Errorf("user message missing the question: %q", gen.gotUser)
	}
	if !strings.Contains(gen.gotUser, "CSCI0150") {
		t.Errorf("user message missing the context: %q", gen.gotUser)
	}
	if !strings.Contains(gen.gotSystem, "academic advisor") {
		t.Errorf("unexpected system prompt: %q", gen.gotSystem)
	}
}

func TestAnswerRetrievalOnlyMode(t *testing.T) {
	svc := New(nil)

	answer, contextBlock, err := svc.Answer(context.Background(), "question", sampleHits())
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if answer != "" {
		t.Errorf("answer = %q, want empty without a generator", answer)
	}
	if contextBlock == "" {
		t.Error("context should still be assembled")
	}
}

func TestAnswerEmptyHits(t *testing.T) {
	gen := &mockGenerator{answer: "should not be called"}
	svc := New(gen)

	answer, contextBlock, err := svc.Answer(context.Background(), "question", nil)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if answer != "" || contextBlock != "" {
		t.Errorf("got (%q, %q), want empty", answer, contextBlock)
	}
	if gen.called {
		t.Error("generator must not run without hits")
	}
}

func TestAnswerGeneratorError(t *testing.T) {
	gen := &mockGenerator{err: domain.ErrGenerationProviderError}
	svc := New(gen)

	_, _, err := svc.Answer(context.Background(), "question", sampleHits())
	if !errors.Is(err, domain.ErrGenerationProviderError) {
		t.Errorf("err = %v, want ErrGenerationProviderError", err)
	}
}
