package courserag

import (
	"context"
	"fmt"

	"github.com/campuskit/courserag/internal/domain/course"
	"github.com/campuskit/courserag/internal/domain/search/filter"
	"github.com/campuskit/courserag/internal/domain/search/fusion"
	"github.com/campuskit/courserag/internal/domain/search/request"
)

// Strategy selects the score fusion algorithm.
type Strategy string

// Fusion strategy constants.
const (
	StrategyWeighted Strategy = "weighted"
	StrategyRRF      Strategy = "rrf"
)

// QueryOptions configures a retrieval query. Zero values take server-side
// defaults (k=5, pool=50, weighted fusion 0.7/0.3).
type QueryOptions struct {
	K        int
	PoolSize int
	Strategy Strategy
	Alpha    float64
	Beta     float64
	RRFK     int

	// Post-fusion filters. Department matches case-insensitive substrings;
	// Source matches "CAB" or "BULLETIN" exactly.
	Department string
	Source     string
}

// Course is one catalog record.
type Course struct {
	Code          string
	Title         string
	Department    string
	Description   string
	Instructor    string
	MeetingTimes  string
	Prerequisites string
	Source        string
}

// Hit is one retrieval result.
type Hit struct {
	Course  Course
	Ordinal int
	Score   float64
}

// Answer is the result of Ask: the generated answer (empty without a
// generator), the assembled context block, and the hits behind it.
type Answer struct {
	Text    string
	Context string
	Hits    []Hit
}

// Retrieve runs one hybrid retrieval and returns the top-k hits.
func (c *Client) Retrieve(ctx context.Context, query string, opts *QueryOptions) ([]Hit, error) {
	req, err := buildRequest(query, opts)
	if err != nil {
		return nil, fmt.Errorf("courserag: %w", err)
	}

	hits, err := c.retrieval.Retrieve(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("courserag: %w", err)
	}

	out := make([]Hit, len(hits))
	for i, h := range hits {
		out[i] = Hit{Course: fromCourse(h.Course), Ordinal: h.Ordinal, Score: h.Score}
	}
	return out, nil
}

// Ask retrieves and, when a generator is configured, answers the question
// from the retrieved context.
func (c *Client) Ask(ctx context.Context, question string, opts *QueryOptions) (Answer, error) {
	req, err := buildRequest(question, opts)
	if err != nil {
		return Answer{}, fmt.Errorf("courserag: %w", err)
	}

	hits, err := c.retrieval.Retrieve(ctx, &req)
	if err != nil {
		return Answer{}, fmt.Errorf("courserag: %w", err)
	}

	text, contextBlock, err := c.answer.Answer(ctx, question, hits)
	if err != nil {
		return Answer{}, fmt.Errorf("courserag: %w", err)
	}

	out := Answer{Text: text, Context: contextBlock, Hits: make([]Hit, len(hits))}
	for i, h := range hits {
		out.Hits[i] = Hit{Course: fromCourse(h.Course), Ordinal: h.Ordinal, Score: h.Score}
	}
	return out, nil
}

func buildRequest(query string, opts *QueryOptions) (request.Request, error) {
	if opts == nil {
		opts = &QueryOptions{}
	}

	k := opts.K
	if k == 0 {
		k = request.DefaultK
	}
	poolSize := opts.PoolSize
	if poolSize == 0 {
		poolSize = request.DefaultPool
	}

	strategy, err := fusion.Parse(string(opts.Strategy), opts.Alpha, opts.Beta, opts.RRFK)
	if err != nil {
		return request.Request{}, err
	}

	var conditions []filter.Condition
	if opts.Department != "" {
		cond, err := filter.DepartmentContains(opts.Department)
		if err != nil {
			return request.Request{}, err
		}
		conditions = append(conditions, cond)
	}
	if opts.Source != "" {
		cond, err := filter.SourceEquals(opts.Source)
		if err != nil {
			return request.Request{}, err
		}
		conditions = append(conditions, cond)
	}
	filters, err := filter.NewExpression(conditions...)
	if err != nil {
		return request.Request{}, err
	}

	return request.New(query, k, poolSize, strategy, filters)
}

func fromCourse(c course.Course) Course {
	return Course{
		Code:          c.Code,
		Title:         c.Title,
		Department:    c.Department,
		Description:   c.Description,
		Instructor:    c.Instructor,
		MeetingTimes:  c.MeetingTimes,
		Prerequisites: c.Prerequisites,
		Source:        c.Source,
	}
}
