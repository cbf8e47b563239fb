// Package chi exposes the retrieval engine over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/campuskit/courserag/internal/domain"
	"github.com/campuskit/courserag/internal/domain/course"
	"github.com/campuskit/courserag/internal/domain/search/filter"
	"github.com/campuskit/courserag/internal/domain/search/fusion"
	"github.com/campuskit/courserag/internal/domain/search/request"
	answeruc "github.com/campuskit/courserag/internal/usecase/answer"
	healthuc "github.com/campuskit/courserag/internal/usecase/health"
	retrievaluc "github.com/campuskit/courserag/internal/usecase/retrieval"
)

// Error codes returned in the JSON error body.
const (
	codeBadRequest              = "bad_request"
	codeInvalidRequest          = "invalid_request"
	codeVectorDimMismatch       = "vector_dim_mismatch"
	codeEmbeddingProviderError  = "embedding_provider_error"
	codeGenerationProviderError = "generation_provider_error"
	codeInternalError           = "internal_error"
)

// Defaults are the server-side query parameters used when a request
// omits them.
type Defaults struct {
	K        int
	PoolSize int
	Strategy fusion.Strategy
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server handles the HTTP API.
type Server struct {
	retrieval     *retrievaluc.Service
	answer        *answeruc.Service
	health        *healthuc.Service
	defaults      Defaults
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	retrieval *retrievaluc.Service,
	answer *answeruc.Service,
	health *healthuc.Service,
	defaults Defaults,
	logger *zap.Logger,
) *Server {
	s := &Server{
		retrieval: retrieval,
		answer:    answer,
		health:    health,
		defaults:  defaults,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, codeInvalidRequest),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, codeVectorDimMismatch),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderError),
		sentinelHandler(domain.ErrGenerationProviderError, http.StatusBadGateway, codeGenerationProviderError),
	}
	return s
}

// Routes registers the API endpoints on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/v1/query", s.Query)
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// queryRequest is the POST /v1/query body.
type queryRequest struct {
	Query    string        `json:"query"`
	K        int           `json:"k,omitempty"`
	PoolSize int           `json:"pool_size,omitempty"`
	Strategy string        `json:"strategy,omitempty"` // weighted, rrf
	Alpha    float64       `json:"alpha,omitempty"`
	Beta     float64       `json:"beta,omitempty"`
	RRFK     int           `json:"rrf_k,omitempty"`
	Filters  *queryFilters `json:"filters,omitempty"`
	Generate bool          `json:"generate,omitempty"`
}

type queryFilters struct {
	Department string `json:"department,omitempty"`
	Source     string `json:"source,omitempty"`
}

type hitItem struct {
	Course  course.Course `json:"course"`
	Ordinal int           `json:"ordinal"`
	Score   float64       `json:"score"`
}

type queryResponse struct {
	Hits    []hitItem `json:"hits"`
	Total   int       `json:"total"`
	Answer  string    `json:"answer,omitempty"`
	Context string    `json:"context,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Query handles POST /v1/query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	searchReq, err := s.searchRequestFromJSON(req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	hits, err := s.retrieval.Retrieve(r.Context(), &searchReq)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := queryResponse{
		Hits:  make([]hitItem, len(hits)),
		Total: len(hits),
	}
	for i, h := range hits {
		resp.Hits[i] = hitItem{Course: h.Course, Ordinal: h.Ordinal, Score: h.Score}
	}

	if req.Generate {
		answer, contextBlock, err := s.answer.Answer(r.Context(), req.Query, hits)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		resp.Answer = answer
		resp.Context = contextBlock
	}

	writeJSON(w, http.StatusOK, resp)
}

// searchRequestFromJSON maps the wire body onto a validated domain request,
// filling server defaults for omitted parameters. Explicit zero or negative
// values are passed through so validation rejects them.
func (s *Server) searchRequestFromJSON(req queryRequest) (request.Request, error) {
	k := req.K
	if k == 0 {
		k = s.defaults.K
	}
	poolSize := req.PoolSize
	if poolSize == 0 {
		poolSize = s.defaults.PoolSize
	}

	strategy := s.defaults.Strategy
	if req.Strategy != "" {
		var err error
		strategy, err = fusion.Parse(req.Strategy, req.Alpha, req.Beta, req.RRFK)
		if err != nil {
			return request.Request{}, err
		}
	}

	filters, err := filtersFromJSON(req.Filters)
	if err != nil {
		return request.Request{}, err
	}

	return request.New(req.Query, k, poolSize, strategy, filters)
}

func filtersFromJSON(f *queryFilters) (filter.Expression, error) {
	if f == nil {
		return filter.Expression{}, nil
	}

	var conditions []filter.Condition
	if f.Department != "" {
		cond, err := filter.DepartmentContains(f.Department)
		if err != nil {
			return filter.Expression{}, domainInvalid(err)
		}
		conditions = append(conditions, cond)
	}
	if f.Source != "" {
		cond, err := filter.SourceEquals(f.Source)
		if err != nil {
			return filter.Expression{}, domainInvalid(err)
		}
		conditions = append(conditions, cond)
	}

	expr, err := filter.NewExpression(conditions...)
	if err != nil {
		return filter.Expression{}, domainInvalid(err)
	}
	return expr, nil
}

func domainInvalid(err error) error {
	return errors.Join(domain.ErrInvalidRequest, err)
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":     report.Status,
		"index_size": report.IndexSize,
		"index_dim":  report.IndexDim,
		"checks":     report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrVectorDimMismatch,
		domain.ErrIndexMisaligned,
		domain.ErrEmbeddingProviderError,
		domain.ErrGenerationProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
