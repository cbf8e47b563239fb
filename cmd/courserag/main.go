package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/campuskit/courserag/internal/config"
	"github.com/campuskit/courserag/internal/db"
	dbRedis "github.com/campuskit/courserag/internal/db/redis"
	"github.com/campuskit/courserag/internal/domain"
	"github.com/campuskit/courserag/internal/domain/search/fusion"
	"github.com/campuskit/courserag/internal/index"
	logpkg "github.com/campuskit/courserag/internal/logger"
	"github.com/campuskit/courserag/internal/metrics"
	"github.com/campuskit/courserag/internal/repository/embcache"
	chiTransport "github.com/campuskit/courserag/internal/transport/chi"
	openaiProv "github.com/campuskit/courserag/internal/transport/openai"
	answeruc "github.com/campuskit/courserag/internal/usecase/answer"
	healthuc "github.com/campuskit/courserag/internal/usecase/health"
	retrievaluc "github.com/campuskit/courserag/internal/usecase/retrieval"
	"github.com/campuskit/courserag/internal/version"
)

func main() {
	// .env is optional; real deployments set variables in the environment.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting courserag API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("data_dir", cfg.Index.DataDir),
	)

	// Load the index artifacts. A missing or misaligned index is fatal:
	// the server never answers queries over a partial corpus.
	idx, err := index.Load(cfg.Index.DataDir)
	if err != nil {
		logger.Fatal("Failed to load index", zap.Error(err))
	}
	logger.Info("Index loaded",
		zap.Int("courses", idx.Len()),
		zap.Int("dimensions", idx.Dim()),
	)

	// Optional query-embedding cache.
	var store db.Store
	if len(cfg.Cache.Addrs) > 0 {
		redisStore, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer redisStore.Close()

		if err := redisStore.WaitForReady(context.Background(), 10*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		store = redisStore
		logger.Info("Connected to embedding cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	// Register metrics explicitly (no init())
	metrics.RegisterRetrievalMetrics()
	metrics.RegisterProviderMetrics()

	embedder := buildEmbedder(cfg, store, logger)
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Optional answer generation; empty model means retrieval-only mode.
	var generator answeruc.Generator
	if cfg.Generation.Model != "" {
		generator = openaiProv.NewGenerator(&openaiProv.GeneratorConfig{
			APIKey:   cfg.Generation.APIKey,
			BaseURL:  cfg.Generation.BaseURL,
			Model:    cfg.Generation.Model,
			Provider: cfg.Generation.Provider,
			Logger:   logger,
		})
		logger.Info("Generator created",
			zap.String("provider", cfg.Generation.Provider),
			zap.String("model", cfg.Generation.Model),
		)
	}

	retrievalSvc := retrievaluc.New(idx.Vector(), idx.Lexical(), idx, embedder)
	answerSvc := answeruc.New(generator)
	healthSvc := healthuc.New(idx, newEmbeddingHealthChecker(embedder))

	defaultStrategy, err := fusion.Parse(
		cfg.Retrieval.FusionStrategy,
		cfg.Retrieval.FusionAlpha, cfg.Retrieval.FusionBeta,
		cfg.Retrieval.RRFConstant,
	)
	if err != nil {
		logger.Fatal("Invalid default fusion strategy", zap.Error(err))
	}

	server := chiTransport.NewServer(retrievalSvc, answerSvc, healthSvc, chiTransport.Defaults{
		K:        cfg.Retrieval.DefaultK,
		PoolSize: cfg.Retrieval.PoolSize,
		Strategy: defaultStrategy,
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instruction
func buildEmbedder(cfg config.Config, store db.Store, logger *zap.Logger) domain.Embedder {
	base := openaiProv.NewEmbedder(&openaiProv.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if store != nil {
		ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
		embedder = embcache.New(base, store, ttl, metrics.EmbeddingCacheTotal, logger)
	}

	// Instruction prefix (outermost — cache key includes instruction)
	if cfg.Embedding.QueryInstruction != "" {
		return domain.NewInstructionEmbedder(embedder, cfg.Embedding.QueryInstruction)
	}

	return embedder
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
