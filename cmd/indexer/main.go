// Command indexer runs the offline pipeline: scrape the catalog sources,
// normalize and merge the records, embed every course, and write the index
// artifacts the serving process loads at startup.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/campuskit/courserag/internal/config"
	"github.com/campuskit/courserag/internal/domain"
	"github.com/campuskit/courserag/internal/etl"
	"github.com/campuskit/courserag/internal/index"
	"github.com/campuskit/courserag/internal/index/artifact"
	logpkg "github.com/campuskit/courserag/internal/logger"
	openaiProv "github.com/campuskit/courserag/internal/transport/openai"
	"github.com/campuskit/courserag/internal/version"
)

func main() {
	var (
		dataDir      = flag.String("data", "", "output directory for index artifacts (default: config index.data_dir)")
		maxDetails   = flag.Int("max-cab-details", etl.DefaultMaxDetailFetches, "max CAB detail requests")
		maxBulletin  = flag.Int("max-bulletin", etl.DefaultMaxCourseFetches, "max Bulletin course pages")
		workers      = flag.Int("workers", 4, "concurrent embedding requests")
		skipCAB      = flag.Bool("skip-cab", false, "skip the CAB source")
		skipBulletin = flag.Bool("skip-bulletin", false, "skip the Bulletin source")
		dryRun       = flag.Bool("dry-run", false, "scrape and merge but write nothing")
	)
	flag.Parse()

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

	logger.Info("Starting courserag indexer",
		zap.String("version", version.Version),
		zap.String("env", env),
	)

	outDir := *dataDir
	if outDir == "" {
		outDir = cfg.Index.DataDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stage 1-3: scrape, normalize, deduplicate
	var cab *etl.CABScraper
	if !*skipCAB {
		cab = etl.NewCABScraper(nil, *maxDetails, logger)
	}
	var bulletin *etl.BulletinScraper
	if !*skipBulletin {
		bulletin = etl.NewBulletinScraper(nil, *maxBulletin, logger)
	}

	records, err := etl.NewPipeline(cab, bulletin, logger).Run(ctx)
	if err != nil {
		logger.Fatal("Extraction failed", zap.Error(err))
	}
	if len(records) == 0 {
		logger.Fatal("Extraction produced no records; refusing to build an empty index")
	}

	if *dryRun {
		logger.Info("Dry run: skipping embedding and artifact writes",
			zap.Int("records", len(records)),
		)
		return
	}

	// Stage 4: embed
	var embedder domain.Embedder = openaiProv.NewEmbedder(&openaiProv.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})

	logger.Info("Embedding corpus",
		zap.Int("records", len(records)),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("workers", *workers),
	)
	vectors, err := etl.EmbedAll(ctx, embedder, records, *workers, logger)
	if err != nil {
		logger.Fatal("Embedding failed", zap.Error(err))
	}

	// Sanity check before writing: the artifacts must load back into a
	// coherent index.
	if _, err := index.New(records, vectors); err != nil {
		logger.Fatal("Index build check failed", zap.Error(err))
	}

	// Stage 5: write artifacts
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		logger.Fatal("Failed to create data directory", zap.Error(err))
	}
	if err := artifact.SaveCourses(outDir, records); err != nil {
		logger.Fatal("Failed to write course metadata", zap.Error(err))
	}
	if err := artifact.SaveEmbeddings(outDir, vectors); err != nil {
		logger.Fatal("Failed to write embedding matrix", zap.Error(err))
	}

	logger.Info("Index artifacts written",
		zap.String("dir", outDir),
		zap.Int("courses", len(records)),
		zap.Int("dimensions", len(vectors[0])),
	)
}
