package etl

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/campuskit/courserag/internal/domain/course"
)

// Pipeline orchestrates scraping, normalization, and deduplication.
type Pipeline struct {
	cab      *CABScraper
	bulletin *BulletinScraper
	logger   *zap.Logger
}

// NewPipeline creates an extraction pipeline. Either scraper may be nil to
// skip that source.
func NewPipeline(cab *CABScraper, bulletin *BulletinScraper, logger *zap.Logger) *Pipeline {
	return &Pipeline{cab: cab, bulletin: bulletin, logger: logger}
}

// Run executes the full extraction: scrape both sources, normalize, and
// deduplicate. The output is ordered by course code, ready for index build.
func (p *Pipeline) Run(ctx context.Context) ([]course.Course, error) {
	start := time.Now()
	p.logger.Info("ETL pipeline started")

	var all []course.Course

	if p.cab != nil {
		records, err := p.cab.Scrape(ctx)
		if err != nil {
			return nil, err
		}
		p.logger.Info("CAB stage complete", zap.Int("records", len(records)))
		all = append(all, records...)
	}

	if p.bulletin != nil {
		records, err := p.bulletin.Scrape(ctx)
		if err != nil {
			return nil, err
		}
		p.logger.Info("Bulletin stage complete", zap.Int("records", len(records)))
		all = append(all, records...)
	}

	p.logger.Info("Total raw records", zap.Int("records", len(all)))

	all = NormalizeAll(all, p.logger)
	all = Deduplicate(all, p.logger)

	cabCount, bulCount := 0, 0
	for _, rec := range all {
		switch rec.Source {
		case course.SourceCAB:
			cabCount++
		case course.SourceBulletin:
			bulCount++
		}
	}
	p.logger.Info("ETL pipeline finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("cab", cabCount),
		zap.Int("bulletin", bulCount),
		zap.Int("total", len(all)),
	)
	return all, nil
}
