package etl

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/campuskit/courserag/internal/domain"
	"github.com/campuskit/courserag/internal/domain/course"
)

// EmbedAll embeds every course's text through a bounded worker pool.
// Row i of the returned matrix corresponds to records[i], preserving the
// ordinal alignment the index requires. The first embedding failure aborts
// the run: a partial matrix must never be written.
func EmbedAll(
	ctx context.Context,
	embedder domain.Embedder,
	records []course.Course,
	workers int,
	logger *zap.Logger,
) ([][]float32, error) {
	if len(records) == 0 {
		return nil, nil
	}
	if workers < 1 {
		workers = 1
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create embedding pool: %w", err)
	}
	defer pool.Release()

	vectors := make([][]float32, len(records))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		done     int
	)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for i, rec := range records {
		i, rec := i, rec
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			if ctx.Err() != nil {
				return
			}

			result, err := embedder.Embed(ctx, rec.EmbedText())
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("embed %s: %w", rec.Code, err)
				}
				mu.Unlock()
				cancel()
				return
			}
			vectors[i] = result.Embedding

			mu.Lock()
			done++
			if done%50 == 0 {
				logger.Info("Embedding progress", zap.Int("done", done), zap.Int("of", len(records)))
			}
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			return nil, fmt.Errorf("submit embedding task: %w", submitErr)
		}
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return vectors, nil
}
