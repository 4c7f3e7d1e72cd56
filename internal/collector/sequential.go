package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/nicad/duckdb-file-tools/internal/filesystem"
	"github.com/nicad/duckdb-file-tools/pkg/models"
	"go.uber.org/zap"
)

// Sequential expands the pattern and extracts metadata one entry at a time,
// preserving enumeration order. It never hashes.
type Sequential struct {
	logger  *zap.Logger
	metrics *Metrics
}

// NewSequential creates the sequential strategy
func NewSequential(logger *zap.Logger, metrics *Metrics) *Sequential {
	return &Sequential{logger: logger, metrics: metrics}
}

// Name implements Strategy
func (s *Sequential) Name() string {
	return StrategySequential
}

// Collect implements Strategy
func (s *Sequential) Collect(ctx context.Context, p string, opts Options) (*models.CollectResult, error) {
	result := newResult(StrategySequential, p)
	result.StartTime = time.Now()
	defer func() {
		result.Duration = time.Since(result.StartTime)
		s.metrics.observeDuration(StrategySequential, result.Duration)
	}()

	candidates, err := expand(s.logger, p, opts)
	if err != nil {
		return nil, err
	}
	result.Candidates = len(candidates)
	result.Stats.WorkersUsed = 1

	for _, path := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := filesystem.Extract(path, opts.FollowSymlinks)
		if err != nil {
			if filesystem.IsRecoverable(err) {
				result.Stats.Skipped++
				s.metrics.observeEntry(StrategySequential, outcomeSkip)
				continue
			}
			s.metrics.observeEntry(StrategySequential, outcomeFatal)
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}

		result.AddRecord(rec)
		s.metrics.observeEntry(StrategySequential, outcomeOK)
	}

	s.logger.Debug("Sequential collection finished",
		zap.String("pattern", p),
		zap.Int("records", len(result.Records)),
		zap.Int("skipped", result.Stats.Skipped))

	return result, nil
}
