package collector

import (
	"context"
	"time"

	"github.com/nicad/duckdb-file-tools/internal/config"
	"github.com/nicad/duckdb-file-tools/pkg/models"
	"go.uber.org/zap"
)

// GlobParallel expands the pattern sequentially, then extracts metadata and
// SHA-256 digests on a worker pool.
type GlobParallel struct {
	logger  *zap.Logger
	metrics *Metrics
	pool    *pool
}

// NewGlobParallel creates the glob-driven parallel strategy
func NewGlobParallel(cfg *config.Config, logger *zap.Logger, metrics *Metrics) *GlobParallel {
	return &GlobParallel{
		logger:  logger,
		metrics: metrics,
		pool:    newPool(StrategyParallel, cfg, logger, metrics),
	}
}

// Name implements Strategy
func (s *GlobParallel) Name() string {
	return StrategyParallel
}

// Collect implements Strategy
func (s *GlobParallel) Collect(ctx context.Context, p string, opts Options) (*models.CollectResult, error) {
	result := newResult(StrategyParallel, p)
	result.StartTime = time.Now()
	defer func() {
		result.Duration = time.Since(result.StartTime)
		s.metrics.observeDuration(StrategyParallel, result.Duration)
	}()

	candidates, err := expand(s.logger, p, opts)
	if err != nil {
		return nil, err
	}
	result.Candidates = len(candidates)

	if len(candidates) == 0 {
		s.logger.Debug("No candidates, skipping worker pool", zap.String("pattern", p))
		return result, nil
	}

	phaseStart := time.Now()
	if err := s.pool.run(ctx, candidates, opts.FollowSymlinks, result); err != nil {
		return nil, err
	}

	s.logger.Debug("Parallel collection finished",
		zap.String("pattern", p),
		zap.Int("workers", result.Stats.WorkersUsed),
		zap.Int("records", len(result.Records)),
		zap.Int("files", result.Stats.Files),
		zap.Int("dirs", result.Stats.Dirs),
		zap.Int("skipped", result.Stats.Skipped),
		zap.Duration("parallel_phase", time.Since(phaseStart)))

	return result, nil
}
