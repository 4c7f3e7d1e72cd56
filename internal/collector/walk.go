package collector

import (
	"context"
	"path/filepath"
	"time"

	"github.com/nicad/duckdb-file-tools/internal/config"
	"github.com/nicad/duckdb-file-tools/internal/filesystem"
	"github.com/nicad/duckdb-file-tools/internal/pattern"
	"github.com/nicad/duckdb-file-tools/pkg/models"
	"go.uber.org/zap"
)

// WalkParallel walks the pattern's literal base directory in parallel,
// filters every visited path against the pattern and exclusions, then runs
// the same worker pool as GlobParallel.
type WalkParallel struct {
	logger  *zap.Logger
	metrics *Metrics
	walker  *filesystem.Walker
	pool    *pool
}

// NewWalkParallel creates the walk-driven parallel strategy
func NewWalkParallel(cfg *config.Config, logger *zap.Logger, metrics *Metrics) *WalkParallel {
	return &WalkParallel{
		logger:  logger,
		metrics: metrics,
		walker:  filesystem.NewWalker(cfg, logger),
		pool:    newPool(StrategyWalk, cfg, logger, metrics),
	}
}

// Name implements Strategy
func (s *WalkParallel) Name() string {
	return StrategyWalk
}

// Collect implements Strategy
func (s *WalkParallel) Collect(ctx context.Context, p string, opts Options) (*models.CollectResult, error) {
	result := newResult(StrategyWalk, p)
	result.StartTime = time.Now()
	defer func() {
		result.Duration = time.Since(result.StartTime)
		s.metrics.observeDuration(StrategyWalk, result.Duration)
	}()

	// Compile before touching the filesystem so bad patterns fail fast
	matcher, err := pattern.NewMatcher(p, opts.IgnoreCase)
	if err != nil {
		return nil, err
	}
	excludes, err := pattern.NewExcludeSet(opts.Exclude, opts.IgnoreCase)
	if err != nil {
		return nil, err
	}

	base, _ := pattern.SplitForWalk(p)
	walkStart := time.Now()
	visited, err := s.walker.Walk(ctx, base, opts.FollowSymlinks)
	if err != nil {
		return nil, err
	}
	walkTime := time.Since(walkStart)

	// The walker always reports its root; glob expansion only yields it
	// for patterns such as "**"
	root := filepath.Clean(base)
	keepRoot := pattern.MatchesBase(p)

	candidates := visited[:0]
	for _, path := range visited {
		if path == root && !keepRoot {
			continue
		}
		if !matcher.Match(path) || excludes.Excluded(path) {
			continue
		}
		candidates = append(candidates, path)
	}
	result.Candidates = len(candidates)

	s.logger.Debug("Walk filtering finished",
		zap.String("base", base),
		zap.String("pattern", matcher.Pattern()),
		zap.Int("visited", len(visited)),
		zap.Int("candidates", len(candidates)),
		zap.Duration("walk", walkTime))

	if len(candidates) == 0 {
		return result, nil
	}

	if err := s.pool.run(ctx, candidates, opts.FollowSymlinks, result); err != nil {
		return nil, err
	}

	s.logger.Debug("Walk collection finished",
		zap.String("pattern", p),
		zap.Int("workers", result.Stats.WorkersUsed),
		zap.Int("records", len(result.Records)),
		zap.Int("skipped", result.Stats.Skipped))

	return result, nil
}
