// Package collector expands glob patterns into file metadata records.
//
// Three strategies share one interface:
//
//   - sequential: doublestar glob expansion, metadata only, enumeration order
//   - parallel:   the same expansion, then metadata and SHA-256 on a worker pool
//   - walk:       a parallel directory walk from the pattern's literal base,
//     filtered afterwards, then the same worker pool
//
// The two parallel strategies return the same set of records for a given
// filesystem state; neither guarantees an order.
package collector

import (
	"context"
	"errors"
	"fmt"

	"github.com/nicad/duckdb-file-tools/internal/config"
	"github.com/nicad/duckdb-file-tools/pkg/models"
	"go.uber.org/zap"
)

// Strategy names
const (
	StrategySequential = "sequential"
	StrategyParallel   = "parallel"
	StrategyWalk       = "walk"
)

// ErrUnknownStrategy is returned by New for unsupported names
var ErrUnknownStrategy = errors.New("unknown collection strategy")

// Options control one collection query
type Options struct {
	IgnoreCase     bool
	FollowSymlinks bool
	Exclude        []string
}

// DefaultOptions returns the query defaults: case-sensitive, following
// symlinks, no exclusions
func DefaultOptions() Options {
	return Options{FollowSymlinks: true}
}

// Strategy enumerates the entries matching a pattern
type Strategy interface {
	// Name returns the strategy name
	Name() string

	// Collect runs one query. Recoverable per-entry failures shrink the
	// result; pattern errors and other I/O failures are returned.
	Collect(ctx context.Context, pattern string, opts Options) (*models.CollectResult, error)
}

// New creates the named strategy
func New(name string, cfg *config.Config, logger *zap.Logger, metrics *Metrics) (Strategy, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	switch name {
	case StrategySequential, "":
		return NewSequential(logger, metrics), nil
	case StrategyParallel:
		return NewGlobParallel(cfg, logger, metrics), nil
	case StrategyWalk:
		return NewWalkParallel(cfg, logger, metrics), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Names lists every strategy name
func Names() []string {
	return []string{StrategySequential, StrategyParallel, StrategyWalk}
}

func newResult(strategy, pattern string) *models.CollectResult {
	return &models.CollectResult{
		Strategy: strategy,
		Pattern:  pattern,
		Stats:    &models.CollectStatistics{},
	}
}
