package collector

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/nicad/duckdb-file-tools/internal/config"
	"github.com/nicad/duckdb-file-tools/internal/filesystem"
	"github.com/nicad/duckdb-file-tools/pkg/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// outcome classifies the processing of one candidate
type outcome int

const (
	outcomeOK outcome = iota
	outcomeSkip
	outcomeFatal
)

func (o outcome) String() string {
	switch o {
	case outcomeOK:
		return "ok"
	case outcomeSkip:
		return "skip"
	default:
		return "fatal"
	}
}

// itemResult is the result of processing a single candidate
type itemResult struct {
	Path       string
	Record     *models.FileRecord
	Outcome    outcome
	Error      error
	Hashed     uint64
	HashFailed bool
	Panicked   bool
}

// pool extracts metadata and hashes regular files on a fixed set of workers
type pool struct {
	strategy string
	workers  int
	hasher   *filesystem.Hasher
	logger   *zap.Logger
	metrics  *Metrics
	slowItem time.Duration
	extract  func(path string, follow bool) (*models.FileRecord, error)
}

func newPool(strategy string, cfg *config.Config, logger *zap.Logger, metrics *Metrics) *pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	slowItem := cfg.SlowItemThreshold
	if slowItem <= 0 {
		slowItem = config.Default().SlowItemThreshold
	}
	return &pool{
		strategy: strategy,
		workers:  workers,
		hasher:   filesystem.NewHasher(nil, logger, filesystem.WithSlowReadThreshold(cfg.SlowReadThreshold)),
		logger:   logger,
		metrics:  metrics,
		slowItem: slowItem,
		extract:  filesystem.Extract,
	}
}

// run processes every candidate and adds the surviving records to result.
// Records arrive in completion order. Fatal outcomes are reported together
// once every worker has finished.
func (p *pool) run(ctx context.Context, candidates []string, follow bool, result *models.CollectResult) error {
	if len(candidates) == 0 {
		return nil
	}
	workers := min(p.workers, len(candidates))
	result.Stats.WorkersUsed = workers

	// Create channels
	fileChan := make(chan string, workers*2)
	resultsChan := make(chan *itemResult, workers*2)

	// Start worker pool
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			p.worker(ctx, follow, fileChan, resultsChan)
			return nil
		})
	}

	// Start results collector
	var fatal []error
	var collectWg sync.WaitGroup
	collectWg.Add(1)
	go p.collectResults(&collectWg, resultsChan, result, &fatal)

	// Feed candidates to workers
feed:
	for _, path := range candidates {
		select {
		case <-ctx.Done():
			break feed
		case fileChan <- path:
		}
	}

	// Close channels and wait
	close(fileChan)
	_ = g.Wait()
	close(resultsChan)
	collectWg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	return errors.Join(fatal...)
}

// worker processes paths from the channel
func (p *pool) worker(ctx context.Context, follow bool, fileChan <-chan string, resultsChan chan<- *itemResult) {
	for path := range fileChan {
		select {
		case <-ctx.Done():
			return
		default:
			resultsChan <- p.process(path, follow)
		}
	}
}

// process extracts metadata for one path and hashes it if it is a regular
// file. A panic while doing so only drops this entry.
func (p *pool) process(path string, follow bool) (res *itemResult) {
	res = &itemResult{Path: path}
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			res.Record = nil
			res.Outcome = outcomeSkip
			res.Panicked = true
			res.Error = fmt.Errorf("panic processing %s: %v", path, r)
		}
	}()

	rec, err := p.extract(path, follow)
	if err != nil {
		res.Error = err
		if filesystem.IsRecoverable(err) {
			res.Outcome = outcomeSkip
		} else {
			res.Outcome = outcomeFatal
		}
		return res
	}
	metaTime := time.Since(start)

	if rec.IsFile {
		sum, n, err := p.hasher.Sum(path, filesystem.SHA256)
		res.Hashed = n
		if err != nil {
			// The record survives without a digest
			res.HashFailed = true
			p.logger.Debug("Hash failed", zap.String("path", path), zap.Error(err))
		} else {
			rec.Hash = &sum
		}
	}

	if elapsed := time.Since(start); elapsed > p.slowItem {
		p.logger.Debug("Slow item",
			zap.String("path", path),
			zap.Duration("duration", elapsed),
			zap.Duration("metadata", metaTime),
			zap.Duration("hash", elapsed-metaTime))
	}

	res.Record = rec
	res.Outcome = outcomeOK
	return res
}

// collectResults gathers worker output into result
func (p *pool) collectResults(wg *sync.WaitGroup, resultsChan <-chan *itemResult, result *models.CollectResult, fatal *[]error) {
	defer wg.Done()

	for res := range resultsChan {
		p.metrics.observeEntry(p.strategy, res.Outcome)
		p.metrics.addHashed(res.Hashed)
		result.Stats.HashedBytes += res.Hashed

		switch res.Outcome {
		case outcomeOK:
			result.AddRecord(res.Record)
			if res.HashFailed {
				result.Stats.HashFailures++
			}
		case outcomeSkip:
			result.Stats.Skipped++
			if res.Panicked {
				result.Stats.Panics++
				p.logger.Warn("Recovered worker panic", zap.String("path", res.Path), zap.Error(res.Error))
			}
		case outcomeFatal:
			*fatal = append(*fatal, fmt.Errorf("stat %s: %w", res.Path, res.Error))
		}
	}
}
