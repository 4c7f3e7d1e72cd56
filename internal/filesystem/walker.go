package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nicad/duckdb-file-tools/internal/config"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// ErrWalkRoot is returned when the walk root exists but cannot be read
var ErrWalkRoot = errors.New("cannot walk root directory")

// readDirBatch bounds memory when listing very large directories
const readDirBatch = 1000

// Walker lists every entry under a root directory using one goroutine per
// directory. A weighted semaphore bounds the number of concurrent directory
// reads; a single collector goroutine gathers the visited paths.
type Walker struct {
	logger      *zap.Logger
	concurrency int64
}

// walkRun is the state of one Walk call
type walkRun struct {
	logger  *zap.Logger
	wg      sync.WaitGroup
	sem     *semaphore.Weighted
	pathCh  chan string
	follow  bool
	dirs    atomic.Int64
	skipped atomic.Int64
}

// NewWalker creates a new parallel directory walker
func NewWalker(cfg *config.Config, logger *zap.Logger) *Walker {
	n := cfg.WalkConcurrency
	if n <= 0 {
		n = config.Default().WalkConcurrency
	}
	return &Walker{
		logger:      logger,
		concurrency: int64(n),
	}
}

// Walk returns the root and every path below it, unfiltered and in no
// particular order. Symlinked directories below the root are descended into
// only when follow is set; a link back to one of its own ancestors is not
// re-entered. The root itself is named literally by the caller and is always
// resolved, matching glob expansion of a literal base directory. A missing
// root yields an empty result. Errors reading subdirectories drop that
// subtree only.
func (w *Walker) Walk(ctx context.Context, root string, follow bool) ([]string, error) {
	start := time.Now()
	root = filepath.Clean(root)

	info, err := os.Lstat(root)
	if err == nil && info.Mode()&fs.ModeSymlink != 0 {
		info, err = os.Stat(root)
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w %s: %w", ErrWalkRoot, root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	// Root must be listable; later failures only prune subtrees
	dir, err := os.Open(root)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrWalkRoot, root, err)
	}
	_ = dir.Close()

	run := &walkRun{
		logger: w.logger,
		sem:    semaphore.NewWeighted(w.concurrency),
		pathCh: make(chan string, readDirBatch),
		follow: follow,
	}

	// Collector goroutine: single consumer for all walker output
	paths := []string{root}
	var collectWg sync.WaitGroup
	collectWg.Add(1)
	go func() {
		defer collectWg.Done()
		for p := range run.pathCh {
			paths = append(paths, p)
		}
	}()

	var chain []string
	if follow {
		if resolved, err := Resolve(root); err == nil {
			chain = []string{resolved}
		}
	}
	run.walkDirectory(ctx, root, chain)

	run.wg.Wait()
	close(run.pathCh)
	collectWg.Wait()

	w.logger.Debug("Directory walk finished",
		zap.String("root", root),
		zap.Int("paths", len(paths)),
		zap.Int64("dirs", run.dirs.Load()),
		zap.Int64("skipped_dirs", run.skipped.Load()),
		zap.Duration("duration", time.Since(start)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return paths, nil
}

// walkDirectory spawns a goroutine that lists dir and recurses into its
// subdirectories. chain holds the resolved paths of dir and its ancestors
// and is only tracked when following symlinks.
func (w *walkRun) walkDirectory(ctx context.Context, dir string, chain []string) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		if err := w.sem.Acquire(ctx, 1); err != nil {
			return
		}
		entries, err := listDirectory(dir)
		w.sem.Release(1)
		if err != nil {
			w.skipped.Add(1)
			w.logger.Debug("Skipping unreadable directory", zap.String("path", dir), zap.Error(err))
		}
		w.dirs.Add(1)

		for _, entry := range entries {
			full := filepath.Join(dir, entry.Name())
			w.pathCh <- full

			switch {
			case entry.IsDir():
				var sub []string
				if w.follow && len(chain) > 0 {
					sub = append(slices.Clip(chain), filepath.Join(chain[len(chain)-1], entry.Name()))
				}
				w.walkDirectory(ctx, full, sub)
			case w.follow && entry.Type()&fs.ModeSymlink != 0:
				if sub, ok := w.followLink(full, chain); ok {
					w.walkDirectory(ctx, full, sub)
				}
			}
		}
	}()
}

// followLink resolves a symlink and reports whether it is a directory that
// does not lead back into the current descent chain
func (w *walkRun) followLink(link string, chain []string) ([]string, bool) {
	info, err := os.Stat(link)
	if err != nil || !info.IsDir() {
		return nil, false
	}
	resolved, err := Resolve(link)
	if err != nil {
		return nil, false
	}
	if slices.Contains(chain, resolved) {
		w.logger.Debug("Skipping symlink cycle", zap.String("path", link), zap.String("target", resolved))
		return nil, false
	}
	return append(slices.Clip(chain), resolved), true
}

// Resolve returns the absolute path of p with every symlink evaluated.
// Descent chains compare these, so relative and absolute link targets
// resolve to the same spelling.
func Resolve(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// listDirectory reads one directory in batches
func listDirectory(dirPath string) ([]os.DirEntry, error) {
	dir, err := os.Open(dirPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = dir.Close() }()

	var all []os.DirEntry
	for {
		entries, err := dir.ReadDir(readDirBatch)
		all = append(all, entries...)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return all, nil
			}
			return all, err
		}
		if len(entries) == 0 {
			return all, nil
		}
	}
}
