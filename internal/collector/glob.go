package collector

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/nicad/duckdb-file-tools/internal/filesystem"
	"github.com/nicad/duckdb-file-tools/internal/pattern"
	"go.uber.org/zap"
)

// expand runs glob expansion and exclusion filtering. The candidate list
// keeps doublestar's enumeration order.
func expand(logger *zap.Logger, p string, opts Options) ([]string, error) {
	start := time.Now()

	glob, err := pattern.GlobPattern(p, opts.IgnoreCase)
	if err != nil {
		return nil, err
	}
	excludes, err := pattern.NewExcludeSet(opts.Exclude, opts.IgnoreCase)
	if err != nil {
		return nil, err
	}

	var globOpts []doublestar.GlobOption
	if !opts.FollowSymlinks {
		globOpts = append(globOpts, doublestar.WithNoFollow())
	}

	matches, err := doublestar.FilepathGlob(glob, globOpts...)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", p, err)
	}

	var cycles *cycleFilter
	if opts.FollowSymlinks {
		base, _ := pattern.SplitForWalk(p)
		cycles = newCycleFilter(base)
	}

	total := len(matches)
	candidates := matches[:0]
	looped := 0
	for _, m := range matches {
		if cycles.reentered(m) {
			looped++
			continue
		}
		if excludes.Excluded(m) {
			continue
		}
		candidates = append(candidates, m)
	}

	logger.Debug("Glob expansion finished",
		zap.String("pattern", glob),
		zap.Int("matches", total),
		zap.Int("symlink_cycles", looped),
		zap.Int("candidates", len(candidates)),
		zap.Duration("duration", time.Since(start)))

	return candidates, nil
}

// cycleFilter drops glob matches reached by following a symlink back into
// one of its own ancestors. doublestar keeps descending such links until
// the kernel refuses the path; the walker stops at the first re-entry.
type cycleFilter struct {
	base   string
	chains map[string][]string // directory -> resolved paths of it and its ancestors, nil once looped
	looped map[string]bool
}

func newCycleFilter(base string) *cycleFilter {
	return &cycleFilter{
		base:   filepath.Clean(base),
		chains: make(map[string][]string),
		looped: make(map[string]bool),
	}
}

// reentered reports whether any directory above m is a symlink that
// resolves to one of its own ancestors. m itself may be such a link; the
// walker reports the link and only refuses to descend into it.
func (f *cycleFilter) reentered(m string) bool {
	if f == nil {
		return false
	}
	dir := filepath.Dir(filepath.Clean(m))
	f.chain(dir)
	return f.looped[dir]
}

// chain returns the resolved ancestry of dir, marking dir as looped when a
// symlink on the way leads back into it
func (f *cycleFilter) chain(dir string) []string {
	if c, ok := f.chains[dir]; ok || f.looped[dir] {
		return c
	}

	parent := filepath.Dir(dir)
	if parent == dir || !f.below(dir) {
		resolved, err := filesystem.Resolve(dir)
		if err != nil {
			resolved = dir
		}
		c := []string{resolved}
		f.chains[dir] = c
		return c
	}

	up := f.chain(parent)
	if f.looped[parent] {
		f.looped[dir] = true
		return nil
	}

	resolved := filepath.Join(up[len(up)-1], filepath.Base(dir))
	if info, err := os.Lstat(dir); err == nil && info.Mode()&fs.ModeSymlink != 0 {
		target, err := filesystem.Resolve(dir)
		if err == nil && slices.Contains(up, target) {
			f.looped[dir] = true
			return nil
		}
		if err == nil {
			resolved = target
		}
	}

	c := append(slices.Clip(up), resolved)
	f.chains[dir] = c
	return c
}

// below reports whether dir is a strict descendant of the walk base
func (f *cycleFilter) below(dir string) bool {
	rel, err := filepath.Rel(f.base, dir)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
