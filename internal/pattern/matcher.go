package pattern

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher tests walked paths against a normalized glob pattern.
// Case-insensitive matchers lower-case the pattern once at construction and
// each candidate path at match time (simple lower-casing, not Unicode case
// folding).
type Matcher struct {
	pattern string
	fold    bool
}

// NewMatcher compiles p for post-walk filtering
func NewMatcher(p string, ignoreCase bool) (*Matcher, error) {
	p = filepath.ToSlash(Normalize(p))
	if p != "" {
		p = cleanPattern(p)
	}
	if ignoreCase {
		p = strings.ToLower(p)
	}
	if !doublestar.ValidatePattern(p) {
		return nil, fmt.Errorf("%w: %q", ErrBadPattern, p)
	}
	return &Matcher{pattern: p, fold: ignoreCase}, nil
}

// Pattern returns the compiled pattern text
func (m *Matcher) Pattern() string {
	return m.pattern
}

// Match reports whether name matches the pattern
func (m *Matcher) Match(name string) bool {
	name = filepath.ToSlash(name)
	if m.fold {
		name = strings.ToLower(name)
	}
	ok, _ := doublestar.Match(m.pattern, name)
	return ok
}

// cleanPattern drops "./" segments and duplicate separators the same way
// doublestar.FilepathGlob does before expanding, so walked paths and globbed
// paths use identical spelling.
func cleanPattern(p string) string {
	return path.Clean(p)
}

// ExcludeSet is an ordered list of exclude expressions. An entry is excluded
// when its full path or its final component matches any expression.
type ExcludeSet struct {
	patterns []string
	fold     bool
}

// NewExcludeSet compiles the exclude expressions. Case folding applies to
// exclusions exactly as it does to the main pattern.
func NewExcludeSet(excludes []string, ignoreCase bool) (*ExcludeSet, error) {
	set := &ExcludeSet{fold: ignoreCase}
	for _, ex := range excludes {
		if ex == "" {
			continue
		}
		ex = filepath.ToSlash(ex)
		if ignoreCase {
			ex = strings.ToLower(ex)
		}
		if !doublestar.ValidatePattern(ex) {
			return nil, fmt.Errorf("%w: exclude %q", ErrBadPattern, ex)
		}
		set.patterns = append(set.patterns, ex)
	}
	return set, nil
}

// Len returns the number of compiled expressions
func (s *ExcludeSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.patterns)
}

// Excluded reports whether p should be dropped
func (s *ExcludeSet) Excluded(p string) bool {
	if s.Len() == 0 {
		return false
	}
	full := filepath.ToSlash(p)
	if s.fold {
		full = strings.ToLower(full)
	}
	base := path.Base(full)
	for _, ex := range s.patterns {
		if ok, _ := doublestar.Match(ex, full); ok {
			return true
		}
		if ok, _ := doublestar.Match(ex, base); ok {
			return true
		}
	}
	return false
}
