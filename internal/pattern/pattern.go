// Package pattern rewrites user glob patterns into the dialect understood by
// doublestar and compiles the matchers shared by every collection strategy.
package pattern

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrBadPattern is returned for glob or exclude expressions that cannot be compiled
var ErrBadPattern = errors.New("invalid glob pattern")

const metaChars = "*?[{"

// Normalize appends an explicit wildcard segment to patterns ending in a
// recursive marker so that "dir/**" matches every descendant, not only
// directories. All other patterns are returned unchanged.
func Normalize(p string) string {
	switch {
	case strings.HasSuffix(p, "/**"):
		return p + "/*"
	case strings.HasSuffix(p, `\**`):
		return p + `\*`
	default:
		return p
	}
}

// SplitForWalk returns the deepest ancestor directory of p that contains no
// glob metacharacter, together with the full pattern. Patterns without a
// separator walk from the current directory; absolute patterns whose first
// segment is already a glob walk from the filesystem root.
func SplitForWalk(p string) (base, full string) {
	full = p

	prefix := p
	if i := strings.IndexAny(p, metaChars); i >= 0 {
		prefix = p[:i]
	} else {
		// A literal pattern names exactly one entry; walk its parent
		prefix = strings.TrimRight(p, `/\`)
		if prefix == "" && p != "" {
			return p[:1], full
		}
	}

	sep := strings.LastIndexAny(prefix, `/\`)
	switch {
	case sep < 0:
		base = "."
	case sep == 0:
		base = prefix[:1]
	default:
		base = prefix[:sep]
		// "C:" alone is drive-relative
		if strings.HasSuffix(base, ":") {
			base = prefix[:sep+1]
		}
	}
	return base, full
}

// MatchesBase reports whether glob expansion of p can yield the walk base
// of p itself. That only happens when everything after the base is made of
// "**" segments, or when p names the base literally.
func MatchesBase(p string) bool {
	base, _ := SplitForWalk(p)
	full := path.Clean(filepath.ToSlash(Normalize(p)))
	rest := full
	if base != "." {
		b := path.Clean(filepath.ToSlash(base))
		if !strings.HasPrefix(full, b) {
			return false
		}
		rest = full[len(b):]
	}

	for _, seg := range strings.Split(rest, "/") {
		if seg != "" && seg != "." && seg != "**" {
			return false
		}
	}
	return true
}

// Validate checks that p compiles as a doublestar pattern
func Validate(p string) error {
	if !doublestar.ValidatePattern(filepath.ToSlash(p)) {
		return fmt.Errorf("%w: %q", ErrBadPattern, p)
	}
	return nil
}

// GlobPattern prepares a user pattern for doublestar.FilepathGlob: it is
// normalized, optionally case-folded, and validated.
func GlobPattern(p string, ignoreCase bool) (string, error) {
	p = Normalize(p)
	if ignoreCase {
		p = Fold(p)
	}
	if err := Validate(p); err != nil {
		return "", err
	}
	return p, nil
}

// Fold makes the glob portion of p case-insensitive by rewriting every
// letter as a two-rune character class ("a" becomes "[aA]"). Bracket
// expressions gain the other-case counterpart of each letter and letter
// range ("[A-C]" becomes "[A-Ca-c]"). The literal base directory returned
// by SplitForWalk is kept verbatim so traversal still starts from a
// concrete directory. Escaped runes are copied unchanged.
func Fold(p string) string {
	base, _ := SplitForWalk(p)
	start := 0
	if base != "." && strings.HasPrefix(p, base) {
		start = len(base)
	}

	var b strings.Builder
	b.Grow(len(p) * 2)
	b.WriteString(p[:start])

	rs := []rune(p[start:])
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r == '\\' && filepath.Separator == '/' && i+1 < len(rs):
			b.WriteRune(r)
			i++
			b.WriteRune(rs[i])
		case r == '[':
			j := classEnd(rs, i)
			if j == len(rs)-1 && rs[j] != ']' {
				// Unterminated, left for Validate to reject
				b.WriteString(string(rs[i:]))
				i = j
				continue
			}
			foldClass(&b, rs[i:j+1])
			i = j
		default:
			lo, up := unicode.ToLower(r), unicode.ToUpper(r)
			if lo == up {
				b.WriteRune(r)
				continue
			}
			b.WriteRune('[')
			b.WriteRune(lo)
			b.WriteRune(up)
			b.WriteRune(']')
		}
	}
	return b.String()
}

// foldClass writes the bracket expression class with every letter and
// letter range duplicated in the other case. Negated classes stay negated,
// so "[!a]" excludes both "a" and "A".
func foldClass(b *strings.Builder, class []rune) {
	body := class[1 : len(class)-1]
	b.WriteRune('[')
	i := 0
	if i < len(body) && (body[i] == '!' || body[i] == '^') {
		b.WriteRune(body[i])
		i++
	}

	var extra []rune
	for i < len(body) {
		r := body[i]
		if r == '\\' && filepath.Separator == '/' && i+1 < len(body) {
			b.WriteRune(r)
			b.WriteRune(body[i+1])
			extra = appendOtherCase(extra, body[i+1], body[i+1])
			i += 2
			continue
		}
		if i+2 < len(body) && body[i+1] == '-' {
			lo, hi := r, body[i+2]
			b.WriteRune(lo)
			b.WriteRune('-')
			b.WriteRune(hi)
			extra = appendOtherCase(extra, lo, hi)
			i += 3
			continue
		}
		b.WriteRune(r)
		extra = appendOtherCase(extra, r, r)
		i++
	}
	for _, r := range extra {
		b.WriteRune(r)
	}
	b.WriteRune(']')
}

// appendOtherCase appends the other-case counterpart of the range lo-hi.
// Only ranges whose ends are letters of the same case are mirrored.
func appendOtherCase(dst []rune, lo, hi rune) []rune {
	switch {
	case unicode.IsUpper(lo) && unicode.IsUpper(hi):
		lo, hi = unicode.ToLower(lo), unicode.ToLower(hi)
	case unicode.IsLower(lo) && unicode.IsLower(hi):
		lo, hi = unicode.ToUpper(lo), unicode.ToUpper(hi)
	default:
		return dst
	}
	if lo == hi {
		return append(dst, lo)
	}
	if lo > hi {
		return dst
	}
	return append(dst, lo, '-', hi)
}

// classEnd returns the index of the ']' closing the class opened at rs[i],
// or len(rs)-1 when the class is unterminated.
func classEnd(rs []rune, i int) int {
	j := i + 1
	if j < len(rs) && (rs[j] == '!' || rs[j] == '^') {
		j++
	}
	// A leading ']' is a literal member
	if j < len(rs) && rs[j] == ']' {
		j++
	}
	for ; j < len(rs); j++ {
		if rs[j] == '\\' && filepath.Separator == '/' {
			j++
			continue
		}
		if rs[j] == ']' {
			return j
		}
	}
	return len(rs) - 1
}
