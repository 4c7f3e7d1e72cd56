// Package pathparts decomposes path strings into their components without
// touching the filesystem.
package pathparts

import (
	"runtime"
	"strings"

	"github.com/nicad/duckdb-file-tools/pkg/models"
)

// Parse splits p into drive, root, parts, name, stem and suffixes.
// Both '/' and '\' separate parts. Drive letters are recognised only on
// Windows builds. The empty string yields an all-empty result.
func Parse(p string) *models.PathParts {
	return parse(p, runtime.GOOS == "windows")
}

func parse(p string, drives bool) *models.PathParts {
	out := &models.PathParts{
		Suffixes: []string{},
		Parts:    []string{},
	}
	if p == "" {
		return out
	}

	drive, root, rest := splitAnchor(p, drives)
	out.Drive = drive
	out.Root = root
	out.Anchor = drive + root
	out.IsAbsolute = root != ""

	out.Parts = append(out.Parts, strings.FieldsFunc(rest, isSep)...)

	if n := len(out.Parts); n > 0 {
		out.Name = out.Parts[n-1]
		switch {
		case n > 1:
			out.Parent = out.Anchor + strings.Join(out.Parts[:n-1], "/")
		case out.Anchor != "":
			out.Parent = out.Anchor
		}
	}

	out.Stem, out.Suffix, out.Suffixes = splitName(out.Name)
	return out
}

func isSep(r rune) bool {
	return r == '/' || r == '\\'
}

// splitAnchor separates an optional "X:" drive and a single leading
// separator from the rest of the path
func splitAnchor(p string, drives bool) (drive, root, rest string) {
	if drives && len(p) >= 2 && p[1] == ':' {
		drive, rest = p[:2], p[2:]
		if rest != "" && isSep(rune(rest[0])) {
			root, rest = rest[:1], rest[1:]
		}
		return drive, root, rest
	}
	if isSep(rune(p[0])) {
		return "", p[:1], p[1:]
	}
	return "", "", p
}

// splitName returns the stem, final suffix and every suffix of name.
// A leading dot belongs to the stem, so ".bashrc" has no suffix.
func splitName(name string) (stem, suffix string, suffixes []string) {
	suffixes = []string{}
	if name == "" {
		return "", "", suffixes
	}

	var dots []int
	for i := 1; i < len(name); i++ {
		if name[i] == '.' {
			dots = append(dots, i)
		}
	}
	if len(dots) == 0 {
		return name, "", suffixes
	}

	last := dots[len(dots)-1]
	for i, start := range dots {
		end := len(name)
		if i+1 < len(dots) {
			end = dots[i+1]
		}
		suffixes = append(suffixes, name[start:end])
	}
	return name[:last], name[last:], suffixes
}
