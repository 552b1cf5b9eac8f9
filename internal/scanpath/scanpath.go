// Package scanpath implements the include/exclude glob matching and
// absolute/relative path conversion shared by the scanner and the
// workspace watcher: a workspace uses absolute paths internally but
// glob patterns and the cache file are written relative to the
// workspace root.
package scanpath

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher decides whether a path should be scanned, given include/exclude
// glob pattern lists. Grounded on the teacher's FileScanner
// shouldExcludeFast/shouldIncludeFast (doublestar matching, exclude wins
// over include, empty include list means "include everything").
type Matcher struct {
	root     string
	includes []string
	excludes []string
}

// NewMatcher builds a Matcher rooted at root (used to compute the
// relative form of a path when the raw pattern match misses).
func NewMatcher(root string, includes, excludes []string) *Matcher {
	return &Matcher{root: root, includes: includes, excludes: excludes}
}

// Accept reports whether path should be scanned: not excluded, and
// included (or no include patterns are configured).
func (m *Matcher) Accept(path string) bool {
	if m.ShouldExclude(path) {
		return false
	}
	return m.ShouldInclude(path)
}

// ShouldExclude reports whether path matches any exclude pattern, tried
// against both the raw path and its workspace-relative form.
func (m *Matcher) ShouldExclude(path string) bool {
	return m.anyMatch(m.excludes, path)
}

// ShouldInclude reports whether path matches any include pattern. An
// empty include list means everything not excluded is included.
func (m *Matcher) ShouldInclude(path string) bool {
	if len(m.includes) == 0 {
		return true
	}
	return m.anyMatch(m.includes, path)
}

func (m *Matcher) anyMatch(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, path); err == nil && matched {
			return true
		}
	}
	if m.root == "" {
		return false
	}
	rel := ToRelative(path, m.root)
	if rel == path {
		return false
	}
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return true
		}
	}
	return false
}

// ToRelative converts an absolute path to relative to root, falling back
// to the original path if conversion fails, path is already relative, or
// the result would escape root (starts with "..").
func ToRelative(absPath, root string) string {
	if absPath == "" || root == "" || !filepath.IsAbs(absPath) {
		return absPath
	}

	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)

	rel, err := filepath.Rel(root, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return absPath
	}
	return filepath.ToSlash(rel)
}

// ToAbsolute converts a relative path to absolute against root, returning
// it unchanged if already absolute or root is unset.
func ToAbsolute(relPath, root string) string {
	if relPath == "" || root == "" || filepath.IsAbs(relPath) {
		return relPath
	}
	return filepath.Join(root, relPath)
}
