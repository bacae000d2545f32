package dev

import (
	"path/filepath"
	"strings"

	"github.com/vango-dev/routegen/pkg/router"
)

// ignoreMatcher decides which paths under the route root the watcher skips.
// It applies the scanner's exclusion rules to root-relative paths, so the
// files that are watched are exactly the files that are scanned.
type ignoreMatcher struct {
	root string
	conv router.Conventions
}

func newIgnoreMatcher(root string, conv router.Conventions) *ignoreMatcher {
	return &ignoreMatcher{root: filepath.Clean(root), conv: conv}
}

// shouldIgnore reports whether fullPath, or any directory between the root
// and it, is excluded. Paths outside the root are always ignored.
func (m *ignoreMatcher) shouldIgnore(fullPath string) bool {
	rel, err := filepath.Rel(m.root, filepath.Clean(fullPath))
	if err != nil || rel == "." {
		return false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return true
	}
	return m.conv.IsExcluded(rel)
}
