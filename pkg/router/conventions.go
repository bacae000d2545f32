package router

import (
	"path"
	"path/filepath"
	"strings"
)

// DefaultLayoutFilename is the file recognized as a layout wrapper.
const DefaultLayoutFilename = "_layout.tsx"

// DefaultExtensions are the recognized route file extensions in priority order.
var DefaultExtensions = []string{".tsx", ".jsx", ".ts", ".js"}

// DefaultIgnore names are skipped by the scanner and the watcher in addition
// to dotfiles.
var DefaultIgnore = []string{"node_modules"}

// Conventions configures how file names map to routes.
type Conventions struct {
	// Root is the directory that holds the route files.
	Root string

	// Alias prefixes import references. Empty means relative references.
	Alias string

	// LayoutFilename is the layout file name. With an extension only the exact
	// name matches; without one any recognized extension matches.
	LayoutFilename string

	// Extensions are the recognized extensions. Earlier entries win when two
	// files share a base name.
	Extensions []string

	// Ignore lists extra entries excluded from traversal. Plain names match
	// any path segment; patterns with glob characters (path.Match syntax)
	// match segment names; patterns containing "/" match root-relative paths.
	Ignore []string

	// Exclude lists absolute paths of generated files. Under Root they are
	// neither scanned nor watched.
	Exclude []string
}

// DefaultConventions returns the conventions for root with default settings.
func DefaultConventions(root string) Conventions {
	return Conventions{
		Root:           root,
		LayoutFilename: DefaultLayoutFilename,
		Extensions:     append([]string(nil), DefaultExtensions...),
	}
}

// withDefaults fills in zero values.
func (c Conventions) withDefaults() Conventions {
	if c.LayoutFilename == "" {
		c.LayoutFilename = DefaultLayoutFilename
	}
	if len(c.Extensions) == 0 {
		c.Extensions = append([]string(nil), DefaultExtensions...)
	}
	return c
}

// FileRole is the route meaning of a file name.
type FileRole int

const (
	// RoleSkip files are not routes (unknown extension).
	RoleSkip FileRole = iota
	// RoleLayout files wrap their directory.
	RoleLayout
	// RoleIndex files are the index route of their directory.
	RoleIndex
	// RoleDynamic files are a dynamic segment ([id]).
	RoleDynamic
	// RoleSplat files match the rest of the path ([...rest]).
	RoleSplat
	// RoleStatic files are a literal segment.
	RoleStatic
)

// FileInfo is the classification of a single file name.
type FileInfo struct {
	Role FileRole

	// Stem is the file name without its extension.
	Stem string

	// Ext is the recognized extension.
	Ext string

	// Segment is the path segment the file contributes.
	Segment string
}

// ClassifyFile maps a file name onto its route role.
func (c Conventions) ClassifyFile(name string) FileInfo {
	c = c.withDefaults()

	ext := path.Ext(name)
	if c.priority(ext) < 0 {
		return FileInfo{Role: RoleSkip}
	}
	stem := strings.TrimSuffix(name, ext)
	info := FileInfo{Stem: stem, Ext: ext}

	if c.IsLayout(name) {
		info.Role = RoleLayout
		return info
	}
	if stem == "index" {
		info.Role = RoleIndex
		return info
	}

	info.Segment = SegmentFor(stem)
	switch {
	case strings.HasPrefix(info.Segment, "*"):
		info.Role = RoleSplat
	case strings.HasPrefix(info.Segment, ":"):
		info.Role = RoleDynamic
	default:
		info.Role = RoleStatic
	}
	return info
}

// IsLayout reports whether name is the configured layout file.
func (c Conventions) IsLayout(name string) bool {
	c = c.withDefaults()
	if name == c.LayoutFilename {
		return true
	}
	if path.Ext(c.LayoutFilename) != "" {
		return false
	}
	ext := path.Ext(name)
	return c.priority(ext) >= 0 && strings.TrimSuffix(name, ext) == c.LayoutFilename
}

// IsIgnored reports whether an entry name is excluded from traversal.
func (c Conventions) IsIgnored(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, ignored := range DefaultIgnore {
		if name == ignored {
			return true
		}
	}
	for _, ignored := range c.Ignore {
		if name == ignored {
			return true
		}
	}
	return false
}

// IsExcluded reports whether rel, a slash-separated path relative to Root,
// is skipped by the scanner and the watcher. The root itself is never
// excluded.
func (c Conventions) IsExcluded(rel string) bool {
	parts := splitPathSegments(filepath.ToSlash(rel))
	if len(parts) == 0 {
		return false
	}
	for _, part := range parts {
		if c.IsIgnored(part) {
			return true
		}
	}

	rel = strings.Join(parts, "/")
	for _, pattern := range c.Ignore {
		pattern = strings.TrimSpace(filepath.ToSlash(pattern))
		switch {
		case strings.Contains(pattern, "/"):
			if matchesPathPattern(parts, strings.Trim(pattern, "/")) {
				return true
			}
		case strings.ContainsAny(pattern, "*?["):
			for _, part := range parts {
				if matched, _ := path.Match(pattern, part); matched {
					return true
				}
			}
		}
	}

	full := path.Join(filepath.ToSlash(c.Root), rel)
	for _, ex := range c.Exclude {
		if ex != "" && path.Clean(filepath.ToSlash(ex)) == full {
			return true
		}
	}
	return false
}

// matchesPathPattern reports whether pattern matches a leading part of the
// path, or appears in it as a run of literal segments.
func matchesPathPattern(parts []string, pattern string) bool {
	for i := range parts {
		if matched, _ := path.Match(pattern, strings.Join(parts[:i+1], "/")); matched {
			return true
		}
	}

	patternParts := splitPathSegments(pattern)
	if len(patternParts) == 0 || len(patternParts) > len(parts) {
		return false
	}
	for i := 0; i <= len(parts)-len(patternParts); i++ {
		match := true
		for j := range patternParts {
			if parts[i+j] != patternParts[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func splitPathSegments(p string) []string {
	if p == "" {
		return nil
	}
	parts := strings.Split(p, "/")
	result := parts[:0]
	for _, part := range parts {
		if part != "" && part != "." {
			result = append(result, part)
		}
	}
	return result
}

// priority returns the index of ext in the extension list, or -1.
func (c Conventions) priority(ext string) int {
	if ext == "" {
		return -1
	}
	for i, e := range c.Extensions {
		if e == ext {
			return i
		}
	}
	return -1
}

// SegmentFor converts a file stem or directory name to a path segment.
//
//	[id]      → :id
//	[...rest] → *
//	about     → about
func SegmentFor(name string) string {
	if len(name) > 2 && strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]") {
		inner := name[1 : len(name)-1]
		if strings.HasPrefix(inner, "...") {
			return "*"
		}
		return ":" + inner
	}
	return name
}
