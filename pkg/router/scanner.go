package router

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// ErrNotDirectory is returned when the route root is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Scanner builds route trees from a directory of route files.
//
// Routes from a directory without a layout are lifted into the parent with
// the directory's segment prepended: users/[id].tsx becomes path "users/:id"
// and users/index.tsx becomes path "users", not a bare ":id" or index route.
type Scanner struct {
	fs   billy.Filesystem
	conv Conventions
}

// NewScanner creates a scanner over fsys. A nil fsys uses the OS filesystem.
func NewScanner(fsys billy.Filesystem, conv Conventions) *Scanner {
	if fsys == nil {
		fsys = osfs.New("/")
	}
	conv = conv.withDefaults()
	if !filepath.IsAbs(conv.Root) {
		if abs, err := filepath.Abs(conv.Root); err == nil {
			conv.Root = abs
		}
	}
	return &Scanner{fs: fsys, conv: conv}
}

// Conventions returns the scanner's effective conventions.
func (s *Scanner) Conventions() Conventions {
	return s.conv
}

// Scan reads the route root and returns the route tree.
// The result depends only on the filesystem contents at call time.
func (s *Scanner) Scan() ([]RouteNode, error) {
	info, err := s.fs.Stat(s.conv.Root)
	if err != nil {
		return nil, fmt.Errorf("route root %s: %w", s.conv.Root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("route root %s: %w", s.conv.Root, ErrNotDirectory)
	}
	routes, _, err := s.scanDir(s.conv.Root, true)
	return routes, err
}

// dirListing is one directory's entries after filtering.
type dirListing struct {
	entries []os.FileInfo
	layout  string
	winners map[string]string // stem -> chosen file name
}

// list reads a directory, drops ignored entries, and resolves which file wins
// for the layout and for each base name.
func (s *Scanner) list(dir string) (dirListing, error) {
	raw, err := s.fs.ReadDir(dir)
	if err != nil {
		return dirListing{}, fmt.Errorf("scanning %s: %w", dir, err)
	}
	sort.SliceStable(raw, func(i, j int) bool { return raw[i].Name() < raw[j].Name() })

	rel, err := filepath.Rel(s.conv.Root, dir)
	if err != nil {
		return dirListing{}, fmt.Errorf("scanning %s: %w", dir, err)
	}

	listing := dirListing{winners: make(map[string]string)}
	layoutRank := -1
	for _, entry := range raw {
		if s.conv.IsExcluded(path.Join(filepath.ToSlash(rel), entry.Name())) {
			continue
		}
		listing.entries = append(listing.entries, entry)
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		rank := s.conv.priority(path.Ext(name))
		if rank < 0 {
			continue
		}

		if s.conv.IsLayout(name) {
			if layoutRank < 0 || rank < layoutRank {
				listing.layout = name
				layoutRank = rank
			}
			continue
		}

		stem := name[:len(name)-len(path.Ext(name))]
		if current, ok := listing.winners[stem]; !ok || rank < s.conv.priority(path.Ext(current)) {
			listing.winners[stem] = name
		}
	}
	return listing, nil
}

// scanDir builds the routes contributed by dir. A directory with a layout
// returns a single wrapper node and wrapped=true; otherwise its children are
// returned as-is.
func (s *Scanner) scanDir(dir string, isRoot bool) (routes []RouteNode, wrapped bool, err error) {
	listing, err := s.list(dir)
	if err != nil {
		return nil, false, err
	}

	var children []RouteNode
	for _, entry := range listing.entries {
		name := entry.Name()
		full := s.fs.Join(dir, name)

		if entry.IsDir() {
			nested, nestedWrapped, err := s.scanDir(full, false)
			if err != nil {
				return nil, false, err
			}
			if nestedWrapped {
				children = append(children, nested...)
			} else {
				children = append(children, qualify(SegmentFor(name), nested)...)
			}
			continue
		}

		info := s.conv.ClassifyFile(name)
		if info.Role == RoleSkip || info.Role == RoleLayout {
			continue
		}
		if listing.winners[info.Stem] != name {
			continue
		}

		node := RouteNode{
			Element: resolveImport(full, s.conv.Root, s.conv.Alias, s.conv.Extensions),
			Source:  full,
		}
		if info.Role == RoleIndex {
			node.Index = true
		} else {
			node.Path = info.Segment
		}
		children = append(children, node)
	}

	if listing.layout == "" {
		return children, false, nil
	}

	layoutPath := s.fs.Join(dir, listing.layout)
	wrapper := RouteNode{
		Path:     "/",
		Element:  resolveImport(layoutPath, s.conv.Root, s.conv.Alias, s.conv.Extensions),
		Children: children,
		Source:   layoutPath,
	}
	if !isRoot {
		wrapper.Path = SegmentFor(filepath.Base(dir))
	}
	return []RouteNode{wrapper}, true, nil
}

// qualify prefixes the paths of routes flattened out of a layout-less
// directory with that directory's segment. Index routes of the directory
// become plain routes at the directory's path.
func qualify(segment string, nodes []RouteNode) []RouteNode {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]RouteNode, 0, len(nodes))
	for _, n := range nodes {
		switch {
		case n.Index:
			n.Index = false
			n.Path = segment
		case n.Path == "":
			n.Path = segment
		default:
			n.Path = segment + "/" + n.Path
		}
		out = append(out, n)
	}
	return out
}
