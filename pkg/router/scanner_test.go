package router

import (
	"errors"
	"testing"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRoot = "/app/src/routes"

// newRouteFS creates an in-memory filesystem with the given files under
// testRoot. File contents are irrelevant to scanning.
func newRouteFS(t *testing.T, files ...string) billy.Filesystem {
	t.Helper()
	fs := memfs.New()
	require.NoError(t, fs.MkdirAll(testRoot, 0o755))
	for _, f := range files {
		require.NoError(t, util.WriteFile(fs, fs.Join(testRoot, f), []byte("export default () => null;\n"), 0o644))
	}
	return fs
}

func scan(t *testing.T, fs billy.Filesystem, conv Conventions) []RouteNode {
	t.Helper()
	routes, err := NewScanner(fs, conv).Scan()
	require.NoError(t, err)
	return stripSources(routes)
}

// stripSources clears Source so trees can be compared structurally.
func stripSources(routes []RouteNode) []RouteNode {
	if routes == nil {
		return nil
	}
	out := make([]RouteNode, len(routes))
	for i, n := range routes {
		n.Source = ""
		n.Children = stripSources(n.Children)
		out[i] = n
	}
	return out
}

func TestScanEndToEnd(t *testing.T) {
	fs := newRouteFS(t, "index.tsx", "about.tsx", "users/[id].tsx", "_layout.tsx")

	got := scan(t, fs, DefaultConventions(testRoot))

	want := []RouteNode{{
		Path:    "/",
		Element: "./routes/_layout",
		Children: []RouteNode{
			{Path: "about", Element: "./routes/about"},
			{Index: true, Element: "./routes/index"},
			{Path: "users/:id", Element: "./routes/users/[id]"},
		},
	}}
	assert.Equal(t, want, got)
}

func TestScanWithoutLayoutsIsFlat(t *testing.T) {
	fs := newRouteFS(t, "about.tsx", "contact.jsx", "blog/index.tsx", "blog/[slug].tsx", "blog/archive/2024.ts")

	got := scan(t, fs, DefaultConventions(testRoot))

	want := []RouteNode{
		{Path: "about", Element: "./routes/about"},
		{Path: "blog/:slug", Element: "./routes/blog/[slug]"},
		{Path: "blog/archive/2024", Element: "./routes/blog/archive/2024"},
		{Path: "blog", Element: "./routes/blog/index"},
		{Path: "contact", Element: "./routes/contact"},
	}
	assert.Equal(t, want, got)
	for _, n := range got {
		assert.Empty(t, n.Children, "no implicit nesting for %s", n.Path)
	}
}

func TestScanNestedLayout(t *testing.T) {
	fs := newRouteFS(t, "_layout.tsx", "index.tsx", "users/_layout.tsx", "users/index.tsx", "users/[id].tsx")

	got := scan(t, fs, DefaultConventions(testRoot))

	want := []RouteNode{{
		Path:    "/",
		Element: "./routes/_layout",
		Children: []RouteNode{
			{Index: true, Element: "./routes/index"},
			{
				Path:    "users",
				Element: "./routes/users/_layout",
				Children: []RouteNode{
					{Path: ":id", Element: "./routes/users/[id]"},
					{Index: true, Element: "./routes/users/index"},
				},
			},
		},
	}}
	assert.Equal(t, want, got)
}

func TestScanLayoutWrapsFlatChildren(t *testing.T) {
	files := []string{"a.tsx", "b.tsx", "nested/c.tsx"}

	flat := scan(t, newRouteFS(t, files...), DefaultConventions(testRoot))
	wrapped := scan(t, newRouteFS(t, append(files, "_layout.tsx")...), DefaultConventions(testRoot))

	require.Len(t, wrapped, 1)
	assert.Equal(t, "/", wrapped[0].Path)
	assert.Equal(t, KindLayout, wrapped[0].Kind())
	assert.Equal(t, flat, wrapped[0].Children)
}

func TestScanDynamicDirectory(t *testing.T) {
	fs := newRouteFS(t, "projects/[id]/_layout.tsx", "projects/[id]/index.tsx", "projects/[id]/edit.tsx", "orgs/[org]/settings.tsx")

	got := scan(t, fs, DefaultConventions(testRoot))

	want := []RouteNode{
		{Path: "orgs/:org/settings", Element: "./routes/orgs/[org]/settings"},
		{
			Path:    "projects/:id",
			Element: "./routes/projects/[id]/_layout",
			Children: []RouteNode{
				{Path: "edit", Element: "./routes/projects/[id]/edit"},
				{Index: true, Element: "./routes/projects/[id]/index"},
			},
		},
	}
	assert.Equal(t, want, got)
}

func TestScanSplat(t *testing.T) {
	fs := newRouteFS(t, "docs/_layout.tsx", "docs/[...rest].tsx")

	got := scan(t, fs, DefaultConventions(testRoot))

	require.Len(t, got, 1)
	require.Len(t, got[0].Children, 1)
	assert.Equal(t, "*", got[0].Children[0].Path)
}

func TestScanExtensionPriority(t *testing.T) {
	fs := newRouteFS(t, "about.js", "about.tsx", "about.ts", "_layout.js", "_layout.tsx")
	conv := DefaultConventions(testRoot)
	conv.LayoutFilename = "_layout"

	routes, err := NewScanner(fs, conv).Scan()
	require.NoError(t, err)

	require.Len(t, routes, 1)
	assert.Equal(t, testRoot+"/_layout.tsx", routes[0].Source)
	require.Len(t, routes[0].Children, 1)
	assert.Equal(t, testRoot+"/about.tsx", routes[0].Children[0].Source)
	assert.Equal(t, "./routes/about", routes[0].Children[0].Element)
}

func TestScanExactLayoutName(t *testing.T) {
	fs := newRouteFS(t, "_layout.tsx", "_layout.js", "index.tsx")

	routes, err := NewScanner(fs, DefaultConventions(testRoot)).Scan()
	require.NoError(t, err)

	require.Len(t, routes, 1)
	assert.Equal(t, testRoot+"/_layout.tsx", routes[0].Source)
}

func TestScanSkipsIgnoredAndUnknown(t *testing.T) {
	fs := newRouteFS(t,
		"index.tsx",
		".hidden.tsx",
		".cache/page.tsx",
		"node_modules/pkg/index.js",
		"README.md",
		"styles.css",
		"__tests__/index.test.tsx",
	)
	conv := DefaultConventions(testRoot)
	conv.Ignore = []string{"__tests__"}

	got := scan(t, fs, conv)

	assert.Equal(t, []RouteNode{{Index: true, Element: "./routes/index"}}, got)
}

func TestScanIgnorePatterns(t *testing.T) {
	fs := newRouteFS(t,
		"about.tsx",
		"about.test.tsx",
		"users/[id].tsx",
		"users/[id].test.tsx",
		"admin/internal/index.tsx",
		"admin/index.tsx",
	)
	conv := DefaultConventions(testRoot)
	conv.Ignore = []string{"*.test.tsx", "admin/internal"}

	got := scan(t, fs, conv)

	assert.Equal(t, []RouteNode{
		{Path: "about", Element: "./routes/about"},
		{Path: "admin", Element: "./routes/admin/index"},
		{Path: "users/:id", Element: "./routes/users/[id]"},
	}, got)
}

func TestScanSkipsExcludedFiles(t *testing.T) {
	fs := newRouteFS(t, "index.tsx", "routes.gen.tsx")
	conv := DefaultConventions(testRoot)
	conv.Exclude = []string{testRoot + "/routes.gen.tsx"}

	got := scan(t, fs, conv)

	assert.Equal(t, []RouteNode{{Index: true, Element: "./routes/index"}}, got)
}

func TestScanEmptyDirectory(t *testing.T) {
	fs := newRouteFS(t)
	require.NoError(t, fs.MkdirAll(fs.Join(testRoot, "empty"), 0o755))

	got := scan(t, fs, DefaultConventions(testRoot))

	assert.Empty(t, got)
}

func TestScanAlias(t *testing.T) {
	fs := newRouteFS(t, "about.tsx")
	conv := DefaultConventions(testRoot)
	conv.Alias = "@/"

	got := scan(t, fs, conv)

	assert.Equal(t, []RouteNode{{Path: "about", Element: "@/routes/about"}}, got)
}

func TestScanRootErrors(t *testing.T) {
	fs := memfs.New()

	_, err := NewScanner(fs, DefaultConventions("/missing")).Scan()
	assert.Error(t, err)

	require.NoError(t, util.WriteFile(fs, "/file.tsx", nil, 0o644))
	_, err = NewScanner(fs, DefaultConventions("/file.tsx")).Scan()
	assert.True(t, errors.Is(err, ErrNotDirectory))
}

func TestScanIdempotent(t *testing.T) {
	fs := newRouteFS(t, "_layout.tsx", "index.tsx", "b/x.tsx", "a/_layout.tsx", "a/[id].tsx")
	s := NewScanner(fs, DefaultConventions(testRoot))

	first, err := s.Scan()
	require.NoError(t, err)
	second, err := s.Scan()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestScanRecordsSources(t *testing.T) {
	fs := newRouteFS(t, "_layout.tsx", "about.tsx")

	routes, err := NewScanner(fs, DefaultConventions(testRoot)).Scan()
	require.NoError(t, err)

	assert.Equal(t, testRoot+"/_layout.tsx", routes[0].Source)
	assert.Equal(t, testRoot+"/about.tsx", routes[0].Children[0].Source)
}
