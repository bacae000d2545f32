package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegmentFor(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"about", "about"},
		{"[id]", ":id"},
		{"[userId]", ":userId"},
		{"[...rest]", "*"},
		{"[...]", "*"},
		{"[]", "[]"},
		{"[id", "[id"},
		{"2024", "2024"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SegmentFor(tt.name), "SegmentFor(%q)", tt.name)
	}
}

func TestClassifyFile(t *testing.T) {
	conv := DefaultConventions("/routes")

	tests := []struct {
		name    string
		role    FileRole
		segment string
	}{
		{"index.tsx", RoleIndex, ""},
		{"index.js", RoleIndex, ""},
		{"_layout.tsx", RoleLayout, ""},
		{"_layout.jsx", RoleStatic, "_layout"},
		{"about.tsx", RoleStatic, "about"},
		{"about.page.tsx", RoleStatic, "about.page"},
		{"[id].ts", RoleDynamic, ":id"},
		{"[...rest].jsx", RoleSplat, "*"},
		{"styles.css", RoleSkip, ""},
		{"Makefile", RoleSkip, ""},
		{"types.d.ts", RoleStatic, "types.d"},
	}

	for _, tt := range tests {
		info := conv.ClassifyFile(tt.name)
		assert.Equal(t, tt.role, info.Role, "role of %q", tt.name)
		assert.Equal(t, tt.segment, info.Segment, "segment of %q", tt.name)
	}
}

func TestIsLayout(t *testing.T) {
	exact := DefaultConventions("/routes")
	assert.True(t, exact.IsLayout("_layout.tsx"))
	assert.False(t, exact.IsLayout("_layout.js"))

	anyExt := DefaultConventions("/routes")
	anyExt.LayoutFilename = "layout"
	assert.True(t, anyExt.IsLayout("layout.tsx"))
	assert.True(t, anyExt.IsLayout("layout.js"))
	assert.False(t, anyExt.IsLayout("layout.css"))
	assert.False(t, anyExt.IsLayout("layouts.tsx"))
}

func TestIsIgnored(t *testing.T) {
	conv := DefaultConventions("/routes")
	conv.Ignore = []string{"__snapshots__"}

	assert.True(t, conv.IsIgnored(".git"))
	assert.True(t, conv.IsIgnored(".DS_Store"))
	assert.True(t, conv.IsIgnored("node_modules"))
	assert.True(t, conv.IsIgnored("__snapshots__"))
	assert.False(t, conv.IsIgnored("about.tsx"))
	assert.False(t, conv.IsIgnored("_layout.tsx"))
}

func TestIsExcluded(t *testing.T) {
	conv := DefaultConventions("/app/src/routes")
	conv.Ignore = []string{"__tests__", "*.stories.tsx", "admin/internal"}
	conv.Exclude = []string{"/app/src/routes/generated/routes.tsx", ""}

	tests := []struct {
		rel     string
		exclude bool
	}{
		{"", false},
		{".", false},
		{"about.tsx", false},
		{".hidden.tsx", true},
		{"users/.cache/x.tsx", true},
		{"node_modules/pkg/index.js", true},
		{"__tests__/about.test.tsx", true},
		{"button.stories.tsx", true},
		{"stories/button.tsx", false},
		{"admin/internal", true},
		{"admin/internal/index.tsx", true},
		{"admin/index.tsx", false},
		{"generated/routes.tsx", true},
		{"generated/other.tsx", false},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.exclude, conv.IsExcluded(tt.rel))
		})
	}
}

func TestConventionsDefaults(t *testing.T) {
	conv := Conventions{Root: "/routes"}.withDefaults()

	assert.Equal(t, DefaultLayoutFilename, conv.LayoutFilename)
	assert.Equal(t, DefaultExtensions, conv.Extensions)
	assert.Equal(t, 0, conv.priority(".tsx"))
	assert.Equal(t, 3, conv.priority(".js"))
	assert.Equal(t, -1, conv.priority(".css"))
	assert.Equal(t, -1, conv.priority(""))
}
