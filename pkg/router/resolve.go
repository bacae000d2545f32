package router

import (
	"path/filepath"
	"strings"
)

// ResolveImport converts an absolute route file path into the import reference
// used by the generated module.
//
// The reference is relative to the parent of root, uses forward slashes, and
// has its extension removed. With an alias, a leading "src/" is dropped and the
// alias is prepended; otherwise the reference is marked relative with "./".
//
//	ResolveImport("/app/src/routes/about.tsx", "/app/src/routes", "")   → "./routes/about"
//	ResolveImport("/app/src/routes/about.tsx", "/app/src/routes", "@/") → "@/routes/about"
func ResolveImport(file, root, alias string) string {
	return resolveImport(file, root, alias, DefaultExtensions)
}

func resolveImport(file, root, alias string, exts []string) string {
	base := filepath.Dir(filepath.Clean(root))
	rel, err := filepath.Rel(base, filepath.Clean(file))
	if err != nil {
		rel = filepath.Clean(file)
	}
	rel = filepath.ToSlash(rel)
	rel = stripExtension(rel, exts)

	if alias != "" {
		return alias + strings.TrimPrefix(rel, "src/")
	}
	return "./" + rel
}

// stripExtension removes the first matching recognized extension.
func stripExtension(p string, exts []string) string {
	for _, ext := range exts {
		if strings.HasSuffix(p, ext) {
			return strings.TrimSuffix(p, ext)
		}
	}
	return p
}
