// Package router implements convention-based route generation for
// single-page applications.
//
// The package provides:
//   - File-system based route discovery (Scanner)
//   - Import reference resolution for route files (ResolveImport)
//   - Code generation of a route module for the router runtime (Generator)
//   - Route tree validation (Validator)
//   - A radix tree router over generated route lists (Router)
//
// # File Structure Convention
//
// Routes are defined by component files under the route root:
//
//	src/routes/
//	├── _layout.tsx        → wraps every route below, path "/"
//	├── index.tsx          → index route of /
//	├── about.tsx          → about
//	├── users/
//	│   ├── index.tsx      → users
//	│   └── [id].tsx       → users/:id
//	└── docs/
//	    ├── _layout.tsx    → wraps /docs/*, path "docs"
//	    └── [...rest].tsx  → docs/*
//
// A directory without a layout contributes its routes to the parent, with
// their paths qualified by the directory's segment. A directory with a layout
// contributes a single node wrapping its routes.
//
// Recognized extensions are .tsx, .jsx, .ts and .js, in that priority order:
// when two files share a base name the earlier extension wins. Dotfiles and
// node_modules are never scanned.
//
// # Usage
//
//	scanner := router.NewScanner(nil, router.DefaultConventions("src/routes"))
//	routes, err := scanner.Scan()
//
//	src := router.NewGenerator(router.GeneratorOptions{}).Generate(routes)
//
//	r, err := router.NewRouter(routes)
//	result, ok := r.Match("/users/42")
//	if ok {
//	    // result.Params["id"] == "42"
//	    // result.Elements lists the layout chain then the page
//	}
package router
