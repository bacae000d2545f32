// Package templates provides starter route trees for new projects.
//
// # Available Templates
//
//   - minimal: A single index route
//   - basic: Root layout with home, about and a not-found page
//   - dashboard: Basic plus a users section with nested layout and dynamic routes
//
// # Usage
//
//	tmpl, err := templates.Get("basic")
//	if err != nil {
//	    return err
//	}
//	created, err := tmpl.Create(osfs.New("/"), cfg.RootPath(), templates.Config{
//	    AppName:        "Acme",
//	    LayoutFilename: cfg.LayoutFilename,
//	})
//
// # Template Variables
//
//	{{.AppName}}  - Name shown in the starter pages
package templates
