package templates

import (
	"bytes"
	"os"
	"path"
	"sort"
	"strings"
	"text/template"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/vango-dev/routegen/internal/errors"
	"github.com/vango-dev/routegen/pkg/router"
)

// Config contains template configuration.
type Config struct {
	// AppName is shown in the starter pages.
	AppName string

	// LayoutFilename is the configured layout file name. Without an
	// extension the layout is written as a .tsx file.
	LayoutFilename string
}

// Template is a starter route tree.
type Template struct {
	// Name is the template name.
	Name string

	// Description describes the template.
	Description string

	// Files maps route-root-relative paths to file contents. A file named
	// router.DefaultLayoutFilename is written under the configured layout name.
	Files map[string]string
}

// Available templates.
var templates = map[string]*Template{
	"minimal":   minimalTemplate(),
	"basic":     basicTemplate(),
	"dashboard": dashboardTemplate(),
}

// Get returns a template by name.
func Get(name string) (*Template, error) {
	tmpl, ok := templates[name]
	if !ok {
		return nil, errors.New(errors.CodeUnknownStarter).
			WithDetail("Starter '" + name + "' not found").
			WithSuggestion("Available starters: " + strings.Join(List(), ", "))
	}
	return tmpl, nil
}

// List returns all available template names, sorted.
func List() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create writes the template's files under root. Existing files are left
// alone. It returns the paths written, relative to root, sorted.
func (t *Template) Create(fsys billy.Filesystem, root string, cfg Config) ([]string, error) {
	if cfg.AppName == "" {
		cfg.AppName = "My App"
	}
	layout := layoutName(cfg.LayoutFilename)

	names := make([]string, 0, len(t.Files))
	for name := range t.Files {
		names = append(names, name)
	}
	sort.Strings(names)

	var created []string
	for _, relPath := range names {
		tmpl, err := template.New(relPath).Parse(t.Files[relPath])
		if err != nil {
			return created, errors.Newf(errors.CategoryCLI, "invalid template %s: %v", relPath, err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, cfg); err != nil {
			return created, errors.Newf(errors.CategoryCLI, "template execute error %s: %v", relPath, err)
		}

		target := relPath
		if path.Base(relPath) == router.DefaultLayoutFilename {
			target = path.Join(path.Dir(relPath), layout)
		}

		fullPath := fsys.Join(root, target)
		if _, err := fsys.Stat(fullPath); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return created, err
		}

		if err := fsys.MkdirAll(fsys.Join(root, path.Dir(target)), 0755); err != nil {
			return created, err
		}
		if err := util.WriteFile(fsys, fullPath, buf.Bytes(), 0644); err != nil {
			return created, err
		}
		created = append(created, target)
	}

	return created, nil
}

// layoutName returns the file name layouts are written under.
func layoutName(configured string) string {
	switch {
	case configured == "":
		return router.DefaultLayoutFilename
	case path.Ext(configured) == "":
		return configured + ".tsx"
	default:
		return configured
	}
}

// minimalTemplate returns the minimal template.
func minimalTemplate() *Template {
	return &Template{
		Name:        "minimal",
		Description: "A single index route",
		Files: map[string]string{
			"index.tsx": `export default function Home() {
  return <h1>{{.AppName}}</h1>;
}
`,
		},
	}
}

// basicTemplate returns the basic template.
func basicTemplate() *Template {
	return &Template{
		Name:        "basic",
		Description: "Root layout with home, about and a not-found page",
		Files: map[string]string{
			"_layout.tsx": `import { Link, Outlet } from "react-router";

export default function RootLayout() {
  return (
    <>
      <nav>
        <Link to="/">{{.AppName}}</Link>
        <Link to="/about">About</Link>
      </nav>
      <main>
        <Outlet />
      </main>
    </>
  );
}
`,
			"index.tsx": `export default function Home() {
  return <h1>Welcome to {{.AppName}}</h1>;
}
`,
			"about.tsx": `export default function About() {
  return <h1>About {{.AppName}}</h1>;
}
`,
			"[...rest].tsx": `import { useParams } from "react-router";

export default function NotFound() {
  const params = useParams();
  return <h1>No page at /{params["*"]}</h1>;
}
`,
		},
	}
}

// dashboardTemplate returns the dashboard template.
func dashboardTemplate() *Template {
	tmpl := basicTemplate()
	tmpl.Name = "dashboard"
	tmpl.Description = "Basic plus a users section with its own layout and dynamic routes"
	tmpl.Files["users/_layout.tsx"] = `import { Outlet } from "react-router";

export default function UsersLayout() {
  return (
    <section>
      <h2>Users</h2>
      <Outlet />
    </section>
  );
}
`
	tmpl.Files["users/index.tsx"] = `export default function UserList() {
  return <p>All users</p>;
}
`
	tmpl.Files["users/[id].tsx"] = `import { useParams } from "react-router";

export default function UserProfile() {
  const { id } = useParams();
  return <p>User {id}</p>;
}
`
	tmpl.Files["settings/profile.tsx"] = `export default function ProfileSettings() {
  return <h1>Profile settings</h1>;
}
`
	return tmpl
}
