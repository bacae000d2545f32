package main

import (
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/vango-dev/routegen/internal/config"
	"github.com/vango-dev/routegen/internal/errors"
	"github.com/vango-dev/routegen/internal/templates"
)

func initCmd() *cobra.Command {
	var (
		format  string
		force   bool
		root    string
		alias   string
		starter string
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default routegen config",
		Long: `Create a routegen configuration file with default settings.

Examples:
  routegen init
  routegen init --format yaml
  routegen init app --root src/pages --alias @/
  routegen init --starter dashboard

Starters:
  minimal     A single index route
  basic       Root layout with home, about and a not-found page
  dashboard   Basic plus a users section with nested layout and dynamic routes`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(dir, format, root, alias, starter, force)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Config format (json, yaml, toml)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config")
	cmd.Flags().StringVarP(&root, "root", "r", "", "Route directory")
	cmd.Flags().StringVar(&alias, "alias", "", "Import prefix for route files")
	cmd.Flags().StringVarP(&starter, "starter", "s", "", "Also write a starter route tree (minimal, basic, dashboard)")

	return cmd
}

func runInit(dir, format, root, alias, starter string, force bool) error {
	var name string
	switch format {
	case "json":
		name = config.ConfigFileName
	case "yaml", "yml", "toml":
		name = "routegen." + format
	default:
		return errors.Newf(errors.CategoryCLI, "unknown config format %q", format).
			WithSuggestion("Use json, yaml or toml")
	}

	var tmpl *templates.Template
	if starter != "" {
		t, err := templates.Get(starter)
		if err != nil {
			return err
		}
		tmpl = t
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if config.Exists(abs) && !force {
		return errors.Newf(errors.CategoryCLI, "a routegen config already exists in %s", abs).
			WithSuggestion("Pass --force to overwrite it")
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return err
	}

	cfg := config.Default(abs)
	if root != "" {
		cfg.Root = root
	}
	cfg.SrcAlias = alias

	path := filepath.Join(abs, name)
	if err := cfg.SaveTo(path); err != nil {
		return err
	}

	success("Created %s", path)

	if tmpl != nil {
		created, err := tmpl.Create(osfs.New("/"), cfg.RootPath(), templates.Config{
			AppName:        filepath.Base(abs),
			LayoutFilename: cfg.LayoutFilename,
		})
		if err != nil {
			return err
		}
		for _, name := range created {
			success("Created %s", filepath.Join(cfg.Root, name))
		}
	}

	info("Route files go in %s", filepath.Join(abs, cfg.Root))
	info("Run 'routegen gen' to generate %s", cfg.Output)
	return nil
}
