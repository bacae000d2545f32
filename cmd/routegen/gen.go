package main

import (
	"bytes"
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vango-dev/routegen/internal/config"
	"github.com/vango-dev/routegen/internal/dev"
	"github.com/vango-dev/routegen/internal/errors"
	"github.com/vango-dev/routegen/pkg/router"
)

// overrides are command-line settings that win over config and environment.
type overrides struct {
	root     string
	output   string
	alias    string
	manifest string
}

func (o *overrides) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.root, "root", "r", "", "Route directory (default from config: src/routes)")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Generated module path")
	cmd.Flags().StringVar(&o.alias, "alias", "", "Import prefix for route files (e.g. @/)")
	cmd.Flags().StringVar(&o.manifest, "manifest", "", "Also write a JSON manifest to this path")
}

func (o *overrides) apply(cmd *cobra.Command, cfg *config.Config) {
	if o.root != "" {
		cfg.Root = o.root
	}
	if o.output != "" {
		cfg.Output = o.output
	}
	if cmd.Flags().Changed("alias") {
		cfg.SrcAlias = o.alias
	}
	if o.manifest != "" {
		cfg.Manifest = o.manifest
	}
}

func genCmd(g *globalFlags) *cobra.Command {
	var (
		flags overrides
		check bool
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate the route module once",
		Long: `Scan the route directory and write the generated route module.

The output is deterministic: running it multiple times produces identical
output unless the route files change. The file is replaced atomically, so a
failed run leaves the previous module in place.

Examples:
  routegen gen
  routegen gen --root app/pages --output app/routes.gen.tsx
  routegen gen --alias @/ --manifest src/generated/routes.json
  routegen gen --check            # fail if the module is out of date`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			flags.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			if check {
				return runCheckFresh(cfg)
			}
			return runGen(cmd.Context(), cfg, g.verbose)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&check, "check", false, "Verify the generated module is up to date without writing")

	return cmd
}

func runGen(ctx context.Context, cfg *config.Config, verbose bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	opts, err := dev.OptionsFromConfig(ctx, cfg)
	if err != nil {
		return err
	}
	opts.Logger = newLogger(stderr, log.WarnLevel, verbose)

	info("Scanning %s...", cfg.RootPath())
	res := dev.NewCoordinator(opts).Rebuild(ctx)
	if res.Err != nil {
		return res.Err
	}

	success("Generated %s (%d routes)", res.Output, res.Routes)
	if opts.Manifest != nil {
		success("Wrote manifest %s", opts.Manifest.Target())
	}
	if opts.Publish != nil {
		success("Published %s", opts.Publish.Target())
	}
	return nil
}

// runCheckFresh compares the module on disk with a fresh generation.
func runCheckFresh(cfg *config.Config) error {
	routes, err := router.NewScanner(nil, cfg.Conventions()).Scan()
	if err != nil {
		return errors.FromError(err, errors.CodeScanFailed)
	}
	want := router.NewGenerator(router.GeneratorOptions{}).Generate(routes)

	got, err := os.ReadFile(cfg.OutputPath())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if !bytes.Equal(got, want) {
		return errors.Newf(errors.CategoryGenerate, "%s is out of date", cfg.OutputPath()).
			WithSuggestion("Run 'routegen gen' and commit the result")
	}

	success("%s is up to date", cfg.OutputPath())
	return nil
}
