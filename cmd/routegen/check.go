package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/vango-dev/routegen/internal/config"
	"github.com/vango-dev/routegen/internal/errors"
	"github.com/vango-dev/routegen/pkg/jsast"
	"github.com/vango-dev/routegen/pkg/router"
)

func checkCmd(g *globalFlags) *cobra.Command {
	var (
		flags overrides
		match []string
	)

	cmd := &cobra.Command{
		Use:   "check [manifest.json]",
		Short: "Validate the route tree and list the URL patterns",
		Long: `Build the router the generated module describes and report problems.

Without an argument the route directory is scanned. With a manifest file
the routes are read from it instead. An empty route list is an error.

Examples:
  routegen check
  routegen check src/generated/routes.json
  routegen check --match /users/42 --match /docs/a/b`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			flags.apply(cmd, cfg)

			manifest := ""
			if len(args) == 1 {
				manifest = args[0]
			}
			return runCheck(cfg, manifest, match)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringArrayVarP(&match, "match", "m", nil, "Resolve a URL path against the routes (repeatable)")

	return cmd
}

func runCheck(cfg *config.Config, manifest string, paths []string) error {
	var (
		routes []router.RouteNode
		err    error
	)
	if manifest != "" {
		abs, absErr := filepath.Abs(manifest)
		if absErr != nil {
			return absErr
		}
		routes, err = router.ReadManifest(osfs.New("/"), abs)
		if err != nil {
			return errors.FromError(err, errors.CodeRoutesMalformed)
		}
	} else {
		routes, err = router.NewScanner(nil, cfg.Conventions()).Scan()
		if err != nil {
			return errors.FromError(err, errors.CodeScanFailed)
		}
	}

	src := router.NewGenerator(router.GeneratorOptions{}).Generate(routes)
	if err := jsast.Validate(src, filepath.Base(cfg.OutputPath())); err != nil {
		return errors.FromError(err, errors.CodeGenerateFailed)
	}

	r, err := router.NewRouter(routes)
	if err != nil {
		return errors.FromError(err, errors.CodeRoutesInvalid)
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATTERN\tINDEX\tELEMENTS")
	patterns := r.Patterns()
	for _, info := range patterns {
		index := ""
		if info.Index {
			index = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Pattern, index, strings.Join(info.Elements, " > "))
	}
	tw.Flush()
	fmt.Fprintln(stdout)

	missing := 0
	for _, p := range paths {
		m, ok := r.Match(p)
		if !ok {
			warn("%s: no route", p)
			missing++
			continue
		}
		line := fmt.Sprintf("%s -> %s (%s)", p, m.Pattern, strings.Join(m.Elements, " > "))
		if len(m.Params) > 0 {
			line += " " + formatParams(m.Params)
		}
		success("%s", line)
	}

	success("%d routes OK", len(patterns))
	if missing > 0 {
		return errors.Newf(errors.CategoryCLI, "%d of %d paths did not match", missing, len(paths))
	}
	return nil
}

func formatParams(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + params[k]
	}
	return strings.Join(parts, " ")
}
