package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/routegen/internal/config"
	"github.com/vango-dev/routegen/internal/dev"
)

func watchCmd(g *globalFlags) *cobra.Command {
	var (
		flags    overrides
		addr     string
		debounce time.Duration
		trace    bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the route module whenever route files change",
		Long: `Watch the route directory and regenerate the route module.

Every file or folder added or removed under the route root is logged. Once
the tree has been quiet for the debounce window the module is regenerated.
Failed rebuilds are logged and leave the previous module in place.

With --addr a dev server exposes:
  /_routegen/reload   WebSocket notifications after each rebuild
  /routes             JSON manifest of the current route tree
  /metrics            Prometheus metrics

Examples:
  routegen watch
  routegen watch --debounce 200ms
  routegen watch --addr localhost:3100 --trace`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			flags.apply(cmd, cfg)
			if addr != "" {
				cfg.Dev.Addr = addr
			}
			if debounce > 0 {
				cfg.Dev.Debounce = config.Duration(debounce)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runWatch(cfg, g.verbose, trace)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "Dev server address (default from config; empty disables it)")
	cmd.Flags().DurationVarP(&debounce, "debounce", "d", 0, "Stability window before a rebuild (default 500ms)")
	cmd.Flags().BoolVar(&trace, "trace", false, "Print rebuild traces to stdout")

	return cmd
}

func runWatch(cfg *config.Config, verbose, trace bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if trace {
		shutdown, err := installTracer()
		if err != nil {
			return err
		}
		defer shutdown()
	}

	opts, err := dev.OptionsFromConfig(ctx, cfg)
	if err != nil {
		return err
	}
	logger := newLogger(stderr, log.InfoLevel, verbose)
	opts.Logger = logger

	var reload *dev.ReloadServer
	if cfg.Dev.Addr != "" && cfg.Dev.HotReload {
		reload = dev.NewReloadServer()
		opts.Reload = reload
	}

	coord := dev.NewCoordinator(opts)

	info("Watching %s", cfg.RootPath())
	info("Writing %s", cfg.OutputPath())
	fmt.Fprintln(stdout)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return coord.Run(ctx)
	})
	if cfg.Dev.Addr != "" {
		srv := dev.NewServer(cfg.Dev.Addr, coord, reload, logger)
		group.Go(func() error {
			return srv.Start(ctx)
		})
	}

	err = group.Wait()
	fmt.Fprintln(stdout)
	info("Stopped watching")
	return err
}

// installTracer sends spans to stdout and returns a function that flushes
// them.
func installTracer() (func(), error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(os.Stdout), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			errorMsg("Flushing traces: %v", err)
		}
	}, nil
}
