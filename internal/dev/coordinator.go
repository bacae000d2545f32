package dev

import (
	"context"
	"log/slog"
	"sync"
	"time"

	billy "github.com/go-git/go-billy/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/routegen/internal/errors"
	"github.com/vango-dev/routegen/internal/output"
	"github.com/vango-dev/routegen/pkg/jsast"
	"github.com/vango-dev/routegen/pkg/router"
)

// DefaultDebounce is the quiet period after the last event before a rebuild.
const DefaultDebounce = 500 * time.Millisecond

const tracerName = "github.com/vango-dev/routegen/internal/dev"

// CoordinatorOptions configures a Coordinator.
type CoordinatorOptions struct {
	// Conventions describe the route tree. Conventions.Root is scanned and
	// watched.
	Conventions router.Conventions

	// FS is the filesystem scanned. Nil uses the OS filesystem.
	FS billy.Filesystem

	// Generator configures the emitted module.
	Generator router.GeneratorOptions

	// Output receives the generated module. Required.
	Output output.Writer

	// Manifest optionally receives the JSON manifest.
	Manifest output.Writer

	// Publish optionally receives a copy of the generated module.
	Publish output.Writer

	// Debounce is the stability window (default: 500ms).
	Debounce time.Duration

	// Events and Errors replace the fsnotify watcher when Events is set.
	Events <-chan Event
	Errors <-chan error

	// Reload is notified after every rebuild. May be nil.
	Reload *ReloadServer

	// Registry receives the coordinator's metrics (default: a new registry).
	Registry *prometheus.Registry

	// Tracer traces rebuilds (default: the global tracer provider).
	Tracer trace.Tracer

	// Logger receives event and rebuild logs (default: slog.Default()).
	Logger *slog.Logger

	// OnRebuild is called on the coordinator goroutine after each rebuild.
	OnRebuild func(RebuildResult)
}

// RebuildResult describes one rebuild.
type RebuildResult struct {
	// Routes is the number of route nodes generated.
	Routes int

	// Output is the target of the generated module.
	Output string

	// Module is the generated source. Nil when the rebuild failed.
	Module []byte

	// Duration is how long the rebuild took.
	Duration time.Duration

	// Err is the rebuild failure, nil on success.
	Err error
}

// Coordinator watches the route root and regenerates the route module once
// the tree has been quiet for the debounce window. Events and rebuilds are
// handled on the single goroutine running Run, so rebuilds never overlap.
type Coordinator struct {
	opts      CoordinatorOptions
	scanner   *router.Scanner
	generator *router.Generator
	metrics   *Metrics
	registry  *prometheus.Registry
	tracer    trace.Tracer
	log       *slog.Logger

	mu       sync.RWMutex
	manifest []byte
	last     RebuildResult
}

// NewCoordinator creates a coordinator.
func NewCoordinator(opts CoordinatorOptions) *Coordinator {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(tracerName)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	// Generated files under the root must not be scanned, and their rewrites
	// must not trigger rebuilds.
	conv := opts.Conventions
	conv.Exclude = append(append([]string(nil), conv.Exclude...), opts.Output.Target())
	if opts.Manifest != nil {
		conv.Exclude = append(conv.Exclude, opts.Manifest.Target())
	}

	return &Coordinator{
		opts:      opts,
		scanner:   router.NewScanner(opts.FS, conv),
		generator: router.NewGenerator(opts.Generator),
		metrics:   NewMetrics(opts.Registry),
		registry:  opts.Registry,
		tracer:    opts.Tracer,
		log:       opts.Logger,
	}
}

// Registry returns the registry holding the coordinator's metrics.
func (c *Coordinator) Registry() *prometheus.Registry {
	return c.registry
}

// Root returns the scanned route root.
func (c *Coordinator) Root() string {
	return c.scanner.Conventions().Root
}

// Manifest returns the JSON manifest of the last successful rebuild, or nil
// before the first one.
func (c *Coordinator) Manifest() []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.manifest
}

// LastResult returns the most recent rebuild result.
func (c *Coordinator) LastResult() RebuildResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

// Run logs a startup event, rebuilds once and then rebuilds after every burst
// of events until ctx is done. It returns an error only when the watcher
// cannot be started.
func (c *Coordinator) Run(ctx context.Context) error {
	events, errs := c.opts.Events, c.opts.Errors
	if events == nil {
		w, err := NewWatcher(WatcherConfig{Root: c.Root(), Conventions: c.scanner.Conventions()})
		if err != nil {
			return errors.FromError(err, errors.CodeWatchFailed).
				WithDetail("Could not watch " + c.Root())
		}
		defer w.Close()
		go w.Start(ctx)
		events, errs = w.Events(), w.Errors()
	}

	c.logEvent(Event{Op: OpStartup, Path: c.Root()})
	c.Rebuild(ctx)

	debounce := time.NewTimer(c.opts.Debounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			c.logEvent(ev)
			c.metrics.fsEvents.WithLabelValues(ev.Op.String()).Inc()
			debounce.Reset(c.opts.Debounce)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			c.metrics.watchErrors.Inc()
			c.log.Error("watch error", "error", errors.FromError(err, errors.CodeWatchFailed))

		case <-debounce.C:
			c.Rebuild(ctx)
		}
	}
}

func (c *Coordinator) logEvent(ev Event) {
	c.log.Info(ev.Op.String(), "path", ev.Path)
}

// Rebuild scans, generates and writes the route module once. Failures are
// logged and returned in the result; the previous output stays in place.
func (c *Coordinator) Rebuild(ctx context.Context) RebuildResult {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "routegen.rebuild",
		trace.WithAttributes(attribute.String("routegen.output", c.opts.Output.Target())),
	)
	defer span.End()

	res := c.rebuild(ctx)
	res.Output = c.opts.Output.Target()
	res.Duration = time.Since(start)

	if res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Err.Error())
		c.metrics.recordRebuild("error", res.Duration.Seconds())
		c.log.Error("rebuild failed", "error", res.Err)
		if c.opts.Reload != nil {
			c.opts.Reload.NotifyError(res.Err.Error())
		}
	} else {
		span.SetAttributes(attribute.Int("routegen.routes", res.Routes))
		span.SetStatus(codes.Ok, "")
		c.metrics.recordRebuild("success", res.Duration.Seconds())
		c.metrics.routes.Set(float64(res.Routes))
		c.log.Info("routes generated",
			"routes", res.Routes,
			"output", res.Output,
			"duration", res.Duration.Round(time.Millisecond),
		)
		if c.opts.Reload != nil {
			c.opts.Reload.NotifyRoutes(res.Output, res.Routes)
		}
	}

	c.mu.Lock()
	c.last = res
	c.mu.Unlock()

	if c.opts.OnRebuild != nil {
		c.opts.OnRebuild(res)
	}
	return res
}

func (c *Coordinator) rebuild(ctx context.Context) RebuildResult {
	var res RebuildResult

	routes, err := c.scanner.Scan()
	if err != nil {
		res.Err = errors.FromError(err, errors.CodeScanFailed)
		return res
	}

	if err := router.NewValidator(routes).Validate(); err != nil {
		if verr, ok := err.(*router.MultiValidationError); ok {
			for _, e := range verr.Errors {
				c.log.Warn("route conflict", "type", e.Type, "path", e.Path, "message", e.Message)
			}
		} else {
			c.log.Warn("route conflict", "error", err)
		}
	}

	src := c.generator.Generate(routes)
	if err := jsast.Validate(src, c.opts.Output.Target()); err != nil {
		res.Err = errors.FromError(err, errors.CodeGenerateFailed)
		return res
	}

	manifest, err := c.generator.Manifest(routes)
	if err != nil {
		res.Err = errors.New(errors.CodeGenerateFailed).Wrap(err)
		return res
	}

	if err := c.opts.Output.Write(ctx, src); err != nil {
		res.Err = errors.New(errors.CodeWriteFailed).Wrap(err)
		return res
	}
	if c.opts.Manifest != nil {
		if err := c.opts.Manifest.Write(ctx, manifest); err != nil {
			res.Err = errors.New(errors.CodeWriteFailed).Wrap(err)
			return res
		}
	}
	if c.opts.Publish != nil {
		if err := c.opts.Publish.Write(ctx, src); err != nil {
			res.Err = errors.New(errors.CodePublishFailed).Wrap(err)
			return res
		}
	}

	c.mu.Lock()
	c.manifest = manifest
	c.mu.Unlock()

	res.Routes = router.CountRoutes(routes)
	res.Module = src
	return res
}
