package dev

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/vango-dev/routegen/internal/errors"
	"github.com/vango-dev/routegen/internal/output"
	"github.com/vango-dev/routegen/pkg/router"
)

const (
	testRoot   = "/app/src/routes"
	testOutput = "/app/src/generated/_generated_routes.tsx"
)

type coordHarness struct {
	fs      billy.Filesystem
	coord   *Coordinator
	events  chan Event
	errs    chan error
	results chan RebuildResult
	spans   *tracetest.SpanRecorder
}

func newHarness(t *testing.T, debounce time.Duration, files map[string]string) *coordHarness {
	t.Helper()

	fs := memfs.New()
	for name, content := range files {
		require.NoError(t, util.WriteFile(fs, testRoot+"/"+name, []byte(content), 0o644))
	}

	h := &coordHarness{
		fs:      fs,
		events:  make(chan Event, 16),
		errs:    make(chan error, 4),
		results: make(chan RebuildResult, 16),
		spans:   tracetest.NewSpanRecorder(),
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(h.spans))

	h.coord = NewCoordinator(CoordinatorOptions{
		Conventions: router.DefaultConventions(testRoot),
		FS:          fs,
		Output:      output.NewFileWriter(fs, testOutput),
		Manifest:    output.NewFileWriter(fs, "/app/src/generated/routes.json"),
		Debounce:    debounce,
		Events:      h.events,
		Errors:      h.errs,
		Tracer:      tp.Tracer("test"),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		OnRebuild: func(res RebuildResult) {
			h.results <- res
		},
	})
	return h
}

// start runs the coordinator and waits for the startup rebuild.
func (h *coordHarness) start(t *testing.T) RebuildResult {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, h.coord.Run(ctx))
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return h.next(t)
}

func (h *coordHarness) next(t *testing.T) RebuildResult {
	t.Helper()
	select {
	case res := <-h.results:
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for rebuild")
		return RebuildResult{}
	}
}

func (h *coordHarness) assertNoRebuild(t *testing.T, wait time.Duration) {
	t.Helper()
	select {
	case res := <-h.results:
		t.Fatalf("unexpected rebuild: %+v", res)
	case <-time.After(wait):
	}
}

func (h *coordHarness) read(t *testing.T, name string) string {
	t.Helper()
	data, err := util.ReadFile(h.fs, name)
	require.NoError(t, err)
	return string(data)
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}

func TestCoordinatorStartupRebuild(t *testing.T) {
	h := newHarness(t, 50*time.Millisecond, map[string]string{
		"_layout.tsx": "",
		"index.tsx":   "",
		"about.tsx":   "",
	})

	res := h.start(t)

	require.NoError(t, res.Err)
	assert.Equal(t, 3, res.Routes)
	assert.Equal(t, testOutput, res.Output)

	src := h.read(t, testOutput)
	assert.Equal(t, string(res.Module), src)
	assert.Contains(t, src, router.GeneratedHeader)
	assert.Contains(t, src, `import RouteComp0 from "./routes/_layout";`)
	assert.Contains(t, src, `path: "about"`)

	manifest := h.read(t, "/app/src/generated/routes.json")
	assert.Equal(t, manifest, string(h.coord.Manifest()))
	assert.Contains(t, manifest, `"element": "./routes/about"`)

	assert.Equal(t, 1.0, counterValue(t, h.coord.metrics.rebuilds.WithLabelValues("success")))
	assert.Equal(t, 3.0, gaugeValue(t, h.coord.metrics.routes))
}

func TestCoordinatorDebouncesBurst(t *testing.T) {
	h := newHarness(t, 100*time.Millisecond, map[string]string{"index.tsx": ""})
	h.start(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, util.WriteFile(h.fs, testRoot+"/page"+string(rune('a'+i))+".tsx", nil, 0o644))
		h.events <- Event{Op: OpFileAdded, Path: testRoot}
		time.Sleep(10 * time.Millisecond)
	}

	res := h.next(t)
	require.NoError(t, res.Err)
	assert.Equal(t, 6, res.Routes)
	h.assertNoRebuild(t, 300*time.Millisecond)

	assert.Equal(t, 5.0, counterValue(t, h.coord.metrics.fsEvents.WithLabelValues("file_added")))
	assert.Equal(t, 2.0, counterValue(t, h.coord.metrics.rebuilds.WithLabelValues("success")))
}

func TestCoordinatorSpacedEvents(t *testing.T) {
	h := newHarness(t, 30*time.Millisecond, map[string]string{"index.tsx": ""})
	h.start(t)

	for i := 0; i < 3; i++ {
		h.events <- Event{Op: OpFileRemoved, Path: testRoot + "/gone.tsx"}
		res := h.next(t)
		require.NoError(t, res.Err)
	}
	h.assertNoRebuild(t, 100*time.Millisecond)

	assert.Equal(t, 4.0, counterValue(t, h.coord.metrics.rebuilds.WithLabelValues("success")))
}

func TestCoordinatorFailurePreservesOutput(t *testing.T) {
	h := newHarness(t, 30*time.Millisecond, map[string]string{"index.tsx": ""})
	h.start(t)
	before := h.read(t, testOutput)

	require.NoError(t, util.RemoveAll(h.fs, testRoot))
	h.events <- Event{Op: OpDirRemoved, Path: testRoot}

	res := h.next(t)
	require.Error(t, res.Err)
	assert.Equal(t, errors.CodeRootMissing, errors.Code(res.Err))
	assert.Nil(t, res.Module)
	assert.Equal(t, before, h.read(t, testOutput))
	assert.Equal(t, 1.0, counterValue(t, h.coord.metrics.rebuilds.WithLabelValues("error")))
	assert.Equal(t, res, h.coord.LastResult())

	// The coordinator keeps going once the tree is back.
	require.NoError(t, util.WriteFile(h.fs, testRoot+"/about.tsx", nil, 0o644))
	h.events <- Event{Op: OpFileAdded, Path: testRoot + "/about.tsx"}

	res = h.next(t)
	require.NoError(t, res.Err)
	assert.Contains(t, h.read(t, testOutput), `path: "about"`)
}

func TestCoordinatorWatchErrors(t *testing.T) {
	h := newHarness(t, 30*time.Millisecond, map[string]string{"index.tsx": ""})
	h.start(t)

	h.errs <- stderrors.New("queue overflow")
	h.assertNoRebuild(t, 100*time.Millisecond)

	assert.Equal(t, 1.0, counterValue(t, h.coord.metrics.watchErrors))
}

func TestCoordinatorWriteFailure(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, testRoot+"/index.tsx", nil, 0o644))

	coord := NewCoordinator(CoordinatorOptions{
		Conventions: router.DefaultConventions(testRoot),
		FS:          fs,
		Output:      failingWriter{},
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	res := coord.Rebuild(context.Background())

	assert.Equal(t, errors.CodeWriteFailed, errors.Code(res.Err))
	assert.Nil(t, coord.Manifest())
}

type failingWriter struct{}

func (failingWriter) Write(context.Context, []byte) error { return stderrors.New("disk full") }
func (failingWriter) Target() string                      { return "/dev/full/routes.tsx" }

func TestCoordinatorTracesRebuild(t *testing.T) {
	h := newHarness(t, 30*time.Millisecond, map[string]string{
		"index.tsx": "",
		"about.tsx": "",
	})
	h.coord.Rebuild(context.Background())

	spans := h.spans.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "routegen.rebuild", span.Name())
	assert.Equal(t, codes.Ok, span.Status().Code)
	assert.Contains(t, span.Attributes(), attribute.String("routegen.output", testOutput))
	assert.Contains(t, span.Attributes(), attribute.Int("routegen.routes", 2))

	require.NoError(t, util.RemoveAll(h.fs, testRoot))
	h.coord.Rebuild(context.Background())

	spans = h.spans.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

func TestCoordinatorPublishes(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, testRoot+"/index.tsx", nil, 0o644))
	published := output.NewFileWriter(fs, "/bucket/routes.tsx")

	coord := NewCoordinator(CoordinatorOptions{
		Conventions: router.DefaultConventions(testRoot),
		FS:          fs,
		Output:      output.NewFileWriter(fs, testOutput),
		Publish:     published,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	res := coord.Rebuild(context.Background())
	require.NoError(t, res.Err)

	data, err := util.ReadFile(fs, "/bucket/routes.tsx")
	require.NoError(t, err)
	assert.Equal(t, res.Module, data)
}

func TestCoordinatorWritesJavaScriptOutputs(t *testing.T) {
	for _, ext := range []string{".jsx", ".js"} {
		t.Run(ext, func(t *testing.T) {
			fs := memfs.New()
			require.NoError(t, util.WriteFile(fs, testRoot+"/index.tsx", nil, 0o644))
			target := "/app/src/generated/_generated_routes" + ext

			coord := NewCoordinator(CoordinatorOptions{
				Conventions: router.DefaultConventions(testRoot),
				FS:          fs,
				Output:      output.NewFileWriter(fs, target),
				Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
			})

			res := coord.Rebuild(context.Background())
			require.NoError(t, res.Err)

			data, err := util.ReadFile(fs, target)
			require.NoError(t, err)
			assert.Contains(t, string(data), "RouteObject[]")
		})
	}
}

func TestCoordinatorOutputUnderRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.tsx"), nil, 0o644))

	results := make(chan RebuildResult, 16)
	coord := NewCoordinator(CoordinatorOptions{
		Conventions: router.DefaultConventions(root),
		Output:      output.NewFileWriter(nil, filepath.Join(root, "routes.gen.tsx")),
		Manifest:    output.NewFileWriter(nil, filepath.Join(root, "routes.gen.json")),
		Debounce:    50 * time.Millisecond,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		OnRebuild: func(res RebuildResult) {
			results <- res
		},
	})
	h := &coordHarness{coord: coord, results: results}
	res := h.start(t)

	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Routes, "generated module is not scanned as a route")

	// Replacing the output must not feed back into another rebuild.
	h.assertNoRebuild(t, 500*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "about.tsx"), nil, 0o644))
	res = h.next(t)
	require.NoError(t, res.Err)
	assert.Equal(t, 2, res.Routes)
	h.assertNoRebuild(t, 300*time.Millisecond)
}
