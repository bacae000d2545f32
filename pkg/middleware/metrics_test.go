package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(mw ...func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(mw...)
	r.Get("/routes/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/broken", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	return r
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

// findMetric returns the metric in family name whose labels include want.
func findMetric(t *testing.T, reg *prometheus.Registry, name string, want map[string]string) *dto.Metric {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			for k, v := range want {
				if labels[k] != v {
					continue next
				}
			}
			return m
		}
	}
	return nil
}

func TestPrometheusCountsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := newRouter(Prometheus(WithRegistry(reg)))

	serve(h, http.MethodGet, "/routes/1")
	serve(h, http.MethodGet, "/routes/2")
	serve(h, http.MethodGet, "/broken")
	serve(h, http.MethodGet, "/nowhere")

	m := findMetric(t, reg, "routegen_http_requests_total", map[string]string{
		"route": "/routes/{id}", "method": "GET", "status": "200",
	})
	require.NotNil(t, m)
	assert.Equal(t, 2.0, m.GetCounter().GetValue())

	m = findMetric(t, reg, "routegen_http_requests_total", map[string]string{
		"route": "/broken", "status": "500",
	})
	require.NotNil(t, m)
	assert.Equal(t, 1.0, m.GetCounter().GetValue())

	m = findMetric(t, reg, "routegen_http_requests_total", map[string]string{
		"route": "unmatched", "status": "404",
	})
	require.NotNil(t, m)

	m = findMetric(t, reg, "routegen_http_request_duration_seconds", map[string]string{
		"route": "/routes/{id}",
	})
	require.NotNil(t, m)
	assert.Equal(t, uint64(2), m.GetHistogram().GetSampleCount())
}

func TestPrometheusOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := newRouter(Prometheus(
		WithRegistry(reg),
		WithNamespace("dev"),
		WithSubsystem("api"),
		WithConstLabels(prometheus.Labels{"instance": "a"}),
		WithBuckets([]float64{0.1, 1}),
	))

	serve(h, http.MethodGet, "/routes/1")

	m := findMetric(t, reg, "dev_api_http_requests_total", map[string]string{"instance": "a"})
	require.NotNil(t, m)
	m = findMetric(t, reg, "dev_api_http_request_duration_seconds", nil)
	require.NotNil(t, m)
	assert.Len(t, m.GetHistogram().GetBucket(), 2)
}

func TestRoutePatternOutsideChi(t *testing.T) {
	assert.Equal(t, "unmatched", RoutePattern(httptest.NewRequest(http.MethodGet, "/x", nil)))
}
