// Package middleware provides HTTP observability middleware for the routegen
// dev server.
//
// This package includes:
//   - OpenTelemetry tracing middleware
//   - Prometheus metrics middleware
//
// Both take chi's matched route pattern as the route label, so they belong
// inside a chi router:
//
//	r := chi.NewRouter()
//	r.Use(
//	    middleware.OpenTelemetry(middleware.WithTracerName("routegen")),
//	    middleware.Prometheus(middleware.WithRegistry(reg)),
//	)
//
// # Prometheus Metrics
//
//   - <namespace>_http_requests_total: Requests by route, method and status
//   - <namespace>_http_request_duration_seconds: Request duration by route
//
// Requests that match no route are labelled "unmatched".
package middleware
