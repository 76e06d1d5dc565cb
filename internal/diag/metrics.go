// Package diag serves the diagnostics endpoints of the publisher.
package diag

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
	export "go.opentelemetry.io/otel/sdk/export/metric"
	"go.opentelemetry.io/otel/sdk/metric/aggregator/histogram"
	controller "go.opentelemetry.io/otel/sdk/metric/controller/basic"
	processor "go.opentelemetry.io/otel/sdk/metric/processor/basic"
	selector "go.opentelemetry.io/otel/sdk/metric/selector/simple"
)

// Metrics records per request instruments and exposes them in the
// Prometheus format.
type Metrics struct {
	exporter  *prometheus.Exporter
	completed metric.Int64Counter
	latency   metric.Float64ValueRecorder
}

func NewMetrics(serviceName string) (*Metrics, error) {
	config := prometheus.Config{}
	c := controller.New(
		processor.New(
			selector.NewWithHistogramDistribution(
				histogram.WithExplicitBoundaries(config.DefaultHistogramBoundaries),
			),
			export.CumulativeExportKindSelector(),
			processor.WithMemory(true),
		),
	)

	exporter, err := prometheus.New(config, c)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize prometheus exporter: %w", err)
	}
	global.SetMeterProvider(exporter.MeterProvider())

	meter := exporter.MeterProvider().Meter(serviceName)

	return &Metrics{
		exporter: exporter,
		completed: metric.Must(meter).NewInt64Counter(
			"http/server/completed_count",
			metric.WithDescription("Count of completed requests, by HTTP method, route and response status"),
		),
		latency: metric.Must(meter).NewFloat64ValueRecorder(
			"http/server/latency",
			metric.WithDescription("Request latency in milliseconds, by HTTP method, route and response status"),
		),
	}, nil
}

// Middleware counts every completed request and records its latency.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		labels := []attribute.KeyValue{
			attribute.String("method", r.Method),
			attribute.String("route", route),
			attribute.String("status", strconv.Itoa(status)),
		}

		m.completed.Add(r.Context(), 1, labels...)
		m.latency.Record(r.Context(), float64(time.Since(start).Microseconds())/1000, labels...)
	})
}

// Router serves /metrics.
func (m *Metrics) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/metrics", m.exporter.ServeHTTP)

	return r
}
