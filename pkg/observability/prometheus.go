package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const (
	metricsPath          = "/metrics"
	metricsReadTimeout   = 10 * time.Second
	metricsDrainDeadline = 5 * time.Second
)

// NewPrometheusMeterProvider creates a MeterProvider whose instruments are
// exported through a Prometheus registry, plus the [http.Handler] serving the
// scrape endpoint. Each call creates an independent registry so repeated
// initialization cannot cause collector conflicts.
func NewPrometheusMeterProvider() (metric.MeterProvider, http.Handler, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(
		promexporter.WithRegisterer(registry),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return mp, handler, nil
}

// ServeMetrics runs an HTTP server exposing handler at /metrics on addr until
// ctx is canceled, then drains in-flight scrapes before returning.
func ServeMetrics(ctx context.Context, addr string, handler http.Handler) error {
	mux := http.NewServeMux()
	mux.Handle(metricsPath, handler)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		drainCtx, cancel := context.WithTimeout(context.Background(), metricsDrainDeadline)
		defer cancel()

		shutdownErr := srv.Shutdown(drainCtx)
		if shutdownErr != nil {
			return fmt.Errorf("shutdown metrics server: %w", shutdownErr)
		}

		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}

		return nil
	}
}
