package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// NewPrometheusMeter returns a MeterProvider whose instruments are collected
// into a private Prometheus registry. Gather the registry to read them back;
// each call is independent, so repeated runs never collide on collectors.
// Shut the provider down when done.
func NewPrometheusMeter() (*prometheus.Registry, *sdkmetric.MeterProvider, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return registry, NewMeterProvider(exporter), nil
}
