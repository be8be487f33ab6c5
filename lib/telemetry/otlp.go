package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ExporterConfig points one signal at an otlp collector.
type ExporterConfig struct {
	// full url of the collector, the signal is not exported when empty
	Endpoint string `json:"endpoint"`
	// "http" (default) or "grpc"
	Protocol string            `json:"protocol"`
	Headers  map[string]string `json:"headers"`
}

func (c ExporterConfig) protocol() string {
	if c.Protocol == "" {
		return "http"
	}
	return c.Protocol
}

// Config is the contents of telemetry.json5.
type Config struct {
	Traces  ExporterConfig `json:"traces"`
	Metrics ExporterConfig `json:"metrics"`
	// defaults to 15 seconds
	MetricIntervalSeconds int `json:"metric_interval_seconds"`
}

type exporterConstructors[T any] struct {
	grpc func(ctx context.Context, c ExporterConfig) (T, error)
	http func(ctx context.Context, c ExporterConfig) (T, error)
}

var spanExporters = exporterConstructors[trace.SpanExporter]{
	grpc: func(ctx context.Context, c ExporterConfig) (trace.SpanExporter, error) {
		return otlptracegrpc.New(ctx, otlptracegrpc.WithEndpointURL(c.Endpoint), otlptracegrpc.WithHeaders(c.Headers))
	},
	http: func(ctx context.Context, c ExporterConfig) (trace.SpanExporter, error) {
		return otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(c.Endpoint), otlptracehttp.WithHeaders(c.Headers))
	},
}

var metricExporters = exporterConstructors[metric.Exporter]{
	grpc: func(ctx context.Context, c ExporterConfig) (metric.Exporter, error) {
		return otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithEndpointURL(c.Endpoint), otlpmetricgrpc.WithHeaders(c.Headers))
	},
	http: func(ctx context.Context, c ExporterConfig) (metric.Exporter, error) {
		return otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpointURL(c.Endpoint), otlpmetrichttp.WithHeaders(c.Headers))
	},
}

func newExporter[T any](ctx context.Context, signal string, c ExporterConfig, constructors exporterConstructors[T]) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()

	var constructor func(ctx context.Context, c ExporterConfig) (T, error)
	switch c.protocol() {
	case "grpc":
		constructor = constructors.grpc
	case "http":
		constructor = constructors.http
	default:
		var zero T
		return zero, fmt.Errorf("%s: unknown otlp protocol %q", signal, c.Protocol)
	}

	exporter, err := constructor(ctx, c)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s: create exporter: %w", signal, err)
	}
	slog.Info(
		"otlp exporter initialized",
		"signal", signal,
		"protocol", c.protocol(),
		"endpoint", c.Endpoint,
		"headers", len(c.Headers) > 0,
	)
	return exporter, nil
}

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}

func newTraceProvider(ctx context.Context, r *resource.Resource, c ExporterConfig) (*trace.TracerProvider, error) {
	exporter, err := newExporter(ctx, "traces", c, spanExporters)
	if err != nil {
		return nil, err
	}
	return trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(r),
	), nil
}

func newMetricProvider(ctx context.Context, r *resource.Resource, c ExporterConfig, interval time.Duration) (*metric.MeterProvider, error) {
	exporter, err := newExporter(ctx, "metrics", c, metricExporters)
	if err != nil {
		return nil, err
	}
	return metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exporter, metric.WithInterval(interval))),
		metric.WithResource(r),
	), nil
}
