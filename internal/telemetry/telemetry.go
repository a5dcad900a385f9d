// Package telemetry configures the OpenTelemetry tracer provider.
package telemetry

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ServiceName identifies this process in exported spans.
const ServiceName = "spendwise"

// Exporter protocols accepted in Options.Protocol.
const (
	ProtocolHTTP = "http/protobuf"
	ProtocolGRPC = "grpc"
)

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

// Options selects where spans go.
type Options struct {
	Enabled bool
	Version string

	// Endpoint is an OTLP collector URL. When empty spans are written as
	// JSON to Writer.
	Endpoint string
	Protocol string
	Writer   io.Writer
}

// Setup installs a global tracer provider. A non-empty Endpoint turns
// tracing on even when Enabled is false. Otherwise a disabled setup leaves
// the global no-op provider in place and the returned shutdown does nothing.
func Setup(ctx context.Context, opts Options) (ShutdownFunc, error) {
	if !opts.Enabled && opts.Endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := newExporter(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", ServiceName),
		attribute.String("service.version", opts.Version),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

func newExporter(ctx context.Context, opts Options) (sdktrace.SpanExporter, error) {
	if opts.Endpoint == "" {
		return stdouttrace.New(stdouttrace.WithWriter(opts.Writer))
	}

	switch opts.Protocol {
	case "", ProtocolHTTP:
		return otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(opts.Endpoint))
	case ProtocolGRPC:
		return otlptracegrpc.New(ctx, otlptracegrpc.WithEndpointURL(opts.Endpoint))
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", opts.Protocol)
	}
}
