// Package otel reports import phases as OpenTelemetry spans.
package otel

import (
	"context"
	"fmt"

	otelglobal "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"

	"github.com/custodia-labs/trove/internal/core/domain"
)

// NewTracerProvider builds a tracer provider for the given settings and
// installs it as the global provider.
//
// When no OTLP endpoint is configured the provider has no exporter: spans
// are still created, so span processors registered later (tests, debugging)
// see them, but nothing leaves the process.
// The caller owns the provider and must Shutdown it to flush pending spans.
func NewTracerProvider(
	ctx context.Context,
	settings domain.TelemetrySettings,
	version string,
) (*sdktrace.TracerProvider, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceNameKey.String(settings.ServiceName),
			semconv.ServiceVersionKey.String(version),
		))
	if err != nil {
		return nil, fmt.Errorf("building resource: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
	}

	if settings.Enabled() {
		exp, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithInsecure(),
			otlptracegrpc.WithEndpoint(settings.OTLPEndpoint),
		)
		if err != nil {
			return nil, fmt.Errorf("creating otlp exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exp))
	}

	tp := sdktrace.NewTracerProvider(opts...)

	otelglobal.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	otelglobal.SetTracerProvider(tp)

	return tp, nil
}
