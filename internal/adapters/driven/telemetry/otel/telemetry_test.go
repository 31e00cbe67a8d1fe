package otel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/custodia-labs/trove/internal/core/domain"
)

func newRecordedTelemetry() (*Telemetry, *tracetest.SpanRecorder) {
	spanRecorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spanRecorder))
	return New(tp), spanRecorder
}

func attr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTelemetry_SpanTree(t *testing.T) {
	tel, spanRecorder := newRecordedTelemetry()
	ctx := context.Background()

	tel.StartFirstContent()
	tel.RecordCount(ctx, 250)
	tel.LoadPhase(ctx, 40*time.Millisecond, 250)
	end := tel.StartResolve(ctx)
	end()
	tel.EndFirstContent()

	spans := spanRecorder.Ended()
	require.Len(t, spans, 3)
	load, resolve, root := spans[0], spans[1], spans[2]

	assert.Equal(t, SpanLoad, load.Name())
	assert.Equal(t, SpanResolve, resolve.Name())
	assert.Equal(t, SpanFirstContent, root.Name())

	assert.Equal(t, root.SpanContext().SpanID(), load.Parent().SpanID())
	assert.Equal(t, root.SpanContext().SpanID(), resolve.Parent().SpanID())
	assert.Equal(t, root.SpanContext().TraceID(), load.SpanContext().TraceID())

	count, ok := attr(root, AttrRecordCount)
	require.True(t, ok)
	assert.Equal(t, int64(250), count.AsInt64())

	perRecord, ok := attr(load, AttrPerRecordMicros)
	require.True(t, ok)
	assert.Equal(t, int64(160), perRecord.AsInt64())
	assert.Equal(t, 40*time.Millisecond, load.EndTime().Sub(load.StartTime()))
}

func TestTelemetry_LoadPhase_NoRecords(t *testing.T) {
	tel, spanRecorder := newRecordedTelemetry()

	tel.StartFirstContent()
	tel.LoadPhase(context.Background(), 0, 0)

	spans := spanRecorder.Ended()
	require.Len(t, spans, 1)
	perRecord, ok := attr(spans[0], AttrPerRecordMicros)
	require.True(t, ok)
	assert.Equal(t, int64(0), perRecord.AsInt64())
}

func TestTelemetry_StartFirstContent_Once(t *testing.T) {
	tel, spanRecorder := newRecordedTelemetry()

	tel.StartFirstContent()
	tel.StartFirstContent()

	assert.Empty(t, spanRecorder.Ended())
	assert.Len(t, spanRecorder.Started(), 1)
}

func TestTelemetry_WithoutRoot(t *testing.T) {
	tel, spanRecorder := newRecordedTelemetry()

	tel.RecordCount(context.Background(), 3)
	tel.StartResolve(context.Background())()
	tel.EndFirstContent()

	spans := spanRecorder.Ended()
	require.Len(t, spans, 1)
	assert.False(t, spans[0].Parent().IsValid())
}

func TestNewTracerProvider(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), domain.TelemetrySettings{ServiceName: "trove-test"}, "0.0.0")
	require.NoError(t, err)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	spanRecorder := tracetest.NewSpanRecorder()
	tp.RegisterSpanProcessor(spanRecorder)

	_, span := tp.Tracer("").Start(context.Background(), "test")
	span.End()

	spans := spanRecorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "test", spans[0].Name())

	var serviceName string
	for _, kv := range spans[0].Resource().Attributes() {
		if kv.Key == "service.name" {
			serviceName = kv.Value.AsString()
		}
	}
	assert.Equal(t, "trove-test", serviceName)
}

func TestNewTracerProvider_WithEndpoint(t *testing.T) {
	settings := domain.TelemetrySettings{OTLPEndpoint: "localhost:4317", ServiceName: "trove-test"}

	tp, err := NewTracerProvider(context.Background(), settings, "0.0.0")

	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = tp.Shutdown(ctx)
}
