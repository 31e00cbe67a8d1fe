package otel

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/custodia-labs/trove/internal/core/ports/driven"
)

// Ensure Telemetry implements the interface.
var _ driven.Telemetry = (*Telemetry)(nil)

// Span names.
const (
	SpanFirstContent = "trove.first_meaningful_content"
	SpanLoad         = "trove.load"
	SpanResolve      = "trove.resolve"
)

// Attribute keys.
const (
	AttrRecordCount       = attribute.Key("trove.record_count")
	AttrLoadedRecords     = attribute.Key("trove.load.records")
	AttrPerRecordMicros   = attribute.Key("trove.load.per_record_us")
	AttrLoadDurationMilli = attribute.Key("trove.load.duration_ms")
)

// Telemetry records one import as a span tree: a first-meaningful-content
// span from importer construction to reveal, with the load and resolve
// phases as children.
type Telemetry struct {
	tracer trace.Tracer

	mu   sync.Mutex
	root trace.Span
}

// New creates a telemetry sink from a tracer provider.
func New(tp trace.TracerProvider) *Telemetry {
	return &Telemetry{
		tracer: tp.Tracer("github.com/custodia-labs/trove"),
	}
}

// StartFirstContent opens the root span. A second call is ignored.
func (t *Telemetry) StartFirstContent() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.root != nil {
		return
	}
	_, t.root = t.tracer.Start(context.Background(), SpanFirstContent)
}

// EndFirstContent closes the root span.
func (t *Telemetry) EndFirstContent() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.root != nil {
		t.root.End()
	}
}

// RecordCount tags the root span with the number of records.
func (t *Telemetry) RecordCount(_ context.Context, n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.root != nil {
		t.root.SetAttributes(AttrRecordCount.Int(n))
	}
}

// LoadPhase records the finished load phase as a child span covering d.
func (t *Telemetry) LoadPhase(ctx context.Context, d time.Duration, records int) {
	end := time.Now()
	var perRecord time.Duration
	if records > 0 {
		perRecord = d / time.Duration(records)
	}

	_, span := t.tracer.Start(t.parent(ctx), SpanLoad, trace.WithTimestamp(end.Add(-d)))
	span.SetAttributes(
		AttrLoadedRecords.Int(records),
		AttrLoadDurationMilli.Int64(d.Milliseconds()),
		AttrPerRecordMicros.Int64(perRecord.Microseconds()),
	)
	span.End(trace.WithTimestamp(end))
}

// StartResolve opens the resolve span; the returned function ends it.
func (t *Telemetry) StartResolve(ctx context.Context) func() {
	_, span := t.tracer.Start(t.parent(ctx), SpanResolve)
	return func() { span.End() }
}

// parent returns ctx with the root span as the active span.
func (t *Telemetry) parent(ctx context.Context) context.Context {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.root == nil {
		return ctx
	}
	return trace.ContextWithSpan(ctx, t.root)
}
